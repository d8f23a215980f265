package authclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/xy-planning-network/portal"
	"github.com/xy-planning-network/portal/http/req"
)

const (
	CredentialsMsg  = "Invalid email or password."
	IncompleteMsg   = "Please fill in all required fields."
	InvalidEmailMsg = "Please enter a valid email address."
	UnreachableMsg  = "We couldn't reach the server. Please try again later."
	genericMsgTmpl  = "Something went wrong (status %d). Please try again."
)

// Message maps err to the text shown to a visitor.
//
// A 401 is a credential error; a 400, or input failing to decode or validate, is an incomplete-input error.
// A filled in but malformed email gets its own message.
// Other statuses are reported with their code.
func Message(err error) string {
	if err == nil {
		return ""
	}

	if badEmail(err) {
		return InvalidEmailMsg
	}

	if errors.Is(err, portal.ErrNotValid) || errors.Is(err, portal.ErrBadFormat) {
		return IncompleteMsg
	}

	var se *StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusUnauthorized:
			return CredentialsMsg
		case http.StatusBadRequest:
			return IncompleteMsg
		default:
			return fmt.Sprintf(genericMsgTmpl, se.Code)
		}
	}

	if errors.Is(err, ErrUnreachable) {
		return UnreachableMsg
	}

	return fmt.Sprintf(genericMsgTmpl, http.StatusInternalServerError)
}

// badEmail reports whether the only rule err breaks is an email format check.
func badEmail(err error) bool {
	var ves req.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return false
	}

	for _, ve := range ves {
		if !strings.HasPrefix(ve.Rule, "email") {
			return false
		}
	}

	return true
}
