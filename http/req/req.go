package req

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/xy-planning-network/portal"
)

type Parser struct {
	decoder valuesDecoder
	validator
}

func NewParser() *Parser {
	return &Parser{
		decoder:   newValuesDecoder(),
		validator: newValidator(),
	}
}

// ParseBody decodes into a pointer to a struct the JSON data in body.
// If successful, ParseBody runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
//
// ParseBody reads the entire body and can't be read from again.
func (p *Parser) ParseBody(body io.Reader, structPtr any) error {
	var ourFault *json.InvalidUnmarshalError
	err := json.NewDecoder(body).Decode(structPtr)
	if errors.As(err, &ourFault) {
		return fmt.Errorf("portal/http/req: %w: ParseBody called with non-pointer: %s", portal.ErrUnexpected, err)
	}

	if err != nil {
		return fmt.Errorf("portal/http/req: %w: failed decoding request body: %s", portal.ErrBadFormat, err)
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("portal/http/req: %T failed validation: %w", structPtr, err)
	}

	return nil
}

// ParseForm decodes into a pointer to a struct the form values posted in r.
// If successful, ParseForm runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
func (p *Parser) ParseForm(r *http.Request, structPtr any) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("portal/http/req: %w: failed parsing form: %s", portal.ErrBadFormat, err)
	}

	return p.parseValues(r.PostForm, structPtr)
}

// ParseQueryParams decodes into a pointer to a struct the query param data in *http.Request.URL.Query.
// If successful, ParseQueryParams runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
func (p *Parser) ParseQueryParams(params url.Values, structPtr any) error {
	return p.parseValues(params, structPtr)
}

func (p *Parser) parseValues(vals url.Values, structPtr any) error {
	if err := p.decoder.decode(structPtr, vals); err != nil {
		return fmt.Errorf("portal/http/req: failed decoding values: %w", err)
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("portal/http/req: %T failed validation: %w", structPtr, err)
	}

	return nil
}
