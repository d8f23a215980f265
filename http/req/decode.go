package req

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gorilla/schema"
	"github.com/xy-planning-network/portal"
)

// valuesDecoder wraps a *schema.Decoder, translating its errors.
type valuesDecoder struct {
	*schema.Decoder
}

func newValuesDecoder() valuesDecoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)

	return valuesDecoder{dec}
}

func (d valuesDecoder) decode(structPtr any, vals map[string][]string) error {
	if err := d.Decode(structPtr, vals); err != nil {
		return translateDecoderError(err)
	}

	return nil
}

// translateDecoderError converts an error returned by *schema.Decoder into standardized errors.
// Some *schema.Decoder errors are issues with calling code;
// some errors are unexpected issues;
// still some are issues with mismatches between a request's values and the expected shape.
func translateDecoderError(err error) error {
	var pkgErrs schema.MultiError
	// NOTE(dlk): outside other errors handled above,
	// the package appears to always use MultiError to wrap errors up.
	if !errors.As(err, &pkgErrs) {
		return fmt.Errorf("%w: %s", portal.ErrBadFormat, err)
	}

	var validErrs ValidationErrors
	for _, pkgErr := range pkgErrs {
		switch err := pkgErr.(type) {
		case schema.ConversionError:
			validErrs = append(validErrs, ValidationError{
				Field: err.Key,
				// NOTE(dlk): For non-slice values, ce.Index is -1.
				Got:  fmt.Sprintf("bad value at index %d", max(0, err.Index)),
				Rule: "must be " + err.Type.String(),
			})

		case schema.EmptyFieldError:
			return fmt.Errorf(`%w: use validate pkg to set "required" fields, not schema`, portal.ErrNotImplemented)

		case schema.UnknownKeyError:
			validErrs = append(validErrs, ValidationError{
				Field: err.Key,
				Got:   "value is set",
				Rule:  "unexpected key should not be set",
			})

		default:
			if strings.Contains(err.Error(), "schema: converter not found for") {
				return fmt.Errorf("%w: cannot convert values into unsupported type", portal.ErrNotImplemented)
			}

			return fmt.Errorf("%w: %s", portal.ErrUnexpected, err)
		}
	}

	return validErrs
}
