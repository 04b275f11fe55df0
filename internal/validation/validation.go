package validation

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var ErrValidation = errors.New("validation")

// FormField is the key used for messages that belong to the whole form
// rather than to a single input.
const FormField = "form"

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Errors maps a field name to the message shown next to it.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e Errors) Unwrap() error { return ErrValidation }

// Has reports whether field has a message.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Validator returns an empty string when v is valid, a message otherwise.
type Validator func(v string) string

func Required(msg string) Validator {
	return func(v string) string {
		if strings.TrimSpace(v) == "" {
			return msg
		}
		return ""
	}
}

// MinRunes counts runes of the trimmed value.
func MinRunes(n int, msg string) Validator {
	return func(v string) string {
		if utf8.RuneCountInString(strings.TrimSpace(v)) < n {
			return msg
		}
		return ""
	}
}

// MinLen counts bytes of the raw value, the way a password input is measured.
func MinLen(n int, msg string) Validator {
	return func(v string) string {
		if len(v) < n {
			return msg
		}
		return ""
	}
}

func Email(msg string) Validator {
	return func(v string) string {
		if !IsEmail(v) {
			return msg
		}
		return ""
	}
}

func OneOf(options []string, msg string) Validator {
	return func(v string) string {
		for _, o := range options {
			if v == o {
				return ""
			}
		}
		return msg
	}
}

// Check turns a boolean condition into a validator.
func Check(ok bool, msg string) Validator {
	return func(string) string {
		if ok {
			return ""
		}
		return msg
	}
}

func IsEmail(v string) bool {
	return emailRe.MatchString(v)
}

// FieldValidator accumulates errors for several fields, keeping the first
// failure per field.
type FieldValidator struct {
	errors Errors
}

func New() *FieldValidator {
	return &FieldValidator{errors: Errors{}}
}

func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	for _, v := range validators {
		if msg := v(value); msg != "" {
			fv.errors[field] = msg
			break
		}
	}
	return fv
}

func (fv *FieldValidator) Valid() bool {
	return len(fv.errors) == 0
}

// Err returns nil when every field passed.
func (fv *FieldValidator) Err() error {
	if fv.Valid() {
		return nil
	}
	return fv.errors
}

// Single builds an Errors value holding one message.
func Single(field, msg string) Errors {
	return Errors{field: msg}
}

// AsErrors extracts field messages from err, if it carries any.
func AsErrors(err error) (Errors, bool) {
	var fe Errors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
