package auth

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// ValidationMode selects how actions read a ParseResult
type ValidationMode int

const (
	// ValidationLenient only checks that a parse result was produced, so
	// field errors never reach the caller
	ValidationLenient ValidationMode = iota
	// ValidationStrict rejects payloads whose parse result failed
	ValidationStrict
)

func (m ValidationMode) String() string {
	switch m {
	case ValidationStrict:
		return "strict"
	default:
		return "lenient"
	}
}

// ParseResult is the outcome of checking a payload against its schema
type ParseResult struct {
	Success bool
	Data    any
	Error   error
	Fields  map[string]string
}

// Accepts reports whether an action running in mode should proceed
func (m ValidationMode) Accepts(res *ParseResult) bool {
	if m == ValidationStrict {
		return res != nil && res.Success
	}
	return res != nil
}

// LoginValues is the sign in payload
type LoginValues struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginValues) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required.Error("Email is required"),
			is.Email.Error("Email is invalid"),
		),
		validation.Field(
			&r.Password,
			validation.Required.Error("Password is required"),
		),
	)
}

// RegisterValues is the sign up payload
type RegisterValues struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Name     string `form:"name" json:"name"`
}

// Validate will run validation rules
func (r RegisterValues) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required.Error("Email is required"),
			is.Email.Error("Email is invalid"),
		),
		validation.Field(
			&r.Password,
			validation.Required.Error("Password is required"),
			validation.Length(6, 0).Error("Minimum 6 characters required"),
		),
		validation.Field(
			&r.Name,
			validation.Required.Error("Name is required"),
		),
	)
}

// ResetValue is the forgot password payload. Any string is accepted.
type ResetValue string

// Validate accepts every value
func (r ResetValue) Validate() error {
	return nil
}

// SafeParseLogin checks values against the sign in schema
func SafeParseLogin(values LoginValues) *ParseResult {
	return safeParse(values, values.Validate())
}

// SafeParseRegister checks values against the sign up schema
func SafeParseRegister(values RegisterValues) *ParseResult {
	return safeParse(values, values.Validate())
}

// SafeParseReset checks value against the reset schema
func SafeParseReset(value string) *ParseResult {
	v := ResetValue(value)
	return safeParse(string(v), v.Validate())
}

func safeParse(data any, err error) *ParseResult {
	if err != nil {
		return &ParseResult{
			Success: false,
			Error:   err,
			Fields:  FormatValidationErrorToMap(err),
		}
	}
	return &ParseResult{Success: true, Data: data}
}

// FormatValidationErrorToMap flattens validation errors into field => message
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			if ferr == nil {
				continue
			}
			out[field] = ferr.Error()
		}
		return out
	}

	out["form"] = strings.TrimSpace(err.Error())
	return out
}
