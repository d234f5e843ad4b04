package auth

import (
	"encoding/json"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// ErrorKind is the externally visible classification of a failure.
type ErrorKind int

const (
	// KindInternal is any failure we do not recognize
	KindInternal ErrorKind = iota
	// KindUnauthorized is an unknown identifier or rejected token
	KindUnauthorized
	// KindValidationFailed is a malformed inbound payload
	KindValidationFailed
)

const (
	TextCodeUnauthorized     = "UnauthorizedException"
	TextCodeValidationFailed = "Bad Request"
	TextCodeInternal         = "InternalServerException"
)

const validationDetailsKey = "details"

// ErrUnauthorized is returned when no client matches the presented identifier.
// The message is the same whether the identifier was unknown or unusable.
var ErrUnauthorized = goerrors.New("Unauthorized", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeUnauthorized)

// ErrTokenExpired is returned by TokenService.Validate for expired tokens
var ErrTokenExpired = goerrors.New("Token expired", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode("TOKEN_EXPIRED")

// ErrTokenMalformed is returned by TokenService.Validate for tokens that
// can not be parsed or verified
var ErrTokenMalformed = goerrors.New("Token malformed", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode("TOKEN_MALFORMED")

// FieldDetail describes one failing input constraint
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorEnvelope is the JSON body of every error response
type ErrorEnvelope struct {
	Error   string        `json:"error"`
	Message string        `json:"message"`
	Details []FieldDetail `json:"details"`
}

// MarshalJSON drops the details key when Details is nil. An empty, non nil
// slice is kept and encoded as [].
func (e ErrorEnvelope) MarshalJSON() ([]byte, error) {
	if e.Details == nil {
		return json.Marshal(struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}{e.Error, e.Message})
	}

	type envelope ErrorEnvelope
	return json.Marshal(envelope(e))
}

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindValidationFailed:
		return "validation_failed"
	default:
		return "internal"
	}
}

// HTTPStatus returns the response status for the kind
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindValidationFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// TextCode returns the stable code attached to errors of this kind
func (k ErrorKind) TextCode() string {
	switch k {
	case KindUnauthorized:
		return TextCodeUnauthorized
	case KindValidationFailed:
		return TextCodeValidationFailed
	default:
		return TextCodeInternal
	}
}

// Label is the value of the envelope "error" field
func (k ErrorKind) Label() string {
	return http.StatusText(k.HTTPStatus())
}

// NewValidationError builds a validation failure carrying every failing field.
func NewValidationError(details ...FieldDetail) *goerrors.Error {
	return goerrors.New("Validation failed", goerrors.CategoryValidation).
		WithCode(goerrors.CodeBadRequest).
		WithTextCode(TextCodeValidationFailed).
		WithMetadata(map[string]any{
			validationDetailsKey: details,
		})
}

// KindOf classifies err. Anything that is not an auth or validation
// failure is KindInternal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindInternal
	}

	var verrs validation.Errors
	if goerrors.As(err, &verrs) {
		return KindValidationFailed
	}

	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return KindInternal
	}

	switch richErr.Category {
	case goerrors.CategoryAuth:
		return KindUnauthorized
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return KindValidationFailed
	default:
		return KindInternal
	}
}

// ValidationDetails extracts the per field details from a validation failure
func ValidationDetails(err error) []FieldDetail {
	var verrs validation.Errors
	if goerrors.As(err, &verrs) {
		return fieldDetailsFromOzzo(verrs)
	}

	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) || richErr.Metadata == nil {
		return nil
	}

	details, _ := richErr.Metadata[validationDetailsKey].([]FieldDetail)
	return details
}

// ToEnvelope maps err to the response status and body sent to the caller.
// Internal failures never expose their cause.
func ToEnvelope(err error) (int, ErrorEnvelope) {
	kind := KindOf(err)
	env := ErrorEnvelope{
		Error: kind.Label(),
	}

	switch kind {
	case KindUnauthorized:
		// never echo the underlying cause
		env.Message = "Unauthorized"
	case KindValidationFailed:
		env.Message = "Validation failed"
		env.Details = ValidationDetails(err)
		if env.Details == nil {
			env.Details = []FieldDetail{}
		}
	default:
		env.Message = "Internal server error"
	}

	return kind.HTTPStatus(), env
}
