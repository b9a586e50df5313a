package types

import "fmt"

// Error taxonomy tags surfaced in error envelopes.
const (
	ErrTypeAuth        = "forms.authorization.user"
	ErrTypeValidation  = "forms.validation.input"
	ErrTypeNotFound    = "forms.notfound"
	ErrTypePersistence = "forms.persistence"
)

type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}
