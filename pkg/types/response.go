package types

import pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"

// ErrorBody is the JSON shape of every non-2xx response.
type ErrorBody struct {
	Error  string                 `json:"error"`
	Code   string                 `json:"code,omitempty"`
	Errors []pkgerrors.FieldError `json:"errors,omitempty"`
}

// MessageBody is returned by mutations that have nothing else to report.
type MessageBody struct {
	Message string `json:"message"`
}
