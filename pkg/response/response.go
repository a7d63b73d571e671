package response

import (
	"net/http"
)

const (
	KindValidation = "validation"
	KindNotFound   = "not_found"
	KindBadRequest = "bad_request"
	KindStore      = "store"
)

// ErrorBody is the JSON body of every non-2xx API response.
type ErrorBody struct {
	Message string            `json:"message"`
	Kind    string            `json:"kind"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func Error(kind, message string, fields map[string]string) ErrorBody {
	return ErrorBody{
		Message: message,
		Kind:    kind,
		Fields:  fields,
	}
}

// KindForStatus picks the error kind for framework level failures that never
// reached a handler (unknown route, oversized body, ...).
func KindForStatus(status int) string {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 500:
		return KindStore
	default:
		return KindBadRequest
	}
}
