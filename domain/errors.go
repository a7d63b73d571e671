package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidID        = errors.New("invalid category id")
	ErrStore            = errors.New("store failure")
)

// ValidationError carries one message per offending request field, keyed by
// the field's wire name (CategoriaNombre, Descripcion, Imagen).
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}

	return "validation failed: " + strings.Join(parts, "; ")
}
