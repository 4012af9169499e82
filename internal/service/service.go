// Package service contains the operations of every domain.
//
// It sits on top of the repository layer. Each operation validates its
// input, calls repository methods to interact with the data and formats
// the result the way callers expect: a report string, a count or a
// status message. Every operation runs through logger.Observe so it gets
// its own scoped logger and, when enabled, a New Relic transaction.
package service

import (
	"context"
	"strings"

	"github.com/deppfellow/labstore/internal/errs"
)

// lines renders one line per item and joins them with newlines.
func lines[T any](items []T, format func(T) string) string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, format(item))
	}
	return strings.Join(out, "\n")
}

// unique turns a uniqueness probe into a field error when the value is taken.
func unique(ctx context.Context, probe func(ctx context.Context, value string) (bool, error), value, field, message string) ([]errs.FieldError, error) {
	taken, err := probe(ctx, value)
	if err != nil {
		return nil, err
	}
	if taken {
		return []errs.FieldError{{Field: field, Error: message}}, nil
	}
	return nil, nil
}
