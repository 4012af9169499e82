package service

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/labstore/internal/errs"
	"github.com/deppfellow/labstore/internal/repository"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMock returns a pgxmock pool and the repositories bound to it. The
// mock's expectations are checked when the test ends.
func newMock(t *testing.T) (pgxmock.PgxPoolIface, *repository.Repositories) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock, repository.New(mock)
}

// fieldError returns the message recorded for field on a validation error.
func fieldError(t *testing.T, err error, field string) string {
	t.Helper()

	require.True(t, errs.IsValidation(err), "expected validation error, got %v", err)

	var appErr *errs.Error
	require.True(t, errors.As(err, &appErr))
	return appErr.Field(field)
}

func TestLines(t *testing.T) {
	assert.Equal(t, "", lines([]int{}, func(i int) string { return "x" }))
	assert.Equal(t, "1\n2", lines([]string{"1", "2"}, func(s string) string { return s }))
}

func TestUnique(t *testing.T) {
	probe := func(taken bool, err error) func(context.Context, string) (bool, error) {
		return func(context.Context, string) (bool, error) { return taken, err }
	}

	fieldErrors, err := unique(context.Background(), probe(true, nil), "a@b.com", "email", "taken")
	require.NoError(t, err)
	assert.Equal(t, []errs.FieldError{{Field: "email", Error: "taken"}}, fieldErrors)

	fieldErrors, err = unique(context.Background(), probe(false, nil), "a@b.com", "email", "taken")
	require.NoError(t, err)
	assert.Empty(t, fieldErrors)

	down := errors.New("store down")
	_, err = unique(context.Background(), probe(false, down), "a@b.com", "email", "taken")
	assert.ErrorIs(t, err, down)
}
