package service

import (
	"context"
	"testing"

	"github.com/deppfellow/labstore/internal/model/accounts"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountsService_AddUsers_RollsBackOnTakenUsername(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewAccountsService(repos.Accounts, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS\( SELECT 1 FROM users WHERE username = \$1 \)`).
		WithArgs("ana").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO users \(username,email\) VALUES \(\$1,\$2\) RETURNING id`).
		WithArgs("ana", "ana@mail.com").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(`SELECT EXISTS\( SELECT 1 FROM users WHERE username = \$1 \)`).
		WithArgs("ana").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err := svc.AddUsers(context.Background(),
		&accounts.User{Username: "ana", Email: "ana@mail.com"},
		&accounts.User{Username: "ana", Email: "other@mail.com"},
	)
	assert.Equal(t, "User with this username already exists.", fieldError(t, err, "username"))
}

func TestAccountsService_UpdateEmail(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewAccountsService(repos.Accounts, nil)

	mock.ExpectExec(`UPDATE users SET email = \$1 WHERE username = \$2`).
		WithArgs("new@mail.com", "ana").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE users SET email = \$1 WHERE username = \$2`).
		WithArgs("new@mail.com", "ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	msg, err := svc.UpdateEmail(context.Background(), "ana", "new@mail.com")
	require.NoError(t, err)
	assert.Equal(t, UserUpdated, msg)

	msg, err = svc.UpdateEmail(context.Background(), "ghost", "new@mail.com")
	require.NoError(t, err)
	assert.Equal(t, UserMissing, msg)
}

func TestAccountsService_UpdateEmail_Invalid(t *testing.T) {
	_, repos := newMock(t)
	svc := NewAccountsService(repos.Accounts, nil)

	_, err := svc.UpdateEmail(context.Background(), "ana", "not-an-email")
	assert.NotEmpty(t, fieldError(t, err, "email"))
}

func TestAccountsService_DeleteAllUsers(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewAccountsService(repos.Accounts, nil)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM users`).WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectCommit()

	msg, err := svc.DeleteAllUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, UsersDeleted, msg)
}

func TestAccountsService_ListOrders(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewAccountsService(repos.Accounts, nil)

	columns := []string{"id", "is_completed", "username"}
	mock.ExpectQuery(`FROM user_orders o JOIN users u ON u.id = o.user_id ORDER BY o.user_id DESC, o.id ASC`).
		WillReturnRows(pgxmock.NewRows(columns))
	mock.ExpectQuery(`FROM user_orders o`).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(int64(3), true, "bob").
			AddRow(int64(1), false, "ana"))

	out, err := svc.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NoOrdersYet, out)

	out, err = svc.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t,
		"Order number 3, Is completed: true, Username: bob\n"+
			"Order number 1, Is completed: false, Username: ana",
		out)
}

func TestAccountsService_AddOrders_ValidatesBeforeWriting(t *testing.T) {
	_, repos := newMock(t)
	svc := NewAccountsService(repos.Accounts, nil)

	err := svc.AddOrders(context.Background(), &accounts.Order{UserID: 1}, &accounts.Order{})
	assert.NotEmpty(t, fieldError(t, err, "user_id"))
}
