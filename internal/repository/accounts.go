package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/labstore/internal/database"
	"github.com/deppfellow/labstore/internal/model/accounts"
	"github.com/deppfellow/labstore/internal/query"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

type AccountsRepository struct {
	db database.DBTX
}

func NewAccountsRepository(db database.DBTX) *AccountsRepository {
	return &AccountsRepository{db: db}
}

// InTx runs fn with a repository bound to one transaction.
func (r *AccountsRepository) InTx(ctx context.Context, fn func(repo *AccountsRepository) error) error {
	return database.InTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&AccountsRepository{db: tx})
	})
}

func (r *AccountsRepository) CreateUser(ctx context.Context, u *accounts.User) error {
	id, err := insert(ctx, r.db, "users", query.Psql.Insert("users").
		Columns("username", "email").
		Values(u.Username, u.Email))
	if err != nil {
		return errors.Wrap(err, "creating user")
	}

	u.ID = id
	return nil
}

func (r *AccountsRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return query.Taken(ctx, r.db, "users", "username", username, nil)
}

func (r *AccountsRepository) Users(ctx context.Context) ([]accounts.User, error) {
	b := query.Psql.Select("id", "username", "email").
		From("users").
		OrderBy("id ASC")

	items, err := selectAll(ctx, r.db, "users", b, func(row pgx.CollectableRow) (accounts.User, error) {
		var u accounts.User
		err := row.Scan(&u.ID, &u.Username, &u.Email)
		return u, err
	})
	return items, errors.Wrap(err, "listing users")
}

// UpdateEmail sets the email of the user with this username and reports
// how many rows changed.
func (r *AccountsRepository) UpdateEmail(ctx context.Context, username, email string) (int64, error) {
	n, err := exec(ctx, r.db, "users", query.Psql.Update("users").
		Set("email", email).
		Where(sq.Eq{"username": username}))
	return n, errors.Wrap(err, "updating email")
}

// DeleteAllUsers deletes every user and, through the cascade, their orders.
func (r *AccountsRepository) DeleteAllUsers(ctx context.Context) (int64, error) {
	n, err := exec(ctx, r.db, "users", query.Psql.Delete("users"))
	return n, errors.Wrap(err, "deleting users")
}

func (r *AccountsRepository) CreateOrder(ctx context.Context, o *accounts.Order) error {
	id, err := insert(ctx, r.db, "user_orders", query.Psql.Insert("user_orders").
		Columns("user_id", "is_completed").
		Values(o.UserID, o.IsCompleted))
	if err != nil {
		return errors.Wrap(err, "creating order")
	}

	o.ID = id
	return nil
}

// Orders lists every order with its user's name, newest users first.
func (r *AccountsRepository) Orders(ctx context.Context) ([]accounts.OrderLine, error) {
	b := query.Psql.Select("o.id", "o.is_completed", "u.username").
		From("user_orders o").
		Join("users u ON u.id = o.user_id").
		OrderBy("o.user_id DESC", "o.id ASC")

	items, err := selectAll(ctx, r.db, "user_orders", b, func(row pgx.CollectableRow) (accounts.OrderLine, error) {
		var o accounts.OrderLine
		err := row.Scan(&o.ID, &o.IsCompleted, &o.Username)
		return o, err
	})
	return items, errors.Wrap(err, "listing orders")
}
