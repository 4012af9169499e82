package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/labstore/internal/logger"
	"github.com/deppfellow/labstore/internal/model/accounts"
	"github.com/deppfellow/labstore/internal/repository"
	"github.com/deppfellow/labstore/internal/validation"
)

// Status messages of the accounts operations.
const (
	UserUpdated  = "User updated successfully."
	UserMissing  = "User does not exist!"
	UsersDeleted = "All users deleted successfully"
	NoOrdersYet  = "No orders yet."
)

type AccountsService struct {
	repo     *repository.AccountsRepository
	observer *logger.Observer
}

func NewAccountsService(repo *repository.AccountsRepository, observer *logger.Observer) *AccountsService {
	return &AccountsService{repo: repo, observer: observer}
}

func (s *AccountsService) CreateUser(ctx context.Context, u *accounts.User) error {
	return logger.Run(ctx, s.observer, "create_user", func(ctx context.Context) error {
		return createUser(ctx, s.repo, u)
	})
}

// AddUsers stores every user in one transaction. One invalid user stores none.
func (s *AccountsService) AddUsers(ctx context.Context, users ...*accounts.User) error {
	return logger.Run(ctx, s.observer, "add_users", func(ctx context.Context) error {
		return s.repo.InTx(ctx, func(repo *repository.AccountsRepository) error {
			for _, u := range users {
				if err := createUser(ctx, repo, u); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

func createUser(ctx context.Context, repo *repository.AccountsRepository, u *accounts.User) error {
	taken, err := unique(ctx, repo.UsernameTaken, u.Username, "username", "User with this username already exists.")
	if err != nil {
		return err
	}
	if err := validation.Merge(validation.Check(u), taken...); err != nil {
		return err
	}
	return repo.CreateUser(ctx, u)
}

func (s *AccountsService) ListUsers(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "list_users", func(ctx context.Context) (string, error) {
		users, err := s.repo.Users(ctx)
		if err != nil {
			return "", err
		}
		return lines(users, func(u accounts.User) string {
			return u.Username + " " + u.Email
		}), nil
	})
}

// UpdateEmail changes the email of the user with this username.
func (s *AccountsService) UpdateEmail(ctx context.Context, username, email string) (string, error) {
	return logger.Observe(ctx, s.observer, "update_email", func(ctx context.Context) (string, error) {
		if err := validation.Check(accounts.User{Username: username, Email: email}); err != nil {
			return "", err
		}

		n, err := s.repo.UpdateEmail(ctx, username, email)
		if err != nil {
			return "", err
		}
		if n == 0 {
			return UserMissing, nil
		}
		return UserUpdated, nil
	})
}

// DeleteAllUsers deletes every user and their orders in one transaction.
func (s *AccountsService) DeleteAllUsers(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "delete_all_users", func(ctx context.Context) (string, error) {
		err := s.repo.InTx(ctx, func(repo *repository.AccountsRepository) error {
			n, err := repo.DeleteAllUsers(ctx)
			if err != nil {
				return err
			}

			logger.FromContext(ctx).Info().Int64("deleted", n).Msg("users deleted")
			return nil
		})
		if err != nil {
			return "", err
		}
		return UsersDeleted, nil
	})
}

// AddOrders stores every order in one transaction.
func (s *AccountsService) AddOrders(ctx context.Context, orders ...*accounts.Order) error {
	return logger.Run(ctx, s.observer, "add_orders", func(ctx context.Context) error {
		for _, o := range orders {
			if err := validation.Check(o); err != nil {
				return err
			}
		}

		return s.repo.InTx(ctx, func(repo *repository.AccountsRepository) error {
			for _, o := range orders {
				if err := repo.CreateOrder(ctx, o); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// ListOrders describes every order, grouped by user from the newest user.
func (s *AccountsService) ListOrders(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "list_orders", func(ctx context.Context) (string, error) {
		orders, err := s.repo.Orders(ctx)
		if err != nil {
			return "", err
		}
		if len(orders) == 0 {
			return NoOrdersYet, nil
		}

		return lines(orders, func(o accounts.OrderLine) string {
			return fmt.Sprintf("Order number %d, Is completed: %t, Username: %s", o.ID, o.IsCompleted, o.Username)
		}), nil
	})
}
