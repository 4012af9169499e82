package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/deppfellow/labstore/internal/logger"
	"github.com/deppfellow/labstore/internal/model/commerce"
	"github.com/deppfellow/labstore/internal/query"
	"github.com/deppfellow/labstore/internal/repository"
	"github.com/deppfellow/labstore/internal/validation"
)

// topProductsLimit is how many products GetTopProducts lists.
const topProductsLimit = 5

type CommerceService struct {
	repo     *repository.CommerceRepository
	observer *logger.Observer
}

func NewCommerceService(repo *repository.CommerceRepository, observer *logger.Observer) *CommerceService {
	return &CommerceService{repo: repo, observer: observer}
}

func (s *CommerceService) CreateProfile(ctx context.Context, p *commerce.Profile) error {
	return logger.Run(ctx, s.observer, "create_profile", func(ctx context.Context) error {
		if err := validation.Check(p); err != nil {
			return err
		}
		return s.repo.CreateProfile(ctx, p)
	})
}

func (s *CommerceService) CreateProduct(ctx context.Context, p *commerce.Product) error {
	return logger.Run(ctx, s.observer, "create_product", func(ctx context.Context) error {
		if err := validation.Check(p); err != nil {
			return err
		}
		return s.repo.CreateProduct(ctx, p)
	})
}

// CreateOrder stores an order with its products in one transaction.
func (s *CommerceService) CreateOrder(ctx context.Context, o *commerce.Order, productIDs ...int64) error {
	return logger.Run(ctx, s.observer, "create_order", func(ctx context.Context) error {
		if err := validation.Check(o); err != nil {
			return err
		}
		return s.repo.InTx(ctx, func(repo *repository.CommerceRepository) error {
			return repo.CreateOrder(ctx, o, productIDs...)
		})
	})
}

// GetProfiles lists the profiles whose name, email or phone number
// contains search. A nil search returns "".
func (s *CommerceService) GetProfiles(ctx context.Context, search *string) (string, error) {
	return logger.Observe(ctx, s.observer, "get_profiles", func(ctx context.Context) (string, error) {
		if search == nil {
			return "", nil
		}

		profiles, err := s.repo.Profiles(ctx, query.AnyContains(*search, "p.full_name", "p.email", "p.phone_number"))
		if err != nil {
			return "", err
		}

		return lines(profiles, func(p commerce.ProfileSummary) string {
			return fmt.Sprintf("Profile: %s, email: %s, phone number: %s, orders: %d", p.FullName, p.Email, p.PhoneNumber, p.OrdersCount)
		}), nil
	})
}

func (s *CommerceService) GetLoyalProfiles(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "get_loyal_profiles", func(ctx context.Context) (string, error) {
		profiles, err := s.repo.LoyalProfiles(ctx)
		if err != nil {
			return "", err
		}

		return lines(profiles, func(p commerce.ProfileSummary) string {
			return fmt.Sprintf("Profile: %s, orders: %d", p.FullName, p.OrdersCount)
		}), nil
	})
}

func (s *CommerceService) GetLastSoldProducts(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "get_last_sold_products", func(ctx context.Context) (string, error) {
		names, err := s.repo.LastSoldProducts(ctx)
		if err != nil || len(names) == 0 {
			return "", err
		}
		return "Last sold products: " + strings.Join(names, ", "), nil
	})
}

func (s *CommerceService) GetTopProducts(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "get_top_products", func(ctx context.Context) (string, error) {
		products, err := s.repo.TopProducts(ctx, topProductsLimit)
		if err != nil || len(products) == 0 {
			return "", err
		}

		return "Top products:\n" + lines(products, func(p commerce.ProductSales) string {
			return fmt.Sprintf("%s, sold %d times", p.Name, p.TimesSold)
		}), nil
	})
}

// ApplyDiscounts scales the total of every open order with more than
// DiscountProductThreshold products by DiscountFactor, store side.
// Applying it twice compounds.
func (s *CommerceService) ApplyDiscounts(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "apply_discounts", func(ctx context.Context) (string, error) {
		n, err := s.repo.DiscountOpenOrders(ctx, commerce.DiscountFactor)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Discount applied to %d orders.", n), nil
	})
}

// CompleteOrder completes the oldest open order, taking one unit of each
// of its products out of stock. Products are saved one by one with
// validation; any failure rolls the whole order back.
func (s *CommerceService) CompleteOrder(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "complete_order", func(ctx context.Context) (string, error) {
		completed := false

		err := s.repo.InTx(ctx, func(repo *repository.CommerceRepository) error {
			order, ok, err := repo.OldestOpenOrder(ctx)
			if err != nil || !ok {
				return err
			}

			products, err := repo.OrderProducts(ctx, order.ID)
			if err != nil {
				return err
			}

			for _, product := range products {
				product.Sell()
				if err := validation.Check(product); err != nil {
					return err
				}
				if err := repo.SaveProduct(ctx, product); err != nil {
					return err
				}
			}

			if err := repo.MarkOrderCompleted(ctx, order.ID); err != nil {
				return err
			}

			logger.FromContext(ctx).Info().
				Int64("order_id", order.ID).
				Int("products", len(products)).
				Msg("order completed")

			completed = true
			return nil
		})
		if err != nil || !completed {
			return "", err
		}
		return "Order has been completed!", nil
	})
}
