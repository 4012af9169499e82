package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/labstore/internal/database"
	"github.com/deppfellow/labstore/internal/model/commerce"
	"github.com/deppfellow/labstore/internal/query"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type CommerceRepository struct {
	db database.DBTX
}

func NewCommerceRepository(db database.DBTX) *CommerceRepository {
	return &CommerceRepository{db: db}
}

// InTx runs fn with a repository bound to one transaction.
func (r *CommerceRepository) InTx(ctx context.Context, fn func(repo *CommerceRepository) error) error {
	return database.InTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&CommerceRepository{db: tx})
	})
}

func (r *CommerceRepository) CreateProfile(ctx context.Context, p *commerce.Profile) error {
	id, err := insert(ctx, r.db, "profiles", query.Psql.Insert("profiles").
		Columns("full_name", "email", "phone_number", "address", "is_active").
		Values(p.FullName, p.Email, p.PhoneNumber, p.Address, p.IsActive))
	if err != nil {
		return errors.Wrap(err, "creating profile")
	}

	p.ID = id
	return nil
}

func (r *CommerceRepository) CreateProduct(ctx context.Context, p *commerce.Product) error {
	id, err := insert(ctx, r.db, "products", query.Psql.Insert("products").
		Columns("name", "description", "price", "in_stock", "is_available").
		Values(p.Name, p.Description, p.Price, p.InStock, p.IsAvailable))
	if err != nil {
		return errors.Wrap(err, "creating product")
	}

	p.ID = id
	return nil
}

// CreateOrder inserts the order and links its products.
func (r *CommerceRepository) CreateOrder(ctx context.Context, o *commerce.Order, productIDs ...int64) error {
	id, err := insert(ctx, r.db, "orders", query.Psql.Insert("orders").
		Columns("profile_id", "total_price", "is_completed").
		Values(o.ProfileID, o.TotalPrice, o.IsCompleted))
	if err != nil {
		return errors.Wrap(err, "creating order")
	}
	o.ID = id

	if len(productIDs) == 0 {
		return nil
	}

	b := query.Psql.Insert("order_products").Columns("order_id", "product_id")
	for _, productID := range productIDs {
		b = b.Values(id, productID)
	}

	_, err = exec(ctx, r.db, "order_products", b)
	return errors.Wrap(err, "adding order products")
}

// Profiles lists the profiles matching pred ordered by full name, each
// with its number of orders.
func (r *CommerceRepository) Profiles(ctx context.Context, pred sq.Sqlizer) ([]commerce.ProfileSummary, error) {
	b := query.Psql.Select("p.full_name", "p.email", "p.phone_number", "COUNT(o.id) AS orders_count").
		From("profiles p").
		LeftJoin("orders o ON o.profile_id = p.id").
		Where(pred).
		GroupBy("p.id").
		OrderBy("p.full_name ASC")

	items, err := selectAll(ctx, r.db, "profiles", b, func(row pgx.CollectableRow) (commerce.ProfileSummary, error) {
		var p commerce.ProfileSummary
		err := row.Scan(&p.FullName, &p.Email, &p.PhoneNumber, &p.OrdersCount)
		return p, err
	})
	return items, errors.Wrap(err, "listing profiles")
}

// LoyalProfiles ranks the profiles with more than LoyalOrderThreshold
// orders by their number of orders.
func (r *CommerceRepository) LoyalProfiles(ctx context.Context) ([]commerce.ProfileSummary, error) {
	b := query.RankByCount(query.Rank{
		From:     "profiles p",
		Key:      "p.id",
		Join:     "orders o ON o.profile_id = p.id",
		Counted:  "o.id",
		As:       "orders_count",
		TieBreak: "p.full_name",
	}, "p.full_name").Having("COUNT(o.id) > ?", commerce.LoyalOrderThreshold)

	items, err := selectAll(ctx, r.db, "profiles", b, func(row pgx.CollectableRow) (commerce.ProfileSummary, error) {
		var p commerce.ProfileSummary
		err := row.Scan(&p.FullName, &p.OrdersCount)
		return p, err
	})
	return items, errors.Wrap(err, "ranking profiles")
}

// LastSoldProducts names the products of the most recent order.
func (r *CommerceRepository) LastSoldProducts(ctx context.Context) ([]string, error) {
	b := query.Psql.Select("p.name").
		From("order_products op").
		Join("products p ON p.id = op.product_id").
		Where("op.order_id = (SELECT id FROM orders ORDER BY creation_date DESC, id DESC LIMIT 1)").
		OrderBy("p.name ASC")

	names, err := selectAll(ctx, r.db, "products", b, scanString)
	return names, errors.Wrap(err, "listing last sold products")
}

// TopProducts ranks the products that were sold at least once.
func (r *CommerceRepository) TopProducts(ctx context.Context, limit uint64) ([]commerce.ProductSales, error) {
	b := query.RankByCount(query.Rank{
		From:     "products p",
		Key:      "p.id",
		Join:     "order_products op ON op.product_id = p.id",
		Counted:  "op.order_id",
		As:       "times_sold",
		TieBreak: "p.name",
	}, "p.name").Having("COUNT(op.order_id) > 0").Limit(limit)

	items, err := selectAll(ctx, r.db, "products", b, func(row pgx.CollectableRow) (commerce.ProductSales, error) {
		var p commerce.ProductSales
		err := row.Scan(&p.Name, &p.TimesSold)
		return p, err
	})
	return items, errors.Wrap(err, "ranking products")
}

// DiscountOpenOrders scales the total price of every open order holding
// more than DiscountProductThreshold products, in one statement.
func (r *CommerceRepository) DiscountOpenOrders(ctx context.Context, factor decimal.Decimal) (int64, error) {
	n, err := exec(ctx, r.db, "orders", query.Psql.Update("orders").
		Set("total_price", sq.Expr("total_price * ?", factor)).
		Where(sq.Eq{"is_completed": false}).
		Where("id IN (SELECT order_id FROM order_products GROUP BY order_id HAVING COUNT(*) > ?)", commerce.DiscountProductThreshold))
	return n, errors.Wrap(err, "discounting orders")
}

// OldestOpenOrder locks the earliest created order that is not completed.
func (r *CommerceRepository) OldestOpenOrder(ctx context.Context) (commerce.Order, bool, error) {
	b := query.Psql.Select("id", "profile_id", "total_price", "creation_date", "is_completed").
		From("orders").
		Where(sq.Eq{"is_completed": false}).
		OrderBy("creation_date ASC", "id ASC").
		Suffix("FOR UPDATE")

	item, ok, err := selectFirst(ctx, r.db, "orders", b, func(row pgx.CollectableRow) (commerce.Order, error) {
		var o commerce.Order
		err := row.Scan(&o.ID, &o.ProfileID, &o.TotalPrice, &o.CreationDate, &o.IsCompleted)
		return o, err
	})
	return item, ok, errors.Wrap(err, "loading oldest open order")
}

// OrderProducts locks and returns the products of an order.
func (r *CommerceRepository) OrderProducts(ctx context.Context, orderID int64) ([]commerce.Product, error) {
	b := query.Psql.Select("p.id", "p.name", "p.description", "p.price", "p.in_stock", "p.is_available", "p.creation_date").
		From("products p").
		Join("order_products op ON op.product_id = p.id").
		Where(sq.Eq{"op.order_id": orderID}).
		OrderBy("p.id ASC").
		Suffix("FOR UPDATE OF p")

	items, err := selectAll(ctx, r.db, "products", b, func(row pgx.CollectableRow) (commerce.Product, error) {
		var p commerce.Product
		err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.InStock, &p.IsAvailable, &p.CreationDate)
		return p, err
	})
	return items, errors.Wrap(err, "listing order products")
}

// SaveProduct writes every mutable column of p.
func (r *CommerceRepository) SaveProduct(ctx context.Context, p commerce.Product) error {
	_, err := exec(ctx, r.db, "products", query.Psql.Update("products").
		Set("name", p.Name).
		Set("description", p.Description).
		Set("price", p.Price).
		Set("in_stock", p.InStock).
		Set("is_available", p.IsAvailable).
		Where(sq.Eq{"id": p.ID}))
	return errors.Wrap(err, "saving product")
}

func (r *CommerceRepository) MarkOrderCompleted(ctx context.Context, orderID int64) error {
	_, err := exec(ctx, r.db, "orders", query.Psql.Update("orders").
		Set("is_completed", true).
		Where(sq.Eq{"id": orderID}))
	return errors.Wrap(err, "completing order")
}
