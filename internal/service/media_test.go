package service

import (
	"context"
	"testing"

	"github.com/deppfellow/labstore/internal/errs"
	"github.com/deppfellow/labstore/internal/model/media"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var heroColumns = []string{"id", "name", "hero_title", "energy"}

func expectLockHero(mock pgxmock.PgxPoolIface, rows *pgxmock.Rows) {
	mock.ExpectQuery(`SELECT id, name, hero_title, energy FROM heroes WHERE id = \$1 LIMIT 1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(rows)
}

func TestMediaService_SwingFromBuildings_KeepsOneEnergy(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewMediaService(repos.Media, nil)

	mock.ExpectBegin()
	expectLockHero(mock, pgxmock.NewRows(heroColumns).AddRow(int64(1), "Peter", "Spider", 80))
	mock.ExpectExec(`UPDATE heroes SET energy = \$1 WHERE id = \$2`).
		WithArgs(1, int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	out, err := svc.SwingFromBuildings(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Peter as Spider Hero swings from buildings using web shooters", out)
}

func TestMediaService_RunAtSuperSpeed_NotEnoughEnergy(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewMediaService(repos.Media, nil)

	mock.ExpectBegin()
	expectLockHero(mock, pgxmock.NewRows(heroColumns).AddRow(int64(1), "Barry", "Flash", 64))
	mock.ExpectCommit()

	out, err := svc.RunAtSuperSpeed(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Barry as Flash Hero needs to recharge the speed force", out)
}

func TestMediaService_RechargeEnergy_Capped(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewMediaService(repos.Media, nil)

	mock.ExpectBegin()
	expectLockHero(mock, pgxmock.NewRows(heroColumns).AddRow(int64(1), "Barry", "Flash", 90))
	mock.ExpectExec(`UPDATE heroes SET energy = \$1 WHERE id = \$2`).
		WithArgs(media.MaxEnergy, int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	energy, err := svc.RechargeEnergy(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, media.MaxEnergy, energy)
}

func TestMediaService_HeroNotFound(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewMediaService(repos.Media, nil)

	mock.ExpectBegin()
	expectLockHero(mock, pgxmock.NewRows(heroColumns))
	mock.ExpectRollback()

	_, err := svc.SwingFromBuildings(context.Background(), 1)
	assert.True(t, errs.IsNotFound(err))
}

func TestMediaService_Pricing(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewMediaService(repos.Media, nil)

	mock.ExpectQuery(`FROM media_products WHERE id = \$1 LIMIT 1`).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "price"}).
			AddRow(int64(3), "Headphones", decimal.RequireFromString("100")))

	pricing, err := svc.Pricing(context.Background(), 3, media.PricingDiscounted)
	require.NoError(t, err)
	assert.Equal(t, "Discounted Product: Headphones", pricing.FormatName())
	assert.True(t, decimal.RequireFromString("5").Equal(pricing.Tax()))
	assert.True(t, decimal.RequireFromString("120").Equal(pricing.PriceWithoutDiscount()))

	mock.ExpectQuery(`FROM media_products`).
		WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "price"}))

	_, err = svc.Pricing(context.Background(), 4, media.PricingRegular)
	assert.True(t, errs.IsNotFound(err))
}

func TestMediaService_SearchDocuments_NilTerms(t *testing.T) {
	_, repos := newMock(t)
	svc := NewMediaService(repos.Media, nil)

	docs, err := svc.SearchDocuments(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
