//go:build integration

package service

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/deppfellow/labstore/internal/database"
	"github.com/deppfellow/labstore/internal/model/academy"
	"github.com/deppfellow/labstore/internal/model/accounts"
	"github.com/deppfellow/labstore/internal/model/commerce"
	"github.com/deppfellow/labstore/internal/model/records"
	"github.com/deppfellow/labstore/internal/repository"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDatabaseURLEnv names the database the integration tests migrate and
// wipe. Never point it at data you care about.
const testDatabaseURLEnv = "LABSTORE_TEST_DATABASE_URL"

var tables = []string{
	"lecturers", "subjects", "students", "student_enrollments", "lecturer_profiles",
	"directors", "actors", "movies", "movie_actors",
	"profiles", "products", "orders", "order_products",
	"authors", "articles", "article_authors", "reviews",
	"tennis_players", "tournaments", "matches", "match_players",
	"astronauts", "spacecrafts", "missions", "mission_astronauts",
	"pets", "artifacts", "locations", "cars", "tasks", "hotel_rooms", "characters",
	"customers", "books", "media_movies", "music", "media_products", "heroes", "documents",
	"users", "user_orders",
}

func setupServices(t *testing.T) *Services {
	t.Helper()

	dsn := os.Getenv(testDatabaseURLEnv)
	if dsn == "" {
		t.Skipf("%s is not set", testDatabaseURLEnv)
	}

	ctx := context.Background()
	log := zerolog.Nop()
	require.NoError(t, database.MigrateDSN(ctx, &log, dsn, database.Latest))

	poolConfig, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "TRUNCATE "+strings.Join(tables, ", ")+" RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	services, err := New(repository.New(pool), nil)
	require.NoError(t, err)
	return services
}

func TestIntegration_DeleteLecturerKeepsSubject(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	lecturer := &academy.Lecturer{FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, s.Academy.CreateLecturer(ctx, lecturer))

	subject := &academy.Subject{Name: "Mathematics", Code: "MATH101", LecturerID: &lecturer.ID}
	require.NoError(t, s.Academy.CreateSubject(ctx, subject))

	out, err := s.Academy.DescribeSubject(ctx, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, "The lecturer for Mathematics is Ada Lovelace.", out)

	n, err := s.Academy.DeleteLecturer(ctx, lecturer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	out, err = s.Academy.DescribeSubject(ctx, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, "The lecturer for Mathematics is not assigned.", out)
}

func TestIntegration_DeleteAllUsersCascadesOrders(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	user := &accounts.User{Username: "ana", Email: "ana@mail.com"}
	require.NoError(t, s.Accounts.AddUsers(ctx, user))
	require.NoError(t, s.Accounts.AddOrders(ctx, &accounts.Order{UserID: user.ID}, &accounts.Order{UserID: user.ID, IsCompleted: true}))

	out, err := s.Accounts.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, strings.Split(out, "\n"), 2)

	_, err = s.Accounts.DeleteAllUsers(ctx)
	require.NoError(t, err)

	out, err = s.Accounts.ListOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, NoOrdersYet, out)
}

func TestIntegration_ApplyDiscountsCompounds(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	profile := &commerce.Profile{FullName: "Ana Ivanova", Email: "ana@mail.com", PhoneNumber: "0888123456", Address: "Sofia", IsActive: true}
	require.NoError(t, s.Commerce.CreateProfile(ctx, profile))

	var productIDs []int64
	for _, name := range []string{"Desk", "Lamp", "Chair"} {
		p := &commerce.Product{Name: name, Description: name, Price: decimal.NewFromInt(10), InStock: 5, IsAvailable: true}
		require.NoError(t, s.Commerce.CreateProduct(ctx, p))
		productIDs = append(productIDs, p.ID)
	}

	order := &commerce.Order{ProfileID: profile.ID, TotalPrice: decimal.NewFromInt(100)}
	require.NoError(t, s.Commerce.CreateOrder(ctx, order, productIDs...))

	for range 2 {
		out, err := s.Commerce.ApplyDiscounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Discount applied to 1 orders.", out)
	}

	stored, ok, err := s.Commerce.repo.OldestOpenOrder(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(81).Equal(stored.TotalPrice), "got %s", stored.TotalPrice)
}

func TestIntegration_CharacterUpdates(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	mage := &records.Character{Name: "Gandalf", ClassName: records.ClassMage, Level: 10, Strength: 20, Dexterity: 30, Intelligence: 90, HitPoints: 100, Inventory: "Staff"}
	warrior := &records.Character{Name: "Boromir", ClassName: records.ClassWarrior, Level: 10, Strength: 80, Dexterity: 40, Intelligence: 20, HitPoints: 100, Inventory: "Sword"}
	require.NoError(t, s.Records.CreateCharacter(ctx, mage))
	require.NoError(t, s.Records.CreateCharacter(ctx, warrior))

	require.NoError(t, s.Records.UpdateCharacters(ctx))

	first, ok, err := s.Records.repo.LockCharacter(ctx, mage.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 13, first.Level)
	assert.Equal(t, 83, first.Intelligence)

	second, ok, err := s.Records.repo.LockCharacter(ctx, warrior.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 50, second.HitPoints)
	assert.Equal(t, 36, second.Dexterity)

	for range 2 {
		n, err := s.Records.GrandStrength(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	}

	first, _, err = s.Records.repo.LockCharacter(ctx, mage.ID)
	require.NoError(t, err)
	assert.Equal(t, grandStrength, first.Strength)
}
