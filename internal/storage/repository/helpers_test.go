package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/car-rental/internal/migrations"
	"github.com/magabrotheeeer/car-rental/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и накатывает миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("rental"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))

	return storage
}

// TestDataFactory создает тестовые записи напрямую через репозиторий.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

func (f *TestDataFactory) CreateUser(t *testing.T, email, role string) *models.User {
	t.Helper()
	u, err := f.storage.CreateUser(context.Background(), models.User{
		Name:         "Test " + role,
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         role,
		IsActive:     true,
	})
	require.NoError(t, err)
	return u
}

func (f *TestDataFactory) CreateCar(t *testing.T, brand, model string, pricePerDay int64) *models.Car {
	t.Helper()
	c, err := f.storage.CreateCar(context.Background(), models.Car{
		Brand:        brand,
		Model:        model,
		Year:         2022,
		FuelType:     models.FuelBenzin,
		Transmission: models.TransmissionAvtomat,
		Seats:        5,
		PricePerDay:  pricePerDay,
		Images:       []string{"/img/" + model + ".jpg"},
		Features:     []string{"ac"},
		Location:     models.Location{City: "Tashkent"},
		IsAvailable:  true,
	})
	require.NoError(t, err)
	return c
}

// CreateBookingWithStatus вставляет бронирование в обход проверки пересечений.
func (f *TestDataFactory) CreateBookingWithStatus(t *testing.T, userID, carID string,
	start, end time.Time, status string) string {
	t.Helper()
	var id string
	err := f.storage.DB.QueryRow(`INSERT INTO bookings (user_id, car_id, start_date, end_date, total_price, status)
		VALUES ($1, $2, $3, $4, 0, $5) RETURNING id`, userID, carID, start, end, status).Scan(&id)
	require.NoError(t, err)
	return id
}

func (f *TestDataFactory) BookingStatus(t *testing.T, id string) string {
	t.Helper()
	var status string
	require.NoError(t, f.storage.DB.QueryRow(`SELECT status FROM bookings WHERE id = $1`, id).Scan(&status))
	return status
}
