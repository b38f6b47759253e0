package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/car-rental/internal/models"
	"github.com/magabrotheeeer/car-rental/internal/storage"
)

const carColumns = `id, brand, model, year, color, fuel_type, transmission, seats,
			      price_per_day, images, features, description, city, address,
			      latitude, longitude, is_available, rating_average, rating_count,
			      owner_id, created_at, updated_at`

func (s *Storage) scanCar(row interface{ Scan(...any) error }) (*models.Car, error) {
	var (
		c        models.Car
		lat, lng sql.NullFloat64
		owner    sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Brand, &c.Model, &c.Year, &c.Color, &c.FuelType, &c.Transmission,
		&c.Seats, &c.PricePerDay, s.typeMap.SQLScanner(&c.Images), s.typeMap.SQLScanner(&c.Features),
		&c.Description, &c.Location.City, &c.Location.Address, &lat, &lng, &c.IsAvailable,
		&c.Rating.Average, &c.Rating.Count, &owner, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if lat.Valid {
		c.Location.Latitude = &lat.Float64
	}
	if lng.Valid {
		c.Location.Longitude = &lng.Float64
	}
	c.OwnerID = nullString(owner)
	if c.Images == nil {
		c.Images = []string{}
	}
	if c.Features == nil {
		c.Features = []string{}
	}
	return &c, nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

// CreateCar добавляет автомобиль в автопарк.
func (s *Storage) CreateCar(ctx context.Context, car models.Car) (*models.Car, error) {
	const op = "storage.CreateCar"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO cars (brand, model, year, color, fuel_type, transmission, seats,
			      price_per_day, images, features, description, city, address,
			      latitude, longitude, is_available, owner_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			  RETURNING ` + carColumns
	c, err := s.scanCar(s.DB.QueryRowContext(ctx, query,
		car.Brand, car.Model, car.Year, car.Color, car.FuelType, car.Transmission, car.Seats,
		car.PricePerDay, nonNil(car.Images), nonNil(car.Features), car.Description,
		car.Location.City, car.Location.Address, car.Location.Latitude, car.Location.Longitude,
		car.IsAvailable, car.OwnerID))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return c, nil
}

// GetCar возвращает автомобиль по ID.
func (s *Storage) GetCar(ctx context.Context, id string) (*models.Car, error) {
	const op = "storage.GetCar"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	c, err := s.scanCar(s.DB.QueryRowContext(ctx, `SELECT `+carColumns+` FROM cars WHERE id = $1`, id))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return c, nil
}

// UpdateCar перезаписывает изменяемые поля автомобиля.
func (s *Storage) UpdateCar(ctx context.Context, car models.Car) (*models.Car, error) {
	const op = "storage.UpdateCar"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE cars
			  SET brand = $2, model = $3, year = $4, color = $5, fuel_type = $6,
			      transmission = $7, seats = $8, price_per_day = $9, images = $10,
			      features = $11, description = $12, city = $13, address = $14,
			      latitude = $15, longitude = $16, is_available = $17, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + carColumns
	c, err := s.scanCar(s.DB.QueryRowContext(ctx, query, car.ID,
		car.Brand, car.Model, car.Year, car.Color, car.FuelType, car.Transmission, car.Seats,
		car.PricePerDay, nonNil(car.Images), nonNil(car.Features), car.Description,
		car.Location.City, car.Location.Address, car.Location.Latitude, car.Location.Longitude,
		car.IsAvailable))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return c, nil
}

// RemoveCar удаляет автомобиль. Бронирования удаляются каскадно.
func (s *Storage) RemoveCar(ctx context.Context, id string) error {
	const op = "storage.RemoveCar"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return wrapErr(op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

// SearchCars ищет автомобили по фильтру и возвращает страницу и общее количество.
func (s *Storage) SearchCars(ctx context.Context, f models.CarFilter) ([]*models.Car, int, error) {
	const op = "storage.SearchCars"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where, args := carFilterSQL(f)

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM cars`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	args = append(args, f.Limit, f.Offset)
	query := `SELECT ` + carColumns + ` FROM cars` + where +
		` ORDER BY ` + carOrderSQL(f.Sort) +
		` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	cars, err := s.queryCars(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return cars, total, nil
}

// FeaturedCars возвращает доступные автомобили с наибольшим рейтингом.
func (s *Storage) FeaturedCars(ctx context.Context, limit int) ([]*models.Car, error) {
	const op = "storage.FeaturedCars"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + carColumns + `
			  FROM cars
			  WHERE is_available
			  ORDER BY rating_average DESC, rating_count DESC, created_at DESC
			  LIMIT $1`
	cars, err := s.queryCars(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cars, nil
}

func (s *Storage) queryCars(ctx context.Context, query string, args ...any) ([]*models.Car, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []*models.Car{}
	for rows.Next() {
		c, err := s.scanCar(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// carFilterSQL собирает WHERE для поиска. Текстовый поиск без учета регистра.
func carFilterSQL(f models.CarFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	if q := strings.TrimSpace(f.Query); q != "" {
		add(`(brand ILIKE ? OR model ILIKE ? OR description ILIKE ? OR city ILIKE ?)`, "%"+escapeLike(q)+"%")
	}
	if f.Brand != "" {
		add(`brand ILIKE ?`, escapeLike(f.Brand))
	}
	if f.FuelType != "" {
		add(`fuel_type = ?`, f.FuelType)
	}
	if f.Transmission != "" {
		add(`transmission = ?`, f.Transmission)
	}
	if f.City != "" {
		add(`city ILIKE ?`, escapeLike(f.City))
	}
	if f.MinPrice > 0 {
		add(`price_per_day >= ?`, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		add(`price_per_day <= ?`, f.MaxPrice)
	}
	if f.MinSeats > 0 {
		add(`seats >= ?`, f.MinSeats)
	}
	if f.OnlyAvailable {
		conds = append(conds, `is_available`)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func carOrderSQL(sort string) string {
	switch sort {
	case models.SortPriceAsc:
		return "price_per_day ASC, created_at DESC"
	case models.SortPriceDesc:
		return "price_per_day DESC, created_at DESC"
	case models.SortRating:
		return "rating_average DESC, rating_count DESC"
	default:
		return "created_at DESC"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
