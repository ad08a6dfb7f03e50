package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/atinyakov/carlot/internal/listing"
	"github.com/atinyakov/carlot/internal/models"
)

const carColumns = `id, name, brand, model, make, fuel_type, color, year,
	price, registered_date, registered_year, mileage, wheel_drive,
	registration_number, variant, source, external_link, display_image_url`

// PostgresCarRepository stores car listings in the cars table.
type PostgresCarRepository struct {
	DB *sql.DB
}

// NewPostgresCarRepository creates a PostgresCarRepository over db.
func NewPostgresCarRepository(db *sql.DB) *PostgresCarRepository {
	return &PostgresCarRepository{DB: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCar(row scanner) (models.Car, error) {
	var (
		c                                                  models.Car
		price                                              decimal.NullDecimal
		regYear, mileage                                   sql.NullInt64
		regDate, wheel, regNum, variant, source, link, img sql.NullString
	)
	err := row.Scan(&c.ID, &c.Name, &c.Brand, &c.Model, &c.Make, &c.FuelType, &c.Color, &c.Year,
		&price, &regDate, &regYear, &mileage, &wheel, &regNum, &variant, &source, &link, &img)
	if err != nil {
		return c, err
	}

	if price.Valid {
		c.Price = &price.Decimal
	}
	c.RegisteredYear = nullInt(regYear)
	c.Mileage = nullInt(mileage)
	c.RegisteredDate = nullString(regDate)
	c.WheelDrive = nullString(wheel)
	c.RegistrationNumber = nullString(regNum)
	c.Variant = nullString(variant)
	c.Source = nullString(source)
	c.ExternalLink = nullString(link)
	c.DisplayImageURL = nullString(img)
	return c, nil
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

// values returns the writable columns of c in carColumns order, without id.
func values(c *models.Car) []any {
	return []any{c.Name, c.Brand, c.Model, c.Make, c.FuelType, c.Color, c.Year,
		c.Price, c.RegisteredDate, c.RegisteredYear, c.Mileage, c.WheelDrive,
		c.RegistrationNumber, c.Variant, c.Source, c.ExternalLink, c.DisplayImageURL}
}

// Create inserts c and sets its id.
func (r *PostgresCarRepository) Create(ctx context.Context, c *models.Car) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO cars (name, brand, model, make, fuel_type, color, year,
			price, registered_date, registered_year, mileage, wheel_drive,
			registration_number, variant, source, external_link, display_image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id
	`, values(c)...).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("create car: %w", translate(err))
	}
	return nil
}

// GetByID returns the listing with the given id, or ErrNotFound.
func (r *PostgresCarRepository) GetByID(ctx context.Context, id int64) (*models.Car, error) {
	c, err := scanCar(r.DB.QueryRowContext(ctx, `SELECT `+carColumns+` FROM cars WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get car %d: %w", id, err)
	}
	return &c, nil
}

// Update overwrites every writable column of the row identified by c.ID.
func (r *PostgresCarRepository) Update(ctx context.Context, c *models.Car) error {
	args := append(values(c), c.ID)
	res, err := r.DB.ExecContext(ctx, `
		UPDATE cars SET name = $1, brand = $2, model = $3, make = $4, fuel_type = $5,
			color = $6, year = $7, price = $8, registered_date = $9, registered_year = $10,
			mileage = $11, wheel_drive = $12, registration_number = $13, variant = $14,
			source = $15, external_link = $16, display_image_url = $17
		WHERE id = $18
	`, args...)
	if err != nil {
		return fmt.Errorf("update car %d: %w", c.ID, translate(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update car %d: %w", c.ID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of listings matching q and the number of matches
// before pagination.
func (r *PostgresCarRepository) List(ctx context.Context, q listing.Query) ([]models.Car, int, error) {
	where, args := q.Where(1)

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM cars `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count cars: %w", err)
	}

	n := len(args)
	query := `SELECT ` + carColumns + ` FROM cars ` + where + ` ` + q.OrderClause() +
		` LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	rows, err := r.DB.QueryContext(ctx, query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list cars: %w", err)
	}
	defer rows.Close()

	cars := make([]models.Car, 0, q.Limit)
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan: %w", err)
		}
		cars = append(cars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list cars: %w", err)
	}
	return cars, total, nil
}

// Upsert inserts c, or replaces the listing holding the same registration
// number. It reports whether a new row was created and sets c.ID.
func (r *PostgresCarRepository) Upsert(ctx context.Context, c *models.Car) (bool, error) {
	var created bool
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO cars (name, brand, model, make, fuel_type, color, year,
			price, registered_date, registered_year, mileage, wheel_drive,
			registration_number, variant, source, external_link, display_image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (registration_number) DO UPDATE SET
			name = EXCLUDED.name,
			brand = EXCLUDED.brand,
			model = EXCLUDED.model,
			make = EXCLUDED.make,
			fuel_type = EXCLUDED.fuel_type,
			color = EXCLUDED.color,
			year = EXCLUDED.year,
			price = EXCLUDED.price,
			registered_date = EXCLUDED.registered_date,
			registered_year = EXCLUDED.registered_year,
			mileage = EXCLUDED.mileage,
			wheel_drive = EXCLUDED.wheel_drive,
			variant = EXCLUDED.variant,
			source = EXCLUDED.source,
			external_link = EXCLUDED.external_link,
			display_image_url = EXCLUDED.display_image_url
		RETURNING id, (xmax = 0)
	`, values(c)...).Scan(&c.ID, &created)
	if err != nil {
		return false, fmt.Errorf("upsert car: %w", translate(err))
	}
	return created, nil
}

// ExistsByExternalLink reports whether a listing already points at link.
func (r *PostgresCarRepository) ExistsByExternalLink(ctx context.Context, link string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM cars WHERE external_link = $1)`, link,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check external link: %w", err)
	}
	return exists, nil
}

// ExistsByRegistrationNumber reports whether a listing holds number.
func (r *PostgresCarRepository) ExistsByRegistrationNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM cars WHERE registration_number = $1)`, number,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check registration number: %w", err)
	}
	return exists, nil
}
