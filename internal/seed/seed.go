// Package seed populates an empty database with an admin account and a
// fixed set of sample listings.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/atinyakov/carlot/internal/models"
	"github.com/atinyakov/carlot/internal/repository"
	"github.com/atinyakov/carlot/internal/service"
)

const (
	AdminEmail = "admin@example.com"
	AdminName  = "Admin User"
)

//go:embed cars.json
var carsJSON []byte

type sampleCar struct {
	Name               string          `json:"name"`
	Brand              string          `json:"brand"`
	Model              string          `json:"model"`
	Make               string          `json:"make"`
	FuelType           string          `json:"fuel_type"`
	Color              string          `json:"color"`
	Year               int             `json:"year"`
	Price              decimal.Decimal `json:"price"`
	RegisteredDate     string          `json:"registered_date"`
	RegisteredYear     int             `json:"registered_year"`
	Mileage            int             `json:"mileage"`
	WheelDrive         string          `json:"wheel_drive"`
	RegistrationNumber string          `json:"registration_number"`
	Variant            string          `json:"variant"`
}

func (s sampleCar) car() models.Car {
	return models.Car{
		Name:               s.Name,
		Brand:              s.Brand,
		Model:              s.Model,
		Make:               s.Make,
		FuelType:           s.FuelType,
		Color:              s.Color,
		Year:               s.Year,
		Price:              &s.Price,
		RegisteredDate:     &s.RegisteredDate,
		RegisteredYear:     &s.RegisteredYear,
		Mileage:            &s.Mileage,
		WheelDrive:         &s.WheelDrive,
		RegistrationNumber: &s.RegistrationNumber,
		Variant:            &s.Variant,
	}
}

// SampleCars returns the bundled sample listings.
func SampleCars() ([]models.Car, error) {
	var samples []sampleCar
	dec := json.NewDecoder(bytes.NewReader(carsJSON))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&samples); err != nil {
		return nil, fmt.Errorf("decode sample cars: %w", err)
	}

	cars := make([]models.Car, 0, len(samples))
	for _, s := range samples {
		cars = append(cars, s.car())
	}
	return cars, nil
}

// UserStore is what the seeder needs from the user repository.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
}

// CarStore is what the seeder needs from the car repository.
type CarStore interface {
	Create(ctx context.Context, c *models.Car) error
	ExistsByRegistrationNumber(ctx context.Context, number string) (bool, error)
}

// Result reports what a seeding run added.
type Result struct {
	AdminCreated bool
	CarsCreated  int
}

// Seeder writes the admin account and sample listings. Running it twice
// adds nothing the second time.
type Seeder struct {
	Users UserStore
	Cars  CarStore
	Log   *zap.Logger
}

// Run seeds the admin user with the given password, then the sample cars.
func (s *Seeder) Run(ctx context.Context, adminPassword string) (Result, error) {
	var res Result

	created, err := s.admin(ctx, adminPassword)
	if err != nil {
		return res, err
	}
	res.AdminCreated = created

	n, err := s.cars(ctx)
	res.CarsCreated = n
	return res, err
}

func (s *Seeder) admin(ctx context.Context, password string) (bool, error) {
	_, err := s.Users.FindByEmail(ctx, AdminEmail)
	switch {
	case err == nil:
		s.Log.Info("admin user already exists", zap.String("email", AdminEmail))
		return false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return false, fmt.Errorf("find admin: %w", err)
	}

	hash, err := service.HashPassword(password)
	if err != nil {
		return false, err
	}

	u := &models.User{
		Email:        AdminEmail,
		Name:         AdminName,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	s.Log.Info("created admin user", zap.String("email", AdminEmail), zap.Int64("id", u.ID))
	return true, nil
}

func (s *Seeder) cars(ctx context.Context) (int, error) {
	cars, err := SampleCars()
	if err != nil {
		return 0, err
	}

	created := 0
	for i := range cars {
		c := &cars[i]
		exists, err := s.Cars.ExistsByRegistrationNumber(ctx, *c.RegistrationNumber)
		if err != nil {
			return created, fmt.Errorf("check %s: %w", *c.RegistrationNumber, err)
		}
		if exists {
			continue
		}
		if err := s.Cars.Create(ctx, c); err != nil {
			return created, fmt.Errorf("create %s: %w", *c.RegistrationNumber, err)
		}
		created++
	}

	s.Log.Info("seeded sample cars", zap.Int("created", created), zap.Int("total", len(cars)))
	return created, nil
}
