package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/atinyakov/carlot/internal/listing"
	"github.com/atinyakov/carlot/internal/models"
	"github.com/atinyakov/carlot/internal/repository"
)

var (
	// ErrCarNotFound is returned when the addressed listing does not exist.
	ErrCarNotFound = errors.New("car not found")
	// ErrDuplicateCar is returned when a write would reuse another listing's
	// registration number.
	ErrDuplicateCar = errors.New("registration number already in use")
)

// CarRepository persists car listings.
type CarRepository interface {
	Create(ctx context.Context, c *models.Car) error
	GetByID(ctx context.Context, id int64) (*models.Car, error)
	Update(ctx context.Context, c *models.Car) error
	List(ctx context.Context, q listing.Query) ([]models.Car, int, error)
}

// CarService creates, updates and lists car listings.
type CarService struct {
	repo CarRepository
}

// NewCarService constructs a CarService.
func NewCarService(repo CarRepository) *CarService {
	return &CarService{repo: repo}
}

func translate(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrCarNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrDuplicateCar
	default:
		return err
	}
}

// Create stores c and returns it with its assigned id.
func (s *CarService) Create(ctx context.Context, c models.Car) (*models.Car, error) {
	c.ID = 0
	if err := s.repo.Create(ctx, &c); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// Update merges the fields set in patch into listing id. An empty patch
// returns the listing unchanged.
func (s *CarService) Update(ctx context.Context, id int64, patch models.CarPatch) (*models.Car, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if patch.Empty() {
		return c, nil
	}

	patch.Apply(c)
	c.ID = id
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, translate(err)
	}
	return c, nil
}

// List returns a page of listings in id order. Filters and ordering in q
// are ignored.
func (s *CarService) List(ctx context.Context, q listing.Query) ([]models.Car, int, error) {
	page := listing.Query{Limit: q.Limit, Offset: q.Offset}
	cars, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list cars: %w", err)
	}
	return cars, total, nil
}

// ListPublic returns a filtered, ordered page of listings.
func (s *CarService) ListPublic(ctx context.Context, q listing.Query) ([]models.Car, int, error) {
	cars, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("list public cars: %w", err)
	}
	return cars, total, nil
}
