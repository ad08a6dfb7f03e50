package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/atinyakov/carlot/internal/listing"
	"github.com/atinyakov/carlot/internal/models"
	"github.com/atinyakov/carlot/internal/repository"
)

type mockCarRepo struct {
	CreateFunc  func(ctx context.Context, c *models.Car) error
	GetByIDFunc func(ctx context.Context, id int64) (*models.Car, error)
	UpdateFunc  func(ctx context.Context, c *models.Car) error
	ListFunc    func(ctx context.Context, q listing.Query) ([]models.Car, int, error)
}

func (m *mockCarRepo) Create(ctx context.Context, c *models.Car) error {
	return m.CreateFunc(ctx, c)
}
func (m *mockCarRepo) GetByID(ctx context.Context, id int64) (*models.Car, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *mockCarRepo) Update(ctx context.Context, c *models.Car) error {
	return m.UpdateFunc(ctx, c)
}
func (m *mockCarRepo) List(ctx context.Context, q listing.Query) ([]models.Car, int, error) {
	return m.ListFunc(ctx, q)
}

func TestCreateCar_AssignsID(t *testing.T) {
	repo := &mockCarRepo{
		CreateFunc: func(ctx context.Context, c *models.Car) error {
			if c.ID != 0 {
				t.Errorf("Create received id %d; want 0", c.ID)
			}
			c.ID = 12
			return nil
		},
	}
	svc := NewCarService(repo)

	got, err := svc.Create(context.Background(), models.Car{ID: 99, Name: "Civic"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if got.ID != 12 {
		t.Errorf("Create id = %d; want 12", got.ID)
	}
}

func TestCreateCar_Conflict(t *testing.T) {
	repo := &mockCarRepo{
		CreateFunc: func(ctx context.Context, c *models.Car) error {
			return repository.ErrConflict
		},
	}
	_, err := NewCarService(repo).Create(context.Background(), models.Car{})
	if !errors.Is(err, ErrDuplicateCar) {
		t.Errorf("Create error = %v; want ErrDuplicateCar", err)
	}
}

func TestUpdateCar_OnlySetFieldsChange(t *testing.T) {
	p := decimal.RequireFromString("25000")
	stored := models.Car{ID: 5, Name: "Civic", Brand: "Honda", Year: 2023, Price: &p}

	var saved *models.Car
	repo := &mockCarRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*models.Car, error) {
			c := stored
			return &c, nil
		},
		UpdateFunc: func(ctx context.Context, c *models.Car) error {
			saved = c
			return nil
		},
	}

	patch := models.CarPatch{Price: models.Some(decimal.RequireFromString("23000"))}
	got, err := NewCarService(repo).Update(context.Background(), 5, patch)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if saved == nil {
		t.Fatal("Update did not persist")
	}
	if !got.Price.Equal(decimal.NewFromInt(23000)) {
		t.Errorf("price = %s; want 23000", got.Price)
	}
	if got.Name != "Civic" || got.Brand != "Honda" || got.Year != 2023 || got.ID != 5 {
		t.Errorf("untouched fields changed: %+v", got)
	}
}

func TestUpdateCar_EmptyPatchIsNoop(t *testing.T) {
	repo := &mockCarRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*models.Car, error) {
			return &models.Car{ID: id, Name: "Civic"}, nil
		},
		UpdateFunc: func(ctx context.Context, c *models.Car) error {
			t.Error("Update must not write for an empty patch")
			return nil
		},
	}
	got, err := NewCarService(repo).Update(context.Background(), 1, models.CarPatch{})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if got.Name != "Civic" {
		t.Errorf("name = %q; want Civic", got.Name)
	}
}

func TestUpdateCar_Errors(t *testing.T) {
	tests := []struct {
		name    string
		getErr  error
		saveErr error
		want    error
	}{
		{"missing", repository.ErrNotFound, nil, ErrCarNotFound},
		{"duplicate registration", nil, repository.ErrConflict, ErrDuplicateCar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockCarRepo{
				GetByIDFunc: func(ctx context.Context, id int64) (*models.Car, error) {
					if tt.getErr != nil {
						return nil, tt.getErr
					}
					return &models.Car{ID: id}, nil
				},
				UpdateFunc: func(ctx context.Context, c *models.Car) error {
					return tt.saveErr
				},
			}
			_, err := NewCarService(repo).Update(context.Background(), 7, models.CarPatch{Name: models.Some("x")})
			if !errors.Is(err, tt.want) {
				t.Errorf("Update error = %v; want %v", err, tt.want)
			}
		})
	}
}

func TestList_IgnoresFilters(t *testing.T) {
	year := 2024
	repo := &mockCarRepo{
		ListFunc: func(ctx context.Context, q listing.Query) ([]models.Car, int, error) {
			if q.Year != nil || q.OrderBy != listing.OrderNone {
				t.Errorf("List forwarded filters: %+v", q)
			}
			if q.Limit != 3 || q.Offset != 6 {
				t.Errorf("List page = %d/%d; want 3/6", q.Limit, q.Offset)
			}
			return []models.Car{}, 0, nil
		},
	}
	q := listing.Query{Limit: 3, Offset: 6, Year: &year, OrderBy: listing.OrderPrice}
	if _, _, err := NewCarService(repo).List(context.Background(), q); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
}

func TestListPublic_ForwardsQuery(t *testing.T) {
	year := 2024
	repo := &mockCarRepo{
		ListFunc: func(ctx context.Context, q listing.Query) ([]models.Car, int, error) {
			if q.Year == nil || *q.Year != 2024 || q.OrderBy != listing.OrderPriceDesc {
				t.Errorf("ListPublic query = %+v", q)
			}
			return []models.Car{{ID: 1}}, 4, nil
		},
	}
	q := listing.Query{Limit: 1, Year: &year, OrderBy: listing.OrderPriceDesc}
	cars, total, err := NewCarService(repo).ListPublic(context.Background(), q)
	if err != nil {
		t.Fatalf("ListPublic returned error: %v", err)
	}
	if total != 4 || len(cars) != 1 {
		t.Errorf("ListPublic = %d cars, total %d", len(cars), total)
	}
}
