package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/atinyakov/carlot/internal/apperr"
	"github.com/atinyakov/carlot/internal/listing"
	"github.com/atinyakov/carlot/internal/models"
	"github.com/atinyakov/carlot/internal/service"
)

// CarService defines the listing operations used by CarHandler.
type CarService interface {
	Create(ctx context.Context, c models.Car) (*models.Car, error)
	Update(ctx context.Context, id int64, patch models.CarPatch) (*models.Car, error)
	List(ctx context.Context, q listing.Query) ([]models.Car, int, error)
	ListPublic(ctx context.Context, q listing.Query) ([]models.Car, int, error)
}

// CarHandler serves the /v1/cars endpoints.
type CarHandler struct {
	CarService CarService
	Logger     *zap.Logger
}

// CarRequest is the body of POST /v1/cars. Descriptive fields must be
// present but may be empty strings.
type CarRequest struct {
	Name     *string `json:"name" validate:"required"`
	Brand    *string `json:"brand" validate:"required"`
	Model    *string `json:"model" validate:"required"`
	Make     *string `json:"make" validate:"required"`
	FuelType *string `json:"fuel_type" validate:"required"`
	Color    *string `json:"color" validate:"required"`
	Year     *int    `json:"year" validate:"required"`

	Price              *decimal.Decimal `json:"price"`
	RegisteredDate     *string          `json:"registered_date"`
	RegisteredYear     *int             `json:"registered_year"`
	Mileage            *int             `json:"mileage"`
	WheelDrive         *string          `json:"wheel_drive"`
	RegistrationNumber *string          `json:"registration_number"`
	Variant            *string          `json:"variant"`
	Source             *string          `json:"source"`
	ExternalLink       *string          `json:"external_link"`
	DisplayImageURL    *string          `json:"display_image_url"`
}

func (req *CarRequest) model() models.Car {
	return models.Car{
		Name:               *req.Name,
		Brand:              *req.Brand,
		Model:              *req.Model,
		Make:               *req.Make,
		FuelType:           *req.FuelType,
		Color:              *req.Color,
		Year:               *req.Year,
		Price:              req.Price,
		RegisteredDate:     req.RegisteredDate,
		RegisteredYear:     req.RegisteredYear,
		Mileage:            req.Mileage,
		WheelDrive:         req.WheelDrive,
		RegistrationNumber: req.RegistrationNumber,
		Variant:            req.Variant,
		Source:             req.Source,
		ExternalLink:       req.ExternalLink,
		DisplayImageURL:    req.DisplayImageURL,
	}
}

// CarResponse is the full projection of a listing. Unknown optional
// fields are rendered as null.
type CarResponse struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Brand              string  `json:"brand"`
	Model              string  `json:"model"`
	Make               string  `json:"make"`
	FuelType           string  `json:"fuel_type"`
	Color              string  `json:"color"`
	Year               int     `json:"year"`
	Price              *string `json:"price"`
	RegisteredDate     *string `json:"registered_date"`
	RegisteredYear     *int    `json:"registered_year"`
	Mileage            *int    `json:"mileage"`
	WheelDrive         *string `json:"wheel_drive"`
	RegistrationNumber *string `json:"registration_number"`
	Variant            *string `json:"variant"`
	Source             *string `json:"source"`
	ExternalLink       *string `json:"external_link"`
	DisplayImageURL    *string `json:"display_image_url"`
}

// PublicCarResponse is the projection shown to anonymous callers.
type PublicCarResponse struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Brand          string  `json:"brand"`
	Model          string  `json:"model"`
	Make           string  `json:"make"`
	FuelType       string  `json:"fuel_type"`
	Color          string  `json:"color"`
	Price          *string `json:"price"`
	RegisteredYear *int    `json:"registered_year"`
	Mileage        *int    `json:"mileage"`
	WheelDrive     *string `json:"wheel_drive"`
}

// Page is one page of a listing query.
type Page[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// formatPrice renders a price with two decimal places.
func formatPrice(p *decimal.Decimal) *string {
	if p == nil {
		return nil
	}
	s := p.StringFixed(2)
	return &s
}

// NewCarResponse projects c onto every field.
func NewCarResponse(c *models.Car) CarResponse {
	return CarResponse{
		ID:                 c.ID,
		Name:               c.Name,
		Brand:              c.Brand,
		Model:              c.Model,
		Make:               c.Make,
		FuelType:           c.FuelType,
		Color:              c.Color,
		Year:               c.Year,
		Price:              formatPrice(c.Price),
		RegisteredDate:     c.RegisteredDate,
		RegisteredYear:     c.RegisteredYear,
		Mileage:            c.Mileage,
		WheelDrive:         c.WheelDrive,
		RegistrationNumber: c.RegistrationNumber,
		Variant:            c.Variant,
		Source:             c.Source,
		ExternalLink:       c.ExternalLink,
		DisplayImageURL:    c.DisplayImageURL,
	}
}

// NewPublicCarResponse projects c onto the public fields.
func NewPublicCarResponse(c *models.Car) PublicCarResponse {
	return PublicCarResponse{
		ID:             c.ID,
		Name:           c.Name,
		Brand:          c.Brand,
		Model:          c.Model,
		Make:           c.Make,
		FuelType:       c.FuelType,
		Color:          c.Color,
		Price:          formatPrice(c.Price),
		RegisteredYear: c.RegisteredYear,
		Mileage:        c.Mileage,
		WheelDrive:     c.WheelDrive,
	}
}

func newPage[T any](cars []models.Car, total int, q listing.Query, project func(*models.Car) T) Page[T] {
	items := make([]T, len(cars))
	for i := range cars {
		items[i] = project(&cars[i])
	}
	return Page[T]{Items: items, Total: total, Limit: q.Limit, Offset: q.Offset}
}

func (h *CarHandler) fail(w http.ResponseWriter, err error) {
	var verr *listing.ValidationError
	switch {
	case errors.As(err, &verr):
		apperr.Write(w, apperr.Validation("%s", verr.Error()))
	case errors.Is(err, service.ErrDuplicateCar):
		apperr.Write(w, apperr.ErrConflict.WithDetail("Registration number already exists"))
	default:
		if apperr.From(err) == apperr.ErrInternal {
			h.Logger.Error("car request failed", zap.Error(err))
		}
		apperr.Write(w, err)
	}
}

// List handles GET /v1/cars.
func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := listing.ParsePage(r.URL.Query())
	if err != nil {
		h.fail(w, err)
		return
	}

	cars, total, err := h.CarService.List(r.Context(), q)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(cars, total, q, NewCarResponse))
}

// ListPublic handles GET /v1/cars/public.
func (h *CarHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	q, err := listing.ParsePublic(r.URL.Query())
	if err != nil {
		h.fail(w, err)
		return
	}

	cars, total, err := h.CarService.ListPublic(r.Context(), q)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(cars, total, q, NewPublicCarResponse))
}

// Create handles POST /v1/cars.
func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CarRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, err)
		return
	}

	car, err := h.CarService.Create(r.Context(), req.model())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, NewCarResponse(car))
}

// Update handles PUT /v1/cars/{id}. Only fields present in the body are
// changed.
func (h *CarHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.fail(w, apperr.Validation("car id must be an integer"))
		return
	}

	var patch models.CarPatch
	if err := decodeJSON(r, &patch); err != nil {
		h.fail(w, err)
		return
	}

	car, err := h.CarService.Update(r.Context(), id, patch)
	if errors.Is(err, service.ErrCarNotFound) {
		apperr.Write(w, apperr.NotFound("Car with id %d not found", id))
		return
	}
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewCarResponse(car))
}
