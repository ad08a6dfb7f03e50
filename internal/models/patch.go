package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Optional marks whether a field was supplied in a partial update.
//
// Set is true only when the JSON key was present with a non-null value.
// A missing key and an explicit null both leave the field untouched.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = v
	o.Set = true
	return nil
}

// CarPatch lists the listing fields a caller may overwrite.
type CarPatch struct {
	Name     Optional[string] `json:"name"`
	Brand    Optional[string] `json:"brand"`
	Model    Optional[string] `json:"model"`
	Make     Optional[string] `json:"make"`
	FuelType Optional[string] `json:"fuel_type"`
	Color    Optional[string] `json:"color"`
	Year     Optional[int]    `json:"year"`

	Price              Optional[decimal.Decimal] `json:"price"`
	RegisteredDate     Optional[string]          `json:"registered_date"`
	RegisteredYear     Optional[int]             `json:"registered_year"`
	Mileage            Optional[int]             `json:"mileage"`
	WheelDrive         Optional[string]          `json:"wheel_drive"`
	RegistrationNumber Optional[string]          `json:"registration_number"`
	Variant            Optional[string]          `json:"variant"`
	Source             Optional[string]          `json:"source"`
	ExternalLink       Optional[string]          `json:"external_link"`
	DisplayImageURL    Optional[string]          `json:"display_image_url"`
}

// Empty reports whether no field is set.
func (p CarPatch) Empty() bool {
	return !(p.Name.Set || p.Brand.Set || p.Model.Set || p.Make.Set ||
		p.FuelType.Set || p.Color.Set || p.Year.Set || p.Price.Set ||
		p.RegisteredDate.Set || p.RegisteredYear.Set || p.Mileage.Set ||
		p.WheelDrive.Set || p.RegistrationNumber.Set || p.Variant.Set ||
		p.Source.Set || p.ExternalLink.Set || p.DisplayImageURL.Set)
}

// Apply merges the set fields of p into c.
func (p CarPatch) Apply(c *Car) {
	setValue(&c.Name, p.Name)
	setValue(&c.Brand, p.Brand)
	setValue(&c.Model, p.Model)
	setValue(&c.Make, p.Make)
	setValue(&c.FuelType, p.FuelType)
	setValue(&c.Color, p.Color)
	setValue(&c.Year, p.Year)

	setPointer(&c.Price, p.Price)
	setPointer(&c.RegisteredDate, p.RegisteredDate)
	setPointer(&c.RegisteredYear, p.RegisteredYear)
	setPointer(&c.Mileage, p.Mileage)
	setPointer(&c.WheelDrive, p.WheelDrive)
	setPointer(&c.RegistrationNumber, p.RegistrationNumber)
	setPointer(&c.Variant, p.Variant)
	setPointer(&c.Source, p.Source)
	setPointer(&c.ExternalLink, p.ExternalLink)
	setPointer(&c.DisplayImageURL, p.DisplayImageURL)
}

func setValue[T any](dst *T, o Optional[T]) {
	if o.Set {
		*dst = o.Value
	}
}

func setPointer[T any](dst **T, o Optional[T]) {
	if o.Set {
		v := o.Value
		*dst = &v
	}
}
