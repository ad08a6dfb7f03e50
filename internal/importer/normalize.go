// Package importer loads scraped listings from an external dealer feed into
// the car store. Records are cleaned up by Normalize and written by Run,
// keyed on registration number.
package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/atinyakov/carlot/internal/models"
)

// Source tags every listing written by the importer.
const Source = "ayvens"

// DefaultYear is used when the registration date carries no year.
const DefaultYear = 2024

// Listing is one raw record as scraped from the dealer site. All values are
// the visible page text.
type Listing struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Price          string `json:"price"`
	RegisteredDate string `json:"registered_date"`
	FuelType       string `json:"fuel_type"`
	Mileage        string `json:"mileage"`
	Color          string `json:"color"`
	LicensePlate   string `json:"license_plate"`
	WheelDrive     string `json:"wheel_drive"`
	Make           string `json:"make"`
	Model          string `json:"model"`
	Link           string `json:"link"`
	ImageURL       string `json:"image_url"`
	Sold           bool   `json:"sold"`
}

// Decode reads a JSON array of listings.
func Decode(r io.Reader) ([]Listing, error) {
	var out []Listing
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	return out, nil
}

var yearPattern = regexp.MustCompile(`\b(20\d{2})\b`)

// vocabulary maps Swedish feed terms to the English ones stored in the
// inventory. Unknown terms pass through.
var vocabulary = map[string]string{
	"elektrisk":      "electric",
	"diesel":         "diesel",
	"bensin":         "petrol",
	"hybrid":         "hybrid",
	"petrol":         "petrol",
	"vit":            "white",
	"svart":          "black",
	"grå":            "grey",
	"röd":            "red",
	"blå":            "blue",
	"gul":            "yellow",
	"grön":           "green",
	"brun":           "brown",
	"orange":         "orange",
	"bakhjulsdrift":  "rear wheel drive",
	"framhjulsdrift": "front wheel drive",
	"fyrhjulsdrift":  "four wheel drive",
}

func toEnglish(s string) string {
	if en, ok := vocabulary[s]; ok {
		return en
	}
	return s
}

// ExtractYear returns the first 20xx year in s.
func ExtractYear(s string) (int, bool) {
	m := yearPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	y, err := strconv.Atoi(m[1])
	return y, err == nil
}

// ParseMileage keeps only the digits of s, so "12 345 mil" is 12345.
func ParseMileage(s string) (int, bool) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(b.String())
	return n, err == nil
}

func clean(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", ""))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Normalize converts a scraped record into a car listing.
func Normalize(l Listing) (models.Car, error) {
	maker := strings.ToLower(clean(l.Make))
	model := strings.ToLower(clean(l.Model))

	c := models.Car{
		Name:            strings.TrimSpace(l.Name),
		Brand:           toEnglish(maker),
		Model:           toEnglish(model),
		Make:            maker,
		FuelType:        toEnglish(strings.ToLower(strings.TrimSpace(l.FuelType))),
		Color:           toEnglish(strings.ToLower(strings.TrimSpace(l.Color))),
		Year:            DefaultYear,
		RegisteredDate:  optional(strings.TrimSpace(l.RegisteredDate)),
		Variant:         optional(strings.TrimSpace(l.Description)),
		ExternalLink:    optional(strings.TrimSpace(l.Link)),
		DisplayImageURL: optional(strings.TrimSpace(l.ImageURL)),
	}

	src := Source
	c.Source = &src

	if wd := toEnglish(strings.ToLower(strings.TrimSpace(l.WheelDrive))); wd != "" {
		c.WheelDrive = &wd
	}
	if plate := strings.ToUpper(strings.TrimSpace(l.LicensePlate)); plate != "" {
		c.RegistrationNumber = &plate
	}

	if y, ok := ExtractYear(l.RegisteredDate); ok {
		c.Year = y
		c.RegisteredYear = &y
	}
	if m, ok := ParseMileage(l.Mileage); ok {
		c.Mileage = &m
	}

	if p := strings.TrimSpace(l.Price); p != "" {
		d, err := decimal.NewFromString(p)
		if err != nil {
			return models.Car{}, fmt.Errorf("price %q: %w", p, err)
		}
		c.Price = &d
	}

	return c, nil
}
