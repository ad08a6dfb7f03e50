package listing

import (
	"cmp"
	"slices"
	"strings"

	"github.com/atinyakov/carlot/internal/models"
)

// Match reports whether c passes every filter of q.
func (q Query) Match(c *models.Car) bool {
	if q.MaxPrice != nil {
		if c.Price == nil || c.Price.GreaterThan(*q.MaxPrice) {
			return false
		}
	}
	if q.Year != nil && c.Year != *q.Year {
		return false
	}
	if q.WheelDrive != nil {
		if c.WheelDrive == nil ||
			!strings.Contains(strings.ToLower(*c.WheelDrive), strings.ToLower(*q.WheelDrive)) {
			return false
		}
	}
	return true
}

// Compare orders a before b under q.OrderBy, nulls last, then by id.
func (q Query) Compare(a, b *models.Car) int {
	var c int
	switch q.OrderBy {
	case OrderPrice, OrderPriceDesc:
		c = nullsLast(a.Price == nil, b.Price == nil, func() int {
			return a.Price.Cmp(*b.Price)
		}, q.OrderBy == OrderPriceDesc)
	case OrderRegisteredYear, OrderRegisteredYearDesc:
		c = nullsLast(a.RegisteredYear == nil, b.RegisteredYear == nil, func() int {
			return cmp.Compare(*a.RegisteredYear, *b.RegisteredYear)
		}, q.OrderBy == OrderRegisteredYearDesc)
	}
	if c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func nullsLast(aNil, bNil bool, compare func() int, desc bool) int {
	switch {
	case aNil && bNil:
		return 0
	case aNil:
		return 1
	case bNil:
		return -1
	}
	if desc {
		return -compare()
	}
	return compare()
}

// Apply filters, orders and paginates cars. It returns the page and the
// number of cars that matched before pagination.
func Apply(cars []models.Car, q Query) ([]models.Car, int) {
	matched := make([]models.Car, 0, len(cars))
	for i := range cars {
		if q.Match(&cars[i]) {
			matched = append(matched, cars[i])
		}
	}

	slices.SortStableFunc(matched, func(a, b models.Car) int {
		return q.Compare(&a, &b)
	})

	total := len(matched)
	if q.Offset >= total {
		return []models.Car{}, total
	}
	end := min(q.Offset+q.Limit, total)
	return matched[q.Offset:end], total
}
