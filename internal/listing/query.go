// Package listing implements filtering, ordering and pagination over car listings.
//
// A Query is built from request parameters and can be rendered two ways: as a
// SQL WHERE/ORDER BY pair for the Postgres store, or as a predicate and
// comparator for the in-memory store. Both renderings have the same
// semantics.
package listing

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// DefaultLimit is the page size used when none is requested.
	DefaultLimit = 10
	// MaxLimit is the largest page a caller may request.
	MaxLimit = 100
)

// Order is one of the fixed sort modes of the public listing.
type Order string

const (
	OrderNone               Order = ""
	OrderPrice              Order = "price"
	OrderPriceDesc          Order = "price_desc"
	OrderRegisteredYear     Order = "registered_year"
	OrderRegisteredYearDesc Order = "registered_year_desc"
)

// ParseOrder maps a query value to an Order. Unknown values yield OrderNone.
func ParseOrder(s string) Order {
	switch o := Order(s); o {
	case OrderPrice, OrderPriceDesc, OrderRegisteredYear, OrderRegisteredYearDesc:
		return o
	default:
		return OrderNone
	}
}

// Query describes one page of listings.
type Query struct {
	Limit  int
	Offset int

	// MaxPrice keeps listings priced at or below the value. Listings without
	// a price never match.
	MaxPrice *decimal.Decimal
	// Year keeps listings with exactly this manufacture year.
	Year *int
	// WheelDrive keeps listings whose wheel drive contains the value,
	// ignoring case.
	WheelDrive *string

	OrderBy Order
}

// NewQuery returns a Query with default pagination and no filters.
func NewQuery() Query {
	return Query{Limit: DefaultLimit}
}

// ValidationError reports a query parameter that could not be accepted.
type ValidationError struct {
	Param   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid query parameter %q: %s", e.Param, e.Message)
}

// ParsePage reads limit and offset from v.
func ParsePage(v url.Values) (Query, error) {
	q := NewQuery()

	if s := v.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return q, &ValidationError{Param: "limit", Message: "must be an integer"}
		}
		q.Limit = n
	}
	if q.Limit < 1 || q.Limit > MaxLimit {
		return q, &ValidationError{Param: "limit", Message: fmt.Sprintf("must be between 1 and %d", MaxLimit)}
	}

	if s := v.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return q, &ValidationError{Param: "offset", Message: "must be an integer"}
		}
		q.Offset = n
	}
	if q.Offset < 0 {
		return q, &ValidationError{Param: "offset", Message: "must be greater than or equal to 0"}
	}

	return q, nil
}

// ParsePublic reads pagination, filters and ordering from v.
func ParsePublic(v url.Values) (Query, error) {
	q, err := ParsePage(v)
	if err != nil {
		return q, err
	}

	if s := v.Get("max_price"); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return q, &ValidationError{Param: "max_price", Message: "must be a number"}
		}
		if d.IsNegative() {
			return q, &ValidationError{Param: "max_price", Message: "must be greater than or equal to 0"}
		}
		q.MaxPrice = &d
	}

	if s := v.Get("year"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return q, &ValidationError{Param: "year", Message: "must be an integer"}
		}
		q.Year = &n
	}

	if s := v.Get("wheel_drive"); s != "" {
		q.WheelDrive = &s
	}

	q.OrderBy = ParseOrder(v.Get("order_by"))
	return q, nil
}

// Where renders the filters as a SQL condition using positional arguments
// starting at $first. It returns an empty string when nothing is filtered.
func (q Query) Where(first int) (string, []any) {
	var (
		conds []string
		args  []any
	)
	next := func() string {
		return "$" + strconv.Itoa(first+len(args))
	}

	if q.MaxPrice != nil {
		conds = append(conds, "price <= "+next())
		args = append(args, q.MaxPrice.String())
	}
	if q.Year != nil {
		conds = append(conds, "year = "+next())
		args = append(args, *q.Year)
	}
	if q.WheelDrive != nil {
		conds = append(conds, "wheel_drive ILIKE "+next())
		args = append(args, "%"+escapeLike(*q.WheelDrive)+"%")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// OrderClause renders the ordering as SQL. Nulls always sort last and id
// breaks ties so that pages are stable.
func (q Query) OrderClause() string {
	switch q.OrderBy {
	case OrderPrice:
		return "ORDER BY price ASC NULLS LAST, id ASC"
	case OrderPriceDesc:
		return "ORDER BY price DESC NULLS LAST, id ASC"
	case OrderRegisteredYear:
		return "ORDER BY registered_year ASC NULLS LAST, id ASC"
	case OrderRegisteredYearDesc:
		return "ORDER BY registered_year DESC NULLS LAST, id ASC"
	default:
		return "ORDER BY id ASC"
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
