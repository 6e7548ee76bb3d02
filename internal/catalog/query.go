// Package catalog turns storefront listing query strings into SQL
// predicates. Parsing is lenient: unknown fields and malformed values
// narrow the result set to nothing rather than failing the request.
package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"
)

// ResultsPerPage is the fixed catalog page size.
const ResultsPerPage = 8

// Op is a comparison operator in a catalog filter.
type Op int

const (
	OpEq Op = iota
	OpGt
	OpGte
	OpLt
	OpLte
)

var opNames = map[string]Op{
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
}

// Filter is a single parsed attribute condition.
type Filter struct {
	Field string
	Op    Op
	Value string
}

// Query is a parsed catalog listing request.
type Query struct {
	Keyword string
	Filters []Filter
	Page    int
}

type fieldKind int

const (
	kindText fieldKind = iota
	kindNumeric
)

// filterFields maps the public filter names onto products columns.
// Anything not listed here matches no rows.
var filterFields = map[string]struct {
	column string
	kind   fieldKind
}{
	"category":  {"category", kindText},
	"price":     {"price", kindNumeric},
	"salePrice": {"sale_price", kindNumeric},
	"ratings":   {"ratings", kindNumeric},
	"stock":     {"stock", kindNumeric},
}

// reserved query keys that are not attribute filters.
var reservedKeys = map[string]bool{
	"keyword": true,
	"page":    true,
	"limit":   true,
}

// Parse extracts a catalog query from URL parameters. An unparsable or
// missing page falls back to 1. Filter keys use the field[op] form, a
// bare key means equality.
func Parse(values url.Values) Query {
	q := Query{Page: 1}

	q.Keyword = values.Get("keyword")
	if p, err := strconv.Atoi(values.Get("page")); err == nil && p >= 1 {
		q.Page = p
	}

	for key := range values {
		if reservedKeys[key] {
			continue
		}
		field, op := parseKey(key)
		q.Filters = append(q.Filters, Filter{
			Field: field,
			Op:    op,
			Value: values.Get(key),
		})
	}

	return q
}

// parseKey splits "price[gte]" into field and operator. A bare key or an
// unrecognized operator name reads as equality on the literal key, which
// the allowlist then rejects.
func parseKey(key string) (string, Op) {
	open := strings.IndexByte(key, '[')
	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, OpEq
	}
	op, ok := opNames[key[open+1:len(key)-1]]
	if !ok {
		return key, OpEq
	}
	return key[:open], op
}

// Offset returns the row offset for the query's page.
func (q Query) Offset() uint64 {
	return uint64(q.Page-1) * ResultsPerPage
}

// Conditions renders the query as a squirrel conjunction suitable for
// both the filtered count and the paginated select. Keyword search is a
// case-insensitive substring match on the product name.
func (q Query) Conditions() squirrel.And {
	conds := squirrel.And{}

	if q.Keyword != "" {
		conds = append(conds, squirrel.ILike{"name": "%" + escapeLike(q.Keyword) + "%"})
	}

	for _, f := range q.Filters {
		conds = append(conds, f.condition())
	}

	return conds
}

func (f Filter) condition() squirrel.Sqlizer {
	spec, ok := filterFields[f.Field]
	if !ok {
		return squirrel.Expr("FALSE")
	}

	var value any = f.Value
	if spec.kind == kindNumeric {
		n, err := strconv.ParseFloat(f.Value, 64)
		if err != nil {
			return squirrel.Expr("FALSE")
		}
		value = n
	}

	switch f.Op {
	case OpGt:
		return squirrel.Gt{spec.column: value}
	case OpGte:
		return squirrel.GtOrEq{spec.column: value}
	case OpLt:
		return squirrel.Lt{spec.column: value}
	case OpLte:
		return squirrel.LtOrEq{spec.column: value}
	default:
		return squirrel.Eq{spec.column: value}
	}
}

// escapeLike neutralizes LIKE wildcards in user keywords so they match
// literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
