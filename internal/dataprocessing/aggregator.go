package dataprocessing

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"salesreport/pkg/contracts/domain"
)

// Field selects a grouping key of a sales record.
type Field string

const (
	FieldYear          Field = "year"
	FieldMonth         Field = "month"
	FieldPeriod        Field = "period"
	FieldBrand         Field = "brand"
	FieldCustomer      Field = "customer"
	FieldCustomerGroup Field = "customer_group"
	FieldMarket        Field = "market"
	FieldItem          Field = "item"
)

// timeBased reports whether the field needs a parsed date.
func (f Field) timeBased() bool {
	return f == FieldYear || f == FieldMonth || f == FieldPeriod
}

func (f Field) value(r domain.SalesRecord) string {
	switch f {
	case FieldYear:
		return strconv.Itoa(r.Year)
	case FieldMonth:
		return strconv.Itoa(r.Month)
	case FieldPeriod:
		return r.Period()
	case FieldBrand:
		return r.Brand
	case FieldCustomer:
		return r.Customer
	case FieldCustomerGroup:
		return r.CustomerGroup
	case FieldMarket:
		return string(r.Market)
	case FieldItem:
		return r.Item
	default:
		return ""
	}
}

// Measure selects the summed value.
type Measure string

const (
	MeasureAmount   Measure = "amount"
	MeasureQuantity Measure = "quantity"
)

func (m Measure) value(r domain.SalesRecord) decimal.Decimal {
	if m == MeasureQuantity {
		return r.Quantity
	}
	return r.Amount
}

// Predicate selects records for aggregation.
type Predicate func(domain.SalesRecord) bool

// Filter returns the records matching every predicate, in order.
func Filter(records []domain.SalesRecord, preds ...Predicate) []domain.SalesRecord {
	out := make([]domain.SalesRecord, 0, len(records))
next:
	for _, r := range records {
		for _, p := range preds {
			if !p(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}

// InYear matches dated records of year.
func InYear(year int) Predicate {
	return func(r domain.SalesRecord) bool { return r.HasDate() && r.Year == year }
}

// InMarket matches records of market m.
func InMarket(m domain.Market) Predicate {
	return func(r domain.SalesRecord) bool { return r.Market == m }
}

// ExcludeDummy drops non-merchandise accounting lines.
func ExcludeDummy() Predicate {
	return func(r domain.SalesRecord) bool { return !r.IsDummy }
}

// WithBrand matches records of brand.
func WithBrand(brand string) Predicate {
	return func(r domain.SalesRecord) bool { return r.Brand == brand }
}

// WithCustomer matches records of customer.
func WithCustomer(customer string) Predicate {
	return func(r domain.SalesRecord) bool { return r.Customer == customer }
}

// WithItem matches records of item.
func WithItem(item string) Predicate {
	return func(r domain.SalesRecord) bool { return r.Item == item }
}

// Group is one aggregated key with its summed value.
type Group struct {
	Key   []string
	Value decimal.Decimal
}

// Label joins the key parts for display.
func (g Group) Label() string {
	return strings.Join(g.Key, " / ")
}

// Aggregation is an ordered list of groups. The zero value is empty.
type Aggregation struct {
	Fields []Field
	Groups []Group

	// index maps a joined key to its position in Groups.
	index map[string]int
}

const keySep = "\x1f"

// Aggregate sums measure per distinct key over fields. Groups appear in
// the order their key is first encountered. Undated records are skipped
// when any field is time based.
func Aggregate(records []domain.SalesRecord, measure Measure, fields ...Field) Aggregation {
	needsDate := false
	for _, f := range fields {
		if f.timeBased() {
			needsDate = true
		}
	}

	agg := Aggregation{Fields: fields, index: make(map[string]int)}

	for _, r := range records {
		if needsDate && !r.HasDate() {
			continue
		}

		key := make([]string, len(fields))
		for i, f := range fields {
			key[i] = f.value(r)
		}
		k := strings.Join(key, keySep)

		if i, ok := agg.index[k]; ok {
			agg.Groups[i].Value = agg.Groups[i].Value.Add(measure.value(r))
			continue
		}
		agg.index[k] = len(agg.Groups)
		agg.Groups = append(agg.Groups, Group{Key: key, Value: measure.value(r)})
	}

	return agg
}

// Ranked returns the groups by value descending, keeping encounter order
// among ties, truncated to topN when topN > 0.
func (a Aggregation) Ranked(topN int) Aggregation {
	groups := append([]Group(nil), a.Groups...)
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Value.GreaterThan(groups[j].Value)
	})
	if topN > 0 && len(groups) > topN {
		groups = groups[:topN]
	}
	return newAggregation(a.Fields, groups)
}

// Chronological returns the groups sorted by key, comparing numeric key
// parts as numbers.
func (a Aggregation) Chronological() Aggregation {
	groups := append([]Group(nil), a.Groups...)
	sort.SliceStable(groups, func(i, j int) bool {
		return keyLess(groups[i].Key, groups[j].Key)
	})
	return newAggregation(a.Fields, groups)
}

func newAggregation(fields []Field, groups []Group) Aggregation {
	index := make(map[string]int, len(groups))
	for i, g := range groups {
		index[strings.Join(g.Key, keySep)] = i
	}
	return Aggregation{Fields: fields, Groups: groups, index: index}
}

func keyLess(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] == b[i] {
			continue
		}
		ai, aErr := strconv.Atoi(a[i])
		bi, bErr := strconv.Atoi(b[i])
		if aErr == nil && bErr == nil {
			return ai < bi
		}
		return a[i] < b[i]
	}
	return len(a) < len(b)
}

// Lookup returns the value for key, or zero when the key is absent.
func (a Aggregation) Lookup(key ...string) decimal.Decimal {
	if i, ok := a.index[strings.Join(key, keySep)]; ok {
		return a.Groups[i].Value
	}
	return decimal.Zero
}

// Total sums every group.
func (a Aggregation) Total() decimal.Decimal {
	total := decimal.Zero
	for _, g := range a.Groups {
		total = total.Add(g.Value)
	}
	return total
}

// Len returns the number of groups.
func (a Aggregation) Len() int {
	return len(a.Groups)
}

// Keys returns the first key part of every group, in order.
func (a Aggregation) Keys() []string {
	keys := make([]string, len(a.Groups))
	for i, g := range a.Groups {
		if len(g.Key) > 0 {
			keys[i] = g.Key[0]
		}
	}
	return keys
}

// Sum totals measure over records.
func Sum(records []domain.SalesRecord, measure Measure) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(measure.value(r))
	}
	return total
}

// Years returns the distinct years of dated records, ascending.
func Years(records []domain.SalesRecord) []int {
	seen := make(map[int]bool)
	var years []int
	for _, r := range records {
		if r.HasDate() && !seen[r.Year] {
			seen[r.Year] = true
			years = append(years, r.Year)
		}
	}
	sort.Ints(years)
	return years
}
