package dataprocessing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesreport/pkg/contracts/domain"
)

func sale(date string, brand, customer string, market domain.Market, amount int64) domain.SalesRecord {
	r := domain.SalesRecord{
		Customer: customer,
		Item:     brand + " item",
		Brand:    brand,
		Market:   market,
		Amount:   decimal.NewFromInt(amount),
		Quantity: decimal.NewFromInt(1),
	}
	if date != "" {
		r.Date, _ = time.Parse("2006-01-02", date)
		r.Year = r.Date.Year()
		r.Month = int(r.Date.Month())
	}
	return r
}

func values(a Aggregation) []int64 {
	out := make([]int64, len(a.Groups))
	for i, g := range a.Groups {
		out[i] = g.Value.IntPart()
	}
	return out
}

func TestAggregate_EncounterOrder(t *testing.T) {
	records := []domain.SalesRecord{
		sale("2024-01-05", "B", "c1", domain.MarketDomestic, 10),
		sale("2024-02-05", "A", "c2", domain.MarketExport, 20),
		sale("2025-01-05", "B", "c1", domain.MarketDomestic, 5),
	}

	agg := Aggregate(records, MeasureAmount, FieldBrand)
	assert.Equal(t, []string{"B", "A"}, agg.Keys())
	assert.Equal(t, []int64{15, 20}, values(agg))
	assert.Equal(t, int64(35), agg.Total().IntPart())
	assert.Equal(t, 2, agg.Len())
}

func TestAggregate_MultiKey(t *testing.T) {
	records := []domain.SalesRecord{
		sale("2024-01-05", "A", "c1", domain.MarketExport, 10),
		sale("2024-03-05", "A", "c1", domain.MarketDomestic, 7),
		sale("2025-01-05", "A", "c1", domain.MarketExport, 4),
		sale("2024-06-05", "A", "c1", domain.MarketExport, 1),
	}

	agg := Aggregate(records, MeasureAmount, FieldYear, FieldMarket)
	require.Equal(t, 3, agg.Len())
	assert.Equal(t, int64(11), agg.Lookup("2024", "Export").IntPart())
	assert.Equal(t, int64(7), agg.Lookup("2024", "Domestic").IntPart())
	assert.Equal(t, int64(4), agg.Lookup("2025", "Export").IntPart())
	assert.True(t, agg.Lookup("2025", "Domestic").IsZero())
	assert.Equal(t, "2024 / Export", agg.Groups[0].Label())
}

func TestAggregation_LookupAfterReorder(t *testing.T) {
	records := []domain.SalesRecord{
		sale("2024-03-05", "A", "c1", domain.MarketDomestic, 10),
		sale("2024-01-05", "B", "c1", domain.MarketDomestic, 30),
		sale("2024-02-05", "C", "c1", domain.MarketDomestic, 20),
	}

	ranked := Aggregate(records, MeasureAmount, FieldBrand).Ranked(2)
	assert.Equal(t, []string{"B", "C"}, ranked.Keys())
	assert.Equal(t, int64(30), ranked.Lookup("B").IntPart())
	assert.Equal(t, int64(20), ranked.Lookup("C").IntPart())
	assert.True(t, ranked.Lookup("A").IsZero(), "truncated groups are no longer found")

	chrono := Aggregate(records, MeasureAmount, FieldPeriod).Chronological()
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, chrono.Keys())
	assert.Equal(t, int64(10), chrono.Lookup("2024-03").IntPart())

	var zero Aggregation
	assert.True(t, zero.Lookup("A").IsZero())
}

func TestAggregate_UndatedRows(t *testing.T) {
	records := []domain.SalesRecord{
		sale("2024-01-05", "A", "c1", domain.MarketDomestic, 10),
		sale("", "A", "c1", domain.MarketDomestic, 90),
	}

	byYear := Aggregate(records, MeasureAmount, FieldYear)
	assert.Equal(t, []int64{10}, values(byYear), "undated rows are left out of time-keyed groups")

	byPeriod := Aggregate(records, MeasureAmount, FieldPeriod, FieldBrand)
	assert.Equal(t, []int64{10}, values(byPeriod))

	byBrand := Aggregate(records, MeasureAmount, FieldBrand)
	assert.Equal(t, []int64{100}, values(byBrand), "undated rows still count in other groups")
}

func TestAggregate_Empty(t *testing.T) {
	for _, f := range []Field{FieldYear, FieldMonth, FieldPeriod, FieldBrand, FieldCustomer, FieldCustomerGroup, FieldMarket, FieldItem} {
		agg := Aggregate(nil, MeasureAmount, f)
		assert.Zero(t, agg.Len(), string(f))
		assert.True(t, agg.Total().IsZero())
		assert.Zero(t, agg.Ranked(5).Len())
		assert.True(t, agg.Lookup("x").IsZero())
	}
}

func TestRanked_StableTies(t *testing.T) {
	records := []domain.SalesRecord{
		sale("", "p", "c", domain.MarketDomestic, 10),
		sale("", "q", "c", domain.MarketDomestic, 30),
		sale("", "r", "c", domain.MarketDomestic, 20),
		sale("", "s", "c", domain.MarketDomestic, 30),
	}

	top := Aggregate(records, MeasureAmount, FieldBrand).Ranked(3)
	assert.Equal(t, []string{"q", "s", "r"}, top.Keys())
	assert.Equal(t, []int64{30, 30, 20}, values(top))

	all := Aggregate(records, MeasureAmount, FieldBrand).Ranked(0)
	assert.Equal(t, []string{"q", "s", "r", "p"}, all.Keys())
}

func TestRanked_DoesNotMutate(t *testing.T) {
	records := []domain.SalesRecord{
		sale("", "a", "c", domain.MarketDomestic, 1),
		sale("", "b", "c", domain.MarketDomestic, 2),
	}
	agg := Aggregate(records, MeasureAmount, FieldBrand)
	_ = agg.Ranked(1)
	assert.Equal(t, []string{"a", "b"}, agg.Keys())
}

func TestChronological(t *testing.T) {
	records := []domain.SalesRecord{
		sale("2024-10-01", "a", "c", domain.MarketDomestic, 1),
		sale("2024-09-01", "a", "c", domain.MarketDomestic, 2),
		sale("2023-12-01", "a", "c", domain.MarketDomestic, 3),
	}

	byMonth := Aggregate(records, MeasureAmount, FieldMonth).Chronological()
	assert.Equal(t, []string{"9", "10", "12"}, byMonth.Keys(), "months sort numerically")

	byPeriod := Aggregate(records, MeasureAmount, FieldPeriod).Chronological()
	assert.Equal(t, []string{"2023-12", "2024-09", "2024-10"}, byPeriod.Keys())
}

func TestFilter(t *testing.T) {
	dummy := sale("2024-05-01", "월마감", "c1", domain.MarketDomestic, 50)
	dummy.IsDummy = true
	records := []domain.SalesRecord{
		sale("2024-01-01", "A", "c1", domain.MarketExport, 10),
		sale("2025-01-01", "A", "c2", domain.MarketDomestic, 20),
		sale("2024-02-01", "B", "c1", domain.MarketDomestic, 30),
		sale("", "A", "c1", domain.MarketDomestic, 40),
		dummy,
	}

	tests := []struct {
		name  string
		preds []Predicate
		want  []int64
	}{
		{"no predicates", nil, []int64{10, 20, 30, 40, 50}},
		{"year", []Predicate{InYear(2024)}, []int64{10, 30, 50}},
		{"year and market", []Predicate{InYear(2024), InMarket(domain.MarketDomestic)}, []int64{30, 50}},
		{"exclude dummy", []Predicate{InYear(2024), ExcludeDummy()}, []int64{10, 30}},
		{"brand", []Predicate{WithBrand("A")}, []int64{10, 20, 40}},
		{"customer", []Predicate{WithCustomer("c2")}, []int64{20}},
		{"item", []Predicate{WithItem("B item")}, []int64{30}},
		{"nothing matches", []Predicate{InYear(1999)}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(records, tt.preds...)
			amounts := make([]int64, len(got))
			for i, r := range got {
				amounts[i] = r.Amount.IntPart()
			}
			assert.Equal(t, tt.want, amounts)
		})
	}
}

func TestSumAndYears(t *testing.T) {
	records := []domain.SalesRecord{
		sale("2025-01-01", "A", "c", domain.MarketDomestic, 3),
		sale("", "A", "c", domain.MarketDomestic, 4),
		sale("2023-01-01", "A", "c", domain.MarketDomestic, 5),
		sale("2025-06-01", "A", "c", domain.MarketDomestic, 6),
	}

	assert.Equal(t, int64(18), Sum(records, MeasureAmount).IntPart())
	assert.Equal(t, int64(4), Sum(records, MeasureQuantity).IntPart())
	assert.Equal(t, []int{2023, 2025}, Years(records))
	assert.Nil(t, Years(nil))
}
