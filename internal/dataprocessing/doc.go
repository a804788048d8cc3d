// Package dataprocessing holds the shared analytical core of every report:
// normalization, aggregation and derived metrics.
//
// # Normalizer
//
// Normalizer converts raw export rows into canonical sales records. Numbers
// that do not parse become zero, missing names fall back to the unknown label,
// customer aliases are consolidated into one export customer, the brand is the
// first word of the item name, the market is derived from the customer group
// or name, and month-end closing or shipping lines are flagged as dummy rows.
//
// # Aggregator
//
// Aggregate groups any record subset by one or more fields and sums amount or
// quantity. Filters compose in front of it:
//
//	current := dataprocessing.Filter(records, dataprocessing.InYear(2025), dataprocessing.ExcludeDummy())
//	top := dataprocessing.Aggregate(current, dataprocessing.MeasureAmount, dataprocessing.FieldBrand).Ranked(5)
//
// Groups keep first-encounter order and Ranked sorts stably, so ties are
// reported in source order.
//
// # Metrics
//
// GrowthPct and SharePct never fail: a zero baseline or total yields 0.
// Classifier turns growth, export share and revenue into insight tags.
package dataprocessing
