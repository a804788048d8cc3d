// Package report renders sales reports from canonical records.
//
// Each report variant is a Plan walking a fixed outline over the shared
// aggregates: summary (all periods), yoy (current against base year) and
// deep (market split with insight tags). Plans only look up aggregates and
// format them; empty sections render a placeholder line instead of a table.
//
// Renderer renders every configured report in memory and optionally converts
// it to HTML. Writing is left to the caller so a failed render writes nothing.
package report
