// Package stats derives dashboard and report aggregates from the full
// receipt collection. Everything here is a pure function of its inputs:
// aggregates are recomputed on demand rather than maintained incrementally,
// which keeps them correct under insert/delete at the volumes a single
// school produces.
package stats

import (
	"log/slog"
	"sort"
	"time"

	"toya/internal/core"
)

// MonthlyPoint is one bucket of the trailing-twelve-months series.
type MonthlyPoint struct {
	Month  string     `json:"month"` // e.g. "Jan 2024"
	Amount core.Money `json:"amount"`
}

// ClassTotal is the collected amount for one class/grade cohort.
type ClassTotal struct {
	Name   string     `json:"name"`
	Amount core.Money `json:"amount"`
}

// DailyPoint is one day of a period report series.
type DailyPoint struct {
	Date   string     `json:"date"` // YYYY-MM-DD
	Amount core.Money `json:"amount"`
}

const monthLabelLayout = "Jan 2006"

// OutstandingEstimate mirrors the legacy dashboard's "outstanding" figure:
// a flat 45% of the collected total. It is a placeholder heuristic with no
// business rule behind it and is surfaced only as an explicitly-labeled
// estimate.
func OutstandingEstimate(collected core.Money) core.Money {
	return core.Money{Cents: collected.Cents * 45 / 100}
}

// MonthlyTotals buckets receipts into the trailing twelve months ending at
// now. Buckets step back from now in fixed 30-day strides and are labeled by
// the month/year the stride lands in; buckets with no receipts report zero.
// Receipts whose date cannot be parsed are skipped and logged.
func MonthlyTotals(receipts []core.Receipt, now time.Time) []MonthlyPoint {
	sums := make(map[string]int64)
	var order []string
	for i := 11; i >= 0; i-- {
		label := now.AddDate(0, 0, -i*30).Format(monthLabelLayout)
		if _, seen := sums[label]; !seen {
			sums[label] = 0
			order = append(order, label)
		}
	}
	for _, r := range receipts {
		d, err := core.ParseDate(r.Date)
		if err != nil {
			slog.Warn("Skipping receipt with unparseable date in monthly totals",
				"reference_id", r.ReferenceID, "date", r.Date, "error", err)
			continue
		}
		label := d.Format(monthLabelLayout)
		if _, ok := sums[label]; ok {
			sums[label] += r.Amount.Cents
		}
	}
	points := make([]MonthlyPoint, 0, len(order))
	for _, label := range order {
		points = append(points, MonthlyPoint{Month: label, Amount: core.Money{Cents: sums[label]}})
	}
	return points
}

// ClassTotals sums collected amounts per class/grade, sorted ascending by
// class name. With no other filter applied the row amounts add up to the
// collection's total.
func ClassTotals(receipts []core.Receipt) []ClassTotal {
	sums := make(map[string]int64)
	for _, r := range receipts {
		sums[r.ClassGrade] += r.Amount.Cents
	}
	totals := make([]ClassTotal, 0, len(sums))
	for name, cents := range sums {
		totals = append(totals, ClassTotal{Name: name, Amount: core.Money{Cents: cents}})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Name < totals[j].Name })
	return totals
}

// PeriodFilter restricts a report to an inclusive [Start, End] date range
// and, when ClassGrade is set, to a single class.
type PeriodFilter struct {
	Start      string // YYYY-MM-DD
	End        string // YYYY-MM-DD
	ClassGrade string
}

// PeriodReport summarizes the receipts of one reporting period.
type PeriodReport struct {
	Start          string       `json:"start"`
	End            string       `json:"end"`
	ClassGrade     string       `json:"class_grade,omitempty"`
	TotalCollected core.Money   `json:"total_collected"`
	Transactions   int          `json:"transactions"`
	Daily          []DailyPoint `json:"daily"`
}

// PeriodTotals computes the total, transaction count and a zero-filled daily
// series for every calendar day in [f.Start, f.End] inclusive. Receipt dates
// are compared on the calendar day, ignoring time-of-day.
func PeriodTotals(receipts []core.Receipt, f PeriodFilter) (PeriodReport, error) {
	start, err := time.Parse("2006-01-02", f.Start)
	if err != nil {
		return PeriodReport{}, err
	}
	end, err := time.Parse("2006-01-02", f.End)
	if err != nil {
		return PeriodReport{}, err
	}

	report := PeriodReport{Start: f.Start, End: f.End, ClassGrade: f.ClassGrade}
	sums := make(map[string]int64)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := d.Format("2006-01-02")
		sums[day] = 0
		report.Daily = append(report.Daily, DailyPoint{Date: day})
	}

	for _, r := range receipts {
		day := core.DateOnly(r.Date)
		if day < f.Start || day > f.End {
			continue
		}
		if f.ClassGrade != "" && r.ClassGrade != f.ClassGrade {
			continue
		}
		if _, ok := sums[day]; !ok {
			// Date inside the lexicographic range but not a real calendar
			// day (malformed input); skip it like any unparseable date.
			slog.Warn("Skipping receipt with malformed date in period totals",
				"reference_id", r.ReferenceID, "date", r.Date)
			continue
		}
		sums[day] += r.Amount.Cents
		report.TotalCollected.Cents += r.Amount.Cents
		report.Transactions++
	}

	for i := range report.Daily {
		report.Daily[i].Amount = core.Money{Cents: sums[report.Daily[i].Date]}
	}
	return report, nil
}

// FilteredReceipts returns the receipts a period report is built from, in
// the order given. Used by the report exports so the downloaded rows match
// the on-screen numbers.
func FilteredReceipts(receipts []core.Receipt, f PeriodFilter) []core.Receipt {
	var out []core.Receipt
	for _, r := range receipts {
		day := core.DateOnly(r.Date)
		if day < f.Start || day > f.End {
			continue
		}
		if f.ClassGrade != "" && r.ClassGrade != f.ClassGrade {
			continue
		}
		out = append(out, r)
	}
	return out
}
