package dataprocessing

import (
	"log/slog"
	"sort"

	"dmreport/internal/errors"
	"dmreport/pkg/contracts/domain"
)

// Treatment declares how the aggregator handles one input column.
// Every column of the classified TopM schema must carry exactly one
// treatment; an undeclared column is a configuration error at startup,
// not a silent pass-through.
type Treatment int

const (
	// TreatmentSum adds the column across the group, preserving sign.
	TreatmentSum Treatment = iota
	// TreatmentRecompute rederives a ratio from aggregated sums.
	// Ratios are never summed.
	TreatmentRecompute
	// TreatmentDrop discards the column at cost-center level.
	TreatmentDrop
	// TreatmentPassthrough keeps a representative value for the group
	// (most frequent, ties broken lexicographically).
	TreatmentPassthrough
)

func (t Treatment) String() string {
	switch t {
	case TreatmentSum:
		return "sum"
	case TreatmentRecompute:
		return "recompute"
	case TreatmentDrop:
		return "drop"
	case TreatmentPassthrough:
		return "passthrough"
	default:
		return "unknown"
	}
}

// ColumnRule declares the treatment of one classified-row column. Sum
// rules carry accessors that read the row value and accumulate it into
// the aggregate.
type ColumnRule struct {
	Column    string
	Treatment Treatment

	value func(*domain.ClassifiedRow) float64
	add   func(*domain.CostCenterAggregate, float64)
}

// classifiedColumns is the full column set of a classified TopM row.
// KSt is the grouping key and therefore not subject to treatment.
var classifiedColumns = []string{
	"Hilfsmittel",
	"Filiale",
	"Aufträge",
	"(1) Umsatz-berechnung",
	"(2) Netto EK",
	"(3) Netto EK Ohne WK",
	"(4) WK EK",
	"AP_EK_Verrechnung_WK_mit_FP",
	"(5) = (3) + (4)",
	"(6) DB I = (1) - (5)",
	"AP DB I mit FP",
	"Modifikationen",
	"Modifikationen 09/32",
	"DBI %",
	"AP DBI % mit FP",
	"DBI % Modifikationen",
	"DBI % Modifikationen 09/32",
}

// DefaultColumnRules returns the canonical treatment declaration for
// the classified TopM schema: monetary columns summed, ratio columns
// recomputed, the account label dropped, the Filiale kept as a
// representative value.
func DefaultColumnRules() []ColumnRule {
	return []ColumnRule{
		{Column: "Hilfsmittel", Treatment: TreatmentDrop},
		{Column: "Filiale", Treatment: TreatmentPassthrough},
		{Column: "Aufträge", Treatment: TreatmentSum,
			value: func(r *domain.ClassifiedRow) float64 { return r.Auftraege },
			add:   func(a *domain.CostCenterAggregate, v float64) { a.Auftraege += v }},
		{Column: "(1) Umsatz-berechnung", Treatment: TreatmentSum,
			value: func(r *domain.ClassifiedRow) float64 { return r.Umsatz },
			add:   func(a *domain.CostCenterAggregate, v float64) { a.Umsatz += v }},
		{Column: "(2) Netto EK", Treatment: TreatmentSum,
			value: func(r *domain.ClassifiedRow) float64 { return r.NettoEK },
			add:   func(a *domain.CostCenterAggregate, v float64) { a.NettoEK += v }},
		{Column: "(3) Netto EK Ohne WK", Treatment: TreatmentSum,
			value: func(r *domain.ClassifiedRow) float64 { return r.NettoEKOhneWK },
			add:   func(a *domain.CostCenterAggregate, v float64) { a.NettoEKOhneWK += v }},
		{Column: "(4) WK EK", Treatment: TreatmentSum,
			value: func(r *domain.ClassifiedRow) float64 { return r.WKEK },
			add:   func(a *domain.CostCenterAggregate, v float64) { a.WKEK += v }},
		{Column: "AP_EK_Verrechnung_WK_mit_FP", Treatment: TreatmentSum,
			value: func(r *domain.ClassifiedRow) float64 { return r.APEKVerrechnung },
			add:   func(a *domain.CostCenterAggregate, v float64) { a.APEKVerrechnung += v }},
		{Column: "(5) = (3) + (4)", Treatment: TreatmentSum,
			value: func(r *domain.ClassifiedRow) float64 { return r.Summe5 },
			add:   func(a *domain.CostCenterAggregate, v float64) { a.Summe5 += v }},
		{Column: "(6) DB I = (1) - (5)", Treatment: TreatmentSum,
			value: func(r *domain.ClassifiedRow) float64 { return r.DBI },
			add:   func(a *domain.CostCenterAggregate, v float64) { a.DBI += v }},
		{Column: "AP DB I mit FP", Treatment: TreatmentSum,
			value: func(r *domain.ClassifiedRow) float64 { return r.APDBIMitFP },
			add:   func(a *domain.CostCenterAggregate, v float64) { a.APDBIMitFP += v }},
		{Column: "Modifikationen", Treatment: TreatmentSum,
			value: func(r *domain.ClassifiedRow) float64 { return r.Modifikation },
			add:   func(a *domain.CostCenterAggregate, v float64) { a.Modifikation += v }},
		{Column: "Modifikationen 09/32", Treatment: TreatmentSum,
			value: func(r *domain.ClassifiedRow) float64 { return r.Mod0932 },
			add:   func(a *domain.CostCenterAggregate, v float64) { a.Mod0932 += v }},
		{Column: "DBI %", Treatment: TreatmentRecompute},
		{Column: "AP DBI % mit FP", Treatment: TreatmentRecompute},
		{Column: "DBI % Modifikationen", Treatment: TreatmentRecompute},
		{Column: "DBI % Modifikationen 09/32", Treatment: TreatmentRecompute},
	}
}

// Aggregator collapses classified TopM rows to one record per cost
// center. Construction validates the column-treatment declaration
// exhaustively, so the classic sum-of-percentages bug becomes a
// startup-time error.
type Aggregator struct {
	rules  []ColumnRule
	logger *slog.Logger
}

// NewAggregator creates an aggregator from a treatment declaration.
func NewAggregator(rules []ColumnRule, logger *slog.Logger) (*Aggregator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	declared := make(map[string]Treatment, len(rules))
	for _, rule := range rules {
		if _, dup := declared[rule.Column]; dup {
			return nil, errors.NewAggregationConfigError(rule.Column, "treatment declared twice")
		}
		declared[rule.Column] = rule.Treatment
		if rule.Treatment == TreatmentSum && (rule.value == nil || rule.add == nil) {
			return nil, errors.NewAggregationConfigError(rule.Column, "sum treatment without accessors")
		}
	}

	known := make(map[string]bool, len(classifiedColumns))
	for _, name := range classifiedColumns {
		known[name] = true
		if _, ok := declared[name]; !ok {
			return nil, errors.NewAggregationConfigError(name, "no aggregation treatment declared")
		}
	}
	for name := range declared {
		if !known[name] {
			return nil, errors.NewAggregationConfigError(name, "treatment declared for unknown column")
		}
	}

	return &Aggregator{rules: rules, logger: logger}, nil
}

// Aggregate groups the classified rows by cost center. Monetary
// columns are summed, ratio columns recomputed from the aggregated
// numerators and denominators. The per-category Modifikation subtotal
// is retained so the collapse stays auditable. Cost centers without
// input rows are absent from the output; supplying defaults for them
// is the merger's job. Output is sorted by cost center ascending and
// independent of input row order.
func (a *Aggregator) Aggregate(rows []domain.ClassifiedRow) []domain.CostCenterAggregate {
	byKSt := make(map[string]*domain.CostCenterAggregate)
	filialeCounts := make(map[string]map[string]int)

	for i := range rows {
		row := &rows[i]
		agg, ok := byKSt[row.KSt]
		if !ok {
			agg = &domain.CostCenterAggregate{
				KSt:        row.KSt,
				ByCategory: make(map[domain.Category]float64),
			}
			byKSt[row.KSt] = agg
			filialeCounts[row.KSt] = make(map[string]int)
		}

		for _, rule := range a.rules {
			if rule.Treatment == TreatmentSum {
				rule.add(agg, rule.value(row))
			}
		}
		agg.ByCategory[row.Category] += row.Modifikation
		agg.RowCount++
		filialeCounts[row.KSt][row.Filiale]++
	}

	result := make([]domain.CostCenterAggregate, 0, len(byKSt))
	for kst, agg := range byKSt {
		agg.Filiale = representativeFiliale(filialeCounts[kst])

		agg.DBIPct = safeDiv(agg.DBI, agg.Umsatz)
		agg.APDBIPct = safeDiv(agg.APDBIMitFP, agg.Umsatz)
		agg.ModPct = safeDiv(agg.Modifikation, agg.Umsatz)
		agg.Mod0932Pct = safeDiv(agg.Mod0932, agg.Umsatz)

		result = append(result, *agg)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].KSt < result[j].KSt })

	a.logger.Info("TopM rows aggregated",
		slog.Int("input_rows", len(rows)),
		slog.Int("cost_centers", len(result)))

	return result
}

// representativeFiliale picks the most frequent Filiale of a group,
// breaking ties lexicographically for deterministic output.
func representativeFiliale(counts map[string]int) string {
	best := ""
	bestCount := -1
	for filiale, count := range counts {
		if count > bestCount || (count == bestCount && filiale < best) {
			best = filiale
			bestCount = count
		}
	}
	return best
}
