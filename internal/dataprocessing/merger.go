package dataprocessing

import (
	"log/slog"
	"math"
	"sort"

	"dmreport/pkg/contracts/domain"
)

// Merger outer-joins the aggregated TopM records with the Addison
// figures on cost center.
type Merger struct {
	logger *slog.Logger
}

// NewMerger creates a new merger
func NewMerger(logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{logger: logger}
}

// ComputeAufwendungenFinal is the fixed business formula for the final
// expense figure, rounded half away from zero to whole euros:
//
//	Aufwendungen final = round(Umsatzerlöse × (1 − DBI% Modifikationen) + Aufwendungen)
//
// When the TopM side is absent for a cost center the ratio is NaN and
// the formula degrades to the Addison figure alone.
func ComputeAufwendungenFinal(umsatzerloese, aufwendungen, modPct float64) float64 {
	if math.IsNaN(modPct) {
		return math.Round(aufwendungen)
	}
	return math.Round(umsatzerloese*(1-modPct) + aufwendungen)
}

// Merge performs a full outer join on cost center: the output key set
// is the union of both sides, no key dropped, no key duplicated. A
// cost center missing on one side gets explicit defaults for that
// side: zero for monetary fields, NaN for ratios. Output is sorted by
// cost center ascending.
func (m *Merger) Merge(topm []domain.CostCenterAggregate, addison []domain.AddisonFigures) []domain.MergedRow {
	topmByKSt := make(map[string]domain.CostCenterAggregate, len(topm))
	for _, agg := range topm {
		topmByKSt[agg.KSt] = agg
	}
	addisonByKSt := make(map[string]domain.AddisonFigures, len(addison))
	for _, fig := range addison {
		addisonByKSt[fig.KSt] = fig
	}

	keySet := make(map[string]bool, len(topmByKSt)+len(addisonByKSt))
	for kst := range topmByKSt {
		keySet[kst] = true
	}
	for kst := range addisonByKSt {
		keySet[kst] = true
	}
	keys := make([]string, 0, len(keySet))
	for kst := range keySet {
		keys = append(keys, kst)
	}
	sort.Strings(keys)

	topmOnly, addisonOnly := 0, 0
	result := make([]domain.MergedRow, 0, len(keys))
	for _, kst := range keys {
		row := domain.MergedRow{
			KSt: kst,
			// Ratio defaults stay NaN unless the TopM side fills them
			DBIPct:     math.NaN(),
			APDBIPct:   math.NaN(),
			ModPct:     math.NaN(),
			Mod0932Pct: math.NaN(),
		}

		if agg, ok := topmByKSt[kst]; ok {
			row.HasTopM = true
			row.Filiale = agg.Filiale
			row.Auftraege = agg.Auftraege
			row.Umsatz = agg.Umsatz
			row.NettoEK = agg.NettoEK
			row.NettoEKOhneWK = agg.NettoEKOhneWK
			row.WKEK = agg.WKEK
			row.APEKVerrechnung = agg.APEKVerrechnung
			row.Summe5 = agg.Summe5
			row.DBI = agg.DBI
			row.APDBIMitFP = agg.APDBIMitFP
			row.Modifikation = agg.Modifikation
			row.Mod0932 = agg.Mod0932
			row.DBIPct = agg.DBIPct
			row.APDBIPct = agg.APDBIPct
			row.ModPct = agg.ModPct
			row.Mod0932Pct = agg.Mod0932Pct
		} else {
			addisonOnly++
		}

		if fig, ok := addisonByKSt[kst]; ok {
			row.HasAddison = true
			row.Umsatzerloese = fig.Umsatzerloese
			row.Aufwendungen = fig.Aufwendungen
			row.Rohergebnis = fig.Rohergebnis
			row.UmsatzerloeseKum = fig.UmsatzerloeseKum
			row.AufwendungenKum = fig.AufwendungenKum
		} else {
			topmOnly++
		}

		row.AufwendungenFinal = ComputeAufwendungenFinal(row.Umsatzerloese, row.Aufwendungen, row.ModPct)
		result = append(result, row)
	}

	m.logger.Info("Sources merged",
		slog.Int("cost_centers", len(result)),
		slog.Int("topm_only", topmOnly),
		slog.Int("addison_only", addisonOnly))

	return result
}
