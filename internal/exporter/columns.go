package exporter

import "dmreport/pkg/contracts/domain"

// columnKind selects the cell formatting of a report column.
type columnKind int

const (
	kindText columnKind = iota
	kindMoney
	kindRatio
)

// reportColumn is the column-level metadata of the merged report:
// header, formatting kind, column width and whether the column is a
// designated key column eligible for visual highlighting.
type reportColumn struct {
	Header    string
	Kind      columnKind
	Width     float64
	Highlight bool

	str func(*domain.MergedRow) string
	num func(*domain.MergedRow) float64
}

// reportColumns fixes the column order of the exported report. The
// two highlighted columns are the figures the monthly review reads
// first.
var reportColumns = []reportColumn{
	{Header: "KSt", Kind: kindText, Width: 9,
		str: func(r *domain.MergedRow) string { return r.KSt }},
	{Header: "Filiale", Kind: kindText, Width: 28,
		str: func(r *domain.MergedRow) string { return r.Filiale }},
	{Header: "Aufträge", Kind: kindMoney, Width: 12,
		num: func(r *domain.MergedRow) float64 { return r.Auftraege }},
	{Header: "(1) Umsatz-berechnung", Kind: kindMoney, Width: 16,
		num: func(r *domain.MergedRow) float64 { return r.Umsatz }},
	{Header: "(2) Netto EK", Kind: kindMoney, Width: 14,
		num: func(r *domain.MergedRow) float64 { return r.NettoEK }},
	{Header: "(3) Netto EK Ohne WK", Kind: kindMoney, Width: 16,
		num: func(r *domain.MergedRow) float64 { return r.NettoEKOhneWK }},
	{Header: "(4) WK EK", Kind: kindMoney, Width: 12,
		num: func(r *domain.MergedRow) float64 { return r.WKEK }},
	{Header: "AP_EK_Verrechnung_WK_mit_FP", Kind: kindMoney, Width: 18,
		num: func(r *domain.MergedRow) float64 { return r.APEKVerrechnung }},
	{Header: "(5) = (3) + (4)", Kind: kindMoney, Width: 14,
		num: func(r *domain.MergedRow) float64 { return r.Summe5 }},
	{Header: "(6) DB I = (1) - (5)", Kind: kindMoney, Width: 15,
		num: func(r *domain.MergedRow) float64 { return r.DBI }},
	{Header: "AP DB I mit FP", Kind: kindMoney, Width: 14,
		num: func(r *domain.MergedRow) float64 { return r.APDBIMitFP }},
	{Header: "Modifikationen", Kind: kindMoney, Width: 14,
		num: func(r *domain.MergedRow) float64 { return r.Modifikation }},
	{Header: "Modifikationen 09/32", Kind: kindMoney, Width: 16,
		num: func(r *domain.MergedRow) float64 { return r.Mod0932 }},
	{Header: "DBI %", Kind: kindRatio, Width: 10,
		num: func(r *domain.MergedRow) float64 { return r.DBIPct }},
	{Header: "AP DBI % mit FP", Kind: kindRatio, Width: 13,
		num: func(r *domain.MergedRow) float64 { return r.APDBIPct }},
	{Header: "DBI % Modifikationen", Kind: kindRatio, Width: 16, Highlight: true,
		num: func(r *domain.MergedRow) float64 { return r.ModPct }},
	{Header: "DBI % Modifikationen 09/32", Kind: kindRatio, Width: 18,
		num: func(r *domain.MergedRow) float64 { return r.Mod0932Pct }},
	{Header: "Umsatzerlöse", Kind: kindMoney, Width: 14,
		num: func(r *domain.MergedRow) float64 { return r.Umsatzerloese }},
	{Header: "Aufwendungen für bez. Lfg. und Lst.", Kind: kindMoney, Width: 20,
		num: func(r *domain.MergedRow) float64 { return r.Aufwendungen }},
	{Header: "Rohergebnis", Kind: kindMoney, Width: 14,
		num: func(r *domain.MergedRow) float64 { return r.Rohergebnis }},
	{Header: "Umsatzerlöse Kum", Kind: kindMoney, Width: 15,
		num: func(r *domain.MergedRow) float64 { return r.UmsatzerloeseKum }},
	{Header: "Aufwendungen für bez. Lfg. und Lst. Kum", Kind: kindMoney, Width: 22,
		num: func(r *domain.MergedRow) float64 { return r.AufwendungenKum }},
	{Header: "Aufwendungen final", Kind: kindMoney, Width: 16, Highlight: true,
		num: func(r *domain.MergedRow) float64 { return r.AufwendungenFinal }},
}

// Headers returns the export column headers in order.
func Headers() []string {
	headers := make([]string, len(reportColumns))
	for i, col := range reportColumns {
		headers[i] = col.Header
	}
	return headers
}

// HighlightedColumns returns the headers of the key columns that
// receive visual emphasis.
func HighlightedColumns() []string {
	var headers []string
	for _, col := range reportColumns {
		if col.Highlight {
			headers = append(headers, col.Header)
		}
	}
	return headers
}
