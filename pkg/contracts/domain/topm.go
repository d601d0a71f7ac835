package domain

// Category is the Modifikation classification assigned to a TopM row.
// Exactly one category applies per row; the mapping is a pure function
// of the row's account group (and revenue, for the override ranges).
type Category string

const (
	// CategoryDBI uses the row's DB I figure as Modifikation value.
	CategoryDBI Category = "DBI"
	// CategoryAPDBI uses the row's "AP DB I mit FP" figure instead.
	CategoryAPDBI Category = "AP_DBI"
	// CategoryOverride09 marks rows in the reserved "09" account range.
	CategoryOverride09 Category = "OVERRIDE_09"
	// CategoryOverride32 marks rows in the reserved "32" account range.
	CategoryOverride32 Category = "OVERRIDE_32"
)

// TopMRow represents a single contribution-margin line from the TopM
// export. Monetary fields keep the sign of the source export: expenses
// are negative, revenue positive.
type TopMRow struct {
	RowNumber       int     `json:"row_number"`
	Hilfsmittel     string  `json:"hilfsmittel" validate:"required"`
	Filiale         string  `json:"filiale" validate:"required"`
	KSt             string  `json:"kst" validate:"required"`
	Auftraege       float64 `json:"auftraege"`
	Umsatz          float64 `json:"umsatz"`
	NettoEK         float64 `json:"netto_ek"`
	NettoEKOhneWK   float64 `json:"netto_ek_ohne_wk"`
	WKEK            float64 `json:"wk_ek"`
	APEKVerrechnung float64 `json:"ap_ek_verrechnung_wk_mit_fp"`
	Summe5          float64 `json:"summe_5"`
	DBI             float64 `json:"db_i"`
	APDBIMitFP      float64 `json:"ap_db_i_mit_fp"`
}

// ClassifiedRow is a TopM row after rule application. Modifikation is
// the first-stage value chosen by the account-group table; Mod0932
// carries the second-stage value after the 09/32 revenue overrides.
// Ratio fields are NaN when the row's revenue is zero.
type ClassifiedRow struct {
	TopMRow

	Category     Category `json:"category" validate:"required"`
	Modifikation float64  `json:"modifikation"`
	Mod0932      float64  `json:"modifikation_09_32"`
	DBIPct       float64  `json:"dbi_pct"`
	APDBIPct     float64  `json:"ap_dbi_pct_mit_fp"`
	ModPct       float64  `json:"dbi_pct_modifikationen"`
	Mod0932Pct   float64  `json:"dbi_pct_modifikationen_09_32"`
}

// CostCenterAggregate is one row per cost center on the TopM side.
// Monetary fields are sums over all rows of the cost center; ratio
// fields are recomputed from the aggregated sums, never summed.
// ByCategory holds the first-stage Modifikation subtotal per category.
type CostCenterAggregate struct {
	KSt     string `json:"kst" validate:"required"`
	Filiale string `json:"filiale"`

	Auftraege       float64 `json:"auftraege"`
	Umsatz          float64 `json:"umsatz"`
	NettoEK         float64 `json:"netto_ek"`
	NettoEKOhneWK   float64 `json:"netto_ek_ohne_wk"`
	WKEK            float64 `json:"wk_ek"`
	APEKVerrechnung float64 `json:"ap_ek_verrechnung_wk_mit_fp"`
	Summe5          float64 `json:"summe_5"`
	DBI             float64 `json:"db_i"`
	APDBIMitFP      float64 `json:"ap_db_i_mit_fp"`
	Modifikation    float64 `json:"modifikation"`
	Mod0932         float64 `json:"modifikation_09_32"`

	DBIPct     float64 `json:"dbi_pct"`
	APDBIPct   float64 `json:"ap_dbi_pct_mit_fp"`
	ModPct     float64 `json:"dbi_pct_modifikationen"`
	Mod0932Pct float64 `json:"dbi_pct_modifikationen_09_32"`

	ByCategory map[Category]float64 `json:"by_category"`
	RowCount   int                  `json:"row_count"`
}
