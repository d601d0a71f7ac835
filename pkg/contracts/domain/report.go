package domain

import "time"

// MergedRow is one cost center of the final report: the TopM aggregate
// outer-joined with the Addison figures plus the derived
// "Aufwendungen final". A cost center missing on one side keeps that
// side's monetary fields at zero and its ratio fields at NaN; HasTopM
// and HasAddison record which sides contributed.
type MergedRow struct {
	KSt     string `json:"kst" validate:"required"`
	Filiale string `json:"filiale"`

	HasTopM    bool `json:"has_topm"`
	HasAddison bool `json:"has_addison"`

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

	Umsatzerloese    float64 `json:"umsatzerloese"`
	Aufwendungen     float64 `json:"aufwendungen"`
	Rohergebnis      float64 `json:"rohergebnis"`
	UmsatzerloeseKum float64 `json:"umsatzerloese_kum"`
	AufwendungenKum  float64 `json:"aufwendungen_kum"`

	AufwendungenFinal float64 `json:"aufwendungen_final"`
}

// Report is the complete merged result, ordered by cost center
// ascending. Generated once per run and immutable afterwards.
type Report struct {
	Rows        []MergedRow `json:"rows" validate:"dive"`
	GeneratedAt time.Time   `json:"generated_at"`
}
