package domain

// Addison "Art" labels relevant to the merge. Rows with any other Art
// are ignored during the pivot.
const (
	ArtUmsatzerloese = "Umsatzerlöse"
	ArtAufwendungen  = "Aufwendungen für bez. Lfg. und Lst."
	ArtRohergebnis   = "Rohergebnis"
)

// AddisonRow is one raw line of the Addison export: a single Art
// (revenue, expense or gross result) for one cost center, with the
// current-period value (Wert4) and the cumulative value (Wert6).
type AddisonRow struct {
	RowNumber int     `json:"row_number"`
	KSt       string  `json:"kst" validate:"required"`
	Art       string  `json:"art" validate:"required"`
	Wert4     float64 `json:"wert4"`
	Wert6     float64 `json:"wert6"`
}

// AddisonFigures holds the pivoted Addison values for one cost center:
// one column per relevant Art, current period plus cumulative for
// revenue and expenses.
type AddisonFigures struct {
	KSt string `json:"kst" validate:"required"`

	Umsatzerloese    float64 `json:"umsatzerloese"`
	Aufwendungen     float64 `json:"aufwendungen"`
	Rohergebnis      float64 `json:"rohergebnis"`
	UmsatzerloeseKum float64 `json:"umsatzerloese_kum"`
	AufwendungenKum  float64 `json:"aufwendungen_kum"`
}
