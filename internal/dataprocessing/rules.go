package dataprocessing

import (
	"log/slog"

	"dmreport/internal/errors"
	"dmreport/pkg/contracts/domain"
)

// Reserved account ranges with a fixed revenue-share override instead
// of the normal contribution-margin figure. The two factors are
// independent business constants that happen to share a value today.
const (
	accountGroup09 = "09"
	accountGroup32 = "32"

	override09Factor = 0.80
	override32Factor = 0.80
)

// defaultAccountGroups maps the two-digit account group of a
// Hilfsmittel label to its Modifikation category. Groups 10 and 18 use
// "AP DB I mit FP" as Modifikation value; every other mapped group
// uses DB I. Groups 09 and 32 are handled by the overrides above and
// deliberately absent here. An account group outside this table and
// both override ranges has no rule and aborts the run.
var defaultAccountGroups = map[string]domain.Category{
	"01": domain.CategoryDBI,   // Absauggeräte
	"02": domain.CategoryDBI,   // Adaptionshilfen
	"03": domain.CategoryDBI,   // Applikationshilfen
	"04": domain.CategoryDBI,   // Badehilfen
	"05": domain.CategoryDBI,   // Bandagen
	"06": domain.CategoryDBI,   // Bestrahlungsgeräte
	"07": domain.CategoryDBI,   // Blindenhilfsmittel
	"08": domain.CategoryDBI,   // Einlagen (Sammelposition, gefiltert)
	"10": domain.CategoryAPDBI, // Gehhilfen
	"11": domain.CategoryDBI,   // Hilfsmittel gegen Dekubitus
	"12": domain.CategoryDBI,   // Hilfsmittel bei Tracheostoma
	"13": domain.CategoryDBI,   // Hörhilfen
	"14": domain.CategoryDBI,   // Inhalations- und Atemtherapiegeräte
	"15": domain.CategoryDBI,   // Inkontinenzhilfen
	"16": domain.CategoryDBI,   // Kommunikationshilfen
	"17": domain.CategoryDBI,   // Hilfsmittel zur Kompressionstherapie
	"18": domain.CategoryAPDBI, // Kranken-/Behindertenfahrzeuge
	"19": domain.CategoryDBI,   // Krankenpflegeartikel
	"20": domain.CategoryDBI,   // Lagerungshilfen
	"21": domain.CategoryDBI,   // Messgeräte für Körperzustände
	"22": domain.CategoryDBI,   // Mobilitätshilfen
	"23": domain.CategoryDBI,   // Orthesen/Schienen
	"24": domain.CategoryDBI,   // Prothesen
	"25": domain.CategoryDBI,   // Sehhilfen
	"26": domain.CategoryDBI,   // Sitzhilfen
	"27": domain.CategoryDBI,   // Sprechhilfen
	"28": domain.CategoryDBI,   // Stehhilfen
	"29": domain.CategoryDBI,   // Stomaartikel
	"30": domain.CategoryDBI,   // Hilfsmittel zum Glukosemanagement
	"31": domain.CategoryDBI,   // Schuhe
	"33": domain.CategoryDBI,   // Toilettenhilfen
}

// RuleEngine assigns each TopM row its Modifikation category. The rule
// table is built once per run and read-only afterwards; Classify is a
// pure function of the row.
type RuleEngine struct {
	table  map[string]domain.Category
	logger *slog.Logger
}

// NewRuleEngine creates a rule engine with the default account-group
// table.
func NewRuleEngine(logger *slog.Logger) *RuleEngine {
	if logger == nil {
		logger = slog.Default()
	}
	table := make(map[string]domain.Category, len(defaultAccountGroups))
	for k, v := range defaultAccountGroups {
		table[k] = v
	}
	return &RuleEngine{table: table, logger: logger}
}

// AccountGroup extracts the two-digit account group from a Hilfsmittel
// label ("09 - Elektrostimulationsgeräte" -> "09"). The second return
// is false when the label does not start with a two-digit group code.
func AccountGroup(hilfsmittel string) (string, bool) {
	if len(hilfsmittel) < 2 {
		return "", false
	}
	if !isDigit(hilfsmittel[0]) || !isDigit(hilfsmittel[1]) {
		return "", false
	}
	// A third digit would mean a different numbering scheme entirely
	if len(hilfsmittel) > 2 && isDigit(hilfsmittel[2]) {
		return "", false
	}
	return hilfsmittel[:2], true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// Classify assigns the Modifikation category and derived values to one
// TopM row. The override ranges 09 and 32 are checked explicitly and
// independently; they never fall through to the default table. An
// account code with no rule yields an UnmappedAccountError; rows are
// never silently defaulted to a neutral category.
func (e *RuleEngine) Classify(row domain.TopMRow) (domain.ClassifiedRow, error) {
	group, ok := AccountGroup(row.Hilfsmittel)
	if !ok {
		return domain.ClassifiedRow{}, errors.NewUnmappedAccountError(row.Hilfsmittel, row.RowNumber)
	}

	c := domain.ClassifiedRow{TopMRow: row}

	switch group {
	case accountGroup09:
		c.Category = domain.CategoryOverride09
		c.Modifikation = row.DBI
		c.Mod0932 = row.Umsatz * override09Factor
	case accountGroup32:
		c.Category = domain.CategoryOverride32
		c.Modifikation = row.DBI
		c.Mod0932 = row.Umsatz * override32Factor
	default:
		category, mapped := e.table[group]
		if !mapped {
			return domain.ClassifiedRow{}, errors.NewUnmappedAccountError(row.Hilfsmittel, row.RowNumber)
		}
		c.Category = category
		if category == domain.CategoryAPDBI {
			c.Modifikation = row.APDBIMitFP
		} else {
			c.Modifikation = row.DBI
		}
		c.Mod0932 = c.Modifikation
	}

	c.DBIPct = safeDiv(row.DBI, row.Umsatz)
	c.APDBIPct = safeDiv(row.APDBIMitFP, row.Umsatz)
	c.ModPct = safeDiv(c.Modifikation, row.Umsatz)
	c.Mod0932Pct = safeDiv(c.Mod0932, row.Umsatz)

	return c, nil
}

// ClassifyAll classifies every row, aborting on the first unmapped
// account code.
func (e *RuleEngine) ClassifyAll(rows []domain.TopMRow) ([]domain.ClassifiedRow, error) {
	result := make([]domain.ClassifiedRow, 0, len(rows))
	for _, row := range rows {
		c, err := e.Classify(row)
		if err != nil {
			e.logger.Error("Row classification failed",
				slog.String("hilfsmittel", row.Hilfsmittel),
				slog.Int("row", row.RowNumber),
				slog.String("error", err.Error()))
			return nil, err
		}
		result = append(result, c)
	}
	e.logger.Info("TopM rows classified", slog.Int("rows", len(result)))
	return result, nil
}
