// Package projection maps raw query rows into chart- and table-ready shapes.
// Everything here is pure and total over numeric input.
package projection

import (
	"strings"

	"github.com/declaradash/declaradash/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// HighIncomeThreshold marks monthly incomes rendered in the warning color.
	HighIncomeThreshold = 100000.0

	WarningColor = "#ef4444"
	DefaultColor = "#3b82f6"
)

var printer = message.NewPrinter(language.MustParse("es-MX"))

// AbbreviateAmount shortens a currency magnitude for axis labels: millions as
// "X.X M" (trailing ".0" stripped), thousands as "X.X m", smaller values as a
// grouped plain number.
func AbbreviateAmount(value float64) string {
	d := decimal.NewFromFloat(value)
	million := decimal.NewFromInt(1_000_000)
	thousand := decimal.NewFromInt(1_000)

	switch {
	case d.GreaterThanOrEqual(million):
		return trimZero(d.DivRound(million, 1).StringFixed(1)) + " M"
	case d.GreaterThanOrEqual(thousand):
		return trimZero(d.DivRound(thousand, 1).StringFixed(1)) + " m"
	default:
		return printer.Sprintf("%d", d.Round(0).IntPart())
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

// BarColor picks the bar chart color for an effective monthly income.
func BarColor(monthlyIncome float64) string {
	if monthlyIncome > HighIncomeThreshold {
		return WarningColor
	}
	return DefaultColor
}

// FormatCurrency renders a full grouped amount for table cells.
func FormatCurrency(value float64) string {
	return printer.Sprintf("$%d", decimal.NewFromFloat(value).Round(0).IntPart())
}

// ChartPoint is one bar of the institution income chart.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// TableRow is one declaration row shaped for the data table.
type TableRow struct {
	FullName           string `json:"full_name"`
	Position           string `json:"position"`
	MonthlyNetIncome   string `json:"monthly_net_income"`
	AnnualRemuneration string `json:"annual_remuneration"`
}

// ChartPoints shapes a declaration page into bar chart data. Ordering is the
// query's (effective monthly income descending).
func ChartPoints(declarations []*domain.Declaration) []ChartPoint {
	points := make([]ChartPoint, len(declarations))
	for i, d := range declarations {
		points[i] = ChartPoint{
			Label: d.Position,
			Value: d.MonthlyNetIncome,
			Color: BarColor(d.MonthlyNetIncome),
		}
	}
	return points
}

// TableRows shapes a declaration page for the table renderer.
func TableRows(declarations []*domain.Declaration) []TableRow {
	rows := make([]TableRow, len(declarations))
	for i, d := range declarations {
		rows[i] = TableRow{
			FullName:           d.FullName(),
			Position:           d.Position,
			MonthlyNetIncome:   FormatCurrency(d.MonthlyNetIncome),
			AnnualRemuneration: FormatCurrency(d.AnnualRemuneration),
		}
	}
	return rows
}
