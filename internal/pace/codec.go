// Package pace computes reading targets and compares positions against them.
package pace

import (
	"fmt"
	"math"

	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/model"
)

const (
	// TotalPages is the number of pages in one hatam.
	TotalPages = 604
	// LinesPerPage is the number of lines on each page.
	LinesPerPage = 15
)

// DecimalToPageLine converts a decimal page to a page and line.
// The page is floored and the line is ceiled, so line 15 begins once the
// fractional part exceeds 14/15. Both are clamped to valid ranges.
func DecimalToPageLine(decimal float64) model.Position {
	page := math.Floor(decimal)
	line := math.Ceil((decimal - page) * LinesPerPage)
	return model.Position{
		Page: clampInt(int(page), 1, TotalPages),
		Line: clampInt(int(line), 1, LinesPerPage),
	}
}

// PageLineToDecimal converts a page and line to a decimal page.
func PageLineToDecimal(page, line int) float64 {
	return float64(page) + float64(line-1)/LinesPerPage
}

// FormatPageLine renders a position for display.
func FormatPageLine(pos model.Position) string {
	return fmt.Sprintf("Halaman %d, Baris %d", pos.Page, pos.Line)
}

// ProgressPercentage returns current/total as a percentage capped at 100.
func ProgressPercentage(current, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Min(current/total*100, 100)
}

// ValidPosition reports whether page and line fall inside the mushaf.
func ValidPosition(page, line int) bool {
	return page >= 1 && page <= TotalPages && line >= 1 && line <= LinesPerPage
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
