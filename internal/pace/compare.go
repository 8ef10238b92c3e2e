package pace

import (
	"fmt"
	"math"

	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/model"
)

// Tolerance is the decimal-page band, inclusive, reported as on-track.
const Tolerance = 1.0

// OnTrackMessage is shown when the actual position is within Tolerance.
const OnTrackMessage = "Sesuai target"

// CompareActualVsTarget classifies actual against target.
// Status follows the decimal difference; the page and line differences are
// raw field deltas.
func CompareActualVsTarget(actual, target model.Position) model.ComparisonResult {
	diff := PageLineToDecimal(actual.Page, actual.Line) - PageLineToDecimal(target.Page, target.Line)
	result := model.ComparisonResult{
		PageDifference:         actual.Page - target.Page,
		LineDifference:         actual.Line - target.Line,
		TotalDifferenceDecimal: diff,
	}
	switch {
	case diff > Tolerance:
		result.Status = model.StatusAhead
		result.Message = fmt.Sprintf("+%.1f halaman di depan", math.Abs(diff))
	case diff < -Tolerance:
		result.Status = model.StatusBehind
		result.Message = fmt.Sprintf("-%.1f halaman tertinggal", math.Abs(diff))
	default:
		result.Status = model.StatusOnTrack
		result.Message = OnTrackMessage
	}
	return result
}
