package editguard

import "github.com/2beens/gymsheets/internal/tabular"

// ShouldHandle reports whether an edit of the edited region touches the
// watched region: same sheet, and the rectangles overlap on both axes.
// Containment either way counts as overlap.
func ShouldHandle(edited, watched tabular.Region) bool {
	if edited.Sheet != watched.Sheet {
		return false
	}
	return overlaps(edited.Row, edited.EndRow(), watched.Row, watched.EndRow()) &&
		overlaps(edited.Col, edited.EndCol(), watched.Col, watched.EndCol())
}

func overlaps(eStart, eEnd, wStart, wEnd int) bool {
	coversStart := eStart <= wStart && eEnd >= wStart
	coversEnd := eStart <= wEnd && eEnd >= wEnd
	within := eStart >= wStart && eEnd <= wEnd
	return coversStart || coversEnd || within
}
