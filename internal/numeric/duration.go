package numeric

// SplitDuration converts a minutes/seconds pair, as logged in training sheets,
// into whole hours, minutes and seconds.
func SplitDuration(minutes, seconds int) (h, m, s int) {
	total := minutes*60 + seconds
	h = floorDiv(total, 3600)
	rest := total - h*3600
	m = floorDiv(rest, 60)
	s = rest - m*60
	return h, m, s
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
