package lifecycle

import (
	"strconv"
	"strings"
)

// ParseQuantity extracts the leading numeric magnitude from a free-text
// quantity like "5 kg" or "2.5 boxes". The trailing unit is ignored. The
// second return value reports whether a magnitude could be parsed; callers
// use it to skip quantity adjustment rather than fail the operation.
func ParseQuantity(s string) (float64, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatQuantity renders a magnitude back into the stored string form,
// without trailing zeros ("3" stays "3", "2.5" stays "2.5").
func FormatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
