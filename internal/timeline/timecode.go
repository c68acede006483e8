package timeline

import (
	"regexp"
	"strconv"
)

var timecodePattern = regexp.MustCompile(`^(\d+):(\d{1,2}):(\d{1,2})(?::(\d+))?$`)

// ParseTimecode converts hh:mm:ss[:ff] to seconds. Frames are ignored.
// It reports false for anything that is not well formed.
func ParseTimecode(tc string) (float64, bool) {
	m := timecodePattern.FindStringSubmatch(tc)
	if m == nil {
		return 0, false
	}
	// Hours are unbounded; parse as float so huge values cannot wrap.
	h, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	mins, _ := strconv.Atoi(m[2])
	secs, _ := strconv.Atoi(m[3])
	return h*3600 + float64(mins*60+secs), true
}
