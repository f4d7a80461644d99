package service

import (
	"fmt"
	"strconv"
	"strings"
)

// Slot times travel through the system as "HH:MM:SS" clock strings, the
// same representation MySQL uses for TIME columns.  The generator does
// its interval math on minutes-since-midnight and converts back at the
// edges.

// parseClock converts "HH:MM:SS" (seconds optional) to minutes since
// midnight.
func parseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in clock value %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in clock value %q", s)
	}
	return h*60 + m, nil
}

// formatClock converts minutes since midnight back to "HH:MM:SS".
func formatClock(mins int) string {
	return fmt.Sprintf("%02d:%02d:00", mins/60, mins%60)
}
