package models

import (
	"fmt"
	"strconv"
	"strings"
)

// GTFSSeconds converts an HH:MM:SS schedule time to seconds after midnight.
// Hours may exceed 23 for trips running past midnight.
func GTFSSeconds(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM:SS", s)
	}
	var values [3]int
	for i, p := range parts {
		if len(p) < 1 || len(p) > 2 && i > 0 {
			return 0, fmt.Errorf("invalid time %q: expected HH:MM:SS", s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid time %q: expected HH:MM:SS", s)
		}
		values[i] = n
	}
	if values[1] > 59 || values[2] > 59 || values[0] > 47 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return values[0]*3600 + values[1]*60 + values[2], nil
}
