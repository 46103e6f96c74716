package timekeeper

import (
	"math"
	"strconv"
	"strings"
)

// ParseEditableTime converts typed text into a clamped duration.
// Accepted forms are "M", "MM:SS" and "HH:MM:SS"; a single token counts
// minutes. It returns false for empty, negative, non-numeric or
// over-long input, in which case the caller keeps its previous value.
func ParseEditableTime(text string) (int, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, false
	}

	tokens := strings.Split(trimmed, ":")
	if len(tokens) > 3 {
		return 0, false
	}

	parts := make([]float64, 0, len(tokens))
	for _, token := range tokens {
		value, ok := parseToken(token)
		if !ok {
			return 0, false
		}
		parts = append(parts, value)
	}

	var total float64
	switch len(parts) {
	case 1:
		total = parts[0] * 60
	case 2:
		total = parts[0]*60 + parts[1]
	case 3:
		total = parts[0]*3600 + parts[1]*60 + parts[2]
	}

	return ClampDuration(int(math.Min(math.Round(total), math.MaxInt32))), true
}

// parseToken accepts decimal numbers; a blank token counts as zero.
func parseToken(token string) (float64, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, true
	}
	value, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, false
	}
	return value, true
}
