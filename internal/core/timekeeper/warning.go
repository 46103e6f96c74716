package timekeeper

// WarningLevel classifies remaining time for display.
type WarningLevel string

const (
	WarningNormal      WarningLevel = "normal"
	WarningFinalMinute WarningLevel = "final-minute"
	WarningFinalTen    WarningLevel = "final-ten"
	WarningComplete    WarningLevel = "complete"
)

// Warning maps remaining seconds to a warning level.
func Warning(remaining int, warningsEnabled bool) WarningLevel {
	switch {
	case remaining <= 0:
		return WarningComplete
	case !warningsEnabled:
		return WarningNormal
	case remaining <= 10:
		return WarningFinalTen
	case remaining <= 60:
		return WarningFinalMinute
	default:
		return WarningNormal
	}
}
