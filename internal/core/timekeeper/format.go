package timekeeper

import "fmt"

// Clamp bounds value to [minValue, maxValue].
func Clamp[T ~int | ~int64 | ~float64](value, minValue, maxValue T) T {
	if value < minValue {
		return minValue
	}
	if value > maxValue {
		return maxValue
	}
	return value
}

// RemainingFromTarget returns whole seconds until targetMillis, rounded up.
func RemainingFromTarget(targetMillis, nowMillis int64) int {
	delta := targetMillis - nowMillis
	if delta <= 0 {
		return 0
	}
	return int((delta + 999) / 1000)
}

// FormatLabel renders seconds as MM:SS, or HH:MM:SS from one hour up.
func FormatLabel(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	seconds = seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// ProgressPercent returns elapsed time as a percentage in [0, 100].
func ProgressPercent(duration, remaining int) float64 {
	if duration <= 0 {
		return 0
	}
	elapsed := float64(duration - remaining)
	return Clamp(elapsed/float64(duration)*100, 0, 100)
}

// FormatAdjustStep renders an adjust step as "30s" or "5m".
func FormatAdjustStep(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm", seconds/60)
}

// FormatSignedAdjust renders a signed adjust label such as "+10s" or "-5m".
func FormatSignedAdjust(deltaSeconds int) string {
	if deltaSeconds < 0 {
		return "-" + FormatAdjustStep(-deltaSeconds)
	}
	return "+" + FormatAdjustStep(deltaSeconds)
}

// AdjustSteps lists the adjust menu increments in seconds.
var AdjustSteps = []int{1, 10, 30, 60, 5 * 60, 10 * 60, 20 * 60, 30 * 60}
