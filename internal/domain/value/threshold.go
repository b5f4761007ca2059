package value

const (
	MinThresholdPct = 0
	MaxThresholdPct = 90
)

// ThresholdInRange reports whether pct is an acceptable discount threshold.
func ThresholdInRange(pct float64) bool {
	return pct >= MinThresholdPct && pct <= MaxThresholdPct
}
