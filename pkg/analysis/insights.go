package analysis

// Insight messages.
const (
	InsightHighLucidity  = "You have a high rate of lucid dreaming! This suggests good dream awareness."
	InsightLowLucidity   = "Consider practicing lucid dreaming techniques to increase awareness."
	InsightPoorSleep     = "Your sleep quality could be improved. Consider sleep hygiene practices."
	InsightGoodSleep     = "You maintain good sleep quality! Keep up the healthy habits."
	InsightPositive      = "Your dreams tend to be positive! This may reflect good mental wellbeing."
	InsightLowPositivity = "Consider activities that promote positive thoughts before bed."
	InsightKeepRecording = "Keep recording dreams to unlock more insights!"
	InsightNotEnoughData = "Not enough data for insights."
)

// Rule thresholds. Every comparison is strict, so a value sitting exactly on
// a threshold triggers nothing.
const (
	HighLucidityPercent = 20.0
	LowLucidityPercent  = 5.0
	PoorSleepQuality    = 5.0
	GoodSleepQuality    = 7.0
	HighPositivePercent = 60.0
	LowPositivePercent  = 30.0
)

// Insights applies the lucidity, sleep and sentiment rules to stats, in that
// order. When no rule fires the single keep-recording message is returned;
// empty stats yield only the not-enough-data message.
func Insights(stats Stats) []string {
	if stats.Empty {
		return []string{InsightNotEnoughData}
	}

	var out []string

	switch {
	case stats.LucidPercentage > HighLucidityPercent:
		out = append(out, InsightHighLucidity)
	case stats.LucidPercentage < LowLucidityPercent:
		out = append(out, InsightLowLucidity)
	}

	switch {
	case stats.AverageSleepQuality < PoorSleepQuality:
		out = append(out, InsightPoorSleep)
	case stats.AverageSleepQuality > GoodSleepQuality:
		out = append(out, InsightGoodSleep)
	}

	switch {
	case stats.PositivePercentage > HighPositivePercent:
		out = append(out, InsightPositive)
	case stats.PositivePercentage < LowPositivePercent:
		out = append(out, InsightLowPositivity)
	}

	if len(out) == 0 {
		return []string{InsightKeepRecording}
	}
	return out
}

// isPlaceholder reports whether insights is one of the single-line messages
// shown when no rule fired.
func isPlaceholder(insights []string) bool {
	return len(insights) == 1 &&
		(insights[0] == InsightKeepRecording || insights[0] == InsightNotEnoughData)
}
