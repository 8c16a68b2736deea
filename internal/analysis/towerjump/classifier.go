package towerjump

// Rule identifies which detection criterion flagged a period
type Rule int

// Detection rules, in evaluation order
const (
	RuleNone Rule = iota
	RuleExcessiveSpeed
	RuleDistanceRate
	RuleRapidTransitions
	RulePingPong
	RuleBorderPingPong
)

var ruleNames = map[Rule]string{
	RuleNone:             "NONE",
	RuleExcessiveSpeed:   "EXCESSIVE_SPEED",
	RuleDistanceRate:     "DISTANCE_RATE",
	RuleRapidTransitions: "RAPID_TRANSITIONS",
	RulePingPong:         "PING_PONG",
	RuleBorderPingPong:   "BORDER_PING_PONG",
}

func (r Rule) String() string {
	if name, ok := ruleNames[r]; ok {
		return name
	}
	return "UNKNOWN"
}

// Classify decides whether a period is a tower jump. The first matching rule
// is reported alongside the verdict.
func Classify(m Metrics, cfg Config) (bool, Rule) {
	// Rule 1: impossible consecutive speed
	if m.MaxConsecutiveSpeedKmh > cfg.MaxSpeedKmh {
		return true, RuleExcessiveSpeed
	}

	// Rule 2: spread of the period covered faster than the speed limit
	if m.DurationMinutes > 0 && m.MaxPairwiseDistanceKm > 0 {
		if m.MaxPairwiseDistanceKm/(m.DurationMinutes/60) > cfg.MaxSpeedKmh {
			return true, RuleDistanceRate
		}
	}

	// Rule 3: 3+ region changes in under an hour
	if m.RegionTransitions >= 3 && m.DurationMinutes < 60 {
		return true, RuleRapidTransitions
	}

	// Rule 4: ping-ponging between regions
	if len(m.UniqueRegions) >= 2 && m.RegionTransitions >= 5 {
		return true, RulePingPong
	}

	// Rule 5: known noisy border, 2+ changes in under two hours
	if m.ContainsPair(cfg.BorderExceptionPairs) && m.RegionTransitions >= 2 && m.DurationMinutes < 120 {
		return true, RuleBorderPingPong
	}

	return false, RuleNone
}
