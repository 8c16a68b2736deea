package towerjump

import "github.com/jengzang/towerjump-backend-go/internal/stats"

const baseConfidence = 50.0

// Confidence scores how sure the detector is of its verdict, in [0, 100]
func Confidence(m Metrics, isTowerJump bool, cfg Config) float64 {
	confidence := baseConfidence

	// More records, more confidence in either verdict
	if m.RecordCount >= 10 {
		confidence += 10
	} else if m.RecordCount >= 5 {
		confidence += 5
	}

	if isTowerJump {
		confidence += jumpEvidence(m, cfg)
	} else {
		confidence += movementEvidence(m)
	}

	if m.ContainsPair(cfg.BorderExceptionPairs) {
		if isTowerJump {
			confidence += 10
		} else {
			confidence -= 5
		}
	}

	return stats.Clamp(confidence, 0, 100)
}

// jumpEvidence rates how impossible the recorded movement is
func jumpEvidence(m Metrics, cfg Config) float64 {
	bonus := 0.0

	switch {
	case m.MaxPairwiseDistanceKm > 500: // cross-country
		bonus += 20
	case m.MaxPairwiseDistanceKm > 100: // cross-state
		bonus += 15
	case m.MaxPairwiseDistanceKm < 10: // border triangulation
		bonus += 10
	}

	switch {
	case m.MaxConsecutiveSpeedKmh > cfg.MaxSpeedKmh*2:
		bonus += 15
	case m.MaxConsecutiveSpeedKmh > cfg.MaxSpeedKmh:
		bonus += 10
	}

	switch {
	case m.RegionTransitions >= 5:
		bonus += 10
	case m.DurationMinutes < 30 && m.RegionTransitions >= 3:
		bonus += 10
	default:
		bonus += 5
	}

	return bonus
}

// movementEvidence rates how plausible the recorded movement is
func movementEvidence(m Metrics) float64 {
	switch {
	case m.RegionTransitions == 0 && m.MaxPairwiseDistanceKm < 5:
		return 20
	case m.RegionTransitions <= 1 && m.MaxConsecutiveSpeedKmh < 100:
		return 15
	case m.RegionTransitions <= 2 && m.MaxConsecutiveSpeedKmh < 200:
		return 10
	default:
		return 5
	}
}
