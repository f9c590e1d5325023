package check

import "token-inspector/internal/entity"

const maxTopReasons = 3

var summaries = map[entity.RiskLevel]string{
	entity.RiskHigh:    "High-risk signals were found; interact with extreme caution.",
	entity.RiskMedium:  "Warning signals were found; review the evidence before interacting.",
	entity.RiskLow:     "No risk signals were found in the data inspected.",
	entity.RiskUnknown: "Not enough data was available to assess this contract.",
}

// Aggregate reduces the check list to an overall risk level, its fixed
// summary sentence and up to three top reasons. Reasons list highs first
// and then warns, each in check order; there is no further ranking.
func Aggregate(checks []entity.RiskCheck) (entity.RiskLevel, string, []string) {
	var anyHigh, anyWarn, anyOK, anyUnknown bool
	for _, c := range checks {
		switch c.Result {
		case entity.ResultHigh:
			anyHigh = true
		case entity.ResultWarn:
			anyWarn = true
		case entity.ResultOK:
			anyOK = true
		default:
			anyUnknown = true
		}
	}

	level := entity.RiskUnknown
	switch {
	case anyHigh:
		level = entity.RiskHigh
	case anyWarn:
		level = entity.RiskMedium
	case anyOK && !anyUnknown:
		level = entity.RiskLow
	}

	reasons := make([]string, 0, maxTopReasons)
	for _, result := range []entity.CheckResult{entity.ResultHigh, entity.ResultWarn} {
		for _, c := range checks {
			if c.Result != result || len(reasons) >= maxTopReasons {
				continue
			}
			reasons = append(reasons, c.Short)
		}
	}

	return level, summaries[level], reasons
}
