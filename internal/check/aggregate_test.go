package check

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"token-inspector/internal/entity"
)

func checkWith(id string, result entity.CheckResult, short string) entity.RiskCheck {
	return entity.RiskCheck{ID: id, Result: result, Short: short}
}

func TestAggregate_Levels(t *testing.T) {
	cases := []struct {
		name    string
		results []entity.CheckResult
		want    entity.RiskLevel
	}{
		{"any high wins", []entity.CheckResult{entity.ResultOK, entity.ResultWarn, entity.ResultHigh}, entity.RiskHigh},
		{"warn without high", []entity.CheckResult{entity.ResultOK, entity.ResultWarn, entity.ResultUnknown}, entity.RiskMedium},
		{"all ok", []entity.CheckResult{entity.ResultOK, entity.ResultOK, entity.ResultOK}, entity.RiskLow},
		{"ok with unknown", []entity.CheckResult{entity.ResultOK, entity.ResultUnknown}, entity.RiskUnknown},
		{"all unknown", []entity.CheckResult{entity.ResultUnknown, entity.ResultUnknown}, entity.RiskUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			checks := make([]entity.RiskCheck, 0, len(tc.results))
			for i, r := range tc.results {
				checks = append(checks, checkWith(string(rune('a'+i)), r, ""))
			}
			level, summary, _ := Aggregate(checks)
			assert.Equal(t, tc.want, level)
			assert.Equal(t, summaries[tc.want], summary)
		})
	}
}

func TestAggregate_TopReasonsOrderAndCap(t *testing.T) {
	checks := []entity.RiskCheck{
		checkWith("a", entity.ResultWarn, "warn a"),
		checkWith("b", entity.ResultHigh, "high b"),
		checkWith("c", entity.ResultOK, "ok c"),
		checkWith("d", entity.ResultHigh, "high d"),
		checkWith("e", entity.ResultWarn, "warn e"),
	}

	_, _, reasons := Aggregate(checks)

	assert.Equal(t, []string{"high b", "high d", "warn a"}, reasons)
}

func TestAggregate_NoReasonsWhenClean(t *testing.T) {
	checks := []entity.RiskCheck{
		checkWith("a", entity.ResultOK, "ok a"),
		checkWith("b", entity.ResultUnknown, "unknown b"),
	}

	_, _, reasons := Aggregate(checks)

	assert.Empty(t, reasons)
}
