package evaluation

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ignite/measure-agent/internal/domain"
)

const (
	maxScore           = 100
	belowTargetPenalty = 20
	noTargetPenalty    = 5

	maxInsights    = 3
	highImportance = 0.10

	headlineOnTrack = "Performance on track"
	headlineAtRisk  = "Performance at risk"
	stableMessage   = "Stable performance across tracked metrics"
)

// Summary is the condensed view of a request's evaluations.
type Summary struct {
	Score            int
	Overall          domain.OverallStatus
	Insights         []domain.Insight
	ExecutiveSummary string
	SlackMessage     string
}

// Summarize scores evals, derives the overall status, ranks insights and
// renders the two summary strings. The result depends only on evals.
func Summarize(evals []domain.MetricEvaluation) Summary {
	score := Score(evals)
	overall := Overall(evals)
	insights := TopInsights(evals)

	headline := headlineAtRisk
	if overall == domain.OverallMeetingTargets {
		headline = headlineOnTrack
	}

	messages := make([]string, len(insights))
	for i, in := range insights {
		messages[i] = in.Message
	}

	return Summary{
		Score:            score,
		Overall:          overall,
		Insights:         insights,
		ExecutiveSummary: fmt.Sprintf("%s. Score %d. %s", headline, score, strings.Join(messages, "; ")),
		SlackMessage:     fmt.Sprintf("DMAIC • %s • Score %d.", headline, score),
	}
}

// Score starts at 100 and deducts 20 per BELOW_TARGET and 5 per NO_TARGET,
// clamped to [0, 100].
func Score(evals []domain.MetricEvaluation) int {
	score := maxScore
	for _, e := range evals {
		switch e.Status {
		case domain.StatusBelowTarget:
			score -= belowTargetPenalty
		case domain.StatusNoTarget:
			score -= noTargetPenalty
		}
	}
	return max(0, min(maxScore, score))
}

// Overall is AT_RISK when any metric is BELOW_TARGET and MEETING_TARGETS
// otherwise.
func Overall(evals []domain.MetricEvaluation) domain.OverallStatus {
	for _, e := range evals {
		if e.Status == domain.StatusBelowTarget {
			return domain.OverallAtRisk
		}
	}
	return domain.OverallMeetingTargets
}

// TopInsights ranks evaluations that carry a target by descending absolute
// percentage variance and keeps the first three. Ties keep input order.
func TopInsights(evals []domain.MetricEvaluation) []domain.Insight {
	var ranked []domain.MetricEvaluation
	for _, e := range evals {
		if e.Target != nil {
			ranked = append(ranked, e)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return absPct(ranked[i]) > absPct(ranked[j])
	})
	if len(ranked) > maxInsights {
		ranked = ranked[:maxInsights]
	}

	if len(ranked) == 0 {
		return []domain.Insight{{Message: stableMessage, Importance: domain.ImportanceLow}}
	}

	insights := make([]domain.Insight, 0, len(ranked))
	for _, e := range ranked {
		var pct float64
		if e.VariancePct != nil {
			pct = *e.VariancePct
		}
		importance := domain.ImportanceMedium
		if math.Abs(pct) > highImportance {
			importance = domain.ImportanceHigh
		}
		insights = append(insights, domain.Insight{
			Message:    fmt.Sprintf("%s variance %s%%", strings.ToUpper(e.Name), formatPercent(pct)),
			Importance: importance,
		})
	}
	return insights
}

func absPct(e domain.MetricEvaluation) float64 {
	if e.VariancePct == nil {
		return 0
	}
	return math.Abs(*e.VariancePct)
}

// formatPercent renders pct*100 rounded to two decimals from its exact binary
// value, keeping one fractional digit: 0.3 -> "30.0", -0.12345 -> "-12.35".
func formatPercent(pct float64) string {
	s := strconv.FormatFloat(pct*100, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}
