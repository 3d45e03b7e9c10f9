package vision

import (
	"math"
	"sort"
	"time"

	"github.com/Harshitk-cp/lifedash/internal/domain"
)

func computeMomentum(stats milestoneStats, decisions []domain.Decision, ext domain.ExternalReader, now time.Time) domain.Momentum {
	milestone := stats.overallMean
	if stats.commitmentCount > 0 {
		milestone = stats.committedMean
	}
	milestone = clamp(milestone, 0, 100)

	decision := decisionMomentum(decisions, now)
	habit := habitMomentum(ext)

	base := milestoneMomentumWeight*milestone + decisionMomentumWeight*decision + habitMomentumWeight*habit

	open := float64(max(1, stats.open))
	overdueRate := float64(stats.overdue) / open
	blockedRate := float64(stats.blocked) / open
	penalty := math.Min(maxCommitmentPenalty, (0.6*overdueRate+0.4*blockedRate)*maxCommitmentPenalty)

	return domain.Momentum{
		Milestones: math.Round(milestone),
		Decisions:  math.Round(decision),
		Habits:     math.Round(habit),
		Overall:    clamp(math.Round(base-penalty), 0, 100),
	}
}

// decisionMomentum is the exponentially decayed share of "yes" decisions
// over the last DecisionWindowDays. Without recent decisions it falls back to
// the plain ratio over the last DecisionFallbackCount.
func decisionMomentum(decisions []domain.Decision, now time.Time) float64 {
	if len(decisions) == 0 {
		return DefaultDecisionMomentum
	}

	var weightSum, yesSum float64
	for _, d := range decisions {
		if d.Timestamp.IsZero() {
			continue
		}
		age := now.Sub(d.Timestamp).Hours() / 24
		if age < 0 {
			age = 0
		}
		if age >= DecisionWindowDays {
			continue
		}
		w := math.Exp(-age / DecisionDecayDays)
		weightSum += w
		if d.Outcome == domain.DecisionYes {
			yesSum += w
		}
	}
	if weightSum > 0 {
		return clamp(yesSum/weightSum*100, 0, 100)
	}

	recent := make([]domain.Decision, len(decisions))
	copy(recent, decisions)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Timestamp.After(recent[j].Timestamp)
	})
	if len(recent) > DecisionFallbackCount {
		recent = recent[:DecisionFallbackCount]
	}
	yes := 0
	for _, d := range recent {
		if d.Outcome == domain.DecisionYes {
			yes++
		}
	}
	return clamp(float64(yes)/float64(len(recent))*100, 0, 100)
}

func habitMomentum(ext domain.ExternalReader) float64 {
	if ext == nil {
		return DefaultHabitMomentum
	}
	rate, ok := ext.HabitCompletionRate()
	if !ok || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return DefaultHabitMomentum
	}
	return clamp(rate*100, 0, 100)
}
