package vision

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Harshitk-cp/lifedash/internal/domain"
)

type queueCandidate struct {
	item    domain.ActionItem
	hasDue  bool
	due     time.Time
	updated time.Time
}

func buildActionQueue(stats milestoneStats) []domain.ActionItem {
	candidates := make([]queueCandidate, 0, stats.open)

	for _, info := range stats.items {
		if info.done {
			continue
		}
		priority, reasons := scoreMilestone(info)
		candidates = append(candidates, queueCandidate{
			item: domain.ActionItem{
				MilestoneID: info.m.ID,
				Title:       info.m.Title,
				Reason:      strings.Join(reasons, "; "),
				Priority:    priority,
			},
			hasDue:  info.hasDue,
			due:     info.due,
			updated: info.updated,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return lessCandidate(candidates[i], candidates[j])
	})

	if len(candidates) > MaxActionQueue {
		candidates = candidates[:MaxActionQueue]
	}
	queue := make([]domain.ActionItem, len(candidates))
	for i, c := range candidates {
		queue[i] = c.item
	}
	return queue
}

// scoreMilestone accumulates the raw priority and the labels that earned it.
func scoreMilestone(info milestoneInfo) (int, []string) {
	raw := 0
	var reasons []string

	switch {
	case info.overdue:
		raw += min(overdueCap, overdueBase+overduePerDay*info.daysLate)
		reasons = append(reasons, fmt.Sprintf("Overdue by %d %s", info.daysLate, plural(info.daysLate, "day", "days")))
	case info.dueSoon:
		raw += min(dueSoonCap, dueSoonBase+dueSoonPerDay*(DueSoonDays-info.daysLeft))
		if info.daysLeft == 0 {
			reasons = append(reasons, "Due today")
		} else {
			reasons = append(reasons, fmt.Sprintf("Due in %d %s", info.daysLeft, plural(info.daysLeft, "day", "days")))
		}
	}

	if info.blocked {
		raw += blockedBonus
		reasons = append(reasons, "Blocked: "+strings.TrimSpace(info.m.Blocker))
	}
	if strings.TrimSpace(info.m.NextAction) == "" {
		raw += noNextActionBonus
		reasons = append(reasons, "No next action defined")
	}
	if info.committed {
		raw += commitmentBonus
		reasons = append(reasons, "Weekly commitment")
	}
	if info.completion < lowCompletionAt {
		bonus := lowCompletionBase + int(math.Round((lowCompletionAt-info.completion)*lowCompletionRate))
		raw += min(lowCompletionCap, bonus)
		reasons = append(reasons, fmt.Sprintf("Low completion (%d%%)", int(math.Round(info.completion))))
	}
	if info.staleDays >= StaleDays {
		raw += staleBonus
		reasons = append(reasons, fmt.Sprintf("No update in %d days", info.staleDays))
	}

	if len(reasons) == 0 {
		return maintainPriority, []string{"Maintain momentum"}
	}
	return max(minPriority, min(maxPriority, raw)), reasons
}

// lessCandidate orders by priority desc, sooner due (dated first), more
// recently updated, then title and id.
func lessCandidate(a, b queueCandidate) bool {
	if a.item.Priority != b.item.Priority {
		return a.item.Priority > b.item.Priority
	}
	if a.hasDue != b.hasDue {
		return a.hasDue
	}
	if a.hasDue && !a.due.Equal(b.due) {
		return a.due.Before(b.due)
	}
	if !a.updated.Equal(b.updated) {
		return a.updated.After(b.updated)
	}
	if a.item.Title != b.item.Title {
		return a.item.Title < b.item.Title
	}
	return a.item.MilestoneID < b.item.MilestoneID
}
