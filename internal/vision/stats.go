package vision

import (
	"strings"
	"time"

	"github.com/Harshitk-cp/lifedash/internal/domain"
)

type milestoneInfo struct {
	m          domain.Milestone
	completion float64
	status     domain.MilestoneStatus
	done       bool
	blocked    bool
	overdue    bool
	dueSoon    bool
	hasDue     bool
	due        time.Time
	daysLate   int
	daysLeft   int
	committed  bool
	staleDays  int
	updated    time.Time
}

type milestoneStats struct {
	items []milestoneInfo

	total     int
	completed int
	open      int
	blocked   int
	overdue   int
	dueSoon   int

	overallMean     float64
	typeMean        map[domain.Dimension]float64
	committedMean   float64
	commitmentCount int
}

func collectStats(vs domain.VisionState, now, today time.Time) milestoneStats {
	stats := milestoneStats{typeMean: make(map[domain.Dimension]float64, 5)}

	typeSum := make(map[domain.Dimension]float64, 5)
	typeCount := make(map[domain.Dimension]int, 5)
	var sum, committedSum float64

	for _, m := range vs.ActiveMilestones() {
		info := milestoneInfo{m: m}
		info.completion = clamp(coerce(m.CompletionPct, 0), 0, 100)
		info.status = domain.DeriveStatus(info.completion, m.Status)
		info.done = info.status == domain.MilestoneStatusDone
		info.blocked = !info.done && m.Blocked()
		info.committed = m.ID != "" && vs.IsCommitment(m.ID)

		if due, ok := ParseDue(m.Date, today.Location()); ok {
			info.hasDue = true
			info.due = due
			if !info.done {
				if due.Before(today) {
					info.overdue = true
					info.daysLate = daysBetween(due, today)
				} else if left := daysBetween(today, due); left <= DueSoonDays {
					info.dueSoon = true
					info.daysLeft = left
				}
			}
		}

		info.updated = m.UpdatedAt
		if info.updated.IsZero() {
			info.updated = m.CreatedAt
		}
		if !info.updated.IsZero() && now.After(info.updated) {
			info.staleDays = int(now.Sub(info.updated).Hours() / 24)
		}

		stats.total++
		sum += info.completion
		if info.done {
			stats.completed++
		} else {
			stats.open++
		}
		if info.blocked {
			stats.blocked++
		}
		if info.overdue {
			stats.overdue++
		}
		if info.dueSoon {
			stats.dueSoon++
		}
		if d, ok := m.Type.Dimension(); ok {
			typeSum[d] += info.completion
			typeCount[d]++
		}
		if info.committed {
			stats.commitmentCount++
			committedSum += info.completion
		}

		stats.items = append(stats.items, info)
	}

	if stats.total > 0 {
		stats.overallMean = sum / float64(stats.total)
	}
	for _, d := range domain.Dimensions() {
		if typeCount[d] > 0 {
			stats.typeMean[d] = typeSum[d] / float64(typeCount[d])
		} else {
			stats.typeMean[d] = stats.overallMean
		}
	}
	stats.committedMean = stats.overallMean
	if stats.commitmentCount > 0 {
		stats.committedMean = committedSum / float64(stats.commitmentCount)
	}

	return stats
}

// ParseDue accepts YYYY-MM-DD or RFC3339 and returns the start of that day.
func ParseDue(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return startOfDay(t.In(loc)), true
	}
	if len(s) > 10 {
		if t, err := time.ParseInLocation("2006-01-02", s[:10], loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
