package vision

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Harshitk-cp/lifedash/internal/domain"
)

const (
	maxExplanations = 5
	minExplanations = 3
)

var fillerPillars = []string{
	"Protect deep work",
	"Strengthen your health baseline",
	"Invest in key relationships",
}

var fillerCommitments = []string{
	"Define a next action for every open milestone",
	"Review this week's commitments",
	"Block one focused session for your top priority",
}

var fillerRisks = []string{
	"Watch for scope creep on open milestones",
	"Protect recovery time between pushes",
	"Revisit targets if progress stalls",
}

var genericExplanations = []string{
	"Alignment blends your targets with milestone progress",
	"Add milestones with due dates to sharpen recommendations",
	"Log decisions to build decision momentum",
}

// pad appends fillers (skipping case-insensitive duplicates) until items has n
// entries, then truncates to n.
func pad(items, fillers []string, n int) []string {
	out := make([]string, 0, n)
	seen := make(map[string]bool, n)
	add := func(s string) {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" || seen[key] || len(out) >= n {
			return
		}
		seen[key] = true
		out = append(out, s)
	}
	for _, s := range items {
		add(s)
	}
	for _, s := range fillers {
		add(s)
	}
	return out
}

func suggestPillars(themes []domain.Theme) []string {
	ranked := make([]domain.Theme, 0, len(themes))
	for _, t := range themes {
		if strings.TrimSpace(t.Label) != "" {
			ranked = append(ranked, t)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return coerce(ranked[i].Weight, 0) > coerce(ranked[j].Weight, 0)
	})

	labels := make([]string, 0, len(ranked))
	for _, t := range ranked {
		labels = append(labels, strings.TrimSpace(t.Label))
	}
	return pad(labels, fillerPillars, suggestionCount)
}

// suggestCommitments prefers committed milestones by queue priority, then
// other queue items, then the least complete remaining milestones.
func suggestCommitments(stats milestoneStats, queue []domain.ActionItem) []string {
	priority := make(map[string]int, len(queue))
	for _, item := range queue {
		priority[item.MilestoneID] = item.Priority
	}

	var committed, rest []milestoneInfo
	for _, info := range stats.items {
		if info.done {
			continue
		}
		if info.committed {
			committed = append(committed, info)
		} else {
			rest = append(rest, info)
		}
	}
	sort.SliceStable(committed, func(i, j int) bool {
		pi, pj := priority[committed[i].m.ID], priority[committed[j].m.ID]
		if pi != pj {
			return pi > pj
		}
		return committed[i].m.Title < committed[j].m.Title
	})
	sort.SliceStable(rest, func(i, j int) bool {
		if rest[i].completion != rest[j].completion {
			return rest[i].completion < rest[j].completion
		}
		return rest[i].m.Title < rest[j].m.Title
	})

	var titles []string
	for _, info := range committed {
		titles = append(titles, info.m.Title)
	}
	for _, item := range queue {
		titles = append(titles, item.Title)
	}
	for _, info := range rest {
		titles = append(titles, info.m.Title)
	}

	suggestions := make([]string, 0, len(titles))
	for _, t := range titles {
		if strings.TrimSpace(t) == "" {
			continue
		}
		suggestions = append(suggestions, "Advance "+strings.TrimSpace(t))
	}
	return pad(suggestions, fillerCommitments, suggestionCount)
}

func suggestRisks(risks []domain.RiskSignal) []string {
	lines := make([]string, 0, len(risks))
	for _, r := range risks {
		lines = append(lines, r.Label+": "+r.Detail)
	}
	return pad(lines, fillerRisks, suggestionCount)
}

type explanation struct {
	text   string
	weight int
}

func explain(vs domain.VisionState, stats milestoneStats, alignment, drift domain.Scores, queue []domain.ActionItem) domain.Explainability {
	var reasons []explanation

	if len(queue) > 0 {
		reasons = append(reasons, explanation{
			text:   fmt.Sprintf("Top priority: %s (%s)", queue[0].Title, queue[0].Reason),
			weight: 100,
		})
	}
	if stats.overdue > 0 {
		reasons = append(reasons, explanation{
			text:   fmt.Sprintf("%d overdue %s pulling momentum down", stats.overdue, plural(stats.overdue, "milestone", "milestones")),
			weight: 90,
		})
	}
	if stats.blocked > 0 {
		reasons = append(reasons, explanation{
			text:   fmt.Sprintf("%d blocked %s need unblocking", stats.blocked, plural(stats.blocked, "milestone", "milestones")),
			weight: 85,
		})
	}
	if math.Abs(drift.Overall) >= 4 {
		dir := "up"
		if drift.Overall < 0 {
			dir = "down"
		}
		reasons = append(reasons, explanation{
			text:   fmt.Sprintf("Overall alignment %s %d points since the last snapshot", dir, int(math.Abs(drift.Overall))),
			weight: 80,
		})
	}
	if stats.commitmentCount > 0 {
		reasons = append(reasons, explanation{
			text: fmt.Sprintf("%d weekly %s averaging %d%% completion",
				stats.commitmentCount, plural(stats.commitmentCount, "commitment", "commitments"), int(math.Round(stats.committedMean))),
			weight: 70,
		})
	} else if stats.total > 0 {
		reasons = append(reasons, explanation{
			text:   "No weekly commitments set; alignment leans on overall progress",
			weight: 65,
		})
	}
	if stats.total > 0 {
		reasons = append(reasons, explanation{
			text: fmt.Sprintf("%d of %d milestones complete (%d%% average completion)",
				stats.completed, stats.total, int(math.Round(stats.overallMean))),
			weight: 60,
		})
	}

	sort.SliceStable(reasons, func(i, j int) bool {
		return reasons[i].weight > reasons[j].weight
	})
	texts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		texts = append(texts, r.text)
	}
	overall := pad(texts, nil, maxExplanations)
	if len(overall) < minExplanations {
		overall = pad(overall, genericExplanations, minExplanations)
	}

	dims := make(map[domain.Dimension][]string, len(domain.Dimensions()))
	for _, d := range domain.Dimensions() {
		target := clamp(coerce(vs.Target(d), domain.DefaultTarget), 0, 100)
		dims[d] = dimensionLines(d, target, stats.typeMean[d], alignment.Get(d), drift.Get(d))
	}

	return domain.Explainability{Overall: overall, Dimensions: dims}
}

func dimensionLines(d domain.Dimension, target, typeCompletion, current, drift float64) []string {
	return []string{
		fmt.Sprintf("Target: %d", int(math.Round(target))),
		fmt.Sprintf("%s milestone completion: %d%%", domain.TypeForDimension(d), int(math.Round(typeCompletion))),
		fmt.Sprintf("Current alignment: %d (drift %+d)", int(math.Round(current)), int(math.Round(drift))),
	}
}
