package records

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Harshitk-cp/lifedash/internal/domain"
	"github.com/tidwall/gjson"
)

// number coerces r into a finite float, falling back when it is missing,
// non-numeric or not finite.
func number(r gjson.Result, fallback float64) float64 {
	var f float64
	switch r.Type {
	case gjson.Number:
		f = r.Num
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return fallback
		}
		f = v
	default:
		return fallback
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}

func optionalNumber(r gjson.Result) *float64 {
	f := number(r, math.NaN())
	if math.IsNaN(f) {
		return nil
	}
	return &f
}

func clampPct(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// timestamp accepts RFC3339 strings, plain dates and unix milliseconds.
func timestamp(r gjson.Result) time.Time {
	switch r.Type {
	case gjson.Number:
		return time.UnixMilli(r.Int()).UTC()
	case gjson.String:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, r.Str); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

func defaultTargets() map[domain.Dimension]float64 {
	out := make(map[domain.Dimension]float64, 5)
	for _, d := range domain.Dimensions() {
		out[d] = domain.DefaultTarget
	}
	return out
}

func emptyVision() domain.VisionState {
	return domain.VisionState{
		Themes:            []domain.Theme{},
		Milestones:        []domain.Milestone{},
		WeeklyCommitments: []string{},
		Targets:           defaultTargets(),
	}
}

func decodeVision(raw []byte) domain.VisionState {
	vs := emptyVision()
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return vs
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return vs
	}

	vs.NorthStar = strings.TrimSpace(root.Get("northStar").String())

	root.Get("themes").ForEach(func(_, t gjson.Result) bool {
		theme, ok := decodeTheme(t)
		if ok {
			vs.Themes = append(vs.Themes, theme)
		}
		return true
	})

	ids := make(map[string]bool)
	root.Get("milestones").ForEach(func(_, m gjson.Result) bool {
		if ms, ok := decodeMilestone(m); ok && !ids[ms.ID] {
			ids[ms.ID] = true
			vs.Milestones = append(vs.Milestones, ms)
		}
		return true
	})

	committed := make(map[string]bool)
	root.Get("weeklyCommitments").ForEach(func(_, c gjson.Result) bool {
		id := strings.TrimSpace(c.String())
		if id != "" && !committed[id] {
			committed[id] = true
			vs.WeeklyCommitments = append(vs.WeeklyCommitments, id)
		}
		return true
	})

	targets := root.Get("targets")
	for _, d := range domain.Dimensions() {
		vs.Targets[d] = clampPct(number(targets.Get(string(d)), domain.DefaultTarget))
	}
	return vs
}

func decodeTheme(t gjson.Result) (domain.Theme, bool) {
	if t.Type == gjson.String {
		label := strings.TrimSpace(t.Str)
		return domain.Theme{Label: label, Weight: 1}, label != ""
	}
	if !t.IsObject() {
		return domain.Theme{}, false
	}
	label := strings.TrimSpace(t.Get("label").String())
	if label == "" {
		return domain.Theme{}, false
	}
	return domain.Theme{Label: label, Weight: number(t.Get("weight"), 1)}, true
}

func decodeMilestone(m gjson.Result) (domain.Milestone, bool) {
	if !m.IsObject() {
		return domain.Milestone{}, false
	}
	id := strings.TrimSpace(m.Get("id").String())
	if id == "" {
		return domain.Milestone{}, false
	}

	mt := domain.MilestoneType(m.Get("type").String())
	if !domain.ValidMilestoneType(string(mt)) {
		mt = domain.MilestoneTypeCustom
	}
	completion := clampPct(number(m.Get("completionPct"), 0))
	status := domain.MilestoneStatus(m.Get("status").String())

	return domain.Milestone{
		ID:              id,
		Title:           strings.TrimSpace(m.Get("title").String()),
		Date:            strings.TrimSpace(m.Get("date").String()),
		Type:            mt,
		CompletionPct:   completion,
		Status:          domain.DeriveStatus(completion, status),
		NextAction:      strings.TrimSpace(m.Get("nextAction").String()),
		Blocker:         strings.TrimSpace(m.Get("blocker").String()),
		LinkedProjectID: m.Get("linkedProjectId").String(),
		Archived:        m.Get("archived").Bool(),
		CreatedAt:       timestamp(m.Get("createdAt")),
		UpdatedAt:       timestamp(m.Get("updatedAt")),
	}, true
}

func decodeDecisions(raw []byte) []domain.Decision {
	out := []domain.Decision{}
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return out
	}
	gjson.ParseBytes(raw).ForEach(func(_, d gjson.Result) bool {
		if !d.IsObject() {
			return true
		}
		outcome := domain.DecisionOutcome(strings.ToLower(d.Get("outcome").String()))
		if !domain.ValidDecisionOutcome(string(outcome)) {
			return true
		}
		out = append(out, domain.Decision{
			ID:        d.Get("id").String(),
			Timestamp: timestamp(d.Get("timestamp")),
			Outcome:   outcome,
			Mode:      d.Get("mode").String(),
			Energy:    optionalNumber(d.Get("energy")),
			Note:      d.Get("note").String(),
			Alignment: clampPct(number(d.Get("alignment"), 50)),
			Drift:     math.Max(-100, math.Min(100, number(d.Get("drift"), 0))),
		})
		return true
	})
	return out
}

// decodeSnapshots keeps every element that unmarshals and drops the rest.
func decodeSnapshots(raw []byte) []domain.Snapshot {
	out := []domain.Snapshot{}
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return out
	}
	gjson.ParseBytes(raw).ForEach(func(_, s gjson.Result) bool {
		if !s.IsObject() {
			return true
		}
		var snap domain.Snapshot
		if err := json.Unmarshal([]byte(s.Raw), &snap); err == nil {
			out = append(out, snap)
		}
		return true
	})
	return out
}

func decodeFinance(raw []byte) (domain.FinanceSnapshot, bool) {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return domain.FinanceSnapshot{}, false
	}
	f := gjson.ParseBytes(raw)
	if !f.IsObject() {
		return domain.FinanceSnapshot{}, false
	}
	return domain.FinanceSnapshot{
		RunwayMonths:   optionalNumber(f.Get("runwayMonths")),
		Cash:           number(f.Get("cash"), 0),
		MonthlyBurn:    number(f.Get("monthlyBurn"), 0),
		Pipeline:       number(f.Get("pipeline"), 0),
		ExpectedIncome: number(f.Get("expectedIncome"), 0),
		UpdatedAt:      timestamp(f.Get("updatedAt")),
	}, true
}

func decodeHabits(raw []byte) []domain.Habit {
	out := []domain.Habit{}
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return out
	}
	gjson.ParseBytes(raw).ForEach(func(_, h gjson.Result) bool {
		id := h.Get("id").String()
		if !h.IsObject() || id == "" {
			return true
		}
		habit := domain.Habit{
			ID:          id,
			Name:        h.Get("name").String(),
			Completions: make(map[string]bool),
			CreatedAt:   timestamp(h.Get("createdAt")),
		}
		h.Get("completions").ForEach(func(day, done gjson.Result) bool {
			if done.Bool() {
				habit.Completions[day.String()] = true
			}
			return true
		})
		out = append(out, habit)
		return true
	})
	return out
}
