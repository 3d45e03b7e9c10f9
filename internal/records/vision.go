package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/Harshitk-cp/lifedash/internal/domain"
	"github.com/google/uuid"
)

// MilestonePatch carries the fields to change on a milestone. Nil fields are
// left untouched.
type MilestonePatch struct {
	Title           *string                 `json:"title,omitempty"`
	Date            *string                 `json:"date,omitempty"`
	Type            *domain.MilestoneType   `json:"type,omitempty"`
	CompletionPct   *float64                `json:"completionPct,omitempty"`
	Status          *domain.MilestoneStatus `json:"status,omitempty"`
	NextAction      *string                 `json:"nextAction,omitempty"`
	Blocker         *string                 `json:"blocker,omitempty"`
	LinkedProjectID *string                 `json:"linkedProjectId,omitempty"`
}

func (a *Accessors) GetVisionState(ctx context.Context) (domain.VisionState, error) {
	raw, err := a.load(ctx, KeyVision)
	if err != nil {
		return domain.VisionState{}, err
	}
	return decodeVision(raw), nil
}

// SaveVisionState replaces the whole vision record.
func (a *Accessors) SaveVisionState(ctx context.Context, vs domain.VisionState) (domain.VisionState, error) {
	vs, err := a.normalizeVision(vs)
	if err != nil {
		return domain.VisionState{}, err
	}
	if err := a.save(ctx, KeyVision, vs); err != nil {
		return domain.VisionState{}, err
	}
	return vs, nil
}

func (a *Accessors) SetNorthStar(ctx context.Context, northStar string) (domain.VisionState, error) {
	return a.updateVision(ctx, func(vs *domain.VisionState) error {
		vs.NorthStar = strings.TrimSpace(northStar)
		return nil
	})
}

func (a *Accessors) SetThemes(ctx context.Context, themes []domain.Theme) (domain.VisionState, error) {
	return a.updateVision(ctx, func(vs *domain.VisionState) error {
		vs.Themes = themes
		return nil
	})
}

func (a *Accessors) SetTarget(ctx context.Context, d domain.Dimension, value float64) (domain.VisionState, error) {
	if !domain.ValidDimension(string(d)) {
		return domain.VisionState{}, ErrInvalidDimension
	}
	return a.updateVision(ctx, func(vs *domain.VisionState) error {
		vs.Targets[d] = clampPct(value)
		return nil
	})
}

// ListMilestones returns milestones in stored order.
func (a *Accessors) ListMilestones(ctx context.Context, includeArchived bool) ([]domain.Milestone, error) {
	vs, err := a.GetVisionState(ctx)
	if err != nil {
		return nil, err
	}
	if includeArchived {
		return vs.Milestones, nil
	}
	return vs.ActiveMilestones(), nil
}

func (a *Accessors) GetMilestone(ctx context.Context, id string) (domain.Milestone, error) {
	vs, err := a.GetVisionState(ctx)
	if err != nil {
		return domain.Milestone{}, err
	}
	m, _, ok := vs.MilestoneByID(id)
	if !ok {
		return domain.Milestone{}, ErrMilestoneNotFound
	}
	return m, nil
}

// CreateMilestone appends m. A caller-supplied id is kept when it is not
// already taken; otherwise ErrMilestoneExists is returned.
func (a *Accessors) CreateMilestone(ctx context.Context, m domain.Milestone) (domain.Milestone, error) {
	now := a.now()
	m.ID = strings.TrimSpace(m.ID)
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if !domain.ValidMilestoneType(string(m.Type)) {
		m.Type = domain.MilestoneTypeCustom
	}
	m.Title = strings.TrimSpace(m.Title)
	m.CompletionPct = clampPct(m.CompletionPct)
	m.Status = domain.DeriveStatus(m.CompletionPct, m.Status)
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err := a.updateVision(ctx, func(vs *domain.VisionState) error {
		if _, _, taken := vs.MilestoneByID(m.ID); taken {
			return fmt.Errorf("%w: %s", ErrMilestoneExists, m.ID)
		}
		vs.Milestones = append(vs.Milestones, m)
		return nil
	})
	if err != nil {
		return domain.Milestone{}, err
	}
	return m, nil
}

func (a *Accessors) UpdateMilestone(ctx context.Context, id string, patch MilestonePatch) (domain.Milestone, error) {
	return a.updateMilestone(ctx, id, func(m *domain.Milestone) {
		applyPatch(m, patch)
	})
}

// DeleteMilestone removes the milestone and any weekly commitment to it.
func (a *Accessors) DeleteMilestone(ctx context.Context, id string) error {
	_, err := a.updateVision(ctx, func(vs *domain.VisionState) error {
		_, idx, ok := vs.MilestoneByID(id)
		if !ok {
			return ErrMilestoneNotFound
		}
		vs.Milestones = append(vs.Milestones[:idx], vs.Milestones[idx+1:]...)
		vs.WeeklyCommitments = without(vs.WeeklyCommitments, id)
		return nil
	})
	return err
}

// ArchiveMilestone hides a milestone from scoring and drops its commitment.
func (a *Accessors) ArchiveMilestone(ctx context.Context, id string) (domain.Milestone, error) {
	var out domain.Milestone
	_, err := a.updateVision(ctx, func(vs *domain.VisionState) error {
		_, idx, ok := vs.MilestoneByID(id)
		if !ok {
			return ErrMilestoneNotFound
		}
		vs.Milestones[idx].Archived = true
		vs.Milestones[idx].UpdatedAt = a.now()
		vs.WeeklyCommitments = without(vs.WeeklyCommitments, id)
		out = vs.Milestones[idx]
		return nil
	})
	return out, err
}

func (a *Accessors) RestoreMilestone(ctx context.Context, id string) (domain.Milestone, error) {
	return a.updateMilestone(ctx, id, func(m *domain.Milestone) {
		m.Archived = false
	})
}

// ToggleWeeklyCommitment adds or removes id from this week's commitments and
// reports whether it is committed afterwards.
func (a *Accessors) ToggleWeeklyCommitment(ctx context.Context, id string) (bool, error) {
	committed := false
	_, err := a.updateVision(ctx, func(vs *domain.VisionState) error {
		m, _, ok := vs.MilestoneByID(id)
		if !ok {
			return ErrMilestoneNotFound
		}
		if vs.IsCommitment(id) {
			vs.WeeklyCommitments = without(vs.WeeklyCommitments, id)
			return nil
		}
		if m.Archived {
			return ErrMilestoneNotFound
		}
		vs.WeeklyCommitments = append(vs.WeeklyCommitments, id)
		committed = true
		return nil
	})
	return committed, err
}

func (a *Accessors) ClearWeeklyCommitments(ctx context.Context) error {
	_, err := a.updateVision(ctx, func(vs *domain.VisionState) error {
		vs.WeeklyCommitments = []string{}
		return nil
	})
	return err
}

func (a *Accessors) updateVision(ctx context.Context, fn func(vs *domain.VisionState) error) (domain.VisionState, error) {
	vs, err := a.GetVisionState(ctx)
	if err != nil {
		return domain.VisionState{}, err
	}
	if err := fn(&vs); err != nil {
		return domain.VisionState{}, err
	}
	return a.SaveVisionState(ctx, vs)
}

func (a *Accessors) updateMilestone(ctx context.Context, id string, fn func(m *domain.Milestone)) (domain.Milestone, error) {
	var out domain.Milestone
	_, err := a.updateVision(ctx, func(vs *domain.VisionState) error {
		_, idx, ok := vs.MilestoneByID(id)
		if !ok {
			return ErrMilestoneNotFound
		}
		m := &vs.Milestones[idx]
		fn(m)
		m.UpdatedAt = a.now()
		out = *m
		return nil
	})
	return out, err
}

func applyPatch(m *domain.Milestone, p MilestonePatch) {
	if p.Title != nil {
		m.Title = strings.TrimSpace(*p.Title)
	}
	if p.Date != nil {
		m.Date = strings.TrimSpace(*p.Date)
	}
	if p.Type != nil && domain.ValidMilestoneType(string(*p.Type)) {
		m.Type = *p.Type
	}
	if p.NextAction != nil {
		m.NextAction = strings.TrimSpace(*p.NextAction)
	}
	if p.Blocker != nil {
		m.Blocker = strings.TrimSpace(*p.Blocker)
	}
	if p.LinkedProjectID != nil {
		m.LinkedProjectID = *p.LinkedProjectID
	}

	explicit := m.Status
	switch {
	case p.Status != nil:
		explicit = *p.Status
	case p.CompletionPct != nil && explicit == domain.MilestoneStatusDone:
		explicit = ""
	}
	if p.CompletionPct != nil {
		m.CompletionPct = clampPct(*p.CompletionPct)
	}
	m.Status = domain.DeriveStatus(m.CompletionPct, explicit)
}

// normalizeVision fills missing collections, gives id-less milestones an id
// and clamps targets so that what is written always round-trips through the
// lenient decoder unchanged. Duplicate milestone ids are rejected.
func (a *Accessors) normalizeVision(vs domain.VisionState) (domain.VisionState, error) {
	if vs.Themes == nil {
		vs.Themes = []domain.Theme{}
	}

	now := a.now()
	milestones := make([]domain.Milestone, 0, len(vs.Milestones))
	seen := make(map[string]bool, len(vs.Milestones))
	for _, m := range vs.Milestones {
		m.ID = strings.TrimSpace(m.ID)
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		if seen[m.ID] {
			return domain.VisionState{}, fmt.Errorf("%w: %s", ErrMilestoneExists, m.ID)
		}
		seen[m.ID] = true
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		if m.UpdatedAt.IsZero() {
			m.UpdatedAt = m.CreatedAt
		}
		milestones = append(milestones, m)
	}
	vs.Milestones = milestones
	if vs.WeeklyCommitments == nil {
		vs.WeeklyCommitments = []string{}
	}
	targets := defaultTargets()
	for d, v := range vs.Targets {
		if domain.ValidDimension(string(d)) {
			targets[d] = clampPct(v)
		}
	}
	vs.Targets = targets
	return vs, nil
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
