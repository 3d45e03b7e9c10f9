package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/Harshitk-cp/lifedash/internal/domain"
	"github.com/Harshitk-cp/lifedash/internal/producers"
	"github.com/Harshitk-cp/lifedash/internal/records"
	"github.com/Harshitk-cp/lifedash/internal/state"
	"github.com/Harshitk-cp/lifedash/internal/vision"
	"go.uber.org/zap"
)

var (
	ErrMilestoneNotFound      = records.ErrMilestoneNotFound
	ErrMilestoneExists        = records.ErrMilestoneExists
	ErrHabitNotFound          = records.ErrHabitNotFound
	ErrInvalidDimension       = records.ErrInvalidDimension
	ErrUnknownLayer           = state.ErrUnknownLayer
	ErrMilestoneTitleEmpty    = errors.New("title is required")
	ErrInvalidMilestoneType   = errors.New("invalid milestone type")
	ErrInvalidMilestoneStatus = errors.New("invalid milestone status")
	ErrInvalidCompletion      = errors.New("completionPct must be between 0 and 100")
	ErrInvalidDate            = errors.New("date must be YYYY-MM-DD or RFC3339")
	ErrInvalidTarget          = errors.New("target must be between 0 and 100")
	ErrInvalidOutcome         = errors.New("outcome must be yes or no")
	ErrInvalidEnergy          = errors.New("energy must be between 0 and 10")
	ErrHabitNameEmpty         = errors.New("habit name is required")
	ErrInvalidFinance         = errors.New("finance values must be finite and non-negative")
	ErrAlignmentUnavailable   = errors.New("alignment snapshot could not be computed")
)

const maxEnergy = 10

// DecisionInput is what a caller supplies when logging a decision. The
// alignment and drift at the time of the call are filled in by the service.
type DecisionInput struct {
	Outcome string   `json:"outcome"`
	Mode    string   `json:"mode"`
	Energy  *float64 `json:"energy"`
	Note    string   `json:"note"`
}

// VisionService is the goroutine-safe front of the state hub. Every call
// holds one mutex for its whole duration, so the hub and its layers are only
// ever touched by one goroutine at a time. Subscribers run under that mutex
// and must not call back into the service.
type VisionService struct {
	mu         sync.Mutex
	hub        *state.Hub
	logger     *zap.Logger
	onSnapshot func()
}

func NewVisionService(hub *state.Hub, logger *zap.Logger) *VisionService {
	return &VisionService{hub: hub, logger: logger}
}

// Build wires records, hub and default producers over kv and installs the
// interceptor.
func Build(kv domain.KVStore, logger *zap.Logger, observer state.Observer, cfg records.Config) *VisionService {
	rec := records.New(kv, cfg)
	hub := state.NewHub(rec, logger, state.WithObserver(observer))
	producers.RegisterDefaults(hub)
	hub.Install()
	return NewVisionService(hub, logger)
}

// SetSnapshotHook registers a callback run after every recorded snapshot.
func (s *VisionService) SetSnapshotHook(fn func()) {
	s.mu.Lock()
	s.onSnapshot = fn
	s.mu.Unlock()
}

// Subscribe registers fn for mutation events and returns its unsubscribe
// func.
func (s *VisionService) Subscribe(fn state.Listener) func() {
	s.mu.Lock()
	sub := s.hub.Subscribe(fn)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		sub.Unsubscribe()
		s.mu.Unlock()
	}
}

func (s *VisionService) GetVision(ctx context.Context) (domain.VisionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.GetVisionState(ctx)
}

func (s *VisionService) SaveVision(ctx context.Context, vs domain.VisionState) (domain.VisionState, error) {
	for i := range vs.Milestones {
		if err := validateMilestone(vs.Milestones[i]); err != nil {
			return domain.VisionState{}, err
		}
	}
	for d, v := range vs.Targets {
		if !domain.ValidDimension(string(d)) {
			return domain.VisionState{}, ErrInvalidDimension
		}
		if !validPct(v) {
			return domain.VisionState{}, ErrInvalidTarget
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.SaveVisionState(ctx, vs)
}

func (s *VisionService) SetNorthStar(ctx context.Context, northStar string) (domain.VisionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.SetNorthStar(ctx, northStar)
}

// SetThemes drops blank labels and defaults missing weights to 1.
func (s *VisionService) SetThemes(ctx context.Context, themes []domain.Theme) (domain.VisionState, error) {
	clean := make([]domain.Theme, 0, len(themes))
	for _, t := range themes {
		label := strings.TrimSpace(t.Label)
		if label == "" {
			continue
		}
		weight := t.Weight
		if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
			weight = 1
		}
		clean = append(clean, domain.Theme{Label: label, Weight: weight})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.SetThemes(ctx, clean)
}

func (s *VisionService) SetTarget(ctx context.Context, dimension string, value float64) (domain.VisionState, error) {
	if !domain.ValidDimension(dimension) {
		return domain.VisionState{}, ErrInvalidDimension
	}
	if !validPct(value) {
		return domain.VisionState{}, ErrInvalidTarget
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.SetTarget(ctx, domain.Dimension(dimension), value)
}

func (s *VisionService) ListMilestones(ctx context.Context, includeArchived bool) ([]domain.Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.ListMilestones(ctx, includeArchived)
}

func (s *VisionService) GetMilestone(ctx context.Context, id string) (domain.Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.GetMilestone(ctx, id)
}

func (s *VisionService) CreateMilestone(ctx context.Context, m domain.Milestone) (domain.Milestone, error) {
	if m.Type == "" {
		m.Type = domain.MilestoneTypeCustom
	}
	if err := validateMilestone(m); err != nil {
		return domain.Milestone{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.CreateMilestone(ctx, m)
}

func (s *VisionService) UpdateMilestone(ctx context.Context, id string, patch records.MilestonePatch) (domain.Milestone, error) {
	if err := validatePatch(patch); err != nil {
		return domain.Milestone{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.UpdateMilestone(ctx, id, patch)
}

func (s *VisionService) DeleteMilestone(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.DeleteMilestone(ctx, id)
}

func (s *VisionService) ArchiveMilestone(ctx context.Context, id string) (domain.Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.ArchiveMilestone(ctx, id)
}

func (s *VisionService) RestoreMilestone(ctx context.Context, id string) (domain.Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.RestoreMilestone(ctx, id)
}

func (s *VisionService) ToggleCommitment(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.ToggleWeeklyCommitment(ctx, id)
}

func (s *VisionService) ClearCommitments(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.ClearWeeklyCommitments(ctx)
}

func (s *VisionService) ListDecisions(ctx context.Context) ([]domain.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.GetDecisionLog(ctx)
}

// LogDecision records a decision together with the overall alignment and
// drift in effect when it was made.
func (s *VisionService) LogDecision(ctx context.Context, in DecisionInput) (domain.Decision, error) {
	outcome := strings.ToLower(strings.TrimSpace(in.Outcome))
	if !domain.ValidDecisionOutcome(outcome) {
		return domain.Decision{}, ErrInvalidOutcome
	}
	if in.Energy != nil && (math.IsNaN(*in.Energy) || *in.Energy < 0 || *in.Energy > maxEnergy) {
		return domain.Decision{}, ErrInvalidEnergy
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.hub.AlignmentState(ctx, false)
	return s.hub.LogDecision(ctx, domain.Decision{
		Outcome:   domain.DecisionOutcome(outcome),
		Mode:      strings.TrimSpace(in.Mode),
		Energy:    in.Energy,
		Note:      strings.TrimSpace(in.Note),
		Alignment: current.Alignment.Overall,
		Drift:     current.Drift.Overall,
	})
}

func (s *VisionService) ClearDecisions(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.ClearDecisionLog(ctx)
}

// GetFinance returns the stored finance record, or nil when none exists.
func (s *VisionService) GetFinance(ctx context.Context) (*domain.FinanceSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok, err := s.hub.GetFinanceSnapshot(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return &f, nil
}

func (s *VisionService) SaveFinance(ctx context.Context, f domain.FinanceSnapshot) (domain.FinanceSnapshot, error) {
	values := []float64{f.Cash, f.MonthlyBurn, f.Pipeline, f.ExpectedIncome}
	if f.RunwayMonths != nil {
		values = append(values, *f.RunwayMonths)
	}
	for _, v := range values {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.FinanceSnapshot{}, ErrInvalidFinance
		}
	}
	if f.RunwayMonths == nil && f.MonthlyBurn > 0 {
		runway := math.Round(f.Cash/f.MonthlyBurn*10) / 10
		f.RunwayMonths = &runway
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.SaveFinanceSnapshot(ctx, f)
}

func (s *VisionService) ListHabits(ctx context.Context) ([]domain.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.ListHabits(ctx)
}

func (s *VisionService) CreateHabit(ctx context.Context, name string) (domain.Habit, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Habit{}, ErrHabitNameEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.CreateHabit(ctx, name)
}

// ToggleHabit flips a habit for day (YYYY-MM-DD); empty means today.
func (s *VisionService) ToggleHabit(ctx context.Context, id, day string) (domain.Habit, error) {
	if day != "" {
		if _, err := time.Parse("2006-01-02", day); err != nil {
			return domain.Habit{}, ErrInvalidDate
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.ToggleHabit(ctx, id, day)
}

func (s *VisionService) DeleteHabit(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.DeleteHabit(ctx, id)
}

func (s *VisionService) State(ctx context.Context, layer string, force bool) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.State(ctx, layer, force)
}

// Preview returns the current alignment snapshot without recording it.
func (s *VisionService) Preview(ctx context.Context) domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.AlignmentState(ctx, false)
}

// ComputeAndRecord forces a fresh alignment snapshot and appends it to the
// history. Nothing is recorded when the snapshot cannot be computed.
func (s *VisionService) ComputeAndRecord(ctx context.Context) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.hub.ComputeAlignment(ctx)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %w", ErrAlignmentUnavailable, err)
	}
	recorded, err := s.hub.RecordSnapshot(ctx, snap)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if s.onSnapshot != nil {
		s.onSnapshot()
	}
	return recorded, nil
}

func (s *VisionService) History(ctx context.Context) ([]domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.GetSnapshotHistory(ctx)
}

// WeeklyInsights summarises the week containing ref.
func (s *VisionService) WeeklyInsights(ctx context.Context, ref time.Time) (domain.WeeklyInsights, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	decisions, err := s.hub.GetDecisionLog(ctx)
	if err != nil {
		return domain.WeeklyInsights{}, err
	}
	snapshots, err := s.hub.GetSnapshotHistory(ctx)
	if err != nil {
		return domain.WeeklyInsights{}, err
	}
	milestones, err := s.hub.ListMilestones(ctx, true)
	if err != nil {
		return domain.WeeklyInsights{}, err
	}
	return vision.WeeklyInsights(decisions, snapshots, milestones, ref), nil
}

func (s *VisionService) Now() time.Time {
	return s.hub.Now()
}

func (s *VisionService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.hub.ResetAll(ctx); err != nil {
		return err
	}
	s.logger.Info("all records reset")
	return nil
}

func (s *VisionService) Seed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.hub.SeedDemo(ctx); err != nil {
		return err
	}
	s.logger.Info("demo records seeded")
	return nil
}

func validateMilestone(m domain.Milestone) error {
	if strings.TrimSpace(m.Title) == "" {
		return ErrMilestoneTitleEmpty
	}
	if !domain.ValidMilestoneType(string(m.Type)) {
		return ErrInvalidMilestoneType
	}
	if m.Status != "" && !validStatus(m.Status) {
		return ErrInvalidMilestoneStatus
	}
	if !validPct(m.CompletionPct) {
		return ErrInvalidCompletion
	}
	return validateDate(m.Date)
}

func validatePatch(p records.MilestonePatch) error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrMilestoneTitleEmpty
	}
	if p.Type != nil && !domain.ValidMilestoneType(string(*p.Type)) {
		return ErrInvalidMilestoneType
	}
	if p.Status != nil && !validStatus(*p.Status) {
		return ErrInvalidMilestoneStatus
	}
	if p.CompletionPct != nil && !validPct(*p.CompletionPct) {
		return ErrInvalidCompletion
	}
	if p.Date != nil {
		return validateDate(*p.Date)
	}
	return nil
}

func validateDate(date string) error {
	if strings.TrimSpace(date) == "" {
		return nil
	}
	if _, ok := vision.ParseDue(date, time.UTC); !ok {
		return ErrInvalidDate
	}
	return nil
}

func validStatus(st domain.MilestoneStatus) bool {
	switch st {
	case domain.MilestoneStatusPlanned, domain.MilestoneStatusActive, domain.MilestoneStatusDone:
		return true
	}
	return false
}

func validPct(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 100
}
