package records

import (
	"context"
	"strings"
	"time"

	"github.com/Harshitk-cp/lifedash/internal/domain"
	"github.com/google/uuid"
)

// GetFinanceSnapshot returns the stored finance record; ok is false when
// nothing has been saved yet.
func (a *Accessors) GetFinanceSnapshot(ctx context.Context) (domain.FinanceSnapshot, bool, error) {
	raw, err := a.load(ctx, KeyFinance)
	if err != nil {
		return domain.FinanceSnapshot{}, false, err
	}
	f, ok := decodeFinance(raw)
	return f, ok, nil
}

func (a *Accessors) SaveFinanceSnapshot(ctx context.Context, f domain.FinanceSnapshot) (domain.FinanceSnapshot, error) {
	f.UpdatedAt = a.now()
	if err := a.save(ctx, KeyFinance, f); err != nil {
		return domain.FinanceSnapshot{}, err
	}
	return f, nil
}

func (a *Accessors) ListHabits(ctx context.Context) ([]domain.Habit, error) {
	raw, err := a.load(ctx, KeyHabits)
	if err != nil {
		return nil, err
	}
	return decodeHabits(raw), nil
}

func (a *Accessors) CreateHabit(ctx context.Context, name string) (domain.Habit, error) {
	habits, err := a.ListHabits(ctx)
	if err != nil {
		return domain.Habit{}, err
	}
	h := domain.Habit{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(name),
		Completions: map[string]bool{},
		CreatedAt:   a.now(),
	}
	if err := a.save(ctx, KeyHabits, append(habits, h)); err != nil {
		return domain.Habit{}, err
	}
	return h, nil
}

// ToggleHabit flips the completion for day (YYYY-MM-DD, today when empty).
func (a *Accessors) ToggleHabit(ctx context.Context, id, day string) (domain.Habit, error) {
	habits, err := a.ListHabits(ctx)
	if err != nil {
		return domain.Habit{}, err
	}
	if day == "" {
		day = domain.DateKey(a.now())
	}
	for i := range habits {
		if habits[i].ID != id {
			continue
		}
		if habits[i].Completions[day] {
			delete(habits[i].Completions, day)
		} else {
			habits[i].Completions[day] = true
		}
		if err := a.save(ctx, KeyHabits, habits); err != nil {
			return domain.Habit{}, err
		}
		return habits[i], nil
	}
	return domain.Habit{}, ErrHabitNotFound
}

func (a *Accessors) DeleteHabit(ctx context.Context, id string) error {
	habits, err := a.ListHabits(ctx)
	if err != nil {
		return err
	}
	for i := range habits {
		if habits[i].ID == id {
			return a.save(ctx, KeyHabits, append(habits[:i], habits[i+1:]...))
		}
	}
	return ErrHabitNotFound
}

// GetHabitCompletionRate is completed habit-days over the last
// HabitWindowDays days (today included) divided by habits x days.
func (a *Accessors) GetHabitCompletionRate(ctx context.Context) (float64, bool, error) {
	habits, err := a.ListHabits(ctx)
	if err != nil {
		return 0, false, err
	}
	rate, ok := HabitCompletionRate(habits, a.now())
	return rate, ok, nil
}

func HabitCompletionRate(habits []domain.Habit, now time.Time) (float64, bool) {
	if len(habits) == 0 {
		return 0, false
	}
	done := 0
	for _, h := range habits {
		for i := 0; i < HabitWindowDays; i++ {
			if h.Completions[domain.DateKey(now.AddDate(0, 0, -i))] {
				done++
			}
		}
	}
	return float64(done) / float64(len(habits)*HabitWindowDays), true
}
