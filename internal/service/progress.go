package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/bradykim7/nutriplan/internal/models"
	"github.com/bradykim7/nutriplan/internal/nutrition"
	"github.com/bradykim7/nutriplan/internal/storage"
)

// summaryWindow is how many recent entries the averages cover
const summaryWindow = 7

// LogProgress stores an entry for userID, dated now when no date was given
func (p *Planner) LogProgress(ctx context.Context, userID string, entry models.ProgressEntry) (*models.ProgressEntry, error) {
	if entry.WeightKg != nil && !nutrition.Positive(*entry.WeightKg) {
		return nil, fmt.Errorf("%w: weight_kg must be positive", ErrInvalidInput)
	}
	if entry.Calories != nil && *entry.Calories < 0 {
		return nil, fmt.Errorf("%w: calories must not be negative", ErrInvalidInput)
	}

	entry.UserID = userID
	if entry.Date.IsZero() {
		entry.Date = p.now()
	}
	if err := p.deps.Progress.Add(ctx, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListProgress returns up to limit entries, newest first
func (p *Planner) ListProgress(ctx context.Context, userID string, limit int) ([]models.ProgressEntry, error) {
	return p.deps.Progress.ListRecent(ctx, userID, limit)
}

// ProgressSummary loads the latest entries and the profile and summarizes them
func (p *Planner) ProgressSummary(ctx context.Context, userID string) (*models.ProgressSummary, error) {
	entries, err := p.deps.Progress.ListRecent(ctx, userID, summaryWindow)
	if err != nil {
		return nil, err
	}
	profile, err := p.deps.Profiles.Get(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		profile = nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	summary := SummarizeProgress(entries, profile)
	return &summary, nil
}

// SummarizeProgress reports the latest values, the change against the entry
// before, and averages over the newest seven entries. entries must be newest
// first. An entry without a value counts as zero in the averages.
func SummarizeProgress(entries []models.ProgressEntry, profile *models.Profile) models.ProgressSummary {
	var s models.ProgressSummary
	if profile != nil {
		s.TargetWeightKg = profile.TargetWeightKg
		if profile.Targets != nil {
			goal := profile.Targets.DailyCalories
			s.DailyCalorieGoal = &goal
		}
	}
	if len(entries) == 0 {
		return s
	}

	latest := entries[0]
	s.LatestWeightKg = latest.WeightKg
	s.LatestCalories = latest.Calories

	if len(entries) > 1 {
		prev := entries[1]
		if latest.WeightKg != nil && prev.WeightKg != nil {
			s.WeightTrendKg = math.Round((*latest.WeightKg-*prev.WeightKg)*10) / 10
		}
		if latest.Calories != nil && prev.Calories != nil {
			s.CalorieTrend = *latest.Calories - *prev.Calories
		}
	}

	window := entries[:min(len(entries), summaryWindow)]
	var weight float64
	var calories int
	for _, e := range window {
		if e.WeightKg != nil {
			weight += *e.WeightKg
		}
		if e.Calories != nil {
			calories += *e.Calories
		}
	}
	n := float64(len(window))
	s.AverageWeightKg = math.Round(weight/n*10) / 10
	s.AverageCalories = int(math.Round(float64(calories) / n))
	s.EntriesConsidered = len(window)
	return s
}
