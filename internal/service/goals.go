package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bradykim7/nutriplan/internal/models"
	"github.com/bradykim7/nutriplan/internal/nutrition"
	"github.com/bradykim7/nutriplan/internal/storage"
)

// ComputeGoals computes targets without touching storage
func (p *Planner) ComputeGoals(profile models.Profile) (models.NutritionTargets, error) {
	profile.Normalize()
	return nutrition.ComputeTargets(profile)
}

// CompleteOnboarding stores the profile of userID with freshly computed targets
func (p *Planner) CompleteOnboarding(ctx context.Context, userID string, profile models.Profile) (*models.Profile, error) {
	profile.Normalize()
	targets, err := nutrition.ComputeTargets(profile)
	if err != nil {
		return nil, err
	}

	existing, err := p.deps.Profiles.Get(ctx, userID)
	switch {
	case err == nil:
		profile.CreatedAt = existing.CreatedAt
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	profile.UserID = userID
	profile.Targets = &targets
	profile.OnboardingCompleted = true
	if err := p.deps.Profiles.Upsert(ctx, &profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	p.log.Info("Completed onboarding",
		zap.String("user_id", userID),
		zap.Int("daily_calories", targets.DailyCalories))
	return &profile, nil
}

// RecalculateGoals recomputes and stores the targets of an existing profile
func (p *Planner) RecalculateGoals(ctx context.Context, userID string) (models.NutritionTargets, error) {
	profile, err := p.deps.Profiles.Get(ctx, userID)
	if err != nil {
		return models.NutritionTargets{}, err
	}

	profile.Normalize()
	targets, err := nutrition.ComputeTargets(*profile)
	if err != nil {
		return models.NutritionTargets{}, err
	}

	if err := p.deps.Profiles.UpdateTargets(ctx, userID, targets); err != nil {
		return models.NutritionTargets{}, fmt.Errorf("failed to store targets: %w", err)
	}
	return targets, nil
}
