package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/bradykim7/nutriplan/internal/models"
)

// ProfileRepository stores onboarding profiles and their computed targets
type ProfileRepository struct {
	db  *MongoDB
	log *zap.Logger
	now func() time.Time
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *MongoDB, log *zap.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:  db,
		log: log.Named("profile-repository"),
		now: time.Now,
	}
}

// Get returns the profile of userID
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var p models.Profile
	err := r.db.Collection(CollectionProfiles).FindOne(ctx, bson.M{"user_id": userID}).Decode(&p)
	if err != nil {
		return nil, notFound(err, "profile "+userID)
	}
	return &p, nil
}

// Upsert replaces the stored profile, creating it when missing
func (r *ProfileRepository) Upsert(ctx context.Context, p *models.Profile) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := r.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := r.db.Collection(CollectionProfiles).ReplaceOne(ctx,
		bson.M{"user_id": p.UserID}, p, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	r.log.Debug("Saved profile", zap.String("user_id", p.UserID))
	return nil
}

// UpdateTargets overwrites the stored nutrition targets of userID
func (r *ProfileRepository) UpdateTargets(ctx context.Context, userID string, targets models.NutritionTargets) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.Collection(CollectionProfiles).UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"targets": targets, "updated_at": r.now()}})
	if err != nil {
		return fmt.Errorf("failed to update targets: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("profile %s: %w", userID, ErrNotFound)
	}
	return nil
}
