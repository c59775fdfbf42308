package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/bradykim7/nutriplan/internal/models"
)

// MealPlanRepository stores plan headers and their meal rows
type MealPlanRepository struct {
	db  *MongoDB
	log *zap.Logger
}

// NewMealPlanRepository creates a new meal plan repository
func NewMealPlanRepository(db *MongoDB, log *zap.Logger) *MealPlanRepository {
	return &MealPlanRepository{
		db:  db,
		log: log.Named("meal-plan-repository"),
	}
}

// Create inserts the plan and then its meals. If the meals cannot be written the
// plan header is removed again so no empty plan is left behind.
func (r *MealPlanRepository) Create(ctx context.Context, plan *models.MealPlan, meals []models.Meal) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if plan.ID.IsZero() {
		plan.ID = primitive.NewObjectID()
	}
	if _, err := r.db.Collection(CollectionMealPlans).InsertOne(ctx, plan); err != nil {
		return fmt.Errorf("failed to insert meal plan: %w", err)
	}

	if len(meals) > 0 {
		docs := make([]interface{}, len(meals))
		for i := range meals {
			meals[i].MealPlanID = plan.ID
			if meals[i].ID.IsZero() {
				meals[i].ID = primitive.NewObjectID()
			}
			docs[i] = meals[i]
		}
		if _, err := r.db.Collection(CollectionMeals).InsertMany(ctx, docs); err != nil {
			if _, delErr := r.db.Collection(CollectionMealPlans).DeleteOne(ctx, bson.M{"_id": plan.ID}); delErr != nil {
				r.log.Error("Failed to roll back meal plan", zap.String("plan_id", plan.ID.Hex()), zap.Error(delErr))
			}
			return fmt.Errorf("failed to insert meals: %w", err)
		}
	}

	r.log.Info("Created meal plan",
		zap.String("plan_id", plan.ID.Hex()),
		zap.String("user_id", plan.UserID),
		zap.Int("meals", len(meals)))
	return nil
}

// ListActive returns the active plans of userID, newest first
func (r *MealPlanRepository) ListActive(ctx context.Context, userID string) ([]models.MealPlan, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := r.db.Collection(CollectionMealPlans).Find(ctx,
		bson.M{"user_id": userID, "status": models.MealPlanActive},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans: %w", err)
	}
	defer cursor.Close(ctx)

	plans := []models.MealPlan{}
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, fmt.Errorf("failed to decode meal plans: %w", err)
	}
	return plans, nil
}

// Get returns a plan owned by userID together with its meals ordered by day
func (r *MealPlanRepository) Get(ctx context.Context, userID string, planID primitive.ObjectID) (*models.MealPlanDetail, error) {
	plan, err := r.owned(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := r.db.Collection(CollectionMeals).Find(ctx,
		bson.M{"meal_plan_id": planID},
		options.Find().SetSort(bson.D{{Key: "day_number", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer cursor.Close(ctx)

	meals := []models.Meal{}
	if err := cursor.All(ctx, &meals); err != nil {
		return nil, fmt.Errorf("failed to decode meals: %w", err)
	}
	return &models.MealPlanDetail{MealPlan: *plan, Meals: meals}, nil
}

// Delete removes the meals of a plan and then the plan itself
func (r *MealPlanRepository) Delete(ctx context.Context, userID string, planID primitive.ObjectID) error {
	if _, err := r.owned(ctx, userID, planID); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.Collection(CollectionMeals).DeleteMany(ctx, bson.M{"meal_plan_id": planID})
	if err != nil {
		return fmt.Errorf("failed to delete meals: %w", err)
	}

	planRes, err := r.db.Collection(CollectionMealPlans).DeleteOne(ctx, bson.M{"_id": planID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete meal plan: %w", err)
	}
	if planRes.DeletedCount == 0 {
		return fmt.Errorf("meal plan %s: %w", planID.Hex(), ErrNotFound)
	}

	r.log.Info("Deleted meal plan",
		zap.String("plan_id", planID.Hex()),
		zap.Int64("meals", res.DeletedCount))
	return nil
}

// AddMeal appends a meal to a plan owned by userID
func (r *MealPlanRepository) AddMeal(ctx context.Context, userID string, planID primitive.ObjectID, meal *models.Meal) error {
	if _, err := r.owned(ctx, userID, planID); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	meal.MealPlanID = planID
	if meal.ID.IsZero() {
		meal.ID = primitive.NewObjectID()
	}
	if _, err := r.db.Collection(CollectionMeals).InsertOne(ctx, meal); err != nil {
		return fmt.Errorf("failed to insert meal: %w", err)
	}
	return nil
}

func (r *MealPlanRepository) owned(ctx context.Context, userID string, planID primitive.ObjectID) (*models.MealPlan, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var plan models.MealPlan
	err := r.db.Collection(CollectionMealPlans).FindOne(ctx, bson.M{"_id": planID, "user_id": userID}).Decode(&plan)
	if err != nil {
		return nil, notFound(err, "meal plan "+planID.Hex())
	}
	return &plan, nil
}
