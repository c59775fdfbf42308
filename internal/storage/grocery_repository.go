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

// GroceryRepository stores shopping lists and their items
type GroceryRepository struct {
	db  *MongoDB
	log *zap.Logger
}

// NewGroceryRepository creates a new grocery repository
func NewGroceryRepository(db *MongoDB, log *zap.Logger) *GroceryRepository {
	return &GroceryRepository{
		db:  db,
		log: log.Named("grocery-repository"),
	}
}

// Create inserts a list and its initial items
func (r *GroceryRepository) Create(ctx context.Context, list *models.GroceryList, items []models.GroceryItem) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if list.ID.IsZero() {
		list.ID = primitive.NewObjectID()
	}
	if _, err := r.db.Collection(CollectionGroceryLists).InsertOne(ctx, list); err != nil {
		return fmt.Errorf("failed to insert grocery list: %w", err)
	}

	if len(items) > 0 {
		docs := make([]interface{}, len(items))
		for i := range items {
			items[i].GroceryListID = list.ID
			if items[i].ID.IsZero() {
				items[i].ID = primitive.NewObjectID()
			}
			docs[i] = items[i]
		}
		if _, err := r.db.Collection(CollectionGroceryItems).InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("failed to insert grocery items: %w", err)
		}
	}

	r.log.Info("Created grocery list",
		zap.String("list_id", list.ID.Hex()),
		zap.String("user_id", list.UserID),
		zap.Int("items", len(items)))
	return nil
}

// Get returns a list owned by userID with its items
func (r *GroceryRepository) Get(ctx context.Context, userID string, listID primitive.ObjectID) (*models.GroceryListDetail, error) {
	list, err := r.owned(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := r.db.Collection(CollectionGroceryItems).Find(ctx,
		bson.M{"grocery_list_id": listID},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list grocery items: %w", err)
	}
	defer cursor.Close(ctx)

	items := []models.GroceryItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode grocery items: %w", err)
	}
	return &models.GroceryListDetail{GroceryList: *list, Items: items}, nil
}

// AddItem appends an item to a list owned by userID
func (r *GroceryRepository) AddItem(ctx context.Context, userID string, listID primitive.ObjectID, item *models.GroceryItem) error {
	if _, err := r.owned(ctx, userID, listID); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	item.GroceryListID = listID
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	if _, err := r.db.Collection(CollectionGroceryItems).InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to insert grocery item: %w", err)
	}
	return nil
}

// SetPurchased flips the purchased flag of one item
func (r *GroceryRepository) SetPurchased(ctx context.Context, userID string, listID, itemID primitive.ObjectID, purchased bool) error {
	if _, err := r.owned(ctx, userID, listID); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.Collection(CollectionGroceryItems).UpdateOne(ctx,
		bson.M{"_id": itemID, "grocery_list_id": listID},
		bson.M{"$set": bson.M{"is_purchased": purchased}})
	if err != nil {
		return fmt.Errorf("failed to update grocery item: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("grocery item %s: %w", itemID.Hex(), ErrNotFound)
	}
	return nil
}

// DeleteItem removes one item from a list owned by userID
func (r *GroceryRepository) DeleteItem(ctx context.Context, userID string, listID, itemID primitive.ObjectID) error {
	if _, err := r.owned(ctx, userID, listID); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.Collection(CollectionGroceryItems).DeleteOne(ctx, bson.M{"_id": itemID, "grocery_list_id": listID})
	if err != nil {
		return fmt.Errorf("failed to delete grocery item: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("grocery item %s: %w", itemID.Hex(), ErrNotFound)
	}
	return nil
}

func (r *GroceryRepository) owned(ctx context.Context, userID string, listID primitive.ObjectID) (*models.GroceryList, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var list models.GroceryList
	err := r.db.Collection(CollectionGroceryLists).FindOne(ctx, bson.M{"_id": listID, "user_id": userID}).Decode(&list)
	if err != nil {
		return nil, notFound(err, "grocery list "+listID.Hex())
	}
	return &list, nil
}
