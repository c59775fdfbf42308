package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap/zaptest"

	"github.com/bradykim7/nutriplan/internal/recipes"
	"github.com/bradykim7/nutriplan/internal/storage"
	"github.com/bradykim7/nutriplan/pkg/config"
)

func TestWire_RecipeLookupFallsThroughToMealDB(t *testing.T) {
	mealDB := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lookup.php", r.URL.Path)
		w.Write([]byte(`{"meals":[{"idMeal":"52772","strMeal":"Teriyaki Chicken Casserole","strCategory":"Chicken",
			"strArea":"Japanese","strInstructions":"Preheat oven.\nBake.","strIngredient1":"soy sauce","strMeasure1":"3/4 cup"}]}`))
	}))
	t.Cleanup(mealDB.Close)

	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mt.Run("lookup", func(mt *mtest.T) {
		// the recipes collection has no copy
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "nutriplan.recipes", mtest.FirstBatch))

		cfg := &config.Config{
			MealDBBaseURL:         mealDB.URL,
			RecipePoolSize:        5,
			RecipeRefreshInterval: time.Hour,
		}
		a := Wire(cfg, storage.NewMongoDBFromDatabase(mt.DB, zaptest.NewLogger(t)), mealDB.Client(), zaptest.NewLogger(t))

		recipe, err := a.Planner.GetRecipe(context.Background(), "52772")
		require.NoError(t, err)
		assert.Equal(t, "Teriyaki Chicken Casserole", recipe.Title)
		assert.Equal(t, 0.75, *recipe.Ingredients[0].Amount)
		assert.Equal(t, "pool(TheMealDB)", a.Pool.Name())
	})
}

func TestWire_UnknownRecipeIsNotFound(t *testing.T) {
	mealDB := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meals":null}`))
	}))
	t.Cleanup(mealDB.Close)

	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mt.Run("miss", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "nutriplan.recipes", mtest.FirstBatch))

		cfg := &config.Config{MealDBBaseURL: mealDB.URL, RecipePoolSize: 5, RecipeRefreshInterval: time.Hour}
		a := Wire(cfg, storage.NewMongoDBFromDatabase(mt.DB, zaptest.NewLogger(t)), mealDB.Client(), zaptest.NewLogger(t))

		_, err := a.Planner.GetRecipe(context.Background(), "0")
		assert.ErrorIs(t, err, recipes.ErrRecipeNotFound)
	})
}
