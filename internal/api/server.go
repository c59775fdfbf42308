// Package api exposes the planner over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/bradykim7/nutriplan/internal/models"
	"github.com/bradykim7/nutriplan/internal/service"
)

// Planner is the part of *service.Planner the handlers call
type Planner interface {
	ComputeGoals(profile models.Profile) (models.NutritionTargets, error)
	CompleteOnboarding(ctx context.Context, userID string, profile models.Profile) (*models.Profile, error)
	RecalculateGoals(ctx context.Context, userID string) (models.NutritionTargets, error)

	Assemble(ctx context.Context, req service.AssembleRequest) (*models.AssembledMealPlan, error)
	GenerateMealPlan(ctx context.Context, userID string, req service.GeneratePlanRequest) (*models.MealPlanDetail, error)
	ListMealPlans(ctx context.Context, userID string) ([]models.MealPlan, error)
	GetMealPlan(ctx context.Context, userID string, planID primitive.ObjectID) (*models.MealPlanDetail, error)
	DeleteMealPlan(ctx context.Context, userID string, planID primitive.ObjectID) error
	AddRecipeToMealPlan(ctx context.Context, userID string, planID primitive.ObjectID, req service.AddRecipeRequest) (*models.Meal, error)

	CreateGroceryList(ctx context.Context, userID string, req service.CreateGroceryListRequest) (*models.GroceryListDetail, error)
	GetGroceryList(ctx context.Context, userID string, listID primitive.ObjectID) (*models.GroceryListDetail, error)
	AddGroceryItem(ctx context.Context, userID string, listID primitive.ObjectID, item models.GroceryItem) (*models.GroceryItem, error)
	SetGroceryItemPurchased(ctx context.Context, userID string, listID, itemID primitive.ObjectID, purchased bool) error
	DeleteGroceryItem(ctx context.Context, userID string, listID, itemID primitive.ObjectID) error

	LogProgress(ctx context.Context, userID string, entry models.ProgressEntry) (*models.ProgressEntry, error)
	ListProgress(ctx context.Context, userID string, limit int) ([]models.ProgressEntry, error)
	ProgressSummary(ctx context.Context, userID string) (*models.ProgressSummary, error)

	SearchRecipes(ctx context.Context, q service.CandidateQuery) ([]models.Recipe, error)
	RecipeCategories(ctx context.Context) ([]string, error)
	GetRecipe(ctx context.Context, id string) (*models.Recipe, error)
	ImportRecipe(ctx context.Context, pageURL string) (*models.Recipe, error)
}

var _ Planner = (*service.Planner)(nil)

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server routes HTTP requests to the planner
type Server struct {
	planner Planner
	pinger  Pinger
	log     *zap.Logger
	timeout time.Duration
}

// NewServer creates a server. pinger may be nil when running without a database.
func NewServer(planner Planner, pinger Pinger, timeout time.Duration, log *zap.Logger) *Server {
	return &Server{
		planner: planner,
		pinger:  pinger,
		log:     log.Named("api"),
		timeout: timeout,
	}
}

// Handler returns the router wrapped in CORS, logging and timeout middleware
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
	})
	return c.Handler(s.loggingMiddleware(s.timeoutMiddleware(s.Router())))
}

// Router registers every route
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "route not found"})
	})

	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/goals", s.computeGoals).Methods(http.MethodPost)
	api.HandleFunc("/meal-plans/assemble", s.assemble).Methods(http.MethodPost)

	api.HandleFunc("/recipes", s.searchRecipes).Methods(http.MethodGet)
	api.HandleFunc("/recipes/categories", s.recipeCategories).Methods(http.MethodGet)
	api.HandleFunc("/recipes/import", s.importRecipe).Methods(http.MethodPost)
	api.HandleFunc("/recipes/{id}", s.getRecipe).Methods(http.MethodGet)

	user := api.PathPrefix("/users/{userID}").Subrouter()
	user.HandleFunc("/profile", s.completeOnboarding).Methods(http.MethodPut)
	user.HandleFunc("/goals/recalculate", s.recalculateGoals).Methods(http.MethodPost)

	user.HandleFunc("/meal-plans", s.listMealPlans).Methods(http.MethodGet)
	user.HandleFunc("/meal-plans", s.generateMealPlan).Methods(http.MethodPost)
	user.HandleFunc("/meal-plans/{planID}", s.getMealPlan).Methods(http.MethodGet)
	user.HandleFunc("/meal-plans/{planID}", s.deleteMealPlan).Methods(http.MethodDelete)
	user.HandleFunc("/meal-plans/{planID}/meals", s.addRecipeToMealPlan).Methods(http.MethodPost)

	user.HandleFunc("/grocery-lists", s.createGroceryList).Methods(http.MethodPost)
	user.HandleFunc("/grocery-lists/{listID}", s.getGroceryList).Methods(http.MethodGet)
	user.HandleFunc("/grocery-lists/{listID}/items", s.addGroceryItem).Methods(http.MethodPost)
	user.HandleFunc("/grocery-lists/{listID}/items/{itemID}", s.setGroceryItemPurchased).Methods(http.MethodPatch)
	user.HandleFunc("/grocery-lists/{listID}/items/{itemID}", s.deleteGroceryItem).Methods(http.MethodDelete)

	user.HandleFunc("/progress", s.listProgress).Methods(http.MethodGet)
	user.HandleFunc("/progress", s.logProgress).Methods(http.MethodPost)
	user.HandleFunc("/progress/summary", s.progressSummary).Methods(http.MethodGet)

	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			s.log.Warn("Health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

