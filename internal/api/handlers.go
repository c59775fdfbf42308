package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/bradykim7/nutriplan/internal/models"
	"github.com/bradykim7/nutriplan/internal/recipes"
	"github.com/bradykim7/nutriplan/internal/service"
)

func userID(r *http.Request) string {
	return mux.Vars(r)["userID"]
}

func (s *Server) computeGoals(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	if err := decodeJSON(r, &profile); err != nil {
		s.writeError(w, r, err)
		return
	}
	targets, err := s.planner.ComputeGoals(profile)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, targets)
}

func (s *Server) completeOnboarding(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	if err := decodeJSON(r, &profile); err != nil {
		s.writeError(w, r, err)
		return
	}
	saved, err := s.planner.CompleteOnboarding(r.Context(), userID(r), profile)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) recalculateGoals(w http.ResponseWriter, r *http.Request) {
	targets, err := s.planner.RecalculateGoals(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, targets)
}

func (s *Server) assemble(w http.ResponseWriter, r *http.Request) {
	var req service.AssembleRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	plan, err := s.planner.Assemble(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) generateMealPlan(w http.ResponseWriter, r *http.Request) {
	var req service.GeneratePlanRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	plan, err := s.planner.GenerateMealPlan(r.Context(), userID(r), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) listMealPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.planner.ListMealPlans(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if plans == nil {
		plans = []models.MealPlan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) getMealPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := pathID(r, "planID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	plan, err := s.planner.GetMealPlan(r.Context(), userID(r), planID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) deleteMealPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := pathID(r, "planID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.planner.DeleteMealPlan(r.Context(), userID(r), planID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addRecipeToMealPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := pathID(r, "planID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req service.AddRecipeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	meal, err := s.planner.AddRecipeToMealPlan(r.Context(), userID(r), planID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, meal)
}

func (s *Server) searchRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := service.CandidateQuery{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Filter:   recipes.Criteria{Difficulty: q.Get("difficulty")},
	}
	for _, tag := range strings.Split(q.Get("tags"), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			query.Filter.DietaryTags = append(query.Filter.DietaryTags, tag)
		}
	}

	list, err := s.planner.SearchRecipes(r.Context(), query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Recipe{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) recipeCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.planner.RecipeCategories(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) getRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := s.planner.GetRecipe(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (s *Server) importRecipe(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	recipe, err := s.planner.ImportRecipe(r.Context(), body.URL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, recipe)
}
