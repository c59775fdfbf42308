package api

import (
	"net/http"

	"github.com/bradykim7/nutriplan/internal/models"
	"github.com/bradykim7/nutriplan/internal/service"
)

func (s *Server) createGroceryList(w http.ResponseWriter, r *http.Request) {
	var req service.CreateGroceryListRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	list, err := s.planner.CreateGroceryList(r.Context(), userID(r), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

func (s *Server) getGroceryList(w http.ResponseWriter, r *http.Request) {
	listID, err := pathID(r, "listID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	list, err := s.planner.GetGroceryList(r.Context(), userID(r), listID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) addGroceryItem(w http.ResponseWriter, r *http.Request) {
	listID, err := pathID(r, "listID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var item models.GroceryItem
	if err := decodeJSON(r, &item); err != nil {
		s.writeError(w, r, err)
		return
	}
	added, err := s.planner.AddGroceryItem(r.Context(), userID(r), listID, item)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) setGroceryItemPurchased(w http.ResponseWriter, r *http.Request) {
	listID, err := pathID(r, "listID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	itemID, err := pathID(r, "itemID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body struct {
		IsPurchased bool `json:"is_purchased"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.planner.SetGroceryItemPurchased(r.Context(), userID(r), listID, itemID, body.IsPurchased); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_purchased": body.IsPurchased})
}

func (s *Server) deleteGroceryItem(w http.ResponseWriter, r *http.Request) {
	listID, err := pathID(r, "listID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	itemID, err := pathID(r, "itemID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.planner.DeleteGroceryItem(r.Context(), userID(r), listID, itemID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) logProgress(w http.ResponseWriter, r *http.Request) {
	var entry models.ProgressEntry
	if err := decodeJSON(r, &entry); err != nil {
		s.writeError(w, r, err)
		return
	}
	saved, err := s.planner.LogProgress(r.Context(), userID(r), entry)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) listProgress(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 30)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entries, err := s.planner.ListProgress(r.Context(), userID(r), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.ProgressEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) progressSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.planner.ProgressSummary(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
