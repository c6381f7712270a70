package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/misterbo271/movie-database-app-mienpv/internal/models"
	"github.com/misterbo271/movie-database-app-mienpv/internal/store"
)

// CatalogHandler serves the catalog store state over JSON
type CatalogHandler struct {
	store  *store.Store
	logger *log.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(s *store.Store, logger *log.Logger) *CatalogHandler {
	return &CatalogHandler{
		store:  s,
		logger: logger,
	}
}

// listResponse mirrors the category state handed to the presentation layer
type listResponse struct {
	Results    []models.Movie `json:"results"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

// ListCategory handles GET /api/movies/{category}
func (h *CatalogHandler) ListCategory(w http.ResponseWriter, r *http.Request) {
	cat, err := store.ParseCategory(r.PathValue("category"))
	if err != nil || cat == store.CategorySearch {
		http.Error(w, `{"error":"Invalid category"}`, http.StatusBadRequest)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	refresh := r.URL.Query().Get("refresh") == "true"

	if page > 1 {
		h.store.FetchCategory(r.Context(), cat, page)
	} else {
		switch cat {
		case store.CategoryNowPlaying:
			h.store.FetchNowPlaying(r.Context(), refresh)
		case store.CategoryUpcoming:
			h.store.FetchUpcoming(r.Context(), refresh)
		case store.CategoryPopular:
			h.store.FetchPopular(r.Context(), refresh)
		}
	}

	state := h.store.Category(cat)
	if state.Err != "" {
		h.logger.Printf("Category %s fetch failed: %s", cat, state.Err)
		http.Error(w, `{"error":"Failed to load movies"}`, http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listResponse{
		Results:    state.Items,
		Page:       state.CurrentPage,
		TotalPages: state.TotalPages,
	})
}

// Search handles GET /api/search
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	results := h.store.Search(r.Context(), r.URL.Query().Get("query"))

	if state := h.store.Category(store.CategorySearch); state.Err != "" {
		h.logger.Printf("Search failed: %s", state.Err)
		http.Error(w, `{"error":"Failed to search movies"}`, http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// GetMovie handles GET /api/movie/{id}
func (h *CatalogHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	movieID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"Invalid movie ID"}`, http.StatusBadRequest)
		return
	}

	detail := h.store.FetchMovieDetail(r.Context(), movieID)
	if detail == nil {
		h.logger.Printf("Detail fetch failed: %s", h.store.DetailError())
		http.Error(w, `{"error":"Failed to fetch movie"}`, http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

// GetWatchlist handles GET /api/watchlist
func (h *CatalogHandler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("refresh") == "true" {
		h.store.RefreshWatchlist(r.Context())
		if msg := h.store.WatchlistError(); msg != "" {
			h.logger.Printf("Watchlist refresh failed: %s", msg)
			http.Error(w, `{"error":"Failed to load watchlist"}`, http.StatusBadGateway)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.store.Watchlist())
}

// toggleResponse reports the membership state after a toggle
type toggleResponse struct {
	InWatchlist bool `json:"in_watchlist"`
}

// ToggleWatchlist handles POST /api/watchlist/toggle
func (h *CatalogHandler) ToggleWatchlist(w http.ResponseWriter, r *http.Request) {
	var movie models.Movie
	if err := json.NewDecoder(r.Body).Decode(&movie); err != nil || movie.ID == 0 {
		http.Error(w, `{"error":"Invalid movie payload"}`, http.StatusBadRequest)
		return
	}

	present := h.store.ToggleWatchlist(r.Context(), movie)
	if msg := h.store.WatchlistError(); msg != "" {
		h.logger.Printf("Watchlist toggle failed: %s", msg)
		http.Error(w, `{"error":"Failed to update watchlist"}`, http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toggleResponse{InWatchlist: present})
}

// ClearCache handles DELETE /api/cache
func (h *CatalogHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.store.ClearCache()
	w.WriteHeader(http.StatusNoContent)
}

// accountResponse decorates the account with its derived presentation fields
type accountResponse struct {
	*models.Account
	AvatarURL string `json:"avatar_url"`
	Initial   string `json:"initial"`
}

// GetAccount handles GET /api/account
func (h *CatalogHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	h.store.FetchAccount(r.Context())

	account := h.store.Account()
	if account == nil {
		h.logger.Printf("Account fetch failed: %s", h.store.AccountError())
		http.Error(w, `{"error":"Failed to fetch account"}`, http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accountResponse{
		Account:   account,
		AvatarURL: h.store.AvatarURL(),
		Initial:   h.store.UserInitial(),
	})
}
