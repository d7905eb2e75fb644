// Package server exposes the quoting pipeline over HTTP.
package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"cotador/internal/app"
	"cotador/internal/models"
)

// New builds the API handler over the assembled application.
func New(a *app.App) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthHandler)
	r.Post("/lists", saveListHandler(a))
	r.Get("/lists", listsHandler(a))
	r.Post("/quote", quoteHandler(a))
	r.Get("/quotes", quotesHandler(a))
	r.Get("/quotes/summary", summaryHandler(a))
	r.Get("/quotes/{id}", quoteByIDHandler(a))
	r.Delete("/quotes", deleteQuotesHandler(a))
	r.Post("/prices/update", updatePricesHandler(a))

	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(r)
}

// Start runs the API server on the given port.
func Start(a *app.App, port int) error {
	addr := fmt.Sprintf(":%d", port)
	zap.L().Info("starting API server", zap.String("addr", addr))
	return http.ListenAndServe(addr, New(a))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listRequest is the body for POST /lists and POST /quote.
type listRequest struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func saveListHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req listRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.Items) == 0 {
			writeError(w, http.StatusBadRequest, "items is required")
			return
		}
		id, err := a.SaveList(req.Name, req.Items)
		if err != nil {
			zap.L().Error("list save failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to save list")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": id})
	}
}

func listsHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lists, err := a.Repo.Lists()
		if err != nil {
			zap.L().Error("lists query failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load lists")
			return
		}
		writeJSON(w, http.StatusOK, lists)
	}
}

func quoteHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req listRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.Items) == 0 {
			writeError(w, http.StatusBadRequest, "items is required")
			return
		}
		q, id, err := a.QuoteList(r.Context(), req.Name, req.Items)
		if err != nil {
			zap.L().Error("quote failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to build quote")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "quote": q})
	}
}

func quotesHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quotes, err := a.Repo.Quotes(queryLimit(r, 0))
		if err != nil {
			zap.L().Error("quotes query failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load quotes")
			return
		}
		writeJSON(w, http.StatusOK, quotes)
	}
}

func quoteByIDHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid quote id")
			return
		}
		sq, err := a.Repo.Quote(id)
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "quote not found")
			return
		}
		if err != nil {
			zap.L().Error("quote query failed", zap.Int64("id", id), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load quote")
			return
		}
		writeJSON(w, http.StatusOK, sq)
	}
}

func deleteQuotesHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := a.Repo.DeleteQuotes()
		if err != nil {
			zap.L().Error("quotes delete failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to delete quotes")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": n})
	}
}

func summaryHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summaries, err := a.Repo.Summary(queryLimit(r, 20))
		if err != nil {
			zap.L().Error("summary query failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load summary")
			return
		}
		writeJSON(w, http.StatusOK, summaries)
	}
}

// updateRequest is the body for POST /prices/update; omitted sources mean
// the configured ones.
type updateRequest struct {
	Sources []models.Source `json:"sources"`
}

func updatePricesHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}
		sources := req.Sources
		if len(sources) == 0 {
			sources = a.Sources
		}
		db, err := a.UpdatePrices(r.Context(), sources)
		if err != nil {
			zap.L().Error("price update failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to update prices")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"markets": len(db)})
	}
}

func queryLimit(r *http.Request, fallback int) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		return fallback
	}
	return limit
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("response encode failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
