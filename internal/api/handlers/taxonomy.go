package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pandenic/media-review-board/internal/api/httpx"
	"github.com/pandenic/media-review-board/internal/services"
)

// TaxonomyHandler serves a slug-addressed list: categories or genres.
type TaxonomyHandler[T any] struct {
	Svc      *services.TaxonomyService[T]
	PageSize int
}

func (h *TaxonomyHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	writePage(w, r, h.PageSize, func(p httpx.Pager) ([]T, int, error) {
		return h.Svc.List(r.Context(), search, p.Window())
	})
}

func (h *TaxonomyHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	var req services.TaxonomyInput
	if !decode(w, r, &req) {
		return
	}
	out, err := h.Svc.Create(r.Context(), req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, out)
}

func (h *TaxonomyHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
		writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
