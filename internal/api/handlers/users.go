package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pandenic/media-review-board/internal/api/httpx"
	"github.com/pandenic/media-review-board/internal/middleware"
	"github.com/pandenic/media-review-board/internal/models"
	"github.com/pandenic/media-review-board/internal/services"
)

type UsersHandler struct {
	Svc      *services.UserService
	PageSize int
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	writePage(w, r, h.PageSize, func(p httpx.Pager) ([]models.User, int, error) {
		return h.Svc.List(r.Context(), search, p.Window())
	})
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.UserInput
	if !decode(w, r, &req) {
		return
	}
	u, err := h.Svc.Create(r.Context(), req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, u)
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.Svc.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req services.UserPatch
	if !decode(w, r, &req) {
		return
	}
	u, err := h.Svc.Update(r.Context(), chi.URLParam(r, "username"), req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), chi.URLParam(r, "username")); err != nil {
		writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.Svc.Me(r.Context(), middleware.PrincipalFrom(r.Context()).UserID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req services.UserPatch
	if !decode(w, r, &req) {
		return
	}
	u, err := h.Svc.UpdateMe(r.Context(), middleware.PrincipalFrom(r.Context()).UserID, req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}
