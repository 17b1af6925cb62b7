package handlers

import (
	"net/http"
	"strconv"

	"github.com/pandenic/media-review-board/internal/api/httpx"
	"github.com/pandenic/media-review-board/internal/models"
	"github.com/pandenic/media-review-board/internal/repository"
	"github.com/pandenic/media-review-board/internal/services"
	"github.com/pandenic/media-review-board/internal/validate"
)

type TitlesHandler struct {
	Svc      *services.TitleService
	PageSize int
}

func titleFilter(r *http.Request) (repository.TitleFilter, error) {
	q := r.URL.Query()
	f := repository.TitleFilter{
		Category: q.Get("category"),
		Genre:    q.Get("genre"),
		Name:     q.Get("name"),
	}
	if v := q.Get("year"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return f, validate.Field("year", "enter a whole number")
		}
		y := int(n)
		f.Year = &y
	}
	return f, nil
}

func (h *TitlesHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := titleFilter(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writePage(w, r, h.PageSize, func(p httpx.Pager) ([]models.Title, int, error) {
		return h.Svc.List(r.Context(), f, p.Window())
	})
}

func (h *TitlesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "titleID")
	if !ok {
		return
	}
	t, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}

func (h *TitlesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.TitleInput
	if !decode(w, r, &req) {
		return
	}
	t, err := h.Svc.Create(r.Context(), req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, t)
}

func (h *TitlesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "titleID")
	if !ok {
		return
	}
	var req services.TitleInput
	if !decode(w, r, &req) {
		return
	}
	t, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}

func (h *TitlesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "titleID")
	if !ok {
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
