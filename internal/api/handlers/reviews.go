package handlers

import (
	"net/http"

	"github.com/pandenic/media-review-board/internal/api/httpx"
	"github.com/pandenic/media-review-board/internal/middleware"
	"github.com/pandenic/media-review-board/internal/models"
	"github.com/pandenic/media-review-board/internal/services"
)

// ReviewsHandler serves /titles/{titleID}/reviews and the comments below.
type ReviewsHandler struct {
	Svc      *services.ReviewService
	PageSize int
}

// path holds the ids of the nested route; missing ones stay zero.
type path struct {
	title, review, comment int64
}

func parsePath(w http.ResponseWriter, r *http.Request, names ...string) (path, bool) {
	var p path
	for _, n := range names {
		id, ok := idParam(w, r, n)
		if !ok {
			return p, false
		}
		switch n {
		case "titleID":
			p.title = id
		case "reviewID":
			p.review = id
		case "commentID":
			p.comment = id
		}
	}
	return p, true
}

func (h *ReviewsHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := parsePath(w, r, "titleID")
	if !ok {
		return
	}
	writePage(w, r, h.PageSize, func(pg httpx.Pager) ([]models.Review, int, error) {
		return h.Svc.ListReviews(r.Context(), p.title, pg.Window())
	})
}

func (h *ReviewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := parsePath(w, r, "titleID", "reviewID")
	if !ok {
		return
	}
	rv, err := h.Svc.GetReview(r.Context(), p.title, p.review)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rv)
}

func (h *ReviewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := parsePath(w, r, "titleID")
	if !ok {
		return
	}
	var req services.ReviewInput
	if !decode(w, r, &req) {
		return
	}
	rv, err := h.Svc.CreateReview(r.Context(), middleware.PrincipalFrom(r.Context()), p.title, req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, rv)
}

func (h *ReviewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := parsePath(w, r, "titleID", "reviewID")
	if !ok {
		return
	}
	var req services.ReviewInput
	if !decode(w, r, &req) {
		return
	}
	rv, err := h.Svc.UpdateReview(r.Context(), middleware.PrincipalFrom(r.Context()), p.title, p.review, req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rv)
}

func (h *ReviewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := parsePath(w, r, "titleID", "reviewID")
	if !ok {
		return
	}
	if err := h.Svc.DeleteReview(r.Context(), middleware.PrincipalFrom(r.Context()), p.title, p.review); err != nil {
		writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReviewsHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	p, ok := parsePath(w, r, "titleID", "reviewID")
	if !ok {
		return
	}
	writePage(w, r, h.PageSize, func(pg httpx.Pager) ([]models.Comment, int, error) {
		return h.Svc.ListComments(r.Context(), p.title, p.review, pg.Window())
	})
}

func (h *ReviewsHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	p, ok := parsePath(w, r, "titleID", "reviewID", "commentID")
	if !ok {
		return
	}
	c, err := h.Svc.GetComment(r.Context(), p.title, p.review, p.comment)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *ReviewsHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	p, ok := parsePath(w, r, "titleID", "reviewID")
	if !ok {
		return
	}
	var req services.CommentInput
	if !decode(w, r, &req) {
		return
	}
	c, err := h.Svc.CreateComment(r.Context(), middleware.PrincipalFrom(r.Context()), p.title, p.review, req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, c)
}

func (h *ReviewsHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	p, ok := parsePath(w, r, "titleID", "reviewID", "commentID")
	if !ok {
		return
	}
	var req services.CommentInput
	if !decode(w, r, &req) {
		return
	}
	c, err := h.Svc.UpdateComment(r.Context(), middleware.PrincipalFrom(r.Context()), p.title, p.review, p.comment, req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *ReviewsHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	p, ok := parsePath(w, r, "titleID", "reviewID", "commentID")
	if !ok {
		return
	}
	err := h.Svc.DeleteComment(r.Context(), middleware.PrincipalFrom(r.Context()), p.title, p.review, p.comment)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
