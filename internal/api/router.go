package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pandenic/media-review-board/internal/api/handlers"
	"github.com/pandenic/media-review-board/internal/api/httpx"
	"github.com/pandenic/media-review-board/internal/config"
	"github.com/pandenic/media-review-board/internal/metrics"
	"github.com/pandenic/media-review-board/internal/middleware"
	"github.com/pandenic/media-review-board/internal/models"
	"github.com/pandenic/media-review-board/internal/services"
)

type RouterDeps struct {
	Cfg        config.Config
	Log        *slog.Logger
	Auth       *middleware.AuthMiddleware
	Users      *services.UserService
	Categories *services.TaxonomyService[models.Category]
	Genres     *services.TaxonomyService[models.Genre]
	Titles     *services.TitleService
	Reviews    *services.ReviewService
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.StripSlashes)
	r.Use(middleware.RequestID, middleware.Recover, middleware.AccessLog(d.Log), middleware.HTTPMetrics)
	r.Use(middleware.RateLimit(d.Cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "not found", nil)
	})
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	size := d.Cfg.PageSize
	ah := handlers.NewAuthHandler(d.Users)
	uh := &handlers.UsersHandler{Svc: d.Users, PageSize: size}
	ch := &handlers.TaxonomyHandler[models.Category]{Svc: d.Categories, PageSize: size}
	gh := &handlers.TaxonomyHandler[models.Genre]{Svc: d.Genres, PageSize: size}
	th := &handlers.TitlesHandler{Svc: d.Titles, PageSize: size}
	rh := &handlers.ReviewsHandler{Svc: d.Reviews, PageSize: size}

	r.Route("/v1", func(r chi.Router) {
		r.Use(d.Auth.Authenticate)

		// ---------- auth ----------
		r.Post("/auth/signup", ah.Signup)
		r.Post("/auth/token", ah.Token)

		// ---------- users ----------
		r.Route("/users", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/me", uh.Me)
				r.Patch("/me", uh.UpdateMe)
				r.Delete("/me", handlers.MethodNotAllowed)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", uh.List)
				r.Post("/", uh.Create)
				r.Get("/{username}", uh.Get)
				r.Patch("/{username}", uh.Update)
				r.Delete("/{username}", uh.Delete)
			})
		})

		// ---------- catalog ----------
		r.Group(func(r chi.Router) {
			r.Use(middleware.CatalogWriters)
			r.Get("/categories", ch.List)
			r.Post("/categories", ch.Create)
			r.Delete("/categories/{slug}", ch.Delete)

			r.Get("/genres", gh.List)
			r.Post("/genres", gh.Create)
			r.Delete("/genres/{slug}", gh.Delete)

			r.Get("/titles", th.List)
			r.Post("/titles", th.Create)
			r.Get("/titles/{titleID}", th.Get)
			r.Patch("/titles/{titleID}", th.Update)
			r.Delete("/titles/{titleID}", th.Delete)
		})

		// ---------- reviews & comments ----------
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuthForWrites)
			r.Route("/titles/{titleID}/reviews", func(r chi.Router) {
				r.Get("/", rh.List)
				r.Post("/", rh.Create)
				r.Get("/{reviewID}", rh.Get)
				r.Patch("/{reviewID}", rh.Update)
				r.Delete("/{reviewID}", rh.Delete)

				r.Get("/{reviewID}/comments", rh.ListComments)
				r.Post("/{reviewID}/comments", rh.CreateComment)
				r.Get("/{reviewID}/comments/{commentID}", rh.GetComment)
				r.Patch("/{reviewID}/comments/{commentID}", rh.UpdateComment)
				r.Delete("/{reviewID}/comments/{commentID}", rh.DeleteComment)
			})
		})
	})

	return r
}
