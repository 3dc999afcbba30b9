package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions configures the ambient middleware around the handlers.
type RouterOptions struct {
	AllowedOrigins []string
	// Registry receives the HTTP metrics; nil disables /metrics.
	Registry *prometheus.Registry
}

// NewRouter wires every endpoint. All quiz endpoints are POST with a JSON body.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(h.logger), middleware.Recoverer, middleware.Timeout(60*time.Second))
	if opts.Registry != nil {
		r.Use(NewMetrics(opts.Registry).middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("ok")) })
	if opts.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	}

	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Post("/validate_token", h.ValidateToken)

	r.Group(func(r chi.Router) {
		r.Use(h.requireUser)

		r.Post("/follow", h.Follow)
		r.Post("/unfollow", h.Unfollow)
		r.Post("/score_player", h.ScorePlayer)
		r.Post("/score-player", h.ScorePlayer)
		r.Post("/answered_question", h.AnsweredQuestion)
		r.Post("/get_not_answered_question", h.GetNotAnsweredQuestion)
		r.Post("/check_question_answer", h.CheckQuestionAnswer)
		r.Post("/designer_view", h.DesignerView)
		r.Post("/player_view", h.PlayerView)
		r.Post("/get_designed_question", h.GetDesignedQuestion)
		r.Post("/get_all_question", h.GetAllQuestion)
		r.Post("/set_similar_question", h.SetSimilarQuestion)
		r.Post("/get_similar_question", h.GetSimilarQuestion)
		r.Post("/new_designed_question", h.NewDesignedQuestion)
		r.Post("/get_categories", h.GetCategories)
		r.Post("/new_category", h.NewCategory)
	})
	return r
}
