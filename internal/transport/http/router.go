package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mlazareva/go-auth-sessions/internal/service"
	"github.com/mlazareva/go-auth-sessions/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := NewHandlers(svc)
	registerRoutes(root, h)

	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
// Пути (включая завершающие слэши) повторяют исторический контракт API.
func registerRoutes(r chi.Router, h *Handlers) {
	r.Post("/register/", h.Register)
	r.Post("/login/", h.Login)
	r.Get("/redis-cache-tokens/", h.CachedTokens)
	r.Post("/refresh-access-token/", h.RefreshAccessToken)
	r.Get("/user-profile/", h.UserProfiles)
}
