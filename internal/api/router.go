package api

import (
	"net/http"
	"time"

	"picklist/internal/api/handler"
	"picklist/internal/api/middleware"
	"picklist/internal/app/service"
	"picklist/internal/common/security"
	"picklist/internal/domain/repository"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	productService *service.ProductService,
	blacklist repository.TokenBlacklist,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Parses a bearer token when present and puts claims on the context;
	// enforcement happens per-route in middleware.Authenticator.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Session routes (public; logout inspects the header itself so it can
	// answer 400 rather than 401 on a missing token)
	authHandler := handler.NewAuthHandler(authService)
	authHandler.RegisterRoutes(r)

	// Product routes (authenticated)
	productHandler := handler.NewProductHandler(productService)
	r.Route("/products", func(pr chi.Router) {
		pr.Use(middleware.Authenticator(blacklist))
		productHandler.RegisterRoutes(pr)
	})

	return r
}
