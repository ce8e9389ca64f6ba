/*
Package handler provides the HTTP handlers and routing setup for the payment gateway.

This file defines the main Router, applying the browser-facing defense layers
(CORS, security headers, CSRF, input sanitization, rate limiting) before
delegating requests to the customer, payment, and staff-portal handlers.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/herkeens/Secure-Payment-App/internal/pkg/auth/jwt"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/csrf"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/limiter"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/logx"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/resp"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/sanitize"
)

// Coarse per-IP throttles for the account endpoints. The fine-grained
// per-identity lockout lives in the brute-force guard; these only blunt
// volume from a single address.
const (
	RegisterRate  = 0.2
	RegisterBurst = 10
	LoginRate     = 0.5
	LoginBurst    = 20
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// All state-changing routes sit behind the double-submit CSRF check, and every
// JSON body passes through the sanitizer before reaching a handler.
func Router(deps *AppDeps) http.Handler {
	registerLimiter := limiter.NewIPRateLimiter(rate.Limit(RegisterRate), RegisterBurst)
	loginLimiter := limiter.NewIPRateLimiter(rate.Limit(LoginRate), LoginBurst)

	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", csrf.HeaderName, "X-Requested-With"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)
	r.Use(sanitize.Middleware())

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			logx.Info("Health check endpoint hit")

			data := map[string]string{
				"status":  "ok",
				"service": "Secure Payment Gateway",
			}
			resp.RespondSuccess(w, r, data)
		})

		api.Get("/csrf-token", csrf.IssueHandler(deps.Config.CSRFCookieName))

		api.Route("/auth", func(auth chi.Router) {
			auth.Use(csrf.Require(deps.Config.CSRFCookieName))

			auth.With(registerLimiter.Middleware).Post("/register", HandleRegister(deps))
			auth.With(loginLimiter.Middleware).Post("/login", HandleLogin(deps))
			auth.Post("/logout", HandleLogout(deps))

			auth.With(jwt.RequireSubmitter(deps.Config.JWTSecret)).Get("/me", HandleMe(deps))
		})

		api.Route("/payments", func(payments chi.Router) {
			payments.Use(csrf.Require(deps.Config.CSRFCookieName))
			payments.Use(jwt.RequireSubmitter(deps.Config.JWTSecret))

			payments.Post("/transfer", HandleCreateTransfer(deps))
		})

		api.Route("/staff", func(staff chi.Router) {
			staff.Use(csrf.Require(deps.Config.CSRFCookieName))

			staff.With(loginLimiter.Middleware).Post("/auth/login", HandleStaffLogin(deps))
			staff.Post("/auth/logout", HandleStaffLogout(deps))

			staff.Route("/transactions", func(tx chi.Router) {
				tx.Use(jwt.RequireVerifier(deps.Config.JWTSecret))

				tx.Get("/pending", HandlePendingTransfers(deps))
				tx.Post("/{id}/verify", HandleVerifyTransfer(deps))
				tx.Post("/{id}/submit-swift", HandleForwardTransfer(deps))
			})
		})
	})

	return r
}
