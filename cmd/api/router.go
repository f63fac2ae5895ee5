package main

import (
	"context"
	"net/http"
	"time"

	"shelfit/internal/auth"
	"shelfit/internal/book"
	"shelfit/internal/comment"
	"shelfit/internal/config"
	"shelfit/internal/httpx"
	"shelfit/internal/identity"
	"shelfit/internal/logging"
	"shelfit/internal/search"
)

type routerDeps struct {
	cfg      config.Config
	log      logging.Logger
	ready    func(ctx context.Context) error
	resolver identity.Resolver
	books    *book.HTTPHandler
	comments *comment.HTTPHandler
	search   *search.HTTPHandler
	// auth is nil unless local credentials are enabled.
	auth *auth.HTTPHandler
}

func newRouter(d routerDeps) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONSuccess(w, http.StatusOK, nil)
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.ready(ctx); err != nil {
			d.log.Warn(ctx, "readiness check failed", "error", err)
			httpx.JSONError(w, r, http.StatusServiceUnavailable, "NOT_READY", "store not ready", nil)
			return
		}
		httpx.JSONSuccess(w, http.StatusOK, nil)
	})
	router.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONSuccess(w, http.StatusOK, map[string]any{"message": "shelf api running"})
	})

	p := d.cfg.APIPrefix
	protect := identity.Middleware(d.resolver, d.log)
	owned := func(h http.HandlerFunc) http.Handler { return protect(h) }

	router.HandleFunc("GET "+p+"/books/search", d.search.Search)

	router.Handle("GET "+p+"/books", owned(d.books.List))
	router.Handle("POST "+p+"/books", owned(d.books.Save))
	router.Handle("POST "+p+"/books/manual", owned(d.books.CreateManual))
	router.Handle("GET "+p+"/books/{id}", owned(d.books.Get))
	router.Handle("PATCH "+p+"/books/{id}", owned(d.books.PatchStatus))
	router.Handle("DELETE "+p+"/books/{id}", owned(d.books.Delete))

	router.Handle("GET "+p+"/books/{id}/comments", owned(d.comments.List))
	router.Handle("POST "+p+"/books/{id}/comments", owned(d.comments.Create))
	router.Handle("DELETE "+p+"/books/{id}/comments/{commentId}", owned(d.comments.Delete))

	if d.auth != nil {
		router.HandleFunc("POST "+p+"/auth/signup", d.auth.Signup)
		router.HandleFunc("POST "+p+"/auth/login", d.auth.Login)
		router.HandleFunc("GET "+p+"/auth/verify", d.auth.Verify)
	}

	rateLimit := httpx.NewRateLimitMiddleware(d.cfg.RateLimitRPS, d.cfg.RateLimitBurst)

	// Debug flag must be set before recovery so a recovered panic can report its detail.
	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.DebugErrorsMiddleware(!d.cfg.Production()),
		httpx.AccessLogMiddleware(d.log),
		httpx.RecoveryMiddleware(d.log),
		httpx.SecurityHeadersMiddleware(d.cfg.EnableHSTS),
		httpx.CORSMiddleware(d.cfg.CORSAllowedOrigins),
		rateLimit.Middleware,
		httpx.RequestSizeLimitMiddleware(d.cfg.MaxBodyBytes),
	)
}
