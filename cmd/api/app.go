package main

import (
	"context"
	"net/http"

	"shelfit/internal/auth"
	"shelfit/internal/book"
	"shelfit/internal/comment"
	"shelfit/internal/config"
	"shelfit/internal/identity"
	"shelfit/internal/logging"
	"shelfit/internal/mailer"
	"shelfit/internal/platform/googlebooks"
	"shelfit/internal/search"
	"shelfit/internal/store"
)

// app is the wired HTTP application and the resources it owns.
type app struct {
	handler http.Handler
	store   *store.Store
}

func (a *app) Close() error {
	return a.store.Close()
}

func buildApp(ctx context.Context, cfg config.Config, log logging.Logger) (*app, error) {
	st, err := store.Open(ctx, store.Config{
		Driver:  cfg.StoreDriver,
		DSN:     cfg.DBDSN,
		Timeout: cfg.DBTimeout,
	}, log)
	if err != nil {
		return nil, err
	}

	resolver, err := identity.NewResolver(identity.Config{
		Mode:             identity.Mode(cfg.AuthMode),
		DemoOwner:        cfg.DemoOwner,
		LocalSecret:      cfg.JWTSecret,
		ExternalSecret:   cfg.ExternalJWTSecret,
		ExternalAudience: cfg.ExternalJWTAudience,
	})
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	bookService := book.NewService(st.Books, book.WithKeepStatusOnResave(cfg.KeepStatusOnResave))
	commentService := comment.NewService(st.Comments, st.Books)
	googleBooks := googlebooks.NewClient(googlebooks.Config{
		BaseURL: cfg.GoogleBooksBaseURL,
		APIKey:  cfg.GoogleBooksAPIKey,
		Timeout: cfg.SearchTimeout,
		RPS:     cfg.SearchRPS,
	})

	deps := routerDeps{
		cfg:      cfg,
		log:      log,
		ready:    st.Ping,
		resolver: resolver,
		books:    book.NewHTTPHandler(bookService),
		comments: comment.NewHTTPHandler(commentService),
		search:   search.NewHTTPHandler(googleBooks, log),
	}

	if identity.Mode(cfg.AuthMode) == identity.ModeLocal {
		var opts []auth.Option
		if cfg.SMTPHost != "" {
			opts = append(opts, auth.WithMailer(mailer.NewSMTP(mailer.Config{
				Host:     cfg.SMTPHost,
				Port:     cfg.SMTPPort,
				User:     cfg.SMTPUser,
				Password: cfg.SMTPPass,
				From:     cfg.EmailFrom,
			}, log)))
		} else {
			log.Warn(ctx, "SMTP_HOST not set, verification links are returned in signup responses")
		}
		authService := auth.NewService(st.Users, st.Tokens, log, auth.Config{
			JWTSecret:       cfg.JWTSecret,
			SessionTTL:      cfg.JWTTTL,
			VerifyTokenTTL:  cfg.VerifyTokenTTL,
			FrontendBaseURL: cfg.FrontendBaseURL,
		}, opts...)
		deps.auth = auth.NewHTTPHandler(authService)
	}

	return &app{handler: newRouter(deps), store: st}, nil
}
