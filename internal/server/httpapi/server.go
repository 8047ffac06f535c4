// Package httpapi exposes AccountService over a JSON HTTP API.
// The layering mirrors the rest of the server: server.go owns the listener
// lifecycle, handler.go maps requests to service calls, middleware.go
// guards authenticated routes.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/accountd/internal/logging"
	"github.com/dmitrijs2005/accountd/internal/server/services"
)

type Server struct {
	address   string
	accounts  *services.AccountService
	logger    logging.Logger
	jwtSecret []byte
}

func NewServer(a string, l logging.Logger, as *services.AccountService, secretKey string) (*Server, error) {
	return &Server{
		address:   a,
		logger:    l.With("module", "http_server"),
		accounts:  as,
		jwtSecret: []byte(secretKey),
	}, nil
}

// routes builds the mux. Paths registered through s.authenticated require a
// bearer access token.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/signup", s.handleSignup)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/social-login", s.handleSocialLogin)

	// refresh authenticates with the refresh token itself, not an access token
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)

	mux.Handle("POST /api/logout", s.authenticated(s.handleLogout))
	mux.Handle("POST /api/password", s.authenticated(s.handleChangePassword))
	mux.Handle("PUT /api/profile", s.authenticated(s.handleChangeUserInfo))
	mux.Handle("GET /api/me", s.authenticated(s.handleMyPage))
	mux.Handle("DELETE /api/account", s.authenticated(s.handleDeleteUser))

	return mux
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
