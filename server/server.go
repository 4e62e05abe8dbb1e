// Package server runs the http server which lets users open websockets to solve puzzles.
package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jacobpatterson1549/picture-puzzle/db/user"
	"github.com/jacobpatterson1549/picture-puzzle/puzzle"
	"github.com/jacobpatterson1549/picture-puzzle/server/certificate"
	"github.com/jacobpatterson1549/picture-puzzle/server/log"
)

type (
	// Server runs the site.
	Server struct {
		wg         sync.WaitGroup
		log        log.Logger
		lobby      Lobby
		httpServer *http.Server
		// listen opens the network listener the server accepts connections on.
		listen func(network, address string) (net.Listener, error)
		Config
	}

	// Config contains fields which describe the server.
	Config struct {
		// Port is the TCP port for server http requests.
		Port int
		// StopDur is the maximum duration the server has to shut down.
		StopDur time.Duration
		// TLSCertFile is the public HTTPS certificate file.  HTTPS is served only if it and the key file are set.
		TLSCertFile string
		// TLSKeyFile is the private HTTPS key file.
		TLSKeyFile string
		// PuzzleConfig describes the puzzles the rules are written for.
		PuzzleConfig puzzle.Config
		// Challenge is served to the certificate authority when requesting a TLS certificate.
		Challenge certificate.Challenge
	}

	// Parameters contains the interfaces needed to create a new server.
	Parameters struct {
		Log       log.Logger
		Tokenizer Tokenizer
		UserDao   UserDao
		Lobby     Lobby
	}

	// Tokenizer creates and reads tokens from http traffic.
	Tokenizer interface {
		// Create makes a token for the user.
		Create(username string, points int) (string, error)
		// ReadUsername gets the username from the token if it is valid.
		ReadUsername(tokenString string) (string, error)
	}

	// UserDao manages user accounts.
	UserDao interface {
		// Create adds the user.
		Create(ctx context.Context, u user.User) error
		// Read checks the user's password and returns the user with its points.
		Read(ctx context.Context, u user.User) (*user.User, error)
		// UpdatePassword replaces the password of the user after checking the current one.
		UpdatePassword(ctx context.Context, u user.User, newP string) error
		// Delete removes the user after checking its password.
		Delete(ctx context.Context, u user.User) error
	}

	// Lobby is the place users connect to solve puzzles.
	Lobby interface {
		// Run starts the lobby, adding its goroutines to the wait group.
		Run(ctx context.Context, wg *sync.WaitGroup) error
		// AddUser opens a websocket for the user from the request.
		AddUser(username string, w http.ResponseWriter, r *http.Request) error
		// RemoveUser closes the user's websocket and deletes the user's puzzles.
		RemoveUser(ctx context.Context, username string) error
	}
)

// NewServer creates a Server from the Config.
func (cfg Config) NewServer(p Parameters) (*Server, error) {
	if err := cfg.validate(p); err != nil {
		return nil, fmt.Errorf("creating server: validation: %w", err)
	}
	monitor := runtimeMonitor{
		hasTLS: cfg.hasTLS(),
	}
	s := Server{
		log:   p.Log,
		lobby: p.Lobby,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      cfg.handler(p, monitor),
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		listen: net.Listen,
		Config: cfg,
	}
	return &s, nil
}

// validate ensures the configuration and parameters have no errors.
func (cfg Config) validate(p Parameters) error {
	if err := p.validate(); err != nil {
		return err
	}
	switch {
	case cfg.Port <= 0:
		return fmt.Errorf("positive port required")
	case cfg.StopDur <= 0:
		return fmt.Errorf("stop timeout duration required")
	case len(cfg.TLSCertFile) == 0 != (len(cfg.TLSKeyFile) == 0):
		return fmt.Errorf("tls cert file and key file must both be set or both be empty")
	}
	if err := cfg.Challenge.Validate(); err != nil {
		return err
	}
	return nil
}

// validate ensures that all of the parameters are present.
func (p Parameters) validate() error {
	switch {
	case p.Log == nil:
		return fmt.Errorf("log required")
	case p.Tokenizer == nil:
		return fmt.Errorf("tokenizer required")
	case p.UserDao == nil:
		return fmt.Errorf("user dao required")
	case p.Lobby == nil:
		return fmt.Errorf("lobby required")
	}
	return nil
}

// hasTLS determines if the server should serve HTTPS.
func (cfg Config) hasTLS() bool {
	return len(cfg.TLSCertFile) != 0
}

// Run starts the lobby and the http server asynchronously until the server is stopped.
// The error the http server stops with is sent on the returned channel.
func (s *Server) Run(ctx context.Context) <-chan error {
	errC := make(chan error, 1)
	ctx, cancelFunc := context.WithCancel(ctx)
	if err := s.lobby.Run(ctx, &s.wg); err != nil {
		cancelFunc()
		errC <- fmt.Errorf("running lobby: %w", err)
		return errC
	}
	s.httpServer.RegisterOnShutdown(cancelFunc)
	ln, err := s.listen("tcp", s.httpServer.Addr)
	if err != nil {
		cancelFunc()
		errC <- fmt.Errorf("listening: %w", err)
		return errC
	}
	go func() {
		errC <- s.serve(ln)
	}()
	return errC
}

// serve accepts connections from the listener until the server shuts down.
func (s *Server) serve(ln net.Listener) error {
	if !s.hasTLS() {
		s.log.Printf("starting http server at http://127.0.0.1%v", s.httpServer.Addr)
		return s.httpServer.Serve(ln)
	}
	if _, err := tls.LoadX509KeyPair(s.TLSCertFile, s.TLSKeyFile); err != nil {
		ln.Close()
		return fmt.Errorf("loading tls certificate: %w", err)
	}
	s.log.Printf("starting https server at https://127.0.0.1%v", s.httpServer.Addr)
	return s.httpServer.ServeTLS(ln, s.TLSCertFile, s.TLSKeyFile)
}

// Stop asks the server to shut down and waits for the lobby to stop.
// An error is returned if the server does not stop before the stop duration passes.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancelFunc := context.WithTimeout(ctx, s.StopDur)
	defer cancelFunc()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	s.wg.Wait()
	return nil
}
