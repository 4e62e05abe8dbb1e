package server

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jacobpatterson1549/picture-puzzle/server/certificate"
	"github.com/jacobpatterson1549/picture-puzzle/server/log"
)

type contextKey int

const (
	// HeaderContentType is used to set the document type header on http responses.
	HeaderContentType = "Content-Type"
	// HeaderCacheControl is used to tell browsers how long to cache http responses.
	HeaderCacheControl = "Cache-Control"
	// HeaderAcceptEncoding is specified by the browser to tell the server what types of document encoding it can handle.
	HeaderAcceptEncoding = "Accept-Encoding"
	// HeaderContentEncoding is used to tell browsers how the document is encoded.
	HeaderContentEncoding = "Content-Encoding"
	// HeaderAuthorization carries the bearer token of POST requests.
	HeaderAuthorization = "Authorization"
	// accessTokenParam is the query parameter of the token when connecting to the lobby.
	// Browsers cannot set headers on websocket requests.
	accessTokenParam = "access_token"
)

const usernameContextKey contextKey = iota + 1

// handler creates the handler for all endpoints.
func (cfg Config) handler(p Parameters, monitor http.Handler) http.HandlerFunc {
	getHandler := cfg.getHandler(p, monitor)
	postHandler := p.postHandler()
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			getHandler.ServeHTTP(w, r)
		case http.MethodPost:
			postHandler.ServeHTTP(w, r)
		default:
			httpError(w, http.StatusMethodNotAllowed)
		}
	}
}

// getHandler forwards calls to the GET endpoints.
func (cfg Config) getHandler(p Parameters, monitor http.Handler) http.Handler {
	getMux := http.NewServeMux()
	getMux.Handle("/{$}", gzipHandler(rulesHandler(cfg), "no-store"))
	getMux.Handle("/lobby", userLobbyConnectHandler(p.Lobby, p.Tokenizer, p.Log))
	getMux.Handle("/monitor", monitor)
	if cfg.Challenge.Enabled() {
		getMux.Handle(certificate.PathPrefix, cfg.Challenge)
	}
	return getMux
}

// postHandler checks authentication and calls handlers for POST endpoints.
func (p Parameters) postHandler() http.Handler {
	postMux := http.NewServeMux()
	postMux.Handle("/user_create", userCreateHandler(p.UserDao, p.Log))
	postMux.Handle("/user_login", userLoginHandler(p.UserDao, p.Tokenizer, p.Log))
	postMux.Handle("/user_update_password", userUpdatePasswordHandler(p.UserDao, p.Lobby, p.Log))
	postMux.Handle("/user_delete", userDeleteHandler(p.UserDao, p.Lobby, p.Log))
	postMux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		// NOOP
	})
	return authHandler(postMux, p.Tokenizer, p.Log)
}

// rulesHandler writes how to play as plain text.
func rulesHandler(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(HeaderContentType, "text/plain; charset=utf-8")
		fmt.Fprintln(w, "picture-puzzle: a sliding tile puzzle")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Rules:")
		for _, rule := range cfg.PuzzleConfig.Rules() {
			fmt.Fprintln(w, "*", rule)
		}
	}
}

// userLobbyConnectHandler adds the user of the access token to the lobby.
func userLobbyConnectHandler(lobby Lobby, tokenizer Tokenizer, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.URL.Query().Get(accessTokenParam)
		username, err := tokenizer.ReadUsername(tokenString)
		if err != nil {
			log.Printf("reading lobby access token: %v", err)
			httpError(w, http.StatusForbidden)
			return
		}
		if err := lobby.AddUser(username, w, r); err != nil {
			err = fmt.Errorf("websocket error: %w", err)
			writeInternalError(err, log, w)
			return
		}
	}
}

// authHandler checks the token username of the request before running the child handler.
// The token username must match the username form value.
func authHandler(h http.Handler, tokenizer Tokenizer, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user_create", "/user_login":
			// [unauthenticated]
		default:
			username, err := tokenUsername(r, tokenizer)
			if err != nil {
				log.Printf("checking authorization: %v", err)
				httpError(w, http.StatusForbidden)
				return
			}
			ctx := context.WithValue(r.Context(), usernameContextKey, username)
			r = r.WithContext(ctx)
		}
		h.ServeHTTP(w, r)
	}
}

// tokenUsername reads the username from the authorization header, ensuring it is the same as the username form value.
func tokenUsername(r *http.Request, tokenizer Tokenizer) (string, error) {
	authorization := r.Header.Get(HeaderAuthorization)
	tokenString, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok {
		return "", fmt.Errorf("invalid authorization header: %q", authorization)
	}
	username, err := tokenizer.ReadUsername(tokenString)
	if err != nil {
		return "", fmt.Errorf("reading token: %w", err)
	}
	if formUsername := r.FormValue("username"); username != formUsername {
		return "", fmt.Errorf("form username %q not same as token username %q", formUsername, username)
	}
	return username, nil
}

// contextUsername gets the username that the authHandler stored in the request context.
func contextUsername(r *http.Request) (string, error) {
	username, ok := r.Context().Value(usernameContextKey).(string)
	if !ok {
		return "", errors.New("no username in request context")
	}
	return username, nil
}

// gzipHandler adds a cache-control header and compresses the response when the request allows it.
func gzipHandler(h http.Handler, cacheControl string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get(HeaderAcceptEncoding), "gzip") {
			w2 := gzip.NewWriter(w)
			defer w2.Close()
			w = wrappedResponseWriter{
				Writer:         w2,
				ResponseWriter: w,
			}
			w.Header().Add(HeaderContentEncoding, "gzip")
		}
		w.Header().Set(HeaderCacheControl, cacheControl)
		h.ServeHTTP(w, r)
	}
}

// writeInternalError logs and writes the error as an internal server error (500).
func writeInternalError(err error, log log.Logger, w http.ResponseWriter) {
	log.Printf("server error: %v", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// httpError writes the error status code.
func httpError(w http.ResponseWriter, statusCode int) {
	http.Error(w, http.StatusText(statusCode), statusCode)
}

// wrappedResponseWriter wraps response writing with another writer.
type wrappedResponseWriter struct {
	io.Writer
	http.ResponseWriter
}

// Write delegates the write to the wrapped writer.
func (wrw wrappedResponseWriter) Write(p []byte) (n int, err error) {
	return wrw.Writer.Write(p)
}
