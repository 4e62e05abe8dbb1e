package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jacobpatterson1549/picture-puzzle/db/user"
	"github.com/jacobpatterson1549/picture-puzzle/server/log"
)

// userCreateHandler creates a user, adding it to the database.
func userCreateHandler(ud UserDao, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.FormValue("username")
		password := r.FormValue("password")
		u, err := user.New(username, password)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := ud.Create(r.Context(), *u); err != nil {
			writeUserError(err, log, w)
			return
		}
	}
}

// userLoginHandler signs a user in, writing the token to the response.
func userLoginHandler(ud UserDao, tokenizer Tokenizer, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := user.User{
			Username: r.FormValue("username"),
			Password: r.FormValue("password"),
		}
		u2, err := ud.Read(r.Context(), u)
		if err != nil {
			writeUserError(err, log, w)
			return
		}
		token, err := tokenizer.Create(u2.Username, u2.Points)
		if err != nil {
			writeInternalError(err, log, w)
			return
		}
		if _, err := w.Write([]byte(token)); err != nil {
			err = fmt.Errorf("writing authorization token: %w", err)
			writeInternalError(err, log, w)
			return
		}
	}
}

// userUpdatePasswordHandler updates the user's password.
// The user is removed from the lobby so the new password must be used to log in again.
func userUpdatePasswordHandler(ud UserDao, lobby Lobby, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, err := contextUsername(r)
		if err != nil {
			writeInternalError(err, log, w)
			return
		}
		u := user.User{
			Username: username,
			Password: r.FormValue("password"),
		}
		newPassword := r.FormValue("new_password")
		if err := ud.UpdatePassword(r.Context(), u, newPassword); err != nil {
			writeUserError(err, log, w)
			return
		}
		removeUser(r, lobby, username, log)
	}
}

// userDeleteHandler deletes the user from the database and the lobby.
func userDeleteHandler(ud UserDao, lobby Lobby, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, err := contextUsername(r)
		if err != nil {
			writeInternalError(err, log, w)
			return
		}
		u := user.User{
			Username: username,
			Password: r.FormValue("password"),
		}
		if err := ud.Delete(r.Context(), u); err != nil {
			writeUserError(err, log, w)
			return
		}
		removeUser(r, lobby, username, log)
	}
}

// removeUser takes the user out of the lobby, logging a failure.
func removeUser(r *http.Request, lobby Lobby, username string, log log.Logger) {
	if err := lobby.RemoveUser(r.Context(), username); err != nil {
		log.Printf("removing %v from lobby: %v", username, err)
	}
}

// writeUserError writes an unauthorized status for login failures and an internal server error otherwise.
func writeUserError(err error, log log.Logger, w http.ResponseWriter) {
	if errors.Is(err, user.ErrIncorrectLogin) {
		log.Printf("login failure: %v", err)
		http.Error(w, user.ErrIncorrectLogin.Error(), http.StatusUnauthorized)
		return
	}
	writeInternalError(err, log, w)
}
