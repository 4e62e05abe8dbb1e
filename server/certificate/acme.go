// Package certificate serves the ACME HTTP-01 challenge used to obtain the TLS certificate of the puzzle server.
package certificate

import (
	"fmt"
	"net/http"
	"strings"
)

// PathPrefix is the path that challenge requests are made to.  The token follows it.
const PathPrefix = "/.well-known/acme-challenge/"

// Challenge token and key used to get a TLS certificate using the ACME HTTP-01 challenge.
type Challenge struct {
	Token string
	Key   string
}

// Enabled reports whether a challenge token and key are set.
func (c Challenge) Enabled() bool {
	return len(c.Token) != 0 && len(c.Key) != 0
}

// Validate ensures the token and key are both set or both unset.
func (c Challenge) Validate() error {
	if (len(c.Token) == 0) != (len(c.Key) == 0) {
		return fmt.Errorf("acme challenge token and key must both be set or both be empty")
	}
	return nil
}

// ServeHTTP writes the key authorization of the challenge: the token, a period, and the key.
// Requests for other tokens are not found.
func (c Challenge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token, ok := strings.CutPrefix(r.URL.Path, PathPrefix)
	if !ok || !c.Enabled() || token != c.Token {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(c.Token + "." + c.Key))
}
