package publish

import (
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// tokenUser is accepted as the username for token auth by the common hosts.
const tokenUser = "x-access-token"

// authFor returns HTTP basic auth carrying token for http(s) remotes, nil otherwise.
func authFor(remoteURL, token string) transport.AuthMethod {
	if token == "" {
		return nil
	}
	if !strings.HasPrefix(remoteURL, "https://") && !strings.HasPrefix(remoteURL, "http://") {
		return nil
	}
	return &http.BasicAuth{Username: tokenUser, Password: token}
}
