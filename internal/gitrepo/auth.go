package gitrepo

import (
	"fmt"
	"os"
	"strings"

	"appstore/internal/constants"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

const (
	envGHToken  = "GITHUB_TOKEN"
	defaultUser = "x-access-token"
)

// authForURL returns basic auth for https remotes when a token is configured.
// Other transports use their defaults (ssh agent, none for file).
func authForURL(rawURL string) (transport.AuthMethod, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, nil
	}

	ep, err := transport.NewEndpoint(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse remote URL: %w", err)
	}

	switch ep.Protocol {
	case "http", "https":
		token := firstNonEmpty(os.Getenv(constants.GitTokenEnvVar), os.Getenv(envGHToken))
		if token == "" {
			return nil, nil
		}
		user := strings.TrimSpace(os.Getenv(constants.GitUsernameEnvVar))
		if user == "" {
			user = defaultUser
		}
		return &http.BasicAuth{
			Username: user,
			Password: token,
		}, nil
	default:
		return nil, nil
	}
}

func authForRepo(repo *git.Repository, remoteName string) (transport.AuthMethod, error) {
	remote, err := repo.Remote(remoteName)
	if err != nil {
		return nil, fmt.Errorf("remote %s: %w", remoteName, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return nil, nil
	}
	return authForURL(urls[0])
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
