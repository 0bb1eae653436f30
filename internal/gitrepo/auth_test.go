package gitrepo

import (
	"testing"

	"appstore/internal/constants"

	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

func TestAuthForURL(t *testing.T) {
	t.Setenv(constants.GitTokenEnvVar, "")
	t.Setenv(envGHToken, "")
	t.Setenv(constants.GitUsernameEnvVar, "")

	t.Run("no token", func(t *testing.T) {
		auth, err := authForURL("https://github.com/getumbrel/umbrel-apps.git")
		if err != nil || auth != nil {
			t.Errorf("Expected no auth, got %v, %v", auth, err)
		}
	})

	t.Run("github token", func(t *testing.T) {
		t.Setenv(envGHToken, "gh-secret")
		auth, err := authForURL("https://github.com/getumbrel/umbrel-apps.git")
		if err != nil {
			t.Fatal(err)
		}
		basic, ok := auth.(*http.BasicAuth)
		if !ok {
			t.Fatalf("Expected basic auth, got %T", auth)
		}
		if basic.Username != defaultUser || basic.Password != "gh-secret" {
			t.Errorf("Unexpected credentials %s:%s", basic.Username, basic.Password)
		}
	})

	t.Run("app token wins", func(t *testing.T) {
		t.Setenv(envGHToken, "gh-secret")
		t.Setenv(constants.GitTokenEnvVar, "app-secret")
		t.Setenv(constants.GitUsernameEnvVar, "bot")
		auth, err := authForURL("https://example.com/apps.git")
		if err != nil {
			t.Fatal(err)
		}
		basic := auth.(*http.BasicAuth)
		if basic.Username != "bot" || basic.Password != "app-secret" {
			t.Errorf("Unexpected credentials %s:%s", basic.Username, basic.Password)
		}
	})

	t.Run("ssh ignores token", func(t *testing.T) {
		t.Setenv(envGHToken, "gh-secret")
		auth, err := authForURL("git@github.com:getumbrel/umbrel-apps.git")
		if err != nil || auth != nil {
			t.Errorf("Expected no auth for ssh, got %v, %v", auth, err)
		}
	})
}
