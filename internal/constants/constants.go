package constants

import "time"

// Folder Names
const (
	ReposDirName = "repos"
	DBDirName    = "db"
	GitDirName   = ".git"
)

// File Names
const (
	UserFileName        = "user.json"
	AppConfigFileName   = "appstore.toml"
	AppManifestFileName = "umbrel-app.yml"
)

// Persisted user record keys
const (
	AppRepoKey = "appRepo"
)

// Catalog defaults
const (
	DefaultRepoURL    = "https://github.com/getumbrel/umbrel-apps.git"
	DefaultRemoteName = "origin"
	DefaultGitHost    = "https://github.com/"
	GitSuffix         = ".git"
	CloneDepth        = 1
)

// Sync defaults
const (
	DefaultSyncTimeout = 30 * time.Second
	DefaultServiceUID  = 1000
	DefaultServiceGID  = 1000
)

// Environment overrides
const (
	RootEnvVar        = "APPSTORE_ROOT"
	GitTokenEnvVar    = "APPSTORE_GIT_TOKEN"
	GitUsernameEnvVar = "APPSTORE_GIT_USERNAME"
)
