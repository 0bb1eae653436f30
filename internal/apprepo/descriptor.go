package apprepo

import (
	"fmt"
	"regexp"
	"strings"

	"appstore/internal/constants"
)

// Descriptor is a parsed catalog reference such as "owner/name#branch".
type Descriptor struct {
	URL    string
	Branch string
}

var (
	schemeRegex  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*://`)
	sshUserRegex = regexp.MustCompile(`^[A-Za-z0-9._\-]+@`)
)

// ParseDescriptor normalizes a user supplied catalog reference.
//
//	owner/app                  -> https://github.com/owner/app.git
//	owner/app#staging          -> https://github.com/owner/app.git, branch staging
//	git@host:owner/app.git#dev -> git@host:owner/app.git, branch dev
//
// Everything after the first '#' is the branch. No network access is made.
func ParseDescriptor(descriptor string) (Descriptor, error) {
	descriptor = strings.TrimSpace(descriptor)
	if descriptor == "" {
		return Descriptor{}, fmt.Errorf("%w: repository descriptor is empty", ErrInvalidArgument)
	}

	ref := descriptor
	if !schemeRegex.MatchString(ref) && !sshUserRegex.MatchString(ref) {
		ref = constants.DefaultGitHost + ref
	}

	ref, branch, _ := strings.Cut(ref, "#")
	if ref == constants.DefaultGitHost || strings.HasSuffix(ref, "://") {
		return Descriptor{}, fmt.Errorf("%w: repository descriptor %q names no repository", ErrInvalidArgument, descriptor)
	}

	if !strings.HasSuffix(ref, constants.GitSuffix) {
		ref += constants.GitSuffix
	}

	return Descriptor{URL: ref, Branch: strings.TrimSpace(branch)}, nil
}
