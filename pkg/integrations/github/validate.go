package github

import (
	"regexp"
	"strings"

	"github.com/matzehuels/trustscore/pkg/errors"
)

var (
	// GitHub usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// GitHub repo names: 1-100 alphanumeric, hyphen, underscore, or dot
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// ValidateRepoRef checks owner and repo before they are spliced into API
// paths. Failures carry the INVALID_URL code.
func ValidateRepoRef(owner, repo string) error {
	switch {
	case owner == "":
		return errors.New(errors.ErrCodeInvalidURL, "owner is required")
	case !validOwner.MatchString(owner):
		return errors.New(errors.ErrCodeInvalidURL, "invalid owner %q", owner)
	case repo == "":
		return errors.New(errors.ErrCodeInvalidURL, "repo is required")
	case !validRepo.MatchString(repo) || repo == "." || repo == "..":
		return errors.New(errors.ErrCodeInvalidURL, "invalid repo %q", repo)
	}
	return nil
}

// ParseRepoURL extracts owner and repo from a github.com URL such as one
// found in a model card. ok is false for anything else.
func ParseRepoURL(raw string) (owner, repo string, ok bool) {
	m := repoURLPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", "", false
	}
	owner, repo = m[1], strings.TrimSuffix(m[2], ".git")
	if ValidateRepoRef(owner, repo) != nil {
		return "", "", false
	}
	return owner, repo, true
}

var repoURLPattern = regexp.MustCompile(`^https?://(?:www\.)?github\.com/([^/\s]+)/([^/?#\s]+)`)
