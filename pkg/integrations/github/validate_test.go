package github

import (
	"testing"

	"github.com/matzehuels/trustscore/pkg/errors"
)

func TestValidateRepoRef(t *testing.T) {
	tests := []struct {
		owner, repo string
		wantErr     bool
	}{
		{"openai", "whisper", false},
		{"my-org", "repo.name_1", false},
		{"", "repo", true},
		{"-bad", "repo", true},
		{"owner", "", true},
		{"owner", "..", true},
		{"owner", "a/b", true},
	}
	for _, tt := range tests {
		err := ValidateRepoRef(tt.owner, tt.repo)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateRepoRef(%q, %q) = %v", tt.owner, tt.repo, err)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidURL) {
			t.Errorf("code = %s, want INVALID_URL", errors.GetCode(err))
		}
	}
}

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		in          string
		owner, repo string
		ok          bool
	}{
		{"https://github.com/openai/whisper", "openai", "whisper", true},
		{"https://github.com/openai/whisper.git", "openai", "whisper", true},
		{"http://www.github.com/a/b/tree/main", "a", "b", true},
		{"https://github.com/openai", "", "", false},
		{"https://gitlab.com/a/b", "", "", false},
	}
	for _, tt := range tests {
		owner, repo, ok := ParseRepoURL(tt.in)
		if ok != tt.ok || owner != tt.owner || repo != tt.repo {
			t.Errorf("ParseRepoURL(%q) = (%q, %q, %v)", tt.in, owner, repo, ok)
		}
	}
}
