package github

import "time"

// Repo is the subset of repository fields trustscore reads.
type Repo struct {
	FullName      string     `json:"full_name"`
	Description   string     `json:"description"`
	DefaultBranch string     `json:"default_branch"`
	Language      string     `json:"language"`
	Stars         int        `json:"stars"`
	Forks         int        `json:"forks"`
	OpenIssues    int        `json:"open_issues"`
	SizeKB        int        `json:"size_kb"`
	PushedAt      *time.Time `json:"pushed_at,omitempty"`
	License       string     `json:"license,omitempty"`
	Topics        []string   `json:"topics,omitempty"`
	Archived      bool       `json:"archived"`
}

// License is a repository's detected license and its text.
type License struct {
	SPDXID string `json:"spdx_id"`
	Name   string `json:"name"`
	Text   string `json:"text"`
}

// TreeEntry represents a file or directory in the repository tree.
type TreeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"` // "blob" or "tree"
	Size int64  `json:"size,omitempty"`
}

// PullStats counts merged pull requests and those merged after an approving review.
type PullStats struct {
	Merged   int `json:"merged"`
	Reviewed int `json:"reviewed"`
}

type apiRepoResponse struct {
	FullName      string     `json:"full_name"`
	Description   string     `json:"description"`
	DefaultBranch string     `json:"default_branch"`
	Language      string     `json:"language"`
	Stars         int        `json:"stargazers_count"`
	Forks         int        `json:"forks_count"`
	OpenIssues    int        `json:"open_issues_count"`
	Size          int        `json:"size"`
	PushedAt      *time.Time `json:"pushed_at"`
	License       *struct {
		SPDXID string `json:"spdx_id"`
	} `json:"license"`
	Topics   []string `json:"topics"`
	Archived bool     `json:"archived"`
}

type apiContentResponse struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Type     string `json:"type"`
	Size     int    `json:"size"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type apiLicenseResponse struct {
	apiContentResponse
	License struct {
		SPDXID string `json:"spdx_id"`
		Name   string `json:"name"`
	} `json:"license"`
}

type apiContributor struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
	Type          string `json:"type"`
}

type apiTreeResponse struct {
	Tree []struct {
		Path string `json:"path"`
		Type string `json:"type"`
		Size int64  `json:"size"`
	} `json:"tree"`
	Truncated bool `json:"truncated"`
}

type apiSearchResponse struct {
	TotalCount int `json:"total_count"`
}
