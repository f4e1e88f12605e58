package artifact

import (
	"net/url"
	"strings"

	"github.com/matzehuels/trustscore/pkg/errors"
)

// Category is the kind of artifact a URL points at.
type Category string

const (
	CategoryModel   Category = "MODEL"
	CategoryDataset Category = "DATASET"
	CategoryCode    Category = "CODE"
	CategoryUnknown Category = "UNKNOWN"
)

// Valid reports whether c is one of the three classifiable categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryModel, CategoryDataset, CategoryCode:
		return true
	}
	return false
}

// Hosts recognized by Classify.
const (
	HostGitHub      = "github.com"
	HostGitLab      = "gitlab.com"
	HostBitbucket   = "bitbucket.org"
	HostHuggingFace = "huggingface.co"
)

var codeHosts = map[string]bool{
	HostGitHub:    true,
	HostGitLab:    true,
	HostBitbucket: true,
}

// Ref identifies one artifact. It is created once per input line and never
// modified afterwards.
type Ref struct {
	URL      string   `json:"url"`
	Category Category `json:"category"`
	Name     string   `json:"name"`
	Host     string   `json:"host,omitempty"`
	// ID is the host-specific identifier: "owner/repo" for code hosts,
	// "org/name" (or "name") for hub artifacts.
	ID string `json:"id,omitempty"`
}

// Owner returns the first segment of ID ("owner" in "owner/repo").
func (r Ref) Owner() string {
	owner, _, _ := strings.Cut(r.ID, "/")
	return owner
}

// Repo returns the second segment of ID, or "" when ID has a single segment.
func (r Ref) Repo() string {
	_, repo, _ := strings.Cut(r.ID, "/")
	return repo
}

// Unknown returns a Ref for a URL that could not be classified.
func Unknown(raw string) Ref {
	return Ref{URL: raw, Category: CategoryUnknown, Name: raw}
}

// Classify derives the category, id and display name of raw.
// A malformed URL returns an INVALID_URL error together with an UNKNOWN Ref
// so that callers can still report on it.
func Classify(raw string) (Ref, error) {
	raw = strings.TrimSpace(raw)
	if err := errors.ValidateURL(raw); err != nil {
		return Unknown(raw), err
	}
	u, _ := url.Parse(raw)

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	segs := pathSegments(u.Path)
	ref := Ref{URL: raw, Host: host}

	switch {
	case codeHosts[host]:
		if len(segs) < 2 {
			return Unknown(raw), errors.New(errors.ErrCodeInvalidURL, "code URL needs owner and repository: %s", raw)
		}
		ref.Category = CategoryCode
		ref.ID = segs[0] + "/" + strings.TrimSuffix(segs[1], ".git")
		ref.Name = strings.TrimSuffix(segs[1], ".git")
	case host == HostHuggingFace && len(segs) > 0 && segs[0] == "datasets":
		id := hubID(segs[1:])
		if id == "" {
			return Unknown(raw), errors.New(errors.ErrCodeInvalidURL, "dataset URL has no id: %s", raw)
		}
		ref.Category = CategoryDataset
		ref.ID = id
		ref.Name = lastSegment(id)
	case host == HostHuggingFace:
		id := hubID(segs)
		if id == "" {
			return Unknown(raw), errors.New(errors.ErrCodeInvalidURL, "model URL has no id: %s", raw)
		}
		ref.Category = CategoryModel
		ref.ID = id
		ref.Name = lastSegment(id)
	default:
		ref.Category = CategoryModel
		ref.ID = strings.Join(segs, "/")
		ref.Name = raw
		if len(segs) > 0 {
			ref.Name = segs[len(segs)-1]
		}
	}
	return ref, nil
}

// hubID extracts "org/name" or "name" from hub path segments, dropping
// trailing views such as /tree/main or /blob/main/README.md.
func hubID(segs []string) string {
	var id []string
	for _, s := range segs {
		if s == "tree" || s == "blob" || s == "resolve" || s == "raw" {
			break
		}
		id = append(id, s)
		if len(id) == 2 {
			break
		}
	}
	return strings.Join(id, "/")
}

func pathSegments(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

func lastSegment(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}
