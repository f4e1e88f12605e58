package huggingface

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/trustscore/pkg/integrations"
)

// Kind selects the hub namespace.
type Kind string

const (
	KindModel   Kind = "models"
	KindDataset Kind = "datasets"
)

// Sibling is one file in a hub repository.
type Sibling struct {
	RFilename string `json:"rfilename"`
	Size      int64  `json:"size,omitempty"`
}

// ModelConfig is the small part of config.json the hub echoes in model info.
type ModelConfig struct {
	ModelType     string   `json:"model_type,omitempty"`
	Architectures []string `json:"architectures,omitempty"`
}

// Info is the metadata document for one model or dataset.
type Info struct {
	ID           string          `json:"id"`
	Author       string          `json:"author,omitempty"`
	SHA          string          `json:"sha,omitempty"`
	LastModified *time.Time      `json:"lastModified,omitempty"`
	Private      bool            `json:"private"`
	Disabled     bool            `json:"disabled"`
	Gated        json.RawMessage `json:"gated,omitempty"`
	Likes        int             `json:"likes"`
	Downloads    int             `json:"downloads"`
	Tags         []string        `json:"tags,omitempty"`
	PipelineTag  string          `json:"pipeline_tag,omitempty"`
	LibraryName  string          `json:"library_name,omitempty"`
	UsedStorage  int64           `json:"usedStorage,omitempty"`
	Siblings     []Sibling       `json:"siblings,omitempty"`
	Config       *ModelConfig    `json:"config,omitempty"`
	CardData     json.RawMessage `json:"cardData,omitempty"`
}

// weightFormats lists serializations of the same weights, preferred first.
var weightFormats = []string{".safetensors", ".bin", ".pt", ".pth", ".h5", ".msgpack", ".ckpt", ".onnx"}

// TotalSize returns the size of one usable copy of the repository: every
// non-weight file plus the weight files of a single format, preferring
// safetensors. It falls back to the reported storage when the file list
// carries no sizes.
func (i *Info) TotalSize() int64 {
	var total int64
	weights := make(map[string]int64)
	for _, s := range i.Siblings {
		if f := weightFormat(s.RFilename); f != "" {
			weights[f] += s.Size
			continue
		}
		total += s.Size
	}
	for _, f := range weightFormats {
		if n, ok := weights[f]; ok {
			total += n
			break
		}
	}
	if total == 0 {
		total = i.UsedStorage
	}
	return total
}

func weightFormat(name string) string {
	name = strings.ToLower(name)
	for _, f := range weightFormats {
		if strings.HasSuffix(name, f) {
			return f
		}
	}
	return ""
}

// HasFile reports whether a file with the given base name exists.
func (i *Info) HasFile(name string) bool {
	return slices.ContainsFunc(i.Siblings, func(s Sibling) bool {
		return s.RFilename == name || strings.HasSuffix(s.RFilename, "/"+name)
	})
}

// Commit is one entry of a repository's commit history.
type Commit struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Date    time.Time `json:"date"`
	Authors []struct {
		User string `json:"user"`
	} `json:"authors"`
}

// Contributors folds a commit history into per-author commit counts,
// ordered by count and then login.
func Contributors(commits []Commit) []integrations.Contributor {
	counts := make(map[string]int)
	for _, c := range commits {
		for _, a := range c.Authors {
			if a.User != "" {
				counts[a.User]++
			}
		}
	}

	out := make([]integrations.Contributor, 0, len(counts))
	for login, n := range counts {
		out = append(out, integrations.Contributor{Login: login, Contributions: n})
	}
	slices.SortFunc(out, func(a, b integrations.Contributor) int {
		if a.Contributions != b.Contributions {
			return b.Contributions - a.Contributions
		}
		return strings.Compare(a.Login, b.Login)
	})
	return out
}
