package source

import (
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/trustscore/pkg/artifact"
	"github.com/matzehuels/trustscore/pkg/deps"
	tserrors "github.com/matzehuels/trustscore/pkg/errors"
	"github.com/matzehuels/trustscore/pkg/integrations"
)

// Field names a group of facts fetched by one request.
type Field string

const (
	FieldRepo         Field = "repo"
	FieldReadme       Field = "readme"
	FieldLicense      Field = "license"
	FieldContributors Field = "contributors"
	FieldFiles        Field = "files"
	FieldConfig       Field = "config"
	FieldManifests    Field = "manifests"
	FieldReviews      Field = "reviews"
	FieldLinkedCode   Field = "linked_code"
	FieldAux          Field = "aux"
)

// FieldStatus describes why a field is degraded. Fields fetched normally
// have no status.
type FieldStatus string

const (
	StatusMissing     FieldStatus = "missing"
	StatusError       FieldStatus = "error"
	StatusRateLimited FieldStatus = "rate_limited"
	StatusInvalid     FieldStatus = "invalid"
	StatusStale       FieldStatus = "stale"
)

// Code returns the error code reported when the primary resource carries
// status s.
func (s FieldStatus) Code() tserrors.Code {
	switch s {
	case StatusMissing:
		return tserrors.ErrCodeNotFound
	case StatusRateLimited:
		return tserrors.ErrCodeRateLimited
	case StatusInvalid:
		return tserrors.ErrCodeInvalidURL
	}
	return tserrors.ErrCodeFetch
}

// File is one file of the artifact's repository.
type File struct {
	Path string `json:"path"`
	Size int64  `json:"size,omitempty"`
}

// EvalResult is one reported benchmark figure from a model card.
type EvalResult struct {
	Task    string  `json:"task,omitempty"`
	Dataset string  `json:"dataset,omitempty"`
	Metric  string  `json:"metric"`
	Value   float64 `json:"value"`
}

// Card holds the structured front matter of a model or dataset card.
type Card struct {
	License     string       `json:"license,omitempty"`
	Datasets    []string     `json:"datasets,omitempty"`
	BaseModels  []string     `json:"base_models,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Languages   []string     `json:"languages,omitempty"`
	Metrics     []string     `json:"metrics,omitempty"`
	PipelineTag string       `json:"pipeline_tag,omitempty"`
	LibraryName string       `json:"library_name,omitempty"`
	EvalResults []EvalResult `json:"eval_results,omitempty"`
}

// Metadata is the read-only bag of facts about one artifact.
type Metadata struct {
	Ref artifact.Ref `json:"ref"`

	Readme      string `json:"readme,omitempty"`
	LicenseID   string `json:"license_id,omitempty"`
	LicenseText string `json:"license_text,omitempty"`
	Card        Card   `json:"card"`

	Description  string     `json:"description,omitempty"`
	Stars        int        `json:"stars"`
	Forks        int        `json:"forks"`
	Likes        int        `json:"likes"`
	Downloads    int        `json:"downloads"`
	Archived     bool       `json:"archived"`
	LastModified *time.Time `json:"last_modified,omitempty"`

	Contributors []integrations.Contributor `json:"contributors,omitempty"`
	MergedPRs    int                        `json:"merged_prs"`
	ReviewedPRs  int                        `json:"reviewed_prs"`

	Files              []File   `json:"files,omitempty"`
	SizeBytes          int64    `json:"size_bytes"`
	HasConfig          bool     `json:"has_config"`
	HasTokenizerConfig bool     `json:"has_tokenizer_config"`
	ModelType          string   `json:"model_type,omitempty"`
	Architectures      []string `json:"architectures,omitempty"`

	DatasetLinks []string         `json:"dataset_links,omitempty"`
	CodeLinks    []string         `json:"code_links,omitempty"`
	Manifests    []*deps.Manifest `json:"manifests,omitempty"`
	Lineage      []deps.Edge      `json:"lineage,omitempty"`

	// AuxScore is the auxiliary summary score; nil when it was not computed.
	AuxScore *float64 `json:"aux_score,omitempty"`

	Status map[Field]FieldStatus `json:"status,omitempty"`
}

// New returns an empty Metadata for ref.
func New(ref artifact.Ref) *Metadata {
	return &Metadata{Ref: ref, Status: make(map[Field]FieldStatus)}
}

// Mark records a degraded field. A stale mark never hides an earlier
// missing or error mark.
func (m *Metadata) Mark(f Field, s FieldStatus) {
	if m.Status == nil {
		m.Status = make(map[Field]FieldStatus)
	}
	if prev, ok := m.Status[f]; ok && s == StatusStale && prev != StatusStale {
		return
	}
	m.Status[f] = s
}

// StatusOf returns the field's status and whether it is degraded.
func (m *Metadata) StatusOf(f Field) (FieldStatus, bool) {
	s, ok := m.Status[f]
	return s, ok
}

// Available reports whether a field was fetched, possibly from a stale copy.
func (m *Metadata) Available(f Field) bool {
	s, ok := m.Status[f]
	return !ok || s == StatusStale
}

// Reachable reports whether the primary resource (repository or hub info)
// could be read. An unreachable artifact is reported as failed.
func (m *Metadata) Reachable() bool {
	return m.Available(FieldRepo)
}

// Degraded returns the degraded fields in name order.
func (m *Metadata) Degraded() []Field {
	out := make([]Field, 0, len(m.Status))
	for f := range m.Status {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// HasFile reports whether the repository contains a file with the given
// base name at any depth.
func (m *Metadata) HasFile(name string) bool {
	return slices.ContainsFunc(m.Files, func(f File) bool {
		return f.Path == name || strings.HasSuffix(f.Path, "/"+name)
	})
}

// SizeKnown reports whether SizeBytes holds a measured size.
func (m *Metadata) SizeKnown() bool {
	return m.SizeBytes > 0 && m.Available(FieldFiles)
}
