package source

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trustscore/pkg/artifact"
	"github.com/matzehuels/trustscore/pkg/deps"
	"github.com/matzehuels/trustscore/pkg/integrations/github"
	"github.com/matzehuels/trustscore/pkg/integrations/huggingface"
)

// HubHandler fetches models and datasets from the hub.
type HubHandler struct {
	client *huggingface.Client
	linked *GitHubHandler
	logger *log.Logger
}

// NewHubHandler creates a handler backed by client. When linked is not nil,
// the first GitHub repository referenced by a card is read for contributors,
// review counts and manifests.
func NewHubHandler(client *huggingface.Client, linked *GitHubHandler, logger *log.Logger) *HubHandler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &HubHandler{client: client, linked: linked, logger: logger}
}

func (h *HubHandler) Name() string { return "huggingface" }

func (h *HubHandler) Supports(ref artifact.Ref) bool {
	return ref.Host == artifact.HostHuggingFace &&
		(ref.Category == artifact.CategoryModel || ref.Category == artifact.CategoryDataset)
}

// Fetch reads hub info, the card, config.json, commit authors and any
// linked code repository.
func (h *HubHandler) Fetch(ctx context.Context, ref artifact.Ref) *Metadata {
	m := New(ref)
	kind := huggingface.KindModel
	if ref.Category == artifact.CategoryDataset {
		kind = huggingface.KindDataset
	}

	info, stale, err := h.client.FetchInfo(ctx, kind, ref.ID)
	if !h.record(m, FieldRepo, stale, err) {
		return m
	}
	m.Likes = info.Likes
	m.Downloads = info.Downloads
	m.LastModified = info.LastModified
	m.Card.Tags = info.Tags
	m.Card.PipelineTag = info.PipelineTag
	m.Card.LibraryName = info.LibraryName
	for _, s := range info.Siblings {
		m.Files = append(m.Files, File{Path: s.RFilename, Size: s.Size})
	}
	m.SizeBytes = info.TotalSize()
	if m.SizeBytes == 0 {
		m.Mark(FieldFiles, StatusMissing)
	}
	m.HasConfig = info.HasFile("config.json")
	m.HasTokenizerConfig = info.HasFile("tokenizer_config.json") || info.HasFile("tokenizer.json")
	if info.Config != nil {
		m.ModelType = info.Config.ModelType
		m.Architectures = info.Config.Architectures
	}

	h.fetchCard(ctx, m, kind)
	if kind == huggingface.KindModel {
		h.fetchConfig(ctx, m)
	}

	commits, stale, err := h.client.FetchCommits(ctx, kind, ref.ID)
	if h.record(m, FieldContributors, stale, err) {
		m.Contributors = huggingface.Contributors(commits)
	}

	h.buildLineage(m)
	h.fetchLinkedCode(ctx, m)
	if len(m.Manifests) == 0 {
		m.Mark(FieldManifests, StatusMissing)
	}
	return m
}

// fetchCard reads README.md, splits off the front matter and derives the
// license and related links.
func (h *HubHandler) fetchCard(ctx context.Context, m *Metadata, kind huggingface.Kind) {
	readme, stale, err := h.client.FetchReadme(ctx, kind, m.Ref.ID)
	if !h.record(m, FieldReadme, stale, err) {
		m.LicenseID = licenseFromTags(m.Card.Tags)
		if m.LicenseID == "" {
			m.Mark(FieldLicense, StatusMissing)
		}
		return
	}

	front, body := SplitFrontMatter(NormalizeText(readme))
	m.Readme = body
	card, err := ParseCard(front)
	if err != nil {
		h.logger.Debug("card front matter unreadable", "url", m.Ref.URL, "err", err)
	}
	card.Tags = appendAll(m.Card.Tags, card.Tags)
	card.PipelineTag = firstNonEmpty(card.PipelineTag, m.Card.PipelineTag)
	card.LibraryName = firstNonEmpty(card.LibraryName, m.Card.LibraryName)
	m.Card = card

	m.LicenseID = firstNonEmpty(card.License, licenseFromTags(card.Tags))
	m.LicenseText = licenseSection(body)
	if m.LicenseID == "" && m.LicenseText == "" {
		m.Mark(FieldLicense, StatusMissing)
	}

	links := DiscoverLinks(body, h.hubBase())
	m.DatasetLinks = links.Datasets
	m.CodeLinks = links.Code
	for _, ds := range card.Datasets {
		m.DatasetLinks = appendUnique(m.DatasetLinks, h.hubBase()+"/datasets/"+ds)
	}
}

// fetchConfig reads config.json when the file list has one.
func (h *HubHandler) fetchConfig(ctx context.Context, m *Metadata) {
	if !m.HasConfig {
		m.Mark(FieldConfig, StatusMissing)
		return
	}
	raw, stale, err := h.client.FetchFile(ctx, huggingface.KindModel, m.Ref.ID, "config.json")
	if !h.record(m, FieldConfig, stale, err) {
		return
	}
	var cfg huggingface.ModelConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		m.Mark(FieldConfig, StatusError)
		return
	}
	m.ModelType = firstNonEmpty(cfg.ModelType, m.ModelType)
	if len(cfg.Architectures) > 0 {
		m.Architectures = cfg.Architectures
	}
}

// buildLineage records derived-from edges for base models and datasets.
func (h *HubHandler) buildLineage(m *Metadata) {
	for _, base := range m.Card.BaseModels {
		m.Lineage = append(m.Lineage, deps.Edge{From: m.Ref.ID, To: base})
	}
	for _, ds := range m.Card.Datasets {
		m.Lineage = append(m.Lineage, deps.Edge{From: m.Ref.ID, To: "datasets/" + ds})
	}
}

// fetchLinkedCode enriches m from the first linked GitHub repository.
func (h *HubHandler) fetchLinkedCode(ctx context.Context, m *Metadata) {
	if h.linked == nil {
		return
	}
	for _, link := range m.CodeLinks {
		owner, repo, ok := github.ParseRepoURL(link)
		if !ok {
			continue
		}
		h.linked.fetchCollaboration(ctx, m, owner, repo, FieldLinkedCode)
		tree, stale, err := h.linked.client.FetchTree(ctx, owner, repo, "")
		if !h.record(m, FieldLinkedCode, stale, err) {
			return
		}
		m.Manifests = h.linked.fetchManifests(ctx, m, owner, repo, tree)
		return
	}
	m.Mark(FieldLinkedCode, StatusMissing)
}

func (h *HubHandler) hubBase() string {
	return strings.TrimSuffix(h.client.RepoURL(huggingface.KindModel, ""), "/")
}

func (h *HubHandler) record(m *Metadata, f Field, stale bool, err error) bool {
	return record(h.logger, m, f, stale, err)
}

// licenseFromTags reads the "license:<id>" tag the hub attaches.
func licenseFromTags(tags []string) string {
	for _, t := range tags {
		if id, ok := strings.CutPrefix(t, "license:"); ok {
			return id
		}
	}
	return ""
}

// licenseSection returns the body of a "License" heading, if any.
func licenseSection(body string) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			continue
		}
		title := strings.ToLower(strings.TrimSpace(strings.TrimLeft(trimmed, "#")))
		if title != "license" && title != "licence" && title != "licensing" {
			continue
		}
		var section []string
		for _, next := range lines[i+1:] {
			if strings.HasPrefix(strings.TrimSpace(next), "#") {
				break
			}
			section = append(section, next)
		}
		return strings.TrimSpace(strings.Join(section, "\n"))
	}
	return ""
}

func appendAll(dst, src []string) []string {
	for _, s := range src {
		dst = appendUnique(dst, s)
	}
	return dst
}
