package source

import (
	"net/url"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/matzehuels/trustscore/pkg/artifact"
	"github.com/matzehuels/trustscore/pkg/integrations"
)

// Links are the related artifacts discovered in a card or README.
type Links struct {
	Datasets []string
	Code     []string
}

var (
	markdownLinkRE = regexp.MustCompile(`\[[^\]]*\]\((https?://[^)\s]+)\)`)
	bareURLRE      = regexp.MustCompile(`https?://[^\s<>"'()\[\]{}|\\^` + "`" + `]+`)
	phraseRE       = regexp.MustCompile(`(?i)\b(?:trained|fine-?tuned|pre-?trained|evaluated|finetuned)\s+(?:on|using)\s+(?:the\s+)?([A-Za-z0-9][\w.-]*(?:/[\w.-]+)?)`)
)

// phraseStopWords are words that follow "trained on" without naming a dataset.
var phraseStopWords = map[string]bool{
	"a": true, "an": true, "our": true, "this": true, "these": true, "those": true,
	"large": true, "over": true, "top": true, "more": true, "data": true, "various": true,
	"multiple": true, "public": true, "diverse": true, "several": true, "English": true,
	"approximately": true, "about": true, "around": true, "up": true, "both": true, "all": true,
	"it": true, "them": true, "same": true, "different": true, "private": true, "custom": true,
}

var datasetHosts = []string{"kaggle.com/datasets", "zenodo.org", "paperswithcode.com/dataset", "archive.ics.uci.edu"}

// DiscoverLinks scans text for markdown links, bare URLs, HTML anchors and
// phrases such as "trained on X", and classifies what it finds as dataset or
// code links. hubBase is the hub root used to turn a phrase into a dataset
// URL. Results keep discovery order without duplicates.
func DiscoverLinks(text, hubBase string) Links {
	var found []string
	for _, m := range markdownLinkRE.FindAllStringSubmatch(text, -1) {
		found = append(found, m[1])
	}
	found = append(found, bareURLRE.FindAllString(text, -1)...)
	found = append(found, anchorHrefs(text)...)

	var links Links
	for _, raw := range found {
		u := integrations.NormalizeRepoURL(raw)
		switch classifyLink(u) {
		case artifact.CategoryCode:
			links.Code = appendUnique(links.Code, u)
		case artifact.CategoryDataset:
			links.Datasets = appendUnique(links.Datasets, u)
		}
	}

	hubBase = strings.TrimSuffix(hubBase, "/")
	for _, m := range phraseRE.FindAllStringSubmatch(text, -1) {
		name := strings.TrimRight(m[1], ".,;:")
		if name == "" || phraseStopWords[name] || phraseStopWords[strings.ToLower(name)] || isNumber(name) {
			continue
		}
		links.Datasets = appendUnique(links.Datasets, hubBase+"/datasets/"+name)
	}
	return links
}

// classifyLink returns CODE for repository hosts, DATASET for dataset
// pages and UNKNOWN for everything else.
func classifyLink(raw string) artifact.Category {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return artifact.CategoryUnknown
	}
	ref, err := artifact.Classify(raw)
	if err == nil && ref.Category == artifact.CategoryCode {
		return artifact.CategoryCode
	}
	if err == nil && ref.Category == artifact.CategoryDataset {
		return artifact.CategoryDataset
	}
	hostPath := strings.TrimPrefix(strings.ToLower(u.Host), "www.") + u.Path
	for _, h := range datasetHosts {
		if strings.HasPrefix(hostPath, h) {
			return artifact.CategoryDataset
		}
	}
	return artifact.CategoryUnknown
}

// anchorHrefs extracts absolute href values of <a> elements.
func anchorHrefs(text string) []string {
	if !strings.Contains(text, "<a") && !strings.Contains(text, "<A") {
		return nil
	}
	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return nil
	}

	var hrefs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, a := range n.Attr {
				if a.Key == "href" && (strings.HasPrefix(a.Val, "http://") || strings.HasPrefix(a.Val, "https://")) {
					hrefs = append(hrefs, a.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return hrefs
}

func appendUnique(list []string, s string) []string {
	if s == "" || slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}

func isNumber(s string) bool {
	return strings.Trim(s, "0123456789.,") == ""
}
