package artifact

import (
	"strings"
	"testing"

	"github.com/matzehuels/trustscore/pkg/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		url      string
		category Category
		id       string
		name     string
	}{
		{"https://github.com/openai/whisper", CategoryCode, "openai/whisper", "whisper"},
		{"https://github.com/openai/whisper.git", CategoryCode, "openai/whisper", "whisper"},
		{"https://github.com/openai/whisper/tree/main/whisper", CategoryCode, "openai/whisper", "whisper"},
		{"https://www.github.com/a/b", CategoryCode, "a/b", "b"},
		{"HTTPS://GitHub.com/openai/whisper", CategoryCode, "openai/whisper", "whisper"},
		{"https://gitlab.com/group/proj", CategoryCode, "group/proj", "proj"},
		{"https://huggingface.co/datasets/bookcorpus/bookcorpus", CategoryDataset, "bookcorpus/bookcorpus", "bookcorpus"},
		{"https://huggingface.co/datasets/squad", CategoryDataset, "squad", "squad"},
		{"https://huggingface.co/google-bert/bert-base-uncased", CategoryModel, "google-bert/bert-base-uncased", "bert-base-uncased"},
		{"https://huggingface.co/gpt2", CategoryModel, "gpt2", "gpt2"},
		{"https://huggingface.co/openai/whisper-tiny/tree/main", CategoryModel, "openai/whisper-tiny", "whisper-tiny"},
		{"https://example.com/models/foo", CategoryModel, "models/foo", "foo"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			ref, err := Classify(tt.url)
			if err != nil {
				t.Fatalf("Classify() error: %v", err)
			}
			if ref.Category != tt.category {
				t.Errorf("Category = %s, want %s", ref.Category, tt.category)
			}
			if ref.ID != tt.id {
				t.Errorf("ID = %q, want %q", ref.ID, tt.id)
			}
			if ref.Name != tt.name {
				t.Errorf("Name = %q, want %q", ref.Name, tt.name)
			}
		})
	}
}

func TestClassify_Invalid(t *testing.T) {
	for _, raw := range []string{
		"not a url",
		"ftp://github.com/a/b",
		"https://github.com/onlyowner",
		"https://huggingface.co/datasets",
		"https://huggingface.co/",
	} {
		ref, err := Classify(raw)
		if err == nil {
			t.Errorf("Classify(%q) expected error", raw)
			continue
		}
		if !errors.Is(err, errors.ErrCodeInvalidURL) {
			t.Errorf("Classify(%q) code = %s, want INVALID_URL", raw, errors.GetCode(err))
		}
		if ref.Category != CategoryUnknown {
			t.Errorf("Classify(%q) category = %s, want UNKNOWN", raw, ref.Category)
		}
		if ref.URL != raw {
			t.Errorf("Classify(%q) lost the raw URL", raw)
		}
	}
}

func TestRef_OwnerRepo(t *testing.T) {
	ref := Ref{ID: "openai/whisper"}
	if ref.Owner() != "openai" || ref.Repo() != "whisper" {
		t.Errorf("Owner/Repo = %q/%q", ref.Owner(), ref.Repo())
	}
	single := Ref{ID: "gpt2"}
	if single.Owner() != "gpt2" || single.Repo() != "" {
		t.Errorf("Owner/Repo = %q/%q", single.Owner(), single.Repo())
	}
}

func TestReadURLs(t *testing.T) {
	in := "https://github.com/a/b\n\n# comment\n  https://huggingface.co/gpt2  \nnot-a-url\n"
	urls, err := ReadURLs(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"https://github.com/a/b", "https://huggingface.co/gpt2", "not-a-url"}
	if len(urls) != len(want) {
		t.Fatalf("got %d urls, want %d: %v", len(urls), len(want), urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}
}

func TestReadURLsLongLine(t *testing.T) {
	long := "https://huggingface.co/" + strings.Repeat("x", 70*1024)
	in := "https://github.com/openai/whisper\n" + long + "\nhttps://huggingface.co/bert-base-uncased"
	urls, err := ReadURLs(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadURLs: %v", err)
	}
	if len(urls) != 3 || urls[1] != long || urls[2] != "https://huggingface.co/bert-base-uncased" {
		t.Fatalf("got %d urls", len(urls))
	}

	_, err = Classify(urls[1])
	if !errors.Is(err, errors.ErrCodeInvalidURL) {
		t.Errorf("Classify(long) err = %v, want INVALID_URL", err)
	}
}
