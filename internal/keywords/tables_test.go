package keywords

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults_Complete(t *testing.T) {
	tbl := Defaults()

	if len(tbl.Labels) == 0 {
		t.Fatal("Expected built-in labels")
	}
	for _, label := range tbl.Labels {
		if label.Name == "" || len(label.Terms) == 0 || label.Threshold <= 0 {
			t.Errorf("Label %q incomplete", label.Name)
		}
	}
	if len(tbl.Topic) == 0 || len(tbl.Local) == 0 || len(tbl.Stopwords) == 0 {
		t.Error("Expected non-empty gate term lists")
	}
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	tbl, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tbl.Version != Defaults().Version {
		t.Errorf("Expected builtin version, got %q", tbl.Version)
	}
}

func TestLoad_OverrideMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	content := `version: campus-v2
local:
  - providence
  - rhode island
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tbl.Version != "campus-v2" {
		t.Errorf("Expected overridden version, got %q", tbl.Version)
	}
	if len(tbl.Local) != 2 || tbl.Local[0] != "providence" {
		t.Errorf("Expected local list replaced, got %v", tbl.Local)
	}
	// Sections the file leaves out keep their defaults.
	if len(tbl.Labels) == 0 || len(tbl.Topic) == 0 {
		t.Error("Expected untouched sections to keep defaults")
	}
}

func TestLoad_BadContextPatternFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	content := `labels:
  - name: broken
    threshold: 1.0
    terms:
      thing: 5
    context_patterns:
      - "[unclosed"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected invalid regex to fail the load")
	}
}

func TestLoad_MalformedYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	if err := os.WriteFile(path, []byte("labels: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected malformed YAML to fail the load")
	}
}
