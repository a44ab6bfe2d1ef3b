package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/phobologic/repodigest/internal/model"
	"github.com/phobologic/repodigest/internal/stats"
)

func TestNewDetection(t *testing.T) {
	t.Parallel()

	files := []model.FileRecord{
		{Path: "go.mod", Kind: model.File},
		{Path: "main.go", Kind: model.File},
		{Path: "internal/x/x.go", Kind: model.File},
	}
	d := NewDetection("./repo", files)
	if d.Framework != model.Go {
		t.Errorf("framework = %q, want go", d.Framework)
	}
	if d.Name == "" {
		t.Error("name empty")
	}
	if len(d.Scores) != len(model.Frameworks)-1 {
		t.Errorf("scores = %d entries", len(d.Scores))
	}
	var goScore int
	for _, s := range d.Scores {
		if s.Framework == model.Go {
			goScore = s.Score
		}
	}
	if goScore == 0 {
		t.Error("go score should be positive")
	}
}

func TestNewOutliers(t *testing.T) {
	t.Parallel()

	files := []model.FileRecord{
		{Path: "src/a.js", Kind: model.File, Size: 100, SizeKnown: true},
		{Path: "src/b.js", Kind: model.File, Size: 100, SizeKnown: true},
		{Path: "src/c.js", Kind: model.File, Size: 100, SizeKnown: true},
		{Path: "src/big.js", Kind: model.File, Size: 5000, SizeKnown: true},
		{Path: "src/huge.js", Kind: model.File, Size: 9000, SizeKnown: true},
		{Path: "src", Kind: model.Directory},
	}
	rep := stats.Detect(files, model.Median)
	o := NewOutliers("repo", rep, files)

	if o.Files != 5 {
		t.Errorf("files = %d, want 5", o.Files)
	}
	if len(o.Flagged) != 2 || o.Flagged[0].Path != "src/huge.js" || o.Flagged[1].Path != "src/big.js" {
		t.Fatalf("flagged = %+v", o.Flagged)
	}
	if o.Flagged[0].SizeHuman != "9.0 kB" {
		t.Errorf("size_human = %q", o.Flagged[0].SizeHuman)
	}
	if o.ThresholdHuman != "1.0 kB" {
		t.Errorf("threshold_human = %q", o.ThresholdHuman)
	}
	if o.Q1 != nil {
		t.Error("q1 set for median method")
	}
}

func TestEncodeYAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	d := Detection{Source: "r", Framework: model.Rust, Name: "Rust", Scores: []Score{{model.Rust, 20}}}
	if err := Encode(&buf, d, YAML); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "framework: rust\n") {
		t.Errorf("yaml:\n%s", buf.String())
	}
	var back Detection
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatal(err)
	}
	if back.Framework != model.Rust || back.Scores[0].Score != 20 {
		t.Errorf("decoded %+v", back)
	}
}

func TestEncodeJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	o := Outliers{Method: "iqr", Flagged: []FlaggedFile{}}
	if err := Encode(&buf, o, JSON); err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, buf.String())
	}
	if m["method"] != "iqr" {
		t.Errorf("method = %v", m["method"])
	}
	if _, ok := m["q1"]; ok {
		t.Error("nil quartile should be omitted")
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	t.Parallel()

	if err := Encode(&bytes.Buffer{}, Detection{}, "xml"); err == nil {
		t.Error("expected error")
	}
}

func TestEncodeTOON(t *testing.T) {
	t.Parallel()

	d := Detection{
		Source:      "./repo",
		Framework:   model.Go,
		Name:        "Go",
		RootEntries: []string{"go.mod", "cmd/"},
		Scores:      []Score{{model.NodeJS, 0}, {model.Go, 20}},
	}
	var buf bytes.Buffer
	if err := Encode(&buf, d, TOON); err != nil {
		t.Fatal(err)
	}
	want := "source: ./repo\n" +
		"framework: go\n" +
		"name: Go\n" +
		"root_entries[2]: go.mod,cmd/\n" +
		"scores[2]{framework,score}:\n" +
		"  nodejs,0\n" +
		"  go,20\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}

	q1 := 30.0
	o := Outliers{Method: "iqr", Q1: &q1, Flagged: []FlaggedFile{{Path: "src/big.js", Size: 9000, SizeHuman: "9.0 kB"}}}
	buf.Reset()
	if err := Encode(&buf, o, TOON); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"q1: 30\n", "flagged[1]{path,size,size_human}:\n  src/big.js,9000,9.0 kB\n"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("toon output missing %q:\n%s", want, buf.String())
		}
	}
	if strings.Contains(buf.String(), "q3:") {
		t.Error("nil quartile should be omitted")
	}

	if err := Encode(&buf, struct{}{}, TOON); err == nil {
		t.Error("expected error for value without toon encoding")
	}
}
