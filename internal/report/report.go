// Package report builds the machine-readable detect and stats outputs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/repodigest/internal/framework"
	"github.com/phobologic/repodigest/internal/model"
	"github.com/phobologic/repodigest/internal/toon"
)

// Supported formats.
const (
	YAML = "yaml"
	JSON = "json"
	TOON = "toon"
)

// TOONMarshaler is implemented by reports that have a TOON rendering.
type TOONMarshaler interface {
	MarshalTOON() string
}

// Detection explains a framework decision.
type Detection struct {
	Source      string            `yaml:"source" json:"source"`
	Framework   model.FrameworkID `yaml:"framework" json:"framework"`
	Name        string            `yaml:"name" json:"name"`
	RootEntries []string          `yaml:"root_entries" json:"root_entries"`
	Scores      []Score           `yaml:"scores" json:"scores"`
}

// Score is one framework's weight total.
type Score struct {
	Framework model.FrameworkID `yaml:"framework" json:"framework"`
	Score     int               `yaml:"score" json:"score"`
}

// NewDetection scores a listing's root entries.
func NewDetection(source string, files []model.FileRecord) Detection {
	entries := framework.RootEntries(files)
	id := framework.Detect(entries)
	d := Detection{
		Source:      source,
		Framework:   id,
		Name:        framework.Name(id),
		RootEntries: entries,
	}
	for _, s := range framework.Scores(entries) {
		d.Scores = append(d.Scores, Score{Framework: s.ID, Score: s.Score})
	}
	return d
}

// MarshalTOON renders the detection with a scores table.
func (d Detection) MarshalTOON() string {
	var doc toon.Doc
	doc.Field("source", d.Source)
	doc.Field("framework", string(d.Framework))
	doc.Field("name", d.Name)
	doc.List("root_entries", d.RootEntries)
	rows := make([][]string, len(d.Scores))
	for i, s := range d.Scores {
		rows[i] = []string{string(s.Framework), strconv.Itoa(s.Score)}
	}
	doc.Table("scores", []string{"framework", "score"}, rows)
	return doc.String()
}

// Outliers is a printable outlier report.
type Outliers struct {
	Source         string        `yaml:"source" json:"source"`
	Method         string        `yaml:"method" json:"method"`
	Files          int           `yaml:"files" json:"files"`
	Mean           float64       `yaml:"mean" json:"mean"`
	Median         float64       `yaml:"median" json:"median"`
	Q1             *float64      `yaml:"q1,omitempty" json:"q1,omitempty"`
	Q3             *float64      `yaml:"q3,omitempty" json:"q3,omitempty"`
	IQR            *float64      `yaml:"iqr,omitempty" json:"iqr,omitempty"`
	Threshold      float64       `yaml:"threshold" json:"threshold"`
	ThresholdHuman string        `yaml:"threshold_human" json:"threshold_human"`
	Flagged        []FlaggedFile `yaml:"flagged" json:"flagged"`
}

// FlaggedFile is one outlier.
type FlaggedFile struct {
	Path      string `yaml:"path" json:"path"`
	Size      int64  `yaml:"size" json:"size"`
	SizeHuman string `yaml:"size_human" json:"size_human"`
}

// NewOutliers pairs a report with the sizes of the files it flagged.
// Flagged files are listed largest first.
func NewOutliers(source string, rep model.OutlierReport, files []model.FileRecord) Outliers {
	o := Outliers{
		Source:         source,
		Method:         string(rep.Method),
		Mean:           rep.Mean,
		Median:         rep.Median,
		Q1:             rep.Q1,
		Q3:             rep.Q3,
		IQR:            rep.IQR,
		Threshold:      rep.Threshold,
		ThresholdHuman: humanize.Bytes(uint64(max(rep.Threshold, 0))),
		Flagged:        []FlaggedFile{},
	}
	for _, f := range files {
		if !f.IsFile() {
			continue
		}
		o.Files++
		if rep.Flagged.Has(f.Path) {
			o.Flagged = append(o.Flagged, FlaggedFile{
				Path:      f.Path,
				Size:      f.Size,
				SizeHuman: humanize.Bytes(uint64(f.Size)),
			})
		}
	}
	sort.SliceStable(o.Flagged, func(i, j int) bool {
		if o.Flagged[i].Size != o.Flagged[j].Size {
			return o.Flagged[i].Size > o.Flagged[j].Size
		}
		return o.Flagged[i].Path < o.Flagged[j].Path
	})
	return o
}

// MarshalTOON renders the statistics with a flagged-files table.
func (o Outliers) MarshalTOON() string {
	var doc toon.Doc
	doc.Field("source", o.Source)
	doc.Field("method", o.Method)
	doc.Field("files", o.Files)
	doc.Field("mean", o.Mean)
	doc.Field("median", o.Median)
	for _, q := range []struct {
		key string
		v   *float64
	}{{"q1", o.Q1}, {"q3", o.Q3}, {"iqr", o.IQR}} {
		if q.v != nil {
			doc.Field(q.key, *q.v)
		}
	}
	doc.Field("threshold", o.Threshold)
	doc.Field("threshold_human", o.ThresholdHuman)
	rows := make([][]string, len(o.Flagged))
	for i, f := range o.Flagged {
		rows[i] = []string{f.Path, strconv.FormatInt(f.Size, 10), f.SizeHuman}
	}
	doc.Table("flagged", []string{"path", "size", "size_human"}, rows)
	return doc.String()
}

// Encode writes v as YAML, JSON or TOON. TOON needs a TOONMarshaler.
func Encode(w io.Writer, v any, format string) error {
	switch format {
	case TOON:
		m, ok := v.(TOONMarshaler)
		if !ok {
			return fmt.Errorf("%T has no toon encoding", v)
		}
		_, err := io.WriteString(w, m.MarshalTOON()+"\n")
		return err
	case "", YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want yaml, json or toon)", format)
	}
}
