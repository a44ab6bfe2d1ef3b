package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/phobologic/repodigest/internal/framework"
	"github.com/phobologic/repodigest/internal/model"
)

// summary is the one-line report printed after an artifact is written.
type summary struct {
	Framework model.FrameworkID
	Precision model.Precision
	Files     int
	Outliers  int
	Bytes     int
	Tokens    model.TokenCount
	Dest      string
}

type field struct {
	label, value string
}

func (s summary) fields() []field {
	fs := []field{
		{"framework", framework.Name(s.Framework)},
		{"precision", s.Precision.String()},
		{"files", humanize.Comma(int64(s.Files))},
	}
	if s.Outliers > 0 {
		fs = append(fs, field{"outliers dropped", humanize.Comma(int64(s.Outliers))})
	}
	tokens := s.Tokens.String()
	if s.Tokens.OK {
		tokens = humanize.Comma(int64(s.Tokens.N))
	}
	return append(fs,
		field{"size", humanize.Bytes(uint64(s.Bytes))},
		field{"tokens", tokens},
		field{"output", s.Dest},
	)
}

// plain renders the summary without styling.
func (s summary) plain() string {
	parts := make([]string, 0, 7)
	for _, f := range s.fields() {
		parts = append(parts, f.label+": "+f.value)
	}
	return strings.Join(parts, " | ")
}

func (s summary) styled(r *lipgloss.Renderer) string {
	label := r.NewStyle().Faint(true)
	value := r.NewStyle().Bold(true)
	sep := r.NewStyle().Foreground(lipgloss.Color("8")).Render(" | ")

	parts := make([]string, 0, 7)
	for _, f := range s.fields() {
		v := value
		if f.label == "framework" {
			v = v.Foreground(lipgloss.Color("12"))
		}
		parts = append(parts, label.Render(f.label+":")+" "+v.Render(f.value))
	}
	return strings.Join(parts, sep)
}

func writeSummary(w io.Writer, s summary) {
	if useColor(w) {
		_, _ = fmt.Fprintln(w, s.styled(lipgloss.NewRenderer(w)))
		return
	}
	_, _ = fmt.Fprintln(w, s.plain())
}

func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
