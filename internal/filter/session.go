package filter

import (
	"github.com/phobologic/repodigest/internal/framework"
	"github.com/phobologic/repodigest/internal/model"
	"github.com/phobologic/repodigest/internal/stats"
)

// Phase is the lifecycle position of a session.
type Phase int

const (
	Idle Phase = iota
	Listed
	Filtered
	Rendered
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Listed:
		return "listed"
	case Filtered:
		return "filtered"
	case Rendered:
		return "rendered"
	}
	return "unknown"
}

// Session is the selection configuration for one loaded source. It is a
// value: Apply returns a new Session and never mutates the receiver, and
// Selection always recomputes from scratch.
type Session struct {
	Files     []model.FileRecord
	Detected  model.FrameworkID
	Override  model.FrameworkID // Empty when the detected framework is used
	Precision model.Precision
	Outliers  bool // Subtract size outliers from the selection
	Method    model.OutlierMethod
	Phase     Phase
}

// NewSession returns an idle session with default settings.
func NewSession() Session {
	return Session{
		Detected:  model.Unknown,
		Precision: model.Standard,
		Method:    model.Median,
	}
}

// Framework returns the override if set, otherwise the detected framework.
func (s Session) Framework() model.FrameworkID {
	if s.Override != "" {
		return s.Override
	}
	return s.Detected
}

// Event changes one aspect of a session.
type Event interface {
	apply(s Session) Session
}

// Loaded replaces the listing, re-runs detection and resets the manual
// framework override and precision.
type Loaded struct {
	Files []model.FileRecord
}

func (e Loaded) apply(s Session) Session {
	s.Files = append([]model.FileRecord(nil), e.Files...)
	s.Detected = framework.Detect(framework.RootEntries(s.Files))
	s.Override = ""
	s.Precision = model.Standard
	s.Phase = Listed
	return s
}

// OverrideFramework forces a framework. An empty ID clears the override.
type OverrideFramework struct {
	ID model.FrameworkID
}

func (e OverrideFramework) apply(s Session) Session {
	s.Override = e.ID
	return filtered(s)
}

// SetPrecision changes the precision level.
type SetPrecision struct {
	Precision model.Precision
}

func (e SetPrecision) apply(s Session) Session {
	s.Precision = e.Precision
	return filtered(s)
}

// SetOutliers toggles outlier subtraction. An empty Method keeps the current one.
type SetOutliers struct {
	Enabled bool
	Method  model.OutlierMethod
}

func (e SetOutliers) apply(s Session) Session {
	s.Outliers = e.Enabled
	if e.Method != "" {
		s.Method = e.Method
	}
	return filtered(s)
}

// Generated records that an artifact was rendered from the current selection.
type Generated struct{}

func (Generated) apply(s Session) Session {
	if s.Phase != Idle {
		s.Phase = Rendered
	}
	return s
}

func filtered(s Session) Session {
	if s.Phase != Idle {
		s.Phase = Filtered
	}
	return s
}

// Apply returns the session that results from ev.
func (s Session) Apply(ev Event) Session {
	return ev.apply(s)
}

// Selection is the outcome of filtering a session.
type Selection struct {
	Paths    model.PathSet
	Outliers *model.OutlierReport // Nil when outlier subtraction is off

	// Dropped counts rule-selected paths removed as outliers.
	Dropped int
}

// Selection recomputes the selected paths for the session.
func (s Session) Selection() Selection {
	paths := Apply(s.Files, s.Framework(), s.Precision)
	if !s.Outliers {
		return Selection{Paths: paths}
	}
	report := stats.Detect(s.Files, s.Method)
	kept := paths.Minus(report.Flagged)
	return Selection{Paths: kept, Outliers: &report, Dropped: paths.Len() - kept.Len()}
}

// Selected returns the records of the selection in listing order.
func (s Session) Selected() []model.FileRecord {
	paths := s.Selection().Paths
	var out []model.FileRecord
	for _, f := range s.Files {
		if f.IsFile() && paths.Has(f.Path) {
			out = append(out, f)
		}
	}
	return out
}
