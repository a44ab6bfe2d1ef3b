// Package stats flags files whose size is far above the rest of the listing.
package stats

import (
	"sort"
	"strings"

	"github.com/phobologic/repodigest/internal/model"
)

// Fixed threshold multipliers.
const (
	MeanMultiplier   = 5.0
	MedianMultiplier = 10.0
	IQRMultiplier    = 1.5
)

// Detect computes size statistics over every file record with a known size
// and flags those above the method's threshold. Files at the repository root
// are never flagged: large root manifests are already handled by exclusion
// rules.
func Detect(files []model.FileRecord, method model.OutlierMethod) model.OutlierReport {
	report := model.OutlierReport{
		Method:  method,
		Flagged: make(model.PathSet),
	}

	var sized []model.FileRecord
	for _, f := range files {
		if f.IsFile() && f.SizeKnown {
			sized = append(sized, f)
		}
	}
	if len(sized) == 0 {
		return report
	}

	sizes := make([]float64, len(sized))
	for i, f := range sized {
		sizes[i] = float64(f.Size)
	}
	sort.Float64s(sizes)

	report.Mean = mean(sizes)
	report.Median = median(sizes)

	switch method {
	case model.Mean:
		report.Threshold = report.Mean * MeanMultiplier
	case model.IQR:
		n := len(sizes)
		q1 := sizes[n/4]
		q3 := sizes[n*3/4]
		iqr := q3 - q1
		report.Q1, report.Q3, report.IQR = &q1, &q3, &iqr
		report.Threshold = q3 + IQRMultiplier*iqr
	default:
		report.Method = model.Median
		report.Threshold = report.Median * MedianMultiplier
	}

	for _, f := range sized {
		if float64(f.Size) > report.Threshold && strings.Contains(f.Path, "/") {
			report.Flagged.Add(f.Path)
		}
	}
	return report
}

func mean(sorted []float64) float64 {
	var sum float64
	for _, s := range sorted {
		sum += s
	}
	return sum / float64(len(sorted))
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
