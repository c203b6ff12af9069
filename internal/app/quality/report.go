package quality

import (
	"fmt"
	"sort"
	"strings"

	"github.com/YelzhanWeb/chocoqc/internal/domain"
)

const timeLayout = "2006-01-02 15:04:05"

// Report is the aggregate view over an inspection log.
type Report struct {
	Total         int
	ByStatus      map[domain.QualityStatus]int
	DefectCounts  map[domain.DefectType]int
	ByProcess     map[string]ProcessStats
	MostFrequent  []domain.DefectType
	MostFrequentN int
}

type ProcessStats struct {
	Total  int
	Passed int
}

// PassRate is the share of inspections with status pass, as a percentage
func (r Report) PassRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.ByStatus[domain.StatusPass]) / float64(r.Total) * 100
}

// Summarize builds a Report from the log alone.
func Summarize(results []domain.InspectionResult) Report {
	r := Report{
		Total:        len(results),
		ByStatus:     make(map[domain.QualityStatus]int),
		DefectCounts: make(map[domain.DefectType]int),
		ByProcess:    make(map[string]ProcessStats),
	}

	for _, res := range results {
		r.ByStatus[res.Status]++
		for _, d := range res.Defects {
			r.DefectCounts[d]++
		}

		ps := r.ByProcess[res.Process]
		ps.Total++
		if res.Status == domain.StatusPass {
			ps.Passed++
		}
		r.ByProcess[res.Process] = ps
	}

	for _, d := range orderedDefects(r.DefectCounts) {
		n := r.DefectCounts[d]
		switch {
		case n > r.MostFrequentN:
			r.MostFrequentN = n
			r.MostFrequent = []domain.DefectType{d}
		case n == r.MostFrequentN && n > 0:
			r.MostFrequent = append(r.MostFrequent, d)
		}
	}

	return r
}

// orderedDefects returns the counted defects in catalogue order, unknown ones last
func orderedDefects(counts map[domain.DefectType]int) []domain.DefectType {
	var out []domain.DefectType
	seen := make(map[domain.DefectType]bool)
	for _, d := range domain.DefectTypes() {
		if counts[d] > 0 {
			out = append(out, d)
			seen[d] = true
		}
	}

	var extra []domain.DefectType
	for d, n := range counts {
		if !seen[d] && n > 0 {
			extra = append(extra, d)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}

func RenderReport(r Report) string {
	var b strings.Builder

	b.WriteString("QUALITY CONTROL REPORT\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Total inspections: %d\n", r.Total)

	if r.Total == 0 {
		b.WriteString("No inspection data available.\n")
		return b.String()
	}

	for _, status := range domain.QualityStatuses() {
		fmt.Fprintf(&b, "%s: %d\n", status.Label(), r.ByStatus[status])
	}
	fmt.Fprintf(&b, "Pass rate: %.2f%%\n", r.PassRate())

	if len(r.MostFrequent) == 0 {
		b.WriteString("Most frequent defect: none\n")
	} else {
		names := make([]string, len(r.MostFrequent))
		for i, d := range r.MostFrequent {
			names[i] = string(d)
		}
		fmt.Fprintf(&b, "Most frequent defect: %s (%d occurrences)\n", strings.Join(names, ", "), r.MostFrequentN)
	}

	b.WriteString("\nDefect details:\n")
	defects := orderedDefects(r.DefectCounts)
	if len(defects) == 0 {
		b.WriteString("  No defects detected\n")
	}
	for _, d := range defects {
		fmt.Fprintf(&b, "  - %s: %d occurrences\n", d, r.DefectCounts[d])
	}

	b.WriteString("\nBy process:\n")
	processes := make([]string, 0, len(r.ByProcess))
	for p := range r.ByProcess {
		processes = append(processes, p)
	}
	sort.Strings(processes)
	for _, p := range processes {
		ps := r.ByProcess[p]
		fmt.Fprintf(&b, "  - %s: %d inspections, %d passed\n", p, ps.Total, ps.Passed)
	}

	return b.String()
}

func RenderHistory(results []domain.InspectionResult) string {
	var b strings.Builder

	b.WriteString("INSPECTION HISTORY\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	if len(results) == 0 {
		b.WriteString("No inspections registered.\n")
		return b.String()
	}

	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n", i+1, formatLine(r))
		b.WriteString(strings.Repeat("-", 50) + "\n")
	}
	return b.String()
}

// RenderResult formats a single inspection result
func RenderResult(r domain.InspectionResult) string {
	return formatLine(r) + "\n"
}

func formatLine(r domain.InspectionResult) string {
	defects := "none"
	if len(r.Defects) > 0 {
		names := make([]string, len(r.Defects))
		for i, d := range r.Defects {
			names[i] = string(d)
		}
		defects = strings.Join(names, ", ")
	}

	return fmt.Sprintf("Batch: %s | Process: %s | Variant: %s | Result: %s\n   Defects: %s\n   Date: %s",
		r.BatchID, r.Process, r.Variant, r.Status.Label(), defects, r.InspectedAt.Format(timeLayout))
}
