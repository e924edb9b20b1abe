// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/recruitment-timeline/internal/db"
	"github.com/jonathan/recruitment-timeline/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxStepsToShow caps the steps listed for one timeline
	maxStepsToShow = 10
)

// Printer handles formatted output for CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Labels resolves category ids to their display titles.
type Labels struct {
	Steps    map[int64]string
	Statuses map[int64]string
}

// NewLabels builds Labels from category rows. Step categories use their
// English title, or any title when no English one exists.
func NewLabels(steps []db.StepCategory, statuses []db.StatusCategory) Labels {
	l := Labels{
		Steps:    make(map[int64]string, len(steps)),
		Statuses: make(map[int64]string, len(statuses)),
	}
	for _, c := range steps {
		l.Steps[c.ID] = stepTitle(c)
	}
	for _, c := range statuses {
		l.Statuses[c.ID] = c.Title
	}
	return l
}

func stepTitle(c db.StepCategory) string {
	if t, ok := c.Title["en"]; ok {
		return t
	}
	langs := make([]string, 0, len(c.Title))
	for lang := range c.Title {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	if len(langs) == 0 {
		return ""
	}
	return c.Title[langs[0]]
}

func label(names map[int64]string, id int64) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("#%d", id)
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintTimeline outputs a timeline with each step and its current status.
func (p *Printer) PrintTimeline(tl *types.Timeline, labels Labels) {
	if tl == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Timeline:   %d\n", tl.ID))
	sb.WriteString(fmt.Sprintf("Candidate:  %d\n", tl.CandidateID))
	sb.WriteString(fmt.Sprintf("Recruiter:  %d\n", tl.RecruiterID))
	sb.WriteString(fmt.Sprintf("Created:    %s\n", tl.CreatedAt.UTC().Format(time.RFC3339)))

	if len(tl.Steps) == 0 {
		sb.WriteString("\nNo steps yet")
		p.printBox("TIMELINE", sb.String())
		return
	}

	sb.WriteString("\nSteps:\n")
	count := min(len(tl.Steps), maxStepsToShow)
	for i := 0; i < count; i++ {
		step := tl.Steps[i]
		status := "no status"
		if step.CurrentStatus != nil {
			status = label(labels.Statuses, step.CurrentStatus.StatusCategoryID)
		}
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, label(labels.Steps, step.StepCategoryID), status))
	}
	if len(tl.Steps) > maxStepsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(tl.Steps)-maxStepsToShow))
	}

	p.printBox("TIMELINE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSeedResult outputs the reference data present after seeding.
func (p *Printer) PrintSeedResult(res *db.SeedResult) {
	if res == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString("Recruiters:\n")
	for _, r := range res.Recruiters {
		sb.WriteString(fmt.Sprintf("  %d. %s %s <%s>\n", r.ID, r.FirstName, r.LastName, r.Email))
	}
	sb.WriteString("\nStep categories:\n")
	for _, c := range res.StepCategories {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", c.ID, stepTitle(c)))
	}
	sb.WriteString("\nStatus categories:\n")
	for _, c := range res.StatusCategories {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", c.ID, c.Title))
	}

	p.printBox("REFERENCE DATA", strings.TrimSuffix(sb.String(), "\n"))
}
