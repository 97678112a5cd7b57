package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/tubecorr/internal/models"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	label lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		label: NewStyle(h).Width(16),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// RenderSummary renders a pipeline run and the per-collection load results for the terminal.
func RenderSummary(run *models.RunStats, loads []models.LoadResult) string {
	if run == nil {
		return styles.help.Render("no pipeline runs recorded")
	}

	status := styles.warn.Render(run.Status)
	switch run.Status {
	case models.RunSucceeded:
		status = styles.ok.Render(run.Status)
	case models.RunFailed:
		status = styles.err.Render(run.Status)
	}

	lines := []string{
		styles.title.Render("Pipeline run " + run.ID),
		row("Status", status),
		row("Started", run.StartedAt.Format(time.RFC3339)),
	}
	if run.FinishedAt != nil {
		lines = append(lines, row("Duration", run.Duration().Round(time.Millisecond).String()))
	}

	keys := make([]string, 0, len(run.Counts))
	for k := range run.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lines = append(lines, row(k, fmt.Sprint(run.Counts[k])))
	}

	if run.Skipped > 0 {
		lines = append(lines, row("Skipped", styles.warn.Render(fmt.Sprint(run.Skipped))))
	}
	if run.LoadErrors > 0 {
		lines = append(lines, row("Load errors", styles.err.Render(fmt.Sprint(run.LoadErrors))))
	}

	if len(loads) > 0 {
		lines = append(lines, "", styles.title.Render("Load"))
		for _, l := range loads {
			detail := fmt.Sprintf("%d processed, %d inserted, %d updated", l.Processed, l.Inserted, l.Updated)
			if l.Errors > 0 {
				detail += ", " + styles.err.Render(fmt.Sprintf("%d errors", l.Errors))
			}
			lines = append(lines, row(l.Collection, detail))
		}
	}

	for _, note := range run.ExtractNotes {
		lines = append(lines, styles.warn.Render("! "+note))
	}
	if run.Error != "" {
		lines = append(lines, "", styles.err.Render("error: "+run.Error))
	}

	return strings.Join(lines, "\n")
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, styles.label.Render(label), value)
}
