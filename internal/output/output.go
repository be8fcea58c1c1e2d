// Package output prints clusters as separator-delimited text or JSON.
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"

	"fsim/internal/models"
)

// Theme defines the styles used for terminal output
type Theme struct {
	Seed      lipgloss.Style
	Match     lipgloss.Style
	Separator lipgloss.Style
	Summary   lipgloss.Style
}

// NewTheme builds the default theme for the renderer of w
func NewTheme(w io.Writer) Theme {
	r := lipgloss.NewRenderer(w)
	return Theme{
		Seed:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Match:     r.NewStyle().Foreground(lipgloss.Color("252")),
		Separator: r.NewStyle().Foreground(lipgloss.Color("241")),
		Summary:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("82")),
	}
}

// Printer writes results to w
type Printer struct {
	w         io.Writer
	separator string
	styled    bool
	theme     Theme
}

// NewPrinter creates a Printer. Styling applies only when styled is true,
// so piped output stays byte-exact.
func NewPrinter(w io.Writer, separator string, styled bool) *Printer {
	return &Printer{
		w:         w,
		separator: separator,
		styled:    styled,
		theme:     NewTheme(w),
	}
}

// PrintText writes each cluster one path per line, followed by a separator line
func (p *Printer) PrintText(clusters []models.Cluster) error {
	for _, c := range clusters {
		for i, key := range c {
			style := p.theme.Match
			if i == 0 {
				style = p.theme.Seed
			}
			if err := p.line(style, key); err != nil {
				return err
			}
		}
		if err := p.line(p.theme.Separator, p.separator); err != nil {
			return err
		}
	}
	return nil
}

// PrintSummary writes a one-line summary of the run
func (p *Printer) PrintSummary(result *models.Result) error {
	msg := fmt.Sprintf("%d files scanned, %d clusters, %d files matched",
		result.Scanned, len(result.Clusters), result.TotalMatched())
	return p.line(p.theme.Summary, msg)
}

func (p *Printer) line(style lipgloss.Style, s string) error {
	if p.styled {
		s = style.Render(s)
	}
	_, err := fmt.Fprintln(p.w, s)
	return err
}

// jsonResult is the JSON document shape
type jsonResult struct {
	Dir      string           `json:"dir"`
	Scanned  int              `json:"scanned"`
	Clusters []models.Cluster `json:"clusters"`
}

// PrintJSON writes the result as an indented JSON document
func (p *Printer) PrintJSON(result *models.Result) error {
	doc := jsonResult{
		Dir:      result.Dir,
		Scanned:  result.Scanned,
		Clusters: result.Clusters,
	}
	if doc.Clusters == nil {
		doc.Clusters = []models.Cluster{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(p.w, string(data))
	return err
}
