package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/wordwrap"

	"github.com/ramanasai/sereni/internal/markers"
	"github.com/ramanasai/sereni/internal/mood"
)

// OutputFormat selects how command results are printed.
type OutputFormat string

const (
	FormatDefault OutputFormat = "default"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// ParseFormat accepts the --format flag value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatDefault, nil
	case FormatDefault, FormatTable, FormatJSON, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want default, table, json or csv)", s)
}

// RenderConfig contains configuration for output rendering
type RenderConfig struct {
	Format OutputFormat
	Width  int
	Color  bool
}

// DefaultRenderConfig returns a default render configuration
func DefaultRenderConfig() *RenderConfig {
	width := 100
	if colEnv := os.Getenv("COLUMNS"); colEnv != "" {
		if v, err := strconv.Atoi(colEnv); err == nil && v > 40 {
			width = v
		}
	}
	return &RenderConfig{
		Format: FormatDefault,
		Width:  width,
		Color:  !color.NoColor,
	}
}

// CheckResult is the outcome of running the keyword matcher over one text.
type CheckResult struct {
	Matched  bool   `json:"matched"`
	Category string `json:"category,omitempty"`
	Label    string `json:"label,omitempty"`
	Keyword  string `json:"keyword,omitempty"`
}

// NewCheckResult converts a matcher result.
func NewCheckResult(m markers.Match, ok bool) CheckResult {
	if !ok {
		return CheckResult{}
	}
	return CheckResult{
		Matched:  true,
		Category: string(m.Category),
		Label:    m.Category.Label(),
		Keyword:  m.Keyword,
	}
}

// Renderer handles output formatting
type Renderer struct {
	config *RenderConfig
	styles *Styles
	out    io.Writer
}

// Styles contains lipgloss styles for different elements
type Styles struct {
	Title     lipgloss.Style
	Separator lipgloss.Style
	Meta      lipgloss.Style
	ID        lipgloss.Style
	Text      lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Danger    lipgloss.Style
}

// NewRenderer creates a new renderer writing to w.
func NewRenderer(w io.Writer, config *RenderConfig) *Renderer {
	if config == nil {
		config = DefaultRenderConfig()
	}
	if w == nil {
		w = color.Output
	}
	return &Renderer{
		config: config,
		styles: initStyles(config.Color),
		out:    w,
	}
}

func initStyles(colored bool) *Styles {
	styles := &Styles{}
	if colored {
		styles.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1"))
		styles.Separator = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
		styles.Meta = lipgloss.NewStyle().Faint(true)
		styles.ID = lipgloss.NewStyle().Faint(true)
		styles.Text = lipgloss.NewStyle()
		styles.Success = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
		styles.Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAB387"))
		styles.Danger = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8"))
	} else {
		styles.Title = lipgloss.NewStyle().Bold(true)
		styles.Separator = lipgloss.NewStyle()
		styles.Meta = lipgloss.NewStyle()
		styles.ID = lipgloss.NewStyle()
		styles.Text = lipgloss.NewStyle()
		styles.Success = lipgloss.NewStyle()
		styles.Warning = lipgloss.NewStyle()
		styles.Danger = lipgloss.NewStyle().Bold(true)
	}
	return styles
}

// RenderMoods prints the affect grid catalogue.
func (r *Renderer) RenderMoods(entries []mood.Entry) error {
	switch r.config.Format {
	case FormatJSON:
		return r.renderJSON(entries)
	case FormatCSV:
		return r.renderMoodsCSV(entries)
	case FormatTable:
		return r.renderMoodsTable(entries)
	default:
		return r.renderMoodsDefault(entries)
	}
}

// RenderCheck prints one matcher result.
func (r *Renderer) RenderCheck(res CheckResult) error {
	switch r.config.Format {
	case FormatJSON:
		return r.renderJSON(res)
	case FormatCSV:
		fmt.Fprintln(r.out, "matched,category,keyword")
		fmt.Fprintf(r.out, "%t,%s,%s\n", res.Matched, escapeCSV(res.Category), escapeCSV(res.Keyword))
		return nil
	case FormatTable:
		tbl := uitable.New()
		tbl.Separator = "  "
		bold := color.New(color.Bold)
		tbl.AddRow(bold.Sprint("Catégorie"), bold.Sprint("Mot-clé"))
		if res.Matched {
			tbl.AddRow(res.Label, res.Keyword)
		} else {
			tbl.AddRow("-", "-")
		}
		_, err := fmt.Fprintln(r.out, tbl)
		return err
	default:
		if !res.Matched {
			fmt.Fprintln(r.out, r.styles.Success.Render("Aucun marqueur détecté."))
			return nil
		}
		style := r.styles.Warning
		if res.Category == string(markers.Danger) {
			style = r.styles.Danger
		}
		fmt.Fprintf(r.out, "%s %s\n", style.Render(res.Label), r.styles.Meta.Render(fmt.Sprintf("(%q)", res.Keyword)))
		return nil
	}
}

func (r *Renderer) renderMoodsDefault(entries []mood.Entry) error {
	var current mood.Quadrant
	width := min(r.config.Width, 80) - 4
	for _, e := range entries {
		if e.Quadrant != current {
			current = e.Quadrant
			info, _ := mood.QuadrantFor(current)
			if current != entries[0].Quadrant {
				fmt.Fprintln(r.out)
			}
			title := r.styles.Title
			if r.config.Color {
				title = title.Foreground(lipgloss.Color(info.Background))
			}
			fmt.Fprintln(r.out, title.Render(info.Label))
			fmt.Fprintln(r.out, r.styles.Separator.Render(strings.Repeat("─", len([]rune(info.Label)))))
		}

		label := r.styles.Text.Bold(true)
		if r.config.Color {
			label = label.Foreground(lipgloss.Color(e.Color))
		}
		fmt.Fprintf(r.out, "%s %s\n", r.styles.ID.Render(e.ID), label.Render(e.Label))
		def := wordwrap.String(e.Definition, max(width, 20))
		for _, line := range strings.Split(def, "\n") {
			fmt.Fprintf(r.out, "    %s\n", r.styles.Meta.Render(line))
		}
	}
	return nil
}

func (r *Renderer) renderMoodsTable(entries []mood.Entry) error {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = uint(max(r.config.Width/2, 30))
	tbl.Wrap = true
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Humeur"), bold.Sprint("Quadrant"), bold.Sprint("Position"), bold.Sprint("Définition"))
	for _, e := range entries {
		tbl.AddRow(e.ID, e.Label, string(e.Quadrant), fmt.Sprintf("%.0f,%.0f", e.GX, e.GY), e.Definition)
	}
	_, err := fmt.Fprintln(r.out, tbl)
	return err
}

func (r *Renderer) renderMoodsCSV(entries []mood.Entry) error {
	fmt.Fprintln(r.out, "id,label,color,quadrant,gx,gy,definition")
	for _, e := range entries {
		fmt.Fprintf(r.out, "%s,%s,%s,%s,%g,%g,%s\n",
			escapeCSV(e.ID),
			escapeCSV(e.Label),
			escapeCSV(e.Color),
			escapeCSV(string(e.Quadrant)),
			e.GX, e.GY,
			escapeCSV(e.Definition),
		)
	}
	return nil
}

func (r *Renderer) renderJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// escapeCSV escapes a string for CSV output
func escapeCSV(s string) string {
	if strings.Contains(s, ",") || strings.Contains(s, "\"") || strings.Contains(s, "\n") {
		s = strings.ReplaceAll(s, "\"", "\"\"")
		return "\"" + s + "\""
	}
	return s
}
