package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/dpe3cl/internal/config"
	"github.com/rshade/dpe3cl/internal/dpe"
	"github.com/rshade/dpe3cl/internal/greenops"
)

// recordResult is one evaluated record as rendered by calc and batch.
type recordResult struct {
	Label   string
	Source  string
	Outputs *dpe.Outputs
	Err     error
}

// recordLine is the JSON shape of one record in array and NDJSON output.
type recordLine struct {
	Number  string       `json:"numero_dpe"`
	Source  string       `json:"source,omitempty"`
	Status  string       `json:"statut"`
	Error   string       `json:"erreur,omitempty"`
	Outputs *dpe.Outputs `json:"sortie,omitempty"`
}

const (
	statusOK     = "ok"
	statusFailed = "echec"
)

func (r recordResult) line() recordLine {
	l := recordLine{Number: r.Label, Source: r.Source, Status: statusOK, Outputs: r.Outputs}
	if r.Err != nil {
		l.Status = statusFailed
		l.Error = r.Err.Error()
	}
	return l
}

// renderResults writes results in the requested format.
func renderResults(w io.Writer, format string, precision int, results []recordResult) error {
	switch format {
	case config.FormatNDJSON:
		return renderNDJSON(w, results)
	case config.FormatTable:
		return renderTable(w, precision, results)
	default:
		return renderJSON(w, results)
	}
}

// renderJSON prints the outputs of a single successful record as is, and
// any other result set as an array of records.
func renderJSON(w io.Writer, results []recordResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(results) == 1 && results[0].Err == nil {
		return enc.Encode(results[0].Outputs)
	}
	lines := make([]recordLine, len(results))
	for i, r := range results {
		lines[i] = r.line()
	}
	return enc.Encode(lines)
}

func renderNDJSON(w io.Writer, results []recordResult) error {
	enc := json.NewEncoder(w)
	for _, r := range results {
		if err := enc.Encode(r.line()); err != nil {
			return err
		}
	}
	return nil
}

// Table layout.
const (
	colRecord  = 24
	colNumber  = 12
	colClass   = 7
	colStatus  = 8
	maxErrText = 60
)

//nolint:gochecknoglobals // read-only palette
var classColors = map[string]lipgloss.Color{
	"A": lipgloss.Color("28"),
	"B": lipgloss.Color("34"),
	"C": lipgloss.Color("112"),
	"D": lipgloss.Color("226"),
	"E": lipgloss.Color("214"),
	"F": lipgloss.Color("208"),
	"G": lipgloss.Color("196"),
}

// renderTable prints one row per record with the label indicators. The
// renderer follows w, so colour only reaches terminals.
func renderTable(w io.Writer, precision int, results []recordResult) error {
	re := lipgloss.NewRenderer(w)
	header := re.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	cell := re.NewStyle()
	failed := re.NewStyle().Foreground(lipgloss.Color("196"))

	var b strings.Builder
	b.WriteString(header.Render(joinColumns(
		pad("DPE", colRecord),
		padLeft("GV W/K", colNumber),
		padLeft("Cep/m2", colNumber),
		padLeft("GES/m2", colNumber),
		pad("Ener.", colClass),
		pad("GES", colClass),
		pad("Label", colClass),
		padLeft("Diag.", colClass),
		pad("Status", colStatus),
	)))
	b.WriteString("\n")

	for _, r := range results {
		if r.Outputs == nil {
			b.WriteString(failed.Render(joinColumns(pad(r.Label, colRecord), truncate(errText(r.Err), maxErrText))))
			b.WriteString("\n")
			continue
		}
		o := r.Outputs
		status := cell.Render(pad(statusOK, colStatus))
		if r.Err != nil {
			status = failed.Render(pad(statusFailed, colStatus))
		}
		b.WriteString(joinColumns(
			cell.Render(pad(r.Label, colRecord)),
			cell.Render(padLeft(greenops.FormatFloat(float64(o.Losses.GV), precision), colNumber)),
			cell.Render(padLeft(greenops.FormatFloat(float64(o.Labels.PrimaryPerM2), 0), colNumber)),
			cell.Render(padLeft(greenops.FormatFloat(float64(o.Labels.EmissionPerM2), 0), colNumber)),
			badge(re, o.Labels.EnergyClass, colClass),
			badge(re, o.Labels.EmissionClass, colClass),
			badge(re, o.Labels.Class, colClass),
			cell.Render(padLeft(greenops.FormatNumber(int64(len(o.Diagnostics))), colClass)),
			status,
		))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// badge renders a label letter on its class colour, or "-" when the label
// is undefined.
func badge(re *lipgloss.Renderer, class string, width int) string {
	if class == "" {
		return pad("-", width)
	}
	style := re.NewStyle().Bold(true).Foreground(lipgloss.Color("0"))
	if c, ok := classColors[class]; ok {
		style = style.Background(c)
	}
	return style.Render(" "+class+" ") + strings.Repeat(" ", max(0, width-3))
}

func joinColumns(cols ...string) string {
	return strings.Join(cols, " ")
}

func pad(s string, width int) string {
	s = truncate(s, width)
	return s + strings.Repeat(" ", max(0, width-lipgloss.Width(s)))
}

func padLeft(s string, width int) string {
	return strings.Repeat(" ", max(0, width-lipgloss.Width(s))) + s
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// writeSummary prints the batch outcome counts and, when any record
// succeeded, the yearly totals of the successful records.
func writeSummary(w io.Writer, results []recordResult) {
	var (
		succeeded          int
		primary, emissions float64
	)
	for _, r := range results {
		if r.Err != nil || r.Outputs == nil {
			continue
		}
		succeeded++
		if v := r.Outputs.Primary.Total; v.Defined() {
			primary += float64(v)
		}
		if v := r.Outputs.Emissions.Total; v.Defined() {
			emissions += float64(v)
		}
	}
	total := len(results)
	_, _ = fmt.Fprintf(w, "%s records, %s succeeded, %s failed\n",
		greenops.FormatNumber(int64(total)), greenops.FormatNumber(int64(succeeded)),
		greenops.FormatNumber(int64(total-succeeded)))
	if succeeded > 0 {
		_, _ = fmt.Fprintf(w, "primary energy %s kWh/year, emissions %s kgCO2e/year\n",
			greenops.FormatLarge(primary), greenops.FormatLarge(emissions))
	}
}
