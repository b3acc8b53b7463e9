package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rshade/dpe3cl/internal/config"
	"github.com/rshade/dpe3cl/internal/greenops"
	"github.com/rshade/dpe3cl/internal/tables"
)

// ErrNoMatchingRow is returned by "tables resolve" when no row matches.
var ErrNoMatchingRow = errors.New("no matching row")

// ErrInvalidCriterion is returned for a resolve argument that is neither
// key=value nor column~=number.
var ErrInvalidCriterion = errors.New("invalid criterion")

type tablesFlags struct {
	tablesDir string
	output    string
}

func newTablesCmd() *cobra.Command {
	var flags tablesFlags

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Inspect the reference tables",
		Long:  "List, print and query the reference tables used by the engine.",
	}
	cmd.PersistentFlags().StringVar(&flags.tablesDir, "tables-dir", "", "load reference tables from this directory")
	cmd.PersistentFlags().StringVarP(&flags.output, "output", "o", config.FormatTable, "output format: table or json")

	cmd.AddCommand(newTablesListCmd(&flags), newTablesShowCmd(&flags), newTablesResolveCmd(&flags))
	return cmd
}

func newTablesListCmd(flags *tablesFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the loaded tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := flags.store(cmd)
			if err != nil {
				return err
			}
			return renderTableList(cmd.OutOrStdout(), flags.output, store)
		},
	}
}

func newTablesShowCmd(flags *tablesFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "show NAME",
		Short:   "Print every row of a table",
		Example: "  dpe3cl tables show energie",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := flags.store(cmd)
			if err != nil {
				return err
			}
			t, err := store.Table(args[0])
			if err != nil {
				return err
			}
			return renderRows(cmd.OutOrStdout(), flags.output, t, t.Rows)
		},
	}
}

func newTablesResolveCmd(flags *tablesFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve NAME CRITERION...",
		Short: "Resolve the row the engine would select",
		Long: `Resolve the row the engine would select for the given criteria.

A criterion is either key=value for a categorical column or column~=number
for a numeric bucket column, which snaps to the nearest declared value.`,
		Example: `  dpe3cl tables resolve energie enum_type_energie_id=2
  dpe3cl tables resolve ug enum_type_vitrage_id=2 vitrage_vir=0 enum_type_gaz_lame_id=1 epaisseur_lame~=13`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := parseCriteria(args[1:])
			if err != nil {
				return err
			}
			store, err := flags.store(cmd)
			if err != nil {
				return err
			}
			t, err := store.Table(args[0])
			if err != nil {
				return err
			}
			row, ok := t.Resolve(criteria)
			if !ok {
				return fmt.Errorf("%w in %s for %s", ErrNoMatchingRow, t.Name, criteria)
			}
			return renderRows(cmd.OutOrStdout(), flags.output, t, []tables.Row{row})
		},
	}
}

// store loads the table set named by --tables-dir, falling back to the
// configured directory and then to the embedded tables.
func (f *tablesFlags) store(cmd *cobra.Command) (*tables.Store, error) {
	ec := config.GetGlobalConfig().Engine
	if cmd.Flags().Changed("tables-dir") {
		ec.TablesDir = f.tablesDir
	}
	return loadTables(cmd.Context(), ec)
}

// parseCriteria turns key=value and column~=number arguments into Criteria.
func parseCriteria(args []string) (tables.Criteria, error) {
	var c tables.Criteria
	for _, arg := range args {
		if column, raw, ok := strings.Cut(arg, "~="); ok {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || column == "" {
				return c, fmt.Errorf("%w: %q", ErrInvalidCriterion, arg)
			}
			c = c.Near(column, v)
			continue
		}
		column, value, ok := strings.Cut(arg, "=")
		if !ok || column == "" || value == "" {
			return c, fmt.Errorf("%w: %q", ErrInvalidCriterion, arg)
		}
		c = c.And(column, value)
	}
	return c, nil
}

type tableSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Keys        []string `json:"keys"`
	Buckets     []string `json:"buckets"`
	Rows        int      `json:"rows"`
}

func renderTableList(w io.Writer, format string, store *tables.Store) error {
	names := store.Names()
	summaries := make([]tableSummary, 0, len(names))
	for _, name := range names {
		t, err := store.Table(name)
		if err != nil {
			return err
		}
		summaries = append(summaries, tableSummary{
			Name:        t.Name,
			Description: t.Description,
			Keys:        t.Keys,
			Buckets:     t.Buckets,
			Rows:        len(t.Rows),
		})
	}

	if format == config.FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Manifest tables.Manifest `json:"manifest"`
			Tables   []tableSummary  `json:"tables"`
		}{store.Manifest(), summaries})
	}

	re := lipgloss.NewRenderer(w)
	title := re.NewStyle().Bold(true)
	header := re.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))

	m := store.Manifest()
	var b strings.Builder
	b.WriteString(title.Render(fmt.Sprintf("%s tables %s", m.Method, m.Version)))
	b.WriteString("\n\n")
	b.WriteString(header.Render(joinColumns(pad("NAME", 28), padLeft("ROWS", 6), "DESCRIPTION")))
	b.WriteString("\n")
	for _, s := range summaries {
		b.WriteString(joinColumns(pad(s.Name, 28), padLeft(greenops.FormatNumber(int64(s.Rows)), 6), s.Description))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// rowColumns orders the columns of rows: declared keys, then buckets, then
// the remaining output columns alphabetically.
func rowColumns(t *tables.Table, cells []map[string]string) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, c := range append(append([]string{}, t.Keys...), t.Buckets...) {
		if !seen[c] {
			seen[c] = true
			columns = append(columns, c)
		}
	}
	var rest []string
	for _, row := range cells {
		for c := range row {
			if !seen[c] {
				seen[c] = true
				rest = append(rest, c)
			}
		}
	}
	sort.Strings(rest)
	return append(columns, rest...)
}

func renderRows(w io.Writer, format string, t *tables.Table, rows []tables.Row) error {
	cells := make([]map[string]string, len(rows))
	for i, r := range rows {
		cells[i] = r.Cells()
	}

	if format == config.FormatJSON {
		type jsonRow struct {
			Index int               `json:"index"`
			Cells map[string]string `json:"cells"`
		}
		out := make([]jsonRow, len(rows))
		for i, r := range rows {
			out[i] = jsonRow{Index: r.Index(), Cells: cells[i]}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	columns := rowColumns(t, cells)
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = lipgloss.Width(c)
		for _, row := range cells {
			widths[i] = max(widths[i], lipgloss.Width(row[c]))
		}
	}

	re := lipgloss.NewRenderer(w)
	header := re.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	dim := re.NewStyle().Faint(true)

	var b strings.Builder
	head := make([]string, len(columns)+1)
	head[0] = pad("#", 4)
	for i, c := range columns {
		head[i+1] = pad(c, widths[i])
	}
	b.WriteString(header.Render(joinColumns(head...)))
	b.WriteString("\n")
	for ri, row := range cells {
		line := make([]string, len(columns)+1)
		line[0] = pad(strconv.Itoa(rows[ri].Index()), 4)
		for i, c := range columns {
			v, ok := row[c]
			if !ok {
				line[i+1] = dim.Render(pad("*", widths[i]))
				continue
			}
			line[i+1] = pad(v, widths[i])
		}
		b.WriteString(joinColumns(line...))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
