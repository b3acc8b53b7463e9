package tables

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// manifestFile is the table-set descriptor expected at the root of a table set.
const manifestFile = "manifest.yaml"

//go:embed data/*.yaml
var defaultFS embed.FS

// loadDefault parses the embedded table set once per process.
//
//nolint:gochecknoglobals // One-time, read-only publication of the embedded tables.
var loadDefault = sync.OnceValues(func() (*Store, error) {
	sub, err := fs.Sub(defaultFS, "data")
	if err != nil {
		return nil, fmt.Errorf("opening embedded tables: %w", err)
	}
	return Load(sub)
})

// Manifest describes a table set.
type Manifest struct {
	// Version is the semantic version of the table set.
	Version string `yaml:"version" json:"version"`

	// Method names the calculation method the tables were published for.
	Method string `yaml:"method" json:"method"`

	// Description is free text shown by the CLI.
	Description string `yaml:"description" json:"description,omitempty"`
}

// Store is an immutable set of named reference tables.
type Store struct {
	manifest Manifest
	version  *semver.Version
	tables   map[string]*Table
}

// Table is a named ordered sequence of rows.
type Table struct {
	Name        string
	Description string
	Keys        []string
	Buckets     []string
	Rows        []Row
}

// Row is one table row: match keys, bucket bounds and outputs.
type Row struct {
	index   int
	keys    map[string]string
	buckets map[string]float64
	values  map[string]float64
	labels  map[string]string
}

type tableFile struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Keys        []string         `yaml:"keys"`
	Buckets     []string         `yaml:"buckets"`
	Rows        []map[string]any `yaml:"rows"`
}

// Default returns the table set embedded in the binary. The set is parsed on
// first use and shared afterwards.
func Default() (*Store, error) {
	return loadDefault()
}

// LoadDir loads a table set from a directory on disk.
func LoadDir(dir string) (*Store, error) {
	store, err := Load(os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("loading tables from %s: %w", dir, err)
	}
	return store, nil
}

// Load reads the manifest and every *.yaml table file at the root of fsys.
func Load(fsys fs.FS) (*Store, error) {
	raw, err := fs.ReadFile(fsys, manifestFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", manifestFile, err)
	}

	var manifest Manifest
	if err = yaml.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", manifestFile, err)
	}

	version, err := semver.NewVersion(manifest.Version)
	if err != nil {
		return nil, fmt.Errorf("%w: manifest version %q: %w", ErrInvalidTable, manifest.Version, err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("listing table files: %w", err)
	}

	store := &Store{
		manifest: manifest,
		version:  version,
		tables:   make(map[string]*Table, len(entries)),
	}

	for _, entry := range entries {
		name := entry.Name()
		ext := path.Ext(name)
		if entry.IsDir() || name == manifestFile || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		table, loadErr := loadTable(fsys, name)
		if loadErr != nil {
			return nil, loadErr
		}
		if _, dup := store.tables[table.Name]; dup {
			return nil, fmt.Errorf("%w: table %q declared twice (%s)", ErrInvalidTable, table.Name, name)
		}
		store.tables[table.Name] = table
	}

	return store, nil
}

func loadTable(fsys fs.FS, file string) (*Table, error) {
	raw, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("reading table file %s: %w", file, err)
	}

	var tf tableFile
	if err = yaml.Unmarshal(raw, &tf); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrInvalidTable, file, err)
	}
	if tf.Name == "" {
		tf.Name = strings.TrimSuffix(file, path.Ext(file))
	}

	table := &Table{
		Name:        tf.Name,
		Description: tf.Description,
		Keys:        tf.Keys,
		Buckets:     tf.Buckets,
		Rows:        make([]Row, 0, len(tf.Rows)),
	}

	for i, cells := range tf.Rows {
		row, rowErr := table.decodeRow(i, cells)
		if rowErr != nil {
			return nil, rowErr
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func (t *Table) decodeRow(index int, cells map[string]any) (Row, error) {
	row := Row{
		index:   index,
		keys:    make(map[string]string),
		buckets: make(map[string]float64),
		values:  make(map[string]float64),
		labels:  make(map[string]string),
	}

	for column, cell := range cells {
		if cell == nil {
			continue
		}

		switch {
		case contains(t.Keys, column):
			s, ok := scalarString(cell)
			if !ok {
				return Row{}, fmt.Errorf("%w: %s row %d: key %q is not a scalar", ErrInvalidTable, t.Name, index, column)
			}
			if s != "" {
				row.keys[column] = s
			}
		case contains(t.Buckets, column):
			f, ok := toFloat(cell)
			if !ok {
				return Row{}, fmt.Errorf("%w: %s row %d: bucket %q is not numeric", ErrInvalidTable, t.Name, index, column)
			}
			row.buckets[column] = f
		default:
			if f, ok := toFloat(cell); ok {
				row.values[column] = f
				continue
			}
			switch v := cell.(type) {
			case string:
				row.labels[column] = v
			case bool:
				row.values[column] = boolFloat(v)
			default:
				return Row{}, fmt.Errorf("%w: %s row %d: unsupported value for %q", ErrInvalidTable, t.Name, index, column)
			}
		}
	}

	return row, nil
}

// Manifest returns the table-set descriptor.
func (s *Store) Manifest() Manifest {
	return s.manifest
}

// Version returns the parsed table-set version.
func (s *Store) Version() *semver.Version {
	return s.version
}

// CheckVersion reports ErrIncompatibleVersion when the table set does not
// satisfy constraint. An empty constraint accepts any version.
func (s *Store) CheckVersion(constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("parsing table version constraint %q: %w", constraint, err)
	}
	if !c.Check(s.version) {
		return fmt.Errorf("%w: %s does not satisfy %q", ErrIncompatibleVersion, s.version, constraint)
	}
	return nil
}

// Names lists the loaded tables in alphabetical order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Table returns the named table or ErrTableNotFound.
func (s *Store) Table(name string) (*Table, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return t, nil
}

// Resolve returns the best row of the named table for the given criteria.
// An unknown table resolves to no row.
func (s *Store) Resolve(name string, c Criteria) (Row, bool) {
	t, ok := s.tables[name]
	if !ok {
		return Row{}, false
	}
	return t.Resolve(c)
}

// Index is the row position in the table declaration.
func (r Row) Index() int {
	return r.index
}

// Float returns a numeric output column.
func (r Row) Float(column string) (float64, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Label returns a textual output column.
func (r Row) Label(column string) (string, bool) {
	v, ok := r.labels[column]
	return v, ok
}

// Key returns the value of a key column, if the row constrains it.
func (r Row) Key(column string) (string, bool) {
	v, ok := r.keys[column]
	return v, ok
}

// Bucket returns the value of a bucket column, if the row declares it.
func (r Row) Bucket(column string) (float64, bool) {
	v, ok := r.buckets[column]
	return v, ok
}

// Cells renders every column of the row as text, keyed by column name.
func (r Row) Cells() map[string]string {
	cells := make(map[string]string, len(r.keys)+len(r.buckets)+len(r.values)+len(r.labels))
	for k, v := range r.keys {
		cells[k] = v
	}
	for k, v := range r.buckets {
		cells[k] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	for k, v := range r.values {
		cells[k] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	for k, v := range r.labels {
		cells[k] = v
	}
	return cells
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return "", false
	}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
