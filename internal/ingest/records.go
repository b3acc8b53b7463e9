// Package ingest reads sanitized dwelling records.
//
// A source is a single JSON document, a JSON array of documents, a stream
// of newline-delimited documents (NDJSON), or a directory walked for
// *.json, *.ndjson and *.jsonl files in lexical order.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rshade/dpe3cl/internal/dpe"
	"github.com/rshade/dpe3cl/internal/logging"
)

// ErrNoRecords is returned when a source holds no dwelling record.
var ErrNoRecords = errors.New("no dwelling records found")

// ErrInvalidRecord wraps a document that does not decode as a dwelling.
var ErrInvalidRecord = errors.New("invalid dwelling record")

// Record is one decoded dwelling and where it came from.
type Record struct {
	// Source is the file the record was read from, or "-" for stdin.
	Source string

	// Position is the 1-based index of the record within its source.
	Position int

	Dwelling *dpe.Dwelling
}

// Label identifies the record in reports: its DPE number when known,
// its source position otherwise.
func (r Record) Label() string {
	if r.Dwelling != nil && r.Dwelling.Number != "" {
		return r.Dwelling.Number
	}
	return fmt.Sprintf("%s#%d", r.Source, r.Position)
}

// Dwellings returns the dwellings of records, in order.
func Dwellings(records []Record) []*dpe.Dwelling {
	out := make([]*dpe.Dwelling, len(records))
	for i := range records {
		out[i] = records[i].Dwelling
	}
	return out
}

// Parse decodes every dwelling in data. A leading '[' selects the array
// form; otherwise documents are read one after another, which covers
// both a single document and NDJSON.
func Parse(ctx context.Context, source string, data []byte) ([]Record, error) {
	log := logging.FromContext(ctx)
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrNoRecords)
	}

	var records []Record
	if trimmed[0] == '[' {
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", source, ErrInvalidRecord, err)
		}
		for i, doc := range raw {
			d, err := decodeDwelling(doc)
			if err != nil {
				return nil, fmt.Errorf("%s record %d: %w", source, i+1, err)
			}
			records = append(records, Record{Source: source, Position: i + 1, Dwelling: d})
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		for pos := 1; ; pos++ {
			var doc json.RawMessage
			err := dec.Decode(&doc)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("%s record %d: %w: %w", source, pos, ErrInvalidRecord, err)
			}
			d, err := decodeDwelling(doc)
			if err != nil {
				return nil, fmt.Errorf("%s record %d: %w", source, pos, err)
			}
			records = append(records, Record{Source: source, Position: pos, Dwelling: d})
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrNoRecords)
	}
	log.Debug().
		Str(logging.FieldComponent, "ingest").
		Str(logging.FieldOperation, "parse").
		Str("source", source).
		Int("records", len(records)).
		Msg("dwelling records decoded")
	return records, nil
}

func decodeDwelling(doc json.RawMessage) (*dpe.Dwelling, error) {
	if t := bytes.TrimSpace(doc); len(t) == 0 || t[0] != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidRecord)
	}
	var d dpe.Dwelling
	if err := json.Unmarshal(doc, &d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	// Results of an earlier run are recomputed, never trusted.
	d.Outputs = nil
	return &d, nil
}

// ReadReader decodes every dwelling read from r.
func ReadReader(ctx context.Context, source string, r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	return Parse(ctx, source, data)
}

// ReadFile decodes every dwelling in the file at path.
func ReadFile(ctx context.Context, path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dwelling file: %w", err)
	}
	return Parse(ctx, path, data)
}

// IsRecordFile reports whether a directory walk picks up name.
func IsRecordFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".ndjson", ".jsonl":
		return true
	default:
		return false
	}
}

// ReadDir decodes every record file under dir, recursively, in lexical
// path order. Hidden directories are skipped.
func ReadDir(ctx context.Context, dir string) ([]Record, error) {
	log := logging.FromContext(ctx)
	var records []Record
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			if path != dir && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsRecordFile(entry.Name()) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		recs, err := ReadFile(ctx, path)
		if err != nil {
			return err
		}
		records = append(records, recs...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoRecords)
	}
	log.Debug().
		Str(logging.FieldComponent, "ingest").
		Str(logging.FieldOperation, "read_dir").
		Str("dir", dir).
		Int("records", len(records)).
		Msg("directory read")
	return records, nil
}

// Read decodes the records at path, which may be a file, a directory or
// "-" for stdin.
func Read(ctx context.Context, path string, stdin io.Reader) ([]Record, error) {
	if path == "-" {
		return ReadReader(ctx, "-", stdin)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading dwelling source: %w", err)
	}
	if info.IsDir() {
		return ReadDir(ctx, path)
	}
	return ReadFile(ctx, path)
}
