package ingest_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/dpe3cl/internal/ingest"
)

const wallRecord = `{
  "numero_dpe": "2213E0696993Z",
  "meteo": {"enum_zone_climatique_id": "8", "enum_classe_altitude_id": "1"},
  "enveloppe": {"mur_collection": [{
    "reference": "mur-1",
    "enum_type_adjacence_id": "14",
    "surface_paroi_opaque": 12.5,
    "enum_materiaux_structure_mur_id": "1",
    "enum_methode_saisie_u0_id": "1",
    "enum_methode_saisie_u_id": "2"
  }]},
  "sortie": {"version_tables": "0.0.1"}
}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestParse(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		data    string
		numbers []string
		wantErr error
	}{
		{name: "single document", data: wallRecord, numbers: []string{"2213E0696993Z"}},
		{name: "array", data: `[{"numero_dpe":"a"},{"numero_dpe":"b"}]`, numbers: []string{"a", "b"}},
		{name: "ndjson", data: "{\"numero_dpe\":\"a\"}\n{\"numero_dpe\":\"b\"}\n\n{\"numero_dpe\":\"c\"}\n", numbers: []string{"a", "b", "c"}},
		{name: "empty", data: "  \n", wantErr: ingest.ErrNoRecords},
		{name: "empty array", data: "[]", wantErr: ingest.ErrNoRecords},
		{name: "malformed", data: `{"numero_dpe": `, wantErr: ingest.ErrInvalidRecord},
		{name: "not an object", data: `[1, 2]`, wantErr: ingest.ErrInvalidRecord},
		{name: "wrong field type", data: `{"numero_dpe": 12}`, wantErr: ingest.ErrInvalidRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ingest.Parse(ctx, "test.json", []byte(tt.data))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, records, len(tt.numbers))
			for i, rec := range records {
				assert.Equal(t, tt.numbers[i], rec.Dwelling.Number)
				assert.Equal(t, i+1, rec.Position)
				assert.Equal(t, "test.json", rec.Source)
			}
		})
	}
}

func TestParse_DropsPreviousOutputs(t *testing.T) {
	records, err := ingest.Parse(context.Background(), "x.json", []byte(wallRecord))
	require.NoError(t, err)
	d := records[0].Dwelling
	assert.Nil(t, d.Outputs)
	require.Len(t, d.Envelope.Walls, 1)
	assert.Equal(t, "14", d.Envelope.Walls[0].AdjacencyType)
	assert.InDelta(t, 12.5, d.Envelope.Walls[0].Surface, 1e-12)
}

func TestRecord_Label(t *testing.T) {
	records, err := ingest.Parse(context.Background(), "in.ndjson", []byte("{\"numero_dpe\":\"n1\"}\n{}\n"))
	require.NoError(t, err)
	assert.Equal(t, "n1", records[0].Label())
	assert.Equal(t, "in.ndjson#2", records[1].Label())
	assert.Len(t, ingest.Dwellings(records), 2)
}

func TestReadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.json"), `{"numero_dpe":"b"}`)
	writeFile(t, filepath.Join(dir, "a.ndjson"), "{\"numero_dpe\":\"a1\"}\n{\"numero_dpe\":\"a2\"}\n")
	writeFile(t, filepath.Join(dir, "sub", "c.jsonl"), `{"numero_dpe":"c"}`)
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(dir, ".cache", "d.json"), `{"numero_dpe":"hidden"}`)

	records, err := ingest.ReadDir(context.Background(), dir)
	require.NoError(t, err)

	var numbers []string
	for _, r := range records {
		numbers = append(numbers, r.Dwelling.Number)
	}
	assert.Equal(t, []string{"a1", "a2", "b", "c"}, numbers)

	t.Run("empty directory", func(t *testing.T) {
		_, err := ingest.ReadDir(context.Background(), t.TempDir())
		require.ErrorIs(t, err, ingest.ErrNoRecords)
	})

	t.Run("bad file stops the walk", func(t *testing.T) {
		bad := t.TempDir()
		writeFile(t, filepath.Join(bad, "x.json"), "{")
		_, err := ingest.ReadDir(context.Background(), bad)
		require.ErrorIs(t, err, ingest.ErrInvalidRecord)
	})
}

func TestRead(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	file := filepath.Join(dir, "one.json")
	writeFile(t, file, wallRecord)

	records, err := ingest.Read(ctx, file, nil)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	records, err = ingest.Read(ctx, dir, nil)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	records, err = ingest.Read(ctx, "-", strings.NewReader(`[{"numero_dpe":"stdin"}]`))
	require.NoError(t, err)
	assert.Equal(t, "-", records[0].Source)

	_, err = ingest.Read(ctx, filepath.Join(dir, "missing.json"), nil)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestIsRecordFile(t *testing.T) {
	assert.True(t, ingest.IsRecordFile("a.JSON"))
	assert.True(t, ingest.IsRecordFile("a.jsonl"))
	assert.False(t, ingest.IsRecordFile("a.yaml"))
}
