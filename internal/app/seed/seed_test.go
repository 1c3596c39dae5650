package seed

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kawabatas/olympics-catalog/internal/infra/datastore"
)

func openStore(t *testing.T) datastore.DataStore {
	t.Helper()
	ds, err := datastore.Open(context.Background(), datastore.Config{
		Path:     filepath.Join(t.TempDir(), "catalog.sqlite"),
		Strategy: datastore.NoopSnapshotStrategy{},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ds.Close() })
	return ds
}

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	ds := openStore(t)
	doc, err := ParseFile("testdata/olympics.yaml")
	require.NoError(t, err)

	rep, err := Apply(ctx, ds, doc)
	require.NoError(t, err)
	assert.Equal(t, Counts{Inserted: 2}, rep.Sports)
	assert.Equal(t, Counts{Inserted: 3}, rep.Events)
	assert.Equal(t, Counts{Inserted: 3}, rep.Participations)

	rep, err = Apply(ctx, ds, doc)
	require.NoError(t, err)
	assert.Equal(t, Counts{Skipped: 2}, rep.Athletes)
	assert.Equal(t, Counts{Skipped: 3}, rep.Events)
	assert.Equal(t, Counts{Skipped: 3}, rep.Participations)

	bolt, err := ds.Athletes().SearchByName(ctx, "Bolt")
	require.NoError(t, err)
	require.Len(t, bolt, 1)
	parts, err := ds.Participations().ListByAthlete(ctx, bolt[0].ID)
	require.NoError(t, err)
	assert.Len(t, parts, 2)
}

func TestApplyUnknownReference(t *testing.T) {
	doc, err := Parse(strings.NewReader(`
games:
  - {name: 1896 Summer, year: 1896, season: Summer, city: Athina}
events:
  - {name: Marathon, games: 1896 Summer, sport: Athletics}
`))
	require.NoError(t, err)
	_, err = Apply(context.Background(), openStore(t), doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown sport "Athletics"`)
}

func TestApplyUnknownParticipationReference(t *testing.T) {
	base := `
sports: [{name: Athletics}]
teams: [{name: Greece, initials: GRE}]
games: [{name: 1896 Summer, year: 1896, season: Summer, city: Athina}]
athletes: [{name: Spyridon Louis, sex: M, weight: 60, height: 170}]
events: [{name: Marathon, games: 1896 Summer, sport: Athletics}]
participations:
`
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"athlete", "  - {athlete: Nobody, games: 1896 Summer, event: Marathon, team: Greece, age: 23}", `unknown athlete "Nobody"`},
		{"event", "  - {athlete: Spyridon Louis, games: 1896 Summer, event: Discus, team: Greece, age: 23}", `unknown event "Discus" at games "1896 Summer"`},
		{"team", "  - {athlete: Spyridon Louis, games: 1896 Summer, event: Marathon, team: Hellas, age: 23}", `unknown team "Hellas"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(strings.NewReader(base + tt.row + "\n"))
			require.NoError(t, err)
			_, err = Apply(context.Background(), openStore(t), doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestApplyInvalidRow(t *testing.T) {
	doc, err := Parse(strings.NewReader("teams:\n  - {name: Soviet Union, initials: URSS}\n"))
	require.NoError(t, err)
	_, err = Apply(context.Background(), openStore(t), doc)
	assert.Error(t, err)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader("sport:\n  - name: Judo\n"))
	assert.Error(t, err)

	doc, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, doc.Sports)
}

func TestDumpRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := openStore(t)
	doc, err := ParseFile("testdata/olympics.yaml")
	require.NoError(t, err)
	_, err = Apply(ctx, src, doc)
	require.NoError(t, err)

	dumped, err := Dump(ctx, src)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, dumped))

	again, err := Parse(&buf)
	require.NoError(t, err)
	dst := openStore(t)
	rep, err := Apply(ctx, dst, again)
	require.NoError(t, err)
	assert.Equal(t, Counts{Inserted: 3}, rep.Participations)
	assert.Equal(t, Counts{Inserted: 2}, rep.Teams)
}
