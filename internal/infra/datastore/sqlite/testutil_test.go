package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kawabatas/olympics-catalog/internal/domain/model"
)

// setupTestDB opens a fresh file-backed catalogue. A file is required: with
// the idle pool at 0 an in-memory database would vanish between calls.
func setupTestDB(t *testing.T) (*sql.DB, *Provider) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.sqlite")
	db, err := OpenAndInit(context.Background(), path)
	require.NoError(t, err)
	db.SetMaxIdleConns(0)
	t.Cleanup(func() { _ = db.Close() })
	return db, NewProvider(db)
}

// unavailable simulates a database that cannot be reached.
type unavailable struct{}

func (unavailable) Conn(context.Context) (*sql.Conn, error) {
	return nil, errors.New("unable to open database file")
}

// fixture is a small referencing graph: one event for one sport in one
// games, with one athlete of one team taking part.
type fixture struct {
	sport, games, event, athlete, team int64
}

func seedGraph(t *testing.T, p ConnProvider) fixture {
	t.Helper()
	ctx := context.Background()
	var f fixture
	var err error

	f.sport, err = NewSportRepo(p).Insert(ctx, model.Sport{Name: "Swimming"})
	require.NoError(t, err)
	f.games, err = NewGamesRepo(p).Insert(ctx, model.Games{Name: "2008 Summer", Year: 2008, Season: model.SeasonSummer, City: "Beijing"})
	require.NoError(t, err)
	f.event, err = NewEventRepo(p).Insert(ctx, model.Event{Name: "100m Butterfly", GamesID: f.games, SportID: f.sport})
	require.NoError(t, err)
	f.athlete, err = NewAthleteRepo(p).Insert(ctx, model.Athlete{Name: "Michael Phelps", Sex: model.SexMale, Weight: 88, Height: 193})
	require.NoError(t, err)
	f.team, err = NewTeamRepo(p).Insert(ctx, model.Team{Name: "United States", Initials: "USA"})
	require.NoError(t, err)
	err = NewParticipationRepo(p).Insert(ctx, model.Participation{
		AthleteID: f.athlete, EventID: f.event, TeamID: f.team, Age: 23, Medal: model.MedalGold,
	})
	require.NoError(t, err)
	return f
}
