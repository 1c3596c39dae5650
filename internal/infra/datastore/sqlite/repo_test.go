package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kawabatas/olympics-catalog/internal/domain/model"
	"github.com/kawabatas/olympics-catalog/internal/domain/repository"
)

func TestSportRoundTrip(t *testing.T) {
	_, p := setupTestDB(t)
	ctx := context.Background()
	repo := NewSportRepo(p)

	in := model.Sport{Name: "Fencing"}
	id, err := repo.Insert(ctx, in)
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.Zero(t, in.ID, "insert must not touch the caller's record")

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	in.ID = id
	assert.Equal(t, in, got)
}

func TestAthleteRoundTrip(t *testing.T) {
	_, p := setupTestDB(t)
	ctx := context.Background()
	repo := NewAthleteRepo(p)

	tests := []struct {
		name string
		in   model.Athlete
	}{
		{"with photo", model.Athlete{Name: "Carolina Marin", Sex: model.SexFemale, Weight: 65, Height: 172, Photo: []byte{0x89, 'P', 'N', 'G', 0x00, 0x01}}},
		{"without photo", model.Athlete{Name: "Rafael Nadal", Sex: model.SexMale, Weight: 85, Height: 185}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := repo.Insert(ctx, tt.in)
			require.NoError(t, err)

			got, err := repo.GetByID(ctx, id)
			require.NoError(t, err)
			want := tt.in
			want.ID = id
			assert.Equal(t, want, got)
		})
	}
}

func TestGamesAndTeamRoundTrip(t *testing.T) {
	_, p := setupTestDB(t)
	ctx := context.Background()

	g := model.Games{Name: "1992 Summer", Year: 1992, Season: model.SeasonSummer, City: "Barcelona"}
	gid, err := NewGamesRepo(p).Insert(ctx, g)
	require.NoError(t, err)
	gotG, err := NewGamesRepo(p).GetByID(ctx, gid)
	require.NoError(t, err)
	g.ID = gid
	assert.Equal(t, g, gotG)

	tm := model.Team{Name: "Spain", Initials: "ESP"}
	tid, err := NewTeamRepo(p).Insert(ctx, tm)
	require.NoError(t, err)
	gotT, err := NewTeamRepo(p).GetByID(ctx, tid)
	require.NoError(t, err)
	tm.ID = tid
	assert.Equal(t, tm, gotT)
}

func TestListCompleteness(t *testing.T) {
	_, p := setupTestDB(t)
	ctx := context.Background()
	repo := NewSportRepo(p)

	const n = 5
	want := map[int64]string{}
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("Sport %d", i)
		id, err := repo.Insert(ctx, model.Sport{Name: name})
		require.NoError(t, err)
		want[id] = name
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, n)
	got := map[int64]string{}
	for _, s := range list {
		got[s.ID] = s.Name
	}
	assert.Equal(t, want, got)
}

func TestListEmptyIsNotNil(t *testing.T) {
	_, p := setupTestDB(t)
	list, err := NewTeamRepo(p).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestGetByIDNotFound(t *testing.T) {
	_, p := setupTestDB(t)
	_, err := NewSportRepo(p).GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestIsDeletableGating(t *testing.T) {
	_, p := setupTestDB(t)
	ctx := context.Background()
	f := seedGraph(t, p)

	referenced := []struct {
		name  string
		check func() (bool, error)
	}{
		{"sport used by event", func() (bool, error) { return NewSportRepo(p).IsDeletable(ctx, model.Sport{ID: f.sport}) }},
		{"games used by event", func() (bool, error) { return NewGamesRepo(p).IsDeletable(ctx, model.Games{ID: f.games}) }},
		{"event used by participation", func() (bool, error) { return NewEventRepo(p).IsDeletable(ctx, model.Event{ID: f.event}) }},
		{"athlete used by participation", func() (bool, error) {
			return NewAthleteRepo(p).IsDeletable(ctx, model.Athlete{ID: f.athlete})
		}},
		{"team used by participation", func() (bool, error) { return NewTeamRepo(p).IsDeletable(ctx, model.Team{ID: f.team}) }},
	}
	for _, tt := range referenced {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := tt.check()
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}

	free, err := NewSportRepo(p).Insert(ctx, model.Sport{Name: "Curling"})
	require.NoError(t, err)
	ok, err := NewSportRepo(p).IsDeletable(ctx, model.Sport{ID: free})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsDeletableChecksEveryReference(t *testing.T) {
	db, p := setupTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `CREATE TABLE Medallero (id_deporte INTEGER NOT NULL REFERENCES Deporte(id_deporte))`)
	require.NoError(t, err)
	table := sportTable
	table.References = append([]Reference{}, sportTable.References...)
	table.References = append(table.References, Reference{Table: "Medallero", Column: "id_deporte"})
	repo := NewRepo(p, table)

	id, err := repo.Insert(ctx, model.Sport{Name: "Rowing"})
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO Medallero (id_deporte) VALUES (?)`, id)
	require.NoError(t, err)

	// Evento holds no row for the sport; only the second reference matches.
	ok, err := repo.IsDeletable(ctx, model.Sport{ID: id})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsDeletableFailsClosed(t *testing.T) {
	db, p := setupTestDB(t)
	ctx := context.Background()
	id, err := NewSportRepo(p).Insert(ctx, model.Sport{Name: "Boxing"})
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `DROP TABLE Participacion`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `DROP TABLE Evento`)
	require.NoError(t, err)

	ok, err := NewSportRepo(p).IsDeletable(ctx, model.Sport{ID: id})
	assert.False(t, ok)
	assert.ErrorIs(t, err, repository.ErrQueryFailed)

	ok, err = NewSportRepo(unavailable{}).IsDeletable(ctx, model.Sport{ID: id})
	assert.False(t, ok)
	assert.ErrorIs(t, err, repository.ErrStorageUnavailable)

	ok, err = NewSportRepo(p).IsDeletable(ctx, model.Sport{Name: "transient"})
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestDeleteEffect(t *testing.T) {
	_, p := setupTestDB(t)
	ctx := context.Background()
	repo := NewSportRepo(p)

	id, err := repo.Insert(ctx, model.Sport{Name: "Archery"})
	require.NoError(t, err)
	s, err := repo.GetByID(ctx, id)
	require.NoError(t, err)

	ok, err := repo.IsDeletable(ctx, s)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, repo.Delete(ctx, s))

	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, s), repository.ErrNotFound)
}

func TestUpdateFullReplace(t *testing.T) {
	_, p := setupTestDB(t)
	ctx := context.Background()
	repo := NewAthleteRepo(p)

	original := model.Athlete{Name: "Old Name", Sex: model.SexFemale, Weight: 60, Height: 165, Photo: []byte("jpeg")}
	id, err := repo.Insert(ctx, original)
	require.NoError(t, err)
	original.ID = id

	replacement := model.Athlete{Name: "New Name", Sex: model.SexMale, Weight: 90, Height: 190}
	require.NoError(t, repo.Update(ctx, original, replacement))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	replacement.ID = id
	assert.Equal(t, replacement, got, "every field comes from the replacement, photo included")
}

func TestUpdateMissingRow(t *testing.T) {
	_, p := setupTestDB(t)
	err := NewSportRepo(p).Update(context.Background(), model.Sport{ID: 99}, model.Sport{Name: "Polo"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestInsertFailureSentinel(t *testing.T) {
	ctx := context.Background()

	id, err := NewSportRepo(unavailable{}).Insert(ctx, model.Sport{Name: "Judo"})
	assert.Equal(t, model.InvalidID, id)
	assert.Equal(t, repository.KindStorageUnavailable, repository.KindOf(err))

	_, p := setupTestDB(t)
	id, err = NewAthleteRepo(p).Insert(ctx, model.Athlete{Name: "bad", Sex: "X", Weight: 1, Height: 1})
	assert.Equal(t, model.InvalidID, id)
	assert.ErrorIs(t, err, repository.ErrQueryFailed)
	// CHECK 制約違反は整合性エラーとしても分類される
	assert.Equal(t, repository.KindIntegrityViolation, repository.KindOf(err))
}

func TestUnavailableStorage(t *testing.T) {
	ctx := context.Background()
	repo := NewSportRepo(unavailable{})

	list, err := repo.List(ctx)
	assert.ErrorIs(t, err, repository.ErrStorageUnavailable)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = repo.GetByID(ctx, 1)
	assert.ErrorIs(t, err, repository.ErrStorageUnavailable)
	assert.ErrorIs(t, repo.Update(ctx, model.Sport{ID: 1}, model.Sport{Name: "x"}), repository.ErrStorageUnavailable)
	assert.ErrorIs(t, repo.Delete(ctx, model.Sport{ID: 1}), repository.ErrStorageUnavailable)
}

func TestDeleteIfUnreferenced(t *testing.T) {
	_, p := setupTestDB(t)
	ctx := context.Background()
	f := seedGraph(t, p)
	sports := NewSportRepo(p)

	err := sports.DeleteIfUnreferenced(ctx, model.Sport{ID: f.sport})
	assert.ErrorIs(t, err, repository.ErrIntegrityViolation)
	_, err = sports.GetByID(ctx, f.sport)
	assert.NoError(t, err, "referenced sport must survive")

	free, err := sports.Insert(ctx, model.Sport{Name: "Sailing"})
	require.NoError(t, err)
	require.NoError(t, sports.DeleteIfUnreferenced(ctx, model.Sport{ID: free}))
	_, err = sports.GetByID(ctx, free)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, sports.DeleteIfUnreferenced(ctx, model.Sport{ID: free}), repository.ErrNotFound)
}

func TestSearchByName(t *testing.T) {
	_, p := setupTestDB(t)
	ctx := context.Background()
	repo := NewAthleteRepo(p)
	for _, name := range []string{"Usain Bolt", "Yohan Blake", "Bolt_Imitator"} {
		_, err := repo.Insert(ctx, model.Athlete{Name: name, Sex: model.SexMale, Weight: 80, Height: 190})
		require.NoError(t, err)
	}

	got, err := repo.SearchByName(ctx, "bolt")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	all, err := repo.SearchByName(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSearchByNameMatchesWildcardsLiterally(t *testing.T) {
	_, p := setupTestDB(t)
	ctx := context.Background()
	repo := NewAthleteRepo(p)
	for _, name := range []string{"O_Brien", "OxBrien", "Runner 100%", "Runner 1000", `Back\slash`} {
		_, err := repo.Insert(ctx, model.Athlete{Name: name, Sex: model.SexMale, Weight: 80, Height: 180})
		require.NoError(t, err)
	}

	tests := []struct {
		q    string
		want []string
	}{
		{q: "O_B", want: []string{"O_Brien"}},
		{q: "100%", want: []string{"Runner 100%"}},
		{q: `k\s`, want: []string{`Back\slash`}},
		{q: "obrien", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			got, err := repo.SearchByName(ctx, tt.q)
			require.NoError(t, err)
			var names []string
			for _, a := range got {
				names = append(names, a.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestEventsFilteredBySportAndGames(t *testing.T) {
	_, p := setupTestDB(t)
	ctx := context.Background()
	f := seedGraph(t, p)
	events := NewEventRepo(p)

	other, err := NewSportRepo(p).Insert(ctx, model.Sport{Name: "Diving"})
	require.NoError(t, err)
	_, err = events.Insert(ctx, model.Event{Name: "10m Platform", GamesID: f.games, SportID: other})
	require.NoError(t, err)

	bySport, err := events.ListBySport(ctx, f.sport)
	require.NoError(t, err)
	require.Len(t, bySport, 1)
	assert.Equal(t, f.event, bySport[0].ID)

	byGames, err := events.ListByGames(ctx, f.games)
	require.NoError(t, err)
	assert.Len(t, byGames, 2)
}

func TestListWhereRejectsUnknownColumn(t *testing.T) {
	_, p := setupTestDB(t)
	list, err := NewSportRepo(p).ListWhere(context.Background(), Filter{Column: "nombre; DROP TABLE Deporte", Value: 1})
	assert.ErrorIs(t, err, repository.ErrQueryFailed)
	assert.NotNil(t, list)
}

func TestTableSQL(t *testing.T) {
	assert.Equal(t, "SELECT id_deportista, nombre, sexo, peso, altura, foto FROM Deportista", athleteTable.selectSQL())
	assert.Equal(t, "INSERT INTO Deportista (nombre, sexo, peso, altura, foto) VALUES (?, ?, ?, ?, ?)", athleteTable.insertSQL())
	assert.Equal(t, "UPDATE Deportista SET nombre = ?, sexo = ?, peso = ?, altura = ?, foto = ? WHERE id_deportista = ?", athleteTable.updateSQL())
	assert.Equal(t, "DELETE FROM Deporte WHERE id_deporte = ?", sportTable.deleteSQL())
	assert.Equal(t, "SELECT EXISTS(SELECT 1 FROM Evento WHERE id_deporte = ?)", sportTable.References[0].existsSQL())
}
