// Package seed loads and dumps the catalogue as a YAML document in which
// rows refer to each other by name instead of by generated id.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/kawabatas/olympics-catalog/internal/domain/model"
	"github.com/kawabatas/olympics-catalog/internal/domain/repository"
	"github.com/kawabatas/olympics-catalog/internal/infra/datastore"
)

// Document is the YAML layout. Events are identified by (games, name)
// because the same event name repeats at every games.
type Document struct {
	Sports         []model.Sport      `yaml:"sports"`
	Teams          []model.Team       `yaml:"teams"`
	Games          []model.Games      `yaml:"games"`
	Athletes       []model.Athlete    `yaml:"athletes"`
	Events         []eventDoc         `yaml:"events"`
	Participations []participationDoc `yaml:"participations"`
}

type eventDoc struct {
	Name  string `yaml:"name" jsonschema:"required,minLength=1"`
	Games string `yaml:"games" jsonschema:"required,description=name of the games"`
	Sport string `yaml:"sport" jsonschema:"required,description=name of the sport"`
}

type participationDoc struct {
	Athlete string      `yaml:"athlete" jsonschema:"required"`
	Games   string      `yaml:"games" jsonschema:"required"`
	Event   string      `yaml:"event" jsonschema:"required"`
	Team    string      `yaml:"team" jsonschema:"required,description=team name (not initials)"`
	Age     int         `yaml:"age" jsonschema:"required,minimum=1"`
	Medal   model.Medal `yaml:"medal,omitempty" jsonschema:"enum=Gold,enum=Silver,enum=Bronze"`
}

// Counts is the per-table result of Apply.
type Counts struct {
	Inserted int
	Skipped  int
}

type Report struct {
	Sports, Teams, Games, Athletes, Events, Participations Counts
}

func Parse(r io.Reader) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return Document{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return doc, nil
}

func ParseFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Apply inserts every row of doc that is not stored yet. Rows already
// present (same natural name) are skipped, so applying a document twice is
// a no-op.
func Apply(ctx context.Context, ds datastore.DataStore, doc Document) (Report, error) {
	var rep Report

	sports, err := ensure[model.Sport](ctx, "sport", ds.Sports(), doc.Sports, model.Sport.String, &rep.Sports)
	if err != nil {
		return rep, err
	}
	teams, err := ensure[model.Team](ctx, "team", ds.Teams(), doc.Teams, teamName, &rep.Teams)
	if err != nil {
		return rep, err
	}
	games, err := ensure[model.Games](ctx, "games", ds.Games(), doc.Games, model.Games.String, &rep.Games)
	if err != nil {
		return rep, err
	}
	athletes, err := ensure[model.Athlete](ctx, "athlete", ds.Athletes(), doc.Athletes, model.Athlete.String, &rep.Athletes)
	if err != nil {
		return rep, err
	}

	gamesName := invert(games)
	events := make([]model.Event, 0, len(doc.Events))
	for i, e := range doc.Events {
		gid, ok := games[e.Games]
		if !ok {
			return rep, fmt.Errorf("events[%d] %q: unknown games %q", i, e.Name, e.Games)
		}
		sid, ok := sports[e.Sport]
		if !ok {
			return rep, fmt.Errorf("events[%d] %q: unknown sport %q", i, e.Name, e.Sport)
		}
		events = append(events, model.Event{Name: e.Name, GamesID: gid, SportID: sid})
	}
	eventIDs, err := ensure[model.Event](ctx, "event", ds.Events(), events, func(e model.Event) string {
		return eventKey(gamesName[e.GamesID], e.Name)
	}, &rep.Events)
	if err != nil {
		return rep, err
	}

	parts := ds.Participations()
	for i, p := range doc.Participations {
		aid, ok := athletes[p.Athlete]
		if !ok {
			return rep, fmt.Errorf("participations[%d]: unknown athlete %q", i, p.Athlete)
		}
		eid, ok := eventIDs[eventKey(p.Games, p.Event)]
		if !ok {
			return rep, fmt.Errorf("participations[%d]: unknown event %q at games %q", i, p.Event, p.Games)
		}
		tid, ok := teams[p.Team]
		if !ok {
			return rep, fmt.Errorf("participations[%d]: unknown team %q", i, p.Team)
		}
		row := model.Participation{AthleteID: aid, EventID: eid, TeamID: tid, Age: p.Age, Medal: p.Medal}
		if err := row.Validate(); err != nil {
			return rep, fmt.Errorf("participations[%d] %s/%s/%s: %w", i, p.Athlete, p.Games, p.Event, err)
		}
		_, err := parts.Get(ctx, row.AthleteID, row.EventID)
		switch {
		case err == nil:
			rep.Participations.Skipped++
			continue
		case !errors.Is(err, repository.ErrNotFound):
			return rep, err
		}
		if err := parts.Insert(ctx, row); err != nil {
			return rep, fmt.Errorf("participations[%d]: %w", i, err)
		}
		rep.Participations.Inserted++
	}
	return rep, nil
}

// ensure inserts the items whose name is not stored yet and returns the
// name to id mapping of stored and inserted rows.
func ensure[T model.Entity](ctx context.Context, kind string, repo repository.CatalogRepository[T], items []T, name func(T) string, c *Counts) (map[string]int64, error) {
	stored, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]int64, len(stored)+len(items))
	for _, e := range stored {
		ids[name(e)] = e.Key()
	}
	for i, it := range items {
		if _, ok := ids[name(it)]; ok {
			c.Skipped++
			continue
		}
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("%s[%d] %q: %w", kind, i, name(it), err)
		}
		id, err := repo.Insert(ctx, it)
		if err != nil {
			return nil, fmt.Errorf("%s[%d] %q: %w", kind, i, name(it), err)
		}
		ids[name(it)] = id
		c.Inserted++
	}
	return ids, nil
}

// Dump reads the whole catalogue back into a Document. Photos are not
// exported.
func Dump(ctx context.Context, ds datastore.DataStore) (Document, error) {
	var (
		doc    Document
		events []model.Event
		parts  []model.Participation
	)
	// 各一覧は別々の接続で読むので並行に取得する
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { doc.Sports, err = ds.Sports().List(gctx); return })
	g.Go(func() (err error) { doc.Teams, err = ds.Teams().List(gctx); return })
	g.Go(func() (err error) { doc.Games, err = ds.Games().List(gctx); return })
	g.Go(func() (err error) { doc.Athletes, err = ds.Athletes().List(gctx); return })
	g.Go(func() (err error) { events, err = ds.Events().List(gctx); return })
	g.Go(func() (err error) { parts, err = ds.Participations().List(gctx); return })
	if err := g.Wait(); err != nil {
		return Document{}, err
	}

	sportName := names(doc.Sports, model.Sport.String)
	gamesName := names(doc.Games, model.Games.String)
	teamNames := names(doc.Teams, teamName)
	athleteName := names(doc.Athletes, model.Athlete.String)
	eventByID := make(map[int64]model.Event, len(events))
	doc.Events = make([]eventDoc, 0, len(events))
	for _, e := range events {
		eventByID[e.ID] = e
		doc.Events = append(doc.Events, eventDoc{Name: e.Name, Games: gamesName[e.GamesID], Sport: sportName[e.SportID]})
	}
	doc.Participations = make([]participationDoc, 0, len(parts))
	for _, p := range parts {
		e := eventByID[p.EventID]
		doc.Participations = append(doc.Participations, participationDoc{
			Athlete: athleteName[p.AthleteID],
			Games:   gamesName[e.GamesID],
			Event:   e.Name,
			Team:    teamNames[p.TeamID],
			Age:     p.Age,
			Medal:   p.Medal,
		})
	}
	return doc, nil
}

func Write(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func eventKey(games, event string) string { return games + "/" + event }

func invert(m map[string]int64) map[int64]string {
	out := make(map[int64]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// Team.String also carries the initials; documents refer to teams by name.
func teamName(t model.Team) string { return t.Name }

func names[T model.Entity](items []T, name func(T) string) map[int64]string {
	out := make(map[int64]string, len(items))
	for _, it := range items {
		out[it.Key()] = name(it)
	}
	return out
}
