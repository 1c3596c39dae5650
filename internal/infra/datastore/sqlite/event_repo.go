package sqlite

import (
	"context"

	"github.com/kawabatas/olympics-catalog/internal/domain/model"
	"github.com/kawabatas/olympics-catalog/internal/domain/repository"
)

var eventTable = Table[model.Event]{
	Name:    "Evento",
	Key:     "id_evento",
	Columns: []string{"nombre", "id_olimpiada", "id_deporte"},
	Scan: func(sc scanner) (model.Event, error) {
		var e model.Event
		if err := sc.Scan(&e.ID, &e.Name, &e.GamesID, &e.SportID); err != nil {
			return model.Event{}, err
		}
		return e, nil
	},
	Values: func(e model.Event) []any { return []any{e.Name, e.GamesID, e.SportID} },
	References: []Reference{
		{Table: "Participacion", Column: "id_evento"},
	},
}

type EventRepo struct {
	*Repo[model.Event]
}

var _ repository.EventRepository = (*EventRepo)(nil)

func NewEventRepo(conns ConnProvider) *EventRepo {
	return &EventRepo{Repo: NewRepo(conns, eventTable)}
}

func (r *EventRepo) ListBySport(ctx context.Context, sportID int64) ([]model.Event, error) {
	return r.ListWhere(ctx, Filter{Column: "id_deporte", Value: sportID})
}

func (r *EventRepo) ListByGames(ctx context.Context, gamesID int64) ([]model.Event, error) {
	return r.ListWhere(ctx, Filter{Column: "id_olimpiada", Value: gamesID})
}
