package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/kawabatas/olympics-catalog/internal/domain/model"
	"github.com/kawabatas/olympics-catalog/internal/domain/repository"
	"github.com/kawabatas/olympics-catalog/internal/infra/datastore"
)

// Catalog bundles one form per catalogue screen.
type Catalog struct {
	ds datastore.DataStore

	Sports         *Form[model.Sport]
	Athletes       *Form[model.Athlete]
	Teams          *Form[model.Team]
	Games          *Form[model.Games]
	Events         *Form[model.Event]
	Participations *ParticipationService
}

func NewCatalog(ds datastore.DataStore, opts ...Option) *Catalog {
	return &Catalog{
		ds:             ds,
		Sports:         NewForm[model.Sport]("sport", ds.Sports(), opts...),
		Athletes:       NewForm[model.Athlete]("athlete", ds.Athletes(), opts...),
		Teams:          NewForm[model.Team]("team", ds.Teams(), opts...),
		Games:          NewForm[model.Games]("games", ds.Games(), opts...),
		Events:         NewForm[model.Event]("event", ds.Events(), opts...),
		Participations: &ParticipationService{repo: ds.Participations()},
	}
}

// SearchAthletes backs the athlete filter box; an empty query lists everyone.
func (c *Catalog) SearchAthletes(ctx context.Context, q string) ([]model.Athlete, error) {
	return c.ds.Athletes().SearchByName(ctx, q)
}

// EventsFor lists events of one sport and/or one games; zero ids mean "any".
func (c *Catalog) EventsFor(ctx context.Context, sportID, gamesID int64) ([]model.Event, error) {
	switch {
	case sportID == 0 && gamesID == 0:
		return c.ds.Events().List(ctx)
	case gamesID == 0:
		return c.ds.Events().ListBySport(ctx, sportID)
	}
	events, err := c.ds.Events().ListByGames(ctx, gamesID)
	if err != nil || sportID == 0 {
		return events, err
	}
	out := []model.Event{}
	for _, e := range events {
		if e.SportID == sportID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ParticipationService links athletes to events.
type ParticipationService struct {
	repo repository.ParticipationRepository
}

func (s *ParticipationService) ForAthlete(ctx context.Context, athleteID int64) ([]model.Participation, error) {
	return s.repo.ListByAthlete(ctx, athleteID)
}

func (s *ParticipationService) ForEvent(ctx context.Context, eventID int64) ([]model.Participation, error) {
	return s.repo.ListByEvent(ctx, eventID)
}

func (s *ParticipationService) Link(ctx context.Context, p model.Participation) Outcome {
	if err := p.Validate(); err != nil {
		return Outcome{Invalid: true, Message: err.Error()}
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		return Outcome{Kind: repository.KindOf(err), Message: msgRetrySave}
	}
	return Outcome{OK: true, Message: "Participation added successfully."}
}

func (s *ParticipationService) Unlink(ctx context.Context, athleteID, eventID int64) Outcome {
	err := s.repo.Delete(ctx, model.Participation{AthleteID: athleteID, EventID: eventID})
	switch {
	case err == nil:
		return Outcome{OK: true, Message: "Participation deleted successfully."}
	case errors.Is(err, repository.ErrNotFound):
		return Outcome{Kind: repository.KindNotFound, Message: fmt.Sprintf(msgGone, "participation")}
	default:
		return Outcome{Kind: repository.KindOf(err), Message: fmt.Sprintf(msgRetryDelete, "participation")}
	}
}
