package repository

import (
	"context"

	"github.com/kawabatas/olympics-catalog/internal/domain/model"
)

// ParticipationRepository persists the athlete/event link rows.
// Participations are keyed by (athleteID, eventID) and are never referenced.
type ParticipationRepository interface {
	List(ctx context.Context) ([]model.Participation, error)
	ListByAthlete(ctx context.Context, athleteID int64) ([]model.Participation, error)
	ListByEvent(ctx context.Context, eventID int64) ([]model.Participation, error)
	Get(ctx context.Context, athleteID, eventID int64) (model.Participation, error)
	Insert(ctx context.Context, p model.Participation) error
	Update(ctx context.Context, original, replacement model.Participation) error
	Delete(ctx context.Context, p model.Participation) error
}
