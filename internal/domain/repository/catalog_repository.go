package repository

import (
	"context"

	"github.com/kawabatas/olympics-catalog/internal/domain/model"
)

// CatalogRepository abstracts persistence of one catalogue entity type
// regardless of the underlying DB.
//
// Delete does not re-check references: callers must ask IsDeletable first,
// or use DeleteIfUnreferenced to do both in one transaction.
type CatalogRepository[T model.Entity] interface {
	// List returns every row; the slice is empty, never nil, also on error.
	List(ctx context.Context) ([]T, error)
	// GetByID returns ErrNotFound when no row matches.
	GetByID(ctx context.Context, id int64) (T, error)
	// Insert returns the generated key, or model.InvalidID with an error.
	Insert(ctx context.Context, e T) (int64, error)
	// Update replaces every mutable column of original's row with replacement's values.
	Update(ctx context.Context, original, replacement T) error
	Delete(ctx context.Context, e T) error
	// IsDeletable reports whether no referencing table points at e.
	// It fails closed: any error yields false.
	IsDeletable(ctx context.Context, e T) (bool, error)
	DeleteIfUnreferenced(ctx context.Context, e T) error
}

type SportRepository = CatalogRepository[model.Sport]
type TeamRepository = CatalogRepository[model.Team]
type GamesRepository = CatalogRepository[model.Games]

// AthleteRepository adds a name search used by the athlete filter box.
type AthleteRepository interface {
	CatalogRepository[model.Athlete]
	SearchByName(ctx context.Context, q string) ([]model.Athlete, error)
}

type EventRepository interface {
	CatalogRepository[model.Event]
	ListBySport(ctx context.Context, sportID int64) ([]model.Event, error)
	ListByGames(ctx context.Context, gamesID int64) ([]model.Event, error)
}
