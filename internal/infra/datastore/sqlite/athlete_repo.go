package sqlite

import (
	"context"
	"strings"

	"github.com/kawabatas/olympics-catalog/internal/domain/model"
	"github.com/kawabatas/olympics-catalog/internal/domain/repository"
)

var athleteTable = Table[model.Athlete]{
	Name:    "Deportista",
	Key:     "id_deportista",
	Columns: []string{"nombre", "sexo", "peso", "altura", "foto"},
	Scan: func(sc scanner) (model.Athlete, error) {
		var (
			a   model.Athlete
			sex string
		)
		if err := sc.Scan(&a.ID, &a.Name, &sex, &a.Weight, &a.Height, &a.Photo); err != nil {
			return model.Athlete{}, err
		}
		a.Sex = model.Sex(sex)
		return a, nil
	},
	Values: func(a model.Athlete) []any {
		return []any{a.Name, string(a.Sex), a.Weight, a.Height, blobToNull(a.Photo)}
	},
	References: []Reference{
		{Table: "Participacion", Column: "id_deportista"},
	},
}

type AthleteRepo struct {
	*Repo[model.Athlete]
}

var _ repository.AthleteRepository = (*AthleteRepo)(nil)

func NewAthleteRepo(conns ConnProvider) *AthleteRepo {
	return &AthleteRepo{Repo: NewRepo(conns, athleteTable)}
}

// SearchByName returns athletes whose name contains q (case-insensitive for ASCII).
func (r *AthleteRepo) SearchByName(ctx context.Context, q string) ([]model.Athlete, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return r.List(ctx)
	}
	return r.ListWhere(ctx, Filter{Column: "nombre", Value: "%" + escapeLike(q) + "%", Like: true})
}

// escapeLike makes % and _ match literally; ListWhere declares \ as the
// LIKE escape character.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}
