package sqlite

import "github.com/kawabatas/olympics-catalog/internal/domain/model"

var sportTable = Table[model.Sport]{
	Name:    "Deporte",
	Key:     "id_deporte",
	Columns: []string{"nombre"},
	Scan: func(sc scanner) (model.Sport, error) {
		var s model.Sport
		if err := sc.Scan(&s.ID, &s.Name); err != nil {
			return model.Sport{}, err
		}
		return s, nil
	},
	Values: func(s model.Sport) []any { return []any{s.Name} },
	References: []Reference{
		{Table: "Evento", Column: "id_deporte"},
	},
}

func NewSportRepo(conns ConnProvider) *Repo[model.Sport] { return NewRepo(conns, sportTable) }
