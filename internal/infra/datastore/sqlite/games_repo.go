package sqlite

import "github.com/kawabatas/olympics-catalog/internal/domain/model"

var gamesTable = Table[model.Games]{
	Name:    "Olimpiada",
	Key:     "id_olimpiada",
	Columns: []string{"nombre", "anio", "temporada", "ciudad"},
	Scan: func(sc scanner) (model.Games, error) {
		var (
			g      model.Games
			season string
		)
		if err := sc.Scan(&g.ID, &g.Name, &g.Year, &season, &g.City); err != nil {
			return model.Games{}, err
		}
		g.Season = model.Season(season)
		return g, nil
	},
	Values: func(g model.Games) []any { return []any{g.Name, g.Year, string(g.Season), g.City} },
	References: []Reference{
		{Table: "Evento", Column: "id_olimpiada"},
	},
}

func NewGamesRepo(conns ConnProvider) *Repo[model.Games] { return NewRepo(conns, gamesTable) }
