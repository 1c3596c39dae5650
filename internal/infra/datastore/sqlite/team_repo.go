package sqlite

import "github.com/kawabatas/olympics-catalog/internal/domain/model"

var teamTable = Table[model.Team]{
	Name:    "Equipo",
	Key:     "id_equipo",
	Columns: []string{"nombre", "iniciales"},
	Scan: func(sc scanner) (model.Team, error) {
		var t model.Team
		if err := sc.Scan(&t.ID, &t.Name, &t.Initials); err != nil {
			return model.Team{}, err
		}
		return t, nil
	},
	Values: func(t model.Team) []any { return []any{t.Name, t.Initials} },
	References: []Reference{
		{Table: "Participacion", Column: "id_equipo"},
	},
}

func NewTeamRepo(conns ConnProvider) *Repo[model.Team] { return NewRepo(conns, teamTable) }
