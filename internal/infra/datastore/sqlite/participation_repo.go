package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kawabatas/olympics-catalog/internal/domain/model"
	"github.com/kawabatas/olympics-catalog/internal/domain/repository"
)

const participationTable = "Participacion"

const participationSelect = `
SELECT id_deportista, id_evento, id_equipo, edad, medalla
FROM Participacion`

type ParticipationRepo struct{ conns ConnProvider }

var _ repository.ParticipationRepository = (*ParticipationRepo)(nil)

func NewParticipationRepo(conns ConnProvider) *ParticipationRepo {
	return &ParticipationRepo{conns: conns}
}

func scanParticipation(sc scanner) (model.Participation, error) {
	var (
		p     model.Participation
		medal sql.NullString
	)
	if err := sc.Scan(&p.AthleteID, &p.EventID, &p.TeamID, &p.Age, &medal); err != nil {
		return model.Participation{}, err
	}
	p.Medal = model.Medal(nullToString(medal))
	return p, nil
}

func (r *ParticipationRepo) List(ctx context.Context) ([]model.Participation, error) {
	return r.query(ctx, "", nil)
}

func (r *ParticipationRepo) ListByAthlete(ctx context.Context, athleteID int64) ([]model.Participation, error) {
	return r.query(ctx, " WHERE id_deportista = ?", []any{athleteID})
}

func (r *ParticipationRepo) ListByEvent(ctx context.Context, eventID int64) ([]model.Participation, error) {
	return r.query(ctx, " WHERE id_evento = ?", []any{eventID})
}

func (r *ParticipationRepo) query(ctx context.Context, where string, args []any) ([]model.Participation, error) {
	out := []model.Participation{}
	conn, err := acquire(ctx, r.conns, participationTable)
	if err != nil {
		logFailure(ctx, participationTable, "list", err)
		return out, err
	}
	defer release(ctx, conn)

	rows, err := conn.QueryContext(ctx, participationSelect+where+" ORDER BY id_deportista, id_evento", args...)
	if err != nil {
		return out, r.fail(ctx, "list", err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanParticipation(rows)
		if err != nil {
			return []model.Participation{}, r.fail(ctx, "list", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return []model.Participation{}, r.fail(ctx, "list", err)
	}
	return out, nil
}

func (r *ParticipationRepo) Get(ctx context.Context, athleteID, eventID int64) (model.Participation, error) {
	conn, err := acquire(ctx, r.conns, participationTable)
	if err != nil {
		logFailure(ctx, participationTable, "get", err)
		return model.Participation{}, err
	}
	defer release(ctx, conn)

	row := conn.QueryRowContext(ctx, participationSelect+" WHERE id_deportista = ? AND id_evento = ?", athleteID, eventID)
	p, err := scanParticipation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Participation{}, fmt.Errorf("%s (%d, %d): %w", participationTable, athleteID, eventID, repository.ErrNotFound)
	}
	if err != nil {
		return model.Participation{}, r.fail(ctx, "get", err)
	}
	return p, nil
}

// Insert stores p; the key is supplied by the caller so nothing is returned.
func (r *ParticipationRepo) Insert(ctx context.Context, p model.Participation) error {
	return r.exec(ctx, "insert", p, `
INSERT INTO Participacion (id_deportista, id_evento, id_equipo, edad, medalla)
VALUES (?, ?, ?, ?, ?)`, p.AthleteID, p.EventID, p.TeamID, p.Age, stringToNull(string(p.Medal)))
}

// Update replaces team, age and medal of original's row; the key itself may
// also move to replacement's (athlete, event).
func (r *ParticipationRepo) Update(ctx context.Context, original, replacement model.Participation) error {
	return r.exec(ctx, "update", original, `
UPDATE Participacion
SET id_deportista = ?, id_evento = ?, id_equipo = ?, edad = ?, medalla = ?
WHERE id_deportista = ? AND id_evento = ?`,
		replacement.AthleteID, replacement.EventID, replacement.TeamID, replacement.Age,
		stringToNull(string(replacement.Medal)), original.AthleteID, original.EventID)
}

func (r *ParticipationRepo) Delete(ctx context.Context, p model.Participation) error {
	return r.exec(ctx, "delete", p, `DELETE FROM Participacion WHERE id_deportista = ? AND id_evento = ?`, p.AthleteID, p.EventID)
}

func (r *ParticipationRepo) exec(ctx context.Context, op string, key model.Participation, stmt string, args ...any) error {
	conn, err := acquire(ctx, r.conns, participationTable)
	if err != nil {
		logFailure(ctx, participationTable, op, err)
		return err
	}
	defer release(ctx, conn)

	res, err := conn.ExecContext(ctx, stmt, args...)
	if err != nil {
		return r.fail(ctx, op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return r.fail(ctx, op, err)
	}
	if n == 0 {
		if op == "insert" {
			return r.fail(ctx, op, errNoRowsAffected)
		}
		return fmt.Errorf("%s (%d, %d): %w", participationTable, key.AthleteID, key.EventID, repository.ErrNotFound)
	}
	return nil
}

func (r *ParticipationRepo) fail(ctx context.Context, op string, err error) error {
	err = queryFailed(participationTable, op, err)
	logFailure(ctx, participationTable, op, err)
	return err
}
