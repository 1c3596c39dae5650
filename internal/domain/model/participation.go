package model

type Medal string

const (
	MedalNone   Medal = ""
	MedalGold   Medal = "Gold"
	MedalSilver Medal = "Silver"
	MedalBronze Medal = "Bronze"
)

func (m Medal) Valid() bool {
	switch m {
	case MedalNone, MedalGold, MedalSilver, MedalBronze:
		return true
	}
	return false
}

// Participation links an athlete to an event. It is keyed by
// (AthleteID, EventID) and nothing references it.
type Participation struct {
	AthleteID int64 `json:"athlete_id"`
	EventID   int64 `json:"event_id"`
	TeamID    int64 `json:"team_id"`
	Age       int   `json:"age"`
	Medal     Medal `json:"medal,omitempty"`
}

func (p Participation) Validate() error {
	switch {
	case p.AthleteID <= 0:
		return invalid("athlete_id", "must reference a persisted athlete")
	case p.EventID <= 0:
		return invalid("event_id", "must reference a persisted event")
	case p.TeamID <= 0:
		return invalid("team_id", "must reference a persisted team")
	case p.Age <= 0:
		return invalid("age", "must be positive")
	case !p.Medal.Valid():
		return invalid("medal", "must be Gold, Silver, Bronze or empty")
	}
	return nil
}
