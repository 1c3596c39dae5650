package model

import "strings"

// Event is a competition held in one Games for one Sport.
type Event struct {
	ID      int64  `json:"id" yaml:"-"`
	Name    string `json:"name" yaml:"name"`
	GamesID int64  `json:"games_id" yaml:"-"`
	SportID int64  `json:"sport_id" yaml:"-"`
}

func (e Event) Key() int64 { return e.ID }

func (e Event) Validate() error {
	switch {
	case strings.TrimSpace(e.Name) == "":
		return invalid("name", "must not be empty")
	case e.GamesID <= 0:
		return invalid("games_id", "must reference persisted games")
	case e.SportID <= 0:
		return invalid("sport_id", "must reference a persisted sport")
	}
	return nil
}

func (e Event) String() string { return e.Name }
