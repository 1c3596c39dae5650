package model

import (
	"strconv"
	"strings"
)

type Season string

const (
	SeasonSummer Season = "Summer"
	SeasonWinter Season = "Winter"
)

func (s Season) Valid() bool { return s == SeasonSummer || s == SeasonWinter }

// FirstModernGames is the year of Athens 1896; earlier years are rejected.
const FirstModernGames = 1896

// Games is one edition of the Olympic Games (Olimpiada).
type Games struct {
	ID     int64  `json:"id" yaml:"-"`
	Name   string `json:"name" yaml:"name"`
	Year   int    `json:"year" yaml:"year" jsonschema:"minimum=1896"`
	Season Season `json:"season" yaml:"season" jsonschema:"enum=Summer,enum=Winter"`
	City   string `json:"city" yaml:"city"`
}

func (g Games) Key() int64 { return g.ID }

func (g Games) Validate() error {
	switch {
	case strings.TrimSpace(g.Name) == "":
		return invalid("name", "must not be empty")
	case g.Year < FirstModernGames:
		return invalid("year", "must be "+strconv.Itoa(FirstModernGames)+" or later")
	case !g.Season.Valid():
		return invalid("season", "must be Summer or Winter")
	case strings.TrimSpace(g.City) == "":
		return invalid("city", "must not be empty")
	}
	return nil
}

func (g Games) String() string { return g.Name }
