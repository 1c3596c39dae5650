package model

import (
	"strings"
	"unicode/utf8"
)

// Team is the country (NOC) an athlete competes for.
type Team struct {
	ID       int64  `json:"id" yaml:"-"`
	Name     string `json:"name" yaml:"name"`
	Initials string `json:"initials" yaml:"initials" jsonschema:"maxLength=3"`
}

func (t Team) Key() int64 { return t.ID }

func (t Team) Validate() error {
	switch {
	case strings.TrimSpace(t.Name) == "":
		return invalid("name", "must not be empty")
	case strings.TrimSpace(t.Initials) == "":
		return invalid("initials", "must not be empty")
	case utf8.RuneCountInString(t.Initials) > 3:
		return invalid("initials", "must be at most 3 characters")
	}
	return nil
}

func (t Team) String() string { return t.Name + " (" + t.Initials + ")" }
