package model

import (
	"encoding/json"
	"strings"
)

// Sex is the single-character sex code stored in Deportista.sexo.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

func (s Sex) Valid() bool { return s == SexMale || s == SexFemale }

type Athlete struct {
	ID     int64  `json:"id" yaml:"-"`
	Name   string `json:"name" yaml:"name"`
	Sex    Sex    `json:"sex" yaml:"sex" jsonschema:"enum=M,enum=F"`
	Weight int    `json:"weight" yaml:"weight"`
	Height int    `json:"height" yaml:"height"`
	// Photo is the raw image blob; nil when the athlete has none. JSON
	// carries only has_photo, the blob has its own endpoint.
	Photo []byte `json:"-" yaml:"-"`
}

func (a Athlete) Key() int64 { return a.ID }

func (a Athlete) Validate() error {
	switch {
	case strings.TrimSpace(a.Name) == "":
		return invalid("name", "must not be empty")
	case !a.Sex.Valid():
		return invalid("sex", "must be M or F")
	case a.Weight <= 0:
		return invalid("weight", "must be positive")
	case a.Height <= 0:
		return invalid("height", "must be positive")
	}
	return nil
}

func (a Athlete) HasPhoto() bool { return len(a.Photo) > 0 }

func (a Athlete) MarshalJSON() ([]byte, error) {
	type plain Athlete
	return json.Marshal(struct {
		plain
		HasPhoto bool `json:"has_photo"`
	}{plain: plain(a), HasPhoto: a.HasPhoto()})
}

func (a Athlete) String() string { return a.Name }
