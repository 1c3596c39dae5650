package model

import "strings"

type Sport struct {
	ID   int64  `json:"id" yaml:"-"`
	Name string `json:"name" yaml:"name"`
}

func (s Sport) Key() int64 { return s.ID }

func (s Sport) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return invalid("name", "must not be empty")
	}
	return nil
}

// String is used by selection widgets (combo boxes, CLI listings).
func (s Sport) String() string { return s.Name }
