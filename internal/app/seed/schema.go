package seed

import (
	"encoding/json"
	"io"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON Schema of a seed document. YAML language servers
// can validate seed files against it.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		FieldNameTag:               "yaml",
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  false,
	}
	s := r.Reflect(&Document{})
	s.ID = "https://github.com/kawabatas/olympics-catalog/seed.schema.json"
	s.Title = "Olympic catalogue seed"
	s.Description = "Sports, teams, games, athletes, events and participations referring to each other by name"
	return s
}

func WriteSchema(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Schema())
}
