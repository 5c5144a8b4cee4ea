// Package zerv derives deterministic version identifiers from repository
// state and converts them between semver-like and PEP 440-like formats.
package zerv

import "encoding/json"

// Zerv pairs a set of variable values with the schema that arranges them
// into a version string. It is the hub every format converts through.
type Zerv struct {
	Vars   Vars
	Schema *Schema
}

// New assembles a Zerv from a schema and variable values.
func New(schema *Schema, vars Vars) (*Zerv, error) {
	if schema == nil {
		return nil, schemaErrorf("schema is required")
	}
	if err := schema.validate(); err != nil {
		return nil, err
	}
	return &Zerv{Vars: vars, Schema: schema}, nil
}

// Finalize fills the three release numbers with zeroes where absent, so
// that every finalized version has a complete core.
func (z *Zerv) Finalize() {
	if z.Vars.Major == nil {
		z.Vars.Major = uintPtr(0)
	}
	if z.Vars.Minor == nil {
		z.Vars.Minor = uintPtr(0)
	}
	if z.Vars.Patch == nil {
		z.Vars.Patch = uintPtr(0)
	}
}

type zervDocument struct {
	Vars   Vars       `json:"vars"`
	Schema schemaJSON `json:"schema"`
}

type schemaJSON struct {
	Core      []Component `json:"core,omitempty"`
	ExtraCore []Component `json:"extra_core,omitempty"`
	Build     []Component `json:"build,omitempty"`
}

// MarshalJSON serialises the full version state, with schema components
// in their text form.
func (z *Zerv) MarshalJSON() ([]byte, error) {
	return json.Marshal(zervDocument{
		Vars: z.Vars,
		Schema: schemaJSON{
			Core:      z.Schema.Core(),
			ExtraCore: z.Schema.ExtraCore(),
			Build:     z.Schema.Build(),
		},
	})
}

// UnmarshalJSON restores a version state serialised by MarshalJSON.
func (z *Zerv) UnmarshalJSON(data []byte) error {
	var doc zervDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	schema, err := NewSchema(doc.Schema.Core, doc.Schema.ExtraCore, doc.Schema.Build)
	if err != nil {
		return err
	}
	z.Vars = doc.Vars
	z.Schema = schema
	return nil
}
