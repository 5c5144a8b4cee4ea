package zerv

import "sort"

// Preset resolves a named schema preset. The "standard" and "calver"
// presets shape themselves around vars: qualifier fields appear only when
// they hold values, and build context appears once the state has moved
// past its tag. The fixed "-base" family spells its fields literally.
// Unknown names return an UnknownPresetError.
func Preset(name string, vars *Vars) (*Schema, error) {
	if vars == nil {
		vars = &Vars{}
	}
	switch name {
	case "standard":
		return standardSchema(vars), nil
	case "calver":
		return calverSchema(vars), nil
	}
	if s, ok := fixedPresets[name]; ok {
		return s.Clone(), nil
	}
	return nil, &UnknownPresetError{Name: name}
}

// PresetNames lists every registered preset name in sorted order.
func PresetNames() []string {
	names := []string{"standard", "calver"}
	for name := range fixedPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var standardCore = []Component{Ref(V(VarMajor)), Ref(V(VarMinor)), Ref(V(VarPatch))}

var calverCore = []Component{
	Ref(TimestampVar("YYYY")),
	Ref(TimestampVar("0M")),
	Ref(V(VarPatch)),
}

var contextBuild = []Component{
	Ref(V(VarBumpedBranch)),
	Ref(V(VarBumpedCommitHashShort)),
}

var fixedPresets = map[string]*Schema{
	"standard-base": mustSchema(standardCore, nil, nil),
	"standard-base-prerelease": mustSchema(standardCore,
		[]Component{Ref(V(VarPreRelease))}, nil),
	"standard-base-prerelease-post": mustSchema(standardCore,
		[]Component{Ref(V(VarPreRelease)), Ref(V(VarPost))}, nil),
	"standard-base-prerelease-post-dev": mustSchema(standardCore,
		[]Component{Ref(V(VarPreRelease)), Ref(V(VarPost)), Ref(V(VarDev))}, nil),
	"calver-base": mustSchema(calverCore, nil, nil),
}

func standardSchema(vars *Vars) *Schema {
	return stateSchema(standardCore, vars)
}

func calverSchema(vars *Vars) *Schema {
	return stateSchema(calverCore, vars)
}

// stateSchema assembles a schema around the populated fields: present
// qualifiers join the extra-core segment in canonical order, and any
// movement past the tag brings branch and commit context into the build
// segment.
func stateSchema(core []Component, vars *Vars) *Schema {
	var extra []Component
	if vars.Epoch != nil {
		extra = append(extra, Ref(V(VarEpoch)))
	}
	if vars.Pre != nil {
		extra = append(extra, Ref(V(VarPreRelease)))
	}
	if vars.Post != nil {
		extra = append(extra, Ref(V(VarPost)))
	}
	if vars.Dev != nil {
		extra = append(extra, Ref(V(VarDev)))
	}

	var build []Component
	dirty := vars.Dirty != nil && *vars.Dirty
	moved := vars.Distance != nil && *vars.Distance > 0
	if dirty || moved {
		build = append(build, contextBuild...)
	}

	return mustSchema(core, extra, build)
}
