package zerv

// Overrides replace individual values or schema positions. They land on
// top of repository-derived state, in two layers: positional component
// overrides first, then named-field overrides.
type Overrides struct {
	Major *uint64
	Minor *uint64
	Patch *uint64
	Epoch *uint64
	Post  *uint64
	Dev   *uint64

	PreReleaseLabel  *PreReleaseLabel
	PreReleaseNumber *uint64

	Distance *uint64
	Dirty    *bool

	// Clean forces a released state: distance zero and not dirty.
	Clean bool

	BumpedBranch     *string
	BumpedCommitHash *string
	BumpedTimestamp  *uint64

	Custom map[string]any

	Components []ComponentOverride
}

// ComponentOverride replaces the component at one schema position.
type ComponentOverride struct {
	Segment   Segment
	Index     int
	Component Component
}

// Bumps increments fields after all overrides have landed. Bumping a
// field resets every lower-precedence field; precedence runs epoch,
// major, minor, patch, pre-release label, pre-release number, post, dev.
type Bumps struct {
	Epoch *uint64
	Major *uint64
	Minor *uint64
	Patch *uint64

	PreReleaseLabel  *PreReleaseLabel
	PreReleaseNumber *uint64

	Post *uint64
	Dev  *uint64
}

// Validate rejects override combinations that cannot both hold.
func (o *Overrides) Validate() error {
	if o.Clean {
		if o.Dirty != nil && *o.Dirty {
			return &ConflictingOverrideError{First: "clean", Second: "dirty"}
		}
		if o.Distance != nil && *o.Distance > 0 {
			return &ConflictingOverrideError{First: "clean", Second: "distance"}
		}
	}
	return nil
}

// Apply mutates the version model with overrides and bumps. The whole
// adjustment set is validated before anything is touched, so a
// conflicting set leaves the model unchanged.
func Apply(z *Zerv, o *Overrides, b *Bumps) error {
	if err := validateAdjustments(z, o, b); err != nil {
		return err
	}
	if o != nil {
		if err := applyOverrides(z, o); err != nil {
			return err
		}
	}
	if b != nil {
		applyBumps(z, b)
	}
	return nil
}

// validateAdjustments rejects conflicts up front, before any mutation.
// A pre-release number needs a label to attach to: one already on the
// model, or one arriving with the same adjustment set.
func validateAdjustments(z *Zerv, o *Overrides, b *Bumps) error {
	labelled := z.Vars.Pre != nil
	if o != nil {
		if err := o.Validate(); err != nil {
			return err
		}
		if o.PreReleaseLabel != nil {
			labelled = true
		}
		if o.PreReleaseNumber != nil && !labelled {
			return &ConflictingOverrideError{First: "pre_release_number", Second: "missing pre-release label"}
		}
	}
	if b != nil {
		if b.PreReleaseLabel != nil {
			labelled = true
		}
		if b.PreReleaseNumber != nil && !labelled {
			return &ConflictingOverrideError{First: "bump pre_release_number", Second: "missing pre-release label"}
		}
		if b.PreReleaseNumber != nil && b.PreReleaseLabel == nil &&
			(b.Epoch != nil || b.Major != nil || b.Minor != nil || b.Patch != nil) {
			return &ConflictingOverrideError{First: "bump pre_release_number", Second: "release bump clearing the pre-release"}
		}
	}
	return nil
}

func applyOverrides(z *Zerv, o *Overrides) error {
	// Component replacements land on a copy first, so a bad position or
	// an invalid resulting schema leaves the model untouched.
	if len(o.Components) > 0 {
		schema := z.Schema.Clone()
		for _, co := range o.Components {
			if err := schema.Replace(co.Segment, co.Index, co.Component); err != nil {
				return err
			}
		}
		z.Schema = schema
	}

	setUint(&z.Vars.Major, o.Major)
	setUint(&z.Vars.Minor, o.Minor)
	setUint(&z.Vars.Patch, o.Patch)
	setUint(&z.Vars.Epoch, o.Epoch)
	setUint(&z.Vars.Post, o.Post)
	setUint(&z.Vars.Dev, o.Dev)

	if o.PreReleaseLabel != nil {
		if z.Vars.Pre == nil {
			z.Vars.Pre = &PreRelease{}
		}
		z.Vars.Pre.Label = *o.PreReleaseLabel
	}
	if o.PreReleaseNumber != nil {
		z.Vars.Pre.Number = copyUint(o.PreReleaseNumber)
	}

	if o.Clean {
		z.Vars.Distance = uintPtr(0)
		z.Vars.Dirty = boolPtr(false)
	}
	setUint(&z.Vars.Distance, o.Distance)
	if o.Dirty != nil {
		z.Vars.Dirty = boolPtr(*o.Dirty)
	}

	if o.BumpedBranch != nil {
		z.Vars.BumpedBranch = strPtr(*o.BumpedBranch)
	}
	if o.BumpedCommitHash != nil {
		z.Vars.BumpedCommitHash = strPtr(*o.BumpedCommitHash)
	}
	setUint(&z.Vars.BumpedTimestamp, o.BumpedTimestamp)

	if len(o.Custom) > 0 {
		if z.Vars.Custom == nil {
			z.Vars.Custom = map[string]any{}
		}
		for k, v := range o.Custom {
			z.Vars.Custom[k] = v
		}
	}

	for _, kind := range []VarKind{VarEpoch, VarPost, VarDev} {
		if overrideSets(o, kind) {
			ensureSecondaryRef(z.Schema, kind)
		}
	}
	if o.PreReleaseLabel != nil {
		ensureSecondaryRef(z.Schema, VarPreRelease)
	}
	return nil
}

func overrideSets(o *Overrides, kind VarKind) bool {
	switch kind {
	case VarEpoch:
		return o.Epoch != nil
	case VarPost:
		return o.Post != nil
	case VarDev:
		return o.Dev != nil
	}
	return false
}

// bumpOrder runs from the most significant field to the least.
var bumpOrder = []VarKind{
	VarEpoch, VarMajor, VarMinor, VarPatch,
	VarPreRelease, VarPost, VarDev,
}

func applyBumps(z *Zerv, b *Bumps) {
	if b.Epoch != nil {
		addUint(&z.Vars.Epoch, *b.Epoch)
		resetBelow(z, VarEpoch)
		ensureSecondaryRef(z.Schema, VarEpoch)
	}
	if b.Major != nil {
		addUint(&z.Vars.Major, *b.Major)
		resetBelow(z, VarMajor)
	}
	if b.Minor != nil {
		addUint(&z.Vars.Minor, *b.Minor)
		resetBelow(z, VarMinor)
	}
	if b.Patch != nil {
		addUint(&z.Vars.Patch, *b.Patch)
		resetBelow(z, VarPatch)
	}
	if b.PreReleaseLabel != nil {
		if z.Vars.Pre == nil {
			z.Vars.Pre = &PreRelease{}
		}
		z.Vars.Pre.Label = *b.PreReleaseLabel
		z.Vars.Pre.Number = nil
		resetBelow(z, VarPreRelease)
		ensureSecondaryRef(z.Schema, VarPreRelease)
	}
	if b.PreReleaseNumber != nil {
		if z.Vars.Pre.Number == nil {
			z.Vars.Pre.Number = uintPtr(0)
		}
		addUint(&z.Vars.Pre.Number, *b.PreReleaseNumber)
		resetBelow(z, VarPreRelease)
	}
	if b.Post != nil {
		addUint(&z.Vars.Post, *b.Post)
		resetBelow(z, VarPost)
		ensureSecondaryRef(z.Schema, VarPost)
	}
	if b.Dev != nil {
		addUint(&z.Vars.Dev, *b.Dev)
		ensureSecondaryRef(z.Schema, VarDev)
	}
}

// resetBelow zeroes or clears every field less significant than kind.
func resetBelow(z *Zerv, kind VarKind) {
	seen := false
	for _, k := range bumpOrder {
		if k == kind {
			seen = true
			continue
		}
		if !seen {
			continue
		}
		switch k {
		case VarMajor:
			z.Vars.Major = uintPtr(0)
		case VarMinor:
			z.Vars.Minor = uintPtr(0)
		case VarPatch:
			z.Vars.Patch = uintPtr(0)
		case VarPreRelease:
			z.Vars.Pre = nil
			removeSecondaryRef(z.Schema, VarPreRelease)
		case VarPost:
			z.Vars.Post = nil
			removeSecondaryRef(z.Schema, VarPost)
		case VarDev:
			z.Vars.Dev = nil
			removeSecondaryRef(z.Schema, VarDev)
		}
	}
}

func removeSecondaryRef(s *Schema, kind VarKind) {
	for i, c := range s.extraCore {
		if v, ok := c.IsVar(); ok && v.Kind == kind {
			s.extraCore = append(s.extraCore[:i], s.extraCore[i+1:]...)
			return
		}
	}
}

func setUint(dst **uint64, src *uint64) {
	if src != nil {
		*dst = copyUint(src)
	}
}

func addUint(dst **uint64, n uint64) {
	if *dst == nil {
		*dst = uintPtr(0)
	}
	**dst += n
}

var secondaryRank = map[VarKind]int{
	VarEpoch: 0, VarPreRelease: 1, VarPost: 2, VarDev: 3,
}

// ensureSecondaryRef makes sure the schema's extra-core segment
// references kind, inserting it in canonical qualifier order.
func ensureSecondaryRef(s *Schema, kind VarKind) {
	insertAt := len(s.extraCore)
	for i, c := range s.extraCore {
		v, ok := c.IsVar()
		if !ok {
			continue
		}
		if v.Kind == kind {
			return
		}
		if rank, secondary := secondaryRank[v.Kind]; secondary && rank > secondaryRank[kind] && i < insertAt {
			insertAt = i
		}
	}
	s.extraCore = append(s.extraCore, Component{})
	copy(s.extraCore[insertAt+1:], s.extraCore[insertAt:])
	s.extraCore[insertAt] = Ref(V(kind))
}
