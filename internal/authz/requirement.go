package authz

type requirementMode int

const (
	modeNone requirementMode = iota
	modeSingle
	modeAny
	modeAll
)

// Requirement is a caller's declared authorization need: one permission,
// any of a set, or all of a set. The zero Requirement declares nothing
// and always evaluates to false.
type Requirement struct {
	mode requirementMode
	keys []string
}

func Single(key string) Requirement {
	return Requirement{mode: modeSingle, keys: []string{key}}
}

func Any(keys ...string) Requirement {
	return Requirement{mode: modeAny, keys: keys}
}

func All(keys ...string) Requirement {
	return Requirement{mode: modeAll, keys: keys}
}

// Keys returns the permission keys the requirement references, for
// catalog cross-checks in tests and tooling.
func (r Requirement) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Evaluate decides a Requirement against a role. An empty Any or All is
// false for every role: a requirement that names no permissions is a
// configuration smell, not a free pass.
func (c *Catalog) Evaluate(role Role, req Requirement) bool {
	switch req.mode {
	case modeSingle:
		return c.has(role, req.keys[0])
	case modeAny:
		for _, key := range req.keys {
			if c.has(role, key) {
				return true
			}
		}
		return false
	case modeAll:
		if len(req.keys) == 0 {
			return false
		}
		for _, key := range req.keys {
			if !c.has(role, key) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
