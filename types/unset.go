package types

type unsetValue struct{}

func (unsetValue) String() string {
	return "{UnsetValue}"
}

// UnsetValue marks a property that has no local value. It is distinct from
// nil, which is a valid value for reference typed properties.
var UnsetValue any = unsetValue{}
