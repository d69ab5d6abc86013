package enums

import "fmt"

// GroupKind marks whether a configured group is a content source or a
// fan-out target. Only targets receive posts.
type GroupKind string

const (
	GroupKindSource GroupKind = "source"
	GroupKindTarget GroupKind = "target"
)

var validGroupKinds = []GroupKind{
	GroupKindSource,
	GroupKindTarget,
}

// String returns the literal string for the kind.
func (g GroupKind) String() string {
	return string(g)
}

// IsValid reports whether the kind is known.
func (g GroupKind) IsValid() bool {
	for _, candidate := range validGroupKinds {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGroupKind converts raw input into a GroupKind.
func ParseGroupKind(value string) (GroupKind, error) {
	for _, candidate := range validGroupKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid group kind %q", value)
}
