package enums

import "fmt"

// PropertyStatus describes the sales lifecycle of a listing.
type PropertyStatus string

const (
	PropertyStatusAvailable PropertyStatus = "available"
	PropertyStatusSold      PropertyStatus = "sold"
	PropertyStatusRented    PropertyStatus = "rented"
)

var validPropertyStatuses = []PropertyStatus{
	PropertyStatusAvailable,
	PropertyStatusSold,
	PropertyStatusRented,
}

// String returns the literal string for the status.
func (p PropertyStatus) String() string {
	return string(p)
}

// IsValid reports whether the status is known.
func (p PropertyStatus) IsValid() bool {
	for _, candidate := range validPropertyStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePropertyStatus converts raw input into a PropertyStatus.
func ParsePropertyStatus(value string) (PropertyStatus, error) {
	for _, candidate := range validPropertyStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid property status %q", value)
}
