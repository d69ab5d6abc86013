package enums

import "fmt"

// ListingType distinguishes sale listings from rentals.
type ListingType string

const (
	ListingTypeSale ListingType = "sale"
	ListingTypeRent ListingType = "rent"
)

var validListingTypes = []ListingType{
	ListingTypeSale,
	ListingTypeRent,
}

// String returns the literal string for the listing type.
func (l ListingType) String() string {
	return string(l)
}

// IsValid reports whether the listing type is known.
func (l ListingType) IsValid() bool {
	for _, candidate := range validListingTypes {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseListingType converts raw input into a ListingType.
func ParseListingType(value string) (ListingType, error) {
	for _, candidate := range validListingTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing type %q", value)
}
