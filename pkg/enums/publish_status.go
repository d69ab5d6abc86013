package enums

import "fmt"

// PublishStatus is the terminal-after-one-attempt state machine of a
// dispatch attempt: pending → (success | failed). Rows never revisit a
// state; a retry appends a fresh attempt instead.
type PublishStatus string

const (
	PublishStatusPending PublishStatus = "pending"
	PublishStatusSuccess PublishStatus = "success"
	PublishStatusFailed  PublishStatus = "failed"
)

var validPublishStatuses = []PublishStatus{
	PublishStatusPending,
	PublishStatusSuccess,
	PublishStatusFailed,
}

// String returns the literal string for the status.
func (p PublishStatus) String() string {
	return string(p)
}

// IsValid reports whether the status is known.
func (p PublishStatus) IsValid() bool {
	for _, candidate := range validPublishStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePublishStatus converts raw input into a PublishStatus.
func ParsePublishStatus(value string) (PublishStatus, error) {
	for _, candidate := range validPublishStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid publish status %q", value)
}
