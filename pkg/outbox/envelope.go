package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PayloadEnvelope is the stable payload structure stored in outbox_events.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// PublishTarget ties one fan-out target to the audit row reserved for it.
type PublishTarget struct {
	RecordID  uuid.UUID `json:"recordId"`
	GroupID   string    `json:"groupId"`
	GroupName string    `json:"groupName"`
}

// PublishRequestedData is the event body for a relayed fan-out request. The
// automation worker posts to each target and finalizes the pending audit rows
// named by RecordID.
type PublishRequestedData struct {
	PropertyID uuid.UUID       `json:"propertyId"`
	Message    string          `json:"message"`
	Targets    []PublishTarget `json:"targets"`
}
