package profile

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of one side of a connection.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Event is a transition trigger of the connection state machine.
type Event string

const (
	EventAccept Event = "accept"
	EventReject Event = "reject"
)

// ConnectionRecord is one side's view of a pairwise relationship.
type ConnectionRecord struct {
	OwnerID     string    `json:"ownerId"`
	PeerID      string    `json:"peerId"`
	Status      Status    `json:"status"`
	InitiatedBy string    `json:"initiatedBy,omitempty"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// Mirror returns the record the peer is expected to hold.
func (r ConnectionRecord) Mirror() ConnectionRecord {
	return ConnectionRecord{
		OwnerID:     r.PeerID,
		PeerID:      r.OwnerID,
		Status:      r.Status,
		InitiatedBy: r.InitiatedBy,
		ConnectedAt: r.ConnectedAt,
	}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}

// Next applies event to s. Only pending connections can move.
func (s Status) Next(event Event) (Status, error) {
	if s != StatusPending {
		return s, fmt.Errorf("%w: connection already %s", ErrInvalidTransition, s)
	}
	switch event {
	case EventAccept:
		return StatusAccepted, nil
	case EventReject:
		return StatusRejected, nil
	default:
		return s, fmt.Errorf("%w: unknown event %q", ErrInvalidTransition, event)
	}
}
