package model

import "fmt"

// Status tracks where a pairing is in its lifecycle. StatusCompleted is
// part of the wire vocabulary but is never written to the store:
// completion is signaled by the presence of a response payload, at which
// point the status key is removed.
type Status string

const (
	StatusInitialized Status = "initialized"
	StatusRetrieved   Status = "retrieved"
	StatusCompleted   Status = "completed"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusInitialized, StatusRetrieved, StatusCompleted:
		return Status(s), nil
	}
	return "", fmt.Errorf("invalid status: %q", s)
}

func (s Status) String() string {
	return string(s)
}

// Payload is the encrypted blob relayed between the two parties. The
// bridge treats both fields as opaque; it never decrypts or inspects them.
type Payload struct {
	IV      string `json:"iv" binding:"required"`
	Payload string `json:"payload" binding:"required"`
}
