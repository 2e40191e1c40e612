package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SnapshotSavedMessage announces that a Finance snapshot was persisted.
// It carries only the snapshot size; consumers reload the snapshot from
// the backend when they need its contents.
type SnapshotSavedMessage struct {
	ID        string    `json:"id"`
	Backend   string    `json:"backend"`
	Location  string    `json:"location"`
	Logs      int       `json:"logs"`
	Products  int       `json:"products"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSnapshotSavedMessage(backend, location string, logs, products int) *SnapshotSavedMessage {
	return &SnapshotSavedMessage{
		ID:        uuid.New().String(),
		Backend:   backend,
		Location:  location,
		Logs:      logs,
		Products:  products,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SnapshotSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SnapshotSavedMessageFromJSON decodes a message body.
func SnapshotSavedMessageFromJSON(data []byte) (*SnapshotSavedMessage, error) {
	var msg SnapshotSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
