package mqtt

import (
	"encoding/json"
	"time"
)

// Presence values published on smarthome/system/status.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"

	reasonShutdown   = "graceful_shutdown"
	reasonConnection = "unexpected_disconnect"
)

// Presence identifies this core in its retained status messages, so a
// subscriber can tell which home went offline and what it was running.
type Presence struct {
	Home    string
	Version string
	Rules   int
	Tasks   int
}

// Status is the retained payload on smarthome/system/status.
type Status struct {
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	ClientID  string    `json:"client_id"`
	Home      string    `json:"home,omitempty"`
	Version   string    `json:"version,omitempty"`
	Rules     int       `json:"rules"`
	Tasks     int       `json:"tasks"`
	Timestamp time.Time `json:"timestamp"`
}

func (p Presence) status(clientID, state, reason string) Status {
	return Status{
		Status:    state,
		Reason:    reason,
		ClientID:  clientID,
		Home:      p.Home,
		Version:   p.Version,
		Rules:     p.Rules,
		Tasks:     p.Tasks,
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}
}

// online is published on every (re)connect.
func (p Presence) online(clientID string) []byte {
	return encodeStatus(p.status(clientID, StatusOnline, ""))
}

// offline is published by Close before disconnecting.
func (p Presence) offline(clientID string) []byte {
	return encodeStatus(p.status(clientID, StatusOffline, reasonShutdown))
}

// will is left with the broker for a connection that drops.
func (p Presence) will(clientID string) []byte {
	return encodeStatus(p.status(clientID, StatusOffline, reasonConnection))
}

func encodeStatus(s Status) []byte {
	// Status has only plain fields; Marshal cannot fail.
	b, _ := json.Marshal(s) //nolint:errcheck
	return b
}
