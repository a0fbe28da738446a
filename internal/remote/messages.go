// ABOUTME: JSON message types for the remote control protocol
// ABOUTME: Commands from remotes and state/event notifications to them
package remote

// Message is the envelope for all remote control traffic
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Message types from remote to player
const (
	TypeHello  = "hello"
	TypePlay   = "play"
	TypePause  = "pause"
	TypeSeek   = "seek"
	TypeVolume = "volume"
)

// Message types from player to remote
const (
	TypeWelcome = "welcome"
	TypeState   = "state"
	TypeEvent   = "event"
)

// HelloPayload introduces a remote when it connects
type HelloPayload struct {
	Name string `json:"name"`
}

// SeekPayload carries the target position in seconds
type SeekPayload struct {
	Seconds float64 `json:"seconds"`
}

// VolumePayload carries the target gain (0.0 to 1.0)
type VolumePayload struct {
	Volume float64 `json:"volume"`
}

// WelcomePayload identifies the player to a newly connected remote
type WelcomePayload struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Version  string `json:"version"`
}

// StatePayload is a playback snapshot sent on connect and after commands
type StatePayload struct {
	State    string            `json:"state"`
	Position float64           `json:"position"`
	Duration float64           `json:"duration"`
	Volume   float64           `json:"volume"`
	Tags     map[string]string `json:"tags,omitempty"`
}

// EventPayload mirrors a playback lifecycle event to remotes
type EventPayload struct {
	Event    string  `json:"event"`
	Position float64 `json:"position,omitempty"`
	Volume   float64 `json:"volume,omitempty"`
	Error    string  `json:"error,omitempty"`
}
