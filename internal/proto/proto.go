// Package proto is the wire catalog of the shared-listening channel.
// Every frame is a JSON object carrying a "type" discriminator; payload
// fields live flat next to it.
package proto

import "time"

const (
	// server → all sessions on every membership change
	TypeConnectedUsers = "connected-users"

	// client → server once its playback machinery is constructed
	TypeListenerReady = "listener-ready"

	// server → every session except the new joiner
	TypeGetAudioState = "get-audio-state"

	// client → server: snapshot of the local deck
	TypeAudioState = "audio-state"

	// server → everyone but the reporter: the relayed snapshot
	TypeAudioStateFromServer = "audio-state-from-server"

	TypePlay        = "play"
	TypePause       = "pause"
	TypeTrackChange = "track-change"
	TypeSeek        = "seek"
)

// Envelope is the minimal decode used to dispatch an inbound frame.
type Envelope struct {
	Type string `json:"type"`
}

// Signal is a payload-free event (play, pause, listener-ready, get-audio-state).
type Signal struct {
	Type string `json:"type"`
}

type ConnectedUsers struct {
	Type  string   `json:"type"`
	Users []string `json:"users"`
}

// AudioState carries a deck snapshot. SampledAt is the sender's clock in
// unix millis; nothing reads it today, but a delay-compensating client
// could without a wire change.
type AudioState struct {
	Type              string  `json:"type"`
	CurrentTrackIndex int     `json:"currentTrackIndex"`
	CurrentTime       float64 `json:"currentTime"`
	SampledAt         int64   `json:"sampledAt,omitempty"`
}

type TrackChange struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}

type Seek struct {
	Type string  `json:"type"`
	Time float64 `json:"time"`
}

func NowMillis() int64 { return time.Now().UnixMilli() }
