// Package client is the listener-side counterpart of the station: it
// binds one Player to the transport channel, mirrors local intent out as
// events and applies remote events to local playback.
package client

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Radio/internal/domain"
	"github.com/dkeye/Radio/internal/player"
	"github.com/dkeye/Radio/internal/proto"
)

// Conn is the client end of the transport channel. Fire-and-forget: an
// emit failure means the event is simply gone.
type Conn interface {
	Emit(v any) error
}

// Controller owns the local deck. User intents emit; remote events are
// applied and never re-emitted — the server is the only fan-out point.
type Controller struct {
	mu     sync.Mutex
	player player.Player
	conn   Conn
	users  []string
}

func New(p player.Player, c Conn) *Controller {
	return &Controller{player: p, conn: c}
}

// Ready announces that local playback machinery is constructed. Sent
// once after connect; it triggers reconciliation server-side. If no peer
// ever answers, the controller keeps its defaults — there is no timeout.
func (c *Controller) Ready() error {
	return c.conn.Emit(proto.Signal{Type: proto.TypeListenerReady})
}

// Play starts local playback and broadcasts, unless already playing
// (no redundant broadcast for a no-op intent).
func (c *Controller) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.player.Playing() {
		return nil
	}
	if err := c.player.Play(); err != nil {
		log.Warn().Err(err).Str("module", "client").Msg("local play failed")
		return err
	}
	return c.conn.Emit(proto.Signal{Type: proto.TypePlay})
}

func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.player.Playing() {
		return nil
	}
	c.player.Pause()
	return c.conn.Emit(proto.Signal{Type: proto.TypePause})
}

// Next advances one track. Past the last track it is a silent no-op:
// no state change, no broadcast.
func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.changeTrackLocked(c.player.Track() + 1)
}

func (c *Controller) Prev() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.changeTrackLocked(c.player.Track() - 1)
}

func (c *Controller) changeTrackLocked(i int) error {
	if err := c.player.SetTrack(i); err != nil {
		if errors.Is(err, domain.ErrTrackOutOfRange) {
			return nil
		}
		return err
	}
	return c.conn.Emit(proto.TrackChange{Type: proto.TypeTrackChange, Index: i})
}

func (c *Controller) SeekTo(sec float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sec < 0 {
		sec = 0
	}
	c.player.SetPosition(sec)
	return c.conn.Emit(proto.Seek{Type: proto.TypeSeek, Time: sec})
}

// State samples the deck.
func (c *Controller) State() domain.PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.PlaybackState{
		TrackIndex: c.player.Track(),
		Position:   c.player.Position(),
	}
}

func (c *Controller) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.player.Playing()
}

// Users is the membership from the last connected-users broadcast.
func (c *Controller) Users() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.users))
	copy(out, c.users)
	return out
}

// HandleFrame applies one inbound event. Remote events mutate the deck
// directly and are not echoed back.
func (c *Controller) HandleFrame(data []byte) {
	var env proto.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "client").Msg("bad json")
		return
	}

	switch env.Type {
	case proto.TypeConnectedUsers:
		c.handleConnectedUsers(data)
	case proto.TypeGetAudioState:
		c.handleGetAudioState()
	case proto.TypeAudioStateFromServer:
		c.handleAudioState(data)
	case proto.TypePlay:
		c.mu.Lock()
		if err := c.player.Play(); err != nil {
			// Autoplay-style refusal: log and wait for user action.
			log.Warn().Err(err).Str("module", "client").Msg("remote play failed")
		}
		c.mu.Unlock()
	case proto.TypePause:
		c.mu.Lock()
		c.player.Pause()
		c.mu.Unlock()
	case proto.TypeTrackChange:
		c.handleTrackChange(data)
	case proto.TypeSeek:
		c.handleSeek(data)
	default:
		log.Warn().Str("module", "client").Str("type", env.Type).Msg("unknown event")
	}
}

// handleConnectedUsers stores the membership and pauses the deck without
// emitting. Pausing here is what keeps a fresh joiner silent until the
// next explicit play.
func (c *Controller) handleConnectedUsers(data []byte) {
	var cu proto.ConnectedUsers
	if err := json.Unmarshal(data, &cu); err != nil {
		log.Error().Err(err).Str("module", "client").Msg("bad connected-users payload")
		return
	}
	c.mu.Lock()
	c.users = cu.Users
	c.player.Pause()
	c.mu.Unlock()
	log.Info().Str("module", "client").Int("listeners", len(cu.Users)).Msg("membership update")
}

// handleGetAudioState answers a reconciliation request with the deck
// snapshot at this instant.
func (c *Controller) handleGetAudioState() {
	c.mu.Lock()
	st := proto.AudioState{
		Type:              proto.TypeAudioState,
		CurrentTrackIndex: c.player.Track(),
		CurrentTime:       c.player.Position(),
		SampledAt:         proto.NowMillis(),
	}
	c.mu.Unlock()
	if err := c.conn.Emit(st); err != nil {
		log.Warn().Err(err).Str("module", "client").Msg("emit audio-state failed")
	}
}

// handleAudioState adopts a relayed snapshot: track first, then position.
// Playing/paused is untouched; that is governed by play/pause events.
// No delay compensation is applied to the reported position.
func (c *Controller) handleAudioState(data []byte) {
	var st proto.AudioState
	if err := json.Unmarshal(data, &st); err != nil {
		log.Error().Err(err).Str("module", "client").Msg("bad audio-state payload")
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.player.SetTrack(st.CurrentTrackIndex); err != nil {
		log.Warn().Err(err).Int("track", st.CurrentTrackIndex).Str("module", "client").Msg("reconcile track rejected")
		return
	}
	c.player.SetPosition(st.CurrentTime)
	log.Info().Str("module", "client").Int("track", st.CurrentTrackIndex).Float64("time", st.CurrentTime).Msg("adopted state")
}

func (c *Controller) handleTrackChange(data []byte) {
	var tc proto.TrackChange
	if err := json.Unmarshal(data, &tc); err != nil {
		log.Error().Err(err).Str("module", "client").Msg("bad track-change payload")
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.player.SetTrack(tc.Index); err != nil {
		log.Warn().Err(err).Int("track", tc.Index).Str("module", "client").Msg("remote track-change rejected")
	}
}

func (c *Controller) handleSeek(data []byte) {
	var sk proto.Seek
	if err := json.Unmarshal(data, &sk); err != nil {
		log.Error().Err(err).Str("module", "client").Msg("bad seek payload")
		return
	}
	c.mu.Lock()
	c.player.SetPosition(sk.Time)
	c.mu.Unlock()
}
