package client

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dkeye/Radio/internal/domain"
	"github.com/dkeye/Radio/internal/player"
	"github.com/dkeye/Radio/internal/proto"
)

type fakeConn struct {
	emitted []any
}

func (f *fakeConn) Emit(v any) error {
	f.emitted = append(f.emitted, v)
	return nil
}

func testPlaylist() domain.Playlist {
	return domain.Playlist{
		{Title: "A", URL: "http://cdn/a.mp3"},
		{Title: "B", URL: "http://cdn/b.mp3"},
		{Title: "C", URL: "http://cdn/c.mp3"},
	}
}

func newTestController() (*Controller, *player.Deck, *fakeConn, *time.Time) {
	now := time.Unix(1000, 0)
	deck := player.NewDeckWithClock(testPlaylist(), func() time.Time { return now })
	conn := &fakeConn{}
	return New(deck, conn), deck, conn, &now
}

func frame(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestReadyEmitsListenerReady(t *testing.T) {
	ctrl, _, conn, _ := newTestController()
	require.NoError(t, ctrl.Ready())
	require.Equal(t, []any{proto.Signal{Type: proto.TypeListenerReady}}, conn.emitted)
}

func TestJoinerWithoutPeersKeepsDefaults(t *testing.T) {
	ctrl, _, conn, _ := newTestController()
	require.NoError(t, ctrl.Ready())

	// Nobody answers; no timeout exists, the defaults simply stand.
	st := ctrl.State()
	require.Zero(t, st.TrackIndex)
	require.Zero(t, st.Position)
	require.False(t, ctrl.Playing())
	require.Len(t, conn.emitted, 1)
}

func TestJoinerAdoptsRelayedState(t *testing.T) {
	ctrl, _, conn, _ := newTestController()

	ctrl.HandleFrame(frame(t, proto.AudioState{
		Type:              proto.TypeAudioStateFromServer,
		CurrentTrackIndex: 2,
		CurrentTime:       37.5,
	}))

	st := ctrl.State()
	require.Equal(t, 2, st.TrackIndex)
	require.InDelta(t, 37.5, st.Position, 1e-9)
	// Index and position are adopted; playing/paused is governed by
	// play/pause events, not by reconciliation.
	require.False(t, ctrl.Playing())
	require.Empty(t, conn.emitted)
}

func TestLastRelayedStateWins(t *testing.T) {
	ctrl, _, _, _ := newTestController()

	ctrl.HandleFrame(frame(t, proto.AudioState{Type: proto.TypeAudioStateFromServer, CurrentTrackIndex: 1, CurrentTime: 10}))
	ctrl.HandleFrame(frame(t, proto.AudioState{Type: proto.TypeAudioStateFromServer, CurrentTrackIndex: 2, CurrentTime: 99}))

	st := ctrl.State()
	require.Equal(t, 2, st.TrackIndex)
	require.InDelta(t, 99.0, st.Position, 1e-9)
}

func TestGetAudioStateAnswersWithSnapshot(t *testing.T) {
	ctrl, deck, conn, _ := newTestController()
	require.NoError(t, deck.SetTrack(1))
	deck.SetPosition(12.3)

	ctrl.HandleFrame(frame(t, proto.Signal{Type: proto.TypeGetAudioState}))

	require.Len(t, conn.emitted, 1)
	st, ok := conn.emitted[0].(proto.AudioState)
	require.True(t, ok)
	require.Equal(t, proto.TypeAudioState, st.Type)
	require.Equal(t, 1, st.CurrentTrackIndex)
	require.InDelta(t, 12.3, st.CurrentTime, 1e-9)
	require.NotZero(t, st.SampledAt)
}

func TestPlayEmitsOnlyOnStateChange(t *testing.T) {
	ctrl, _, conn, _ := newTestController()

	require.NoError(t, ctrl.Play())
	require.NoError(t, ctrl.Play())
	require.Equal(t, []any{proto.Signal{Type: proto.TypePlay}}, conn.emitted)

	require.NoError(t, ctrl.Pause())
	require.NoError(t, ctrl.Pause())
	require.Equal(t, []any{
		proto.Signal{Type: proto.TypePlay},
		proto.Signal{Type: proto.TypePause},
	}, conn.emitted)
}

func TestRemoteEventsAreNotReEmitted(t *testing.T) {
	ctrl, _, conn, _ := newTestController()

	ctrl.HandleFrame(frame(t, proto.Signal{Type: proto.TypePlay}))
	require.True(t, ctrl.Playing())

	ctrl.HandleFrame(frame(t, proto.Seek{Type: proto.TypeSeek, Time: 5}))
	ctrl.HandleFrame(frame(t, proto.TrackChange{Type: proto.TypeTrackChange, Index: 1}))
	ctrl.HandleFrame(frame(t, proto.Signal{Type: proto.TypePause}))

	require.False(t, ctrl.Playing())
	require.Empty(t, conn.emitted)
}

func TestTrackChangeBounds(t *testing.T) {
	ctrl, _, conn, _ := newTestController()

	require.NoError(t, ctrl.Next())
	require.NoError(t, ctrl.Next())
	require.Equal(t, 2, ctrl.State().TrackIndex)
	require.Len(t, conn.emitted, 2)

	// Past the last track: no mutation, no broadcast.
	require.NoError(t, ctrl.Next())
	require.Equal(t, 2, ctrl.State().TrackIndex)
	require.Len(t, conn.emitted, 2)
}

func TestPrevAtFirstTrackIsSilentNoop(t *testing.T) {
	ctrl, _, conn, _ := newTestController()

	require.NoError(t, ctrl.Prev())
	require.Zero(t, ctrl.State().TrackIndex)
	require.Empty(t, conn.emitted)
}

func TestRemoteTrackChangeOutOfRangeIgnored(t *testing.T) {
	ctrl, _, _, _ := newTestController()

	ctrl.HandleFrame(frame(t, proto.TrackChange{Type: proto.TypeTrackChange, Index: 99}))
	ctrl.HandleFrame(frame(t, proto.TrackChange{Type: proto.TypeTrackChange, Index: -1}))

	require.Zero(t, ctrl.State().TrackIndex)
}

func TestSeekIsIdempotentOnReceiver(t *testing.T) {
	ctrl, _, _, _ := newTestController()
	seek := frame(t, proto.Seek{Type: proto.TypeSeek, Time: 21})

	ctrl.HandleFrame(seek)
	once := ctrl.State().Position

	ctrl.HandleFrame(seek)
	require.InDelta(t, once, ctrl.State().Position, 1e-9)
	require.InDelta(t, 21.0, ctrl.State().Position, 1e-9)
}

func TestMembershipUpdatePausesWithoutEmitting(t *testing.T) {
	ctrl, _, conn, _ := newTestController()

	require.NoError(t, ctrl.Play())
	require.Len(t, conn.emitted, 1)

	ctrl.HandleFrame(frame(t, proto.ConnectedUsers{
		Type:  proto.TypeConnectedUsers,
		Users: []string{"one", "two"},
	}))

	require.False(t, ctrl.Playing())
	require.Equal(t, []string{"one", "two"}, ctrl.Users())
	require.Len(t, conn.emitted, 1)
}

func TestSeekToClampsNegative(t *testing.T) {
	ctrl, _, conn, _ := newTestController()

	require.NoError(t, ctrl.SeekTo(-3))
	require.Zero(t, ctrl.State().Position)
	require.Equal(t, []any{proto.Seek{Type: proto.TypeSeek, Time: 0}}, conn.emitted)
}

func TestMalformedFrameIsDropped(t *testing.T) {
	ctrl, _, _, _ := newTestController()
	ctrl.HandleFrame([]byte(`{not json`))
	ctrl.HandleFrame(frame(t, proto.Envelope{Type: "bogus"}))
	require.Zero(t, ctrl.State().TrackIndex)
}
