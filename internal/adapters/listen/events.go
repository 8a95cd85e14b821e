package listen

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Radio/internal/core"
	"github.com/dkeye/Radio/internal/proto"
)

// handleReady starts reconciliation for a new joiner: ask every other
// session for its deck snapshot. The server keeps no playback state, so
// there is nothing to consult locally. With zero peers nobody answers
// and the joiner stays on its defaults; that is not an error.
func (ctl *Controller) handleReady(sid core.SessionID) {
	log.Info().Str("module", "listen").Str("sid", string(sid)).Msg("listener ready")
	ctl.broadcastFrom(sid, proto.Signal{Type: proto.TypeGetAudioState})
}

// handleAudioState relays a reported snapshot to everyone but the
// reporter. When several peers answer, the joiner applies whichever
// relay it processes last; there is no election.
func (ctl *Controller) handleAudioState(sid core.SessionID, data []byte) {
	var st proto.AudioState
	if err := json.Unmarshal(data, &st); err != nil {
		log.Error().Err(err).Str("module", "listen").Msg("bad audio-state payload")
		return
	}
	log.Info().Str("module", "listen").Str("sid", string(sid)).
		Int("track", st.CurrentTrackIndex).Float64("time", st.CurrentTime).Msg("received state")

	st.Type = proto.TypeAudioStateFromServer
	ctl.broadcastFrom(sid, st)
}

// handleControl relays play/pause/track-change/seek verbatim, excluding
// the originator. The payload is not validated here; bounds checks are a
// playback-controller concern on the client.
func (ctl *Controller) handleControl(sid core.SessionID, typ string, data []byte) {
	log.Debug().Str("module", "listen").Str("sid", string(sid)).Str("type", typ).Msg("relay control event")
	ctl.Orch.Station.Broadcast(sid, data)
}

func (ctl *Controller) broadcastFrom(sid core.SessionID, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "listen").Msg("broadcast marshal")
		return
	}
	ctl.Orch.Station.Broadcast(sid, b)
}

// emitUsers publishes the full membership to every session, newcomer
// included. Full list every time, no diffing; fine at station scale.
func (ctl *Controller) emitUsers() {
	snap := ctl.Orch.Station.Snapshot()
	users := make([]string, len(snap))
	for i, sid := range snap {
		users[i] = string(sid)
	}
	b, err := json.Marshal(proto.ConnectedUsers{Type: proto.TypeConnectedUsers, Users: users})
	if err != nil {
		log.Error().Err(err).Str("module", "listen").Msg("emitUsers marshal")
		return
	}
	ctl.Orch.Station.EmitAll(b)
}
