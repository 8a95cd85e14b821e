package app

import (
	"context"

	"github.com/dkeye/Radio/internal/core"
	"github.com/rs/zerolog/log"
)

// Orchestrator glues the session registry to the station. The server
// holds no playback state of its own; everything beyond membership is
// relay work done by the transport adapter.
type Orchestrator struct {
	Registry *Registry
	Station  core.StationService
}

// Connect registers a fresh session and adds it to the station.
func (o *Orchestrator) Connect(sid core.SessionID, conn core.ListenerConn, cancel context.CancelFunc) {
	o.Registry.Bind(sid, conn, cancel)
	o.Station.Add(sid, conn)
	log.Info().Str("module", "app.orchestrator").Str("sid", string(sid)).Msg("listener connected")
}

// Disconnect tears a session down. In-flight frames to the session are
// dropped by the transport; nothing is retried.
func (o *Orchestrator) Disconnect(sid core.SessionID) {
	o.Registry.Cancel(sid)
	o.Station.Remove(sid)
	o.Registry.Unbind(sid)
	log.Info().Str("module", "app.orchestrator").Str("sid", string(sid)).Msg("listener disconnected")
}
