package core

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// stationImpl is a threadsafe in-memory membership set.
// It never closes adapter-owned resources. Join order is preserved so
// that membership broadcasts list sessions oldest-first.
type stationImpl struct {
	mu    sync.RWMutex
	conns map[SessionID]ListenerConn
	order []SessionID
}

func NewStation() StationService {
	return &stationImpl{
		conns: make(map[SessionID]ListenerConn),
	}
}

func (s *stationImpl) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conns)
}

func (s *stationImpl) Snapshot() []SessionID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SessionID, len(s.order))
	copy(out, s.order)
	return out
}

func (s *stationImpl) Add(sid SessionID, conn ListenerConn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conns[sid]; !ok {
		s.order = append(s.order, sid)
	}
	s.conns[sid] = conn
	log.Info().Str("module", "core.station").Str("sid", string(sid)).Int("count", len(s.conns)).Msg("listener added")
}

func (s *stationImpl) Remove(sid SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conns[sid]; !ok {
		return
	}
	delete(s.conns, sid)
	for i, id := range s.order {
		if id == sid {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	log.Info().Str("module", "core.station").Str("sid", string(sid)).Int("count", len(s.conns)).Msg("listener removed")
}

func (s *stationImpl) Broadcast(from SessionID, data Frame) PublishResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := PublishResult{}
	for _, sid := range s.order {
		if sid == from {
			continue
		}
		if err := s.conns[sid].TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, sid)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.station").Str("from", string(from)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (s *stationImpl) EmitAll(data Frame) PublishResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := PublishResult{}
	for _, sid := range s.order {
		if err := s.conns[sid].TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, sid)
			continue
		}
		res.SentTo++
	}
	return res
}
