package core

// Frame is one encoded wire event.
type Frame []byte

// SessionID identifies one live connection. Assigned by the transport at
// upgrade time; a reconnect gets a fresh one.
type SessionID string

// ListenerConn abstracts the transport endpoint of one session.
// Owned by the adapter; the adapter must Close() it.
type ListenerConn interface {
	TrySend(Frame) error
	Close()
}

// PublishResult reports delivery stats/backpressure to the caller.
type PublishResult struct {
	SentTo  int
	Dropped []SessionID
}

// StationService owns the membership set of the single implicit room.
// It never touches transport resources beyond TrySend.
type StationService interface {
	Count() int
	Snapshot() []SessionID

	Add(sid SessionID, conn ListenerConn)
	Remove(sid SessionID)

	// Broadcast fans data out to every member except from.
	Broadcast(from SessionID, data Frame) PublishResult
	// EmitAll fans data out to every member, originator included.
	EmitAll(data Frame) PublishResult
}
