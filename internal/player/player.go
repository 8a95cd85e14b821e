// Package player abstracts the local audio element. The playback
// controller drives it the same way whether it is the clock-simulated
// deck or a real speaker.
package player

// Player is one audio element: a current track, a position within it and
// a playing/paused flag. Implementations are safe for concurrent use.
type Player interface {
	// Play may fail (a real output device can refuse to start); the
	// failure is the caller's to log, never to propagate further.
	Play() error
	Pause()
	Playing() bool

	Track() int
	// SetTrack switches the active track and rewinds to zero. Out of
	// range returns domain.ErrTrackOutOfRange with no state change.
	SetTrack(i int) error

	Position() float64
	// SetPosition jumps within the current track. Negative values clamp
	// to zero. Applying the same position twice is a no-op.
	SetPosition(sec float64)

	Tracks() int
}
