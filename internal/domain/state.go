package domain

// PlaybackState is a snapshot of one listener's deck, sampled at some
// wall-clock instant. It is never stored server-side; it only exists on
// the wire during reconciliation.
type PlaybackState struct {
	TrackIndex int
	Position   float64
}
