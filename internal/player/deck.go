package player

import (
	"sync"
	"time"

	"github.com/dkeye/Radio/internal/domain"
)

// Deck is a simulated audio element: while playing, the position advances
// with the wall clock from an anchor set at the last play/seek/track
// change. No audio is produced; the listener uses it headless and the
// tests use it with a fake clock.
type Deck struct {
	mu sync.Mutex
	pl domain.Playlist

	now func() time.Time

	track    int
	anchor   float64
	anchorAt time.Time
	playing  bool
}

func NewDeck(pl domain.Playlist) *Deck {
	return NewDeckWithClock(pl, time.Now)
}

func NewDeckWithClock(pl domain.Playlist, now func() time.Time) *Deck {
	return &Deck{pl: pl, now: now, anchorAt: now()}
}

func (d *Deck) Play() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.playing {
		return nil
	}
	d.anchorAt = d.now()
	d.playing = true
	return nil
}

func (d *Deck) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.playing {
		return
	}
	d.anchor = d.positionLocked()
	d.playing = false
}

func (d *Deck) Playing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.playing
}

func (d *Deck) Track() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.track
}

func (d *Deck) SetTrack(i int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.pl.InRange(i) {
		return domain.ErrTrackOutOfRange
	}
	d.track = i
	d.anchor = 0
	d.anchorAt = d.now()
	return nil
}

func (d *Deck) Position() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.positionLocked()
}

func (d *Deck) SetPosition(sec float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if sec < 0 {
		sec = 0
	}
	d.anchor = sec
	d.anchorAt = d.now()
}

func (d *Deck) Tracks() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pl)
}

func (d *Deck) positionLocked() float64 {
	if !d.playing {
		return d.anchor
	}
	return d.anchor + d.now().Sub(d.anchorAt).Seconds()
}
