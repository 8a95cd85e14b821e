// Package audio is the real-output Player: it streams a track's URL and
// plays it through the system speaker. Used by the listener when -audio
// is set; everything else in the client is oblivious to it.
package audio

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Radio/internal/domain"
)

const speakerBuffer = 100 * time.Millisecond

// Speaker implements player.Player on top of beep/speaker.
type Speaker struct {
	mu sync.Mutex
	pl domain.Playlist

	sr     beep.SampleRate
	inited bool

	track    int
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	playing  bool
}

func NewSpeaker(pl domain.Playlist) (*Speaker, error) {
	if err := pl.Validate(); err != nil {
		return nil, err
	}
	s := &Speaker{pl: pl}
	if err := s.load(0); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Speaker) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playing {
		return nil
	}
	if s.ctrl == nil {
		return fmt.Errorf("no track loaded")
	}
	speaker.Lock()
	s.ctrl.Paused = false
	speaker.Unlock()
	s.playing = true
	return nil
}

func (s *Speaker) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playing {
		return
	}
	speaker.Lock()
	s.ctrl.Paused = true
	speaker.Unlock()
	s.playing = false
}

func (s *Speaker) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

func (s *Speaker) Track() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.track
}

func (s *Speaker) SetTrack(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.pl.InRange(i) {
		return domain.ErrTrackOutOfRange
	}
	wasPlaying := s.playing
	if err := s.load(i); err != nil {
		// Keep the old track; the failure is local, nothing propagates.
		log.Warn().Err(err).Int("track", i).Str("module", "audio").Msg("track load failed")
		return nil
	}
	if wasPlaying {
		speaker.Lock()
		s.ctrl.Paused = false
		speaker.Unlock()
	}
	return nil
}

func (s *Speaker) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.streamer == nil {
		return 0
	}
	speaker.Lock()
	n := s.streamer.Position()
	speaker.Unlock()
	return s.format.SampleRate.D(n).Seconds()
}

func (s *Speaker) SetPosition(sec float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.streamer == nil {
		return
	}
	if sec < 0 {
		sec = 0
	}
	n := s.format.SampleRate.N(time.Duration(sec * float64(time.Second)))
	if n >= s.streamer.Len() {
		n = s.streamer.Len() - 1
	}
	speaker.Lock()
	if err := s.streamer.Seek(n); err != nil {
		log.Warn().Err(err).Str("module", "audio").Msg("seek failed")
	}
	speaker.Unlock()
}

func (s *Speaker) Tracks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pl)
}

// load fetches and decodes track i, then hands it to the speaker paused.
// The body is buffered in memory so seeking works on a plain HTTP
// stream.
func (s *Speaker) load(i int) error {
	t := s.pl[i]

	resp, err := http.Get(t.URL)
	if err != nil {
		return fmt.Errorf("fetch track: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch track: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read track: %w", err)
	}

	streamer, format, err := decode(t.URL, body)
	if err != nil {
		return err
	}

	if s.inited {
		speaker.Clear()
	} else {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(speakerBuffer)); err != nil {
			_ = streamer.Close()
			return fmt.Errorf("speaker init: %w", err)
		}
		s.sr = format.SampleRate
		s.inited = true
	}
	if s.streamer != nil {
		_ = s.streamer.Close()
	}

	var out beep.Streamer = streamer
	if format.SampleRate != s.sr {
		out = beep.Resample(4, format.SampleRate, s.sr, streamer)
	}

	s.track = i
	s.streamer = streamer
	s.format = format
	s.ctrl = &beep.Ctrl{Streamer: out, Paused: true}
	s.playing = false
	speaker.Play(s.ctrl)

	log.Info().Str("module", "audio").Int("track", i).Str("title", t.Title).Msg("track loaded")
	return nil
}

type readSeekCloser struct {
	*bytes.Reader
}

func (readSeekCloser) Close() error { return nil }

func decode(url string, body []byte) (beep.StreamSeekCloser, beep.Format, error) {
	rc := readSeekCloser{bytes.NewReader(body)}
	switch strings.ToLower(path.Ext(strings.SplitN(url, "?", 2)[0])) {
	case ".wav":
		return wav.Decode(rc)
	case ".mp3", "":
		return mp3.Decode(rc)
	default:
		return mp3.Decode(rc)
	}
}
