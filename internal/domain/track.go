// Package domain contains entity without logic, just meta-data
package domain

import "errors"

var (
	ErrEmptyPlaylist   = errors.New("playlist empty")
	ErrMissingAudioURL = errors.New("track has no audio url")
	ErrTrackOutOfRange = errors.New("track index out of range")
)

// Track is one playable entry of the shared playlist.
type Track struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url"   yaml:"url"`
}

// Playlist is the fixed, ordered track list every listener is assumed to
// hold an identical copy of. A trackIndex on the wire only makes sense
// under that assumption.
type Playlist []Track

func (p Playlist) Validate() error {
	if len(p) == 0 {
		return ErrEmptyPlaylist
	}
	for _, t := range p {
		if t.URL == "" {
			return ErrMissingAudioURL
		}
	}
	return nil
}

func (p Playlist) InRange(i int) bool {
	return i >= 0 && i < len(p)
}

func (p Playlist) TitleOf(i int) string {
	if !p.InRange(i) {
		return ""
	}
	return p[i].Title
}
