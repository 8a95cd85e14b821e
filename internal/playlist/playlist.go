// Package playlist loads the shared track list. The server reads it from
// a local YAML file; clients fetch the served copy over HTTP so everyone
// holds the same ordered list.
package playlist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/dkeye/Radio/internal/domain"
)

const fetchTimeout = 10 * time.Second

func LoadFile(path string) (domain.Playlist, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read playlist: %w", err)
	}
	var pl domain.Playlist
	if err := yaml.Unmarshal(b, &pl); err != nil {
		return nil, fmt.Errorf("parse playlist: %w", err)
	}
	if err := pl.Validate(); err != nil {
		return nil, err
	}
	return pl, nil
}

// Fetch pulls the playlist from the coordination server, one shot. The
// result is treated as immutable for the session lifetime.
func Fetch(ctx context.Context, serverURL string) (domain.Playlist, error) {
	url := strings.TrimRight(serverURL, "/") + "/api/playlist"

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch playlist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch playlist: unexpected status %d", resp.StatusCode)
	}

	var pl domain.Playlist
	if err := json.NewDecoder(resp.Body).Decode(&pl); err != nil {
		return nil, fmt.Errorf("decode playlist: %w", err)
	}
	if err := pl.Validate(); err != nil {
		return nil, err
	}
	return pl, nil
}
