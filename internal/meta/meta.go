// Package meta looks up cover artwork for audio sources, which have no
// picture of their own to show on the media surface.
package meta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoMatch is returned when the search has no result for the term.
var ErrNoMatch = errors.New("no artwork match")

// Info holds minimal track metadata and the artwork URL.
type Info struct {
	Title   string
	Artist  string
	Album   string
	Artwork string
}

// Client queries the iTunes Search API. No API key is required.
type Client struct {
	Endpoint string
	HTTP     *http.Client
}

func NewClient() *Client {
	return &Client{
		Endpoint: "https://itunes.apple.com/search",
		HTTP:     &http.Client{Timeout: 8 * time.Second},
	}
}

// Lookup returns the best match for a freeform term.
func (c *Client) Lookup(ctx context.Context, term string) (Info, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return Info{}, ErrNoMatch
	}
	q := url.Values{}
	q.Set("term", term)
	q.Set("entity", "song")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return Info{}, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Info{}, fmt.Errorf("artwork search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Info{}, fmt.Errorf("artwork search: unexpected status %s", resp.Status)
	}

	var out struct {
		ResultCount int `json:"resultCount"`
		Results     []struct {
			TrackName      string `json:"trackName"`
			ArtistName     string `json:"artistName"`
			CollectionName string `json:"collectionName"`
			ArtworkURL100  string `json:"artworkUrl100"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Info{}, fmt.Errorf("decode artwork search: %w", err)
	}
	if out.ResultCount == 0 || len(out.Results) == 0 {
		return Info{}, ErrNoMatch
	}
	r := out.Results[0]
	return Info{
		Title:  r.TrackName,
		Artist: r.ArtistName,
		Album:  r.CollectionName,
		// ask for the larger rendition
		Artwork: strings.Replace(r.ArtworkURL100, "100x100bb.jpg", "600x600bb.jpg", 1),
	}, nil
}

// Fetch downloads the artwork image bytes.
func (c *Client) Fetch(ctx context.Context, artwork string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artwork, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch artwork: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch artwork: unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
