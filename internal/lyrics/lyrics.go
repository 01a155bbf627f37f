package lyrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"karolbroda.com/lyricpane/internal/config"
)

const (
	instrumentalText = "[instrumental]"
	userAgent        = "lyricpane/1.0"
)

var (
	httpClient     *http.Client
	httpClientOnce sync.Once
)

type LrclibResponse struct {
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

type TimedLine struct {
	TimeSeconds float64
	Text        string
}

type TrackParams struct {
	Title        string
	Artist       string
	Album        string
	DurationSecs int64
}

type Client struct {
	baseURL       string
	httpClient    *http.Client
	strategyDelay time.Duration
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:       baseURL,
		httpClient:    getHTTPClient(),
		strategyDelay: 100 * time.Millisecond,
	}
}

func getHTTPClient() *http.Client {
	httpClientOnce.Do(func() {
		transport := &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   2 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     60 * time.Second,
			TLSHandshakeTimeout: 2 * time.Second,
		}
		httpClient = &http.Client{
			Transport: transport,
			Timeout:   time.Duration(config.HTTPTimeoutSeconds) * time.Second,
		}
	})
	return httpClient
}

// Fetch returns best-effort plain lyrics for artist and title. The error is
// ErrNotFound when no search strategy produced lyrics and a *NetworkError
// when the server could not be reached.
func (c *Client) Fetch(ctx context.Context, artist string, title string) (string, error) {
	payload, err := c.Lookup(ctx, &TrackParams{Artist: artist, Title: title})
	if err != nil {
		return "", err
	}
	return Text(payload), nil
}

// Lookup runs the search strategies in order and returns the first response
// that carries lyrics.
func (c *Client) Lookup(ctx context.Context, track *TrackParams) (*LrclibResponse, error) {
	if track == nil {
		return nil, errors.New("nil track info")
	}
	if c.baseURL == "" {
		return nil, errors.New("lrclib base url is empty")
	}

	normalizedArtist := normalizeString(track.Artist)
	normalizedTitle := normalizeString(track.Title)
	if normalizedTitle == "" || normalizedArtist == "" {
		return nil, errors.New("track title or artist is empty")
	}

	parsedURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid lrclib url %q: %w", c.baseURL, err)
	}

	strategies := searchStrategies(track, normalizedArtist, normalizedTitle)

	var lastErr error
	for i, strategy := range strategies {
		query := url.Values{}
		query.Set("artist_name", strategy.artist)
		query.Set("track_name", strategy.title)
		if strategy.album != "" {
			query.Set("album_name", strategy.album)
		}
		if strategy.duration > 0 {
			query.Set("duration", strconv.FormatInt(strategy.duration, 10))
		}
		parsedURL.RawQuery = query.Encode()

		// small delay between strategies to avoid hammering the server
		if i > 0 && c.strategyDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, &NetworkError{URL: c.baseURL, Err: ctx.Err()}
			case <-time.After(c.strategyDelay):
			}
		}

		payload, err := c.doFetchRequest(ctx, parsedURL.String())
		if err == nil {
			if payload.PlainLyrics == "" && payload.SyncedLyrics == "" && !payload.Instrumental {
				lastErr = ErrNotFound
				continue
			}
			slog.Debug("lyrics found", "artist", track.Artist, "title", track.Title, "strategy", i)
			return payload, nil
		}

		lastErr = err
		if IsNetworkError(err) {
			// the server is unreachable, more variations will not help
			return nil, err
		}
	}

	if lastErr == nil {
		lastErr = ErrNotFound
	}
	return nil, fmt.Errorf("no lyrics found for %s - %s: %w", track.Artist, track.Title, lastErr)
}

// Text picks what to display from a response: plain lyrics first, then synced
// lyrics with their timestamps removed.
func Text(payload *LrclibResponse) string {
	if payload == nil {
		return ""
	}
	if payload.Instrumental && payload.PlainLyrics == "" && payload.SyncedLyrics == "" {
		return instrumentalText
	}
	if payload.PlainLyrics != "" {
		return payload.PlainLyrics
	}

	timed := ParseSynced(payload.SyncedLyrics)
	lines := make([]string, 0, len(timed))
	for _, line := range timed {
		lines = append(lines, line.Text)
	}
	return strings.Join(lines, "\n")
}

type strategy struct {
	artist   string
	title    string
	album    string
	duration int64
}

func searchStrategies(track *TrackParams, normalizedArtist string, normalizedTitle string) []strategy {
	strippedArtist := stripVersionInfo(track.Artist)
	strippedTitle := stripVersionInfo(track.Title)

	candidates := []strategy{
		{normalizedArtist, normalizedTitle, track.Album, track.DurationSecs},
		{normalizedArtist, normalizedTitle, "", track.DurationSecs},
		{normalizedArtist, normalizedTitle, "", 0},
		{strippedArtist, strippedTitle, "", 0},
		{strings.ToLower(normalizedArtist), strings.ToLower(normalizedTitle), "", 0},
		{track.Artist, track.Title, "", 0},
	}

	seen := make(map[strategy]bool)
	var unique []strategy
	for _, candidate := range candidates {
		if candidate.artist == "" || candidate.title == "" {
			continue
		}
		if !seen[candidate] {
			seen[candidate] = true
			unique = append(unique, candidate)
		}
	}
	return unique
}

func (c *Client) doFetchRequest(parentCtx context.Context, requestURL string) (*LrclibResponse, error) {
	timeout := time.Duration(config.HTTPTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(parentCtx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build http request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: requestURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &NetworkError{
			URL:        requestURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("lrclib returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var payload LrclibResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode lrclib json: %w", err)
	}

	return &payload, nil
}

// normalizeString trims and collapses runs of spaces
func normalizeString(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stripVersionInfo drops bracketed qualifiers and " - Remastered" style
// suffixes that rarely appear in lyric databases.
func stripVersionInfo(s string) string {
	for _, pair := range [][2]string{{"(", ")"}, {"[", "]"}} {
		for {
			start := strings.Index(s, pair[0])
			end := strings.Index(s, pair[1])
			if start < 0 || end <= start {
				break
			}
			s = s[:start] + " " + s[end+1:]
		}
	}

	if idx := strings.Index(s, " - "); idx > 0 {
		s = s[:idx]
	}

	return normalizeString(s)
}

func ParseSynced(raw string) []TimedLine {
	if raw == "" {
		return nil
	}

	lines := strings.Split(raw, "\n")
	result := make([]TimedLine, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		timePart, text := splitLrcLine(trimmed)
		if timePart == "" {
			continue
		}

		seconds, err := parseLrcTimeToSeconds(timePart)
		if err != nil {
			continue
		}

		result = append(result, TimedLine{
			TimeSeconds: seconds,
			Text:        text,
		})
	}

	return result
}

func splitLrcLine(line string) (string, string) {
	if !strings.HasPrefix(line, "[") {
		return "", ""
	}

	endIndex := strings.Index(line, "]")
	if endIndex <= 1 {
		return "", ""
	}

	return line[1:endIndex], strings.TrimSpace(line[endIndex+1:])
}

func parseLrcTimeToSeconds(raw string) (float64, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time format: %s", raw)
	}

	var total float64
	for _, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse time %q: %w", raw, err)
		}
		total = total*60 + value
	}

	if total < 0 {
		return 0, errors.New("negative time not allowed")
	}
	return total, nil
}
