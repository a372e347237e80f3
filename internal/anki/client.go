package anki

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultURL is the AnkiConnect endpoint of a local Anki desktop install
const DefaultURL = "http://localhost:8765"

// APIVersion is the AnkiConnect protocol version sent with every request
const APIVersion = 6

// DefaultTimeout bounds every AnkiConnect round trip
const DefaultTimeout = 30 * time.Second

// ErrAnkiConnect marks errors reported in the "error" field of a response
var ErrAnkiConnect = errors.New("AnkiConnect error")

// Client talks to the AnkiConnect add-on over HTTP
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a new AnkiConnect client. An empty url uses DefaultURL.
func NewClient(url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// URL returns the endpoint the client posts to
func (c *Client) URL() string {
	return c.url
}

type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// Invoke sends one action and returns the raw result
func (c *Client) Invoke(ctx context.Context, action string, params any) (json.RawMessage, error) {
	result, err := c.invoke(ctx, action, params)
	if err != nil {
		slog.Error("AnkiConnect call failed", "action", action, "err", err)
		return nil, err
	}
	return result, nil
}

func (c *Client) invoke(ctx context.Context, action string, params any) (json.RawMessage, error) {
	body, err := json.Marshal(request{Action: action, Version: APIVersion, Params: params})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("AnkiConnect %s request failed: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("AnkiConnect %s returned HTTP %d: %s", action, resp.StatusCode, string(respBody))
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", action, err)
	}

	if out.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrAnkiConnect, action, *out.Error)
	}

	return out.Result, nil
}

// FindNotes returns the IDs of all notes in the named deck
func (c *Client) FindNotes(ctx context.Context, deckName string) ([]int64, error) {
	result, err := c.Invoke(ctx, "findNotes", map[string]any{
		"query": DeckQuery(deckName),
	})
	if err != nil {
		return nil, err
	}

	var ids []int64
	if err := decodeResult(result, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode findNotes result: %w", err)
	}
	return ids, nil
}

// NotesInfo fetches field contents for a batch of notes in one call.
// No request is made for an empty batch.
func (c *Client) NotesInfo(ctx context.Context, noteIDs []int64) ([]Note, error) {
	if len(noteIDs) == 0 {
		return []Note{}, nil
	}

	result, err := c.Invoke(ctx, "notesInfo", map[string]any{
		"notes": noteIDs,
	})
	if err != nil {
		return nil, err
	}

	var notes []Note
	if err := decodeResult(result, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode notesInfo result: %w", err)
	}
	return notes, nil
}

// AttachAudio replaces the contents of fieldName with a single audio
// attachment. The field text is cleared and Anki appends the [sound:] tag.
// Media previously referenced by the field stays in the collection.
func (c *Client) AttachAudio(ctx context.Context, noteID int64, fieldName, filename string, audioData []byte) (json.RawMessage, error) {
	update := noteUpdate{
		ID:     noteID,
		Fields: map[string]string{fieldName: ""},
		Audio: []MediaAttachment{
			{
				Filename: filename,
				Data:     base64.StdEncoding.EncodeToString(audioData),
				Fields:   []string{fieldName},
			},
		},
	}

	return c.Invoke(ctx, "updateNote", map[string]any{
		"note": update,
	})
}

// deckQuoter escapes characters that would end or break a quoted search term
var deckQuoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// DeckQuery builds the search expression selecting every note of a deck
func DeckQuery(deckName string) string {
	return fmt.Sprintf(`deck:"%s"`, deckQuoter.Replace(deckName))
}

func decodeResult(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}
