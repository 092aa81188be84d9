// Package character is the HTTP client for the remote character service:
// history creation, turn calls, search, character info, and the image
// reachability probe used before attaching images to Discord messages.
package character

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"character-relay/internal/relay"

	"github.com/google/uuid"
)

const defaultBaseURL = "https://beta.character.ai"

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	gate    *callGate
}

// New returns a client authenticated with the service user token.
func New(token string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		gate:    newCallGate(),
	}
}

// NewWithBaseURL is used by tests to point the client at a local server.
func NewWithBaseURL(token, baseURL string) *Client {
	c := New(token)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// CreateNewChat opens a fresh history with a character and returns its id.
func (c *Client) CreateNewChat(ctx context.Context, characterID string) (string, error) {
	payload := map[string]any{"character_external_id": characterID}

	var parsed struct {
		ExternalID string `json:"external_id"`
	}
	if err := c.post(ctx, "/chat/history/create/", payload, &parsed); err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}
	if parsed.ExternalID == "" {
		return "", fmt.Errorf("create chat: empty history id")
	}
	return parsed.ExternalID, nil
}

// CallCharacter sends one turn and returns the parsed replies. text may be
// empty when fetching additional alternates for an existing turn; in that
// case parentMsgID names the user message to resume from.
func (c *Client) CallCharacter(ctx context.Context, text, imagePath, historyID string, parentMsgID uint64) (*CallResponse, error) {
	payload := map[string]any{
		"history_external_id": historyID,
	}
	if text != "" {
		payload["text"] = text
	}
	if imagePath != "" {
		payload["image_rel_path"] = imagePath
	}
	if parentMsgID != 0 {
		payload["parent_msg_id"] = parentMsgID
	}

	var parsed struct {
		Replies []struct {
			ID           uint64 `json:"id"`
			Text         string `json:"text"`
			ImageRelPath string `json:"image_rel_path"`
		} `json:"replies"`
		LastUserMsgID uint64 `json:"last_user_msg_id"`
	}
	if err := c.post(ctx, "/chat/streaming/", payload, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Replies) == 0 {
		return nil, fmt.Errorf("character gave no answer")
	}

	out := &CallResponse{LastUserMsgID: parsed.LastUserMsgID}
	for _, r := range parsed.Replies {
		out.Replies = append(out.Replies, relay.Reply{
			ID:        r.ID,
			Text:      strings.TrimSpace(r.Text),
			HasImage:  r.ImageRelPath != "",
			ImagePath: r.ImageRelPath,
		})
	}
	return out, nil
}

// SearchCharacters queries the service's character catalog.
func (c *Client) SearchCharacters(ctx context.Context, query string) ([]Character, error) {
	var parsed struct {
		Characters []wireCharacter `json:"characters"`
	}
	path := "/chat/characters/search/?query=" + url.QueryEscape(query)
	if err := c.get(ctx, path, &parsed); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	out := make([]Character, 0, len(parsed.Characters))
	for _, w := range parsed.Characters {
		out = append(out, w.toCharacter())
	}
	return out, nil
}

// GetInfo fetches one character's full record. A missing character comes
// back as an empty record, not an error.
func (c *Client) GetInfo(ctx context.Context, characterID string) (*Character, error) {
	payload := map[string]any{"external_id": characterID}

	var parsed struct {
		Character wireCharacter `json:"character"`
	}
	if err := c.post(ctx, "/chat/character/info/", payload, &parsed); err != nil {
		return nil, fmt.Errorf("character info: %w", err)
	}
	ch := parsed.Character.toCharacter()
	return &ch, nil
}

type wireCharacter struct {
	ExternalID      string `json:"external_id"`
	Name            string `json:"participant__name"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Greeting        string `json:"greeting"`
	Author          string `json:"user__username"`
	AvatarFileName  string `json:"avatar_file_name"`
	ImageGenEnabled bool   `json:"img_gen_enabled"`
	Interactions    int    `json:"participant__num_interactions"`
}

func (w wireCharacter) toCharacter() Character {
	ch := Character{
		ID:              w.ExternalID,
		Name:            w.Name,
		Title:           w.Title,
		Description:     w.Description,
		Greeting:        w.Greeting,
		Author:          w.Author,
		ImageGenEnabled: w.ImageGenEnabled,
		Interactions:    w.Interactions,
	}
	if w.AvatarFileName != "" {
		ch.AvatarURLFull = "https://characterai.io/i/400/static/avatars/" + w.AvatarFileName
		ch.AvatarURLMini = "https://characterai.io/i/80/static/avatars/" + w.AvatarFileName
	}
	return ch
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, _ := json.Marshal(payload)
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(body), out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	var buf []byte
	if body != nil {
		buf, _ = io.ReadAll(body)
	}

	return c.gate.do(ctx, 3, func() error {
		var reader io.Reader
		if buf != nil {
			reader = bytes.NewReader(buf)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Token "+c.token)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-Id", uuid.NewString())

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &httpError{status: resp.StatusCode, body: string(respBody)}
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("unmarshal: %w body=%s", err, string(respBody))
		}
		return nil
	})
}
