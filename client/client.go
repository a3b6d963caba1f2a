// Package client is the HTTP implementation of the editor transport,
// speaking the server's JSON envelope.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"main/dto"
	"main/editor"
)

type Client struct {
	BaseURL    string
	Token      string // bearer access token
	HTTPClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// envelope mirrors the server's response wrapper.
type envelope struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("malformed response (%d): %w", resp.StatusCode, err)
		}
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", editor.ErrNotFound, env.Error)
	}
	if resp.StatusCode >= 400 {
		if env.Error != "" {
			return fmt.Errorf("request failed (%d): %s", resp.StatusCode, env.Error)
		}
		return fmt.Errorf("request failed (%d)", resp.StatusCode)
	}

	if out != nil && env.Data != nil {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

func toEditorNote(resp *dto.NoteResponse) *editor.Note {
	return &editor.Note{
		ID:        resp.ID,
		Title:     resp.Title,
		Content:   resp.Content,
		Tags:      resp.Tags,
		IsPinned:  resp.IsPinned,
		IsPublic:  resp.IsPublic,
		PublicID:  resp.PublicID,
		Version:   resp.Version,
		UpdatedAt: resp.UpdatedAt,
	}
}

func (c *Client) GetNote(ctx context.Context, id string) (*editor.Note, error) {
	var resp dto.NoteResponse
	if err := c.do(ctx, http.MethodGet, "/api/notes/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return toEditorNote(&resp), nil
}

func (c *Client) SaveNote(ctx context.Context, id string, payload editor.SavePayload) (*editor.Note, error) {
	body := dto.UpdateNoteRequest{
		Title:   &payload.Title,
		Content: &payload.Content,
		Tags:    &payload.Tags,
	}

	var resp dto.NoteResponse
	if err := c.do(ctx, http.MethodPut, "/api/notes/"+id, body, &resp); err != nil {
		return nil, err
	}
	return toEditorNote(&resp), nil
}

func (c *Client) TogglePin(ctx context.Context, id string) (*editor.Note, error) {
	var resp dto.NoteResponse
	if err := c.do(ctx, http.MethodPost, "/api/notes/"+id+"/toggle-pin", nil, &resp); err != nil {
		return nil, err
	}
	return toEditorNote(&resp), nil
}

func (c *Client) TrashNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/notes/"+id+"/trash", nil, nil)
}

func (c *Client) PermanentDelete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/notes/"+id+"/permanent", nil, nil)
}

func (c *Client) ShareNote(ctx context.Context, id string) (*editor.ShareInfo, error) {
	var resp dto.ShareResponse
	if err := c.do(ctx, http.MethodPost, "/api/notes/"+id+"/share", nil, &resp); err != nil {
		return nil, err
	}
	return &editor.ShareInfo{PublicID: resp.PublicID, PublicURL: resp.PublicURL}, nil
}

func (c *Client) UnshareNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/notes/"+id+"/unshare", nil, nil)
}

// ListActive fetches the active list for display outside the editor.
func (c *Client) ListActive(ctx context.Context) ([]dto.NoteResponse, error) {
	var notes []dto.NoteResponse
	if err := c.do(ctx, http.MethodGet, "/api/notes", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// ListTrash fetches the trash list.
func (c *Client) ListTrash(ctx context.Context) ([]dto.NoteResponse, error) {
	var notes []dto.NoteResponse
	if err := c.do(ctx, http.MethodGet, "/api/notes/trash/list", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// RestoreNote brings a trashed note back from the trash page.
func (c *Client) RestoreNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/notes/"+id+"/restore", nil, nil)
}

var _ editor.API = (*Client)(nil)
