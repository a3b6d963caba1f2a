package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"main/dto"
	"main/editor"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, "test-token"), server
}

func writeEnvelope(w http.ResponseWriter, status int, errMsg string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": errMsg,
		"data":  data,
	})
}

func TestGetNote(t *testing.T) {
	var gotAuth, gotPath string
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		writeEnvelope(w, http.StatusOK, "", dto.NoteResponse{
			ID:      "n1",
			Title:   "Fetched",
			Content: "body",
			Version: 4,
		})
	})

	note, err := c.GetNote(context.Background(), "n1")
	if err != nil {
		t.Fatalf("GetNote failed: %v", err)
	}
	if gotPath != "/api/notes/n1" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if note.Title != "Fetched" || note.Version != 4 {
		t.Errorf("note = %+v", note)
	}
}

func TestNotFoundMapsToEditorSentinel(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, "Note not found", nil)
	})

	_, err := c.GetNote(context.Background(), "gone")
	if !errors.Is(err, editor.ErrNotFound) {
		t.Fatalf("err = %v, want wrapped editor.ErrNotFound", err)
	}
}

func TestSaveNoteSendsFullDraft(t *testing.T) {
	var gotMethod string
	var gotBody dto.UpdateNoteRequest
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)
		writeEnvelope(w, http.StatusOK, "", dto.NoteResponse{ID: "n1", Version: 2})
	})

	_, err := c.SaveNote(context.Background(), "n1", editor.SavePayload{
		Title:   "Saved",
		Content: "new body",
		Tags:    []string{"work"},
	})
	if err != nil {
		t.Fatalf("SaveNote failed: %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Errorf("method = %q, want PUT", gotMethod)
	}
	if gotBody.Title == nil || *gotBody.Title != "Saved" {
		t.Error("title not carried in the save request")
	}
	if gotBody.Content == nil || *gotBody.Content != "new body" {
		t.Error("content not carried in the save request")
	}
	if gotBody.Tags == nil || len(*gotBody.Tags) != 1 {
		t.Error("tags not carried in the save request")
	}
}

func TestServerErrorSurfacesMessage(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusConflict, "Note was modified concurrently", nil)
	})

	_, err := c.SaveNote(context.Background(), "n1", editor.SavePayload{})
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, editor.ErrNotFound) {
		t.Error("conflict must not look like not-found")
	}
}

func TestMalformedResponse(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html>gateway error</html>"))
	})

	if _, err := c.GetNote(context.Background(), "n1"); err == nil {
		t.Fatal("expected error for non-JSON body")
	}
}
