package telegram

import (
	"context"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient("test-token")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	c.baseURL = srv.URL + "/bot"
	return c, srv
}

func TestNewClientRequiresToken(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Error("expected error for empty bot token")
	}
}

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotPayload map[string]interface{}

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Write([]byte(`{"ok": true}`))
	})

	if err := c.SendMessage("1001", "hello"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	if !strings.HasSuffix(gotPath, "/sendMessage") {
		t.Errorf("expected sendMessage endpoint, got %s", gotPath)
	}
	if gotPayload["chat_id"] != "1001" {
		t.Errorf("expected chat_id 1001, got %v", gotPayload["chat_id"])
	}
	if gotPayload["text"] != "hello" {
		t.Errorf("expected text 'hello', got %v", gotPayload["text"])
	}
}

func TestSendMessageAPIError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "description": "chat not found"}`))
	})

	err := c.SendMessage("1001", "hello")
	if err == nil {
		t.Fatal("expected API error")
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("expected description in error, got: %v", err)
	}
}

func TestSendMessageRequiresText(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": true}`))
	})
	if err := c.SendMessage("1001", ""); err == nil {
		t.Error("expected error for empty message text")
	}
}

func TestSendPhoto(t *testing.T) {
	imgPath := filepath.Join(t.TempDir(), "report.png")
	f, err := os.Create(imgPath)
	if err != nil {
		t.Fatalf("creating image: %v", err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encoding image: %v", err)
	}
	f.Close()

	var gotChatID, gotCaption string
	var gotPhotoName string

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parsing multipart form: %v", err)
		}
		gotChatID = r.FormValue("chat_id")
		gotCaption = r.FormValue("caption")
		if _, header, err := r.FormFile("photo"); err == nil {
			gotPhotoName = header.Filename
		}
		w.Write([]byte(`{"ok": true}`))
	})

	if err := c.SendPhoto("1001", imgPath, "preview"); err != nil {
		t.Fatalf("SendPhoto failed: %v", err)
	}

	if gotChatID != "1001" {
		t.Errorf("expected chat_id 1001, got %q", gotChatID)
	}
	if gotCaption != "preview" {
		t.Errorf("expected caption 'preview', got %q", gotCaption)
	}
	if gotPhotoName != "report.png" {
		t.Errorf("expected photo filename report.png, got %q", gotPhotoName)
	}
}

func TestSendPhotoMissingFile(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": true}`))
	})
	if err := c.SendPhoto("1001", "/does/not/exist.png", ""); err == nil {
		t.Error("expected error for missing image file")
	}
}

func TestGetUpdates(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("offset"); got != "7" {
			t.Errorf("expected offset 7, got %s", got)
		}
		w.Write([]byte(`{"ok": true, "result": [
			{"update_id": 7, "message": {"message_id": 1, "chat": {"id": 1001, "type": "private"}, "text": "/hltv"}}
		]}`))
	})

	updates, err := c.GetUpdates(context.Background(), 7, 0)
	if err != nil {
		t.Fatalf("GetUpdates failed: %v", err)
	}
	if len(updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(updates))
	}
	u := updates[0]
	if u.UpdateID != 7 {
		t.Errorf("expected update_id 7, got %d", u.UpdateID)
	}
	if u.Message == nil || u.Message.Text != "/hltv" {
		t.Errorf("unexpected message: %+v", u.Message)
	}
	if u.Message.Chat.ID != 1001 {
		t.Errorf("expected chat id 1001, got %d", u.Message.Chat.ID)
	}
}
