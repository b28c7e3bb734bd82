package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendPayloadShape(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewRobot(srv.URL)
	if err := r.Send(context.Background(), "---------- tag ----------\nAlpha\n", "13800000000"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if got["msgtype"] != "text" {
		t.Fatalf("msgtype = %v", got["msgtype"])
	}
	text := got["text"].(map[string]any)
	if text["content"] != "---------- tag ----------\nAlpha\n" {
		t.Fatalf("content = %v", text["content"])
	}
	at := got["at"].(map[string]any)
	mobiles := at["atMobiles"].([]any)
	if len(mobiles) != 1 || mobiles[0] != "13800000000" {
		t.Fatalf("atMobiles = %v", mobiles)
	}
	if at["isAtAll"] != false {
		t.Fatalf("isAtAll = %v", at["isAtAll"])
	}
}

func TestSendReportsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "keyword missing", http.StatusForbidden)
	}))
	defer srv.Close()

	r := NewRobot(srv.URL)
	if err := r.Send(context.Background(), "msg", ""); err == nil {
		t.Fatalf("expected error on non-200 response")
	}
}
