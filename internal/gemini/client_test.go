package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Titans "},{"text":"win."}]}}]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", "").WithBaseURL(srv.URL)
	text, err := c.Generate(context.Background(), "be brief", "who won?")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "Titans win." {
		t.Errorf("text = %q", text)
	}
	if gotPath != "/v1beta/models/"+DefaultModel+":generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("key = %q", gotKey)
	}
	if gotBody.SystemInstruction == nil || gotBody.SystemInstruction.Parts[0].Text != "be brief" {
		t.Errorf("system instruction = %+v", gotBody.SystemInstruction)
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Parts[0].Text != "who won?" {
		t.Errorf("contents = %+v", gotBody.Contents)
	}
}

func TestGenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", "").WithBaseURL(srv.URL)
	_, err := c.Generate(context.Background(), "", "prompt")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("err = %v, want quota message", err)
	}
}

func TestGenerateEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", "").WithBaseURL(srv.URL)
	if _, err := c.Generate(context.Background(), "", "prompt"); err == nil {
		t.Fatal("expected an error for an empty candidate list")
	}
}

func TestGenerateWithoutKey(t *testing.T) {
	c := NewClient("", "")
	if _, err := c.Generate(context.Background(), "", "prompt"); err == nil {
		t.Fatal("expected an error without an api key")
	}
}
