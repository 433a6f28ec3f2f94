package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/callnote-team/callnote/pkg/config"
)

func TestExtractSummary_Success(t *testing.T) {
	// Mock Gemini server
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var payload GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if len(payload.Contents) != 1 || len(payload.Contents[0].Parts) != 2 {
			t.Fatalf("expected one content with audio part and text part")
		}
		if payload.Contents[0].Parts[0].InlineData == nil {
			t.Fatalf("missing inline audio data")
		}
		if payload.Contents[0].Parts[0].InlineData.MimeType != "audio/mpeg" {
			t.Fatalf("unexpected mime type %s", payload.Contents[0].Parts[0].InlineData.MimeType)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": `{"caller":"田中"}`}},
				}},
			},
		})
	}))
	defer ts.Close()

	client := NewGeminiClient(&config.GeminiConfig{APIKey: "test-key", BaseURL: ts.URL})

	text, err := client.ExtractSummary(context.Background(), []byte("fake-audio"), "audio/mpeg")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if text != `{"caller":"田中"}` {
		t.Fatalf("unexpected text %s", text)
	}
}

func TestExtractSummary_UpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	client := NewGeminiClient(&config.GeminiConfig{APIKey: "bad-key", BaseURL: ts.URL})
	if _, err := client.ExtractSummary(context.Background(), []byte("x"), "audio/mpeg"); err == nil {
		t.Fatalf("expected error on 403 response")
	}
}

func TestExtractSummary_EmptyCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
	}))
	defer ts.Close()

	client := NewGeminiClient(&config.GeminiConfig{APIKey: "test-key", BaseURL: ts.URL})
	if _, err := client.ExtractSummary(context.Background(), []byte("x"), "audio/mpeg"); err == nil {
		t.Fatalf("expected error on empty candidates")
	}
}
