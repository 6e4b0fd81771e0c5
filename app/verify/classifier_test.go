package verify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "Breaking NEWS", "breaking news"},
		{"punctuation", "PM's speech: highlights!", "pms speech highlights"},
		{"collapse whitespace", "too   many    spaces", "too many spaces"},
		{"digits kept", "3 dead in crash", "3 dead in crash"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanText(tt.input)
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestShortText(t *testing.T) {
	long := strings.Repeat("word ", 200)

	short := ShortText(long)
	if len(strings.Fields(short)) != maxClassifierWords {
		t.Errorf("Expected %d words, got %d", maxClassifierWords, len(strings.Fields(short)))
	}

	if ShortText("just a few words") != "just a few words" {
		t.Error("Expected short text unchanged")
	}
}

func TestMLClientClassify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/classify" {
			t.Errorf("Expected path /classify, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected bearer auth header, got %q", r.Header.Get("Authorization"))
		}

		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Text != "some cleaned text" {
			t.Errorf("Expected request text %q, got %q", "some cleaned text", req.Text)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"label":      "FAKE",
			"confidence": 87.5,
		})
	}))
	defer server.Close()

	client := NewMLClient(server.URL, "test-key", server.Client())

	result, err := client.Classify(context.Background(), "some cleaned text")
	if err != nil {
		t.Fatal(err)
	}

	if result.Label != LabelFake {
		t.Errorf("Expected label %q, got %q", LabelFake, result.Label)
	}
	if result.Confidence != 87.5 {
		t.Errorf("Expected confidence 87.5, got %v", result.Confidence)
	}
}

func TestMLClientRejectsUnknownLabel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"label":      "maybe",
			"confidence": 50,
		})
	}))
	defer server.Close()

	client := NewMLClient(server.URL, "", server.Client())

	if _, err := client.Classify(context.Background(), "text"); err == nil {
		t.Fatal("Expected error for unknown label")
	}
}

func TestMLClientRejectsOutOfRangeConfidence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"label":      "real",
			"confidence": 140,
		})
	}))
	defer server.Close()

	client := NewMLClient(server.URL, "", server.Client())

	if _, err := client.Classify(context.Background(), "text"); err == nil {
		t.Fatal("Expected error for out-of-range confidence")
	}
}

func TestMLClientNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewMLClient(server.URL, "", server.Client())

	if _, err := client.Classify(context.Background(), "text"); err == nil {
		t.Fatal("Expected error for non-200 status")
	}
}

func TestKeywordClassifier(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		label      Label
		confidence float64
	}{
		{"two markers", "shocking miracle cure found", LabelFake, 65},
		{"one marker", "this viral video shows heavy rain", LabelFake, 55},
		{"no markers", "parliament adjourned for the day", LabelReal, 55},
	}

	classifier := KeywordClassifier{}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := classifier.Classify(context.Background(), tt.text)
			if err != nil {
				t.Fatal(err)
			}
			if result.Label != tt.label {
				t.Errorf("Expected label %q, got %q", tt.label, result.Label)
			}
			if result.Confidence != tt.confidence {
				t.Errorf("Expected confidence %v, got %v", tt.confidence, result.Confidence)
			}
		})
	}
}
