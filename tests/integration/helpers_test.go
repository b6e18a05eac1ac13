//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"
)

type moduleSummary struct {
	Module string `json:"module"`
	Count  int    `json:"count"`
}

type item struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

type questionRecord struct {
	ID           string  `json:"id"`
	Number       int     `json:"number"`
	Module       string  `json:"module"`
	Question     string  `json:"question"`
	Options      []item  `json:"options"`
	SubQuestions []item  `json:"subQuestions"`
	Type         string  `json:"type"`
	Answer       *string `json:"answer"`
	Explanation  string  `json:"explanation"`
}

type verdict struct {
	QuestionID string  `json:"questionId"`
	Correct    *bool   `json:"correct"`
	SelfAssess bool    `json:"selfAssess"`
	Answer     *string `json:"answer"`
}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getJSON(t *testing.T, url string, wantStatus int, out interface{}) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: expected %d, got %d", url, wantStatus, resp.StatusCode)
	}
	if out == nil {
		return
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s response failed: %v", url, err)
	}
}

func postJSON(t *testing.T, url string, payload interface{}, wantStatus int, out interface{}) {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("POST %s: expected %d, got %d", url, wantStatus, resp.StatusCode)
	}
	if out == nil {
		return
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s response failed: %v", url, err)
	}
}
