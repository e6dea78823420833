package parse

import (
	"encoding/json"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantOK   bool
		wantKind FailureKind
	}{
		{"bare object", `{"a":1}`, true, FailureNone},
		{"embedded in prose", `Here is the result: {"a":1} Thanks!`, true, FailureNone},
		{"markdown fenced", "```json\n{\"b\": 2}\n```", true, FailureNone},
		{"bare array", `[1, 2, 3]`, true, FailureNone},
		{"garbage without braces", "I cannot evaluate this story.", false, FailureNoJSON},
		{"braces but not json", "{definitely not json}", false, FailureInvalidJSON},
		{"empty", "", false, FailureNoJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Extract(tt.text)
			if r.OK() != tt.wantOK {
				t.Fatalf("Extract(%q).OK() = %v, want %v", tt.text, r.OK(), tt.wantOK)
			}
			if r.Kind != tt.wantKind {
				t.Errorf("Extract(%q).Kind = %q, want %q", tt.text, r.Kind, tt.wantKind)
			}
			if !tt.wantOK && r.Raw != tt.text {
				t.Errorf("failed result must carry raw text, got %q", r.Raw)
			}
		})
	}
}

func TestExtractEmbeddedValue(t *testing.T) {
	r := Extract(`Here is the result: {"a":1} Thanks!`)
	if !r.OK() {
		t.Fatalf("Extract() failed: %v", r.Kind)
	}
	obj, ok := r.Value.(map[string]any)
	if !ok {
		t.Fatalf("Value is %T, want map", r.Value)
	}
	if obj["a"] != float64(1) {
		t.Errorf(`obj["a"] = %v, want 1`, obj["a"])
	}
}

func TestExtractInto(t *testing.T) {
	var target struct {
		Scores map[string]float64 `json:"scores"`
	}
	text := "Sure! ```json\n{\"scores\": {\"ToneCalmness\": 8}}\n``` hope that helps"
	if err := ExtractInto(text, &target); err != nil {
		t.Fatalf("ExtractInto() error: %v", err)
	}
	if target.Scores["ToneCalmness"] != 8 {
		t.Errorf("ToneCalmness = %v, want 8", target.Scores["ToneCalmness"])
	}

	if err := ExtractInto("no json here", &target); err == nil {
		t.Error("ExtractInto() on garbage should return an error")
	}
}

func TestResultMarshalJSON(t *testing.T) {
	ok := Extract(`{"moral": "be kind"}`)
	data, err := json.Marshal(ok)
	if err != nil {
		t.Fatalf("marshal ok result: %v", err)
	}
	if string(data) != `{"moral":"be kind"}` {
		t.Errorf("ok result marshals to %s", data)
	}

	failed := Extract("total garbage")
	data, err = json.Marshal(failed)
	if err != nil {
		t.Fatalf("marshal failed result: %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decoding failed-result json: %v", err)
	}
	if decoded["error"] != string(FailureNoJSON) {
		t.Errorf("error slot = %q, want %q", decoded["error"], FailureNoJSON)
	}
	if decoded["raw"] != "total garbage" {
		t.Errorf("raw slot = %q", decoded["raw"])
	}
}
