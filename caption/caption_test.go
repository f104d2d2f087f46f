package caption

import (
	"errors"
	"io/fs"
	"strings"
	"syscall"
	"testing"
)

func TestPrompt(t *testing.T) {
	tests := []struct {
		name        string
		description string
		expected    string
	}{
		{"no description", "", Instruction},
		{"whitespace only", "   \t", Instruction},
		{"with description", "  This is my school ", Instruction + " The user describes it as: This is my school."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := NewRequest([]byte{1, 2, 3}, tc.description)
			if actual := req.Prompt(); actual != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, actual)
			}
		})
	}
}

func TestResultText(t *testing.T) {
	tests := []struct {
		name     string
		result   Result
		expected string
	}{
		{"caption", Result{Caption: "X"}, "X"},
		{"empty caption", Result{}, NoCaption},
		{"status with body", Result{Err: &StatusError{StatusCode: 500, Status: "500 Internal Server Error", Body: "boom"}}, "Error: boom"},
		{"status without body", Result{Err: &StatusError{StatusCode: 502, Status: "502 Bad Gateway"}}, "Error: 502 Bad Gateway"},
		{"status without anything", Result{Err: &StatusError{StatusCode: 503}}, "Error: status 503"},
		{"io", Result{Err: &Error{Kind: KindIO, Err: fs.ErrNotExist}}, "Failed to read image: file does not exist"},
		{"network", Result{Err: &Error{Kind: KindNetwork, Err: syscall.ECONNREFUSED}}, "Failed to connect to Ollama: connection refused"},
		{"malformed", Result{Err: &Error{Kind: KindMalformed, Err: errors.New("unexpected EOF")}}, "Failed to parse Ollama response: unexpected EOF"},
		{"untyped", Result{Err: errors.New("something odd")}, "Failed to connect to Ollama: something odd"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if actual := tc.result.Text(); actual != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, actual)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	err := error(&Error{Kind: KindIO, Err: fs.ErrNotExist})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected error to wrap fs.ErrNotExist")
	}
	if !strings.HasPrefix(err.Error(), "io: ") {
		t.Errorf("Unexpected error string %q", err.Error())
	}
}
