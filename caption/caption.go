package caption

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	// Instruction is the fixed part of every prompt.
	Instruction = "Generate a catchy, Instagram-friendly caption for the image."

	// NoCaption is returned when the server answered but produced no text.
	NoCaption = "No caption generated."
)

// Captioner captions an image using a specific LLM server.
type Captioner interface {
	// Name returns the name of the backing server, e.g. "ollama"
	Name() string

	// Model returns the model identifier sent with each request.
	Model() string

	// Caption returns a caption for the image in req. The image data should be
	// the full contents of an image file including the header. The provided ctx
	// is used as a parent context for the request to the LLM server.
	Caption(ctx context.Context, req Request) (string, error)

	// IsHealthy returns whether the LLM server is responding.
	IsHealthy(ctx context.Context) bool
}

// Request is a single caption request. It is not modified after creation.
type Request struct {
	Image       []byte
	Description string
}

func NewRequest(image []byte, description string) Request {
	return Request{
		Image:       image,
		Description: strings.TrimSpace(description),
	}
}

// Prompt returns the instruction, followed by the user's description when
// there is one.
func (r Request) Prompt() string {
	if r.Description == "" {
		return Instruction
	}
	return fmt.Sprintf("%s The user describes it as: %s.", Instruction, r.Description)
}

// Kind classifies failures that happen before a usable response arrives.
type Kind int

const (
	KindIO Kind = iota + 1
	KindNetwork
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindNetwork:
		return "network"
	case KindMalformed:
		return "malformed response"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a failure of kind Kind wrapping the underlying error.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Kind, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// StatusError is returned when the server answers with anything but 200 OK.
// Body holds the raw response body.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Result is what a caption request produces, either a caption or an error.
type Result struct {
	Caption string
	Err     error
}

// Text renders the result for display. Successes and failures share the same
// output area so Text never returns an empty string.
func (r Result) Text() string {
	if r.Err == nil {
		if strings.TrimSpace(r.Caption) == "" {
			return NoCaption
		}
		return r.Caption
	}

	var se *StatusError
	if errors.As(r.Err, &se) {
		if se.Body == "" {
			if se.Status == "" {
				return fmt.Sprintf("Error: status %d", se.StatusCode)
			}
			return "Error: " + se.Status
		}
		return "Error: " + se.Body
	}

	var ce *Error
	if errors.As(r.Err, &ce) {
		switch ce.Kind {
		case KindIO:
			return fmt.Sprintf("Failed to read image: %v", ce.Err)
		case KindMalformed:
			return fmt.Sprintf("Failed to parse Ollama response: %v", ce.Err)
		}
	}

	return fmt.Sprintf("Failed to connect to Ollama: %v", unwrapKind(r.Err))
}

func unwrapKind(err error) error {
	var ce *Error
	if errors.As(err, &ce) && ce.Err != nil {
		return ce.Err
	}
	return err
}
