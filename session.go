package instacap

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chriskillpack/instacap/caption"
	"github.com/google/uuid"
)

// Status lines shown to the user.
const (
	StatusWelcome    = "Upload an image to generate a caption!"
	StatusUploaded   = "Image uploaded! Add an optional description and run 'generate'."
	StatusNeedImage  = "Please upload an image first."
	StatusGenerating = "Generating Caption... Please wait."
	StatusGenerated  = "Caption generated!"

	CaptionPlaceholder = "Caption will appear here."
)

type State int

const (
	NoImage State = iota
	ImageSelected
	Generating
)

func (s State) String() string {
	switch s {
	case NoImage:
		return "no image"
	case ImageSelected:
		return "image selected"
	case Generating:
		return "generating"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Generator produces a caption for the image stored at imagePath.
type Generator interface {
	Generate(ctx context.Context, imagePath, description string) caption.Result
}

// Display is where a Session presents its state.
type Display interface {
	Status(text string)
	Image(info ImageInfo)
	Caption(text string)
}

// Session owns the interaction state. All methods must be called from the
// same goroutine. The worker started by Trigger never touches the Session, it
// only sends its result on the channel returned by Results, and the owner
// applies it with Complete.
type Session struct {
	gen     Generator
	display Display
	logger  *log.Logger

	state       State
	imagePath   string
	description string
	caption     string
	status      string

	results chan caption.Result

	// in-flight request, for logging
	requestID string
	started   time.Time
}

func NewSession(gen Generator, display Display, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}

	s := &Session{
		gen:     gen,
		display: display,
		logger:  logger,
		results: make(chan caption.Result, 1),
	}
	s.setStatus(StatusWelcome)
	s.setCaption(CaptionPlaceholder)

	return s
}

func (s *Session) State() State            { return s.state }
func (s *Session) ImagePath() string       { return s.imagePath }
func (s *Session) Description() string     { return s.description }
func (s *Session) CaptionText() string     { return s.caption }
func (s *Session) StatusText() string      { return s.status }
func (s *Session) SetDescription(d string) { s.description = d }

// Results delivers the outcome of the worker started by Trigger.
func (s *Session) Results() <-chan caption.Result { return s.results }

// SelectImage makes path the image used by the next Trigger. It is allowed in
// every state. While a request is in flight the path is replaced but the state
// stays Generating, the in-flight request is unaffected.
func (s *Session) SelectImage(path string) error {
	if !IsImageFile(path) {
		return fmt.Errorf("%s: not a supported image type", path)
	}
	info, err := InspectImage(path)
	if err != nil {
		return err
	}

	s.imagePath = path
	s.display.Image(info)

	if s.state == Generating {
		s.logger.Printf("selected %s while request %s is in flight\n", path, s.requestID)
		return nil
	}
	s.state = ImageSelected
	s.setStatus(StatusUploaded)

	return nil
}

// Trigger starts a caption request for the selected image and reports whether
// it did. Nothing is started without an image or while a request is in
// flight.
func (s *Session) Trigger(ctx context.Context) bool {
	switch s.state {
	case NoImage:
		s.setStatus(StatusNeedImage)
		return false
	case Generating:
		s.logger.Printf("generate rejected, request %s still in flight\n", s.requestID)
		return false
	}

	s.state = Generating
	s.requestID = uuid.NewString()
	s.started = time.Now()
	s.setStatus(StatusGenerating)

	gen, results := s.gen, s.results
	path, desc := s.imagePath, strings.TrimSpace(s.description)
	s.logger.Printf("request %s - %s, description %q\n", s.requestID, path, desc)
	go func() {
		results <- gen.Generate(ctx, path, desc)
	}()

	return true
}

// Complete applies the result of the in-flight request.
func (s *Session) Complete(res caption.Result) {
	if s.state != Generating {
		s.logger.Printf("dropping result, no request in flight\n")
		return
	}

	if res.Err != nil {
		s.logger.Printf("request %s - failed after %s: %s\n", s.requestID, time.Since(s.started).Round(time.Millisecond), res.Err)
	} else {
		s.logger.Printf("request %s - okay, %s\n", s.requestID, time.Since(s.started).Round(time.Millisecond))
	}

	s.state = ImageSelected
	s.requestID = ""
	s.setCaption(res.Text())
	s.setStatus(StatusGenerated)
}

// Await blocks until the in-flight request finishes and applies its result.
func (s *Session) Await(ctx context.Context) error {
	if s.state != Generating {
		return nil
	}

	select {
	case res := <-s.results:
		s.Complete(res)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) setStatus(text string) {
	s.status = text
	s.display.Status(text)
}

func (s *Session) setCaption(text string) {
	s.caption = text
	s.display.Caption(text)
}
