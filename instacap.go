package instacap

import (
	"context"
	"net/http"
	"os"

	"github.com/chriskillpack/instacap/caption"
	"github.com/chriskillpack/instacap/internal/ollama"
)

const (
	DefaultOllamaServer = "http://localhost:11434"
	DefaultModel        = "llava-phi3:latest"
)

// InitOptions exists so tests can point the captioner at a fake server. The
// command line tool always uses the defaults.
type InitOptions struct {
	OllamaServer string // if empty uses DefaultOllamaServer
	Model        string // if empty uses DefaultModel

	HttpClient *http.Client // if nil uses http.DefaultClient
}

type Instacap struct {
	caption.Captioner
}

func Init(iio InitOptions) *Instacap {
	httpClient := iio.HttpClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	srv := iio.OllamaServer
	if srv == "" {
		srv = DefaultOllamaServer
	}
	model := iio.Model
	if model == "" {
		model = DefaultModel
	}

	return &Instacap{
		Captioner: ollama.Init(model, srv, httpClient),
	}
}

// Generate reads the image at imagePath and asks the server for a caption.
// All failures are reported through the returned Result, whose Text is never
// empty.
func (ic *Instacap) Generate(ctx context.Context, imagePath, description string) caption.Result {
	image, err := os.ReadFile(imagePath)
	if err != nil {
		return caption.Result{Err: &caption.Error{Kind: caption.KindIO, Err: err}}
	}

	text, err := ic.Caption(ctx, caption.NewRequest(image, description))
	return caption.Result{Caption: text, Err: err}
}
