package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/chriskillpack/instacap/caption"
)

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Stream bool     `json:"stream"`
	Images []string `json:"images"`
}

// Only the caption text is used, everything else the server sends back
// (timings, context) is ignored.
type generateResponse struct {
	Response *string `json:"response"`
}

type ollama struct {
	model   string
	srvAddr string

	client *http.Client
}

var _ caption.Captioner = &ollama{}

func Init(model, srvAddr string, httpClient *http.Client) *ollama {
	return &ollama{
		model:   model,
		srvAddr: strings.TrimRight(srvAddr, "/"),
		client:  httpClient,
	}
}

func (o *ollama) Name() string { return "ollama" }

func (o *ollama) Model() string { return o.model }

func (o *ollama) IsHealthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.srvAddr+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

func (o *ollama) Caption(ctx context.Context, creq caption.Request) (string, error) {
	imb64 := base64.StdEncoding.EncodeToString(creq.Image)
	data := generateRequest{
		Model:  o.model,
		Prompt: creq.Prompt(),
		Stream: false,
		Images: []string{imb64},
	}

	buf := bytes.NewBuffer(make([]byte, 0, len(imb64)+1024)) // Encode grows it if the prompt is long
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(&data); err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.srvAddr+"/api/generate", bytes.NewReader(buf.Bytes()))
	if err != nil {
		return "", &caption.Error{Kind: caption.KindNetwork, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", &caption.Error{Kind: caption.KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &caption.Error{Kind: caption.KindNetwork, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &caption.StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	var respbody generateResponse
	if err := json.Unmarshal(body, &respbody); err != nil {
		return "", &caption.Error{Kind: caption.KindMalformed, Err: err}
	}
	if respbody.Response == nil || strings.TrimSpace(*respbody.Response) == "" {
		return caption.NoCaption, nil
	}

	return strings.TrimLeft(*respbody.Response, " "), nil
}
