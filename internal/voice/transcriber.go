package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	cerr "github.com/saeidalz13/battleship-voice-backend/internal/error"
)

// Transcriber turns captured audio into text. Implementations report
// cerr.ErrNoSpeechDetected when the audio holds nothing intelligible
// and cerr.ErrServiceUnavailable when the backend cannot be reached.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

type TranscriberFunc func(ctx context.Context, audio []byte) (string, error)

func (f TranscriberFunc) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return f(ctx, audio)
}

type HTTPTranscriber struct {
	url         string
	contentType string
	client      *http.Client
	timeout     time.Duration
}

type transcribeResponse struct {
	Text string `json:"text"`
}

func NewHTTPTranscriber(url, contentType string, timeout time.Duration) *HTTPTranscriber {
	if contentType == "" {
		contentType = "audio/wav"
	}
	return &HTTPTranscriber{
		url:         url,
		contentType: contentType,
		client:      &http.Client{},
		timeout:     timeout,
	}
}

func (t *HTTPTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", cerr.ErrNoSpeechDetected
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(audio))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", t.contentType)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", cerr.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusUnprocessableEntity:
		return "", cerr.ErrNoSpeechDetected
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: status %d", cerr.ErrServiceUnavailable, resp.StatusCode)
	}

	var out transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %w", cerr.ErrServiceUnavailable, err)
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", cerr.ErrNoSpeechDetected
	}
	return out.Text, nil
}
