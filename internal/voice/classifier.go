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
	mb "github.com/saeidalz13/battleship-voice-backend/models/battleship"
	"github.com/saeidalz13/battleship-voice-backend/models/command"
)

// Classifier picks the single best label for a normalized utterance.
// Labels follow the vocabulary command.ParseLabel understands.
type Classifier interface {
	Classify(ctx context.Context, normalized string) (string, error)
}

type ClassifierFunc func(ctx context.Context, normalized string) (string, error)

func (f ClassifierFunc) Classify(ctx context.Context, normalized string) (string, error) {
	return f(ctx, normalized)
}

const maxShipNameDistance = 2

var (
	fireVerbs = map[string]bool{
		"fire": true, "shoot": true, "attack": true, "strike": true,
		"bomb": true, "launch": true, "torpedo": true, "hit": true,
	}
	shipAliases = map[string]mb.ShipType{
		"sub":      mb.ShipSubmarine,
		"aircraft": mb.ShipCarrier,
		"battle":   mb.ShipBattleship,
	}
)

// KeywordClassifier is the in-process classifier. It recognizes fire
// verbs and ship names, tolerating small transcription slips in the
// ship name ("crusier", "destroy").
type KeywordClassifier struct{}

func NewKeywordClassifier() KeywordClassifier {
	return KeywordClassifier{}
}

func (KeywordClassifier) Classify(_ context.Context, normalized string) (string, error) {
	tokens := strings.Fields(normalized)

	grid, err := command.ExtractCoordinates(normalized)
	if err != nil || !grid.InBounds() {
		grid = mb.NewCoordinates(0, 0)
	}

	for _, token := range tokens {
		if fireVerbs[token] {
			return command.FiringLabel(grid), nil
		}
	}

	ship, ok := matchShip(tokens)
	if !ok {
		return "", fmt.Errorf("%w: %q", cerr.ErrClassifierFailed, normalized)
	}

	orientation := mb.Horizontal
	for _, token := range tokens {
		if o, ok := matchOrientation(token); ok {
			orientation = o
			break
		}
	}
	return command.PlacementLabel(ship, grid, orientation), nil
}

func matchShip(tokens []string) (mb.ShipType, bool) {
	var (
		best     mb.ShipType
		bestDist = maxShipNameDistance + 1
	)

	for _, token := range tokens {
		if ship, prs := shipAliases[token]; prs {
			return ship, true
		}
		// Short tokens ("at", "row") are never ship names
		if len(token) < 4 {
			continue
		}
		for _, ship := range mb.ShipTypes() {
			if d := levenshtein(token, string(ship)); d < bestDist {
				best, bestDist = ship, d
			}
		}
	}
	return best, bestDist <= maxShipNameDistance
}

func matchOrientation(token string) (mb.Orientation, bool) {
	if len(token) < 4 {
		return mb.Horizontal, false
	}
	if o, ok := mb.ParseOrientation(token); ok {
		return o, true
	}
	switch {
	case levenshtein(token, "horizontal") <= maxShipNameDistance:
		return mb.Horizontal, true
	case levenshtein(token, "vertical") <= maxShipNameDistance:
		return mb.Vertical, true
	}
	return mb.Horizontal, false
}

func levenshtein(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// HTTPClassifier asks an external model server for the label. One
// request per utterance, no retries.
type HTTPClassifier struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Label string `json:"label"`
}

func NewHTTPClassifier(url string, timeout time.Duration) *HTTPClassifier {
	return &HTTPClassifier{
		url:     url,
		client:  &http.Client{},
		timeout: timeout,
	}
}

func (c *HTTPClassifier) Classify(ctx context.Context, normalized string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(classifyRequest{Text: normalized})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", cerr.ErrClassifierFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", cerr.ErrClassifierFailed, resp.StatusCode)
	}

	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %w", cerr.ErrClassifierFailed, err)
	}
	if out.Label == "" {
		return "", fmt.Errorf("%w: empty label", cerr.ErrClassifierFailed)
	}
	return out.Label, nil
}
