package similarity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Embedder generates dense vector embeddings from text.
type Embedder interface {
	// Available reports whether the embedding backend is reachable and the
	// configured model exists.
	Available() bool
	// Embed encodes the given text into a dense vector.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// OllamaEmbedder generates embeddings via an Ollama-compatible HTTP server.
type OllamaEmbedder struct {
	endpoint string // e.g. "http://localhost:11434"
	model    string // e.g. "all-minilm"
	client   *http.Client
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

type ollamaEmbedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func NewOllamaEmbedder(endpoint, model string) *OllamaEmbedder {
	return &OllamaEmbedder{
		endpoint: endpoint,
		model:    model,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Available probes the server's model list with a short timeout.
func (e *OllamaEmbedder) Available() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.endpoint+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false
	}

	var tagsResp ollamaTagsResponse
	if err := json.Unmarshal(body, &tagsResp); err != nil {
		return false
	}

	for _, model := range tagsResp.Models {
		// "all-minilm" should also match "all-minilm:latest".
		if model.Name == e.model || model.Name == e.model+":latest" {
			return true
		}
	}
	return false
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody, err := json.Marshal(ollamaEmbedRequest{Model: e.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint+"/api/embed", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute embed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embed request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var embedResp ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, fmt.Errorf("failed to decode embed response: %w", err)
	}
	if len(embedResp.Embeddings) == 0 || len(embedResp.Embeddings[0]) == 0 {
		return nil, fmt.Errorf("embed response contained no embedding")
	}

	return embedResp.Embeddings[0], nil
}

// EmbeddingScorer wraps an Embedder as an optional scorer. Availability is
// probed exactly once per process; a failed probe is cached so the model
// load is never retried per call, and the scorer then returns 0.0
// deterministically.
type EmbeddingScorer struct {
	embedder  Embedder
	once      sync.Once
	available bool
}

func NewEmbeddingScorer(embedder Embedder) *EmbeddingScorer {
	return &EmbeddingScorer{embedder: embedder}
}

// Available reports whether embedding scoring is usable for this process.
func (s *EmbeddingScorer) Available() bool {
	s.once.Do(func() {
		if s.embedder == nil {
			s.available = false
			log.Warn().Msg("Embedding scorer disabled: no embedder configured")
			return
		}
		s.available = s.embedder.Available()
		if !s.available {
			log.Warn().Msg("Embedding scorer disabled: embedding backend unavailable")
		}
	})
	return s.available
}

// Score returns the cosine similarity of the two texts' embeddings, or 0.0
// when the backend is unavailable or either embed call fails.
func (s *EmbeddingScorer) Score(ctx context.Context, text1, text2 string) float64 {
	if !s.Available() {
		return 0.0
	}

	vec1, err := s.embedder.Embed(ctx, text1)
	if err != nil {
		log.Debug().Err(err).Msg("Embedding failed for first text")
		return 0.0
	}
	vec2, err := s.embedder.Embed(ctx, text2)
	if err != nil {
		log.Debug().Err(err).Msg("Embedding failed for second text")
		return 0.0
	}

	return embeddingCosine(vec1, vec2)
}

// embeddingCosine computes cosine similarity between two dense vectors,
// clamped to [0,1]. Mismatched or zero-length vectors score 0.0.
func embeddingCosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0.0
	}
	if sim > 1 {
		return 1.0
	}
	return sim
}
