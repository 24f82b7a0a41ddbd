package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/sightline/server/domain/entities"
	"github.com/sightline/server/domain/repositories"
)

const (
	defaultEndpoint       = "http://localhost:8090/pipeline/thought"
	defaultRequestTimeout = 10 * time.Second
)

// HTTPThoughtSourceConfig holds configuration for the HTTP thought source.
// Required fields:
// - Endpoint: the pipeline URL returning the thought snapshot JSON
type HTTPThoughtSourceConfig struct {
	Endpoint       string        // Required: pipeline snapshot URL
	RequestTimeout time.Duration // Optional: per-request timeout (default 10s)
}

// HTTPThoughtSource fetches thought snapshots from the pipeline endpoint
// with a plain GET, no authentication, no query parameters.
type HTTPThoughtSource struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// Ensure HTTPThoughtSource implements the ThoughtSource interface
var _ repositories.ThoughtSource = (*HTTPThoughtSource)(nil)

// snapshotEnvelope mirrors the wire shape of the pipeline response
type snapshotEnvelope struct {
	Pipeline struct {
		Interpretation struct {
			Summary string `json:"summary"`
		} `json:"interpretation"`
		Uncertainty struct {
			Overall float64 `json:"overall"`
		} `json:"uncertainty"`
		Risk struct {
			Level string `json:"level"`
		} `json:"risk"`
		Perception struct {
			Objects []string `json:"objects"`
		} `json:"perception"`
	} `json:"pipeline"`
}

// NewHTTPThoughtSource creates a thought source for the given pipeline endpoint
func NewHTTPThoughtSource(config HTTPThoughtSourceConfig, logger *zap.Logger) (*HTTPThoughtSource, error) {
	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
		logger.Info("Using default pipeline endpoint", zap.String("endpoint", endpoint))
	}

	timeout := config.RequestTimeout
	if timeout == 0 {
		timeout = defaultRequestTimeout
	}

	return &HTTPThoughtSource{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}, nil
}

// NewHTTPThoughtSourceConfigFromEnv creates a config from environment variables
func NewHTTPThoughtSourceConfigFromEnv() HTTPThoughtSourceConfig {
	config := HTTPThoughtSourceConfig{
		Endpoint: os.Getenv("SIGHTLINE_PIPELINE_URL"),
	}

	if timeoutStr := os.Getenv("SIGHTLINE_PIPELINE_TIMEOUT"); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil && timeout > 0 {
			config.RequestTimeout = timeout
		}
	}

	return config
}

// FetchThought implements repositories.ThoughtSource
func (s *HTTPThoughtSource) FetchThought(ctx context.Context) (*entities.Thought, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch thought snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pipeline endpoint returned status %d", resp.StatusCode)
	}

	var envelope snapshotEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode thought snapshot: %w", err)
	}

	thought := entities.NewThought(
		envelope.Pipeline.Interpretation.Summary,
		envelope.Pipeline.Uncertainty.Overall,
		entities.ParseRiskLevel(envelope.Pipeline.Risk.Level),
		envelope.Pipeline.Perception.Objects,
	)

	if err := thought.Validate(); err != nil {
		return nil, fmt.Errorf("invalid thought snapshot: %w", err)
	}

	s.logger.Debug("Fetched thought snapshot",
		zap.String("thoughtID", thought.ID),
		zap.String("riskLevel", string(thought.RiskLevel)),
		zap.Float64("uncertainty", thought.Uncertainty))

	return thought, nil
}
