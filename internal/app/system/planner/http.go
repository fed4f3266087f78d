package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gmgapp/gmg/internal/domain/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// plansPath is appended to the configured base URL.
const plansPath = "/v1/plans"

// maxErrorBody bounds how much of a failed response is read.
const maxErrorBody = 64 << 10

// HTTPConfig points at the planning service.
//
// When ClientID is set the client authenticates with the OAuth2
// client-credentials grant against TokenURL.
type HTTPConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
	Timeout      time.Duration
}

// APIError is a non-2xx answer from the planning service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("planner: service returned %d", e.Status)
	}
	return fmt.Sprintf("planner: service returned %d: %s", e.Status, e.Message)
}

// HTTPPlanner asks the planning service for a plan.
type HTTPPlanner struct {
	endpoint string
	client   *http.Client
}

// NewHTTPPlanner validates cfg and builds the client.
func NewHTTPPlanner(cfg HTTPConfig) (*HTTPPlanner, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("planner: base URL is required in http mode")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}

	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.ClientID != "" {
		if cfg.TokenURL == "" {
			return nil, errors.New("planner: token URL is required with a client ID")
		}
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		// token requests share the timeout of the plan requests
		tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: cfg.Timeout})
		client = cc.Client(tokenCtx)
		client.Timeout = cfg.Timeout
	}

	return &HTTPPlanner{endpoint: base + plansPath, client: client}, nil
}

// planResponse is the body the service answers with.
type planResponse struct {
	CommonDate string        `json:"common_date"`
	StartTime  string        `json:"start_time"`
	Place      models.Place  `json:"place"`
	Course     []models.Stop `json:"course"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Plan posts req as JSON and decodes the answer.
func (p *HTTPPlanner) Plan(ctx context.Context, req Request) (models.Plan, error) {
	if req.ParticipantCount == 0 {
		return models.Plan{}, ErrNoParticipants
	}

	body, err := json.Marshal(req)
	if err != nil {
		return models.Plan{}, fmt.Errorf("planner: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return models.Plan{}, fmt.Errorf("planner: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return models.Plan{}, fmt.Errorf("planner: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var er errorResponse
		if json.Unmarshal(raw, &er) == nil && er.Error != "" {
			apiErr.Message = er.Error
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return models.Plan{}, apiErr
	}

	var pr planResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return models.Plan{}, fmt.Errorf("planner: decode response: %w", err)
	}
	if _, err := models.ParseDateKey(pr.CommonDate); err != nil {
		return models.Plan{}, fmt.Errorf("planner: service returned a bad date: %w", err)
	}

	return models.Plan{
		MeetingID:  req.MeetingID,
		CommonDate: pr.CommonDate,
		StartTime:  pr.StartTime,
		Place:      pr.Place,
		Course:     pr.Course,
		Source:     ModeHTTP,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
