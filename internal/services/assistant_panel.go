package services

import (
	"context"
	"strings"
	"sync"

	"github.com/bobby-s-dev/weather-planner/internal/models"
	"go.uber.org/zap"
)

type PanelState int

const (
	PanelIdle PanelState = iota
	PanelLoading
	PanelResolved
)

func (s PanelState) String() string {
	switch s {
	case PanelIdle:
		return "idle"
	case PanelLoading:
		return "loading"
	case PanelResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

type SuggestionClient interface {
	FetchSuggestion(ctx context.Context, description string, temperature float64) (string, error)
}

// AssistantPanel offers a single suggestion for the weather it was created
// with. Once resolved it never goes back to idle.
type AssistantPanel struct {
	client      SuggestionClient
	logger      *zap.Logger
	description string
	temperature float64

	mu         sync.Mutex
	state      PanelState
	suggestion string
	done       chan struct{}
}

type PanelView struct {
	State      PanelState `json:"-"`
	StateName  string     `json:"state"`
	Suggestion string     `json:"suggestion,omitempty"`
}

func NewAssistantPanel(client SuggestionClient, description string, temperature float64, logger *zap.Logger) *AssistantPanel {
	return &AssistantPanel{
		client:      client,
		logger:      logger,
		description: description,
		temperature: temperature,
		done:        make(chan struct{}),
	}
}

// Request starts the suggestion fetch in the background. It returns false
// when the panel has already been used.
func (p *AssistantPanel) Request(ctx context.Context) bool {
	p.mu.Lock()
	if p.state != PanelIdle {
		p.mu.Unlock()
		return false
	}
	p.state = PanelLoading
	p.mu.Unlock()

	// The fetch outlives the HTTP request that triggered it.
	go p.fetch(context.WithoutCancel(ctx))
	return true
}

func (p *AssistantPanel) fetch(ctx context.Context) {
	suggestion, err := p.client.FetchSuggestion(ctx, p.description, p.temperature)
	if err != nil {
		p.logger.Error("Failed to fetch schedule suggestion", zap.Error(err))
		suggestion = models.FallbackSuggestion
	} else if strings.TrimSpace(suggestion) == "" {
		p.logger.Warn("Assistant returned an empty suggestion")
		suggestion = models.FallbackSuggestion
	}

	p.mu.Lock()
	p.suggestion = suggestion
	p.state = PanelResolved
	p.mu.Unlock()
	close(p.done)
}

// Wait blocks until the panel is resolved or ctx ends.
func (p *AssistantPanel) Wait(ctx context.Context) (string, error) {
	select {
	case <-p.done:
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.suggestion, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (p *AssistantPanel) View() PanelView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PanelView{
		State:      p.state,
		StateName:  p.state.String(),
		Suggestion: p.suggestion,
	}
}
