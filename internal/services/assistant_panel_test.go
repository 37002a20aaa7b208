package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bobby-s-dev/weather-planner/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPanelLifecycle(t *testing.T) {
	a := &fakeAssistant{reply: "午前中に買い物", release: make(chan struct{})}
	panel := NewAssistantPanel(a, "rain", 18, zap.NewNop())

	assert.Equal(t, PanelIdle, panel.View().State)

	require.True(t, panel.Request(context.Background()))
	assert.Equal(t, PanelLoading, panel.View().State)
	assert.False(t, panel.Request(context.Background()), "no second request while loading")

	close(a.release)
	suggestion, err := panel.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "午前中に買い物", suggestion)

	view := panel.View()
	assert.Equal(t, PanelResolved, view.State)
	assert.Equal(t, "resolved", view.StateName)
	assert.False(t, panel.Request(context.Background()), "resolved is final")
}

func TestPanelFailureShowsFallback(t *testing.T) {
	a := &fakeAssistant{err: fmt.Errorf("%w: connection refused", models.ErrAssistant)}
	panel := NewAssistantPanel(a, "rain", 18, zap.NewNop())

	require.True(t, panel.Request(context.Background()))
	suggestion, err := panel.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.FallbackSuggestion, suggestion)
	assert.Equal(t, PanelResolved, panel.View().State)
}

func TestPanelMissingKeyShowsFallback(t *testing.T) {
	a := &fakeAssistant{err: fmt.Errorf("%w: no key", models.ErrConfiguration)}
	panel := NewAssistantPanel(a, "rain", 18, zap.NewNop())

	panel.Request(context.Background())
	suggestion, err := panel.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.FallbackSuggestion, suggestion)
}

func TestPanelSurvivesCanceledTrigger(t *testing.T) {
	a := &fakeAssistant{reply: "ok"}
	panel := NewAssistantPanel(a, "rain", 18, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, panel.Request(ctx))
	cancel()

	suggestion, err := panel.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", suggestion)
}

func TestPanelWaitHonorsContext(t *testing.T) {
	a := &fakeAssistant{reply: "late", release: make(chan struct{})}
	defer close(a.release)
	panel := NewAssistantPanel(a, "rain", 18, zap.NewNop())
	panel.Request(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := panel.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPanelEmptyReplyShowsFallback(t *testing.T) {
	a := &fakeAssistant{reply: " \n"}
	panel := NewAssistantPanel(a, "rain", 18, zap.NewNop())

	require.True(t, panel.Request(context.Background()))
	suggestion, err := panel.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.FallbackSuggestion, suggestion)
	assert.Equal(t, PanelResolved, panel.View().State)
}
