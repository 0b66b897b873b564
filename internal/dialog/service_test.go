package dialog_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-chat-bot/internal/dialog"
	"github.com/i474232898/weather-chat-bot/internal/interpret"
	"github.com/i474232898/weather-chat-bot/internal/store"
)

type stubClassifier struct{ cls dialog.Classification }

func (s *stubClassifier) Classify(context.Context, string) (dialog.Classification, error) {
	return s.cls, nil
}

type stubForecast struct {
	mu    sync.Mutex
	calls []string
}

func (s *stubForecast) Query(_ context.Context, location string) (dialog.ForecastResult, error) {
	s.mu.Lock()
	s.calls = append(s.calls, location)
	s.mu.Unlock()
	return dialog.ForecastResult{Forecast: &dialog.Forecast{
		SiteName: location,
		Current: map[interpret.Variable]dialog.Measurement{
			interpret.VariableTemperature: {Value: 18, Units: "C"},
		},
		Summary: "Overcast.",
	}}, nil
}

type stubHistory struct{}

func (stubHistory) Climatology(context.Context, dialog.HistQuery) (dialog.HistResult, error) {
	return dialog.HistResult{Stats: &dialog.HistStats{Value: 12}}, nil
}

func (stubHistory) RangeQuery(context.Context, dialog.HistQuery) (dialog.HistResult, error) {
	return dialog.HistResult{Stats: &dialog.HistStats{Value: 12}}, nil
}

func newService(nlu dialog.Classifier) (*dialog.Service, *stubForecast) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fc := &stubForecast{}
	machine := dialog.NewMachine(nlu, fc, stubHistory{}, logger)
	return dialog.NewService(store.NewMemoryStore(), machine, logger), fc
}

func TestServicePersistsSlotsAcrossTurns(t *testing.T) {
	nlu := &stubClassifier{cls: dialog.Classification{Intent: dialog.IntentGetForecast}}
	svc, fc := newService(nlu)
	ctx := context.Background()

	// First turn has no location and prompts for one.
	fx, err := svc.HandleMessage(ctx, "conv-1", "weather?")
	require.NoError(t, err)
	require.Len(t, fx, 1)

	// The reply fills the slot through the suspended getLocation flow.
	_, err = svc.HandleMessage(ctx, "conv-1", "London")
	require.NoError(t, err)
	assert.Equal(t, []string{"London"}, fc.calls)

	// Later turns reuse the stored slot without prompting.
	fx, err = svc.HandleMessage(ctx, "conv-1", "weather again?")
	require.NoError(t, err)
	assert.Equal(t, []string{"London", "London"}, fc.calls)
	for _, e := range fx {
		assert.NotEqual(t, "Where?", e.Text)
	}
}

func TestServiceKeepsConversationsIndependent(t *testing.T) {
	nlu := &stubClassifier{cls: dialog.Classification{Intent: dialog.IntentGetForecast}}
	svc, fc := newService(nlu)
	ctx := context.Background()

	_, err := svc.HandleMessage(ctx, "conv-a", "weather?")
	require.NoError(t, err)
	_, err = svc.HandleMessage(ctx, "conv-a", "Cardiff")
	require.NoError(t, err)

	// A different conversation starts from scratch and must be prompted.
	fx, err := svc.HandleMessage(ctx, "conv-b", "weather?")
	require.NoError(t, err)
	require.Len(t, fx, 1)
	assert.Equal(t, "Where?", fx[0].Text)
	assert.Equal(t, []string{"Cardiff"}, fc.calls)
}

func TestServiceSerializesTurnsPerConversation(t *testing.T) {
	nlu := &stubClassifier{cls: dialog.Classification{Intent: dialog.IntentGreeting}}
	svc, _ := newService(nlu)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.HandleMessage(ctx, "conv-racy", "hello")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Exactly one of the interleaved greetings may have carried the
	// first-time introduction.
	fx, err := svc.HandleMessage(ctx, "conv-racy", "hello")
	require.NoError(t, err)
	assert.Len(t, fx, 1)
}

func TestServiceHandlesDistinctConversationsConcurrently(t *testing.T) {
	nlu := &stubClassifier{cls: dialog.Classification{Intent: dialog.IntentGreeting}}
	svc, _ := newService(nlu)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fx, err := svc.HandleMessage(ctx, fmt.Sprintf("conv-%d", i), "hello")
			assert.NoError(t, err)
			// Every conversation is new, so each gets the full introduction.
			assert.Len(t, fx, 3)
		}(i)
	}
	wg.Wait()
}
