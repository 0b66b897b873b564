package dialog

import (
	"context"
	"errors"

	"github.com/i474232898/weather-chat-bot/internal/interpret"
	"github.com/i474232898/weather-chat-bot/internal/timeframe"
)

var (
	// ErrNluUnavailable is returned by a Classifier that cannot complete the
	// call. The state machine treats it as an unmatched intent.
	ErrNluUnavailable = errors.New("nlu unavailable")

	// ErrBackendUnavailable is returned by forecast/historical providers on
	// transport errors or non-success statuses. The raw payload, when any,
	// still travels alongside in the result value.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// Intent is the classified purpose of a user utterance.
type Intent string

const (
	IntentNone          Intent = "None"
	IntentGreeting      Intent = "greeting"
	IntentHelp          Intent = "help"
	IntentThanks        Intent = "thanks"
	IntentGoodbye       Intent = "goodbye"
	IntentGetForecast   Intent = "getForecast"
	IntentCompareToPast Intent = "compareToPast"
	IntentFindOptimal   Intent = "findOptimal"
)

// Entity is a typed value extracted from an utterance by the NLU.
type Entity struct {
	Type  SlotType
	Value string
}

// Classification is the NLU verdict for one utterance.
type Classification struct {
	Intent   Intent
	Entities []Entity
}

// Classifier abstracts the external NLU service.
type Classifier interface {
	Classify(ctx context.Context, text string) (Classification, error)
}

// Measurement is a single current-conditions value with its units.
type Measurement struct {
	Value float64
	Units string
}

// Forecast is the structured payload of a successful forecast query.
type Forecast struct {
	Lat      float64
	Lon      float64
	SiteName string
	Current  map[interpret.Variable]Measurement
	Summary  string
}

// ForecastResult is the outcome of a forecast query: either a structured
// Forecast or the raw failure payload. The discrimination happens once here;
// downstream code checks Forecast == nil and never re-inspects shapes.
type ForecastResult struct {
	Forecast *Forecast
	Raw      string
}

// ForecastProvider abstracts the forecast backend.
type ForecastProvider interface {
	Query(ctx context.Context, location string) (ForecastResult, error)
}

// HistQuery carries the parameters of one historical-statistics query.
type HistQuery struct {
	Lat       float64
	Lon       float64
	Variable  interpret.Variable
	Operation interpret.Operation
	Range     timeframe.Range
}

// HistStats is the structured payload of a successful historical query.
type HistStats struct {
	Value     float64
	StartDate string
	EndDate   string
	PeakStart string
	PeakEnd   string
	ChartURL  string
}

// HistResult is the outcome of a historical query, sum-typed like
// ForecastResult.
type HistResult struct {
	Stats *HistStats
	Raw   string
}

// HistoryProvider abstracts the historical-climate backend. Climatology
// queries the full-baseline endpoint; RangeQuery the explicitly bounded one.
type HistoryProvider interface {
	Climatology(ctx context.Context, q HistQuery) (HistResult, error)
	RangeQuery(ctx context.Context, q HistQuery) (HistResult, error)
}

// Card is a visual answer attachment.
type Card struct {
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
	LinkURL  string `json:"linkUrl"`
}

// Store is the contract conversation stores must satisfy. Get returns a
// fresh empty state for unknown ids.
type Store interface {
	Get(ctx context.Context, conversationID string) (*State, error)
	Put(ctx context.Context, conversationID string, state *State) error
}
