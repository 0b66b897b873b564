package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-chat-bot/internal/dialog"
)

// HistoryClient implements dialog.HistoryProvider against the historical
// climate data API.
type HistoryClient struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewHistoryClient(client *http.Client, baseURL string) *HistoryClient {
	return &HistoryClient{
		baseURL: baseURL,
		client:  client,
		circuit: newCircuitBreaker("historical"),
	}
}

// Climatology queries the full-baseline endpoint.
func (c *HistoryClient) Climatology(ctx context.Context, q dialog.HistQuery) (dialog.HistResult, error) {
	return c.query(ctx, "climatology", q)
}

// RangeQuery queries the explicitly bounded endpoint.
func (c *HistoryClient) RangeQuery(ctx context.Context, q dialog.HistQuery) (dialog.HistResult, error) {
	return c.query(ctx, "range", q)
}

func (c *HistoryClient) query(ctx context.Context, endpoint string, q dialog.HistQuery) (dialog.HistResult, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", q.Lat))
		values.Set("lon", fmt.Sprintf("%f", q.Lon))
		// Range params are appended only when bounded; the climatology
		// endpoint ignores them either way.
		if q.Range.Bounded() {
			values.Set("start_date", q.Range.StartString())
			values.Set("end_date", q.Range.EndString())
		}

		u := fmt.Sprintf("%s/%s/%s/%s?%s", c.baseURL, q.Variable, q.Operation, endpoint, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	_, body, err := doRequest(ctx, c.client, c.circuit, buildRequest)
	if err != nil {
		return dialog.HistResult{Raw: rawPayload(body, err)},
			fmt.Errorf("%w: %v", dialog.ErrBackendUnavailable, err)
	}

	var payload struct {
		Value           float64 `json:"value"`
		StartDate       string  `json:"start_date"`
		EndDate         string  `json:"end_date"`
		TimeAnswerStart string  `json:"time_answer_start"`
		TimeAnswerEnd   string  `json:"time_answer_end"`
		Graph           string  `json:"graph"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return dialog.HistResult{Raw: string(body)},
			fmt.Errorf("%w: decode response: %v", dialog.ErrBackendUnavailable, err)
	}

	return dialog.HistResult{Stats: &dialog.HistStats{
		Value:     payload.Value,
		StartDate: payload.StartDate,
		EndDate:   payload.EndDate,
		PeakStart: payload.TimeAnswerStart,
		PeakEnd:   payload.TimeAnswerEnd,
		ChartURL:  payload.Graph,
	}}, nil
}
