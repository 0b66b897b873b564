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

// NLUClient implements dialog.Classifier against a LUIS-style intent service.
type NLUClient struct {
	baseURL string
	appID   string
	subKey  string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewNLUClient(client *http.Client, baseURL, appID, subKey string) *NLUClient {
	return &NLUClient{
		baseURL: baseURL,
		appID:   appID,
		subKey:  subKey,
		client:  client,
		circuit: newCircuitBreaker("nlu"),
	}
}

// Classify sends the utterance to the NLU and decodes the top-scoring intent
// plus entities. Any failure maps to dialog.ErrNluUnavailable.
func (c *NLUClient) Classify(ctx context.Context, text string) (dialog.Classification, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("subscription-key", c.subKey)
		values.Set("verbose", "true")
		values.Set("q", text)

		u := fmt.Sprintf("%s/%s?%s", c.baseURL, c.appID, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	_, body, err := doRequest(ctx, c.client, c.circuit, buildRequest)
	if err != nil {
		return dialog.Classification{}, fmt.Errorf("%w: %v", dialog.ErrNluUnavailable, err)
	}

	var payload struct {
		TopScoringIntent struct {
			Intent string `json:"intent"`
		} `json:"topScoringIntent"`
		Entities []struct {
			Type   string `json:"type"`
			Entity string `json:"entity"`
		} `json:"entities"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return dialog.Classification{}, fmt.Errorf("%w: decode response: %v", dialog.ErrNluUnavailable, err)
	}

	cls := dialog.Classification{Intent: dialog.Intent(payload.TopScoringIntent.Intent)}
	for _, e := range payload.Entities {
		cls.Entities = append(cls.Entities, dialog.Entity{
			Type:  dialog.SlotType(e.Type),
			Value: e.Entity,
		})
	}
	return cls, nil
}
