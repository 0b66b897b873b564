package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-chat-bot/internal/dialog"
	"github.com/i474232898/weather-chat-bot/internal/interpret"
)

// ForecastClient implements dialog.ForecastProvider against the datapoint
// forecast proxy. When the proxy returns a site without coordinates and a
// geocoder key is configured, the location name is geocoded so historical
// queries still get a lat/lon; without a key such a payload is a failed
// lookup.
type ForecastClient struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	geocode bool
}

func NewForecastClient(client *http.Client, baseURL, geocoderAPIKey string) *ForecastClient {
	if geocoderAPIKey != "" {
		geocoder.ApiKey = geocoderAPIKey
	}
	return &ForecastClient{
		baseURL: baseURL,
		client:  client,
		circuit: newCircuitBreaker("forecast"),
		geocode: geocoderAPIKey != "",
	}
}

// Query fetches the current forecast for a named location. Transport errors
// and failure statuses resolve to a raw payload rather than a structured
// forecast; the returned error carries dialog.ErrBackendUnavailable.
func (c *ForecastClient) Query(ctx context.Context, location string) (dialog.ForecastResult, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("location", location)
		u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	_, body, err := doRequest(ctx, c.client, c.circuit, buildRequest)
	if err != nil {
		return dialog.ForecastResult{Raw: rawPayload(body, err)},
			fmt.Errorf("%w: %v", dialog.ErrBackendUnavailable, err)
	}

	var payload struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Site struct {
				Name string `json:"name"`
			} `json:"site"`
			Forecast struct {
				Text struct {
					Local string `json:"local"`
				} `json:"text"`
				Current map[string]struct {
					Value float64 `json:"value"`
					Units string  `json:"units"`
				} `json:"current"`
			} `json:"forecast"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return dialog.ForecastResult{Raw: string(body)},
			fmt.Errorf("%w: decode response: %v", dialog.ErrBackendUnavailable, err)
	}

	fcst := &dialog.Forecast{
		SiteName: payload.Properties.Site.Name,
		Summary:  payload.Properties.Forecast.Text.Local,
		Current:  make(map[interpret.Variable]dialog.Measurement),
	}
	for name, m := range payload.Properties.Forecast.Current {
		fcst.Current[interpret.Variable(name)] = dialog.Measurement{Value: m.Value, Units: m.Units}
	}

	if coords := payload.Geometry.Coordinates; len(coords) >= 2 {
		fcst.Lat, fcst.Lon = coords[0], coords[1]
	} else if c.geocode {
		loc, geoErr := geocoder.Geocoding(geocoder.Address{City: location})
		if geoErr != nil {
			return dialog.ForecastResult{Raw: fmt.Sprintf("could not locate %q", location)},
				fmt.Errorf("%w: geocode %q: %v", dialog.ErrBackendUnavailable, location, geoErr)
		}
		fcst.Lat, fcst.Lon = loc.Latitude, loc.Longitude
	} else {
		// Without coordinates the historical queries would hit 0,0; treat
		// the lookup as failed instead.
		return dialog.ForecastResult{Raw: fmt.Sprintf("could not locate %q", location)},
			fmt.Errorf("%w: no coordinates for %q", dialog.ErrBackendUnavailable, location)
	}

	return dialog.ForecastResult{Forecast: fcst}, nil
}

// rawPayload prefers the response body; failing that, the error text.
func rawPayload(body []byte, err error) string {
	if len(body) > 0 {
		return string(body)
	}
	return err.Error()
}
