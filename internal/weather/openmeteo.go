package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
)

// Current holds the current conditions for a point. Both fields are null
// when the upstream API could not be reached; callers treat that as a
// decorative gap, never as an error.
type Current struct {
	Temperature *float64 `json:"temperature_2m"`
	WindSpeed   *float64 `json:"wind_speed_10m"`
}

// Client fetches current conditions from the Open-Meteo forecast API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	circuit    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo client. Open-Meteo requires no API key.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "open-meteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		circuit: cb,
		logger:  logger,
	}
}

// Current returns the conditions at lat/lon. Any upstream problem (transport
// error, non-2xx status, malformed body, open circuit) is logged and
// collapsed into the null-field sentinel so one bad lookup never fails the
// caller's request.
func (c *Client) Current(ctx context.Context, lat, lon float64) Current {
	cur, err := c.fetch(ctx, lat, lon)
	if err != nil {
		c.logger.Warn("weather lookup failed", "lat", lat, "lon", lon, "error", err)
		return Current{}
	}
	return cur
}

func (c *Client) fetch(ctx context.Context, lat, lon float64) (Current, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("current", "temperature_2m,wind_speed_10m")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return Current{}, err
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		var payload struct {
			Current struct {
				Temperature *float64 `json:"temperature_2m"`
				WindSpeed   *float64 `json:"wind_speed_10m"`
			} `json:"current"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, err
		}

		return Current{
			Temperature: payload.Current.Temperature,
			WindSpeed:   payload.Current.WindSpeed,
		}, nil
	})
	if err != nil {
		return Current{}, err
	}

	cur, ok := result.(Current)
	if !ok {
		return Current{}, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return cur, nil
}
