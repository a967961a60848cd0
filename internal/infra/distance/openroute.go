// Package distance implements the distance provider on top of the
// OpenRouteService HTTP API. Failures here never fail a request; pricing
// falls back to flat fees.
package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"fleetbook/internal/pkg/config"
	"fleetbook/internal/pkg/errs"
)

var (
	ErrGeocodeNoResult = errs.New("geocoding returned no result")
	ErrRouteNotFound   = errs.New("no route between locations")
)

type OpenRouteClient struct {
	baseURL     string
	apiKey      string
	countryCode string
	httpClient  *http.Client
}

func NewOpenRouteClient(cfg config.DistanceConfig) *OpenRouteClient {
	return &OpenRouteClient{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		countryCode: cfg.CountryCode,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *OpenRouteClient) DistanceKm(ctx context.Context, from, to string) (float64, error) {
	fromLon, fromLat, err := c.geocode(ctx, from)
	if err != nil {
		return 0, errs.Wrap(err, "failed to geocode origin")
	}
	toLon, toLat, err := c.geocode(ctx, to)
	if err != nil {
		return 0, errs.Wrap(err, "failed to geocode destination")
	}

	meters, err := c.route(ctx, [2]float64{fromLon, fromLat}, [2]float64{toLon, toLat})
	if err != nil {
		return 0, err
	}
	return meters / 1000.0, nil
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

func (c *OpenRouteClient) geocode(ctx context.Context, text string) (lon, lat float64, err error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("text", text)
	q.Set("size", "1")
	if c.countryCode != "" {
		q.Set("boundary.country", c.countryCode)
	}

	endpoint := c.baseURL + "/geocode/search?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, 0, errs.Wrap(err, "failed to build geocode request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, errs.Wrap(err, "geocode request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, 0, errs.Newf("geocode returned status %d: %s", resp.StatusCode, body)
	}

	var parsed geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, 0, errs.Wrap(err, "failed to decode geocode response")
	}
	if len(parsed.Features) == 0 || len(parsed.Features[0].Geometry.Coordinates) < 2 {
		return 0, 0, errs.Wrap(ErrGeocodeNoResult, text)
	}

	coords := parsed.Features[0].Geometry.Coordinates
	return coords[0], coords[1], nil
}

type directionsRequest struct {
	Coordinates [][2]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"` // meters
		} `json:"summary"`
	} `json:"routes"`
}

func (c *OpenRouteClient) route(ctx context.Context, from, to [2]float64) (float64, error) {
	payload, err := json.Marshal(directionsRequest{Coordinates: [][2]float64{from, to}})
	if err != nil {
		return 0, errs.Wrap(err, "failed to marshal directions request")
	}

	endpoint := c.baseURL + "/v2/directions/driving-car"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, errs.Wrap(err, "failed to build directions request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, errs.Wrap(err, "directions request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, errs.Newf("directions returned status %d: %s", resp.StatusCode, body)
	}

	var parsed directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, errs.Wrap(err, "failed to decode directions response")
	}
	if len(parsed.Routes) == 0 {
		return 0, fmt.Errorf("%w: no routes in response", ErrRouteNotFound)
	}

	return parsed.Routes[0].Summary.Distance, nil
}
