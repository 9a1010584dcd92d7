package locate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/milantony05/smart-kissan/internal/geo"
)

// DefaultIPAPIEndpoint is the free ip-api.com JSON endpoint.
const DefaultIPAPIEndpoint = "http://ip-api.com/json"

// IPAPIProvider resolves the device position from its public IP address.
// Coarse (city-level) but requires no OS permission; the HighAccuracy hint
// has no effect on this backend.
type IPAPIProvider struct {
	Endpoint string
	Client   *http.Client
}

// NewIPAPIProvider returns a provider against the public ip-api endpoint.
func NewIPAPIProvider() *IPAPIProvider {
	return &IPAPIProvider{Endpoint: DefaultIPAPIEndpoint, Client: http.DefaultClient}
}

type ipapiResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (p *IPAPIProvider) CurrentPosition(ctx context.Context, opts Options) (geo.Coordinate, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.Endpoint, nil)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return geo.Coordinate{}, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return geo.Coordinate{}, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden, resp.StatusCode == http.StatusTooManyRequests:
		body, _ := io.ReadAll(resp.Body)
		return geo.Coordinate{}, fmt.Errorf("%w: http %d: %s", ErrPermissionDenied, resp.StatusCode, strings.TrimSpace(string(body)))
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(resp.Body)
		return geo.Coordinate{}, fmt.Errorf("%w: http %d: %s", ErrPositionUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed ipapiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: decode: %v", ErrPositionUnavailable, err)
	}
	if parsed.Status != "success" {
		return geo.Coordinate{}, fmt.Errorf("%w: %s", ErrPositionUnavailable, parsed.Message)
	}
	return geo.Coordinate{Lat: parsed.Lat, Lon: parsed.Lon}, nil
}
