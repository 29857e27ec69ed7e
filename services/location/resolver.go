package location

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"techsetu-website-api/models"
)

const (
	DefaultEndpoint = "http://ip-api.com/json/?fields=country,countryCode,region,city,timezone"
	RequestTimeout  = 5 * time.Second
)

// DefaultLocation is the fallback returned whenever geolocation fails. The
// business is India-first, so pricing defaults to Indian GST rather than
// blocking a page load on a lookup.
var DefaultLocation = models.LocationData{
	Country:     "India",
	CountryCode: "IN",
	Region:      "",
	City:        "",
	Timezone:    "Asia/Kolkata",
}

type GeoIPConfig struct {
	Endpoint string
}

// Resolver looks up the caller's location from an IP geolocation service.
// Every call performs a fresh lookup; there is no retry and no cache.
type Resolver struct {
	endpoint string
	fallback models.LocationData
	client   *http.Client
}

func NewResolver(cfg GeoIPConfig) *Resolver {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Resolver{
		endpoint: endpoint,
		fallback: DefaultLocation,
		client:   &http.Client{Timeout: RequestTimeout},
	}
}

// Resolve returns the caller's location, or the fallback on any failure.
// Lookup errors are logged and masked: pricing must never fail because a
// geolocation provider is down.
func (r *Resolver) Resolve(ctx context.Context) models.LocationData {
	loc, err := r.lookup(ctx)
	if err != nil {
		log.Printf("Warning: geolocation lookup failed, using fallback location: %v", err)
		return r.fallback
	}
	return loc
}

func (r *Resolver) lookup(ctx context.Context) (models.LocationData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		return models.LocationData{}, fmt.Errorf("error creating request: %v", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return models.LocationData{}, fmt.Errorf("error making request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.LocationData{}, fmt.Errorf("geolocation service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.LocationData{}, fmt.Errorf("error reading response body: %v", err)
	}

	var loc models.LocationData
	if err := json.Unmarshal(body, &loc); err != nil {
		return models.LocationData{}, fmt.Errorf("error decoding response: %v", err)
	}

	return r.fillDefaults(loc), nil
}

// fillDefaults patches individually missing fields of a partial response
// with the fallback values.
func (r *Resolver) fillDefaults(loc models.LocationData) models.LocationData {
	if loc.Country == "" {
		loc.Country = r.fallback.Country
	}
	if loc.CountryCode == "" {
		loc.CountryCode = r.fallback.CountryCode
	}
	if loc.Timezone == "" {
		loc.Timezone = r.fallback.Timezone
	}
	return loc
}
