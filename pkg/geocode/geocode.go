package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Point is a geocoded coordinate pair.
type Point struct {
	Lat float64
	Lon float64
}

// Resolver turns a postal address into coordinates. Implementations return
// ErrNoResult when the address cannot be resolved; the vendor is replaceable.
type Resolver interface {
	Geocode(ctx context.Context, address string) (Point, error)
}

// ErrNoResult reports that the geocoder had no match for the address.
var ErrNoResult = fmt.Errorf("geocode: no result")

// NominatimResolver implements Resolver against a Nominatim-compatible
// /search endpoint (format=json).
type NominatimResolver struct {
	BaseURL string
	Email   string // identification parameter per Nominatim usage policy
	Client  *http.Client
}

func NewNominatim(baseURL, email string) *NominatimResolver {
	return &NominatimResolver{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Email:   email,
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (r *NominatimResolver) Geocode(ctx context.Context, address string) (Point, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Point{}, ErrNoResult
	}
	if r.Client == nil {
		r.Client = &http.Client{Timeout: 5 * time.Second}
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	if r.Email != "" {
		q.Set("email", r.Email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.BaseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return Point{}, err
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return Point{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Point{}, fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var body []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Point{}, err
	}
	if len(body) == 0 {
		return Point{}, ErrNoResult
	}

	lat, err := strconv.ParseFloat(body[0].Lat, 64)
	if err != nil {
		return Point{}, fmt.Errorf("geocode: bad latitude %q", body[0].Lat)
	}
	lon, err := strconv.ParseFloat(body[0].Lon, 64)
	if err != nil {
		return Point{}, fmt.Errorf("geocode: bad longitude %q", body[0].Lon)
	}
	return Point{Lat: lat, Lon: lon}, nil
}
