package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominatimGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		switch r.URL.Query().Get("q") {
		case "221B Baker Street, London":
			_, _ = w.Write([]byte(`[{"lat":"51.5238","lon":"-0.1586"}]`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer srv.Close()

	r := NewNominatim(srv.URL, "ops@example.com")

	pt, err := r.Geocode(context.Background(), "221B Baker Street, London")
	require.NoError(t, err)
	assert.InDelta(t, 51.5238, pt.Lat, 1e-6)
	assert.InDelta(t, -0.1586, pt.Lon, 1e-6)

	_, err = r.Geocode(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, ErrNoResult)

	_, err = r.Geocode(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestNominatimGeocodeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r := NewNominatim(srv.URL, "")
	_, err := r.Geocode(context.Background(), "somewhere")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoResult)
}
