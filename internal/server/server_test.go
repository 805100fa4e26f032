package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/geolens/geolens/internal/config"
	"github.com/geolens/geolens/internal/core/gateway"
	"github.com/geolens/geolens/internal/core/lookup"
	"github.com/geolens/geolens/internal/server/handlers"
)

const upstreamGeocodeBody = `{
	"status": "OK",
	"results": [{
		"formatted_address": "Paris, France",
		"place_id": "paris-id",
		"geometry": {"location": {"lat": 48.8566, "lng": 2.3522}},
		"address_components": [
			{"types": ["country", "political"], "short_name": "FR", "long_name": "France"}
		]
	}]
}`

const upstreamTimezoneBody = `{
	"status": "OK",
	"timeZoneId": "Europe/Paris",
	"timeZoneName": "Central European Time",
	"rawOffset": 3600,
	"dstOffset": 0
}`

// newTestServer wires a full server against a fake upstream API.
func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/geocode/json":
			if r.URL.Query().Get("address") == "Atlantis" {
				_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
				return
			}
			_, _ = w.Write([]byte(upstreamGeocodeBody))
		case "/timezone/json":
			_, _ = w.Write([]byte(upstreamTimezoneBody))
		case "/distancematrix/json":
			_, _ = w.Write([]byte(`{"status": "OK", "rows": [{"elements": [{
				"status": "OK",
				"distance": {"text": "878 km", "value": 878000},
				"duration": {"text": "8 hours", "value": 28800}
			}]}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(upstream.Close)

	g, err := gateway.New(
		config.APIConfig{Key: "test-key", BaseURL: upstream.URL},
		config.GatewayConfig{QPS: 1000, Timeout: 5 * time.Second},
	)
	require.NoError(t, err)

	services := &handlers.Services{
		Geocoder:  &lookup.Geocoder{Gateway: g},
		Distance:  &lookup.Distance{Gateway: g},
		Timezone:  &lookup.Timezone{Gateway: g},
		StaticMap: &lookup.StaticMap{APIKey: "test-key", Gateway: g},
	}
	return New(config.ServerConfig{Host: "127.0.0.1", Port: 0}, services, "test"), upstream
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	s.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	return recorder
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	resp := get(t, s, "/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var payload handlers.HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	require.Equal(t, "healthy", payload.Status)
	require.Equal(t, "test", payload.Version)
}

func TestVersionEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	resp := get(t, s, "/version")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"name":"geolens"`)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	resp := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "go_goroutines")
}

func TestGeocodeEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	resp := get(t, s, "/v1/geocode?address=Paris&country=FR")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"formatted_address":"Paris, France"`)
	require.NotEmpty(t, resp.Header().Get("X-Request-ID"))
}

func TestGeocodeEndpointValidation(t *testing.T) {
	s, _ := newTestServer(t)

	resp := get(t, s, "/v1/geocode")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Contains(t, resp.Body.String(), `"code":"bad_request"`)
}

func TestGeocodeEndpointNotFound(t *testing.T) {
	s, _ := newTestServer(t)

	resp := get(t, s, "/v1/geocode?address=Atlantis")
	require.Equal(t, http.StatusNotFound, resp.Code)
	require.Contains(t, resp.Body.String(), `"code":"not_found"`)
}

func TestDistanceEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	resp := get(t, s, "/v1/distance?origin=Paris&destination=Berlin&mode=driving")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"distance_text":"878 km"`)

	resp = get(t, s, "/v1/distance?origin=Paris&destination=Berlin&mode=teleport")
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestTimezoneEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	resp := get(t, s, "/v1/timezone?lat=48.8566&lng=2.3522")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"zone_id":"Europe/Paris"`)

	resp = get(t, s, "/v1/timezone?lat=91&lng=0")
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestStaticMapEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	resp := get(t, s, "/v1/staticmap?lat=48.8566&lng=2.3522&zoom=12&size=640x480")
	require.Equal(t, http.StatusOK, resp.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	require.Contains(t, payload["url"], "center=48.8566%2C2.3522")
	require.Contains(t, payload["url"], "size=640x480")

	resp = get(t, s, "/v1/staticmap?lat=48.8566&lng=2.3522&zoom=99")
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUnknownRouteEnvelope(t *testing.T) {
	s, _ := newTestServer(t)

	resp := get(t, s, "/nope")
	require.Equal(t, http.StatusNotFound, resp.Code)
	require.Contains(t, resp.Body.String(), `"code":"not_found"`)
}
