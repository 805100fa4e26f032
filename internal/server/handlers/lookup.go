package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/geolens/geolens/internal/core"
	"github.com/geolens/geolens/internal/core/lookup"
	apperrors "github.com/geolens/geolens/internal/errors"
)

// Services bundles the lookup adapters the API handlers delegate to.
type Services struct {
	Geocoder  *lookup.Geocoder
	Places    *lookup.Places
	Distance  *lookup.Distance
	Timezone  *lookup.Timezone
	StaticMap *lookup.StaticMap
}

// Geocode serves GET /v1/geocode?address=&country=. When plain
// geocoding misses and a places service is wired, the places fallback
// gets a shot before 404.
func (s *Services) Geocode(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		writeError(w, r, badRequest("address query parameter is required"))
		return
	}
	country := r.URL.Query().Get("country")

	result, err := s.Geocoder.Freeform(r.Context(), address, country)
	if apperrors.IsNotFound(err) && s.Places != nil {
		result, err = s.Places.TextToLocation(r.Context(), address, country)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// DistanceSummary serves GET /v1/distance?origin=&destination=&mode=.
func (s *Services) DistanceSummary(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	origin := strings.TrimSpace(query.Get("origin"))
	destination := strings.TrimSpace(query.Get("destination"))
	if origin == "" || destination == "" {
		writeError(w, r, badRequest("origin and destination query parameters are required"))
		return
	}

	mode, err := core.ParseTravelMode(query.Get("mode"))
	if err != nil {
		writeError(w, r, badRequest(err.Error()))
		return
	}

	summary, err := s.Distance.Summary(r.Context(), origin, destination, mode)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, summary)
}

// TimezoneLookup serves GET /v1/timezone?lat=&lng=.
func (s *Services) TimezoneLookup(w http.ResponseWriter, r *http.Request) {
	coord, err := coordinateParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.Timezone.Lookup(r.Context(), coord, timeParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// StaticMapURL serves GET /v1/staticmap?lat=&lng=&zoom=&size=. The
// response carries the signed URL; the image itself is the caller's
// fetch to make.
func (s *Services) StaticMapURL(w http.ResponseWriter, r *http.Request) {
	coord, err := coordinateParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	query := r.URL.Query()
	zoom := 12
	if raw := query.Get("zoom"); raw != "" {
		zoom, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, badRequest("zoom must be an integer"))
			return
		}
	}
	size := query.Get("size")
	if size == "" {
		size = "640x480"
	}

	rawURL, err := s.StaticMap.PinURL(coord, zoom, size)
	if err != nil {
		writeError(w, r, badRequest(err.Error()))
		return
	}
	writeJSON(w, map[string]string{"url": rawURL})
}

// timeParam reads an optional unix-seconds timestamp query parameter.
// Absent or malformed values mean "now".
func timeParam(r *http.Request) time.Time {
	raw := strings.TrimSpace(r.URL.Query().Get("timestamp"))
	if raw == "" {
		return time.Time{}
	}
	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(seconds, 0).UTC()
}

func coordinateParams(r *http.Request) (core.Coordinate, error) {
	query := r.URL.Query()
	lat := strings.TrimSpace(query.Get("lat"))
	lng := strings.TrimSpace(query.Get("lng"))
	if lat == "" || lng == "" {
		return core.Coordinate{}, badRequest("lat and lng query parameters are required")
	}
	coord, err := core.ParseCoordinate(lat + "," + lng)
	if err != nil {
		return core.Coordinate{}, badRequest(err.Error())
	}
	return coord, nil
}

func writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(value)
}
