package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/lox/tireswap/internal/metrics"
	"github.com/lox/tireswap/internal/season"
)

// OptimalDatesResponse carries a recommendation. Absent dates are explicit
// nulls, never omitted.
type OptimalDatesResponse struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	SwitchToSummer   *string `json:"switch_to_summer"`
	SwitchToWinter   *string `json:"switch_to_winter"`
	StationsAnalyzed int     `json:"stations_analyzed"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "tireswap",
	})
}

func (s *Server) handleOptimalDates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	latitude, err := strconv.ParseFloat(q.Get("latitude"), 64)
	if err != nil {
		metrics.RecommendationsServed.WithLabelValues("bad_request").Inc()
		writeError(w, http.StatusBadRequest, "latitude is required and must be a number")
		return
	}
	longitude, err := strconv.ParseFloat(q.Get("longitude"), 64)
	if err != nil {
		metrics.RecommendationsServed.WithLabelValues("bad_request").Inc()
		writeError(w, http.StatusBadRequest, "longitude is required and must be a number")
		return
	}

	numStations := 0
	if v := q.Get("num_stations"); v != "" {
		numStations, err = strconv.Atoi(v)
		if err != nil {
			metrics.RecommendationsServed.WithLabelValues("bad_request").Inc()
			writeError(w, http.StatusBadRequest, "num_stations must be an integer")
			return
		}
	}

	rec := s.analyzer.Load().Analyze(latitude, longitude, numStations)

	resp := OptimalDatesResponse{
		Latitude:         rec.Latitude,
		Longitude:        rec.Longitude,
		StationsAnalyzed: rec.StationsAnalyzed,
	}
	if rec.SwitchToSummer.Valid {
		d := season.FormatDay(int(rec.SwitchToSummer.Int64))
		resp.SwitchToSummer = &d
	}
	if rec.SwitchToWinter.Valid {
		d := season.FormatDay(int(rec.SwitchToWinter.Int64))
		resp.SwitchToWinter = &d
	}

	metrics.RecommendationsServed.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := s.store.ListStations()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type stationJSON struct {
		ID        int64   `json:"id"`
		Name      string  `json:"name"`
		Longitude float64 `json:"longitude"`
		Latitude  float64 `json:"latitude"`
	}
	out := make([]stationJSON, 0, len(stations))
	for _, st := range stations {
		out = append(out, stationJSON{ID: st.ID, Name: st.Name, Longitude: st.Longitude, Latitude: st.Latitude})
	}
	writeJSON(w, http.StatusOK, out)
}
