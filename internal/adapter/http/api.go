package http

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/couchcryptid/restaurant-insights/internal/analysis"
	"github.com/couchcryptid/restaurant-insights/internal/domain"
	"github.com/couchcryptid/restaurant-insights/internal/filter"
	"github.com/couchcryptid/restaurant-insights/internal/spatial"
)

type chartsResponse struct {
	SnapshotID string `json:"snapshot_id"`
	Records    int    `json:"records"`
	Empty      bool   `json:"empty"`
	analysis.Charts
}

type pointResponse struct {
	Name        string   `json:"name"`
	Stars       int      `json:"stars"`
	PriceLevel  float64  `json:"price_level"`
	Value       *float64 `json:"value,omitempty"`
	Cuisine     string   `json:"cuisine"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	Year        string   `json:"year"`
	Address     string   `json:"address,omitempty"`
	Description string   `json:"description,omitempty"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	ClusterKey  int      `json:"cluster_key"`
}

type pointsResponse struct {
	SnapshotID string          `json:"snapshot_id"`
	Points     []pointResponse `json:"points"`
	Bounds     *spatial.Bounds `json:"bounds"`
	Clusters   map[int]int     `json:"clusters"`
}

type filtersResponse struct {
	SnapshotID string `json:"snapshot_id"`
	filter.Options
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	snap := s.data.Current()
	if notModified(w, r, snap) {
		return
	}

	records := filter.Apply(snap.Records, criteriaFrom(r))
	resp := chartsResponse{SnapshotID: snap.ID, Records: len(records)}
	if len(records) == 0 {
		resp.Empty = true
		resp.Charts = emptyCharts()
		writeJSON(w, http.StatusOK, resp)
		return
	}

	charts, err := analysis.BuildCharts(records, s.opts.Density)
	if err != nil {
		s.logger.Error("build charts failed", "snapshot", snap.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to build charts"})
		return
	}
	resp.Charts = charts
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePoints(w http.ResponseWriter, r *http.Request) {
	pad := s.opts.BoundsPadding
	if v := r.URL.Query().Get("pad"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid pad %q", v)})
			return
		}
		pad = p
	}

	snap := s.data.Current()
	if notModified(w, r, snap) {
		return
	}

	feed := spatial.BuildPointFeed(filter.Apply(snap.Records, criteriaFrom(r)))
	points := make([]pointResponse, len(feed.Points))
	for i, p := range feed.Points {
		points[i] = toPointResponse(p)
	}
	writeJSON(w, http.StatusOK, pointsResponse{
		SnapshotID: snap.ID,
		Points:     points,
		Bounds:     feed.PaddedBounds(pad),
		Clusters:   feed.CountByClusterKey(),
	})
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	snap := s.data.Current()
	if notModified(w, r, snap) {
		return
	}
	writeJSON(w, http.StatusOK, filtersResponse{
		SnapshotID: snap.ID,
		Options:    filter.OptionsFor(snap.Records),
	})
}

// criteriaFrom reads filter parameters. Each may repeat or hold a
// comma-separated list: ?cuisine=French,Japanese or ?cuisine=French&cuisine=Japanese.
func criteriaFrom(r *http.Request) filter.Criteria {
	q := r.URL.Query()
	return filter.Criteria{
		Countries: listParam(q["country"]),
		Cities:    listParam(q["city"]),
		Cuisines:  listParam(q["cuisine"]),
		Stars:     listParam(q["stars"]),
		Search:    q.Get("q"),
	}
}

func listParam(values []string) []string {
	var out []string
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// notModified sets the snapshot ETag and answers 304 when the client already
// holds a response for this snapshot.
func notModified(w http.ResponseWriter, r *http.Request, snap *domain.Snapshot) bool {
	etag := strconv.Quote(snap.ID)
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" {
		for tag := range strings.SplitSeq(match, ",") {
			if tag = strings.TrimSpace(tag); tag == etag || tag == "*" {
				w.WriteHeader(http.StatusNotModified)
				return true
			}
		}
	}
	return false
}

func toPointResponse(p spatial.Point) pointResponse {
	resp := pointResponse{
		Name:        p.Record.Name,
		Stars:       p.Record.Stars,
		PriceLevel:  p.Record.PriceLevel,
		Cuisine:     p.Record.Cuisine,
		City:        p.Record.City,
		Country:     p.Record.Country,
		Year:        p.Record.Year,
		Address:     p.Record.Address,
		Description: p.Record.Description,
		Lat:         p.Lat,
		Lng:         p.Lng,
		ClusterKey:  p.ClusterKey(),
	}
	if p.Record.HasValue() {
		v := p.Record.Value
		resp.Value = &v
	}
	return resp
}

func emptyCharts() analysis.Charts {
	return analysis.Charts{
		BoxPlot: []analysis.Group[int]{},
		Violin: analysis.ViolinPlot[string]{
			Grid:   []float64{},
			Groups: []analysis.ViolinGroup[string]{},
		},
		Scatter: analysis.Scatter{Points: []analysis.ScatterPoint{}},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client disconnects are not actionable
}
