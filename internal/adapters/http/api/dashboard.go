// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"net/http"

	"github.com/okian/bestxi/internal/domain/types"
)

// LimitsProvider reports the shortlist sizes.
type LimitsProvider interface {
	Limits() (batsmen, bowlers, allRounders int)
}

// dashboardHandler handles dashboard requests
type dashboardHandler struct {
	limits LimitsProvider
}

// newDashboardHandler creates a new dashboard handler
func newDashboardHandler(limits LimitsProvider) *dashboardHandler {
	return &dashboardHandler{limits: limits}
}

type dashboardView struct {
	BatsmenTitle     string
	BowlersTitle     string
	AllRoundersTitle string
	DeliveriesField  string
	MatchesField     string
}

// HandleDashboard handles GET /dashboard requests.
// Returns an upload page that posts both files to /analyze and renders the tables.
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	b, bw, a := h.limits.Limits()
	view := dashboardView{DeliveriesField: FieldDeliveries, MatchesField: FieldMatches}
	view.BatsmenTitle, view.BowlersTitle, view.AllRoundersTitle = types.Titles(b, bw, a)

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, view); err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
