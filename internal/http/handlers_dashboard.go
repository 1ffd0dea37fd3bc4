package http

import (
	"net/http"
	"time"

	"toya/internal/core"
	"toya/internal/stats"
)

type dashboardResponse struct {
	TotalCollected     core.Money           `json:"total_collected"`
	OutstandingEst     core.Money           `json:"outstanding_estimate"`
	ActiveStudents     int                  `json:"active_students"`
	TotalTransactions  int                  `json:"total_transactions"`
	MonthlyCollections []stats.MonthlyPoint `json:"monthly_collections"`
	ClassCollections   []stats.ClassTotal   `json:"class_collections"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	totals, err := s.svc.Totals(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	receipts, err := s.svc.All(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	collected := core.Money{Cents: totals.CollectedCents}
	resp := dashboardResponse{
		TotalCollected:     collected,
		OutstandingEst:     stats.OutstandingEstimate(collected),
		ActiveStudents:     totals.StudentCount,
		TotalTransactions:  totals.ReceiptCount,
		MonthlyCollections: stats.MonthlyTotals(receipts, time.Now()),
		ClassCollections:   stats.ClassTotals(receipts),
	}
	if resp.ClassCollections == nil {
		resp.ClassCollections = []stats.ClassTotal{}
	}

	writeJSON(w, http.StatusOK, resp)
}
