package http

import (
	"fmt"
	"net/http"
	"time"

	"toya/internal/core"
	"toya/internal/export"
	"toya/internal/stats"
)

// periodFilterFromQuery reads start/end/class parameters; a missing range
// defaults to the trailing 30 days.
func periodFilterFromQuery(r *http.Request) stats.PeriodFilter {
	q := r.URL.Query()
	f := stats.PeriodFilter{
		Start:      q.Get("start"),
		End:        q.Get("end"),
		ClassGrade: q.Get("class"),
	}
	if f.Start == "" || f.End == "" {
		now := time.Now()
		f.End = now.Format("2006-01-02")
		f.Start = now.AddDate(0, 0, -30).Format("2006-01-02")
	}
	return f
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	filter := periodFilterFromQuery(r)
	receipts, err := s.svc.All(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := stats.PeriodTotals(receipts, filter)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date range: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleReportCSV(w http.ResponseWriter, r *http.Request) {
	filter := periodFilterFromQuery(r)
	receipts, err := s.svc.All(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out, err := export.ReceiptsCSV(stats.FilteredReceipts(receipts, filter))
	if err != nil {
		writeError(w, r, err)
		return
	}

	name := fmt.Sprintf("receipts_%s_%s.csv", filter.Start, filter.End)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+name)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

func (s *Server) handleReportXLSX(w http.ResponseWriter, r *http.Request) {
	filter := periodFilterFromQuery(r)
	receipts, err := s.svc.All(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := stats.PeriodTotals(receipts, filter)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date range: " + err.Error()})
		return
	}

	name := fmt.Sprintf("report_%s_%s.xlsx", filter.Start, filter.End)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+name)
	if err := export.WriteReportXLSX(w, report, stats.FilteredReceipts(receipts, filter)); err != nil {
		writeError(w, r, err)
	}
}

func (s *Server) handleBackupDownload(w http.ResponseWriter, r *http.Request) {
	receipts, err := s.svc.All(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if receipts == nil {
		receipts = []core.Receipt{}
	}
	pairs, err := s.store.LoadSettings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, err := export.MarshalBackup(export.NewBackup(pairs, receipts))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=toya_backup.json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
