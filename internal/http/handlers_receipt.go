package http

import (
	"net/http"
	"strconv"

	"toya/internal/codec"
	"toya/internal/core"
	"toya/internal/services"
)

type createReceiptRequest struct {
	StudentName     string     `json:"student_name"`
	AdmissionNumber string     `json:"admission_number"`
	ClassGrade      string     `json:"class_grade"`
	PayerName       string     `json:"payer_name"`
	Amount          core.Money `json:"amount"`
	PaymentMethod   string     `json:"payment_method"`
	ReferenceID     string     `json:"reference_id"`
	Date            string     `json:"date"`
	Notes           string     `json:"notes"`
}

type receiptResponse struct {
	core.Receipt
	AmountWords string `json:"amount_words"`
	QRPayload   string `json:"qr_payload"`
}

func newReceiptResponse(r core.Receipt) receiptResponse {
	return receiptResponse{
		Receipt:     r,
		AmountWords: codec.AmountToWords(r.Amount),
		QRPayload:   codec.BuildQRPayload(r.ReferenceID, r.Amount, r.Date),
	}
}

func (s *Server) handleCreateReceipt(w http.ResponseWriter, r *http.Request) {
	var req createReceiptRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	receipt, err := s.svc.Create(r.Context(), services.NewReceiptInput{
		StudentName:     req.StudentName,
		AdmissionNumber: req.AdmissionNumber,
		ClassGrade:      req.ClassGrade,
		PayerName:       req.PayerName,
		Amount:          req.Amount,
		PaymentMethod:   req.PaymentMethod,
		ReferenceID:     req.ReferenceID,
		Date:            req.Date,
		Notes:           req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newReceiptResponse(receipt))
}

type listReceiptsResponse struct {
	Receipts   []core.Receipt `json:"receipts"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	// A request without parameters serves the remembered view; filter
	// parameters start a new search (and reset to page one), a bare page
	// parameter moves within the current one.
	q := r.URL.Query()
	filter := s.session.Filter()
	if q.Has("search") || q.Has("class") || q.Has("from") || q.Has("to") {
		filter = core.ReceiptFilter{
			Search:     q.Get("search"),
			ClassGrade: q.Get("class"),
			DateFrom:   q.Get("from"),
			DateTo:     q.Get("to"),
		}
		s.session.SetFilter(filter)
	}

	page, _ := s.session.Page()
	if p, err := strconv.Atoi(q.Get("page")); err == nil {
		page = p
	}

	result, err := s.svc.Query(r.Context(), filter, page, s.pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	// Remember the clamped page so the next parameterless request lands
	// where this one did.
	s.session.SetPage(result.Page)
	if result.Receipts == nil {
		result.Receipts = []core.Receipt{}
	}

	writeJSON(w, http.StatusOK, listReceiptsResponse{
		Receipts:   result.Receipts,
		Total:      result.Total,
		Page:       result.Page,
		TotalPages: result.TotalPages,
	})
}

func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.svc.Get(r.Context(), r.PathValue("ref"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newReceiptResponse(receipt))
}

func (s *Server) handleReceiptQR(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.svc.Get(r.Context(), r.PathValue("ref"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	payload := codec.BuildQRPayload(receipt.ReferenceID, receipt.Amount, receipt.Date)
	png, err := codec.RenderQRPNG(payload, codec.DefaultQRSize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

type deleteStateResponse struct {
	PendingDelete string `json:"pending_delete,omitempty"`
	Deleted       bool   `json:"deleted"`
}

func (s *Server) handleRequestDelete(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("ref")

	// Arm only for references that exist, so the confirmation dialog never
	// points at nothing.
	if _, err := s.svc.Get(r.Context(), ref); err != nil {
		writeError(w, r, err)
		return
	}

	s.session.RequestDelete(ref)
	writeJSON(w, http.StatusOK, deleteStateResponse{PendingDelete: ref})
}

func (s *Server) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	ref, ok := s.session.TakePendingDelete()
	if !ok {
		// Confirm without a pending request is a no-op.
		writeJSON(w, http.StatusOK, deleteStateResponse{})
		return
	}

	deleted, err := s.svc.Delete(r.Context(), ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteStateResponse{Deleted: deleted})
}

func (s *Server) handleCancelDelete(w http.ResponseWriter, r *http.Request) {
	s.session.CancelDelete()
	writeJSON(w, http.StatusOK, deleteStateResponse{})
}
