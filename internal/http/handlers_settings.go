package http

import (
	"net/http"

	"toya/internal/settings"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Settings())
}

type updateSettingsRequest struct {
	SchoolName     *string `json:"school_name"`
	SchoolAddress  *string `json:"school_address"`
	SchoolPhone    *string `json:"school_phone"`
	SchoolEmail    *string `json:"school_email"`
	SchoolMotto    *string `json:"school_motto"`
	LogoPath       *string `json:"school_logo"`
	CurrencySymbol *string `json:"currency_symbol"`
	CashierPIN     *string `json:"cashier_pin"`
	CashierMode    *bool   `json:"is_cashier_mode"`
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	updated := s.session.Settings().Apply(settings.Patch{
		SchoolName:     req.SchoolName,
		SchoolAddress:  req.SchoolAddress,
		SchoolPhone:    req.SchoolPhone,
		SchoolEmail:    req.SchoolEmail,
		SchoolMotto:    req.SchoolMotto,
		LogoPath:       req.LogoPath,
		CurrencySymbol: req.CurrencySymbol,
		CashierPIN:     req.CashierPIN,
		CashierMode:    req.CashierMode,
	})

	if err := s.store.SaveSettings(r.Context(), updated.Pairs()); err != nil {
		writeError(w, r, err)
		return
	}
	s.session.SetSettings(updated)

	writeJSON(w, http.StatusOK, updated)
}

type verifyPINRequest struct {
	PIN string `json:"pin"`
}

type verifyPINResponse struct {
	Unlocked bool `json:"unlocked"`
}

func (s *Server) handleVerifyPIN(w http.ResponseWriter, r *http.Request) {
	var req verifyPINRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if !s.session.UnlockCashier(req.PIN) {
		writeJSON(w, http.StatusForbidden, verifyPINResponse{Unlocked: false})
		return
	}
	writeJSON(w, http.StatusOK, verifyPINResponse{Unlocked: true})
}

func (s *Server) handleLockCashier(w http.ResponseWriter, r *http.Request) {
	s.session.LockCashier()
	writeJSON(w, http.StatusOK, verifyPINResponse{Unlocked: false})
}
