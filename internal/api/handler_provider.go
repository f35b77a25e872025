package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yeetcasino/aggregator/internal/ledger"
	"github.com/yeetcasino/aggregator/internal/services/processing"
	"github.com/yeetcasino/aggregator/internal/services/reporting"
)

// ProcessingService is the ledger mutation surface the handlers need.
type ProcessingService interface {
	Process(ctx context.Context, batch []ledger.Entry) (*processing.Result, error)
	GetBalance(ctx context.Context, userID string) (int64, error)
}

// ReportingService is the read-only RTP surface.
type ReportingService interface {
	RTP(ctx context.Context, q reporting.Query) (*reporting.Report, error)
}

// HandlerProvider wraps the ledger services and exposes HTTP handlers.
type HandlerProvider struct {
	proc    ProcessingService
	reports ReportingService
}

// NewHandler returns a new handler provider.
func NewHandler(proc ProcessingService, reports ReportingService) *HandlerProvider {
	return &HandlerProvider{proc: proc, reports: reports}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// --- Handlers ---

// insufficientFundsCode is the aggregator protocol's error code for a
// rejected bet.
const insufficientFundsCode = 100

// ProcessHandler handles POST /aggregator/takehome/process.
func (h *HandlerProvider) ProcessHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB cap
	defer r.Body.Close()

	var req processRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "empty body")
			return
		}

		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	err = validateProcessRequest(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// No actions: balance lookup only.
	if len(req.Actions) == 0 {
		balance, err := h.proc.GetBalance(r.Context(), req.UserID)
		if err != nil {
			slog.Error("balance lookup failed", "user_id", req.UserID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, balanceResponse{Balance: balance})
		return
	}

	result, err := h.proc.Process(r.Context(), mapActions(&req))
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInsufficientFunds):
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"code":    insufficientFundsCode,
				"message": "Player has not enough funds to process an action",
			})
			return
		case errors.Is(err, ledger.ErrMixedUsers), errors.Is(err, ledger.ErrEmptyBatch):
			writeError(w, http.StatusBadRequest, err.Error())
			return
		default:
			slog.Error("process batch failed", "user_id", req.UserID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	resp := processResponse{
		Transactions: make([]transactionResponse, 0, len(result.Entries)),
		Balance:      result.Balance,
	}
	if req.GameID != nil {
		resp.GameID = *req.GameID
	}

	for _, e := range result.Entries {
		resp.Transactions = append(resp.Transactions, transactionResponse{
			ActionID: e.ActionID,
			TxID:     e.ID,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// RTPHandler handles GET /aggregator/takehome/rtp, optionally scoped to
// one user via the {userID} route param.
func (h *HandlerProvider) RTPHandler(w http.ResponseWriter, r *http.Request) {
	q, err := parseRTPQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q.UserID = chi.URLParam(r, "userID")

	report, err := h.reports.RTP(r.Context(), q)
	if err != nil {
		slog.Error("rtp report failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := rtpResponse{
		Data: make([]userRTPResponse, 0, len(report.Data)),
		GlobalStats: globalStatsResponse{
			TotalRounds:      report.Global.TotalRounds,
			TotalBet:         report.Global.TotalBet,
			TotalWin:         report.Global.TotalWin,
			TotalRTP:         report.Global.TotalRTP,
			TotalRollbackBet: report.Global.TotalRollbackBet,
			TotalRollbackWin: report.Global.TotalRollbackWin,
		},
	}

	for _, u := range report.Data {
		resp.Data = append(resp.Data, userRTPResponse{
			UserID:   u.UserID,
			Currency: u.Currency,
			Rounds:   u.Rounds,
			TotalBet: u.TotalBet,
			TotalWin: u.TotalWin,
			RTP:      u.RTP,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
