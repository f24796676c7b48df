package ledger

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
	"github.com/ledgerline/ledgerline/internal/shared"
)

// Handler manages transaction endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers transaction and cheque routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/transactions", h.recordTransaction)
	r.Get("/transactions", h.listTransactions)
	r.Get("/transactions/{ref}", h.getTransaction)
	r.Delete("/transactions/{ref}", h.deleteTransaction)
	r.Post("/transactions/{ref}/payments", h.addPayment)
	r.Get("/transactions/{ref}/payments", h.listPayments)
	r.Get("/cheques", h.listCheques)
	r.Post("/cheques/{id}/clear", h.clearCheque)
}

func idempotencyKey(r *http.Request) string {
	return r.Header.Get("Idempotency-Key")
}

func (h *Handler) recordTransaction(w http.ResponseWriter, r *http.Request) {
	var req recordTransactionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	txn, err := h.service.RecordTransaction(r.Context(), req.toInput(), req.toRiders(), idempotencyKey(r))
	if err != nil {
		h.logger.Error("record transaction", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toTransactionResponse(txn))
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.service.ListTransactions(r.Context(), limit)
	if err != nil {
		h.logger.Error("list transactions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entries)
}

func (h *Handler) getTransaction(w http.ResponseWriter, r *http.Request) {
	ref, err := shared.ParseTransactionRef(chi.URLParam(r, "ref"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	txn, err := h.service.GetTransaction(r.Context(), ref)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toTransactionResponse(txn))
}

func (h *Handler) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	ref, err := shared.ParseTransactionRef(chi.URLParam(r, "ref"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.DeleteTransaction(r.Context(), ref, idempotencyKey(r)); err != nil {
		h.logger.Error("delete transaction", slog.Any("error", err), slog.String("txn_ref", string(ref)))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addPayment(w http.ResponseWriter, r *http.Request) {
	ref, err := shared.ParseTransactionRef(chi.URLParam(r, "ref"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req addPaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	res, err := h.service.AddPayment(r.Context(), ref, req.Amount, req.Method, req.Notes, idempotencyKey(r))
	if err != nil {
		h.logger.Error("add payment", slog.Any("error", err), slog.String("txn_ref", string(ref)))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toPaymentResponse(res))
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	ref, err := shared.ParseTransactionRef(chi.URLParam(r, "ref"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	payments, err := h.service.ListPayments(r.Context(), ref)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, payments)
}

func (h *Handler) listCheques(w http.ResponseWriter, r *http.Request) {
	cheques, err := h.service.ListCheques(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cheques)
}

func (h *Handler) clearCheque(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ClearCheque(r.Context(), chi.URLParam(r, "id"), idempotencyKey(r))
	if err != nil {
		h.logger.Error("clear cheque", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	resp := clearChequeResponse{Cheque: res.Cheque, Totals: res.Totals}
	if res.Warning != nil {
		resp.Overpayment = true
		resp.Warning = res.Warning.Error()
	}
	httpx.JSON(w, http.StatusOK, resp)
}
