package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"cinemahub-billing/internal/domain"
	"cinemahub-billing/internal/domain/model"
	"cinemahub-billing/internal/infra/logging"
	"cinemahub-billing/internal/infra/payment"
	"cinemahub-billing/internal/usecase"
)

// Limit webhook payloads; gateway notifications are small.
const maxWebhookBody = 1 << 20

// SignatureHeader carries the gateway's HMAC over the raw webhook body.
const SignatureHeader = "X-Webhook-Signature"

type checkoutRequest struct {
	Amount json.Number `json:"amount"`
	// Status is a client-side hint carried by the original API shape; the
	// server always creates orders in PENDING.
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid amount"})
		return
	}

	userID := logging.UserID(ctx)
	pay, err := s.checkoutUC.Checkout(ctx, userID, amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		case errors.Is(err, domain.ErrAlreadyPremium):
			writeJSON(w, http.StatusConflict, map[string]string{"error": "you already have a premium subscription"})
		case errors.Is(err, domain.ErrInvalidArgument):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid amount"})
		case errors.Is(err, domain.ErrGateway):
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "payment gateway unavailable, try again"})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "checkout failed"})
		}
		return
	}

	// Pass the gateway confirmation payload through verbatim; the client
	// follows confirmation.confirmation_url.
	writeJSON(w, http.StatusOK, pay)
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable body"})
		return
	}

	if !payment.VerifyWebhookSignature(s.webhookSecret, body, r.Header.Get(SignatureHeader)) {
		s.log.Warn().Str("remote", r.RemoteAddr).Msg("webhook signature verification failed")
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "invalid signature"})
		return
	}

	var event usecase.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed payload"})
		return
	}

	if err := s.webhookUC.Handle(ctx, event); err != nil {
		// Nothing was committed; a 5xx makes the gateway redeliver.
		s.log.Error().Err(err).Str("event", event.Event).Msg("webhook handling failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "reconciliation failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}

	orders, total, err := s.orderUC.List(ctx, (page-1)*limit, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list orders"})
		return
	}
	if orders == nil {
		orders = []*model.Order{}
	}

	writeJSON(w, http.StatusOK, struct {
		Data  []*model.Order `json:"data"`
		Total int            `json:"total"`
		Page  int            `json:"page"`
		Limit int            `json:"limit"`
	}{Data: orders, Total: total, Page: page, Limit: limit})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := chi.URLParam(r, "id")
	deleted, err := s.orderUC.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete order"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": deleted})
}
