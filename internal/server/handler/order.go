package handler

import (
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
)

// Order transition actions accepted by POST /api/orders/{id}/transitions.
const (
	ActionSubmitDetails  = "submit_details"
	ActionConfirmPayment = "confirm_payment"
	ActionConfirmReceipt = "confirm_receipt"
)

// OrderHandler serves the post-auction order workflow.
type OrderHandler struct {
	orders OrderService
	logger *slog.Logger
}

// NewOrderHandler creates an OrderHandler with the given service and logger.
func NewOrderHandler(orders OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

type listOrdersResponse struct {
	Orders []orderView `json:"orders"`
}

type transitionRequest struct {
	Action          string `json:"action"`
	ShippingAddress string `json:"shipping_address,omitempty"`
	InvoiceNote     string `json:"invoice_note,omitempty"`
	ShippingCode    string `json:"shipping_code,omitempty"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

type ratingRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// ListOrders returns orders where the caller is seller or winner.
// GET /api/orders?limit=50&offset=0
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	orders, err := h.orders.ListOrders(r.Context(), uid, parseListOpts(r))
	if err != nil {
		writeServiceError(w, r, h.logger, "list orders", err)
		return
	}
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, newOrderView(o))
	}
	writeJSON(w, http.StatusOK, listOrdersResponse{Orders: views})
}

// GetOrder returns one order visible to the caller.
// GET /api/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := h.target(w, r)
	if !ok {
		return
	}
	o, err := h.orders.GetOrder(r.Context(), id, uid)
	if err != nil {
		writeServiceError(w, r, h.logger, "get order", err)
		return
	}
	writeJSON(w, http.StatusOK, newOrderView(o))
}

// Transition advances the order one step.
// POST /api/orders/{id}/transitions
func (h *OrderHandler) Transition(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := h.target(w, r)
	if !ok {
		return
	}
	var req transitionRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		o   domain.Order
		err error
	)
	switch req.Action {
	case ActionSubmitDetails:
		o, err = h.orders.SubmitBuyerDetails(r.Context(), id, uid, req.ShippingAddress, req.InvoiceNote)
	case ActionConfirmPayment:
		o, err = h.orders.ConfirmPayment(r.Context(), id, uid, req.ShippingCode)
	case ActionConfirmReceipt:
		o, err = h.orders.ConfirmReceipt(r.Context(), id, uid)
	default:
		writeError(w, http.StatusBadRequest, "unknown action "+req.Action)
		return
	}
	if err != nil {
		writeServiceError(w, r, h.logger, "order "+req.Action, err)
		return
	}
	writeJSON(w, http.StatusOK, newOrderView(o))
}

// Cancel cancels an unfinished order.
// POST /api/orders/{id}/cancel
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := h.target(w, r)
	if !ok {
		return
	}
	var req cancelRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	o, err := h.orders.Cancel(r.Context(), id, uid, req.Reason)
	if err != nil {
		writeServiceError(w, r, h.logger, "cancel order", err)
		return
	}
	writeJSON(w, http.StatusOK, newOrderView(o))
}

// Rate records the caller's rating of the counterparty.
// POST /api/orders/{id}/ratings
func (h *OrderHandler) Rate(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := h.target(w, r)
	if !ok {
		return
	}
	var req ratingRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.orders.LeaveRating(r.Context(), id, uid, req.Score, req.Comment); err != nil {
		writeServiceError(w, r, h.logger, "rate order", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"order_id": id,
		"score":    req.Score,
	})
}

// target resolves the caller and the order ID, writing the error reply when
// either is missing.
func (h *OrderHandler) target(w http.ResponseWriter, r *http.Request) (userID, orderID int64, ok bool) {
	userID, ok = requireUser(w, r)
	if !ok {
		return 0, 0, false
	}
	orderID, ok = pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return 0, 0, false
	}
	return userID, orderID, true
}
