package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// AuctionHandler serves auction reads and bid submission.
type AuctionHandler struct {
	auctions AuctionService
	logger   *slog.Logger
}

// NewAuctionHandler creates an AuctionHandler.
func NewAuctionHandler(auctions AuctionService, logger *slog.Logger) *AuctionHandler {
	return &AuctionHandler{auctions: auctions, logger: logger}
}

type placeBidRequest struct {
	Amount int64 `json:"amount"`
}

type placeBidResponse struct {
	Auction        auctionView `json:"auction"`
	Bid            bidView     `json:"bid"`
	ProxyTriggered bool        `json:"proxy_triggered"`
	Extended       bool        `json:"extended"`
}

type proxyBidRequest struct {
	MaxAmount int64 `json:"max_amount"`
}

type proxyBidResponse struct {
	Auction    auctionView    `json:"auction"`
	Commitment commitmentView `json:"commitment"`
	Triggered  bool           `json:"triggered"`
	Extended   bool           `json:"extended"`
}

type buyNowResponse struct {
	Auction auctionView `json:"auction"`
	Order   orderView   `json:"order"`
}

type rejectBidderRequest struct {
	BidderID int64  `json:"bidder_id"`
	Reason   string `json:"reason"`
}

type bidHistoryResponse struct {
	AuctionID int64     `json:"auction_id"`
	Bids      []bidView `json:"bids"`
}

// GetAuction returns one auction.
// GET /api/auctions/{id}
func (h *AuctionHandler) GetAuction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid auction id")
		return
	}
	a, err := h.auctions.GetAuction(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, "get auction", err)
		return
	}
	writeJSON(w, http.StatusOK, newAuctionView(a))
}

// BidHistory returns the highest bids first.
// GET /api/auctions/{id}/bids?limit=20
func (h *AuctionHandler) BidHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid auction id")
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	bids, err := h.auctions.BidHistory(r.Context(), id, limit)
	if err != nil {
		writeServiceError(w, r, h.logger, "bid history", err)
		return
	}
	views := make([]bidView, 0, len(bids))
	for _, b := range bids {
		views = append(views, newBidView(b))
	}
	writeJSON(w, http.StatusOK, bidHistoryResponse{AuctionID: id, Bids: views})
}

// PlaceBid submits a manual bid for the caller.
// POST /api/auctions/{id}/bids
func (h *AuctionHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid auction id")
		return
	}
	var req placeBidRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.auctions.PlaceManualBid(r.Context(), id, uid, req.Amount)
	if err != nil {
		writeServiceError(w, r, h.logger, "place bid", err)
		return
	}
	writeJSON(w, http.StatusCreated, placeBidResponse{
		Auction:        newAuctionView(res.Auction),
		Bid:            newBidView(res.Bid),
		ProxyTriggered: res.ProxyTriggered,
		Extended:       res.Extended,
	})
}

// RegisterProxyBid creates or raises the caller's proxy ceiling.
// POST /api/auctions/{id}/proxy-bids
func (h *AuctionHandler) RegisterProxyBid(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid auction id")
		return
	}
	var req proxyBidRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.auctions.RegisterProxyBid(r.Context(), id, uid, req.MaxAmount)
	if err != nil {
		writeServiceError(w, r, h.logger, "register proxy bid", err)
		return
	}
	c := res.Commitment
	writeJSON(w, http.StatusCreated, proxyBidResponse{
		Auction: newAuctionView(res.Auction),
		Commitment: commitmentView{
			AuctionID: c.AuctionID,
			BidderID:  c.BidderID,
			MaxAmount: c.MaxAmount,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		},
		Triggered: res.Triggered,
		Extended:  res.Extended,
	})
}

// BuyNow ends the auction at its buy-now price in the caller's favour.
// POST /api/auctions/{id}/buy-now
func (h *AuctionHandler) BuyNow(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid auction id")
		return
	}

	res, err := h.auctions.BuyNow(r.Context(), id, uid)
	if err != nil {
		writeServiceError(w, r, h.logger, "buy now", err)
		return
	}
	writeJSON(w, http.StatusCreated, buyNowResponse{
		Auction: newAuctionView(res.Auction),
		Order:   newOrderView(res.Order),
	})
}

// RejectBidder lets the seller ban a bidder and drop their bids.
// POST /api/auctions/{id}/rejections
func (h *AuctionHandler) RejectBidder(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid auction id")
		return
	}
	var req rejectBidderRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.BidderID <= 0 {
		writeError(w, http.StatusBadRequest, "bidder_id is required")
		return
	}

	a, err := h.auctions.RejectBidder(r.Context(), id, uid, req.BidderID, strings.TrimSpace(req.Reason))
	if err != nil {
		writeServiceError(w, r, h.logger, "reject bidder", err)
		return
	}
	writeJSON(w, http.StatusOK, newAuctionView(a))
}
