package httpserver

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/holiman/uint256"

	"github.com/razah7-lab/cairo-erc-2981/interfaces"
	"github.com/razah7-lab/cairo-erc-2981/metrics"
)

// maxBodySize is the maximum allowed request body size (1MB).
const maxBodySize = 1024 * 1024

// Handler translates the JSON API onto a registry service. Every
// mutating request carries the caller principal in its body; the server
// performs no authentication beyond passing that principal through to
// the registry's own authorization checks.
type Handler struct {
	service interfaces.TokenRegistryService
	log     *slog.Logger
	metrics *metrics.MetricsServer
}

// NewHandler creates an HTTP request handler around service.
func NewHandler(service interfaces.TokenRegistryService, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

type callerRequest struct {
	Caller string `json:"caller"`
}

type approveRequest struct {
	Caller string `json:"caller"`
	To     string `json:"to"`
}

type operatorRequest struct {
	Caller   string `json:"caller"`
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

type transferRequest struct {
	Caller string `json:"caller"`
	From   string `json:"from"`
	To     string `json:"to"`
	Safe   bool   `json:"safe"`
	Data   string `json:"data,omitempty"` // base64
}

type mintRequest struct {
	Caller string `json:"caller"`
	To     string `json:"to"`
	Safe   bool   `json:"safe"`
	Data   string `json:"data,omitempty"` // base64
}

type royaltyRequest struct {
	Caller      string `json:"caller"`
	Receiver    string `json:"receiver"`
	Numerator   string `json:"numerator"`
	Denominator string `json:"denominator"`
}

type ownershipRequest struct {
	Caller   string `json:"caller"`
	NewOwner string `json:"new_owner,omitempty"`
}

type restoreRequest struct {
	ContentID string `json:"content_id"`
}

type royaltyConfigResponse struct {
	Receiver    string `json:"receiver"`
	Numerator   string `json:"numerator,omitempty"`
	Denominator string `json:"denominator,omitempty"`
}

// HandleSupports reports whether the instance declares a capability.
//
// URL format: GET /api/v1/capabilities/{capability_id}
func (h *Handler) HandleSupports(w http.ResponseWriter, r *http.Request) {
	capID, err := interfaces.NewCapabilityIDFromHex(chi.URLParam(r, "capability_id"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid capability id: %v", err), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, map[string]any{
		"capability_id": capID.String(),
		"supported":     h.service.Supports(capID),
	})
}

// HandleRegisterCapability declares an additional capability. Owner
// only.
//
// URL format: POST /api/v1/capabilities/{capability_id}/register
func (h *Handler) HandleRegisterCapability(w http.ResponseWriter, r *http.Request) {
	capID, err := interfaces.NewCapabilityIDFromHex(chi.URLParam(r, "capability_id"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid capability id: %v", err), http.StatusBadRequest)
		return
	}

	var req callerRequest
	caller, ok := h.decodeCaller(w, r, &req, &req.Caller)
	if !ok {
		return
	}

	h.finish(w, "register_capability", func() error { return h.service.RegisterCapability(caller, capID) })
}

// HandleDeregisterCapability withdraws a declared capability. Owner
// only.
//
// URL format: POST /api/v1/capabilities/{capability_id}/deregister
func (h *Handler) HandleDeregisterCapability(w http.ResponseWriter, r *http.Request) {
	capID, err := interfaces.NewCapabilityIDFromHex(chi.URLParam(r, "capability_id"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid capability id: %v", err), http.StatusBadRequest)
		return
	}

	var req callerRequest
	caller, ok := h.decodeCaller(w, r, &req, &req.Caller)
	if !ok {
		return
	}

	h.finish(w, "deregister_capability", func() error { return h.service.DeregisterCapability(caller, capID) })
}

// HandleOwner returns the instance's privileged principal.
//
// URL format: GET /api/v1/owner
func (h *Handler) HandleOwner(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]any{"owner": h.service.Owner().String()})
}

// HandleTransferOwnership hands the instance to a new owner.
//
// URL format: POST /api/v1/owner/transfer
func (h *Handler) HandleTransferOwnership(w http.ResponseWriter, r *http.Request) {
	var req ownershipRequest
	caller, ok := h.decodeCaller(w, r, &req, &req.Caller)
	if !ok {
		return
	}

	newOwner, err := interfaces.NewAddressFromHex(req.NewOwner)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid new owner: %v", err), http.StatusBadRequest)
		return
	}

	h.finish(w, "transfer_ownership", func() error { return h.service.TransferOwnership(caller, newOwner) })
}

// HandleRenounceOwnership clears the owner, permanently disabling every
// privileged operation.
//
// URL format: POST /api/v1/owner/renounce
func (h *Handler) HandleRenounceOwnership(w http.ResponseWriter, r *http.Request) {
	var req callerRequest
	caller, ok := h.decodeCaller(w, r, &req, &req.Caller)
	if !ok {
		return
	}

	h.finish(w, "renounce_ownership", func() error { return h.service.RenounceOwnership(caller) })
}

// HandleBalanceOf returns the number of tokens held by an account.
//
// URL format: GET /api/v1/accounts/{account}/balance
func (h *Handler) HandleBalanceOf(w http.ResponseWriter, r *http.Request) {
	account, err := interfaces.NewAddressFromHex(chi.URLParam(r, "account"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid account: %v", err), http.StatusBadRequest)
		return
	}

	start := time.Now()
	balance, err := h.service.BalanceOf(account)
	h.record("balance_of", start, err)
	if err != nil {
		h.writeError(w, "balance_of", err)
		return
	}

	h.writeJSON(w, map[string]any{
		"account": account.String(),
		"balance": balance.Dec(),
	})
}

// HandleOwnerOf returns the holder of a token.
//
// URL format: GET /api/v1/tokens/{token_id}/owner
func (h *Handler) HandleOwnerOf(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenIDParam(w, r)
	if !ok {
		return
	}

	start := time.Now()
	holder, err := h.service.OwnerOf(tokenID)
	h.record("owner_of", start, err)
	if err != nil {
		h.writeError(w, "owner_of", err)
		return
	}

	h.writeJSON(w, map[string]any{
		"token_id": tokenID.String(),
		"owner":    holder.String(),
	})
}

// HandleGetApproved returns the approved address for a token.
//
// URL format: GET /api/v1/tokens/{token_id}/approved
func (h *Handler) HandleGetApproved(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenIDParam(w, r)
	if !ok {
		return
	}

	start := time.Now()
	approved, err := h.service.GetApproved(tokenID)
	h.record("get_approved", start, err)
	if err != nil {
		h.writeError(w, "get_approved", err)
		return
	}

	h.writeJSON(w, map[string]any{
		"token_id": tokenID.String(),
		"approved": approved.String(),
	})
}

// HandleIsApprovedForAll reports whether an operator grant is in place.
//
// URL format: GET /api/v1/accounts/{owner}/operators/{operator}
func (h *Handler) HandleIsApprovedForAll(w http.ResponseWriter, r *http.Request) {
	owner, err := interfaces.NewAddressFromHex(chi.URLParam(r, "owner"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid owner: %v", err), http.StatusBadRequest)
		return
	}
	operator, err := interfaces.NewAddressFromHex(chi.URLParam(r, "operator"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid operator: %v", err), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, map[string]any{
		"approved": h.service.IsApprovedForAll(owner, operator),
	})
}

// HandleApprove grants a single-token approval.
//
// URL format: POST /api/v1/tokens/{token_id}/approve
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenIDParam(w, r)
	if !ok {
		return
	}

	var req approveRequest
	caller, ok := h.decodeCaller(w, r, &req, &req.Caller)
	if !ok {
		return
	}

	// The zero address is a valid approval target: it clears the grant.
	to := interfaces.ZeroAddress
	if req.To != "" {
		var err error
		to, err = interfaces.NewAddressFromHex(req.To)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid approval target: %v", err), http.StatusBadRequest)
			return
		}
	}

	h.finish(w, "approve", func() error { return h.service.Approve(caller, to, tokenID) })
}

// HandleSetApprovalForAll records or revokes an operator grant.
//
// URL format: POST /api/v1/operators
func (h *Handler) HandleSetApprovalForAll(w http.ResponseWriter, r *http.Request) {
	var req operatorRequest
	caller, ok := h.decodeCaller(w, r, &req, &req.Caller)
	if !ok {
		return
	}

	operator, err := interfaces.NewAddressFromHex(req.Operator)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid operator: %v", err), http.StatusBadRequest)
		return
	}

	h.finish(w, "set_approval_for_all", func() error { return h.service.SetApprovalForAll(caller, operator, req.Approved) })
}

// HandleTransfer moves a token between accounts, optionally with the
// receiver-acceptance check.
//
// URL format: POST /api/v1/tokens/{token_id}/transfer
func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenIDParam(w, r)
	if !ok {
		return
	}

	var req transferRequest
	caller, ok := h.decodeCaller(w, r, &req, &req.Caller)
	if !ok {
		return
	}

	from, err := interfaces.NewAddressFromHex(req.From)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid sender: %v", err), http.StatusBadRequest)
		return
	}
	to, err := interfaces.NewAddressFromHex(req.To)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid receiver: %v", err), http.StatusBadRequest)
		return
	}

	data, err := decodeData(req.Data)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid data payload: %v", err), http.StatusBadRequest)
		return
	}

	if req.Safe {
		h.finish(w, "safe_transfer_from", func() error { return h.service.SafeTransferFrom(caller, from, to, tokenID, data) })
		return
	}
	h.finish(w, "transfer_from", func() error { return h.service.TransferFrom(caller, from, to, tokenID) })
}

// HandleMint creates a token. Owner only.
//
// URL format: POST /api/v1/tokens/{token_id}/mint
func (h *Handler) HandleMint(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenIDParam(w, r)
	if !ok {
		return
	}

	var req mintRequest
	caller, ok := h.decodeCaller(w, r, &req, &req.Caller)
	if !ok {
		return
	}

	to, err := interfaces.NewAddressFromHex(req.To)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid receiver: %v", err), http.StatusBadRequest)
		return
	}

	data, err := decodeData(req.Data)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid data payload: %v", err), http.StatusBadRequest)
		return
	}

	if req.Safe {
		h.finish(w, "safe_mint", func() error { return h.service.SafeMint(caller, to, tokenID, data) })
		return
	}
	h.finish(w, "mint", func() error { return h.service.Mint(caller, to, tokenID) })
}

// HandleBurn destroys a token. Owner only.
//
// URL format: POST /api/v1/tokens/{token_id}/burn
func (h *Handler) HandleBurn(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenIDParam(w, r)
	if !ok {
		return
	}

	var req callerRequest
	caller, ok := h.decodeCaller(w, r, &req, &req.Caller)
	if !ok {
		return
	}

	h.finish(w, "burn", func() error { return h.service.Burn(caller, tokenID) })
}

// HandleDefaultRoyalty returns the fallback royalty configuration.
//
// URL format: GET /api/v1/royalty/default
func (h *Handler) HandleDefaultRoyalty(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, configResponse(h.service.DefaultRoyalty()))
}

// HandleSetDefaultRoyalty overwrites the fallback royalty. Owner only.
//
// URL format: POST /api/v1/royalty/default
func (h *Handler) HandleSetDefaultRoyalty(w http.ResponseWriter, r *http.Request) {
	var req royaltyRequest
	caller, ok := h.decodeCaller(w, r, &req, &req.Caller)
	if !ok {
		return
	}

	cfg, err := parseRoyaltyConfig(req)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid royalty config: %v", err), http.StatusBadRequest)
		return
	}

	h.finish(w, "set_default_royalty", func() error { return h.service.SetDefaultRoyalty(caller, cfg) })
}

// HandleRoyaltyInfo resolves the royalty receiver and amount for a sale.
//
// URL format: GET /api/v1/tokens/{token_id}/royalty?sale_price=<amount>
func (h *Handler) HandleRoyaltyInfo(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenIDParam(w, r)
	if !ok {
		return
	}

	salePrice, err := parseAmount(r.URL.Query().Get("sale_price"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid sale price: %v", err), http.StatusBadRequest)
		return
	}

	start := time.Now()
	receiver, amount, err := h.service.RoyaltyInfo(tokenID, salePrice)
	h.record("royalty_info", start, err)
	if err != nil {
		h.writeError(w, "royalty_info", err)
		return
	}

	h.writeJSON(w, map[string]any{
		"token_id": tokenID.String(),
		"receiver": receiver.String(),
		"amount":   amount.Dec(),
	})
}

// HandleTokenRoyalty returns the royalty override for a token; the zero
// receiver means no override is set.
//
// URL format: GET /api/v1/tokens/{token_id}/royalty/config
func (h *Handler) HandleTokenRoyalty(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenIDParam(w, r)
	if !ok {
		return
	}

	h.writeJSON(w, configResponse(h.service.TokenRoyalty(tokenID)))
}

// HandleSetTokenRoyalty overwrites a token's royalty override. Owner
// only.
//
// URL format: POST /api/v1/tokens/{token_id}/royalty
func (h *Handler) HandleSetTokenRoyalty(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenIDParam(w, r)
	if !ok {
		return
	}

	var req royaltyRequest
	caller, ok := h.decodeCaller(w, r, &req, &req.Caller)
	if !ok {
		return
	}

	cfg, err := parseRoyaltyConfig(req)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid royalty config: %v", err), http.StatusBadRequest)
		return
	}

	h.finish(w, "set_token_royalty", func() error { return h.service.SetTokenRoyalty(caller, tokenID, cfg) })
}

// HandleResetTokenRoyalty removes a token's royalty override. Owner
// only.
//
// URL format: POST /api/v1/tokens/{token_id}/royalty/reset
func (h *Handler) HandleResetTokenRoyalty(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenIDParam(w, r)
	if !ok {
		return
	}

	var req callerRequest
	caller, ok := h.decodeCaller(w, r, &req, &req.Caller)
	if !ok {
		return
	}

	h.finish(w, "reset_token_royalty", func() error { return h.service.ResetTokenRoyalty(caller, tokenID) })
}

// HandleSnapshot persists the instance state and returns the snapshot's
// content ID.
//
// URL format: POST /api/v1/admin/snapshot
func (h *Handler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := h.service.Snapshot(r.Context())
	h.record("snapshot", start, err)
	if err != nil {
		h.writeError(w, "snapshot", err)
		return
	}

	h.writeJSON(w, map[string]any{"content_id": id.String()})
}

// HandleRestore replaces the instance state from a stored snapshot.
//
// URL format: POST /api/v1/admin/restore
func (h *Handler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	var req restoreRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	id, err := interfaces.NewContentIDFromHex(req.ContentID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid content id: %v", err), http.StatusBadRequest)
		return
	}

	h.finish(w, "restore", func() error { return h.service.Restore(r.Context(), id) })
}

// HandleFlushEvents exports the event log and returns its content ID.
//
// URL format: POST /api/v1/admin/flush-events
func (h *Handler) HandleFlushEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := h.service.FlushEvents(r.Context())
	h.record("flush_events", start, err)
	if err != nil {
		h.writeError(w, "flush_events", err)
		return
	}

	h.writeJSON(w, map[string]any{"content_id": id.String()})
}

func (h *Handler) tokenIDParam(w http.ResponseWriter, r *http.Request) (interfaces.TokenID, bool) {
	tokenID, err := interfaces.NewTokenIDFromHex(chi.URLParam(r, "token_id"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid token id: %v", err), http.StatusBadRequest)
		return interfaces.TokenID{}, false
	}
	return tokenID, true
}

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

// decodeCaller decodes the request body into dst and parses the caller
// field it points into. An absent caller resolves to the zero address so
// the registry's own caller checks decide what that means.
func (h *Handler) decodeCaller(w http.ResponseWriter, r *http.Request, dst any, rawCaller *string) (interfaces.Address, bool) {
	if !h.decodeBody(w, r, dst) {
		return interfaces.ZeroAddress, false
	}

	if *rawCaller == "" {
		return interfaces.ZeroAddress, true
	}

	caller, err := interfaces.NewAddressFromHex(*rawCaller)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid caller: %v", err), http.StatusBadRequest)
		return interfaces.ZeroAddress, false
	}
	return caller, true
}

// finish runs and times op, records it and writes either the error
// mapping or a JSON ok.
func (h *Handler) finish(w http.ResponseWriter, op string, fn func() error) {
	start := time.Now()
	err := fn()
	h.record(op, start, err)
	if err != nil {
		h.writeError(w, op, err)
		return
	}
	h.writeJSON(w, map[string]any{"status": "ok"})
}

func (h *Handler) record(op string, start time.Time, err error) {
	if h.metrics != nil {
		h.metrics.RecordOperation(op, time.Since(start), err)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error("Failed to encode response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("Request failed", "err", err, slog.String("operation", op))
	} else {
		h.log.Debug("Request rejected", "err", err, slog.String("operation", op))
	}
	http.Error(w, err.Error(), status)
}

// statusForError maps the registry's error taxonomy onto HTTP status
// codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, interfaces.ErrInvalidTokenID),
		errors.Is(err, interfaces.ErrInvalidAccount),
		errors.Is(err, interfaces.ErrInvalidReceiver),
		errors.Is(err, interfaces.ErrWrongSender),
		errors.Is(err, interfaces.ErrApprovalToOwner),
		errors.Is(err, interfaces.ErrSelfApproval),
		errors.Is(err, interfaces.ErrInvalidFeeDenominator),
		errors.Is(err, interfaces.ErrInvalidFeeRate),
		errors.Is(err, interfaces.ErrSelfDeregister):
		return http.StatusBadRequest
	case errors.Is(err, interfaces.ErrUnauthorized),
		errors.Is(err, interfaces.ErrNotOwner),
		errors.Is(err, interfaces.ErrCallerIsZero):
		return http.StatusForbidden
	case errors.Is(err, interfaces.ErrContentNotFound):
		return http.StatusNotFound
	case errors.Is(err, interfaces.ErrAlreadyMinted):
		return http.StatusConflict
	case errors.Is(err, interfaces.ErrSafeTransferFailed),
		errors.Is(err, interfaces.ErrSafeMintFailed),
		errors.Is(err, interfaces.ErrFeeOverflow),
		errors.Is(err, interfaces.ErrNotInitialized):
		return http.StatusUnprocessableEntity
	case errors.Is(err, interfaces.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func configResponse(cfg interfaces.RoyaltyConfig) royaltyConfigResponse {
	out := royaltyConfigResponse{Receiver: cfg.Receiver.String()}
	if cfg.Numerator != nil {
		out.Numerator = cfg.Numerator.Dec()
	}
	if cfg.Denominator != nil {
		out.Denominator = cfg.Denominator.Dec()
	}
	return out
}

func parseRoyaltyConfig(req royaltyRequest) (interfaces.RoyaltyConfig, error) {
	receiver, err := interfaces.NewAddressFromHex(req.Receiver)
	if err != nil {
		return interfaces.RoyaltyConfig{}, err
	}
	numerator, err := parseAmount(req.Numerator)
	if err != nil {
		return interfaces.RoyaltyConfig{}, fmt.Errorf("invalid numerator: %w", err)
	}
	denominator, err := parseAmount(req.Denominator)
	if err != nil {
		return interfaces.RoyaltyConfig{}, fmt.Errorf("invalid denominator: %w", err)
	}

	return interfaces.RoyaltyConfig{
		Receiver:    receiver,
		Numerator:   numerator,
		Denominator: denominator,
	}, nil
}

// parseAmount accepts 0x-prefixed hex or plain decimal 256-bit amounts.
func parseAmount(raw string) (*uint256.Int, error) {
	if raw == "" {
		return nil, errors.New("missing amount")
	}
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		return uint256.FromHex(raw)
	}
	return uint256.FromDecimal(raw)
}

func decodeData(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(raw)
}
