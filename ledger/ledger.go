// Package ledger implements the token ownership state machine: holder,
// balance and approval bookkeeping with authorization checks on every
// mutating operation.
package ledger

import (
	"fmt"
	"log/slog"

	"github.com/holiman/uint256"
	"github.com/razah7-lab/cairo-erc-2981/interfaces"
)

// operatorPair keys the operator-approval map. Operator grants are scoped
// to an owner and persist across transfers.
type operatorPair struct {
	owner    interfaces.Address
	operator interfaces.Address
}

// Ledger is the in-memory token ledger. It owns its maps exclusively;
// other components mutate them only through the exported operations,
// which is how the authorization checks stay unbypassable.
//
// The ledger itself is not safe for concurrent use. The registry facade
// serializes operations so each one runs to completion before the next.
type Ledger struct {
	holders   map[interfaces.TokenID]interfaces.Address
	balances  map[interfaces.Address]*uint256.Int
	approvals map[interfaces.TokenID]interfaces.Address
	operators map[operatorPair]bool

	acceptor interfaces.ReceiverAcceptor
	events   interfaces.EventSink
	log      *slog.Logger
}

// New creates an empty ledger. A nil acceptor accepts every receiver,
// matching the behavior of deployments that do not implement a receiver
// notification protocol. A nil event sink discards events.
func New(acceptor interfaces.ReceiverAcceptor, events interfaces.EventSink, log *slog.Logger) *Ledger {
	return &Ledger{
		holders:   make(map[interfaces.TokenID]interfaces.Address),
		balances:  make(map[interfaces.Address]*uint256.Int),
		approvals: make(map[interfaces.TokenID]interfaces.Address),
		operators: make(map[operatorPair]bool),
		acceptor:  acceptor,
		events:    events,
		log:       log,
	}
}

// BalanceOf returns the number of tokens held by account.
func (l *Ledger) BalanceOf(account interfaces.Address) (*uint256.Int, error) {
	if account.IsZero() {
		return nil, interfaces.ErrInvalidAccount
	}
	if bal, ok := l.balances[account]; ok {
		return bal.Clone(), nil
	}
	return uint256.NewInt(0), nil
}

// OwnerOf returns the holder of tokenID. A token is minted iff its holder
// is non-zero.
func (l *Ledger) OwnerOf(tokenID interfaces.TokenID) (interfaces.Address, error) {
	owner := l.holders[tokenID]
	if owner.IsZero() {
		return interfaces.ZeroAddress, fmt.Errorf("%w: %s", interfaces.ErrInvalidTokenID, tokenID)
	}
	return owner, nil
}

// GetApproved returns the approved address for tokenID, which may be the
// zero address when no approval is set.
func (l *Ledger) GetApproved(tokenID interfaces.TokenID) (interfaces.Address, error) {
	if _, err := l.OwnerOf(tokenID); err != nil {
		return interfaces.ZeroAddress, err
	}
	return l.approvals[tokenID], nil
}

// IsApprovedForAll reports whether operator may act on all of owner's
// tokens.
func (l *Ledger) IsApprovedForAll(owner, operator interfaces.Address) bool {
	return l.operators[operatorPair{owner: owner, operator: operator}]
}

// Approve grants to a single-token approval for tokenID. The caller must
// be the token's owner or an approved-for-all operator of the owner.
func (l *Ledger) Approve(caller, to interfaces.Address, tokenID interfaces.TokenID) error {
	owner, err := l.OwnerOf(tokenID)
	if err != nil {
		return err
	}
	if caller != owner && !l.IsApprovedForAll(owner, caller) {
		return interfaces.ErrUnauthorized
	}
	if to == owner {
		return interfaces.ErrApprovalToOwner
	}

	l.approvals[tokenID] = to
	l.emit(interfaces.ApprovalEvent{Owner: owner, Approved: to, TokenID: tokenID})
	return nil
}

// SetApprovalForAll records a blanket operator grant for the caller's own
// tokens. No ownership check is required since the flag only affects the
// caller's grants.
func (l *Ledger) SetApprovalForAll(caller, operator interfaces.Address, approved bool) error {
	if operator == caller {
		return interfaces.ErrSelfApproval
	}

	l.operators[operatorPair{owner: caller, operator: operator}] = approved
	l.emit(interfaces.ApprovalForAllEvent{Owner: caller, Operator: operator, Approved: approved})
	return nil
}

// TransferFrom moves tokenID from from to to. The caller must be the
// owner, an approved-for-all operator of the owner, or the token's
// approved address.
func (l *Ledger) TransferFrom(caller, from, to interfaces.Address, tokenID interfaces.TokenID) error {
	owner, err := l.validateTransfer(caller, from, to, tokenID)
	if err != nil {
		return err
	}
	l.applyTransfer(owner, to, tokenID)
	return nil
}

// SafeTransferFrom performs the same transfer as TransferFrom but first
// requires the receiver-acceptance check to pass. The check runs before
// any mutation so a rejection leaves no partial state.
func (l *Ledger) SafeTransferFrom(caller, from, to interfaces.Address, tokenID interfaces.TokenID, data []byte) error {
	owner, err := l.validateTransfer(caller, from, to, tokenID)
	if err != nil {
		return err
	}
	if !l.accepts(caller, from, to, tokenID, data) {
		return fmt.Errorf("%w: %s", interfaces.ErrSafeTransferFailed, to)
	}
	l.applyTransfer(owner, to, tokenID)
	return nil
}

// Mint creates tokenID with holder to. Privileged: callers are expected
// to be gated by the registry facade.
func (l *Ledger) Mint(to interfaces.Address, tokenID interfaces.TokenID) error {
	if err := l.validateMint(to, tokenID); err != nil {
		return err
	}
	l.applyMint(to, tokenID)
	return nil
}

// SafeMint creates tokenID with holder to, requiring the
// receiver-acceptance check to pass first.
func (l *Ledger) SafeMint(to interfaces.Address, tokenID interfaces.TokenID, data []byte) error {
	if err := l.validateMint(to, tokenID); err != nil {
		return err
	}
	if !l.accepts(interfaces.ZeroAddress, interfaces.ZeroAddress, to, tokenID, data) {
		return fmt.Errorf("%w: %s", interfaces.ErrSafeMintFailed, to)
	}
	l.applyMint(to, tokenID)
	return nil
}

// Burn destroys tokenID: approval cleared, balance decremented, holder
// zeroed. Privileged, like Mint.
func (l *Ledger) Burn(tokenID interfaces.TokenID) error {
	owner, err := l.OwnerOf(tokenID)
	if err != nil {
		return err
	}

	// Approval is cleared before balance and holder updates so event
	// ordering never shows a stale approval next to updated balances.
	delete(l.approvals, tokenID)
	l.decrementBalance(owner)
	delete(l.holders, tokenID)

	l.emit(interfaces.TransferEvent{From: owner, To: interfaces.ZeroAddress, TokenID: tokenID})
	l.log.Debug("token burned", slog.String("tokenID", tokenID.String()), slog.String("owner", owner.String()))
	return nil
}

// validateTransfer runs every check a transfer needs without mutating
// state. It returns the token's current owner.
func (l *Ledger) validateTransfer(caller, from, to interfaces.Address, tokenID interfaces.TokenID) (interfaces.Address, error) {
	owner, err := l.OwnerOf(tokenID)
	if err != nil {
		return interfaces.ZeroAddress, err
	}
	if !l.isApprovedOrOwner(caller, owner, tokenID) {
		return interfaces.ZeroAddress, interfaces.ErrUnauthorized
	}
	if to.IsZero() {
		return interfaces.ZeroAddress, interfaces.ErrInvalidReceiver
	}
	if from != owner {
		return interfaces.ZeroAddress, fmt.Errorf("%w: %s is held by %s", interfaces.ErrWrongSender, tokenID, owner)
	}
	return owner, nil
}

// applyTransfer commits a validated transfer. The validation above cannot
// fail here, so the operation is all-or-nothing.
func (l *Ledger) applyTransfer(owner, to interfaces.Address, tokenID interfaces.TokenID) {
	delete(l.approvals, tokenID)
	l.decrementBalance(owner)
	l.incrementBalance(to)
	l.holders[tokenID] = to

	l.emit(interfaces.TransferEvent{From: owner, To: to, TokenID: tokenID})
	l.log.Debug("token transferred",
		slog.String("tokenID", tokenID.String()),
		slog.String("from", owner.String()),
		slog.String("to", to.String()))
}

func (l *Ledger) validateMint(to interfaces.Address, tokenID interfaces.TokenID) error {
	if to.IsZero() {
		return interfaces.ErrInvalidReceiver
	}
	if !l.holders[tokenID].IsZero() {
		return fmt.Errorf("%w: %s", interfaces.ErrAlreadyMinted, tokenID)
	}
	return nil
}

func (l *Ledger) applyMint(to interfaces.Address, tokenID interfaces.TokenID) {
	l.incrementBalance(to)
	l.holders[tokenID] = to

	l.emit(interfaces.TransferEvent{From: interfaces.ZeroAddress, To: to, TokenID: tokenID})
	l.log.Debug("token minted", slog.String("tokenID", tokenID.String()), slog.String("to", to.String()))
}

// isApprovedOrOwner reports whether spender may move a token held by
// owner: the owner itself, an approved-for-all operator, or the token's
// approved address.
func (l *Ledger) isApprovedOrOwner(spender, owner interfaces.Address, tokenID interfaces.TokenID) bool {
	return spender == owner ||
		l.IsApprovedForAll(owner, spender) ||
		l.approvals[tokenID] == spender
}

func (l *Ledger) accepts(operator, from, to interfaces.Address, tokenID interfaces.TokenID, data []byte) bool {
	if l.acceptor == nil {
		return true
	}
	return l.acceptor.Accepts(operator, from, to, tokenID, data)
}

func (l *Ledger) incrementBalance(account interfaces.Address) {
	bal, ok := l.balances[account]
	if !ok {
		bal = uint256.NewInt(0)
		l.balances[account] = bal
	}
	bal.AddUint64(bal, 1)
}

func (l *Ledger) decrementBalance(account interfaces.Address) {
	bal, ok := l.balances[account]
	if !ok || bal.IsZero() {
		// Unreachable while the balance invariant holds: every held token
		// was counted when minted or transferred in.
		l.log.Error("balance underflow", slog.String("account", account.String()))
		return
	}
	bal.SubUint64(bal, 1)
	if bal.IsZero() {
		delete(l.balances, account)
	}
}

func (l *Ledger) emit(event interfaces.Event) {
	if l.events != nil {
		l.events.Emit(event)
	}
}
