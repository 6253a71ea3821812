package ledger

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/razah7-lab/cairo-erc-2981/interfaces"
)

// TokenState is the serialized per-token record: its holder and, when
// set, its single-token approval.
type TokenState struct {
	Holder   string `json:"holder"`
	Approved string `json:"approved,omitempty"`
}

// OperatorGrant is a serialized approved-for-all grant.
type OperatorGrant struct {
	Owner    string `json:"owner"`
	Operator string `json:"operator"`
}

// State is the serializable form of the ledger. Balances are not stored:
// they are derived from token holders on import, which keeps the
// balance-equals-held-tokens invariant true by construction.
type State struct {
	Tokens    map[string]TokenState `json:"tokens"`
	Operators []OperatorGrant       `json:"operators,omitempty"`
}

// ExportState captures the ledger into its serializable form.
func (l *Ledger) ExportState() State {
	state := State{Tokens: make(map[string]TokenState, len(l.holders))}

	for tokenID, holder := range l.holders {
		token := TokenState{Holder: holder.String()}
		if approved, ok := l.approvals[tokenID]; ok && !approved.IsZero() {
			token.Approved = approved.String()
		}
		state.Tokens[tokenID.String()] = token
	}

	for pair, approved := range l.operators {
		if !approved {
			continue
		}
		state.Operators = append(state.Operators, OperatorGrant{
			Owner:    pair.owner.String(),
			Operator: pair.operator.String(),
		})
	}

	return state
}

// ImportState replaces the ledger contents with state. All maps are
// rebuilt from scratch; a decoding failure leaves the ledger unchanged.
func (l *Ledger) ImportState(state State) error {
	holders := make(map[interfaces.TokenID]interfaces.Address, len(state.Tokens))
	approvals := make(map[interfaces.TokenID]interfaces.Address)
	operators := make(map[operatorPair]bool, len(state.Operators))

	for rawID, token := range state.Tokens {
		tokenID, err := interfaces.NewTokenIDFromHex(rawID)
		if err != nil {
			return fmt.Errorf("invalid token id %q: %w", rawID, err)
		}

		holder, err := interfaces.NewAddressFromHex(token.Holder)
		if err != nil {
			return fmt.Errorf("invalid holder for token %s: %w", rawID, err)
		}
		if holder.IsZero() {
			return fmt.Errorf("token %s: %w", rawID, interfaces.ErrInvalidAccount)
		}
		holders[tokenID] = holder

		if token.Approved != "" {
			approved, err := interfaces.NewAddressFromHex(token.Approved)
			if err != nil {
				return fmt.Errorf("invalid approval for token %s: %w", rawID, err)
			}
			approvals[tokenID] = approved
		}
	}

	for _, grant := range state.Operators {
		owner, err := interfaces.NewAddressFromHex(grant.Owner)
		if err != nil {
			return fmt.Errorf("invalid operator grant owner %q: %w", grant.Owner, err)
		}
		operator, err := interfaces.NewAddressFromHex(grant.Operator)
		if err != nil {
			return fmt.Errorf("invalid operator grant operator %q: %w", grant.Operator, err)
		}
		operators[operatorPair{owner: owner, operator: operator}] = true
	}

	l.holders = holders
	l.approvals = approvals
	l.operators = operators

	l.balances = make(map[interfaces.Address]*uint256.Int)
	for _, holder := range holders {
		l.incrementBalance(holder)
	}
	return nil
}
