// Package royalty implements the resalable-royalty policy: a default
// (receiver, rate) pair with optional per-token overrides, and the fee
// resolution a marketplace queries before paying out a sale.
//
// The policy only computes the receiver and amount; it never moves
// payment tokens and does not enforce that the royalty is actually paid.
package royalty

import (
	"fmt"
	"log/slog"

	"github.com/holiman/uint256"
	"github.com/razah7-lab/cairo-erc-2981/interfaces"
)

// Policy holds the default royalty configuration and per-token overrides.
// An override is present iff its receiver is non-zero.
//
// Like the ledger, the policy is not safe for concurrent use; the
// registry facade serializes operations.
type Policy struct {
	defaults     interfaces.RoyaltyConfig
	overrides    map[interfaces.TokenID]interfaces.RoyaltyConfig
	capabilities interfaces.CapabilityRegistry
	initialized  bool
	log          *slog.Logger
}

// New creates a policy with no default configured. Initialize must run
// before royalty resolution is meaningful.
func New(capabilities interfaces.CapabilityRegistry, log *slog.Logger) *Policy {
	return &Policy{
		overrides:    make(map[interfaces.TokenID]interfaces.RoyaltyConfig),
		capabilities: capabilities,
		log:          log,
	}
}

// Initialize registers the royalty capability and sets the initial
// default configuration. It must be invoked exactly once.
func (p *Policy) Initialize(cfg interfaces.RoyaltyConfig) error {
	if p.initialized {
		return interfaces.ErrAlreadyInitialized
	}
	if err := p.SetDefaultRoyalty(cfg); err != nil {
		return err
	}
	p.capabilities.Register(interfaces.RoyaltyPolicyID)
	p.initialized = true
	return nil
}

// DefaultRoyalty returns the fallback configuration applied to tokens
// without an override.
func (p *Policy) DefaultRoyalty() interfaces.RoyaltyConfig {
	return cloneConfig(p.defaults)
}

// TokenRoyalty returns the override for tokenID. The zero-receiver value
// means "no override, fall back to default".
func (p *Policy) TokenRoyalty(tokenID interfaces.TokenID) interfaces.RoyaltyConfig {
	if cfg, ok := p.overrides[tokenID]; ok {
		return cloneConfig(cfg)
	}
	return interfaces.RoyaltyConfig{Receiver: interfaces.ZeroAddress}
}

// RoyaltyInfo resolves the applicable configuration for tokenID and
// computes the royalty amount for salePrice. The amount is
// salePrice * numerator / denominator with truncating division, so fees
// under one unit round down to zero. An overflowing product is reported
// as ErrFeeOverflow instead of wrapping.
func (p *Policy) RoyaltyInfo(tokenID interfaces.TokenID, salePrice *uint256.Int) (interfaces.Address, *uint256.Int, error) {
	cfg, ok := p.overrides[tokenID]
	if !ok {
		cfg = p.defaults
	}
	if cfg.IsZero() {
		return interfaces.ZeroAddress, nil, interfaces.ErrNotInitialized
	}

	amount, overflow := new(uint256.Int).MulOverflow(salePrice, cfg.Numerator)
	if overflow {
		return interfaces.ZeroAddress, nil, fmt.Errorf("%w: price %s, numerator %s",
			interfaces.ErrFeeOverflow, salePrice, cfg.Numerator)
	}
	amount.Div(amount, cfg.Denominator)
	return cfg.Receiver, amount, nil
}

// SetDefaultRoyalty overwrites the default configuration. All three
// fields are replaced together, never partially.
func (p *Policy) SetDefaultRoyalty(cfg interfaces.RoyaltyConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	p.defaults = cloneConfig(cfg)
	p.log.Debug("default royalty set",
		slog.String("receiver", cfg.Receiver.String()),
		slog.String("numerator", cfg.Numerator.String()),
		slog.String("denominator", cfg.Denominator.String()))
	return nil
}

// SetTokenRoyalty overwrites the override entry for tokenID, with the
// same validation as the default. Overrides never expire; use
// ResetTokenRoyalty to fall back to the default.
func (p *Policy) SetTokenRoyalty(tokenID interfaces.TokenID, cfg interfaces.RoyaltyConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	p.overrides[tokenID] = cloneConfig(cfg)
	return nil
}

// ResetTokenRoyalty removes the override for tokenID so royalty
// resolution falls back to the default configuration.
func (p *Policy) ResetTokenRoyalty(tokenID interfaces.TokenID) {
	delete(p.overrides, tokenID)
}

// cloneConfig deep-copies a config so stored state never aliases caller
// integers.
func cloneConfig(cfg interfaces.RoyaltyConfig) interfaces.RoyaltyConfig {
	out := interfaces.RoyaltyConfig{Receiver: cfg.Receiver}
	if cfg.Numerator != nil {
		out.Numerator = cfg.Numerator.Clone()
	}
	if cfg.Denominator != nil {
		out.Denominator = cfg.Denominator.Clone()
	}
	return out
}
