package royalty

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/razah7-lab/cairo-erc-2981/interfaces"
)

// ConfigState is the serialized form of a royalty configuration.
type ConfigState struct {
	Receiver    string `json:"receiver"`
	Numerator   string `json:"numerator"`
	Denominator string `json:"denominator"`
}

// State is the serializable form of the policy.
type State struct {
	Default   ConfigState            `json:"default"`
	Overrides map[string]ConfigState `json:"overrides,omitempty"`
}

// ExportState captures the policy into its serializable form.
func (p *Policy) ExportState() State {
	state := State{Default: exportConfig(p.defaults)}
	if len(p.overrides) > 0 {
		state.Overrides = make(map[string]ConfigState, len(p.overrides))
		for tokenID, cfg := range p.overrides {
			state.Overrides[tokenID.String()] = exportConfig(cfg)
		}
	}
	return state
}

// ImportState replaces the policy contents with state. Every imported
// configuration is re-validated; a failure leaves the policy unchanged.
func (p *Policy) ImportState(state State) error {
	defaults, err := importConfig(state.Default)
	if err != nil {
		return fmt.Errorf("invalid default royalty: %w", err)
	}

	overrides := make(map[interfaces.TokenID]interfaces.RoyaltyConfig, len(state.Overrides))
	for rawID, cfgState := range state.Overrides {
		tokenID, err := interfaces.NewTokenIDFromHex(rawID)
		if err != nil {
			return fmt.Errorf("invalid token id %q: %w", rawID, err)
		}
		cfg, err := importConfig(cfgState)
		if err != nil {
			return fmt.Errorf("invalid royalty override for token %s: %w", rawID, err)
		}
		overrides[tokenID] = cfg
	}

	p.defaults = defaults
	p.overrides = overrides
	p.initialized = true
	return nil
}

func exportConfig(cfg interfaces.RoyaltyConfig) ConfigState {
	out := ConfigState{Receiver: cfg.Receiver.String()}
	if cfg.Numerator != nil {
		out.Numerator = cfg.Numerator.Hex()
	}
	if cfg.Denominator != nil {
		out.Denominator = cfg.Denominator.Hex()
	}
	return out
}

func importConfig(state ConfigState) (interfaces.RoyaltyConfig, error) {
	receiver, err := interfaces.NewAddressFromHex(state.Receiver)
	if err != nil {
		return interfaces.RoyaltyConfig{}, err
	}
	numerator, err := uint256.FromHex(state.Numerator)
	if err != nil {
		return interfaces.RoyaltyConfig{}, fmt.Errorf("invalid numerator: %w", err)
	}
	denominator, err := uint256.FromHex(state.Denominator)
	if err != nil {
		return interfaces.RoyaltyConfig{}, fmt.Errorf("invalid denominator: %w", err)
	}

	cfg := interfaces.RoyaltyConfig{
		Receiver:    receiver,
		Numerator:   numerator,
		Denominator: denominator,
	}
	if err := cfg.Validate(); err != nil {
		return interfaces.RoyaltyConfig{}, err
	}
	return cfg, nil
}
