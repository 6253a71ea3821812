package registry

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/mock"

	"github.com/razah7-lab/cairo-erc-2981/interfaces"
)

// MockService mocks the interfaces.TokenRegistryService surface for
// consumers that want to test against the facade without building one.
type MockService struct {
	mock.Mock
}

var _ interfaces.TokenRegistryService = (*MockService)(nil)

// Supports mocks the Supports method
func (m *MockService) Supports(id interfaces.CapabilityID) bool {
	args := m.Called(id)
	return args.Bool(0)
}

// RegisterCapability mocks the RegisterCapability method
func (m *MockService) RegisterCapability(caller interfaces.Address, id interfaces.CapabilityID) error {
	args := m.Called(caller, id)
	return args.Error(0)
}

// DeregisterCapability mocks the DeregisterCapability method
func (m *MockService) DeregisterCapability(caller interfaces.Address, id interfaces.CapabilityID) error {
	args := m.Called(caller, id)
	return args.Error(0)
}

// Owner mocks the Owner method
func (m *MockService) Owner() interfaces.Address {
	args := m.Called()
	return args.Get(0).(interfaces.Address)
}

// TransferOwnership mocks the TransferOwnership method
func (m *MockService) TransferOwnership(caller, newOwner interfaces.Address) error {
	args := m.Called(caller, newOwner)
	return args.Error(0)
}

// RenounceOwnership mocks the RenounceOwnership method
func (m *MockService) RenounceOwnership(caller interfaces.Address) error {
	args := m.Called(caller)
	return args.Error(0)
}

// BalanceOf mocks the BalanceOf method
func (m *MockService) BalanceOf(account interfaces.Address) (*uint256.Int, error) {
	args := m.Called(account)
	bal, _ := args.Get(0).(*uint256.Int)
	return bal, args.Error(1)
}

// OwnerOf mocks the OwnerOf method
func (m *MockService) OwnerOf(tokenID interfaces.TokenID) (interfaces.Address, error) {
	args := m.Called(tokenID)
	return args.Get(0).(interfaces.Address), args.Error(1)
}

// GetApproved mocks the GetApproved method
func (m *MockService) GetApproved(tokenID interfaces.TokenID) (interfaces.Address, error) {
	args := m.Called(tokenID)
	return args.Get(0).(interfaces.Address), args.Error(1)
}

// IsApprovedForAll mocks the IsApprovedForAll method
func (m *MockService) IsApprovedForAll(owner, operator interfaces.Address) bool {
	args := m.Called(owner, operator)
	return args.Bool(0)
}

// Approve mocks the Approve method
func (m *MockService) Approve(caller, to interfaces.Address, tokenID interfaces.TokenID) error {
	args := m.Called(caller, to, tokenID)
	return args.Error(0)
}

// SetApprovalForAll mocks the SetApprovalForAll method
func (m *MockService) SetApprovalForAll(caller, operator interfaces.Address, approved bool) error {
	args := m.Called(caller, operator, approved)
	return args.Error(0)
}

// TransferFrom mocks the TransferFrom method
func (m *MockService) TransferFrom(caller, from, to interfaces.Address, tokenID interfaces.TokenID) error {
	args := m.Called(caller, from, to, tokenID)
	return args.Error(0)
}

// SafeTransferFrom mocks the SafeTransferFrom method
func (m *MockService) SafeTransferFrom(caller, from, to interfaces.Address, tokenID interfaces.TokenID, data []byte) error {
	args := m.Called(caller, from, to, tokenID, data)
	return args.Error(0)
}

// Mint mocks the Mint method
func (m *MockService) Mint(caller, to interfaces.Address, tokenID interfaces.TokenID) error {
	args := m.Called(caller, to, tokenID)
	return args.Error(0)
}

// SafeMint mocks the SafeMint method
func (m *MockService) SafeMint(caller, to interfaces.Address, tokenID interfaces.TokenID, data []byte) error {
	args := m.Called(caller, to, tokenID, data)
	return args.Error(0)
}

// Burn mocks the Burn method
func (m *MockService) Burn(caller interfaces.Address, tokenID interfaces.TokenID) error {
	args := m.Called(caller, tokenID)
	return args.Error(0)
}

// DefaultRoyalty mocks the DefaultRoyalty method
func (m *MockService) DefaultRoyalty() interfaces.RoyaltyConfig {
	args := m.Called()
	return args.Get(0).(interfaces.RoyaltyConfig)
}

// TokenRoyalty mocks the TokenRoyalty method
func (m *MockService) TokenRoyalty(tokenID interfaces.TokenID) interfaces.RoyaltyConfig {
	args := m.Called(tokenID)
	return args.Get(0).(interfaces.RoyaltyConfig)
}

// RoyaltyInfo mocks the RoyaltyInfo method
func (m *MockService) RoyaltyInfo(tokenID interfaces.TokenID, salePrice *uint256.Int) (interfaces.Address, *uint256.Int, error) {
	args := m.Called(tokenID, salePrice)
	amount, _ := args.Get(1).(*uint256.Int)
	return args.Get(0).(interfaces.Address), amount, args.Error(2)
}

// SetDefaultRoyalty mocks the SetDefaultRoyalty method
func (m *MockService) SetDefaultRoyalty(caller interfaces.Address, cfg interfaces.RoyaltyConfig) error {
	args := m.Called(caller, cfg)
	return args.Error(0)
}

// SetTokenRoyalty mocks the SetTokenRoyalty method
func (m *MockService) SetTokenRoyalty(caller interfaces.Address, tokenID interfaces.TokenID, cfg interfaces.RoyaltyConfig) error {
	args := m.Called(caller, tokenID, cfg)
	return args.Error(0)
}

// ResetTokenRoyalty mocks the ResetTokenRoyalty method
func (m *MockService) ResetTokenRoyalty(caller interfaces.Address, tokenID interfaces.TokenID) error {
	args := m.Called(caller, tokenID)
	return args.Error(0)
}

// Snapshot mocks the Snapshot method
func (m *MockService) Snapshot(ctx context.Context) (interfaces.ContentID, error) {
	args := m.Called(ctx)
	return args.Get(0).(interfaces.ContentID), args.Error(1)
}

// Restore mocks the Restore method
func (m *MockService) Restore(ctx context.Context, id interfaces.ContentID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// FlushEvents mocks the FlushEvents method
func (m *MockService) FlushEvents(ctx context.Context) (interfaces.ContentID, error) {
	args := m.Called(ctx)
	return args.Get(0).(interfaces.ContentID), args.Error(1)
}
