package interfaces

import "errors"

// Validation and state errors reported by the token ledger.
var (
	// ErrInvalidAccount is returned when an operation that requires a real
	// account is given the zero address.
	ErrInvalidAccount = errors.New("invalid account: zero address")

	// ErrInvalidTokenID is returned when a token id was never minted or has
	// been burned.
	ErrInvalidTokenID = errors.New("invalid token id")

	// ErrUnauthorized is returned when the caller is neither the owner, an
	// approved address, nor an approved-for-all operator.
	ErrUnauthorized = errors.New("caller is not owner or approved")

	// ErrApprovalToOwner is returned when approving the current owner.
	ErrApprovalToOwner = errors.New("approval to current owner")

	// ErrSelfApproval is returned when setting oneself as operator.
	ErrSelfApproval = errors.New("approve to caller")

	// ErrInvalidReceiver is returned when the destination is the zero
	// address.
	ErrInvalidReceiver = errors.New("invalid receiver: zero address")

	// ErrWrongSender is returned when the from address does not match the
	// token's current owner.
	ErrWrongSender = errors.New("from address is not the token owner")

	// ErrAlreadyMinted is returned when minting a token id that already has
	// a holder.
	ErrAlreadyMinted = errors.New("token already minted")

	// ErrSafeTransferFailed is returned when the receiver-acceptance check
	// rejects a safe transfer.
	ErrSafeTransferFailed = errors.New("safe transfer rejected by receiver")

	// ErrSafeMintFailed is returned when the receiver-acceptance check
	// rejects a safe mint.
	ErrSafeMintFailed = errors.New("safe mint rejected by receiver")
)

// Royalty policy errors.
var (
	// ErrInvalidFeeDenominator is returned for a zero fee denominator.
	ErrInvalidFeeDenominator = errors.New("invalid fee denominator: zero")

	// ErrInvalidFeeRate is returned when the fee numerator exceeds the
	// denominator, i.e. a rate above 100%.
	ErrInvalidFeeRate = errors.New("invalid fee rate: numerator exceeds denominator")

	// ErrFeeOverflow is returned when sale_price * numerator does not fit
	// in 256 bits. It is an arithmetic failure, not a validation rejection.
	ErrFeeOverflow = errors.New("fee computation overflows 256 bits")
)

// Access gate errors.
var (
	// ErrNotOwner is returned when the caller is not the privileged owner.
	ErrNotOwner = errors.New("caller is not the owner")

	// ErrCallerIsZero is returned when the caller identifier is the zero
	// sentinel, guarding against unauthenticated default-context calls.
	ErrCallerIsZero = errors.New("caller is the zero address")
)

// Capability registry errors.
var (
	// ErrSelfDeregister is returned when deregistering the base
	// supports-capability-query id.
	ErrSelfDeregister = errors.New("cannot deregister the capability query id")
)

// Lifecycle errors.
var (
	// ErrNotInitialized is returned when an operation runs before setup.
	ErrNotInitialized = errors.New("registry not initialized")

	// ErrAlreadyInitialized is returned when setup runs twice.
	ErrAlreadyInitialized = errors.New("registry already initialized")
)
