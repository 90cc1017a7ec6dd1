package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrOperationForbidden operation forbidden
	ErrOperationForbidden ErrorCode = 100001
	// ErrPaused vault is paused
	ErrPaused ErrorCode = 100002
	// ErrUnauthorized caller lacks the required role
	ErrUnauthorized ErrorCode = 100003

	// ErrZeroAmount zero or negative amount
	ErrZeroAmount ErrorCode = 100100
	// ErrZeroAddress empty account identity
	ErrZeroAddress ErrorCode = 100101
	// ErrBelowMinimumDeposit deposit below the configured minimum
	ErrBelowMinimumDeposit ErrorCode = 100102
	// ErrInsufficientCollateral withdraw exceeds position collateral
	ErrInsufficientCollateral ErrorCode = 100103
	// ErrInsufficientDebt burn exceeds position debt
	ErrInsufficientDebt ErrorCode = 100104
	// ErrUnhealthyPosition mutation would break the collateral ratio floor
	ErrUnhealthyPosition ErrorCode = 100105
	// ErrNoPosition no position for account
	ErrNoPosition ErrorCode = 100106
	// ErrInsufficientBalance wallet balance too low
	ErrInsufficientBalance ErrorCode = 100107
	// ErrInsufficientLiquidity yield source cannot release the requested amount
	ErrInsufficientLiquidity ErrorCode = 100108
	// ErrSeizeNotAllowed target position is not liquidatable
	ErrSeizeNotAllowed ErrorCode = 100109

	// ErrStalePrice oracle reading older than the configured max age
	ErrStalePrice ErrorCode = 100200
	// ErrZeroPrice oracle returned a zero price
	ErrZeroPrice ErrorCode = 100201

	// ErrInvalidFeeConfiguration fee shares do not sum to 100%
	ErrInvalidFeeConfiguration ErrorCode = 100300
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}
