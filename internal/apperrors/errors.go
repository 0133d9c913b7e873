package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller lacks the role required for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrInsufficientBalance indicates the user's balance does not cover the requested debit.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrInvalidAmount indicates a missing, zero or negative monetary amount.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrAlreadyApproved indicates the payment request is already in the approved state.
var ErrAlreadyApproved = errors.New("payment request already approved")

// ErrAlreadyRejected indicates the payment request is already in the rejected state.
var ErrAlreadyRejected = errors.New("payment request already rejected")

// ErrConflict indicates a lost compare-and-set race on a status transition.
var ErrConflict = errors.New("conflicting concurrent update")

// ErrBusy indicates transient store contention; the caller may retry.
var ErrBusy = errors.New("store busy")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
