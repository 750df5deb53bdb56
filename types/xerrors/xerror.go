package xerrors

import (
	"fmt"
)

const (
	ErrCodeSuccess uint32 = iota
	ErrCodeGeneric
	ErrCodeInitGenesis
	ErrCodeCommit
	ErrCodeNotFoundResult
	ErrCodeNotFoundAccount
	ErrCodeInvalidAmount
	ErrCodeInvalidTimestamp
	ErrCodeInsufficientBalance
	ErrCodeAlreadyProposed
	ErrCodeNotFoundProposal
	ErrCodeVotingClosed
	ErrCodeNotHolder
	ErrCodeCustodyTransfer
	ErrCodeInternalConsistency
)

const (
	ErrCodeQuery uint32 = 1000 + iota
	ErrCodeInvalidQueryCmd
	ErrCodeInvalidQueryParams
	ErrLast
)

var (
	ErrInitGenesis     = NewWith(ErrCodeInitGenesis, "genesis initialization failed")
	ErrCommit          = NewWith(ErrCodeCommit, "commit failed")
	ErrNotFoundResult  = NewWith(ErrCodeNotFoundResult, "not found result")
	ErrNotFoundAccount = NewWith(ErrCodeNotFoundAccount, "not found account")

	ErrInvalidAmount       = NewWith(ErrCodeInvalidAmount, "invalid amount")
	ErrInvalidTimestamp    = NewWith(ErrCodeInvalidTimestamp, "proposal timestamp is older than the last proposal")
	ErrInsufficientBalance = NewWith(ErrCodeInsufficientBalance, "insufficient locked balance")
	ErrAlreadyProposed     = NewWith(ErrCodeAlreadyProposed, "already proposed")
	ErrNotFoundProposal    = NewWith(ErrCodeNotFoundProposal, "not found proposal")
	ErrVotingClosed        = NewWith(ErrCodeVotingClosed, "voting window is closed")
	ErrNotHolder           = NewWith(ErrCodeNotHolder, "not a holder: no locked balance")
	ErrCustodyTransfer     = NewWith(ErrCodeCustodyTransfer, "custody transfer failed")

	// ErrInternalConsistency is returned when an aggregate would go negative.
	// It indicates a bug, not a user error, and must abort the enclosing operation.
	ErrInternalConsistency = NewWith(ErrCodeInternalConsistency, "internal consistency fault")

	ErrQuery              = NewWith(ErrCodeQuery, "query failed")
	ErrInvalidQueryCmd    = NewWith(ErrCodeInvalidQueryCmd, "invalid query command")
	ErrInvalidQueryParams = NewWith(ErrCodeInvalidQueryParams, "invalid query parameters")
)

type XError interface {
	Code() uint32
	Error() string
	Cause() error
	With(error) XError
	Wrap(error) XError
	Wrapf(string, ...interface{}) XError
	Unwrap() error
}

type xerr struct {
	code  uint32
	msg   string
	cause error
}

func New(m string) XError {
	return &xerr{
		code: ErrCodeGeneric,
		msg:  m,
	}
}

func NewOrdinary(m string) XError {
	return New(m)
}

func NewWith(code uint32, msg string) XError {
	return &xerr{
		code: code,
		msg:  msg,
	}
}

func From(err error) XError {
	if err == nil {
		return nil
	}
	if xe, ok := err.(XError); ok {
		return xe
	}
	return &xerr{
		code: ErrCodeGeneric,
		msg:  err.Error(),
	}
}

func (e *xerr) Code() uint32 {
	return e.code
}

func (e *xerr) Error() string {
	if e.cause != nil {
		return e.msg + "<<" + e.cause.Error()
	}
	return e.msg
}

func (e *xerr) Cause() error {
	return e.cause
}

func (e *xerr) Unwrap() error {
	return e.Cause()
}

func (e *xerr) With(err error) XError {
	return &xerr{
		code:  e.code,
		msg:   e.msg,
		cause: err,
	}
}

func (e *xerr) Wrap(err error) XError {
	return &xerr{
		code:  e.code,
		msg:   e.msg,
		cause: err,
	}
}

func (e *xerr) Wrapf(format string, args ...interface{}) XError {
	return &xerr{
		code:  e.code,
		msg:   e.msg,
		cause: fmt.Errorf(format, args...),
	}
}
