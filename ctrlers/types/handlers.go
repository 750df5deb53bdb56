package types

import (
	"github.com/holiman/uint256"
	"github.com/lockvote/lockvote-go/types"
	"github.com/lockvote/lockvote-go/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

type ILedgerHandler interface {
	InitLedger(interface{}) xerrors.XError
	Commit() ([]byte, int64, xerrors.XError)
	Query(abcitypes.RequestQuery) ([]byte, xerrors.XError)
	Close() xerrors.XError
}

// ICustodyHandler is the balance-custody collaborator. Settlement of the
// underlying asset is external to the governance core; the core only needs
// these three capabilities.
type ICustodyHandler interface {
	TransferIn(types.Address, *uint256.Int) xerrors.XError
	TransferOut(types.Address, *uint256.Int) xerrors.XError
	TotalIssued() *uint256.Int
}

// IWeightHandler receives locked-balance deltas and propagates them
// into the outstanding proposals the holder has voted on.
type IWeightHandler interface {
	OnLocked(types.Address, *uint256.Int, int64) xerrors.XError
	OnUnlocked(types.Address, *uint256.Int, int64) xerrors.XError
}

// IHolderHandler exposes the current locked balance of a holder.
type IHolderHandler interface {
	LockedOf(types.Address) *uint256.Int
}

type IGovHandler interface {
	Version() int64
	VotingPeriodSeconds() int64
	QuorumPercent() int64
	QuorumThreshold(*uint256.Int) *uint256.Int
}
