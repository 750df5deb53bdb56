package holder

import (
	"github.com/holiman/uint256"
	cfg "github.com/lockvote/lockvote-go/cmd/config"
	ctrlertypes "github.com/lockvote/lockvote-go/ctrlers/types"
	"github.com/lockvote/lockvote-go/ledger"
	"github.com/lockvote/lockvote-go/types"
	"github.com/lockvote/lockvote-go/types/xerrors"
	tmlog "github.com/tendermint/tendermint/libs/log"
	"sync"
)

// HolderCtrler owns the locked balances. Its Lock/Unlock are the only
// entry points that change a holder's weight, so they are the only
// triggers of weight propagation.
type HolderCtrler struct {
	holderLedger *ledger.SimpleLedger[*Holder]

	custody ctrlertypes.ICustodyHandler
	weights ctrlertypes.IWeightHandler

	logger tmlog.Logger
	mtx    sync.RWMutex
}

func NewHolderCtrler(config *cfg.Config, custody ctrlertypes.ICustodyHandler, logger tmlog.Logger) (*HolderCtrler, xerrors.XError) {
	holderLedger, xerr := ledger.NewSimpleLedger[*Holder]("holders", config.DBDir(), 128, func() *Holder { return &Holder{} })
	if xerr != nil {
		return nil, xerr
	}

	return &HolderCtrler{
		holderLedger: holderLedger,
		custody:      custody,
		logger:       logger.With("module", "lockvote_HolderCtrler"),
	}, nil
}

// SetWeightHandler wires the propagation target. It must be set before
// the first Lock/Unlock; the ctrlers reference each other, so wiring
// happens after both are constructed.
func (ctrler *HolderCtrler) SetWeightHandler(w ctrlertypes.IWeightHandler) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	ctrler.weights = w
}

func (ctrler *HolderCtrler) InitLedger(req interface{}) xerrors.XError {
	// no balance is locked at genesis
	return nil
}

// Lock requests custody transfer-in and, on success, increases the
// holder's locked balance and propagates the positive delta.
func (ctrler *HolderCtrler) Lock(addr types.Address, amt *uint256.Int, now int64) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if amt == nil || amt.IsZero() {
		return xerrors.ErrInvalidAmount
	}

	if xerr := ctrler.custody.TransferIn(addr, amt); xerr != nil {
		return xerrors.ErrCustodyTransfer.With(xerr)
	}

	h := ctrler.findHolder(addr)
	if h == nil {
		h = NewHolder(addr)
	}
	_ = h.AddLocked(amt)
	if xerr := ctrler.holderLedger.Set(h); xerr != nil {
		return xerr
	}

	if ctrler.weights != nil {
		if xerr := ctrler.weights.OnLocked(addr, amt, now); xerr != nil {
			// propagation of a positive delta cannot underflow; reaching
			// here means a broken invariant upstream. Undo everything.
			_ = h.SubLocked(amt)
			_ = ctrler.holderLedger.Set(h)
			_ = ctrler.custody.TransferOut(addr, amt)
			return xerr
		}
	}
	return nil
}

// Unlock decreases the locked balance, propagates the negative delta and
// requests custody transfer-out, in that order. Any failure restores the
// previous state so the operation is all-or-nothing.
func (ctrler *HolderCtrler) Unlock(addr types.Address, amt *uint256.Int, now int64) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if amt == nil || amt.IsZero() {
		return xerrors.ErrInvalidAmount
	}

	h := ctrler.findHolder(addr)
	if h == nil {
		return xerrors.ErrInsufficientBalance
	}
	if xerr := h.SubLocked(amt); xerr != nil {
		return xerr
	}
	if xerr := ctrler.holderLedger.Set(h); xerr != nil {
		return xerr
	}

	if ctrler.weights != nil {
		if xerr := ctrler.weights.OnUnlocked(addr, amt, now); xerr != nil {
			_ = h.AddLocked(amt)
			_ = ctrler.holderLedger.Set(h)
			return xerr
		}
	}

	if xerr := ctrler.custody.TransferOut(addr, amt); xerr != nil {
		// sequential revert: restore the balance and re-propagate the
		// delta that was already applied to outstanding proposals.
		_ = h.AddLocked(amt)
		_ = ctrler.holderLedger.Set(h)
		if ctrler.weights != nil {
			if xerr2 := ctrler.weights.OnLocked(addr, amt, now); xerr2 != nil {
				ctrler.logger.Error("Unlock revert failed", "address", addr, "error", xerr2.Error())
				return xerr2
			}
		}
		return xerrors.ErrCustodyTransfer.With(xerr)
	}
	return nil
}

// LockedOf returns zero for unknown holders.
func (ctrler *HolderCtrler) LockedOf(addr types.Address) *uint256.Int {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	h := ctrler.findHolder(addr)
	if h == nil {
		return uint256.NewInt(0)
	}
	return h.GetLocked()
}

func (ctrler *HolderCtrler) findHolder(addr types.Address) *Holder {
	if h, xerr := ctrler.holderLedger.Get(ledger.ToLedgerKey(addr)); xerr != nil {
		return nil
	} else {
		return h
	}
}

func (ctrler *HolderCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.holderLedger.Commit()
}

func (ctrler *HolderCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.holderLedger != nil {
		if xerr := ctrler.holderLedger.Close(); xerr != nil {
			ctrler.logger.Error("HolderCtrler", "holderLedger.Close() returns error", xerr.Error())
		}
		ctrler.holderLedger = nil
	}
	return nil
}

var _ ctrlertypes.ILedgerHandler = (*HolderCtrler)(nil)
var _ ctrlertypes.IHolderHandler = (*HolderCtrler)(nil)
