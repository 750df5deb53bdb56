package asset

import (
	"github.com/holiman/uint256"
	cfg "github.com/lockvote/lockvote-go/cmd/config"
	"github.com/lockvote/lockvote-go/genesis"
	"github.com/lockvote/lockvote-go/ledger"
	"github.com/lockvote/lockvote-go/types"
	"github.com/lockvote/lockvote-go/types/xerrors"
	tmlog "github.com/tendermint/tendermint/libs/log"
	"sync"

	ctrlertypes "github.com/lockvote/lockvote-go/ctrlers/types"
)

// AssetCtrler is the custody ledger: it settles transfer-in/transfer-out
// requests from the governance core and answers the total issued supply.
type AssetCtrler struct {
	acctLedger   *ledger.SimpleLedger[*Account]
	supplyLedger *ledger.SimpleLedger[*Supply]
	supply       *Supply

	logger tmlog.Logger
	mtx    sync.RWMutex
}

func NewAssetCtrler(config *cfg.Config, logger tmlog.Logger) (*AssetCtrler, xerrors.XError) {
	acctLedger, xerr := ledger.NewSimpleLedger[*Account]("accounts", config.DBDir(), 128, func() *Account { return &Account{} })
	if xerr != nil {
		return nil, xerr
	}

	supplyLedger, xerr := ledger.NewSimpleLedger[*Supply]("supply", config.DBDir(), 1, func() *Supply { return &Supply{} })
	if xerr != nil {
		_ = acctLedger.Close()
		return nil, xerr
	}

	supply, xerr := supplyLedger.Get(NewSupply().Key())
	if xerr != nil && xerr != xerrors.ErrNotFoundResult {
		_ = acctLedger.Close()
		_ = supplyLedger.Close()
		return nil, xerr
	} else if supply == nil {
		supply = NewSupply()
	}

	return &AssetCtrler{
		acctLedger:   acctLedger,
		supplyLedger: supplyLedger,
		supply:       supply,
		logger:       logger.With("module", "lockvote_AssetCtrler"),
	}, nil
}

func (ctrler *AssetCtrler) InitLedger(req interface{}) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	genAppState, ok := req.(*genesis.GenesisAppState)
	if !ok {
		return xerrors.ErrInitGenesis.Wrapf("wrong parameter: AssetCtrler::InitLedger requires *genesis.GenesisAppState")
	}

	issued := uint256.NewInt(0)
	for _, holder := range genAppState.AssetHolders {
		acct := NewAccount(holder.Address)
		_ = acct.Balance.Set(holder.Balance)
		if xerr := ctrler.acctLedger.Set(acct); xerr != nil {
			return xerr
		}
		_ = issued.Add(issued, holder.Balance)
	}

	ctrler.supply = NewSupply()
	_ = ctrler.supply.Issued.Set(issued)
	return ctrler.supplyLedger.Set(ctrler.supply)
}

// TransferIn moves `amt` from the holder's custody account into the
// governance pool. The account must exist and carry enough balance.
func (ctrler *AssetCtrler) TransferIn(addr types.Address, amt *uint256.Int) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	acct, xerr := ctrler.acctLedger.Get(ledger.ToLedgerKey(addr))
	if xerr != nil {
		if xerr == xerrors.ErrNotFoundResult {
			return xerrors.ErrNotFoundAccount
		}
		return xerr
	}

	if xerr := acct.SubBalance(amt); xerr != nil {
		return xerr
	}
	_ = ctrler.supply.Pooled.Add(ctrler.supply.Pooled, amt)

	if xerr := ctrler.acctLedger.Set(acct); xerr != nil {
		return xerr
	}
	return ctrler.supplyLedger.Set(ctrler.supply)
}

// TransferOut releases `amt` from the governance pool back to the holder.
// Releasing more than is pooled means the caller's accounting is broken.
func (ctrler *AssetCtrler) TransferOut(addr types.Address, amt *uint256.Int) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if amt.Cmp(ctrler.supply.Pooled) > 0 {
		return xerrors.ErrInternalConsistency.Wrapf("transfer-out %v exceeds pooled %v", amt.Dec(), ctrler.supply.Pooled.Dec())
	}

	acct, xerr := ctrler.acctLedger.Get(ledger.ToLedgerKey(addr))
	if xerr != nil {
		if xerr != xerrors.ErrNotFoundResult {
			return xerr
		}
		acct = NewAccount(addr)
	}

	_ = acct.AddBalance(amt)
	_ = ctrler.supply.Pooled.Sub(ctrler.supply.Pooled, amt)

	if xerr := ctrler.acctLedger.Set(acct); xerr != nil {
		return xerr
	}
	return ctrler.supplyLedger.Set(ctrler.supply)
}

func (ctrler *AssetCtrler) Version() int64 {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.acctLedger.Version()
}

func (ctrler *AssetCtrler) TotalIssued() *uint256.Int {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return new(uint256.Int).Set(ctrler.supply.Issued)
}

func (ctrler *AssetCtrler) Pooled() *uint256.Int {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return new(uint256.Int).Set(ctrler.supply.Pooled)
}

func (ctrler *AssetCtrler) FindAccount(addr types.Address) *Account {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	if acct, xerr := ctrler.acctLedger.Get(ledger.ToLedgerKey(addr)); xerr != nil {
		return nil
	} else {
		return acct
	}
}

func (ctrler *AssetCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	h0, v0, xerr := ctrler.acctLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	h1, v1, xerr := ctrler.supplyLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	if v0 != v1 {
		return nil, -1, xerrors.ErrCommit.Wrapf("AssetCtrler.Commit() has wrong version number - v0:%v, v1:%v", v0, v1)
	}
	return append(h0, h1...), v0, nil
}

func (ctrler *AssetCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.acctLedger != nil {
		if xerr := ctrler.acctLedger.Close(); xerr != nil {
			ctrler.logger.Error("AssetCtrler", "acctLedger.Close() returns error", xerr.Error())
		}
		ctrler.acctLedger = nil
	}
	if ctrler.supplyLedger != nil {
		if xerr := ctrler.supplyLedger.Close(); xerr != nil {
			ctrler.logger.Error("AssetCtrler", "supplyLedger.Close() returns error", xerr.Error())
		}
		ctrler.supplyLedger = nil
	}
	return nil
}

var _ ctrlertypes.ILedgerHandler = (*AssetCtrler)(nil)
var _ ctrlertypes.ICustodyHandler = (*AssetCtrler)(nil)
