package node

import (
	"github.com/holiman/uint256"
	cfg "github.com/lockvote/lockvote-go/cmd/config"
	"github.com/lockvote/lockvote-go/ctrlers/asset"
	"github.com/lockvote/lockvote-go/ctrlers/gov"
	"github.com/lockvote/lockvote-go/ctrlers/gov/proposal"
	"github.com/lockvote/lockvote-go/ctrlers/holder"
	"github.com/lockvote/lockvote-go/genesis"
	"github.com/lockvote/lockvote-go/types"
	abytes "github.com/lockvote/lockvote-go/types/bytes"
	"github.com/lockvote/lockvote-go/types/xerrors"
	tmlog "github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/crypto/tmhash"
	"sync"
	"time"
)

// GovApp assembles the three ctrlers and serializes every state
// changing command behind one mutex. The ctrlers call across each
// other during a command (lock triggers propagation, unlock triggers
// custody transfer), so commands must not interleave.
type GovApp struct {
	assetCtrler  *asset.AssetCtrler
	holderCtrler *holder.HolderCtrler
	govCtrler    *gov.GovCtrler

	clock func() int64

	logger tmlog.Logger
	mtx    sync.RWMutex
}

func NewGovApp(config *cfg.Config, logger tmlog.Logger) (*GovApp, xerrors.XError) {
	assetCtrler, xerr := asset.NewAssetCtrler(config, logger)
	if xerr != nil {
		return nil, xerr
	}
	holderCtrler, xerr := holder.NewHolderCtrler(config, assetCtrler, logger)
	if xerr != nil {
		_ = assetCtrler.Close()
		return nil, xerr
	}
	govCtrler, xerr := gov.NewGovCtrler(config, assetCtrler, logger)
	if xerr != nil {
		_ = assetCtrler.Close()
		_ = holderCtrler.Close()
		return nil, xerr
	}

	holderCtrler.SetWeightHandler(govCtrler)
	govCtrler.SetHolderHandler(holderCtrler)

	return &GovApp{
		assetCtrler:  assetCtrler,
		holderCtrler: holderCtrler,
		govCtrler:    govCtrler,
		clock:        func() int64 { return time.Now().Unix() },
		logger:       logger.With("module", "lockvote_GovApp"),
	}, nil
}

// SetClock replaces the time source. Commands stamp proposals and votes
// with this clock, so tests inject a deterministic one.
func (app *GovApp) SetClock(clock func() int64) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	app.clock = clock
}

func (app *GovApp) InitGenesis(genDoc *genesis.GenesisDoc) xerrors.XError {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	if genDoc == nil || genDoc.AppState == nil {
		return xerrors.ErrInitGenesis.Wrapf("empty genesis document")
	}
	if xerr := app.assetCtrler.InitLedger(genDoc.AppState); xerr != nil {
		return xerr
	}
	if xerr := app.holderCtrler.InitLedger(genDoc.AppState); xerr != nil {
		return xerr
	}
	if xerr := app.govCtrler.InitLedger(genDoc.AppState); xerr != nil {
		return xerr
	}

	app.logger.Info("Genesis initialized", "chainId", genDoc.ChainID, "assetHolders", len(genDoc.AppState.AssetHolders))
	return nil
}

// Version is the last committed ledger version, zero for a fresh
// database that still needs genesis initialization.
func (app *GovApp) Version() int64 {
	app.mtx.RLock()
	defer app.mtx.RUnlock()

	return app.assetCtrler.Version()
}

func (app *GovApp) Propose(subject types.Address) xerrors.XError {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	return app.govCtrler.Propose(subject, app.clock())
}

func (app *GovApp) Lock(addr types.Address, amt *uint256.Int) xerrors.XError {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	return app.holderCtrler.Lock(addr, amt, app.clock())
}

func (app *GovApp) Unlock(addr types.Address, amt *uint256.Int) xerrors.XError {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	return app.holderCtrler.Unlock(addr, amt, app.clock())
}

func (app *GovApp) CastVote(subject, voter types.Address, support bool) xerrors.XError {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	return app.govCtrler.CastVote(subject, voter, support, app.clock())
}

func (app *GovApp) IsSupported(subject types.Address, strict bool) (bool, xerrors.XError) {
	app.mtx.RLock()
	defer app.mtx.RUnlock()

	return app.govCtrler.IsSupported(subject, strict, app.clock())
}

func (app *GovApp) BalanceOf(addr types.Address) *uint256.Int {
	app.mtx.RLock()
	defer app.mtx.RUnlock()

	return app.holderCtrler.LockedOf(addr)
}

func (app *GovApp) IsProposed(subject types.Address) bool {
	app.mtx.RLock()
	defer app.mtx.RUnlock()

	return app.govCtrler.IsProposed(subject)
}

func (app *GovApp) ProposalCount() int {
	app.mtx.RLock()
	defer app.mtx.RUnlock()

	return app.govCtrler.ProposalCount()
}

func (app *GovApp) VotingDuration() int64 {
	app.mtx.RLock()
	defer app.mtx.RUnlock()

	return app.govCtrler.VotingDuration()
}

func (app *GovApp) VoteCountOf(subject types.Address) (int, xerrors.XError) {
	app.mtx.RLock()
	defer app.mtx.RUnlock()

	return app.govCtrler.VoteCountOf(subject)
}

func (app *GovApp) HasVoted(subject, voter types.Address) (bool, xerrors.XError) {
	app.mtx.RLock()
	defer app.mtx.RUnlock()

	return app.govCtrler.HasVoted(subject, voter)
}

func (app *GovApp) VoteOf(subject, voter types.Address) (*proposal.Vote, xerrors.XError) {
	app.mtx.RLock()
	defer app.mtx.RUnlock()

	return app.govCtrler.VoteOf(subject, voter)
}

func (app *GovApp) ResultOf(subject types.Address) (*uint256.Int, *uint256.Int, xerrors.XError) {
	app.mtx.RLock()
	defer app.mtx.RUnlock()

	return app.govCtrler.ResultOf(subject)
}

// Commit persists all ledgers and returns the combined app hash.
func (app *GovApp) Commit() ([]byte, int64, xerrors.XError) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	h0, v0, xerr := app.assetCtrler.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	h1, v1, xerr := app.holderCtrler.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	h2, v2, xerr := app.govCtrler.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	if v0 != v1 || v1 != v2 {
		return nil, -1, xerrors.ErrCommit.Wrapf("GovApp.Commit() has wrong version number - v0:%v, v1:%v, v2:%v", v0, v1, v2)
	}

	appHash := tmhash.Sum(append(append(h0, h1...), h2...))
	app.logger.Debug("Committed", "version", v0, "appHash", abytes.HexBytes(appHash))
	return appHash, v0, nil
}

func (app *GovApp) Close() xerrors.XError {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	_ = app.assetCtrler.Close()
	_ = app.holderCtrler.Close()
	_ = app.govCtrler.Close()
	return nil
}
