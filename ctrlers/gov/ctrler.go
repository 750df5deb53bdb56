package gov

import (
	"github.com/holiman/uint256"
	cfg "github.com/lockvote/lockvote-go/cmd/config"
	"github.com/lockvote/lockvote-go/ctrlers/gov/proposal"
	ctrlertypes "github.com/lockvote/lockvote-go/ctrlers/types"
	"github.com/lockvote/lockvote-go/genesis"
	"github.com/lockvote/lockvote-go/ledger"
	"github.com/lockvote/lockvote-go/types"
	abytes "github.com/lockvote/lockvote-go/types/bytes"
	"github.com/lockvote/lockvote-go/types/xerrors"
	tmlog "github.com/tendermint/tendermint/libs/log"
	"sort"
	"sync"
)

// GovCtrler keeps the proposal registry and the vote ledger. Proposals
// are kept both in the ledger and in an in-memory array ordered by
// creation; the array is what OnLocked/OnUnlocked walk backwards, so
// the walk can stop at the first proposal whose voting window has
// closed.
type GovCtrler struct {
	*ctrlertypes.GovParams

	paramsLedger   *ledger.SimpleLedger[*ctrlertypes.GovParams]
	proposalLedger *ledger.SimpleLedger[*proposal.Proposal]

	allProposals    []*proposal.Proposal
	allProposalsMap map[ledger.LedgerKey]*proposal.Proposal

	holders ctrlertypes.IHolderHandler
	custody ctrlertypes.ICustodyHandler

	logger tmlog.Logger
	mtx    sync.RWMutex
}

func NewGovCtrler(config *cfg.Config, custody ctrlertypes.ICustodyHandler, logger tmlog.Logger) (*GovCtrler, xerrors.XError) {
	paramsLedger, xerr := ledger.NewSimpleLedger[*ctrlertypes.GovParams]("gov_params", config.DBDir(), 1, func() *ctrlertypes.GovParams { return &ctrlertypes.GovParams{} })
	if xerr != nil {
		return nil, xerr
	}

	params, xerr := paramsLedger.Get(ledger.ToLedgerKey(abytes.ZeroBytes(32)))
	if xerr != nil && xerr != xerrors.ErrNotFoundResult {
		_ = paramsLedger.Close()
		return nil, xerr
	} else if params == nil {
		params = ctrlertypes.DefaultGovParams()
	}

	proposalLedger, xerr := ledger.NewSimpleLedger[*proposal.Proposal]("proposals", config.DBDir(), 128, func() *proposal.Proposal { return &proposal.Proposal{} })
	if xerr != nil {
		_ = paramsLedger.Close()
		return nil, xerr
	}

	ctrler := &GovCtrler{
		GovParams:       params,
		paramsLedger:    paramsLedger,
		proposalLedger:  proposalLedger,
		allProposalsMap: make(map[ledger.LedgerKey]*proposal.Proposal),
		custody:         custody,
		logger:          logger.With("module", "lockvote_GovCtrler"),
	}
	if xerr := ctrler.loadProposals(); xerr != nil {
		_ = ctrler.Close()
		return nil, xerr
	}
	return ctrler, nil
}

// loadProposals rebuilds the creation-ordered array from the ledger.
// Ledger iteration is keyed by subject, so the order is recovered from
// the persisted sequence numbers.
func (ctrler *GovCtrler) loadProposals() xerrors.XError {
	var props []*proposal.Proposal
	if xerr := ctrler.proposalLedger.IterateAllItems(func(prop *proposal.Proposal) xerrors.XError {
		props = append(props, prop)
		return nil
	}); xerr != nil {
		return xerr
	}

	sort.Slice(props, func(i, j int) bool {
		return props[i].GetSeq() < props[j].GetSeq()
	})

	lastCreatedAt := int64(0)
	for _, prop := range props {
		if prop.GetCreatedAt() < lastCreatedAt {
			return xerrors.ErrInternalConsistency.Wrapf(
				"proposal order is broken: seq %v created at %v, previous at %v",
				prop.GetSeq(), prop.GetCreatedAt(), lastCreatedAt)
		}
		lastCreatedAt = prop.GetCreatedAt()
		ctrler.allProposals = append(ctrler.allProposals, prop)
		ctrler.allProposalsMap[prop.Key()] = prop
	}
	return nil
}

// SetHolderHandler wires the locked-balance source. It must be set
// before the first CastVote; the ctrlers reference each other, so
// wiring happens after both are constructed.
func (ctrler *GovCtrler) SetHolderHandler(h ctrlertypes.IHolderHandler) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	ctrler.holders = h
}

func (ctrler *GovCtrler) InitLedger(req interface{}) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	genAppState, ok := req.(*genesis.GenesisAppState)
	if !ok {
		return xerrors.ErrInitGenesis.Wrapf("wrong parameter: GovCtrler::InitLedger requires *genesis.GenesisAppState")
	}
	if genAppState.GovParams != nil {
		ctrler.GovParams = genAppState.GovParams
	}
	return ctrler.paramsLedger.Set(ctrler.GovParams)
}

// Propose registers a new subject. Subjects are unique for the lifetime
// of the registry, and creation timestamps may never step backwards;
// the reverse walk in OnLocked/OnUnlocked depends on that order.
func (ctrler *GovCtrler) Propose(subject types.Address, now int64) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	key := ledger.ToLedgerKey(subject)
	if _, ok := ctrler.allProposalsMap[key]; ok {
		return xerrors.ErrAlreadyProposed
	}
	if n := len(ctrler.allProposals); n > 0 && now < ctrler.allProposals[n-1].GetCreatedAt() {
		return xerrors.ErrInvalidTimestamp.Wrapf(
			"proposed at %v, last proposal at %v", now, ctrler.allProposals[n-1].GetCreatedAt())
	}

	prop := proposal.NewProposal(subject, int64(len(ctrler.allProposals))+1, now)
	if xerr := ctrler.proposalLedger.Set(prop); xerr != nil {
		return xerr
	}
	ctrler.allProposals = append(ctrler.allProposals, prop)
	ctrler.allProposalsMap[key] = prop

	ctrler.logger.Debug("New proposal", "subject", subject, "seq", prop.GetSeq(), "createdAt", now)
	return nil
}

// CastVote records the voter's stance with their current locked balance
// as the weight. Only holders with a non-zero locked balance may vote,
// and only while the proposal's voting window is open.
func (ctrler *GovCtrler) CastVote(subject, voter types.Address, support bool, now int64) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	prop, ok := ctrler.allProposalsMap[ledger.ToLedgerKey(subject)]
	if !ok {
		return xerrors.ErrNotFoundProposal
	}
	if !prop.IsActive(now, ctrler.VotingPeriodSeconds()) {
		return xerrors.ErrVotingClosed
	}

	weight := ctrler.holders.LockedOf(voter)
	if weight == nil || weight.IsZero() {
		return xerrors.ErrNotHolder
	}

	if xerr := prop.DoVote(voter, support, weight, now); xerr != nil {
		return xerr
	}
	return ctrler.proposalLedger.Set(prop)
}

func (ctrler *GovCtrler) OnLocked(addr types.Address, amt *uint256.Int, now int64) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.propagate(addr, amt, false, now)
}

func (ctrler *GovCtrler) OnUnlocked(addr types.Address, amt *uint256.Int, now int64) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.propagate(addr, amt, true, now)
}

// propagate walks the proposals from newest to oldest and applies the
// delta to the aggregates of every active proposal the holder has voted
// on. Creation timestamps never decrease, so the first proposal whose
// window has closed ends the walk: everything older is closed too.
// A fault mid-walk reverts the proposals already adjusted.
func (ctrler *GovCtrler) propagate(addr types.Address, delta *uint256.Int, neg bool, now int64) xerrors.XError {
	periodSeconds := ctrler.VotingPeriodSeconds()

	var touched []*proposal.Proposal
	for i := len(ctrler.allProposals) - 1; i >= 0; i-- {
		prop := ctrler.allProposals[i]
		if !prop.IsActive(now, periodSeconds) {
			break
		}

		adjusted, xerr := prop.AdjustWeight(addr, delta, neg)
		if xerr != nil {
			for _, p := range touched {
				_, _ = p.AdjustWeight(addr, delta, !neg)
				_ = ctrler.proposalLedger.Set(p)
			}
			return xerr
		}
		if adjusted {
			if xerr := ctrler.proposalLedger.Set(prop); xerr != nil {
				return xerr
			}
			touched = append(touched, prop)
		}
	}
	return nil
}

// IsSupported evaluates the decision rule: the support side must hold a
// strict majority of the cast weight, and the total cast weight must
// reach the quorum threshold of the issued supply. In strict mode an
// open voting window yields false regardless of the aggregates.
func (ctrler *GovCtrler) IsSupported(subject types.Address, strict bool, now int64) (bool, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	prop, ok := ctrler.allProposalsMap[ledger.ToLedgerKey(subject)]
	if !ok {
		return false, xerrors.ErrNotFoundProposal
	}

	if strict && prop.IsActive(now, ctrler.VotingPeriodSeconds()) {
		return false, nil
	}

	support, reject := prop.Result()
	if support.Cmp(reject) <= 0 {
		return false, nil
	}

	turnout := new(uint256.Int).Add(support, reject)
	threshold := ctrler.QuorumThreshold(ctrler.custody.TotalIssued())
	return turnout.Cmp(threshold) >= 0, nil
}

func (ctrler *GovCtrler) IsProposed(subject types.Address) bool {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	_, ok := ctrler.allProposalsMap[ledger.ToLedgerKey(subject)]
	return ok
}

func (ctrler *GovCtrler) ProposalCount() int {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return len(ctrler.allProposals)
}

func (ctrler *GovCtrler) VotingDuration() int64 {
	return ctrler.VotingPeriodSeconds()
}

func (ctrler *GovCtrler) VoteCountOf(subject types.Address) (int, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	prop, ok := ctrler.allProposalsMap[ledger.ToLedgerKey(subject)]
	if !ok {
		return 0, xerrors.ErrNotFoundProposal
	}
	return prop.VoteCount(), nil
}

func (ctrler *GovCtrler) HasVoted(subject, voter types.Address) (bool, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	prop, ok := ctrler.allProposalsMap[ledger.ToLedgerKey(subject)]
	if !ok {
		return false, xerrors.ErrNotFoundProposal
	}
	return prop.HasVoted(voter), nil
}

func (ctrler *GovCtrler) VoteOf(subject, voter types.Address) (*proposal.Vote, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	prop, ok := ctrler.allProposalsMap[ledger.ToLedgerKey(subject)]
	if !ok {
		return nil, xerrors.ErrNotFoundProposal
	}
	return prop.VoteOf(voter), nil
}

// ResultOf returns the current weight aggregates of the subject.
func (ctrler *GovCtrler) ResultOf(subject types.Address) (*uint256.Int, *uint256.Int, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	prop, ok := ctrler.allProposalsMap[ledger.ToLedgerKey(subject)]
	if !ok {
		return nil, nil, xerrors.ErrNotFoundProposal
	}
	support, reject := prop.Result()
	return support, reject, nil
}

func (ctrler *GovCtrler) ReadProposal(subject types.Address) (*proposal.Proposal, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	if prop, xerr := ctrler.proposalLedger.Read(ledger.ToLedgerKey(subject)); xerr != nil {
		if xerr == xerrors.ErrNotFoundResult {
			return nil, xerrors.ErrNotFoundProposal
		}
		return nil, xerr
	} else {
		return prop, nil
	}
}

func (ctrler *GovCtrler) ReadAllProposals() ([]*proposal.Proposal, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	var props []*proposal.Proposal
	if xerr := ctrler.proposalLedger.IterateAllItems(func(prop *proposal.Proposal) xerrors.XError {
		props = append(props, prop)
		return nil
	}); xerr != nil {
		return nil, xerr
	}
	sort.Slice(props, func(i, j int) bool {
		return props[i].GetSeq() < props[j].GetSeq()
	})
	return props, nil
}

func (ctrler *GovCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	h0, v0, xerr := ctrler.paramsLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	h1, v1, xerr := ctrler.proposalLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	if v0 != v1 {
		return nil, -1, xerrors.ErrCommit.Wrapf("GovCtrler.Commit() has wrong version number - v0:%v, v1:%v", v0, v1)
	}
	return append(h0, h1...), v0, nil
}

func (ctrler *GovCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.paramsLedger != nil {
		if xerr := ctrler.paramsLedger.Close(); xerr != nil {
			ctrler.logger.Error("GovCtrler", "paramsLedger.Close() returns error", xerr.Error())
		}
		ctrler.paramsLedger = nil
	}
	if ctrler.proposalLedger != nil {
		if xerr := ctrler.proposalLedger.Close(); xerr != nil {
			ctrler.logger.Error("GovCtrler", "proposalLedger.Close() returns error", xerr.Error())
		}
		ctrler.proposalLedger = nil
	}
	return nil
}

var _ ctrlertypes.ILedgerHandler = (*GovCtrler)(nil)
var _ ctrlertypes.IWeightHandler = (*GovCtrler)(nil)
var _ ctrlertypes.IGovHandler = (*GovCtrler)(nil)
