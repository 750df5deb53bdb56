package gov

import (
	"github.com/holiman/uint256"
	cfg "github.com/lockvote/lockvote-go/cmd/config"
	ctrlertypes "github.com/lockvote/lockvote-go/ctrlers/types"
	"github.com/lockvote/lockvote-go/genesis"
	"github.com/lockvote/lockvote-go/types"
	"github.com/lockvote/lockvote-go/types/xerrors"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"
	"os"
	"path/filepath"
	"testing"
)

type holdersMock struct {
	locked map[[20]byte]*uint256.Int
}

func newHoldersMock() *holdersMock {
	return &holdersMock{locked: make(map[[20]byte]*uint256.Int)}
}

func (m *holdersMock) setLocked(addr types.Address, amt *uint256.Int) {
	m.locked[addr.Array20()] = amt.Clone()
}

func (m *holdersMock) LockedOf(addr types.Address) *uint256.Int {
	if amt, ok := m.locked[addr.Array20()]; ok {
		return amt.Clone()
	}
	return uint256.NewInt(0)
}

type custodyStub struct {
	issued *uint256.Int
}

func (m *custodyStub) TransferIn(addr types.Address, amt *uint256.Int) xerrors.XError {
	return nil
}

func (m *custodyStub) TransferOut(addr types.Address, amt *uint256.Int) xerrors.XError {
	return nil
}

func (m *custodyStub) TotalIssued() *uint256.Int {
	return m.issued.Clone()
}

var (
	govCtrler *GovCtrler
	holders   *holdersMock
	custody   *custodyStub
)

// the test params use a 10 second voting window and a 5% quorum
func newTestCtrler(t *testing.T) {
	rootDir := filepath.Join(os.TempDir(), "lockvote-gov-test")
	os.RemoveAll(rootDir)

	config := cfg.DefaultConfig().SetRoot(rootDir)
	require.NoError(t, os.MkdirAll(config.DBDir(), 0700))

	holders = newHoldersMock()
	custody = &custodyStub{issued: uint256.NewInt(1000)}

	var xerr xerrors.XError
	govCtrler, xerr = NewGovCtrler(config, custody, tmlog.NewNopLogger())
	require.NoError(t, xerr)
	govCtrler.SetHolderHandler(holders)

	require.NoError(t, govCtrler.InitLedger(&genesis.GenesisAppState{
		GovParams: ctrlertypes.Test1GovParams(),
	}))
}

func TestProposeUniqueAndOrdered(t *testing.T) {
	newTestCtrler(t)

	subject0 := types.RandAddress()
	subject1 := types.RandAddress()

	require.NoError(t, govCtrler.Propose(subject0, 100))
	require.Equal(t, xerrors.ErrAlreadyProposed, govCtrler.Propose(subject0, 101))

	// a second subject at the same instant is fine, an older one is not
	require.NoError(t, govCtrler.Propose(subject1, 100))
	xerr := govCtrler.Propose(types.RandAddress(), 99)
	require.NotNil(t, xerr)
	require.Equal(t, xerrors.ErrCodeInvalidTimestamp, xerr.Code())

	require.Equal(t, 2, govCtrler.ProposalCount())
	require.True(t, govCtrler.IsProposed(subject0))
	require.False(t, govCtrler.IsProposed(types.RandAddress()))
}

func TestCastVoteGuards(t *testing.T) {
	newTestCtrler(t)

	subject := types.RandAddress()
	voter := types.RandAddress()
	holders.setLocked(voter, uint256.NewInt(100))

	require.Equal(t, xerrors.ErrNotFoundProposal, govCtrler.CastVote(subject, voter, true, 100))

	require.NoError(t, govCtrler.Propose(subject, 100))

	// no locked balance, no vote
	require.Equal(t, xerrors.ErrNotHolder, govCtrler.CastVote(subject, types.RandAddress(), true, 105))

	// the window closes after createdAt + votingPeriodSeconds
	require.NoError(t, govCtrler.CastVote(subject, voter, true, 110))
	require.Equal(t, xerrors.ErrVotingClosed, govCtrler.CastVote(subject, voter, true, 111))
}

func TestCastVoteSwitchSide(t *testing.T) {
	newTestCtrler(t)

	subject := types.RandAddress()
	voter := types.RandAddress()
	holders.setLocked(voter, uint256.NewInt(150))

	require.NoError(t, govCtrler.Propose(subject, 100))
	require.NoError(t, govCtrler.CastVote(subject, voter, true, 101))

	support, reject, xerr := govCtrler.ResultOf(subject)
	require.NoError(t, xerr)
	require.Equal(t, uint256.NewInt(150), support)
	require.Equal(t, uint256.NewInt(0), reject)

	require.NoError(t, govCtrler.CastVote(subject, voter, false, 102))

	support, reject, xerr = govCtrler.ResultOf(subject)
	require.NoError(t, xerr)
	require.Equal(t, uint256.NewInt(0), support)
	require.Equal(t, uint256.NewInt(150), reject)

	cnt, xerr := govCtrler.VoteCountOf(subject)
	require.NoError(t, xerr)
	require.Equal(t, 1, cnt)
}

func TestPropagationStopsAtClosedWindow(t *testing.T) {
	newTestCtrler(t)

	subjectOld := types.RandAddress()
	subjectNew := types.RandAddress()
	subjectIdle := types.RandAddress()
	voter := types.RandAddress()
	holders.setLocked(voter, uint256.NewInt(100))

	require.NoError(t, govCtrler.Propose(subjectOld, 0))
	require.NoError(t, govCtrler.CastVote(subjectOld, voter, true, 5))

	require.NoError(t, govCtrler.Propose(subjectNew, 100))
	require.NoError(t, govCtrler.Propose(subjectIdle, 100))
	require.NoError(t, govCtrler.CastVote(subjectNew, voter, true, 101))

	// at t=105 the old window is closed; only the new proposal moves
	require.NoError(t, govCtrler.OnLocked(voter, uint256.NewInt(50), 105))

	support, _, _ := govCtrler.ResultOf(subjectOld)
	require.Equal(t, uint256.NewInt(100), support)
	support, _, _ = govCtrler.ResultOf(subjectNew)
	require.Equal(t, uint256.NewInt(150), support)

	// never voted on, never adjusted
	support, reject, _ := govCtrler.ResultOf(subjectIdle)
	require.True(t, support.IsZero())
	require.True(t, reject.IsZero())
}

func TestPropagationFaultCompensates(t *testing.T) {
	newTestCtrler(t)

	subject0 := types.RandAddress()
	subject1 := types.RandAddress()
	voter := types.RandAddress()
	other := types.RandAddress()
	holders.setLocked(voter, uint256.NewInt(100))
	holders.setLocked(other, uint256.NewInt(100))

	require.NoError(t, govCtrler.Propose(subject0, 100))
	require.NoError(t, govCtrler.Propose(subject1, 100))
	require.NoError(t, govCtrler.CastVote(subject0, voter, true, 101))
	require.NoError(t, govCtrler.CastVote(subject1, voter, true, 101))
	require.NoError(t, govCtrler.CastVote(subject1, other, true, 101))

	// a 150 delta fits subject1's aggregate (200) but underflows
	// subject0's (100). The walk visits subject1 first; the fault on
	// subject0 must restore subject1.
	xerr := govCtrler.OnUnlocked(voter, uint256.NewInt(150), 105)
	require.NotNil(t, xerr)
	require.Equal(t, xerrors.ErrCodeInternalConsistency, xerr.Code())

	support, _, _ := govCtrler.ResultOf(subject0)
	require.Equal(t, uint256.NewInt(100), support)
	support, _, _ = govCtrler.ResultOf(subject1)
	require.Equal(t, uint256.NewInt(200), support)
}

func TestIsSupported(t *testing.T) {
	newTestCtrler(t)

	subject := types.RandAddress()
	voterA := types.RandAddress()
	voterB := types.RandAddress()
	holders.setLocked(voterA, uint256.NewInt(40))
	holders.setLocked(voterB, uint256.NewInt(20))

	require.NoError(t, govCtrler.Propose(subject, 100))
	require.NoError(t, govCtrler.CastVote(subject, voterA, true, 101))

	// quorum threshold is 5% of 1000 = 50; turnout 40 is short of it
	ok, xerr := govCtrler.IsSupported(subject, false, 105)
	require.NoError(t, xerr)
	require.False(t, ok)

	// a reject vote raises the turnout over the threshold while support
	// still holds the strict majority
	require.NoError(t, govCtrler.CastVote(subject, voterB, false, 102))
	ok, xerr = govCtrler.IsSupported(subject, false, 105)
	require.NoError(t, xerr)
	require.True(t, ok)

	// strict mode refuses to decide while the window is open
	ok, xerr = govCtrler.IsSupported(subject, true, 105)
	require.NoError(t, xerr)
	require.False(t, ok)
	ok, xerr = govCtrler.IsSupported(subject, true, 111)
	require.NoError(t, xerr)
	require.True(t, ok)

	_, xerr = govCtrler.IsSupported(types.RandAddress(), false, 105)
	require.Equal(t, xerrors.ErrNotFoundProposal, xerr)
}

func TestIsSupportedTie(t *testing.T) {
	newTestCtrler(t)

	subject := types.RandAddress()
	voterA := types.RandAddress()
	voterB := types.RandAddress()
	holders.setLocked(voterA, uint256.NewInt(100))
	holders.setLocked(voterB, uint256.NewInt(100))

	require.NoError(t, govCtrler.Propose(subject, 100))
	require.NoError(t, govCtrler.CastVote(subject, voterA, true, 101))
	require.NoError(t, govCtrler.CastVote(subject, voterB, false, 102))

	// turnout 200 clears the quorum but a tie is not a majority
	ok, xerr := govCtrler.IsSupported(subject, false, 105)
	require.NoError(t, xerr)
	require.False(t, ok)
}

func TestCommitAndReload(t *testing.T) {
	newTestCtrler(t)

	subject0 := types.RandAddress()
	subject1 := types.RandAddress()
	voter := types.RandAddress()
	holders.setLocked(voter, uint256.NewInt(70))

	require.NoError(t, govCtrler.Propose(subject0, 100))
	require.NoError(t, govCtrler.Propose(subject1, 200))
	require.NoError(t, govCtrler.CastVote(subject1, voter, false, 201))

	_, _, xerr := govCtrler.Commit()
	require.NoError(t, xerr)
	require.NoError(t, govCtrler.Close())

	rootDir := filepath.Join(os.TempDir(), "lockvote-gov-test")
	config := cfg.DefaultConfig().SetRoot(rootDir)

	reloaded, xerr := NewGovCtrler(config, custody, tmlog.NewNopLogger())
	require.NoError(t, xerr)
	defer reloaded.Close()
	reloaded.SetHolderHandler(holders)

	require.Equal(t, 2, reloaded.ProposalCount())
	require.Equal(t, int64(10), reloaded.VotingPeriodSeconds())

	props, xerr := reloaded.ReadAllProposals()
	require.NoError(t, xerr)
	require.Equal(t, int64(1), props[0].GetSeq())
	require.Equal(t, int64(2), props[1].GetSeq())

	_, reject, xerr := reloaded.ResultOf(subject1)
	require.NoError(t, xerr)
	require.Equal(t, uint256.NewInt(70), reject)

	// creation order survives the restart: an older timestamp still fails
	xerr = reloaded.Propose(types.RandAddress(), 150)
	require.NotNil(t, xerr)
	require.Equal(t, xerrors.ErrCodeInvalidTimestamp, xerr.Code())
}
