package proposal

import (
	"encoding/json"
	"github.com/holiman/uint256"
	"github.com/lockvote/lockvote-go/types"
	"github.com/lockvote/lockvote-go/types/xerrors"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestDoVoteFirstAndRepeat(t *testing.T) {
	prop := NewProposal(types.RandAddress(), 1, 100)
	voter := types.RandAddress()

	require.NoError(t, prop.DoVote(voter, true, uint256.NewInt(100), 110))
	support, reject := prop.Result()
	require.Equal(t, uint256.NewInt(100), support)
	require.Equal(t, uint256.NewInt(0), reject)
	require.Equal(t, 1, prop.VoteCount())

	// same stance again: aggregates unchanged, timestamp refreshed
	require.NoError(t, prop.DoVote(voter, true, uint256.NewInt(100), 120))
	support, reject = prop.Result()
	require.Equal(t, uint256.NewInt(100), support)
	require.Equal(t, uint256.NewInt(0), reject)
	require.Equal(t, 1, prop.VoteCount())
	require.Equal(t, int64(120), prop.VoteOf(voter).CastAt)
}

func TestDoVoteSwitchSide(t *testing.T) {
	prop := NewProposal(types.RandAddress(), 1, 100)
	voter := types.RandAddress()

	require.NoError(t, prop.DoVote(voter, true, uint256.NewInt(100), 110))
	require.NoError(t, prop.DoVote(voter, false, uint256.NewInt(100), 120))

	support, reject := prop.Result()
	require.Equal(t, uint256.NewInt(0), support)
	require.Equal(t, uint256.NewInt(100), reject)

	v := prop.VoteOf(voter)
	require.False(t, v.Support)
	require.Equal(t, int64(120), v.CastAt)
}

func TestDoVoteSwitchUnderflow(t *testing.T) {
	prop := NewProposal(types.RandAddress(), 1, 100)
	voter := types.RandAddress()

	require.NoError(t, prop.DoVote(voter, true, uint256.NewInt(100), 110))

	// switching with a weight larger than the aggregate would drive the
	// support side negative. Neither side may change.
	xerr := prop.DoVote(voter, false, uint256.NewInt(101), 120)
	require.NotNil(t, xerr)
	require.Equal(t, xerrors.ErrCodeInternalConsistency, xerr.Code())

	support, reject := prop.Result()
	require.Equal(t, uint256.NewInt(100), support)
	require.Equal(t, uint256.NewInt(0), reject)
	require.True(t, prop.VoteOf(voter).Support)
}

func TestAdjustWeight(t *testing.T) {
	prop := NewProposal(types.RandAddress(), 1, 100)
	voter := types.RandAddress()
	stranger := types.RandAddress()

	require.NoError(t, prop.DoVote(voter, false, uint256.NewInt(100), 110))

	touched, xerr := prop.AdjustWeight(voter, uint256.NewInt(50), false)
	require.NoError(t, xerr)
	require.True(t, touched)

	touched, xerr = prop.AdjustWeight(voter, uint256.NewInt(30), true)
	require.NoError(t, xerr)
	require.True(t, touched)

	// non-voter deltas do not touch the aggregates
	touched, xerr = prop.AdjustWeight(stranger, uint256.NewInt(999), false)
	require.NoError(t, xerr)
	require.False(t, touched)

	support, reject := prop.Result()
	require.Equal(t, uint256.NewInt(0), support)
	require.Equal(t, uint256.NewInt(120), reject)
}

func TestAdjustWeightUnderflow(t *testing.T) {
	prop := NewProposal(types.RandAddress(), 1, 100)
	voter := types.RandAddress()

	require.NoError(t, prop.DoVote(voter, true, uint256.NewInt(10), 110))

	touched, xerr := prop.AdjustWeight(voter, uint256.NewInt(11), true)
	require.False(t, touched)
	require.NotNil(t, xerr)
	require.Equal(t, xerrors.ErrCodeInternalConsistency, xerr.Code())

	support, _ := prop.Result()
	require.Equal(t, uint256.NewInt(10), support)
}

func TestIsActiveBoundary(t *testing.T) {
	prop := NewProposal(types.RandAddress(), 1, 100)

	require.True(t, prop.IsActive(100, 10))
	require.True(t, prop.IsActive(110, 10)) // the boundary second is in the window
	require.False(t, prop.IsActive(111, 10))
}

func TestProposalCodec(t *testing.T) {
	prop := NewProposal(types.RandAddress(), 7, 1000)
	voter0 := types.RandAddress()
	voter1 := types.RandAddress()
	require.NoError(t, prop.DoVote(voter0, true, uint256.NewInt(100), 1001))
	require.NoError(t, prop.DoVote(voter1, false, uint256.NewInt(40), 1002))

	bz, err := json.Marshal(prop)
	require.NoError(t, err)

	decoded := &Proposal{}
	require.NoError(t, json.Unmarshal(bz, decoded))

	require.Equal(t, prop.Subject, decoded.Subject)
	require.Equal(t, int64(7), decoded.Seq)
	require.Equal(t, int64(1000), decoded.CreatedAt)
	require.Equal(t, prop.Voters(), decoded.Voters())
	require.True(t, decoded.VoteOf(voter0).Support)
	require.False(t, decoded.VoteOf(voter1).Support)

	support, reject := decoded.Result()
	require.Equal(t, uint256.NewInt(100), support)
	require.Equal(t, uint256.NewInt(40), reject)
}
