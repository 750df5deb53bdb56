package types

import (
	"encoding/json"
	"github.com/holiman/uint256"
	"github.com/lockvote/lockvote-go/ledger"
	abytes "github.com/lockvote/lockvote-go/types/bytes"
	"github.com/lockvote/lockvote-go/types/xerrors"
	"sync"
)

type GovParams struct {
	version             int64
	votingPeriodSeconds int64
	quorumPercent       int64

	mtx sync.RWMutex
}

func DefaultGovParams() *GovParams {
	return &GovParams{
		version:             1,
		votingPeriodSeconds: 604800, // = 60 * 60 * 24 * 7 => 7 days
		quorumPercent:       5,      // 5% of total issued supply
	}
}

func Test1GovParams() *GovParams {
	return &GovParams{
		version:             1,
		votingPeriodSeconds: 10,
		quorumPercent:       5,
	}
}

func (params *GovParams) Version() int64 {
	params.mtx.RLock()
	defer params.mtx.RUnlock()

	return params.version
}

func (params *GovParams) VotingPeriodSeconds() int64 {
	params.mtx.RLock()
	defer params.mtx.RUnlock()

	return params.votingPeriodSeconds
}

func (params *GovParams) QuorumPercent() int64 {
	params.mtx.RLock()
	defer params.mtx.RUnlock()

	return params.quorumPercent
}

// QuorumThreshold computes `totalIssued * quorumPercent / 100` in
// floor-division integer arithmetic. Quorum is a threshold check,
// not a proportion to report.
func (params *GovParams) QuorumThreshold(totalIssued *uint256.Int) *uint256.Int {
	params.mtx.RLock()
	defer params.mtx.RUnlock()

	ret := new(uint256.Int).Mul(totalIssued, uint256.NewInt(uint64(params.quorumPercent)))
	return ret.Div(ret, uint256.NewInt(100))
}

func (params *GovParams) MarshalJSON() ([]byte, error) {
	tm := &struct {
		Version             int64 `json:"version,string"`
		VotingPeriodSeconds int64 `json:"votingPeriodSeconds,string"`
		QuorumPercent       int64 `json:"quorumPercent,string"`
	}{
		Version:             params.version,
		VotingPeriodSeconds: params.votingPeriodSeconds,
		QuorumPercent:       params.quorumPercent,
	}
	return json.Marshal(tm)
}

func (params *GovParams) UnmarshalJSON(bz []byte) error {
	tm := &struct {
		Version             int64 `json:"version,string"`
		VotingPeriodSeconds int64 `json:"votingPeriodSeconds,string"`
		QuorumPercent       int64 `json:"quorumPercent,string"`
	}{}
	if err := json.Unmarshal(bz, tm); err != nil {
		return err
	}
	params.version = tm.Version
	params.votingPeriodSeconds = tm.VotingPeriodSeconds
	params.quorumPercent = tm.QuorumPercent
	return nil
}

func (params *GovParams) Key() ledger.LedgerKey {
	return ledger.ToLedgerKey(abytes.ZeroBytes(32))
}

func (params *GovParams) Encode() ([]byte, xerrors.XError) {
	if bz, err := json.Marshal(params); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (params *GovParams) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, params); err != nil {
		return xerrors.From(err)
	}
	return nil
}

func (params *GovParams) String() string {
	if bz, err := json.Marshal(params); err != nil {
		return "unable to marshal gov params"
	} else {
		return string(bz)
	}
}

var _ ledger.ILedgerItem = (*GovParams)(nil)
var _ json.Marshaler = (*GovParams)(nil)
var _ json.Unmarshaler = (*GovParams)(nil)
