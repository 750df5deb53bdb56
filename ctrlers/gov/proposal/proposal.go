package proposal

import (
	"encoding/json"
	"github.com/holiman/uint256"
	"github.com/lockvote/lockvote-go/ledger"
	"github.com/lockvote/lockvote-go/types"
	"github.com/lockvote/lockvote-go/types/xerrors"
	"sync"
)

// Proposal carries the two running weight aggregates and the per-voter
// vote records of one subject. The aggregates are maintained
// incrementally: DoVote moves the voter's current weight between the
// sides, and AdjustWeight applies locked-balance deltas afterwards.
// They are never recomputed from the votes.
type Proposal struct {
	Subject       types.Address `json:"subject"`
	Seq           int64         `json:"seq,string"`
	CreatedAt     int64         `json:"createdAt,string"`
	SupportWeight *uint256.Int  `json:"supportWeight"`
	RejectWeight  *uint256.Int  `json:"rejectWeight"`

	votes      map[string]*Vote
	voterOrder []types.Address

	mtx sync.RWMutex
}

func NewProposal(subject types.Address, seq, createdAt int64) *Proposal {
	return &Proposal{
		Subject:       subject,
		Seq:           seq,
		CreatedAt:     createdAt,
		SupportWeight: uint256.NewInt(0),
		RejectWeight:  uint256.NewInt(0),
		votes:         make(map[string]*Vote),
	}
}

func (prop *Proposal) GetSubject() types.Address {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return prop.Subject
}

func (prop *Proposal) GetSeq() int64 {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return prop.Seq
}

func (prop *Proposal) GetCreatedAt() int64 {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return prop.CreatedAt
}

// IsActive reports whether `now` is still inside the voting window.
// The boundary second `createdAt + periodSeconds` is in the window.
func (prop *Proposal) IsActive(now, periodSeconds int64) bool {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return now <= prop.CreatedAt+periodSeconds
}

// DoVote records or updates the voter's stance using `weight`, the
// voter's current locked balance.
//   - first vote: the weight is added to the chosen side.
//   - same stance again: only the timestamp is refreshed.
//   - stance switch: the weight is subtracted from the old side and
//     added to the new one. An underflowing subtraction means the
//     aggregates diverged from the votes and aborts without applying
//     either half.
func (prop *Proposal) DoVote(voter types.Address, support bool, weight *uint256.Int, now int64) xerrors.XError {
	prop.mtx.Lock()
	defer prop.mtx.Unlock()

	v, ok := prop.votes[voter.String()]
	if !ok {
		prop.votes[voter.String()] = &Vote{
			Voter:   voter,
			Support: support,
			CastAt:  now,
		}
		prop.voterOrder = append(prop.voterOrder, voter)
		side := prop.sideOf(support)
		_ = side.Add(side, weight)
		return nil
	}

	if v.Support == support {
		v.CastAt = now
		return nil
	}

	if xerr := prop.subSide(v.Support, weight); xerr != nil {
		return xerr
	}
	side := prop.sideOf(support)
	_ = side.Add(side, weight)
	v.Support = support
	v.CastAt = now
	return nil
}

// AdjustWeight applies a locked-balance delta to the side the voter
// currently backs. Non-voters are skipped; the returned bool reports
// whether an aggregate was touched.
func (prop *Proposal) AdjustWeight(voter types.Address, delta *uint256.Int, neg bool) (bool, xerrors.XError) {
	prop.mtx.Lock()
	defer prop.mtx.Unlock()

	v, ok := prop.votes[voter.String()]
	if !ok {
		return false, nil
	}

	if neg {
		if xerr := prop.subSide(v.Support, delta); xerr != nil {
			return false, xerr
		}
	} else {
		side := prop.sideOf(v.Support)
		_ = side.Add(side, delta)
	}
	return true, nil
}

func (prop *Proposal) sideOf(support bool) *uint256.Int {
	if support {
		return prop.SupportWeight
	}
	return prop.RejectWeight
}

func (prop *Proposal) subSide(support bool, amt *uint256.Int) xerrors.XError {
	side := prop.sideOf(support)
	if amt.Cmp(side) > 0 {
		return xerrors.ErrInternalConsistency.Wrapf(
			"aggregate underflow: proposal %v, support %v, aggregate %v, delta %v",
			prop.Subject, support, side.Dec(), amt.Dec())
	}
	_ = side.Sub(side, amt)
	return nil
}

func (prop *Proposal) HasVoted(voter types.Address) bool {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	_, ok := prop.votes[voter.String()]
	return ok
}

func (prop *Proposal) VoteOf(voter types.Address) *Vote {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	if v, ok := prop.votes[voter.String()]; ok {
		return v.Clone()
	}
	return nil
}

func (prop *Proposal) VoteCount() int {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return len(prop.votes)
}

func (prop *Proposal) Voters() []types.Address {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return append([]types.Address(nil), prop.voterOrder...)
}

// Result returns copies of the two aggregates.
func (prop *Proposal) Result() (*uint256.Int, *uint256.Int) {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return new(uint256.Int).Set(prop.SupportWeight), new(uint256.Int).Set(prop.RejectWeight)
}

func (prop *Proposal) Key() ledger.LedgerKey {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return prop.Subject.Array32()
}

func (prop *Proposal) MarshalJSON() ([]byte, error) {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	// votes are encoded in cast order so the encoding is deterministic
	votes := make([]*Vote, 0, len(prop.voterOrder))
	for _, addr := range prop.voterOrder {
		votes = append(votes, prop.votes[addr.String()])
	}

	tm := &struct {
		Subject       types.Address `json:"subject"`
		Seq           int64         `json:"seq,string"`
		CreatedAt     int64         `json:"createdAt,string"`
		SupportWeight string        `json:"supportWeight"`
		RejectWeight  string        `json:"rejectWeight"`
		Votes         []*Vote       `json:"votes"`
	}{
		Subject:       prop.Subject,
		Seq:           prop.Seq,
		CreatedAt:     prop.CreatedAt,
		SupportWeight: prop.SupportWeight.Dec(),
		RejectWeight:  prop.RejectWeight.Dec(),
		Votes:         votes,
	}
	return json.Marshal(tm)
}

func (prop *Proposal) UnmarshalJSON(bz []byte) error {
	tm := &struct {
		Subject       types.Address `json:"subject"`
		Seq           int64         `json:"seq,string"`
		CreatedAt     int64         `json:"createdAt,string"`
		SupportWeight string        `json:"supportWeight"`
		RejectWeight  string        `json:"rejectWeight"`
		Votes         []*Vote       `json:"votes"`
	}{}
	if err := json.Unmarshal(bz, tm); err != nil {
		return err
	}
	supportWeight, err := uint256.FromDecimal(tm.SupportWeight)
	if err != nil {
		return err
	}
	rejectWeight, err := uint256.FromDecimal(tm.RejectWeight)
	if err != nil {
		return err
	}

	prop.mtx.Lock()
	defer prop.mtx.Unlock()

	prop.Subject = tm.Subject
	prop.Seq = tm.Seq
	prop.CreatedAt = tm.CreatedAt
	prop.SupportWeight = supportWeight
	prop.RejectWeight = rejectWeight
	prop.votes = make(map[string]*Vote)
	prop.voterOrder = prop.voterOrder[:0]
	for _, v := range tm.Votes {
		prop.votes[v.Voter.String()] = v
		prop.voterOrder = append(prop.voterOrder, v.Voter)
	}
	return nil
}

func (prop *Proposal) Encode() ([]byte, xerrors.XError) {
	if bz, err := json.Marshal(prop); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (prop *Proposal) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, prop); err != nil {
		return xerrors.From(err)
	}
	return nil
}

func (prop *Proposal) String() string {
	if bz, err := json.Marshal(prop); err != nil {
		return "unable to marshal proposal"
	} else {
		return string(bz)
	}
}

var _ ledger.ILedgerItem = (*Proposal)(nil)
var _ json.Marshaler = (*Proposal)(nil)
var _ json.Unmarshaler = (*Proposal)(nil)
