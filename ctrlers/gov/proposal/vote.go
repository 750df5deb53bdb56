package proposal

import (
	"encoding/json"
	"github.com/lockvote/lockvote-go/types"
	"github.com/lockvote/lockvote-go/types/xerrors"
)

// Vote is one holder's current stance on a proposal. There is at most
// one per (proposal, voter); re-voting updates it in place.
type Vote struct {
	Voter   types.Address `json:"voter"`
	Support bool          `json:"support"`
	CastAt  int64         `json:"castAt,string"`
}

func (v *Vote) Clone() *Vote {
	return &Vote{
		Voter:   append(types.Address(nil), v.Voter...),
		Support: v.Support,
		CastAt:  v.CastAt,
	}
}

func (v *Vote) Encode() ([]byte, xerrors.XError) {
	if bz, err := json.Marshal(v); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}
