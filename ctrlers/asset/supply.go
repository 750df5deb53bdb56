package asset

import (
	"encoding/json"
	"github.com/holiman/uint256"
	"github.com/lockvote/lockvote-go/ledger"
	abytes "github.com/lockvote/lockvote-go/types/bytes"
	"github.com/lockvote/lockvote-go/types/xerrors"
)

// Supply tracks the total issued amount and the amount currently pooled
// inside the governance engine. issued == sum(account balances) + pooled
// at every committed state.
type Supply struct {
	Issued *uint256.Int
	Pooled *uint256.Int
}

func NewSupply() *Supply {
	return &Supply{
		Issued: uint256.NewInt(0),
		Pooled: uint256.NewInt(0),
	}
}

func (s *Supply) Key() ledger.LedgerKey {
	return ledger.ToLedgerKey(abytes.ZeroBytes(32))
}

func (s *Supply) MarshalJSON() ([]byte, error) {
	tm := &struct {
		Issued string `json:"issued"`
		Pooled string `json:"pooled"`
	}{
		Issued: s.Issued.Dec(),
		Pooled: s.Pooled.Dec(),
	}
	return json.Marshal(tm)
}

func (s *Supply) UnmarshalJSON(bz []byte) error {
	tm := &struct {
		Issued string `json:"issued"`
		Pooled string `json:"pooled"`
	}{}
	if err := json.Unmarshal(bz, tm); err != nil {
		return err
	}
	issued, err := uint256.FromDecimal(tm.Issued)
	if err != nil {
		return err
	}
	pooled, err := uint256.FromDecimal(tm.Pooled)
	if err != nil {
		return err
	}
	s.Issued = issued
	s.Pooled = pooled
	return nil
}

func (s *Supply) Encode() ([]byte, xerrors.XError) {
	if bz, err := json.Marshal(s); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (s *Supply) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, s); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*Supply)(nil)
