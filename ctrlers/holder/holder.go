package holder

import (
	"encoding/json"
	"github.com/holiman/uint256"
	"github.com/lockvote/lockvote-go/ledger"
	"github.com/lockvote/lockvote-go/types"
	"github.com/lockvote/lockvote-go/types/xerrors"
	"sync"
)

// Holder is a participant's currently locked balance: the weight their
// votes carry. A holder record is never deleted, only zeroed.
type Holder struct {
	Address types.Address `json:"address"`
	Locked  *uint256.Int  `json:"locked"`

	mtx sync.RWMutex
}

func NewHolder(addr types.Address) *Holder {
	return &Holder{
		Address: addr,
		Locked:  uint256.NewInt(0),
	}
}

func (h *Holder) GetAddress() types.Address {
	h.mtx.RLock()
	defer h.mtx.RUnlock()

	return h.Address
}

func (h *Holder) AddLocked(amt *uint256.Int) xerrors.XError {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	_ = h.Locked.Add(h.Locked, amt)
	return nil
}

func (h *Holder) SubLocked(amt *uint256.Int) xerrors.XError {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if amt.Cmp(h.Locked) > 0 {
		return xerrors.ErrInsufficientBalance
	}
	_ = h.Locked.Sub(h.Locked, amt)
	return nil
}

func (h *Holder) GetLocked() *uint256.Int {
	h.mtx.RLock()
	defer h.mtx.RUnlock()

	return new(uint256.Int).Set(h.Locked)
}

func (h *Holder) Key() ledger.LedgerKey {
	h.mtx.RLock()
	defer h.mtx.RUnlock()

	return h.Address.Array32()
}

func (h *Holder) MarshalJSON() ([]byte, error) {
	tm := &struct {
		Address types.Address `json:"address"`
		Locked  string        `json:"locked"`
	}{
		Address: h.Address,
		Locked:  h.Locked.Dec(),
	}
	return json.Marshal(tm)
}

func (h *Holder) UnmarshalJSON(bz []byte) error {
	tm := &struct {
		Address types.Address `json:"address"`
		Locked  string        `json:"locked"`
	}{}
	if err := json.Unmarshal(bz, tm); err != nil {
		return err
	}
	locked, err := uint256.FromDecimal(tm.Locked)
	if err != nil {
		return err
	}
	h.Address = tm.Address
	h.Locked = locked
	return nil
}

func (h *Holder) Encode() ([]byte, xerrors.XError) {
	if bz, err := json.Marshal(h); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (h *Holder) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, h); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*Holder)(nil)
