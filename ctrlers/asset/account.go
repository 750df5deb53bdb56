package asset

import (
	"encoding/json"
	"github.com/holiman/uint256"
	"github.com/lockvote/lockvote-go/ledger"
	"github.com/lockvote/lockvote-go/types"
	"github.com/lockvote/lockvote-go/types/xerrors"
	"sync"
)

// Account is the custody-side balance of a participant: the portion of the
// asset NOT locked into the governance engine.
type Account struct {
	Address types.Address `json:"address"`
	Balance *uint256.Int  `json:"balance"`

	mtx sync.RWMutex
}

func NewAccount(addr types.Address) *Account {
	return &Account{
		Address: addr,
		Balance: uint256.NewInt(0),
	}
}

func (acct *Account) GetAddress() types.Address {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	return acct.Address
}

func (acct *Account) AddBalance(amt *uint256.Int) xerrors.XError {
	acct.mtx.Lock()
	defer acct.mtx.Unlock()

	_ = acct.Balance.Add(acct.Balance, amt)
	return nil
}

func (acct *Account) SubBalance(amt *uint256.Int) xerrors.XError {
	acct.mtx.Lock()
	defer acct.mtx.Unlock()

	if amt.Cmp(acct.Balance) > 0 {
		return xerrors.ErrInsufficientBalance
	}
	_ = acct.Balance.Sub(acct.Balance, amt)
	return nil
}

func (acct *Account) GetBalance() *uint256.Int {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	return new(uint256.Int).Set(acct.Balance)
}

func (acct *Account) Key() ledger.LedgerKey {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	return acct.Address.Array32()
}

func (acct *Account) MarshalJSON() ([]byte, error) {
	tm := &struct {
		Address types.Address `json:"address"`
		Balance string        `json:"balance"`
	}{
		Address: acct.Address,
		Balance: acct.Balance.Dec(),
	}
	return json.Marshal(tm)
}

func (acct *Account) UnmarshalJSON(bz []byte) error {
	tm := &struct {
		Address types.Address `json:"address"`
		Balance string        `json:"balance"`
	}{}
	if err := json.Unmarshal(bz, tm); err != nil {
		return err
	}
	bal, err := uint256.FromDecimal(tm.Balance)
	if err != nil {
		return err
	}
	acct.Address = tm.Address
	acct.Balance = bal
	return nil
}

func (acct *Account) Encode() ([]byte, xerrors.XError) {
	if bz, err := json.Marshal(acct); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (acct *Account) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, acct); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*Account)(nil)
