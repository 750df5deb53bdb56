package holder

import (
	"encoding/json"
	"github.com/lockvote/lockvote-go/ledger"
	"github.com/lockvote/lockvote-go/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

func (ctrler *HolderCtrler) Query(req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	switch req.Path {
	case "holder":
		ctrler.mtx.RLock()
		defer ctrler.mtx.RUnlock()

		h, xerr := ctrler.holderLedger.Get(ledger.ToLedgerKey(req.Data))
		if xerr != nil {
			if xerr == xerrors.ErrNotFoundResult {
				return nil, xerrors.ErrNotFoundAccount
			}
			return nil, xerr
		}
		if bz, err := json.Marshal(h); err != nil {
			return nil, xerrors.ErrQuery.Wrap(err)
		} else {
			return bz, nil
		}
	default:
		return nil, xerrors.ErrInvalidQueryCmd
	}
}
