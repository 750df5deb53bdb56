package asset

import (
	"encoding/json"
	"github.com/lockvote/lockvote-go/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

func (ctrler *AssetCtrler) Query(req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	switch req.Path {
	case "account":
		acct := ctrler.FindAccount(req.Data)
		if acct == nil {
			return nil, xerrors.ErrNotFoundAccount
		}
		if bz, err := json.Marshal(acct); err != nil {
			return nil, xerrors.ErrQuery.Wrap(err)
		} else {
			return bz, nil
		}
	case "supply":
		ctrler.mtx.RLock()
		defer ctrler.mtx.RUnlock()

		if bz, err := json.Marshal(ctrler.supply); err != nil {
			return nil, xerrors.ErrQuery.Wrap(err)
		} else {
			return bz, nil
		}
	default:
		return nil, xerrors.ErrInvalidQueryCmd
	}
}
