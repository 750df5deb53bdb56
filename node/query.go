package node

import (
	"github.com/lockvote/lockvote-go/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

// Query routes a read-only request to the ctrler owning the path.
func (app *GovApp) Query(req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	app.mtx.RLock()
	defer app.mtx.RUnlock()

	switch req.Path {
	case "account", "supply":
		return app.assetCtrler.Query(req)
	case "holder":
		return app.holderCtrler.Query(req)
	case "gov_params", "proposal", "proposals":
		return app.govCtrler.Query(req)
	default:
		return nil, xerrors.ErrInvalidQueryCmd
	}
}
