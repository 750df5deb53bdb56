package gov

import (
	"encoding/json"
	"github.com/lockvote/lockvote-go/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

func (ctrler *GovCtrler) Query(req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	switch req.Path {
	case "gov_params":
		ctrler.mtx.RLock()
		defer ctrler.mtx.RUnlock()

		if bz, err := json.Marshal(ctrler.GovParams); err != nil {
			return nil, xerrors.ErrQuery.Wrap(err)
		} else {
			return bz, nil
		}
	case "proposal":
		prop, xerr := ctrler.ReadProposal(req.Data)
		if xerr != nil {
			return nil, xerr
		}
		if bz, err := json.Marshal(prop); err != nil {
			return nil, xerrors.ErrQuery.Wrap(err)
		} else {
			return bz, nil
		}
	case "proposals":
		props, xerr := ctrler.ReadAllProposals()
		if xerr != nil {
			return nil, xerr
		}
		if bz, err := json.Marshal(props); err != nil {
			return nil, xerrors.ErrQuery.Wrap(err)
		} else {
			return bz, nil
		}
	default:
		return nil, xerrors.ErrInvalidQueryCmd
	}
}
