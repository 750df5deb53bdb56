package genesis

import (
	ctrlertypes "github.com/lockvote/lockvote-go/ctrlers/types"
	"github.com/tendermint/tendermint/crypto/tmhash"
)

type GenesisAppState struct {
	AssetHolders []*GenesisAssetHolder  `json:"assetHolders"`
	GovParams    *ctrlertypes.GovParams `json:"govParams"`
}

func (ga *GenesisAppState) Hash() ([]byte, error) {
	hasher := tmhash.New()
	if bz, err := ga.GovParams.Encode(); err != nil {
		return nil, err
	} else if _, err := hasher.Write(bz); err != nil {
		return nil, err
	} else {
		for _, h := range ga.AssetHolders {
			if _, err := hasher.Write(h.Hash()); err != nil {
				return nil, err
			}
		}
	}
	return hasher.Sum(nil), nil
}
