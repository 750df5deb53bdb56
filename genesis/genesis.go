package genesis

import (
	"encoding/json"
	"github.com/holiman/uint256"
	ctrlertypes "github.com/lockvote/lockvote-go/ctrlers/types"
	"github.com/lockvote/lockvote-go/types"
	"github.com/lockvote/lockvote-go/types/xerrors"
	tmos "github.com/tendermint/tendermint/libs/os"
	"os"
	"path/filepath"
	"time"
)

type GenesisDoc struct {
	ChainID     string           `json:"chain_id"`
	GenesisTime time.Time        `json:"genesis_time"`
	AppState    *GenesisAppState `json:"app_state"`
}

// NewGenesisDoc builds a genesis document for `holderCnt` randomly
// addressed holders, each issued `balance`.
func NewGenesisDoc(chainID string, holderCnt int, balance *uint256.Int) *GenesisDoc {
	var holders []*GenesisAssetHolder
	for i := 0; i < holderCnt; i++ {
		holders = append(holders, &GenesisAssetHolder{
			Address: types.RandAddress(),
			Balance: balance.Clone(),
		})
	}
	return &GenesisDoc{
		ChainID:     chainID,
		GenesisTime: time.Now().UTC(),
		AppState: &GenesisAppState{
			AssetHolders: holders,
			GovParams:    ctrlertypes.DefaultGovParams(),
		},
	}
}

func (gd *GenesisDoc) SaveAs(file string) xerrors.XError {
	bz, err := json.MarshalIndent(gd, "", "  ")
	if err != nil {
		return xerrors.From(err)
	}
	if err := tmos.EnsureDir(filepath.Dir(file), 0700); err != nil {
		return xerrors.From(err)
	}
	if err := os.WriteFile(file, bz, 0644); err != nil {
		return xerrors.From(err)
	}
	return nil
}

func GenesisDocFromFile(file string) (*GenesisDoc, xerrors.XError) {
	bz, err := os.ReadFile(file)
	if err != nil {
		return nil, xerrors.From(err)
	}
	gd := &GenesisDoc{}
	if err := json.Unmarshal(bz, gd); err != nil {
		return nil, xerrors.From(err)
	}
	if gd.AppState == nil || gd.AppState.GovParams == nil {
		return nil, xerrors.ErrInitGenesis.Wrapf("missing app_state in %s", file)
	}
	return gd, nil
}
