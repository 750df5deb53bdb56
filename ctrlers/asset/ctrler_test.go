package asset

import (
	"github.com/holiman/uint256"
	cfg "github.com/lockvote/lockvote-go/cmd/config"
	"github.com/lockvote/lockvote-go/genesis"
	"github.com/lockvote/lockvote-go/types"
	"github.com/lockvote/lockvote-go/types/xerrors"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"
	"os"
	"path/filepath"
	"testing"
)

var (
	assetCtrler *AssetCtrler
	genDoc      *genesis.GenesisDoc
)

func newTestCtrler(t *testing.T) {
	rootDir := filepath.Join(os.TempDir(), "lockvote-asset-test")
	os.RemoveAll(rootDir)

	config := cfg.DefaultConfig().SetRoot(rootDir)
	require.NoError(t, os.MkdirAll(config.DBDir(), 0700))

	var xerr xerrors.XError
	assetCtrler, xerr = NewAssetCtrler(config, tmlog.NewNopLogger())
	require.NoError(t, xerr)

	genDoc = genesis.NewGenesisDoc("asset-test-chain", 5, uint256.NewInt(1000))
	require.NoError(t, assetCtrler.InitLedger(genDoc.AppState))
}

func TestInitLedger(t *testing.T) {
	newTestCtrler(t)

	require.Equal(t, uint256.NewInt(5000), assetCtrler.TotalIssued())
	require.Equal(t, uint256.NewInt(0), assetCtrler.Pooled())

	for _, h := range genDoc.AppState.AssetHolders {
		acct := assetCtrler.FindAccount(h.Address)
		require.NotNil(t, acct)
		require.Equal(t, h.Balance, acct.GetBalance())
	}
}

func TestTransferInOut(t *testing.T) {
	newTestCtrler(t)

	holder := genDoc.AppState.AssetHolders[0].Address

	require.NoError(t, assetCtrler.TransferIn(holder, uint256.NewInt(400)))
	require.Equal(t, uint256.NewInt(600), assetCtrler.FindAccount(holder).GetBalance())
	require.Equal(t, uint256.NewInt(400), assetCtrler.Pooled())

	// issued supply never moves on transfers
	require.Equal(t, uint256.NewInt(5000), assetCtrler.TotalIssued())

	require.NoError(t, assetCtrler.TransferOut(holder, uint256.NewInt(150)))
	require.Equal(t, uint256.NewInt(750), assetCtrler.FindAccount(holder).GetBalance())
	require.Equal(t, uint256.NewInt(250), assetCtrler.Pooled())
}

func TestTransferInRejections(t *testing.T) {
	newTestCtrler(t)

	holder := genDoc.AppState.AssetHolders[0].Address

	// unknown account
	xerr := assetCtrler.TransferIn(types.RandAddress(), uint256.NewInt(1))
	require.Equal(t, xerrors.ErrNotFoundAccount, xerr)

	// more than the account's balance
	xerr = assetCtrler.TransferIn(holder, uint256.NewInt(1001))
	require.Equal(t, xerrors.ErrInsufficientBalance, xerr)
	require.Equal(t, uint256.NewInt(1000), assetCtrler.FindAccount(holder).GetBalance())
	require.Equal(t, uint256.NewInt(0), assetCtrler.Pooled())
}

func TestTransferOutBeyondPool(t *testing.T) {
	newTestCtrler(t)

	holder := genDoc.AppState.AssetHolders[0].Address
	require.NoError(t, assetCtrler.TransferIn(holder, uint256.NewInt(100)))

	xerr := assetCtrler.TransferOut(holder, uint256.NewInt(101))
	require.NotNil(t, xerr)
	require.Equal(t, xerrors.ErrCodeInternalConsistency, xerr.Code())
}

func TestCommitAndReload(t *testing.T) {
	newTestCtrler(t)

	holder := genDoc.AppState.AssetHolders[1].Address
	require.NoError(t, assetCtrler.TransferIn(holder, uint256.NewInt(300)))

	_, _, xerr := assetCtrler.Commit()
	require.NoError(t, xerr)
	require.NoError(t, assetCtrler.Close())

	rootDir := filepath.Join(os.TempDir(), "lockvote-asset-test")
	config := cfg.DefaultConfig().SetRoot(rootDir)

	reloaded, xerr := NewAssetCtrler(config, tmlog.NewNopLogger())
	require.NoError(t, xerr)
	defer reloaded.Close()

	require.Equal(t, uint256.NewInt(5000), reloaded.TotalIssued())
	require.Equal(t, uint256.NewInt(300), reloaded.Pooled())
	require.Equal(t, uint256.NewInt(700), reloaded.FindAccount(holder).GetBalance())
}
