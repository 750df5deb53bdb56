package commands

import (
	"github.com/holiman/uint256"
	cfg "github.com/lockvote/lockvote-go/cmd/config"
	"github.com/lockvote/lockvote-go/genesis"
	"github.com/spf13/cobra"
	tmos "github.com/tendermint/tendermint/libs/os"
)

var (
	initChainID    = "lockvote-localnet"
	initHolderCnt  = 9
	initBalanceDec = "1000000000000000000000000"
)

// NewInitFilesCmd builds the command that writes the config tree and a
// genesis document with randomly addressed asset holders.
func NewInitFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize config and genesis files",
		RunE:  initFiles,
	}
	AddInitFlags(cmd)
	return cmd
}

func AddInitFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&initChainID,
		"chain_id",
		initChainID,
		"the id of chain to generate (e.g. mainnet, testnet, devnet and others)")
	cmd.Flags().IntVar(
		&initHolderCnt,
		"holders",
		initHolderCnt,
		"the number of genesis asset holders to generate")
	cmd.Flags().StringVar(
		&initBalanceDec,
		"holder_balance",
		initBalanceDec,
		"the balance issued to each genesis asset holder, in decimal")
}

func initFiles(cmd *cobra.Command, args []string) error {
	return InitFilesWith(initChainID, rootConfig)
}

func InitFilesWith(chainID string, config *cfg.Config) error {
	genFile := config.GenesisFile()
	if tmos.FileExists(genFile) {
		logger.Info("Found genesis file", "path", genFile)
		return nil
	}

	balance, err := uint256.FromDecimal(initBalanceDec)
	if err != nil {
		return err
	}

	genDoc := genesis.NewGenesisDoc(chainID, initHolderCnt, balance)
	if xerr := genDoc.SaveAs(genFile); xerr != nil {
		return xerr
	}
	logger.Info("Generated genesis file", "path", genFile, "chainId", chainID, "holders", initHolderCnt)
	return nil
}
