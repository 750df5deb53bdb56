package commands

import (
	"os"

	"github.com/spf13/cobra"
	tmlog "github.com/tendermint/tendermint/libs/log"
	tmos "github.com/tendermint/tendermint/libs/os"
)

// ResetAllCmd removes all ledger databases. The genesis file is kept,
// so the next run starts over from genesis state.
var ResetAllCmd = &cobra.Command{
	Use:     "unsafe-reset-all",
	Aliases: []string{"unsafe_reset_all"},
	Short:   "(unsafe) Remove all ledger data and start over from genesis",
	Run:     resetAll,
}

func resetAll(cmd *cobra.Command, args []string) {
	ResetAll(rootConfig.DBDir(), logger)
}

// ResetAll removes the ledger databases. Exported so other CLI tools
// can use it.
func ResetAll(dbDir string, logger tmlog.Logger) {
	if err := os.RemoveAll(dbDir); err == nil {
		logger.Info("Removed all ledger data", "dir", dbDir)
	} else {
		logger.Error("Error removing ledger data", "dir", dbDir, "err", err)
	}
	if err := tmos.EnsureDir(dbDir, 0700); err != nil {
		logger.Error("unable to recreate dbDir", "err", err)
	}
}
