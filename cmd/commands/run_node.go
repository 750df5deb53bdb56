package commands

import (
	"strings"

	cfg "github.com/lockvote/lockvote-go/cmd/config"
	"github.com/lockvote/lockvote-go/genesis"
	"github.com/lockvote/lockvote-go/node"
	"github.com/lockvote/lockvote-go/rpc"
	"github.com/spf13/cobra"
	tmos "github.com/tendermint/tendermint/libs/os"
)

// NewRunNodeCmd returns the command that starts the governance node:
// the ledgers, the command entry points and the query RPC server.
func NewRunNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the governance node",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNode(rootConfig)
		},
	}
	AddNodeFlags(cmd)
	return cmd
}

func AddNodeFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc.laddr", rootConfig.RPC.ListenAddress, "RPC listen address. Port required")
}

func runNode(config *cfg.Config) error {
	app, xerr := node.NewGovApp(config, logger)
	if xerr != nil {
		return xerr
	}

	if app.Version() == 0 {
		genDoc, xerr := genesis.GenesisDocFromFile(config.GenesisFile())
		if xerr != nil {
			_ = app.Close()
			return xerr
		}
		if xerr := app.InitGenesis(genDoc); xerr != nil {
			_ = app.Close()
			return xerr
		}
		if _, _, xerr := app.Commit(); xerr != nil {
			_ = app.Close()
			return xerr
		}
		logger.Info("Genesis state committed", "chainId", genDoc.ChainID)
	}

	laddr := strings.TrimPrefix(config.RPC.ListenAddress, "tcp://")
	srv := rpc.NewServer(app, laddr, logger)
	srv.Start()

	tmos.TrapSignal(logger, func() {
		if err := srv.Stop(); err != nil {
			logger.Error("RPC server shutdown", "error", err.Error())
		}
		if _, _, xerr := app.Commit(); xerr != nil {
			logger.Error("Final commit", "error", xerr.Error())
		}
		_ = app.Close()
	})

	// run forever, until the signal handler exits the process
	select {}
}
