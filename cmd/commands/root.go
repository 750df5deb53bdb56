package commands

import (
	cfg "github.com/lockvote/lockvote-go/cmd/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	tmcfg "github.com/tendermint/tendermint/config"
	tmcli "github.com/tendermint/tendermint/libs/cli"
	tmflags "github.com/tendermint/tendermint/libs/cli/flags"
	tmlog "github.com/tendermint/tendermint/libs/log"
	"os"
)

var (
	rootConfig = cfg.DefaultConfig()
	logger     = tmlog.NewTMLogger(tmlog.NewSyncWriter(os.Stdout))
)

func registerFlagsRootCmd(cmd *cobra.Command) {
	cmd.PersistentFlags().String("log_level", rootConfig.LogLevel, "log level")
	cmd.PersistentFlags().String("chain_id", rootConfig.ChainID, "chain id")
}

// ParseConfig retrieves the default environment configuration,
// sets up the root directory and fills the config from viper.
func ParseConfig() (*cfg.Config, error) {
	conf := cfg.DefaultConfig()
	if err := viper.Unmarshal(conf.Config); err != nil {
		return nil, err
	}
	if chainID := viper.GetString("chain_id"); chainID != "" {
		conf.ChainID = chainID
	}
	conf.SetRoot(conf.RootDir)
	tmcfg.EnsureRoot(conf.RootDir)
	if err := conf.ValidateBasic(); err != nil {
		return nil, err
	}
	return conf, nil
}

var RootCmd = &cobra.Command{
	Use:   "lockvote",
	Short: "lock-weighted governance engine",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		if cmd.Name() == VersionCmd.Name() {
			return nil
		}

		rootConfig, err = ParseConfig()
		if err != nil {
			return err
		}

		logger, err = tmflags.ParseLogLevel(rootConfig.LogLevel, logger, tmcfg.DefaultLogLevel)
		if err != nil {
			return err
		}
		if viper.GetBool(tmcli.TraceFlag) {
			logger = tmlog.NewTracingLogger(logger)
		}
		logger = logger.With("module", "main")
		return nil
	},
}

func init() {
	registerFlagsRootCmd(RootCmd)
}
