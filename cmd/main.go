package main

import (
	"os"
	"path/filepath"

	"github.com/lockvote/lockvote-go/cmd/commands"
	tmcli "github.com/tendermint/tendermint/libs/cli"
)

func main() {
	commands.RootCmd.AddCommand(
		commands.NewInitFilesCmd(),
		commands.ResetAllCmd,
		commands.NewRunNodeCmd(),
		commands.VersionCmd,
	)

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	executor := tmcli.PrepareBaseCmd(commands.RootCmd, "LOCKVOTE", filepath.Join(home, ".lockvote"))
	if err := executor.Execute(); err != nil {
		panic(err)
	}
}
