package main

import (
	"os"

	"Hyeyum_Board/internal/admincli"

	"github.com/spf13/cobra"
)

func main() {
	cmd := &cobra.Command{
		Use: "boardctl",
	}

	env := admincli.NewEnv()
	cmd.AddCommand(admincli.NewUserCommand(env))
	cmd.AddCommand(admincli.NewInitDBCommand(env))

	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
