// Wildfire CLI — операционный инструмент командной строки.
//
// Использование:
//
//	wildfire [--json] <command> [flags]
//
// Команды:
//
//	inject  Публикация тестового SDR-уведомления
//	jobs    Просмотр журнала запусков CSPP
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Wildfire/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "wildfire",
		Short:         "Wildfire CLI — CSPP Active Fires operations tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewInjectCmd(outputFn),
		cli.NewJobsCmd(outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
