package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AnatoleLucet/reactive/internal/scenario"
)

func scenariosCmd(flags *globalFlags) *cobra.Command {
	var list bool

	names := make([]string, 0)
	for _, s := range scenario.All() {
		names = append(names, s.Name)
	}

	cmd := &cobra.Command{
		Use:   "scenarios [name...]",
		Short: "Replay end-to-end scenarios and print their logs",
		Long: fmt.Sprintf(`Replay end-to-end scenarios on fresh runtimes and print what they log.

Available scenarios: %s (default: all).`, strings.Join(names, ", ")),
		ValidArgs: append(names, "all"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				for _, s := range scenario.All() {
					fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", s.Name, s.Description)
				}
				return nil
			}

			cfg, logger, err := flags.load()
			if err != nil {
				return err
			}

			selected, err := selectScenarios(args)
			if err != nil {
				return err
			}

			return replay(cmd.Context(), cfg, logger, cmd.OutOrStdout(), selected)
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List scenarios without running them")

	return cmd
}
