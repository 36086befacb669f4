package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beanport-dev/beanport/internal/importer"
	"github.com/beanport-dev/beanport/internal/render"
)

func newExtractCommand(configPath *string, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file>...",
		Short: "Extract ledger directives from statement files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(*verbose)
			reg, err := buildRegistry(*configPath, logger)
			if err != nil {
				return err
			}

			results := importer.ExtractFiles(reg, args, logger)

			out := cmd.OutOrStdout()
			failed := 0
			first := true
			for _, res := range results {
				if res.Err != nil {
					failed++
					continue
				}
				if len(res.Directives) == 0 {
					continue
				}
				if !first {
					fmt.Fprintln(out)
				}
				first = false
				fmt.Fprintf(out, ";; %s (%s)\n", res.File.Name(), res.Importer)
				if err := render.Directives(out, res.Directives); err != nil {
					return fmt.Errorf("rendering %s: %w", res.File.Name(), err)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(results))
			}
			return nil
		},
	}
}
