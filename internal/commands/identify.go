package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beanport-dev/beanport/internal/source"
)

func newIdentifyCommand(configPath *string, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "identify <file>...",
		Short: "Report which importer claims each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(*verbose)
			reg, err := buildRegistry(*configPath, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, path := range args {
				f := source.New(path)
				imp := reg.IdentifyFile(f)
				if imp == nil {
					fmt.Fprintf(out, "%s: not recognized\n", f.Name())
					continue
				}
				fmt.Fprintf(out, "%s: %s (%s)\n", f.Name(), imp.Name(), imp.FileAccount())
			}
			return nil
		},
	}
}
