package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ppifix/internal/textutil"
)

func newFormatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported image formats",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := ctx.registry()
			if err != nil {
				return err
			}
			headers := []string{"Format", "Extension", "Decode", "Encode", "Resolution"}
			var rows [][]string
			for _, c := range registry.Capabilities() {
				rows = append(rows, []string{
					textutil.Acronym(string(c.Format)),
					c.Extension,
					yesNo(c.Decode),
					yesNo(c.Encode),
					yesNo(c.Metadata),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, nil))
			return nil
		},
	}
}
