package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tuannm99/novarecord/internal/schema"
)

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <file>",
		Short: "Validate a schema file and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schema.LoadFile(args[0])
			if err != nil {
				return err
			}
			data, err := schema.Marshal(s)
			if err != nil {
				return err
			}
			a.log.Debug("schema loaded", "path", args[0], "columns", len(s.Columns()))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
