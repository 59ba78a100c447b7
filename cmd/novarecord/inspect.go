package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tuannm99/novarecord/internal/schema"
)

func newInspectCmd(a *app) *cobra.Command {
	var schemaPath, rowsPath string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load rows against a schema, print them and check deep copies",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schema.LoadFile(schemaPath)
			if err != nil {
				return err
			}
			rows, err := loadRows(s, rowsPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, r := range rows {
				if cp := r.Copy(); !cp.Equal(r) {
					return fmt.Errorf("row %d: copy differs from original", i)
				}
				if _, err := fmt.Fprintln(out, r); err != nil {
					return err
				}
			}
			a.log.Info("inspected rows", "count", len(rows))
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "schema file (YAML or JSON)")
	cmd.Flags().StringVar(&rowsPath, "rows", "", "rows file: a YAML or JSON list of objects")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("rows")
	return cmd
}
