package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tuannm99/novarecord/internal/alias/bx"
	"github.com/tuannm99/novarecord/internal/record"
	"github.com/tuannm99/novarecord/internal/schema"
	"github.com/tuannm99/novarecord/internal/storage"
)

// Row files are a sequence of u32 length-prefixed encoded records.

func newEncodeCmd(a *app) *cobra.Command {
	var schemaPath, rowsPath, outPath string
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode rows into a binary row file",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schema.LoadFile(schemaPath)
			if err != nil {
				return err
			}
			rows, err := loadRows(s, rowsPath)
			if err != nil {
				return err
			}
			var out []byte
			for i, r := range rows {
				buf, err := storage.EncodeRecord(r)
				if err != nil {
					return fmt.Errorf("row %d: %w", i, err)
				}
				out = bx.AppendBytes(out, buf)
			}
			if err := os.WriteFile(outPath, out, 0o644); err != nil {
				return err
			}
			a.log.Info("encoded rows", "count", len(rows), "bytes", len(out), "path", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "schema file (YAML or JSON)")
	cmd.Flags().StringVar(&rowsPath, "rows", "", "rows file: a YAML or JSON list of objects")
	cmd.Flags().StringVar(&outPath, "out", "rows.bin", "output row file")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("rows")
	return cmd
}

func newDecodeCmd(a *app) *cobra.Command {
	var schemaPath, inPath string
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a binary row file and print it as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schema.LoadFile(schemaPath)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(inPath)
			if err != nil {
				return err
			}
			var rows []*record.Record
			rd := bx.NewReader(data)
			for rd.Remaining() > 0 {
				buf, err := rd.Bytes()
				if err != nil {
					return fmt.Errorf("row %d: %w", len(rows), storage.ErrBadBuffer)
				}
				r, err := storage.DecodeRecord(s.AsStruct(), buf)
				if err != nil {
					return fmt.Errorf("row %d: %w", len(rows), err)
				}
				rows = append(rows, r)
			}
			text, err := marshalRows(rows)
			if err != nil {
				return err
			}
			a.log.Debug("decoded rows", "count", len(rows), "path", inPath)
			_, err = cmd.OutOrStdout().Write(text)
			return err
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "schema file (YAML or JSON)")
	cmd.Flags().StringVar(&inPath, "in", "rows.bin", "input row file")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
