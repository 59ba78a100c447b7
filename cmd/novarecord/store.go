package main

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/tuannm99/novarecord/internal/record"
	"github.com/tuannm99/novarecord/internal/schema"
	"github.com/tuannm99/novarecord/internal/storage"
)

func (a *app) openStore() (*storage.RedisStore, func()) {
	client := redis.NewClient(&redis.Options{
		Addr: a.cfg.Redis.Addr,
		DB:   a.cfg.Redis.DB,
	})
	closeFn := func() {
		if err := client.Close(); err != nil {
			a.log.Warn("close redis client", "error", err)
		}
	}
	return storage.NewRedisStore(client, a.cfg.Redis.Prefix, a.metrics, a.log), closeFn
}

func newPutCmd(a *app) *cobra.Command {
	var schemaPath, rowsPath, keyField string
	cmd := &cobra.Command{
		Use:   "put",
		Short: "Store rows in Redis, keyed by a field value",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schema.LoadFile(schemaPath)
			if err != nil {
				return err
			}
			if _, ok := s.AsStruct().Position(keyField); !ok {
				return fmt.Errorf("key field: %w: %q", record.ErrNoSuchField, keyField)
			}
			rows, err := loadRows(s, rowsPath)
			if err != nil {
				return err
			}
			store, closeFn := a.openStore()
			defer closeFn()

			for i, r := range rows {
				k, _ := r.GetField(keyField)
				if k == nil {
					return fmt.Errorf("row %d: key field %q is null", i, keyField)
				}
				key := fmt.Sprint(k)
				if err := store.Put(cmd.Context(), key, r); err != nil {
					return fmt.Errorf("row %d: %w", i, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			a.log.Info("stored rows", "count", len(rows), "redis", a.cfg.Redis.Addr)
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "schema file (YAML or JSON)")
	cmd.Flags().StringVar(&rowsPath, "rows", "", "rows file: a YAML or JSON list of objects")
	cmd.Flags().StringVar(&keyField, "key", "id", "field whose value becomes the Redis key")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("rows")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	var schemaPath string
	cmd := &cobra.Command{
		Use:   "get <key>...",
		Short: "Load rows from Redis and print them as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schema.LoadFile(schemaPath)
			if err != nil {
				return err
			}
			store, closeFn := a.openStore()
			defer closeFn()

			keys := args
			if len(keys) == 0 {
				if keys, err = store.Keys(cmd.Context()); err != nil {
					return err
				}
			}
			rows := make([]*record.Record, 0, len(keys))
			for _, k := range keys {
				r, err := store.Get(cmd.Context(), k, s.AsStruct())
				if err != nil {
					return err
				}
				rows = append(rows, r)
			}
			text, err := marshalRows(rows)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(text)
			return err
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "schema file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
