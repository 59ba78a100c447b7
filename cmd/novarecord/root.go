package main

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tuannm99/novarecord/internal/config"
	"github.com/tuannm99/novarecord/internal/logging"
	"github.com/tuannm99/novarecord/internal/storage"
)

// app carries state shared by subcommands once the root has loaded config.
type app struct {
	cfgPath     string
	metricsPath string
	cfg         *config.Config
	log         *slog.Logger
	reg         *prometheus.Registry
	metrics     *storage.Metrics
}

func newRootCmd() *cobra.Command {
	reg := prometheus.NewRegistry()
	a := &app{reg: reg, metrics: storage.NewMetrics(reg)}
	root := &cobra.Command{
		Use:           "novarecord",
		Short:         "Inspect, encode and store schema-bound records",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logging.New(cfg.LogLevel()).With("app", cfg.AppName)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.metricsPath == "" {
				return nil
			}
			// textfile collector format, for node_exporter to pick up
			return prometheus.WriteToTextfile(a.metricsPath, a.reg)
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.metricsPath, "metrics-file", "", "write codec metrics to this file on exit")

	root.AddCommand(
		newSchemaCmd(a),
		newInspectCmd(a),
		newEncodeCmd(a),
		newDecodeCmd(a),
		newPutCmd(a),
		newGetCmd(a),
	)
	return root
}
