package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"catalogcore/internal/config"
	"catalogcore/internal/core"
	"catalogcore/internal/logging"
)

// mutatingAnnotation marks commands whose result must be saved.
const mutatingAnnotation = "catalogctl/mutates"

type app struct {
	configPath  string
	trace       bool
	showMetrics bool

	cfg      config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	svc      *core.Service
}

// open resolves configuration, builds the service and loads persisted state.
func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	a.logger = logger
	a.registry = prometheus.NewRegistry()
	recorder, err := core.NewPrometheusMetricsRecorder(a.registry, cfg.Metrics.Namespace)
	if err != nil {
		return err
	}
	gateway, err := core.OpenGateway(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}
	opts := []core.Option{
		core.WithLogger(logging.NewAdapter(logger)),
		core.WithMetricsRecorder(recorder),
	}
	if a.trace {
		opts = append(opts, core.WithTracer(core.NewJSONTracer(cmd.ErrOrStderr())))
	}
	a.svc = core.NewService(gateway, opts...)
	return a.svc.Load(cmd.Context())
}

// persist saves the state after a mutating command.
func (a *app) persist(cmd *cobra.Command) error {
	if a.svc == nil || cmd.Annotations[mutatingAnnotation] != "true" {
		return nil
	}
	return a.svc.Save(cmd.Context())
}

func (a *app) close(stderr io.Writer) error {
	if a.showMetrics && a.registry != nil {
		writeMetrics(stderr, a.registry)
	}
	var err error
	if a.svc != nil {
		err = a.svc.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return err
}

// writeMetrics prints one line per operation counter sample.
func writeMetrics(w io.Writer, reg *prometheus.Registry) {
	families, err := reg.Gather()
	if err != nil {
		_, _ = fmt.Fprintf(w, "gather metrics: %v\n", err)
		return
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			labels := ""
			for _, l := range m.GetLabel() {
				labels += fmt.Sprintf(" %s=%s", l.GetName(), l.GetValue())
			}
			lines = append(lines, fmt.Sprintf("%s%s %g", mf.GetName(), labels, m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		_, _ = fmt.Fprintln(w, line)
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
