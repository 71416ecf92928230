package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/waftester/tdgen/pkg/config"
	"github.com/waftester/tdgen/pkg/defaults"
	"github.com/waftester/tdgen/pkg/output/dispatcher"
	"github.com/waftester/tdgen/pkg/output/events"
	"github.com/waftester/tdgen/pkg/output/hooks"
	"github.com/waftester/tdgen/pkg/output/writers"
	"github.com/waftester/tdgen/pkg/payloadgen"
	"github.com/waftester/tdgen/pkg/schema"
	"github.com/waftester/tdgen/pkg/ui"
)

func runGenerate(args []string, stdout, stderr io.Writer) error {
	cfg, err := config.ParseGenerateFlags(args, stderr)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	applyTerminal(cfg.Silent, cfg.NoColor)
	logger := newLogger(stderr, logOptions{Verbose: cfg.Verbose, Silent: cfg.Silent, JSON: cfg.LogJSON})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return generate(ctx, cfg, logger, stdout)
}

// generate runs one generation: load, build, write. Nothing is written to
// the output path unless every payload was built.
func generate(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	in, err := loadInputs(cfg, logger)
	if err != nil {
		return err
	}

	ui.PrintBanner()
	ui.PrintConfig(
		ui.Option{Name: "Schema", Value: fmt.Sprintf("%s (%d fields)", in.SchemaPath, in.Schema.Len())},
		ui.Option{Name: "Rules", Value: in.RulesSource},
		ui.Option{Name: "Plugins", Value: cfg.PluginDir},
		ui.Option{Name: "Format", Value: cfg.Format},
		ui.Option{Name: "Output", Value: outputLabel(cfg.OutPath)},
	)

	d, err := newDispatcher(cfg, logger)
	if err != nil {
		return err
	}

	runID := events.NewRunID()
	expected := payloadgen.Expected(in.Schema, in.Rules)
	if cfg.IncludeValid {
		expected++
	}
	start := &events.StartEvent{
		BaseEvent:    events.NewBase(events.EventTypeStart, runID),
		Schema:       in.SchemaPath,
		Rules:        in.RulesSource,
		Fields:       in.Schema.Len(),
		RuleCount:    in.Rules.Total(),
		Types:        typeNames(in.Schema),
		Plugins:      in.PluginLabels(),
		Expected:     expected,
		IncludeValid: cfg.IncludeValid,
	}
	if err := d.Dispatch(ctx, start); err != nil {
		return fail(ctx, d, runID, err)
	}

	began := time.Now()
	builder := payloadgen.NewBuilder(in.Synth, payloadgen.Options{IncludeValid: cfg.IncludeValid})
	res, err := builder.BuildCases(in.Schema, in.Rules)
	if err != nil {
		return fail(ctx, d, runID, err)
	}
	elapsed := time.Since(began)

	w, err := newWriter(cfg, stdout)
	if err != nil {
		return fail(ctx, d, runID, err)
	}
	d.RegisterWriter(w)

	for i, c := range res.Cases() {
		if err := ctx.Err(); err != nil {
			return fail(ctx, d, runID, err)
		}
		if err := d.Dispatch(ctx, events.NewCaseEvent(runID, i, c)); err != nil {
			return fail(ctx, d, runID, err)
		}
	}

	summary := events.NewSummaryEvent(runID, res, elapsed, cfg.OutPath)
	if err := d.Dispatch(ctx, summary); err != nil {
		return fail(ctx, d, runID, err)
	}
	if err := d.Dispatch(ctx, events.NewCompleteEvent(runID, summary)); err != nil {
		return fail(ctx, d, runID, err)
	}
	if err := d.Close(); err != nil {
		return err
	}

	ui.PrintSummary(uiSummary(summary, cfg.OutPath))
	if cfg.OutPath == defaults.StdoutPath {
		ui.PrintSuccess(fmt.Sprintf("%d payloads written to stdout", summary.Total))
	} else {
		fmt.Fprintf(stdout, "Payload saved to %s\n", cfg.OutPath)
	}
	return nil
}

// fail reports err to the hooks, discards any pending output and returns
// err unchanged.
func fail(ctx context.Context, d *dispatcher.Dispatcher, runID string, err error) error {
	_ = d.Dispatch(ctx, events.NewFailedEvent(runID, exitCode(err), err))
	d.Abort()
	return err
}

// newDispatcher returns a dispatcher with the hooks cfg asks for. Writers
// are registered only once the payloads are built.
func newDispatcher(cfg *config.Config, logger *slog.Logger) (*dispatcher.Dispatcher, error) {
	d := dispatcher.New(dispatcher.Config{Logger: logger})
	d.RegisterHook(hooks.NewLoggerHook(logger))

	if cfg.MetricsFile != "" {
		h, err := hooks.NewPrometheusHook(hooks.PrometheusOptions{Path: cfg.MetricsFile})
		if err != nil {
			d.Abort()
			return nil, err
		}
		d.RegisterHook(h)
	}
	if cfg.OTelEndpoint != "" {
		h, err := hooks.NewOTelHook(hooks.OTelOptions{
			Endpoint: cfg.OTelEndpoint,
			Insecure: cfg.OTelInsecure,
		})
		if err != nil {
			d.Abort()
			return nil, err
		}
		d.RegisterHook(h)
	}
	return d, nil
}

// newWriter opens the output destination and wraps it in the writer for
// cfg.Format.
func newWriter(cfg *config.Config, stdout io.Writer) (dispatcher.Writer, error) {
	dest, err := writers.OpenOutput(cfg.OutPath, stdout)
	if err != nil {
		return nil, err
	}

	switch cfg.Format {
	case defaults.FormatJSONL:
		return writers.NewJSONLWriter(dest, writers.JSONLOptions{WithMeta: cfg.WithMeta}), nil
	case defaults.FormatTemplate:
		w, err := writers.NewTemplateWriter(dest, writers.TemplateConfig{
			TemplatePath: cfg.TemplatePath,
			BuiltIn:      cfg.TemplateBuiltIn,
			Vars:         cfg.TemplateVars,
		})
		if err != nil {
			if a, ok := dest.(interface{ Abort() }); ok {
				a.Abort()
			}
			return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
		}
		return w, nil
	default:
		return writers.NewJSONWriter(dest, writers.JSONOptions{WithMeta: cfg.WithMeta}), nil
	}
}

func typeNames(sc *schema.Schema) []string {
	types := sc.Types()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func outputLabel(path string) string {
	if path == defaults.StdoutPath {
		return "stdout"
	}
	return path
}

func uiSummary(s *events.SummaryEvent, out string) ui.Summary {
	conv := func(cs []events.Count) []ui.Count {
		res := make([]ui.Count, len(cs))
		for i, c := range cs {
			res[i] = ui.Count{Name: c.Name, Count: c.Count}
		}
		return res
	}
	return ui.Summary{
		Total:    s.Total,
		Invalid:  s.Invalid,
		Valid:    s.Valid,
		ByRule:   conv(s.ByRule),
		ByField:  conv(s.ByField),
		Duration: s.Duration,
		Output:   outputLabel(out),
	}
}
