package main

import (
	"errors"
	"log/slog"

	"github.com/waftester/tdgen/pkg/config"
	"github.com/waftester/tdgen/pkg/plugin"
	"github.com/waftester/tdgen/pkg/rules"
	"github.com/waftester/tdgen/pkg/schema"
	"github.com/waftester/tdgen/pkg/synth"
)

// builtinRules names the rule source when no rule file is used.
const builtinRules = "built-in"

// inputs is everything a generate or validate run reads before building.
type inputs struct {
	Schema      *schema.Schema
	SchemaPath  string
	Rules       *rules.Table
	RulesSource string
	Synth       *synth.Synthesizer
	Plugins     []*plugin.Script
}

// PluginLabels returns the labels of the loaded plugins.
func (in *inputs) PluginLabels() []string {
	labels := make([]string, len(in.Plugins))
	for i, p := range in.Plugins {
		labels[i] = p.Label()
	}
	return labels
}

// loadSynth returns the built-in synthesizer extended with the plugins in
// dir, if any.
func loadSynth(dir string, logger *slog.Logger) (*synth.Synthesizer, []*plugin.Script, error) {
	syn := synth.New()
	if dir == "" {
		return syn, nil, nil
	}
	scripts, err := plugin.LoadDir(dir, syn, plugin.Options{})
	if err != nil {
		return nil, nil, err
	}
	for _, s := range scripts {
		logger.Debug("plugin loaded", slog.String("path", s.Path), slog.String("label", s.Label()))
	}
	return syn, scripts, nil
}

// loadInputs reads the schema, the rule table and the plugins named by cfg
// and checks that every field type and every listed rule has a generator.
func loadInputs(cfg *config.Config, logger *slog.Logger) (*inputs, error) {
	syn, scripts, err := loadSynth(cfg.PluginDir, logger)
	if err != nil {
		return nil, err
	}
	in := &inputs{SchemaPath: cfg.SchemaPath, Synth: syn, Plugins: scripts}

	in.Schema, err = schema.LoadFile(cfg.SchemaPath)
	if err != nil {
		return nil, err
	}

	if cfg.ResolveRulesPath() {
		in.Rules, err = rules.LoadFile(cfg.RulesPath)
		if err != nil {
			return nil, err
		}
		in.RulesSource = cfg.RulesPath
	} else {
		in.Rules = rules.Default()
		in.RulesSource = builtinRules
	}

	if err := errors.Join(syn.CheckSchema(in.Schema), syn.Check(in.Rules)); err != nil {
		return nil, err
	}
	return in, nil
}
