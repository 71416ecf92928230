package writers

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strconv"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/waftester/tdgen/pkg/defaults"
	"github.com/waftester/tdgen/pkg/jsonutil"
	"github.com/waftester/tdgen/pkg/output/dispatcher"
	"github.com/waftester/tdgen/pkg/output/events"
	"github.com/waftester/tdgen/templates"
)

// Compile-time interface check.
var _ dispatcher.Writer = (*TemplateWriter)(nil)

// TemplateConfig configures the template writer.
type TemplateConfig struct {
	// TemplatePath is the path to a custom template file.
	TemplatePath string

	// TemplateString is an inline template string (alternative to TemplatePath).
	TemplateString string

	// BuiltIn is the name of a built-in template: "curl" or "pytest".
	BuiltIn string

	// Vars are exposed to templates as .Vars.
	Vars map[string]string
}

// Built-in templates live in templates.FS as output/<name>.tmpl.
const (
	builtInDir = "output"
	builtInExt = ".tmpl"
)

// BuiltInTemplates lists the names accepted by TemplateConfig.BuiltIn.
func BuiltInTemplates() []string {
	matches, _ := fs.Glob(templates.FS, path.Join(builtInDir, "*"+builtInExt))
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = strings.TrimSuffix(path.Base(m), builtInExt)
	}
	return names
}

// TemplateWriter renders cases using Go templates.
// It buffers all events in memory and renders the template on Close.
// Sprig functions plus json, prettyJSON, shellQuote and pyStr are
// available in templates.
type TemplateWriter struct {
	w       io.Writer
	mu      sync.Mutex
	config  TemplateConfig
	tmpl    *template.Template
	cases   []*events.CaseEvent
	summary *events.SummaryEvent
	runID   string
	aborted bool
}

// NewTemplateWriter creates a new template writer.
// It parses the template immediately and returns an error if the template is invalid.
func NewTemplateWriter(w io.Writer, config TemplateConfig) (*TemplateWriter, error) {
	tw := &TemplateWriter{w: w, config: config}
	if err := tw.parseTemplate(); err != nil {
		return nil, fmt.Errorf("template parse error: %w", err)
	}
	return tw, nil
}

func (tw *TemplateWriter) parseTemplate() error {
	var content string

	switch {
	case tw.config.TemplatePath != "":
		b, err := os.ReadFile(tw.config.TemplatePath)
		if err != nil {
			return fmt.Errorf("failed to read template file: %w", err)
		}
		content = string(b)

	case tw.config.TemplateString != "":
		content = tw.config.TemplateString

	case tw.config.BuiltIn != "":
		b, err := templates.FS.ReadFile(path.Join(builtInDir, tw.config.BuiltIn+builtInExt))
		if err != nil {
			return fmt.Errorf("unknown built-in template: %s (available: %s)",
				tw.config.BuiltIn, strings.Join(BuiltInTemplates(), ", "))
		}
		content = string(b)

	default:
		return fmt.Errorf("no template specified: set TemplatePath, TemplateString, or BuiltIn")
	}

	funcMap := sprig.TxtFuncMap()
	funcMap["json"] = tmplToJSON
	funcMap["prettyJSON"] = tmplPrettyJSON
	funcMap["shellQuote"] = tmplShellQuote
	funcMap["pyStr"] = tmplPyStr

	tmpl, err := template.New(defaults.ToolName).Funcs(funcMap).Option("missingkey=zero").Parse(content)
	if err != nil {
		return fmt.Errorf("parse output template: %w", err)
	}
	tw.tmpl = tmpl
	return nil
}

// Write buffers an event for later template rendering.
func (tw *TemplateWriter) Write(event events.Event) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.runID == "" {
		tw.runID = event.RunID()
	}
	switch e := event.(type) {
	case *events.CaseEvent:
		tw.cases = append(tw.cases, e)
	case *events.SummaryEvent:
		tw.summary = e
	}
	return nil
}

// Flush is a no-op for template writer.
func (tw *TemplateWriter) Flush() error {
	return nil
}

// Close renders the template with all buffered events and writes to the output.
func (tw *TemplateWriter) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.aborted {
		return errAborted
	}

	data, err := tw.buildTemplateData()
	if err != nil {
		abortDest(tw.w)
		return err
	}

	var buf bytes.Buffer
	if err := tw.tmpl.Execute(&buf, data); err != nil {
		abortDest(tw.w)
		return fmt.Errorf("template execution error: %w", err)
	}
	if _, err := tw.w.Write(buf.Bytes()); err != nil {
		abortDest(tw.w)
		return fmt.Errorf("write error: %w", err)
	}
	return closeDest(tw.w)
}

// Abort drops buffered events and the destination's pending output.
func (tw *TemplateWriter) Abort() {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.aborted = true
	tw.cases = nil
	abortDest(tw.w)
}

// SupportsEvent returns true for case and summary events.
func (tw *TemplateWriter) SupportsEvent(eventType events.EventType) bool {
	return eventType == events.EventTypeCase || eventType == events.EventTypeSummary
}

// tmplData holds all data available to templates.
type tmplData struct {
	RunID     string
	Version   string
	Timestamp string
	Vars      map[string]string
	Cases     []tmplCase
	Summary   *events.SummaryEvent
}

// tmplCase flattens one case for templates.
type tmplCase struct {
	Index   int
	ID      string
	Field   string
	Type    string
	Rule    string
	Label   string
	Valid   bool
	Keys    []string
	Payload map[string]any
	JSON    string
}

func (tw *TemplateWriter) buildTemplateData() (*tmplData, error) {
	vars := tw.config.Vars
	if vars == nil {
		vars = map[string]string{}
	}
	data := &tmplData{
		RunID:     tw.runID,
		Version:   defaults.Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Vars:      vars,
		Summary:   tw.summary,
		Cases:     make([]tmplCase, 0, len(tw.cases)),
	}
	for _, ce := range tw.cases {
		c := ce.Case
		raw, err := c.Payload.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("template: encode case %d: %w", ce.Index, err)
		}
		data.Cases = append(data.Cases, tmplCase{
			Index:   ce.Index,
			ID:      c.ID,
			Field:   c.Field,
			Type:    string(c.Type),
			Rule:    string(c.Rule),
			Label:   c.Label(),
			Valid:   c.IsBaseline(),
			Keys:    c.Payload.Keys(),
			Payload: c.Payload.Map(),
			JSON:    string(raw),
		})
	}
	return data, nil
}

// tmplToJSON converts a value to a compact JSON string.
func tmplToJSON(v any) string {
	b, err := jsonutil.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

// tmplPrettyJSON converts a value to a formatted JSON string.
func tmplPrettyJSON(v any) string {
	b, err := jsonutil.MarshalIndent(v, "", defaults.JSONIndent)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

// tmplShellQuote wraps s in single quotes for POSIX shells.
func tmplShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// tmplPyStr renders s as a Python string literal.
func tmplPyStr(s string) string {
	return strconv.Quote(s)
}
