// Package layer builds named action-binding sets from the layer file.
package layer

import (
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/starford/macropadd/internal/action"
	"github.com/starford/macropadd/internal/apperr"
)

// BaseLayerName is the table entry that always sits directly above the
// synthetic default layer when present.
const BaseLayerName = "base"

// Layer is one named set of bindings. Immutable once built; reloads replace
// layers wholesale, they never mutate them in place.
type Layer struct {
	Name        string
	Application string // executable base name this layer is scoped to, empty for none
	KeyActions  map[string]*action.Action
	EncoderInc  *action.Action
	EncoderDec  *action.Action
	EncoderBtn  *action.Action
}

func (l *Layer) String() string {
	return fmt.Sprintf("Layer(%s)", l.Name)
}

// ActionFor returns the action bound to a physical key, or nil.
func (l *Layer) ActionFor(key string) *action.Action {
	return l.KeyActions[key]
}

// FromRecord builds a Layer from one decoded layer record. A binding that fails
// to parse is logged and skipped so one bad entry does not lose the whole
// layer; only a missing name fails construction.
func FromRecord(rec map[string]any, logger *slog.Logger) (*Layer, error) {
	name, ok := rec["name"].(string)
	if !ok || name == "" {
		return nil, fmt.Errorf("%w: layer needs a name", apperr.ErrParse)
	}

	l := &Layer{Name: name, KeyActions: make(map[string]*action.Action)}
	if app, ok := rec["application"].(string); ok {
		l.Application = app
	}

	for key, raw := range rec {
		isEncoder := key == FieldEncoderInc || key == FieldEncoderDec || key == FieldEncoderBtn
		if !isEncoder && !IsKeyName(key) {
			continue
		}

		a, err := action.Parse(raw)
		if err != nil {
			logger.Warn("layer: skipping bad binding",
				slog.String("layer", name),
				slog.String("key", key),
				slog.String("error", err.Error()))
			continue
		}

		switch key {
		case FieldEncoderInc:
			l.EncoderInc = a
		case FieldEncoderDec:
			l.EncoderDec = a
		case FieldEncoderBtn:
			l.EncoderBtn = a
		default:
			l.KeyActions[key] = a
		}
	}

	return l, nil
}

// NewDefault returns the synthetic bottom layer: every physical key passes
// through as a direct hotkey named after itself. It is never removed from
// the active stack.
func NewDefault() *Layer {
	l := &Layer{Name: "default", KeyActions: make(map[string]*action.Action, NumKeys)}
	for _, key := range KeyNames {
		l.KeyActions[key] = &action.Action{Kind: action.KindHotkey, Name: key, Hotkey: key}
	}
	return l
}

// Table is the full set of layers keyed by their document entry name. It
// preserves the definition order of the source, which decides which layer
// wins when several bind the same application.
type Table struct {
	layers map[string]*Layer
	order  []string
}

// Get returns the layer stored under name.
func (t *Table) Get(name string) (*Layer, bool) {
	l, ok := t.layers[name]
	return l, ok
}

// Base returns the base layer, or nil if the table has none.
func (t *Table) Base() *Layer {
	return t.layers[BaseLayerName]
}

// ForApplication returns the first layer in definition order scoped to the
// given executable base name, or nil.
func (t *Table) ForApplication(app string) *Layer {
	for _, name := range t.order {
		l := t.layers[name]
		if l.Application != "" && l.Application == app {
			return l
		}
	}
	return nil
}

// Len returns the number of layers in the table.
func (t *Table) Len() int {
	return len(t.layers)
}

// ParseTable decodes the full layer document. The root must be a mapping
// from layer name to layer record. The document is parsed strictly: any
// malformed entry aborts the whole parse so a reload can be rejected as a
// unit, leaving the previous table in place.
func ParseTable(data []byte, logger *slog.Logger) (*Table, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrConfig, err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty layer document", apperr.ErrConfig)
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: layer document root must be a mapping", apperr.ErrConfig)
	}

	t := &Table{layers: make(map[string]*Layer)}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		keyNode, valNode := doc.Content[i], doc.Content[i+1]

		var rec map[string]any
		if err := valNode.Decode(&rec); err != nil {
			return nil, fmt.Errorf("%w: layer %q: %v", apperr.ErrConfig, keyNode.Value, err)
		}

		l, err := FromRecord(rec, logger)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", keyNode.Value, err)
		}

		if _, dup := t.layers[keyNode.Value]; dup {
			return nil, fmt.Errorf("%w: duplicate layer %q", apperr.ErrConfig, keyNode.Value)
		}
		t.layers[keyNode.Value] = l
		t.order = append(t.order, keyNode.Value)
	}

	return t, nil
}
