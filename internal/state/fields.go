package state

import (
	"fmt"

	"github.com/kk-code-lab/infilter/internal/config"
	"github.com/kk-code-lab/infilter/internal/field"
	"github.com/kk-code-lab/infilter/internal/filters"
	"github.com/kk-code-lab/infilter/internal/transform"
)

// CapabilitiesFor maps a configured strategy name to the host capabilities
// that make the engine pick it.
func CapabilitiesFor(strategy string) field.Capabilities {
	switch strategy {
	case config.StrategyNative:
		return field.Capabilities{NativeInsert: true}
	case config.StrategyRange:
		return field.Capabilities{RangeReplace: true}
	case config.StrategyEmulated:
		return field.Capabilities{}
	default:
		return field.Capabilities{RangeReplace: true, NativeInsert: true}
	}
}

// BuildFields creates and attaches one field per configured entry. A field
// whose name matches one in previous starts from that field's current value
// instead of the configured initial value, so a reload keeps what the user
// typed and re-filters it.
func BuildFields(cfg *config.Config, observe func(name string) field.Observer, previous []*FieldState) ([]*FieldState, error) {
	carried := make(map[string]string, len(previous))
	for _, f := range previous {
		carried[f.Name] = f.Value()
	}

	fields := make([]*FieldState, 0, len(cfg.Fields))
	for _, fc := range cfg.Fields {
		initial := fc.Initial
		if v, ok := carried[fc.Name]; ok {
			initial = v
		}
		fs, err := buildField(fc, initial, observe)
		if err != nil {
			for _, built := range fields {
				built.Detach()
			}
			return nil, err
		}
		fields = append(fields, fs)
	}
	return fields, nil
}

func buildField(fc config.FieldConfig, initial string, observe func(name string) field.Observer) (*FieldState, error) {
	filter, err := filters.Lookup(fc.Filter)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", fc.Name, err)
	}

	buf := field.NewBuffer(initial)
	host := field.NewHost(buf, CapabilitiesFor(fc.StrategyName()))
	if observe != nil {
		host.SetObserver(observe(fc.Name))
	}

	opts := append(host.EngineOptions(),
		transform.WithSelectWhenDropped(fc.SelectsWhenDropped()),
		transform.WithHistory(fc.HistoryEnabled()),
	)
	engine, err := transform.New(host.Target(), filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", fc.Name, err)
	}

	detach, err := host.Attach(engine.Handlers())
	if err != nil {
		return nil, fmt.Errorf("field %q: normalize: %w", fc.Name, err)
	}

	sel := buf.Snapshot().Selection
	return &FieldState{
		Name:     fc.Name,
		Filter:   fc.Filter,
		Strategy: engine.Strategy(),
		Config:   fc,
		Host:     host,
		engine:   engine,
		detach:   detach,
		anchor:   sel.Start,
		head:     sel.End,
	}, nil
}
