package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type RenderLayerComponentSpec struct {
	Index int `yaml:"index"`
}

type FollowCursorComponentSpec struct {
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
}

type OrbitComponentSpec struct {
	CenterX float64 `yaml:"center_x"`
	CenterY float64 `yaml:"center_y"`
	Radius  float64 `yaml:"radius"`
	Speed   float64 `yaml:"speed"`
	Angle   float64 `yaml:"angle"`
}

type TimedEmitterComponentSpec struct {
	EmitDuration float64 `yaml:"emit_duration"`
	DestroyAfter float64 `yaml:"destroy_after"`
}

// Pair is a two-number YAML sequence. A single number fills both slots.
type Pair [2]float64

func (p *Pair) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := value.Decode(&v); err != nil {
			return err
		}
		*p = Pair{v, v}
		return nil
	case yaml.SequenceNode:
		var vs []float64
		if err := value.Decode(&vs); err != nil {
			return err
		}
		switch len(vs) {
		case 1:
			*p = Pair{vs[0], vs[0]}
		case 2:
			*p = Pair{vs[0], vs[1]}
		default:
			return fmt.Errorf("pair must have 1 or 2 values, got %d", len(vs))
		}
		return nil
	}
	return fmt.Errorf("pair must be a number or a sequence")
}

type YAMLColor struct {
	color.Color
}

// UnmarshalYAML accepts "#rrggbb", "#rrggbbaa" or an SVG color name.
func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	if named, ok := colornames.Map[strings.ToLower(strings.TrimSpace(value.Value))]; ok {
		c.Color = color.NRGBA{R: named.R, G: named.G, B: named.B, A: named.A}
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
