package arbor

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"

	"gopkg.in/yaml.v3"
)

// Attrs is a plain attribute map keyed by attribute name ("x", "fill",
// "visible", ...). It is used for serialization, Create and Clone overrides.
type Attrs map[string]any

// Record is the plain-data form of a node and its subtree.
type Record struct {
	ClassName string   `json:"className" yaml:"className"`
	Attrs     Attrs    `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Children  []Record `json:"children,omitempty" yaml:"children,omitempty"`
}

// attr binds an attribute key to a node field.
type attr struct {
	key string
	get func(n *Node) any
	set func(n *Node, v any) error
}

func floatAttr(key string, field func(n *Node) *float64) attr {
	return attr{
		key: key,
		get: func(n *Node) any { return *field(n) },
		set: func(n *Node, v any) error {
			f, err := toFloat(v)
			if err != nil {
				return err
			}
			*field(n) = f
			return nil
		},
	}
}

func boolAttr(key string, field func(n *Node) *bool) attr {
	return attr{
		key: key,
		get: func(n *Node) any { return *field(n) },
		set: func(n *Node, v any) error {
			b, ok := v.(bool)
			if !ok {
				return fmt.Errorf("want bool, got %T", v)
			}
			*field(n) = b
			return nil
		},
	}
}

var attrTable = []attr{
	floatAttr("x", func(n *Node) *float64 { return &n.X }),
	floatAttr("y", func(n *Node) *float64 { return &n.Y }),
	floatAttr("scaleX", func(n *Node) *float64 { return &n.ScaleX }),
	floatAttr("scaleY", func(n *Node) *float64 { return &n.ScaleY }),
	floatAttr("rotation", func(n *Node) *float64 { return &n.Rotation }),
	floatAttr("skewX", func(n *Node) *float64 { return &n.SkewX }),
	floatAttr("skewY", func(n *Node) *float64 { return &n.SkewY }),
	floatAttr("offsetX", func(n *Node) *float64 { return &n.OffsetX }),
	floatAttr("offsetY", func(n *Node) *float64 { return &n.OffsetY }),
	floatAttr("opacity", func(n *Node) *float64 { return &n.Opacity }),
	boolAttr("visible", func(n *Node) *bool { return &n.Visible }),
	boolAttr("listening", func(n *Node) *bool { return &n.Listening }),
	boolAttr("clearBeforeDraw", func(n *Node) *bool { return &n.ClearBeforeDraw }),
	floatAttr("width", func(n *Node) *float64 { return &n.Width }),
	floatAttr("height", func(n *Node) *float64 { return &n.Height }),
	floatAttr("radius", func(n *Node) *float64 { return &n.Radius }),
	{
		key: "fill",
		get: func(n *Node) any { return n.Fill.Hex() },
		set: func(n *Node, v any) error {
			switch c := v.(type) {
			case Color:
				n.Fill = c
				return nil
			case string:
				parsed, err := ParseColor(c)
				if err != nil {
					return err
				}
				n.Fill = parsed
				return nil
			}
			return fmt.Errorf("want color or string, got %T", v)
		},
	},
	{
		key: "points",
		get: func(n *Node) any {
			if len(n.Points) == 0 {
				return nil
			}
			flat := make([]float64, 0, 2*len(n.Points))
			for _, p := range n.Points {
				flat = append(flat, p.X, p.Y)
			}
			return flat
		},
		set: func(n *Node, v any) error {
			pts, err := toPoints(v)
			if err != nil {
				return err
			}
			n.Points = pts
			return nil
		},
	},
}

var attrIndex = func() map[string]attr {
	m := make(map[string]attr, len(attrTable))
	for _, a := range attrTable {
		m[a.key] = a
	}
	return m
}()

// SetAttrs applies attrs to n. Keys are applied in sorted order and the first
// bad key or value stops the update with an error; earlier keys stay applied.
// "id" and "name" go through SetID and SetName so the registry stays current.
func (n *Node) SetAttrs(attrs Attrs) error {
	for _, key := range slices.Sorted(maps.Keys(attrs)) {
		v := attrs[key]
		switch key {
		case "id", "name":
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("arbor: attribute %q: want string, got %T", key, v)
			}
			if key == "id" {
				n.SetID(s)
			} else {
				n.SetName(s)
			}
			continue
		}
		a, ok := attrIndex[key]
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownAttr, key)
		}
		if err := a.set(n, v); err != nil {
			return fmt.Errorf("arbor: attribute %q: %w", key, err)
		}
	}
	return nil
}

// Attrs returns the node's attributes that differ from the defaults of a new
// node of the same type, plus its id and name when set.
func (n *Node) Attrs() Attrs {
	ref := Node{Type: n.Type}
	attrDefaults(&ref)
	out := Attrs{}
	if n.id != "" {
		out["id"] = n.id
	}
	if n.name != "" {
		out["name"] = n.name
	}
	for _, a := range attrTable {
		v := a.get(n)
		if !reflect.DeepEqual(v, a.get(&ref)) {
			out[a.key] = v
		}
	}
	return out
}

// ToObject returns the plain-data form of n with its children nested in
// order. Function-valued fields are not serialized.
func (n *Node) ToObject() Record {
	rec := Record{ClassName: n.class, Attrs: n.Attrs()}
	if len(rec.Attrs) == 0 {
		rec.Attrs = nil
	}
	for _, child := range n.children {
		rec.Children = append(rec.Children, child.ToObject())
	}
	return rec
}

// ToJSON encodes ToObject as JSON.
func (n *Node) ToJSON() ([]byte, error) {
	return json.Marshal(n.ToObject())
}

// ToYAML encodes ToObject as YAML.
func (n *Node) ToYAML() ([]byte, error) {
	return yaml.Marshal(n.ToObject())
}

// Create builds a detached node tree from JSON produced by ToJSON.
func Create(data []byte) (*Node, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("arbor: decode node: %w", err)
	}
	return FromRecord(rec)
}

// CreateYAML builds a detached node tree from YAML (or JSON) data.
func CreateYAML(data []byte) (*Node, error) {
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("arbor: decode node: %w", err)
	}
	return FromRecord(rec)
}

// FromRecord builds a detached node tree from rec. Stage records are
// rejected; use LoadStage for those.
func FromRecord(rec Record) (*Node, error) {
	n, err := newNodeForClass(rec.ClassName)
	if err != nil {
		return nil, err
	}
	if err := n.SetAttrs(rec.Attrs); err != nil {
		return nil, err
	}
	for _, childRec := range rec.Children {
		child, err := FromRecord(childRec)
		if err != nil {
			return nil, err
		}
		if err := n.Add(child); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func newNodeForClass(class string) (*Node, error) {
	switch class {
	case "Layer":
		return NewLayer(""), nil
	case "Group":
		return NewGroup(""), nil
	case "Shape":
		return NewShape("", nil), nil
	case "Rect", "Circle", "Polygon":
		n := newNode(NodeTypeShape, class, "")
		n.SceneFunc = sceneFuncForClass(class)
		return n, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownClass, class)
}

// LoadStage builds a Stage from a YAML or JSON Stage record. The stage gets
// a fresh registry.
func LoadStage(data []byte, cfg StageConfig) (*Stage, error) {
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("arbor: decode stage: %w", err)
	}
	if rec.ClassName != "Stage" {
		return nil, fmt.Errorf("arbor: decode stage: root className is %q, want \"Stage\"", rec.ClassName)
	}
	st := NewStage(cfg, nil)
	if err := st.root.SetAttrs(rec.Attrs); err != nil {
		return nil, err
	}
	for _, layerRec := range rec.Children {
		layer, err := FromRecord(layerRec)
		if err != nil {
			return nil, err
		}
		if err := st.Add(layer); err != nil {
			return nil, err
		}
	}
	return st, nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case json.Number:
		return x.Float64()
	}
	return 0, fmt.Errorf("want number, got %T", v)
}

// toPoints accepts []Vec2, a flat []float64 or a flat decoded []any.
func toPoints(v any) ([]Vec2, error) {
	var flat []float64
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []Vec2:
		return append([]Vec2(nil), x...), nil
	case []float64:
		flat = x
	case []any:
		flat = make([]float64, len(x))
		for i, e := range x {
			f, err := toFloat(e)
			if err != nil {
				return nil, fmt.Errorf("point %d: %w", i/2, err)
			}
			flat[i] = f
		}
	default:
		return nil, fmt.Errorf("want point list, got %T", v)
	}
	if len(flat)%2 != 0 {
		return nil, fmt.Errorf("odd number of coordinates (%d)", len(flat))
	}
	pts := make([]Vec2, len(flat)/2)
	for i := range pts {
		pts[i] = Vec2{flat[2*i], flat[2*i+1]}
	}
	return pts, nil
}
