package treefile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hardfox-dev/hardfox/internal/errors"
	"github.com/hardfox-dev/hardfox/pkg/setting"
	"github.com/hardfox-dev/hardfox/pkg/vtree"
)

type fileNode struct {
	Type  string    `yaml:"type"`
	Key   string    `yaml:"key"`
	Props yaml.Node `yaml:"props"`
}

type headerFields struct {
	Category string `yaml:"category"`
	Count    int    `yaml:"count"`
	Expanded bool   `yaml:"is_expanded"`
}

type rowFields struct {
	Setting         setting.Setting `yaml:"setting"`
	ShowDescription bool            `yaml:"show_description"`
}

// Load reads a tree file.
func Load(path string) ([]vtree.VNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E160").WithLocation(path, 0).Wrap(err)
	}
	return Parse(data, path)
}

// Parse decodes a tree document. name is used in error locations.
func Parse(data []byte, name string) ([]vtree.VNode, error) {
	var nodes []yaml.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, errors.New("E160").WithLocation(name, 0).Wrap(err)
	}

	seq := make([]vtree.VNode, 0, len(nodes))
	for i := range nodes {
		n, err := decodeNode(&nodes[i])
		if err != nil {
			if he, ok := err.(*errors.Error); ok {
				return nil, he.WithLocation(name, nodes[i].Line)
			}
			return nil, errors.New("E160").WithLocation(name, nodes[i].Line).Wrap(err)
		}
		seq = append(seq, n)
	}
	return seq, nil
}

func decodeNode(node *yaml.Node) (vtree.VNode, error) {
	var fn fileNode
	if err := node.Decode(&fn); err != nil {
		return vtree.VNode{}, err
	}

	t, ok := vtree.ParseNodeType(fn.Type)
	if !ok {
		return vtree.VNode{}, errors.New("E002").
			WithDetail(fmt.Sprintf("node type %q has no props schema", fn.Type)).
			WithSuggestion("Use category_header or setting_row")
	}

	n := vtree.VNode{Type: t, Key: fn.Key}
	switch t {
	case vtree.NodeCategoryHeader:
		var h headerFields
		if err := decodeProps(&fn.Props, &h); err != nil {
			return vtree.VNode{}, err
		}
		n.Props = vtree.HeaderProps{Category: h.Category, Count: h.Count, Expanded: h.Expanded}
		if n.Key == "" {
			n.Key = vtree.HeaderKey(h.Category)
		}

	case vtree.NodeSettingRow:
		var r rowFields
		if err := decodeProps(&fn.Props, &r); err != nil {
			return vtree.VNode{}, err
		}
		if r.Setting.Level == "" {
			r.Setting.Level = setting.LevelBase
		}
		n.Props = vtree.RowProps{Setting: r.Setting, ShowDescription: r.ShowDescription}
		if n.Key == "" {
			n.Key = r.Setting.Key
		}
	}

	if n.Key == "" {
		return vtree.VNode{}, fmt.Errorf("treefile: %s node without a key", fn.Type)
	}
	return n, nil
}

// decodeProps leaves v zero when the node has no props.
func decodeProps(props *yaml.Node, v any) error {
	if props.Kind == 0 {
		return nil
	}
	return props.Decode(v)
}
