package vtree

import (
	"github.com/hardfox-dev/hardfox/pkg/setting"
)

// NodeType is the node type discriminator.
type NodeType uint8

const (
	NodeCategoryHeader NodeType = iota + 1 // Collapsible category header
	NodeSettingRow                         // One setting with its control
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case NodeCategoryHeader:
		return "category_header"
	case NodeSettingRow:
		return "setting_row"
	default:
		return "unknown"
	}
}

// ParseNodeType is the inverse of NodeType.String.
func ParseNodeType(s string) (NodeType, bool) {
	switch s {
	case "category_header":
		return NodeCategoryHeader, true
	case "setting_row":
		return NodeSettingRow, true
	default:
		return 0, false
	}
}

// VNode describes one renderable row. VNodes are values; nothing in this
// package modifies one after it is built.
type VNode struct {
	Type  NodeType
	Key   string
	Props Props
}

// Header builds a category header node keyed "header_<category>".
func Header(category string, count int, expanded bool) VNode {
	return VNode{
		Type:  NodeCategoryHeader,
		Key:   HeaderKey(category),
		Props: HeaderProps{Category: category, Count: count, Expanded: expanded},
	}
}

// Row builds a setting row node keyed by the setting key.
func Row(s setting.Setting, showDescription bool) VNode {
	return VNode{
		Type:  NodeSettingRow,
		Key:   s.Key,
		Props: RowProps{Setting: s, ShowDescription: showDescription},
	}
}

// HeaderKey returns the key used for a category header.
func HeaderKey(category string) string {
	return "header_" + category
}

// Keys returns the keys of seq in order.
func Keys(seq []VNode) []string {
	keys := make([]string, len(seq))
	for i, n := range seq {
		keys[i] = n.Key
	}
	return keys
}
