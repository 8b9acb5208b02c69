// Package treefile reads and writes node sequences and patch lists as
// YAML or JSON documents.
//
// A tree file is a list of nodes:
//
//	- type: category_header
//	  props: {category: privacy, count: 2, is_expanded: true}
//	- type: setting_row
//	  props:
//	    setting: {key: privacy.trackingprotection.enabled, value: true, type: toggle, category: privacy}
//	    show_description: true
//
// Keys default to the header key of the category or the setting key. JSON
// documents are read with the same decoder.
package treefile
