// Package view holds the state of the settings panel and turns it into the
// flat node sequence the reconciler consumes.
//
// A Model owns the current value of every setting, which of them were
// modified, the search query, the expanded categories and the display
// flags. Tree renders that state:
//
//	m := view.New(setting.DefaultCatalog(), view.WithExpanded("privacy"))
//	m.SetQuery("cookie")
//	seq := m.Tree()
//
// Models are not safe for concurrent use; session.Session serialises
// access.
package view
