// Package tui is the terminal host of the settings panel.
//
// A rowStore realises the patches of every render as styled lines, so a
// key press restyles only the rows whose props changed. Keys:
//
//	↑/↓ j/k   move
//	enter     expand a category or toggle a setting
//	/         search (esc clears, enter keeps the query)
//	a         show advanced settings
//	d         show descriptions
//	r / R     reset the selected setting / every setting
//	q         quit
package tui
