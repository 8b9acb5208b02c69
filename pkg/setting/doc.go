// Package setting defines the browser preference entities shown in the
// settings panel and the catalog that describes them.
//
// A Setting is an immutable value: edits produce a new Setting through
// WithValue, and two snapshots are compared with Equal. The reconciler relies
// on that contract when it decides whether a setting row can be reused.
//
// BASE settings belong in prefs.js and are written with pref(); ADVANCED
// settings belong in user.js and are written with user_pref(), which Firefox
// re-applies on every start.
package setting
