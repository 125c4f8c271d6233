package theme

import "sync/atomic"

// Active holds the table currently serving lookups. Readers never block;
// a theme change builds a new table and swaps the reference.
type Active struct {
	ptr atomic.Pointer[OverrideTable]
}

// NewActive returns an Active serving table.
func NewActive(table *OverrideTable) *Active {
	a := &Active{}
	a.ptr.Store(table)
	return a
}

// Load returns the table currently in use.
func (a *Active) Load() *OverrideTable {
	return a.ptr.Load()
}

// Swap installs table and returns the one it replaced.
func (a *Active) Swap(table *OverrideTable) *OverrideTable {
	return a.ptr.Swap(table)
}

// Resolve resolves key against the current table.
func (a *Active) Resolve(key, defaultPath string) ResolvedResource {
	return Resolve(a.Load(), key, defaultPath)
}

// ResolveRequest resolves req against the current table. A request naming a
// theme other than the active one gets the default path, since the active
// table only speaks for its own theme.
func (a *Active) ResolveRequest(req ResourceRequest, defaultPath string) ResolvedResource {
	table := a.Load()
	if req.Theme != "" && table != nil && table.Theme != "" && req.Theme != table.Theme {
		return ResolvedResource{Path: defaultPath}
	}
	return Resolve(table, req.Key, defaultPath)
}
