package theme

import "strings"

// DefaultThemeName is used when a deployment does not name a theme.
const DefaultThemeName = "default"

// DefaultRoot is the deployment root used when none is configured.
const DefaultRoot = "/metacatui"

// ResourceRequest is a single lookup of a logical key for a theme.
type ResourceRequest struct {
	Key   string `json:"key"`
	Theme string `json:"theme"`
}

// ResolvedResource is the outcome of a lookup.
type ResolvedResource struct {
	Path       string `json:"path" yaml:"path"`
	Overridden bool   `json:"overridden" yaml:"overridden"`
}

// Resolve returns the override path for key when table declares one and
// defaultPath otherwise. A nil table declares nothing.
func Resolve(table *OverrideTable, key, defaultPath string) ResolvedResource {
	if p, ok := table.Lookup(key); ok {
		return ResolvedResource{Path: p, Overridden: true}
	}
	return ResolvedResource{Path: defaultPath, Overridden: false}
}

// ResolveModule resolves a module loader id such as "models/AppModel" or
// "text!templates/navbar.html" against the default tree under root. A plugin
// prefix is stripped for the lookup and kept on the returned path.
func ResolveModule(table *OverrideTable, id, root string) ResolvedResource {
	plugin, key := SplitModuleID(id)

	res := Resolve(table, key, ModulePath(root, id))
	if plugin != "" {
		res.Path = plugin + "!" + res.Path
	}
	return res
}

// SplitModuleID splits a loader id into its plugin name and resource key.
// Plain module ids have an empty plugin.
func SplitModuleID(id string) (plugin, key string) {
	if p, k, ok := strings.Cut(id, "!"); ok {
		return p, k
	}
	return "", id
}

// ModulePath returns the default location of a loader id under root + "/js/".
// Plugin resources ("text!templates/navbar.html") keep their name as is;
// plain module ids get ".js" appended unless they already end in it, dotted
// names included ("components/jquery.form" loads jquery.form.js). The plugin
// prefix is not part of the result. Absolute paths and URLs are returned
// unchanged.
func ModulePath(root, id string) string {
	plugin, key := SplitModuleID(id)
	if strings.HasPrefix(key, "/") || strings.Contains(key, "://") {
		return key
	}
	if plugin == "" && !strings.HasSuffix(key, ".js") {
		key += ".js"
	}
	return NormalizeRoot(root) + "/js/" + key
}

// NormalizeRoot applies the default deployment root and drops a trailing
// slash.
func NormalizeRoot(root string) string {
	root = strings.TrimSpace(root)
	if root == "" {
		return DefaultRoot
	}
	if root == "/" {
		return ""
	}
	return strings.TrimRight(root, "/")
}

// NormalizeThemeName applies the default theme name.
func NormalizeThemeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultThemeName
	}
	return name
}
