// Package theme decides which file a deployment loads for each logical
// resource key. A theme declares overrides; every key it does not declare
// resolves to the default resource tree.
//
// Tables are built once per theme selection and never modified. A running
// server changes theme by building a new table and swapping it into an
// Active:
//
//	table, src, err := theme.NewLoader(themesDir, root, logger).Load("knb")
//	if err != nil {
//		return err
//	}
//	active := theme.NewActive(table)
//	res := active.Resolve("templates/navbar.html", theme.ModulePath(root, "text!templates/navbar.html"))
package theme
