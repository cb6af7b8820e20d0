// Package render walks a site tree and turns every directory holding a
// content file into index.html and index.json.
//
// Directories whose normalized name (slash separated, relative to the site
// root) is blocked are not rendered; their subdirectories are still visited
// and rendered unless blocked by name themselves. Directories
// without a content file are skipped silently. A failing directory either
// aborts the pass or is recorded and skipped, depending on the site's
// on_error policy.
package render
