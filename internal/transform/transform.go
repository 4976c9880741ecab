// Package transform computes the normalized filename for batchren.
package transform

import "strings"

const (
	// HiddenMarker is the leading character of hidden files and directories.
	HiddenMarker = "."

	// Separator is both the extension separator and an internal separator
	// that gets replaced in the base name.
	Separator = "."

	// Space is the second character replaced in the base name.
	Space = " "

	// DefaultReplacement is used when no replacement is configured.
	DefaultReplacement = "_"
)

// Rules holds the settings applied to every filename in a run.
type Rules struct {
	Replacement string // Token substituted for each separator and space ("" deletes them)
	Prefix      string // Prepended to the base name
	Suffix      string // Appended to the base name, before the extension
}

// DefaultRules returns Rules with the default replacement and no affixes.
func DefaultRules() Rules {
	return Rules{Replacement: DefaultReplacement}
}

// HasAffix reports whether a prefix or suffix is configured.
func (r Rules) HasAffix() bool {
	return r.Prefix != "" || r.Suffix != ""
}

// IsHidden reports whether name is a hidden entry.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, HiddenMarker)
}

// SplitExtension splits name at its last separator.
// The extension keeps the separator; it is empty when name has none.
//
// Examples:
//   - "t2.v1.image.jpg.mp4" -> ("t2.v1.image.jpg", ".mp4")
//   - "README"              -> ("README", "")
//   - "name."               -> ("name", ".")
func SplitExtension(name string) (base, ext string) {
	idx := strings.LastIndex(name, Separator)
	if idx == -1 {
		return name, ""
	}
	return name[:idx], name[idx:]
}

// NeedsReplacement reports whether base contains a separator or a space.
func NeedsReplacement(base string) bool {
	return strings.Contains(base, Separator) || strings.Contains(base, Space)
}

// Apply rewrites name according to r and reports whether it changed.
//
// Hidden names are returned untouched. Otherwise every separator and then
// every space in the base name is replaced with r.Replacement, the result is
// wrapped in r.Prefix and r.Suffix, and the extension is reattached.
//
// Consecutive separators produce consecutive replacement tokens; they are not
// merged. Prefix and suffix are applied even when the base needed no
// substitution, and are not checked for being already present.
func Apply(name string, r Rules) (string, bool) {
	if name == "" || IsHidden(name) {
		return name, false
	}

	base, ext := SplitExtension(name)

	needsReplacement := NeedsReplacement(base)
	if !needsReplacement && !r.HasAffix() {
		return name, false
	}

	if needsReplacement {
		base = strings.ReplaceAll(base, Separator, r.Replacement)
		base = strings.ReplaceAll(base, Space, r.Replacement)
	}

	newName := r.Prefix + base + r.Suffix + ext
	return newName, newName != name
}

// Transform is the argument-list form of Apply.
func Transform(name, replacement, prefix, suffix string) (string, bool) {
	return Apply(name, Rules{Replacement: replacement, Prefix: prefix, Suffix: suffix})
}
