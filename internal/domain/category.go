package domain

import "strings"

// OthersCategory is the catch-all category for unmatched extensions
const OthersCategory = "Others"

// Category maps a destination folder name to the extensions it collects
type Category struct {
	Name       string   `mapstructure:"name"`
	Extensions []string `mapstructure:"extensions"`
}

// CategorySet is an ordered, read-only extension lookup table.
// Categories are matched in declared order and the first match wins.
type CategorySet struct {
	names  []string
	byName map[string]map[string]struct{}
}

// NewCategorySet builds a CategorySet from the given categories.
// Extensions are lowercased and given a leading dot if missing.
// An "Others" entry is accepted but never matched; it is always the fallback.
func NewCategorySet(categories []Category) CategorySet {
	set := CategorySet{
		byName: make(map[string]map[string]struct{}, len(categories)),
	}
	for _, c := range categories {
		if c.Name == OthersCategory {
			continue
		}
		exts, ok := set.byName[c.Name]
		if !ok {
			exts = make(map[string]struct{}, len(c.Extensions))
			set.byName[c.Name] = exts
			set.names = append(set.names, c.Name)
		}
		for _, ext := range c.Extensions {
			exts[NormalizeExtension(ext)] = struct{}{}
		}
	}
	return set
}

// DefaultCategories returns the built-in category table
func DefaultCategories() []Category {
	return []Category{
		{Name: "Images", Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".bmp"}},
		{Name: "Documents", Extensions: []string{".pdf", ".doc", ".docx", ".txt", ".xlsx"}},
		{Name: "Videos", Extensions: []string{".mp4", ".mkv", ".avi"}},
		{Name: "Music", Extensions: []string{".mp3", ".wav"}},
		{Name: "Archives", Extensions: []string{".zip", ".rar", ".tar"}},
		{Name: OthersCategory},
	}
}

// Lookup returns the category for a lowercase extension, or Others
func (s CategorySet) Lookup(ext string) string {
	for _, name := range s.names {
		if _, ok := s.byName[name][ext]; ok {
			return name
		}
	}
	return OthersCategory
}

// Names returns the category names in match order, Others last
func (s CategorySet) Names() []string {
	names := make([]string, 0, len(s.names)+1)
	names = append(names, s.names...)
	return append(names, OthersCategory)
}

// NormalizeExtension lowercases ext and ensures a leading dot
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// SplitExt splits a file name into base and extension.
// Leading dots belong to the base, so ".bashrc" has no extension.
func SplitExt(name string) (base, ext string) {
	trimmed := strings.TrimLeft(name, ".")
	idx := strings.LastIndex(trimmed, ".")
	if idx < 0 {
		return name, ""
	}
	cut := len(name) - len(trimmed) + idx
	return name[:cut], name[cut:]
}
