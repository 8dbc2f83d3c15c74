package domain

// DesignSpec describes one theme from the fixed catalog: a background color
// and two foreground colors plus the catalog name.
type DesignSpec struct {
	Name       string `json:"theme_name"`
	Background string `json:"background_color"`
	Foreground string `json:"foreground_color"`
	Accent     string `json:"accent_color"`
}

var themeCatalog = []DesignSpec{
	{Name: "midnight", Background: "#0f172a", Foreground: "#e2e8f0", Accent: "#38bdf8"},
	{Name: "parchment", Background: "#fdf6e3", Foreground: "#433422", Accent: "#b58900"},
	{Name: "slate", Background: "#f8fafc", Foreground: "#1e293b", Accent: "#6366f1"},
	{Name: "forest", Background: "#14532d", Foreground: "#f0fdf4", Accent: "#facc15"},
	{Name: "crimson", Background: "#fff1f2", Foreground: "#4c0519", Accent: "#e11d48"},
}

// Themes returns a copy of the immutable theme catalog.
func Themes() []DesignSpec {
	out := make([]DesignSpec, len(themeCatalog))
	copy(out, themeCatalog)
	return out
}

// DefaultTheme is the catalog entry selected before the user picks one.
func DefaultTheme() DesignSpec {
	return themeCatalog[0]
}

// ThemeByName looks up a catalog entry.
func ThemeByName(name string) (DesignSpec, bool) {
	for _, t := range themeCatalog {
		if t.Name == name {
			return t, true
		}
	}
	return DesignSpec{}, false
}
