package form

import "docsmith/internal/domain"

// ThemePicker tracks the currently selected design theme. It starts on the
// catalog default.
type ThemePicker struct {
	current domain.DesignSpec
}

func NewThemePicker() *ThemePicker {
	return &ThemePicker{current: domain.DefaultTheme()}
}

// Select switches to the named catalog theme.
func (p *ThemePicker) Select(name string) error {
	theme, ok := domain.ThemeByName(name)
	if !ok {
		return domain.ErrUnknownTheme
	}
	p.current = theme
	return nil
}

// Materialize returns the currently selected theme.
func (p *ThemePicker) Materialize() domain.DesignSpec {
	return p.current
}
