package storage

import "strconv"

// Preferences exposes the UI state kept next to the session: locale, sidebar
// state and the last visited route.
type Preferences struct {
	store         Store
	defaultLocale string
}

func NewPreferences(store Store, defaultLocale string) *Preferences {
	if defaultLocale == "" {
		defaultLocale = "uz"
	}
	return &Preferences{store: store, defaultLocale: defaultLocale}
}

// CurrentLocale returns the stored UI locale or the default one.
func (p *Preferences) CurrentLocale() string {
	if lang, ok := p.store.Get(KeyLang); ok && lang != "" {
		return lang
	}
	return p.defaultLocale
}

func (p *Preferences) SetLocale(lang string) error {
	return p.store.Set(KeyLang, lang)
}

func (p *Preferences) Collapsed() bool {
	v, _ := p.store.Get(KeyCollapsed)
	collapsed, _ := strconv.ParseBool(v)
	return collapsed
}

// ToggleCollapsed flips the sidebar flag and returns the new value.
func (p *Preferences) ToggleCollapsed() (bool, error) {
	next := !p.Collapsed()
	if err := p.store.Set(KeyCollapsed, strconv.FormatBool(next)); err != nil {
		return !next, err
	}
	return next, nil
}

func (p *Preferences) LastVisitedRoute() string {
	v, _ := p.store.Get(KeyLastVisitedRoute)
	return v
}

func (p *Preferences) SetLastVisitedRoute(route string) error {
	return p.store.Set(KeyLastVisitedRoute, route)
}
