package config

import (
	"strings"
	"time"
)

type API struct{}

var _ APIConfig = API{}

func (API) GetBaseURL() string {
	return strings.TrimRight(GetEnv("API_BASE_URL", "http://localhost:8080"), "/")
}

func (API) GetAPIVersion() string {
	return strings.Trim(GetEnv("API_VERSION", "v1"), "/")
}

func (API) GetTimeout() time.Duration {
	return GetDuration("API_TIMEOUT", 30*time.Second)
}

func (API) GetDefaultLocale() string {
	return GetEnv("DEFAULT_LOCALE", "uz")
}

// GetLocaleMap maps UI locales to the backend's Hl header values.
// LOCALE_MAP has the form "uz=uz_lat,ru=ru,en=en".
func (API) GetLocaleMap() map[string]string {
	return ParseLocaleMap(GetEnv("LOCALE_MAP", "uz=uz,ru=ru,en=en"))
}

func ParseLocaleMap(raw string) map[string]string {
	m := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || k == "" || v == "" {
			continue
		}
		m[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return m
}
