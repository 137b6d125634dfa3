package config

import (
	"fmt"
	"time"
)

// MockConfig configures the in-memory mock backend.
type MockConfig interface {
	GetPort() string
	GetJWTSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetAdminUsername() string
	GetAdminPassword() string
	GetAllowedOrigins() AllowedOrigins
}

type Mock struct{}

var _ MockConfig = Mock{}

type AllowedOrigins map[string]struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

func (Mock) GetPort() string {
	port := GetEnv("PORT", "8080")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (Mock) GetJWTSecret() string {
	return GetEnv("MOCK_JWT_SECRET", "mock-secret")
}

func (Mock) GetAccessTokenExpiry() time.Duration {
	return GetDuration("MOCK_ACCESS_TTL", 15*time.Minute)
}

func (Mock) GetRefreshTokenExpiry() time.Duration {
	return GetDuration("MOCK_REFRESH_TTL", 7*24*time.Hour)
}

func (Mock) GetAdminUsername() string {
	return GetEnv("MOCK_ADMIN_USER", "admin")
}

func (Mock) GetAdminPassword() string {
	return GetEnv("MOCK_ADMIN_PASSWORD", "admin123")
}

func (Mock) GetAllowedOrigins() AllowedOrigins {
	return AllowedOrigins{"http://localhost:3004": struct{}{}}
}
