package storage

// Keys of the persisted client state. They survive process restarts when a
// file backed store is used.
const (
	KeyAccessToken      = "access_token"
	KeyRefreshToken     = "refresh_token"
	KeyLang             = "lang"
	KeyCollapsed        = "collapsed"
	KeyLastVisitedRoute = "lastVisitedRoute"
)

// Store is a small persistent key-value store.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(keys ...string) error
	Clear() error
}
