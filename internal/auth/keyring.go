package auth

import (
	"net/http"
	"strings"

	"github.com/foldcms/fold/internal/model"
)

const (
	// LocalDevAPIKey is the hardcoded API key for local development only.
	LocalDevAPIKey = "fold_local_dev_key"

	apiKeyHeader = "X-API-Key"
)

// Keyring maps API keys to editor accounts. Keys are loaded at startup;
// the ring is read-only afterwards.
type Keyring struct {
	users map[string]*model.User
}

// NewKeyring builds a keyring from a key-to-user map.
func NewKeyring(users map[string]*model.User) *Keyring {
	if users == nil {
		users = map[string]*model.User{}
	}
	return &Keyring{users: users}
}

// NewDevKeyring returns a keyring recognizing only LocalDevAPIKey, resolved
// to an admin account, for local development.
func NewDevKeyring() *Keyring {
	return NewKeyring(map[string]*model.User{
		LocalDevAPIKey: {
			UserID:      "fold-dev",
			Username:    "fold-dev",
			DisplayName: "Local Development",
			Roles:       []string{"admin"},
		},
	})
}

// Resolve returns the user for an API key, or nil.
func (k *Keyring) Resolve(apiKey string) *model.User {
	return k.users[apiKey]
}

// Middleware authenticates requests by API key (X-API-Key header or bearer
// token) and stores the resolved actor on the request context. Unknown keys
// get 401.
func (k *Keyring) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(apiKeyHeader)
		if key == "" {
			if v := r.Header.Get("Authorization"); strings.HasPrefix(v, "Bearer ") {
				key = strings.TrimPrefix(v, "Bearer ")
			}
		}
		user := k.Resolve(key)
		if user == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized","code":401}`))
			return
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), user)))
	})
}
