package contextkeys

// Custom type to avoid collisions
type contextKey string

// DBContextKey stores the request-scoped *gorm.DB in the gin context.
const DBContextKey = contextKey("db")

// UserIDKey and EmailKey are gin context keys set by the auth middleware.
const (
	UserIDKey = "userID"
	EmailKey  = "email"
)
