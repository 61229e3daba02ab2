package globals

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const ClaimsKey ContextKey = "claims"
