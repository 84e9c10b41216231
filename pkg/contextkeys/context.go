package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// DBContextKey - ключ, по которому хранится *gorm.DB
	DBContextKey = contextKey("db")

	// IdentityKey - auth.Identity, проверенная AuthMiddleware
	IdentityKey = contextKey("identity")

	// UserIDKey и RoleKey дублируют поля Identity для логирования и хелперов
	UserIDKey = contextKey("userID")
	RoleKey   = contextKey("role")
)
