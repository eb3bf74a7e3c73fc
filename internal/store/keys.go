package store

// セッションハッシュのフィールド名
const (
	FieldRole      = "role"
	FieldExpiresAt = "expires_at"
)

// DefaultKeyPrefix はセッションキーのデフォルトプレフィックス
const DefaultKeyPrefix = "session:"
