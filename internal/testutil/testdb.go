package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"oriventa_backend/internal/auth"
	"oriventa_backend/internal/database"
	"oriventa_backend/internal/models"
	"oriventa_backend/internal/storage"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewTestDB - отдельная sqlite-база в t.TempDir() со всеми миграциями.
// Одно соединение: sqlite не любит параллельных писателей.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err, "Не удалось открыть тестовую БД")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// NewTestStorage - локальное хранилище во временной папке
func NewTestStorage(t *testing.T) (storage.Storage, string) {
	t.Helper()
	root := t.TempDir()
	st, err := storage.NewLocalStorage(storage.Config{Type: "local", BasePath: root})
	require.NoError(t, err)
	return st, root
}

// CreateUser создает пользователя с захешированным паролем
func CreateUser(t *testing.T, db *gorm.DB, email, password string, role models.UserRole) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err, "Не удалось хешировать пароль")

	user := &models.User{Email: email, PasswordHash: hash, Role: role}
	require.NoError(t, db.Create(user).Error, "Не удалось создать пользователя %s", email)
	return user
}

// UniqueEmail - email, который не пересечется с другими в тесте
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.local", prefix, time.Now().UnixNano())
}
