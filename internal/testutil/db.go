// Package testutil 测试用的内存数据库与数据构造
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/AizaAsim/CampusConnect/internal/model"
	"github.com/AizaAsim/CampusConnect/internal/repository/mysql"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var dbCounter atomic.Uint64

// NewDB 每个测试一个独立的内存 SQLite，单连接
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:campus_test_%d?mode=memory&cache=shared&_pragma=foreign_keys(0)", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), mysql.GormConfig(nil))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

// CreateUser 直接落库，密码为 "password123" 的 bcrypt 哈希
func CreateUser(t testing.TB, db *gorm.DB, username string, role model.Role) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{Username: username, Password: string(hash), FullName: username, Role: role}
	require.NoError(t, db.WithContext(context.Background()).Create(u).Error)
	return u
}
