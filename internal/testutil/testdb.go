// Package testutil opens throwaway databases and seeds fixtures for tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"teamchat/database"
	"teamchat/internal/auth"
	"teamchat/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbCounter int64

// NewDB opens a private in-memory sqlite database with every table migrated.
// It is closed when the test ends.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, atomic.AddInt64(&dbCounter, 1))

	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err, "open sqlite")
	require.NoError(t, database.AutoMigrate(db), "migrate")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user whose password is "password123".
func CreateUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	user := &models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s_%d@test.com", strings.ToLower(name), time.Now().UnixNano()),
		PasswordHash: hash,
	}
	require.NoError(t, db.Create(user).Error, "create user %s", name)
	return user
}

// CreateWorkspace inserts a workspace owned by admin with a "general" channel.
func CreateWorkspace(t *testing.T, db *gorm.DB, admin *models.User, name string) (*models.Workspace, *models.Member, *models.Channel) {
	t.Helper()

	workspace := &models.Workspace{Name: name, UserID: admin.ID, JoinCode: "abc123"}
	require.NoError(t, db.Create(workspace).Error)

	member := AddMember(t, db, workspace, admin, models.MemberRoleAdmin)

	channel := &models.Channel{WorkspaceID: workspace.ID, Name: "general"}
	require.NoError(t, db.Create(channel).Error)

	return workspace, member, channel
}

// AddMember puts user into workspace with role.
func AddMember(t *testing.T, db *gorm.DB, workspace *models.Workspace, user *models.User, role models.MemberRole) *models.Member {
	t.Helper()

	member := &models.Member{WorkspaceID: workspace.ID, UserID: user.ID, Role: role}
	require.NoError(t, db.Omit("User").Create(member).Error)
	member.User = *user
	return member
}
