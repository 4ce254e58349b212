package repo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"optical-console/internal/core/database"
	"optical-console/pkg/utils"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "repo.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, Models()...))
	return db
}

func TestProductRepo_ArchiveKeepsRecord(t *testing.T) {
	ctx := context.Background()
	r := NewProductRepo(openDB(t))

	p := ProductModel{
		ProductID:            utils.NewID(),
		ProductName:          "Aviator",
		Category:             "sunglasses",
		UnitPrice:            899.99,
		Quantity:             4,
		LowLevelThreshold:    2,
		OverstockedThreshold: 10,
	}
	require.NoError(t, r.Create(ctx, &p))

	missing, err := r.FindByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, r.Archive(ctx, p.ProductID))
	got, err := r.FindByID(ctx, p.ProductID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsArchived)

	d := got.ToDomain()
	assert.Equal(t, "Aviator", d.ProductName)
	assert.NotEmpty(t, d.DateAdded)

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUserRepo_FindByLoginAndUnique(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepo(openDB(t))

	u := UserModel{
		UserID:       utils.NewID(),
		Username:     "jdoe",
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        "jane@example.com",
		PasswordHash: "hash",
		Role:         "Staff",
	}
	require.NoError(t, r.Create(ctx, &u))

	byName, err := r.FindByLogin(ctx, "jdoe")
	require.NoError(t, err)
	require.NotNil(t, byName)
	byMail, err := r.FindByLogin(ctx, "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, byMail)
	assert.Equal(t, byName.UserID, byMail.UserID)

	dup := u
	dup.UserID = utils.NewID()
	dup.Email = "other@example.com"
	assert.Error(t, r.Create(ctx, &dup), "username is unique")

	assert.NotEmpty(t, u.ToDomain().CreatedAt, "created_at is filled on insert")
}
