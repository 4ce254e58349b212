package devapi

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"optical-console/internal/domain"
	"optical-console/internal/repo"
	"optical-console/pkg/utils"
)

// 预置管理员账号
const (
	SeedUsername = "admin"
	SeedPassword = "admin12345"
)

// Seed 没有 admin 用户时插入一个，已存在则什么都不做
func Seed(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	r := repo.NewUserRepo(db)
	u, err := r.FindByLogin(ctx, SeedUsername)
	if err != nil {
		return fmt.Errorf("seed lookup: %w", err)
	}
	if u != nil {
		return nil
	}
	hash, err := utils.HashPassword(SeedPassword)
	if err != nil {
		return fmt.Errorf("seed hash: %w", err)
	}
	admin := repo.UserModel{
		UserID:        utils.NewID(),
		Username:      SeedUsername,
		FirstName:     "Admin",
		LastName:      "Account",
		Gender:        string(domain.GenderOther),
		BirthDate:     "1990-01-01",
		Email:         "admin@mmtorres.com",
		ContactNumber: "00000000000",
		PasswordHash:  hash,
		Role:          string(domain.RoleAdmin),
	}
	if err := r.Create(ctx, &admin); err != nil {
		return fmt.Errorf("seed create: %w", err)
	}
	log.Info("seeded admin user", zap.String("username", SeedUsername))
	return nil
}
