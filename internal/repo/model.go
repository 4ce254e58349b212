package repo

import (
	"time"

	"optical-console/internal/domain"
)

// ProductModel 开发后端的产品表
type ProductModel struct {
	ProductID            string    `gorm:"primaryKey;size:36"`
	ProductName          string    `gorm:"size:255;not null"`
	Category             string    `gorm:"size:32;index"`
	Supplier             string    `gorm:"size:255"`
	UnitPrice            float64   `gorm:"not null"`
	Quantity             int       `gorm:"not null"`
	LowLevelThreshold    int       `gorm:"not null"`
	OverstockedThreshold int       `gorm:"not null"`
	IsArchived           bool      `gorm:"index;not null;default:false"`
	ImageDir             *string   `gorm:"size:512"`
	DateAdded            time.Time `gorm:"autoCreateTime"`
}

func (ProductModel) TableName() string { return "products" }

func (m ProductModel) ToDomain() domain.Product {
	return domain.Product{
		ProductID:            m.ProductID,
		ProductName:          m.ProductName,
		Category:             m.Category,
		Supplier:             m.Supplier,
		UnitPrice:            m.UnitPrice,
		Quantity:             m.Quantity,
		LowLevelThreshold:    m.LowLevelThreshold,
		OverstockedThreshold: m.OverstockedThreshold,
		IsArchived:           m.IsArchived,
		ImageDir:             m.ImageDir,
		DateAdded:            formatTime(m.DateAdded),
	}
}

// UserModel 开发后端的用户表；PasswordHash 不出现在任何响应里
type UserModel struct {
	UserID        string    `gorm:"primaryKey;size:36"`
	Username      string    `gorm:"size:64;uniqueIndex;not null"`
	FirstName     string    `gorm:"size:50;not null"`
	MiddleName    *string   `gorm:"size:50"`
	LastName      string    `gorm:"size:50;not null"`
	Gender        string    `gorm:"size:16"`
	BirthDate     string    `gorm:"size:10"`
	Email         string    `gorm:"size:255;uniqueIndex;not null"`
	ContactNumber string    `gorm:"size:32"`
	PasswordHash  string    `gorm:"size:255;not null"`
	Role          string    `gorm:"size:16;not null"`
	IsArchived    bool      `gorm:"index;not null;default:false"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (UserModel) TableName() string { return "users" }

func (m UserModel) ToDomain() domain.User {
	return domain.User{
		UserID:        m.UserID,
		Username:      m.Username,
		FirstName:     m.FirstName,
		MiddleName:    m.MiddleName,
		LastName:      m.LastName,
		Gender:        m.Gender,
		BirthDate:     m.BirthDate,
		Email:         m.Email,
		ContactNumber: m.ContactNumber,
		Role:          m.Role,
		IsArchived:    m.IsArchived,
		CreatedAt:     formatTime(m.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// Models 自动迁移用
func Models() []any { return []any{&ProductModel{}, &UserModel{}} }
