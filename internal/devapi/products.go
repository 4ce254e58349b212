package devapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"optical-console/internal/domain"
	"optical-console/internal/repo"
	"optical-console/internal/schema"
	"optical-console/internal/transport/http/ez"
	"optical-console/pkg/utils"
)

type ProductModule struct{ d Deps }

type productIn struct {
	ProductName          string   `json:"productName"          binding:"required,max=255"`
	Category             string   `json:"category"             binding:"required,oneof=eyeglasses frames lens goggles prisms eyedrop sunglasses"`
	Supplier             string   `json:"supplier"             binding:"required,max=255"`
	UnitPrice            *float64 `json:"unitPrice"            binding:"required,gte=0"`
	Quantity             *int     `json:"quantity"             binding:"required,gte=0"`
	LowLevelThreshold    *int     `json:"lowLevelThreshold"    binding:"required,gte=0"`
	OverstockedThreshold *int     `json:"overstockedThreshold" binding:"required,gte=0"`
	IsArchived           bool     `json:"isArchived"`
	ImageDir             *string  `json:"imageDir"`
}

// check 阈值顺序服务端再校验一次
func (in *productIn) check() error {
	if *in.OverstockedThreshold <= *in.LowLevelThreshold {
		return ez.BadRequest(schema.ThresholdOrderMsg)
	}
	return nil
}

func (in *productIn) apply(m *repo.ProductModel) {
	m.ProductName = strings.TrimSpace(in.ProductName)
	m.Category = in.Category
	m.Supplier = strings.TrimSpace(in.Supplier)
	m.UnitPrice = *in.UnitPrice
	m.Quantity = *in.Quantity
	m.LowLevelThreshold = *in.LowLevelThreshold
	m.OverstockedThreshold = *in.OverstockedThreshold
	m.IsArchived = in.IsArchived
	m.ImageDir = nil
	if in.ImageDir != nil && strings.TrimSpace(*in.ImageDir) != "" {
		s := strings.TrimSpace(*in.ImageDir)
		m.ImageDir = &s
	}
}

func findProduct(c *gin.Context, tx *gorm.DB) (*repo.ProductModel, error) {
	p, err := repo.NewProductRepo(tx).FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		return nil, ez.Internal("load product failed", err)
	}
	if p == nil {
		return nil, ez.NotFound("product not found")
	}
	return p, nil
}

func (m *ProductModule) Mount(_, authed *gin.RouterGroup) {
	g := ez.New(authed)
	db := m.d.DB

	ez.RegisterAction[struct{}, []domain.Product](g, db, ez.Action[struct{}, []domain.Product]{
		Method: http.MethodGet,
		Path:   "/products",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) ([]domain.Product, error) {
			ps, err := repo.NewProductRepo(tx).List(c.Request.Context())
			if err != nil {
				return nil, ez.Internal("list products failed", err)
			}
			out := make([]domain.Product, 0, len(ps))
			for _, p := range ps {
				out = append(out, p.ToDomain())
			}
			return out, nil
		},
	})

	ez.RegisterAction[struct{}, domain.Product](g, db, ez.Action[struct{}, domain.Product]{
		Method: http.MethodGet,
		Path:   "/products/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (domain.Product, error) {
			p, err := findProduct(c, tx)
			if err != nil {
				return domain.Product{}, err
			}
			return p.ToDomain(), nil
		},
	})

	ez.RegisterAction[productIn, domain.Product](g, db, ez.Action[productIn, domain.Product]{
		Method: http.MethodPost,
		Path:   "/products",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, tx *gorm.DB, in *productIn) (domain.Product, error) {
			if err := in.check(); err != nil {
				return domain.Product{}, err
			}
			p := repo.ProductModel{ProductID: utils.NewID()}
			in.apply(&p)
			if err := repo.NewProductRepo(tx).Create(c.Request.Context(), &p); err != nil {
				return domain.Product{}, ez.Internal("create product failed", err)
			}
			return p.ToDomain(), nil
		},
	})

	ez.RegisterAction[productIn, domain.Product](g, db, ez.Action[productIn, domain.Product]{
		Method: http.MethodPut,
		Path:   "/products/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *productIn) (domain.Product, error) {
			if err := in.check(); err != nil {
				return domain.Product{}, err
			}
			p, err := findProduct(c, tx)
			if err != nil {
				return domain.Product{}, err
			}
			in.apply(p)
			if err := repo.NewProductRepo(tx).Update(c.Request.Context(), p); err != nil {
				return domain.Product{}, ez.Internal("update product failed", err)
			}
			return p.ToDomain(), nil
		},
	})

	ez.RegisterAction[struct{}, struct{}](g, db, ez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/products/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (struct{}, error) {
			if _, err := findProduct(c, tx); err != nil {
				return struct{}{}, err
			}
			if err := repo.NewProductRepo(tx).Archive(c.Request.Context(), c.Param("id")); err != nil {
				return struct{}{}, ez.Internal("archive product failed", err)
			}
			return struct{}{}, nil
		},
	})
}
