package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"optical-console/internal/domain"
	"optical-console/internal/schema"
	resp "optical-console/internal/transport/http/response"
)

type inventoryPage struct {
	Page
	Filter     domain.ProductFilter
	Categories []domain.Category
	Products   []domain.Product
}

type productFormPage struct {
	Page
	Edit       bool
	Action     string
	Categories []domain.Category
	Form       schema.ProductForm
	Errors     schema.FieldErrors
}

// Inventory GET /inventory?q=&category=&stock=
func (h *Console) Inventory(c *gin.Context) {
	data := inventoryPage{
		Page: h.page(c, "Inventory", "inventory"),
		Filter: domain.ProductFilter{
			Query:    c.Query("q"),
			Category: c.Query("category"),
			Stock:    domain.StockFilter(c.Query("stock")),
		},
		Categories: domain.Categories,
	}
	all, err := h.queries(c).Products(c.Request.Context())
	if err != nil {
		h.logFail(c, "list_products", err)
		n := resp.Notify(resp.ActLoadProducts, err)
		data.Notice = &n
		h.render(c, http.StatusOK, "inventory.html", data)
		return
	}
	data.Products = domain.FilterProducts(all, data.Filter)
	h.render(c, http.StatusOK, "inventory.html", data)
}

func (h *Console) productForm(c *gin.Context, edit bool, action string, f schema.ProductForm) productFormPage {
	title := "Add Product"
	if edit {
		title = "Edit Product"
	}
	return productFormPage{
		Page:       h.page(c, title, "inventory"),
		Edit:       edit,
		Action:     action,
		Categories: domain.Categories,
		Form:       f,
	}
}

func (h *Console) NewProduct(c *gin.Context) {
	h.render(c, http.StatusOK, "product_form.html",
		h.productForm(c, false, "/inventory/add", schema.NewProductForm()))
}

func (h *Console) CreateProduct(c *gin.Context) {
	var f schema.ProductForm
	_ = c.ShouldBind(&f)
	data := h.productForm(c, false, "/inventory/add", f)

	payload, errs := schema.ParseProduct(f)
	if !errs.OK() {
		data.Errors = errs
		h.render(c, http.StatusUnprocessableEntity, "product_form.html", data)
		return
	}
	p, err := h.queries(c).CreateProduct(c.Request.Context(), payload)
	if err != nil {
		h.logFail(c, "create_product", err)
		n := resp.Notify(resp.ActCreateProduct, err)
		data.Notice = &n
		h.render(c, failure(err), "product_form.html", data)
		return
	}
	if p != nil {
		h.log.Info("product created", zap.String("id", p.ProductID))
	}
	h.flashTo(c, "/inventory", resp.ActCreateProduct.Success())
}

func (h *Console) EditProduct(c *gin.Context) {
	id := c.Param("id")
	p, err := h.queries(c).Product(c.Request.Context(), id)
	if err != nil {
		h.logFail(c, "get_product", err, zap.String("id", id))
		h.flashTo(c, "/inventory", resp.Notify(resp.ActLoadProduct, err))
		return
	}
	h.render(c, http.StatusOK, "product_form.html",
		h.productForm(c, true, "/inventory/edit/"+id, schema.ProductFormFrom(p)))
}

func (h *Console) UpdateProduct(c *gin.Context) {
	id := c.Param("id")
	var f schema.ProductForm
	_ = c.ShouldBind(&f)
	data := h.productForm(c, true, "/inventory/edit/"+id, f)

	payload, errs := schema.ParseProduct(f)
	if !errs.OK() {
		data.Errors = errs
		h.render(c, http.StatusUnprocessableEntity, "product_form.html", data)
		return
	}
	if _, err := h.queries(c).UpdateProduct(c.Request.Context(), id, payload); err != nil {
		h.logFail(c, "update_product", err, zap.String("id", id))
		n := resp.Notify(resp.ActUpdateProduct, err)
		data.Notice = &n
		h.render(c, failure(err), "product_form.html", data)
		return
	}
	h.flashTo(c, "/inventory", resp.ActUpdateProduct.Success())
}

func (h *Console) ArchiveProduct(c *gin.Context) {
	id := c.Param("id")
	if err := h.queries(c).ArchiveProduct(c.Request.Context(), id); err != nil {
		h.logFail(c, "archive_product", err, zap.String("id", id))
		h.flashTo(c, "/inventory", resp.Notify(resp.ActArchiveProduct, err))
		return
	}
	h.flashTo(c, "/inventory", resp.ActArchiveProduct.Success())
}
