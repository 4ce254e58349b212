package schema

import (
	"strconv"
	"strings"

	"optical-console/internal/domain"
)

// ProductForm 表单原始输入，全部按文本接收
type ProductForm struct {
	ProductName          string `form:"productName"`
	Category             string `form:"category"`
	Supplier             string `form:"supplier"`
	UnitPrice            string `form:"unitPrice"`
	Quantity             string `form:"quantity"`
	LowLevelThreshold    string `form:"lowLevelThreshold"`
	OverstockedThreshold string `form:"overstockedThreshold"`
	IsArchived           bool   `form:"isArchived"`
	ImageDir             string `form:"imageDir"`
}

const ThresholdOrderMsg = "Overstock threshold must be greater than low stock threshold"

var categoryTag = func() string {
	parts := make([]string, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		parts = append(parts, string(c))
	}
	return "oneof=" + strings.Join(parts, " ")
}()

func (f ProductForm) trimmed() ProductForm {
	f.ProductName = strings.TrimSpace(f.ProductName)
	f.Category = strings.TrimSpace(f.Category)
	f.Supplier = strings.TrimSpace(f.Supplier)
	f.UnitPrice = strings.TrimSpace(f.UnitPrice)
	f.Quantity = strings.TrimSpace(f.Quantity)
	f.LowLevelThreshold = strings.TrimSpace(f.LowLevelThreshold)
	f.OverstockedThreshold = strings.TrimSpace(f.OverstockedThreshold)
	f.ImageDir = strings.TrimSpace(f.ImageDir)
	return f
}

// ParseProduct 校验并转换成提交体；有错误时 payload 为零值
func ParseProduct(in ProductForm) (domain.ProductPayload, FieldErrors) {
	f := in.trimmed()
	errs := FieldErrors{}

	errs.check("productName", "Product name", f.ProductName, "required,max=255")
	errs.check("category", "Category", f.Category, "required,"+categoryTag)
	errs.check("supplier", "Supplier", f.Supplier, "required,max=255")
	errs.check("unitPrice", "Unit price", f.UnitPrice, "required,nonnegative,decimal")
	errs.check("quantity", "Quantity", f.Quantity, "required,nonnegative,wholenumber")
	errs.check("lowLevelThreshold", "Low stock threshold", f.LowLevelThreshold, "required,nonnegative,wholenumber")
	errs.check("overstockedThreshold", "Overstock threshold", f.OverstockedThreshold, "required,nonnegative,wholenumber")

	low, lowErr := strconv.Atoi(f.LowLevelThreshold)
	over, overErr := strconv.Atoi(f.OverstockedThreshold)
	if errs.Get("lowLevelThreshold") == "" && errs.Get("overstockedThreshold") == "" &&
		lowErr == nil && overErr == nil && over <= low {
		errs.Add("overstockedThreshold", ThresholdOrderMsg)
	}

	if !errs.OK() {
		return domain.ProductPayload{}, errs
	}

	price, err := strconv.ParseFloat(f.UnitPrice, 64)
	if err != nil {
		errs.Add("unitPrice", "Unit price must be a valid number")
	}
	qty, err := strconv.Atoi(f.Quantity)
	if err != nil {
		errs.Add("quantity", "Quantity is too large")
	}
	if lowErr != nil {
		errs.Add("lowLevelThreshold", "Low stock threshold is too large")
	}
	if overErr != nil {
		errs.Add("overstockedThreshold", "Overstock threshold is too large")
	}
	if !errs.OK() {
		return domain.ProductPayload{}, errs
	}

	p := domain.ProductPayload{
		ProductName:          f.ProductName,
		Category:             f.Category,
		Supplier:             f.Supplier,
		UnitPrice:            price,
		Quantity:             qty,
		LowLevelThreshold:    low,
		OverstockedThreshold: over,
		IsArchived:           f.IsArchived,
	}
	if f.ImageDir != "" {
		dir := f.ImageDir
		p.ImageDir = &dir
	}
	return p, errs
}

// ProductFormFrom 编辑页回填，数值转成字符串
func ProductFormFrom(p domain.Product) ProductForm {
	f := ProductForm{
		ProductName:          p.ProductName,
		Category:             p.Category,
		Supplier:             p.Supplier,
		UnitPrice:            strconv.FormatFloat(p.UnitPrice, 'f', -1, 64),
		Quantity:             strconv.Itoa(p.Quantity),
		LowLevelThreshold:    strconv.Itoa(p.LowLevelThreshold),
		OverstockedThreshold: strconv.Itoa(p.OverstockedThreshold),
		IsArchived:           p.IsArchived,
	}
	if p.ImageDir != nil {
		f.ImageDir = *p.ImageDir
	}
	return f
}

// NewProductForm 新建页默认值
func NewProductForm() ProductForm {
	return ProductForm{Category: string(domain.CategoryEyeglasses)}
}
