package domain

// Category 产品分类（封闭枚举）
type Category string

const (
	CategoryEyeglasses Category = "eyeglasses"
	CategoryFrames     Category = "frames"
	CategoryLens       Category = "lens"
	CategoryGoggles    Category = "goggles"
	CategoryPrisms     Category = "prisms"
	CategoryEyedrop    Category = "eyedrop"
	CategorySunglasses Category = "sunglasses"
)

// Categories 按下拉框展示顺序
var Categories = []Category{
	CategoryEyeglasses,
	CategoryFrames,
	CategoryLens,
	CategoryGoggles,
	CategoryPrisms,
	CategoryEyedrop,
	CategorySunglasses,
}

func (c Category) Valid() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// Product 后端返回的产品记录
type Product struct {
	ProductID            string  `json:"productId"`
	ProductName          string  `json:"productName"`
	Category             string  `json:"category"`
	Supplier             string  `json:"supplier"`
	UnitPrice            float64 `json:"unitPrice"`
	Quantity             int     `json:"quantity"`
	LowLevelThreshold    int     `json:"lowLevelThreshold"`
	OverstockedThreshold int     `json:"overstockedThreshold"`
	IsArchived           bool    `json:"isArchived"`
	ImageDir             *string `json:"imageDir"`
	DateAdded            string  `json:"dateAdded"`
}

// ProductPayload 创建/更新时提交给后端的数据（已校验、已转成数值）
type ProductPayload struct {
	ProductName          string  `json:"productName"`
	Category             string  `json:"category"`
	Supplier             string  `json:"supplier"`
	UnitPrice            float64 `json:"unitPrice"`
	Quantity             int     `json:"quantity"`
	LowLevelThreshold    int     `json:"lowLevelThreshold"`
	OverstockedThreshold int     `json:"overstockedThreshold"`
	IsArchived           bool    `json:"isArchived"`
	ImageDir             *string `json:"imageDir"`
}

func (p Product) Status() StockStatus {
	return StockStatusOf(p.Quantity, p.LowLevelThreshold, p.OverstockedThreshold)
}

// ShortID 列表里只展示前 8 位
func (p Product) ShortID() string {
	if len(p.ProductID) <= 8 {
		return p.ProductID
	}
	return p.ProductID[:8]
}
