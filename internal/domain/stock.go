package domain

type StockStatus string

const (
	StockLow         StockStatus = "Low Stock"
	StockOverstocked StockStatus = "Overstocked"
	StockActive      StockStatus = "Active"
)

// StockStatusOf low stock is checked first, so a degenerate
// configuration where both thresholds match reports Low Stock.
func StockStatusOf(quantity, low, over int) StockStatus {
	if quantity <= low {
		return StockLow
	}
	if quantity >= over {
		return StockOverstocked
	}
	return StockActive
}

// StockFilter 列表页库存筛选（空表示全部）
type StockFilter string

const (
	StockFilterAll         StockFilter = ""
	StockFilterInStock     StockFilter = "in_stock"
	StockFilterLow         StockFilter = "low_stock"
	StockFilterOverstocked StockFilter = "overstocked"
)

func (f StockFilter) Match(s StockStatus) bool {
	switch f {
	case StockFilterInStock:
		return s == StockActive
	case StockFilterLow:
		return s == StockLow
	case StockFilterOverstocked:
		return s == StockOverstocked
	default:
		return true
	}
}
