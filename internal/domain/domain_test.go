package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockStatusOf(t *testing.T) {
	tests := []struct {
		name           string
		qty, low, over int
		want           StockStatus
	}{
		{"below low", 3, 5, 50, StockLow},
		{"at low", 5, 5, 50, StockLow},
		{"above over", 60, 5, 50, StockOverstocked},
		{"at over", 50, 5, 50, StockOverstocked},
		{"between", 20, 5, 50, StockActive},
		{"degenerate prefers low", 10, 10, 10, StockLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StockStatusOf(tt.qty, tt.low, tt.over))
		})
	}
}

func sampleProducts() []Product {
	return []Product{
		{ProductID: "a1b2c3d4-0001", ProductName: "Ray-Ban Aviator", Category: "sunglasses", Quantity: 20, LowLevelThreshold: 5, OverstockedThreshold: 50},
		{ProductID: "ffee0000-0002", ProductName: "Blue Light Lens", Category: "lens", Quantity: 2, LowLevelThreshold: 5, OverstockedThreshold: 50},
		{ProductID: "99990000-0003", ProductName: "Saline Eyedrop", Category: "eyedrop", Quantity: 80, LowLevelThreshold: 5, OverstockedThreshold: 50},
		{ProductID: "77770000-0004", ProductName: "Old Frames", Category: "frames", Quantity: 20, LowLevelThreshold: 5, OverstockedThreshold: 50, IsArchived: true},
	}
}

func names(ps []Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ProductName)
	}
	return out
}

func TestFilterProducts(t *testing.T) {
	ps := sampleProducts()

	assert.Equal(t, []string{"Ray-Ban Aviator", "Blue Light Lens", "Saline Eyedrop"},
		names(FilterProducts(ps, ProductFilter{})), "archived hidden by default")

	assert.Equal(t, []string{"Ray-Ban Aviator"},
		names(FilterProducts(ps, ProductFilter{Query: "ray-BAN"})), "name match is case-insensitive")

	assert.Equal(t, []string{"Blue Light Lens"},
		names(FilterProducts(ps, ProductFilter{Query: "FFEE"})), "identifier match is case-insensitive")

	assert.Empty(t, FilterProducts(ps, ProductFilter{Query: "old frames"}), "archived never matches")

	assert.Equal(t, []string{"Saline Eyedrop"},
		names(FilterProducts(ps, ProductFilter{Category: "eyedrop"})))

	assert.Len(t, FilterProducts(ps, ProductFilter{Category: "all"}), 3)

	assert.Equal(t, []string{"Blue Light Lens"},
		names(FilterProducts(ps, ProductFilter{Stock: StockFilterLow})))
	assert.Equal(t, []string{"Saline Eyedrop"},
		names(FilterProducts(ps, ProductFilter{Stock: StockFilterOverstocked})))
	assert.Equal(t, []string{"Ray-Ban Aviator"},
		names(FilterProducts(ps, ProductFilter{Stock: StockFilterInStock})))
}

func TestFilterUsersAndStats(t *testing.T) {
	us := []User{
		{UserID: "1", FirstName: "Maria", LastName: "Torres", Username: "mtorres", Email: "maria@clinic.ph", Role: "Admin"},
		{UserID: "2", FirstName: "Jose", LastName: "Rizal", Username: "jrizal", Email: "jose@clinic.ph", Role: "Staff"},
		{UserID: "3", FirstName: "Ana", LastName: "Cruz", Username: "acruz", Email: "ana@clinic.ph", Role: "Staff", IsArchived: true},
	}

	assert.Len(t, FilterUsers(us, ""), 2)
	assert.Len(t, FilterUsers(us, "maria torres"), 1)
	assert.Len(t, FilterUsers(us, "JRIZAL"), 1)
	assert.Len(t, FilterUsers(us, "@clinic.ph"), 2)
	assert.Empty(t, FilterUsers(us, "acruz"))

	assert.Equal(t, UserStats{Total: 2, Admins: 1, Staff: 1}, CountUsers(FilterUsers(us, "")))
}

func TestProductHelpers(t *testing.T) {
	p := Product{ProductID: "0123456789abcdef"}
	assert.Equal(t, "01234567", p.ShortID())
	assert.Equal(t, "abc", Product{ProductID: "abc"}.ShortID())
	assert.True(t, CategoryLens.Valid())
	assert.False(t, Category("contacts").Valid())
	assert.Equal(t, "MT", User{FirstName: "Maria", LastName: "Torres"}.Initials())
}
