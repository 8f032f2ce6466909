package persistence

import (
	"strings"

	"gorm.io/gorm/clause"
)

// SortColumns maps the sort keys a client may send to table columns.
// Unknown keys never reach SQL.
type SortColumns map[string]string

// Order resolves key and dir to an ORDER BY column. An unknown or empty key
// sorts by fallback; only "desc" (any case) sorts descending.
func (c SortColumns) Order(key, dir, fallback string) clause.OrderByColumn {
	column, ok := c[strings.TrimSpace(key)]
	if !ok {
		column = fallback
	}
	return clause.OrderByColumn{
		Column: clause.Column{Name: column},
		Desc:   strings.EqualFold(strings.TrimSpace(dir), "desc"),
	}
}

// productSortColumns accepts both the camelCase query form and the column name.
var productSortColumns = SortColumns{
	"id":              "id",
	"code":            "code",
	"name":            "name",
	"unitPrice":       "unit_price",
	"unit_price":      "unit_price",
	"stockQuantity":   "stock_quantity",
	"stock_quantity":  "stock_quantity",
	"minStockLevel":   "min_stock_level",
	"min_stock_level": "min_stock_level",
	"createdAt":       "created_at",
	"created_at":      "created_at",
	"updatedAt":       "updated_at",
	"updated_at":      "updated_at",
}
