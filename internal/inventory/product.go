// Package inventory defines the product entity and the conversions between
// the display formats found in CSV files and terminal input and the values
// persisted in the store.
package inventory

import "time"

// Column names of the product table, in export order.
const (
	ColumnID       = "product_id"
	ColumnName     = "product_name"
	ColumnPrice    = "product_price"
	ColumnQuantity = "product_quantity"
	ColumnUpdated  = "date_updated"
)

// Columns lists every product column in table order.
var Columns = []string{ColumnID, ColumnName, ColumnPrice, ColumnQuantity, ColumnUpdated}

// Product is a single inventory row.
type Product struct {
	ID        int64     `db:"product_id"`
	Name      string    `db:"product_name"`
	Price     int64     `db:"product_price"` // minor units (cents)
	Quantity  int       `db:"product_quantity"`
	UpdatedAt time.Time `db:"date_updated"`
}

// Record returns the product as CSV cells matching Columns.
func (p Product) Record() []string {
	return []string{
		formatInt(p.ID),
		p.Name,
		formatInt(p.Price),
		formatInt(int64(p.Quantity)),
		FormatTimestamp(p.UpdatedAt),
	}
}
