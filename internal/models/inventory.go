package models

import "time"

// Inventory is a row of the inventories table. Available is not stored; it is
// derived from physical and reserved stock.
type Inventory struct {
	InventoryID string    `db:"inventory_id"`
	ProductID   string    `db:"product_id"` // FK -> products, unique
	Physical    int       `db:"physical"`
	Reserved    int       `db:"reserved"`
	Minimum     int       `db:"minimum"`
	Maximum     int       `db:"maximum"`
	LastUpdated time.Time `db:"last_updated"`
	Version     int64     `db:"version"`
}

// StockMovement is a row of the append-only stock_movements table.
type StockMovement struct {
	MovementID  string    `db:"movement_id"`
	ProductID   string    `db:"product_id"`
	Kind        string    `db:"kind"`
	Quantity    int       `db:"quantity"` // Signed; negative for outbound kinds
	StockBefore int       `db:"stock_before"`
	StockAfter  int       `db:"stock_after"`
	Concept     string    `db:"concept"`
	UserID      string    `db:"user_id"`
	SaleID      string    `db:"sale_id"`
	Reference   string    `db:"reference"`
	CreatedAt   time.Time `db:"created_at"`
}
