package models

import "time"

// AddressChangeEvent is an append-only audit row written whenever an upsert
// finds a differing stored address. The customers row, not this log, holds
// the current address.
type AddressChangeEvent struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID string    `gorm:"column:customer_id;not null;index"`
	OldAddress string    `gorm:"column:old_address;not null"`
	NewAddress string    `gorm:"column:new_address;not null"`
	BatchID    int64     `gorm:"column:batch_id;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (AddressChangeEvent) TableName() string {
	return "address_change_events"
}
