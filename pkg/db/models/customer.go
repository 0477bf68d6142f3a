package models

import "time"

// Customer is the authoritative latest-known record for one customer id.
// A later batch replaces the row wholesale; prior values survive only in the
// address-change audit log.
type Customer struct {
	CustomerID  string    `gorm:"column:customer_id;primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Email       string    `gorm:"column:email;not null"`
	DateOfBirth time.Time `gorm:"column:date_of_birth;type:date;not null"`
	Address     string    `gorm:"column:address;not null"`
	CreatedDate time.Time `gorm:"column:created_date;type:date;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Customer) TableName() string {
	return "customers"
}
