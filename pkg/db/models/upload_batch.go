package models

import "time"

// UploadBatch is the immutable per-ingest log row. Never updated or deleted.
type UploadBatch struct {
	ID                   int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Filename             string    `gorm:"column:filename;not null"`
	TransactionsRowCount int       `gorm:"column:transactions_row_count;not null"`
	CustomersRowCount    int       `gorm:"column:customers_row_count;not null"`
	ProductsRowCount     int       `gorm:"column:products_row_count;not null"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (UploadBatch) TableName() string {
	return "upload_batches"
}
