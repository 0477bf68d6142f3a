package directory

import (
	"time"

	"github.com/jedmarcnocum/spendledger-backend/pkg/db/models"
)

// CustomerDTO is the wire shape of a directory entry.
type CustomerDTO struct {
	CustomerID  string `json:"customer_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	DateOfBirth string `json:"date_of_birth"`
	Address     string `json:"address"`
	CreatedDate string `json:"created_date"`
	UpdatedAt   string `json:"updated_at"`
}

// AddressChangeDTO is one entry of a customer's address audit trail.
type AddressChangeDTO struct {
	ID         int64  `json:"id"`
	CustomerID string `json:"customer_id"`
	OldAddress string `json:"old_address"`
	NewAddress string `json:"new_address"`
	BatchID    int64  `json:"batch_id"`
	CreatedAt  string `json:"created_at"`
}

// BatchDTO summarizes one ingested upload.
type BatchDTO struct {
	ID                   int64  `json:"id"`
	Filename             string `json:"filename"`
	TransactionsRowCount int    `json:"transactions_row_count"`
	CustomersRowCount    int    `json:"customers_row_count"`
	ProductsRowCount     int    `json:"products_row_count"`
	CreatedAt            string `json:"created_at"`
}

func toCustomerDTO(customer models.Customer) CustomerDTO {
	return CustomerDTO{
		CustomerID:  customer.CustomerID,
		Name:        customer.Name,
		Email:       customer.Email,
		DateOfBirth: customer.DateOfBirth.Format("2006-01-02"),
		Address:     customer.Address,
		CreatedDate: customer.CreatedDate.Format("2006-01-02"),
		UpdatedAt:   customer.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toAddressChangeDTO(event models.AddressChangeEvent) AddressChangeDTO {
	return AddressChangeDTO{
		ID:         event.ID,
		CustomerID: event.CustomerID,
		OldAddress: event.OldAddress,
		NewAddress: event.NewAddress,
		BatchID:    event.BatchID,
		CreatedAt:  event.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toBatchDTO(batch models.UploadBatch) BatchDTO {
	return BatchDTO{
		ID:                   batch.ID,
		Filename:             batch.Filename,
		TransactionsRowCount: batch.TransactionsRowCount,
		CustomersRowCount:    batch.CustomersRowCount,
		ProductsRowCount:     batch.ProductsRowCount,
		CreatedAt:            batch.CreatedAt.UTC().Format(time.RFC3339),
	}
}
