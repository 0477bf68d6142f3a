package directory

import (
	"context"
	"fmt"

	"github.com/jedmarcnocum/spendledger-backend/internal/decode"
	"github.com/jedmarcnocum/spendledger-backend/pkg/db/models"
	pkgerrors "github.com/jedmarcnocum/spendledger-backend/pkg/errors"
	"gorm.io/gorm"
)

// txRunner is the slice of the db client the service needs: one atomic unit of
// work per batch.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service maintains the authoritative customer directory across batches.
type Service interface {
	PersistBatch(ctx context.Context, input PersistInput) (*PersistResult, error)
	ListCustomers(ctx context.Context) ([]CustomerDTO, error)
	ListAddressChanges(ctx context.Context, customerID string) ([]AddressChangeDTO, error)
	ListBatches(ctx context.Context) ([]BatchDTO, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService wires a directory service with its repository and transaction runner.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("directory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// PersistInput is everything one batch writes to the directory.
type PersistInput struct {
	Filename             string
	TransactionsRowCount int
	CustomersRowCount    int
	ProductsRowCount     int
	Customers            []decode.Record
}

// PersistResult reports the committed batch id and audit volume.
type PersistResult struct {
	BatchID        int64
	AddressChanges int
}

// PersistBatch appends the batch row, upserts every decoded customer, and
// records an address-change event for each customer whose stored address
// differs. All writes commit in one transaction: a crash mid-batch never
// leaves batch metadata without its customer updates.
func (s *service) PersistBatch(ctx context.Context, input PersistInput) (*PersistResult, error) {
	result := &PersistResult{}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		batch := &models.UploadBatch{
			Filename:             input.Filename,
			TransactionsRowCount: input.TransactionsRowCount,
			CustomersRowCount:    input.CustomersRowCount,
			ProductsRowCount:     input.ProductsRowCount,
		}
		if err := repo.CreateBatch(ctx, batch); err != nil {
			return fmt.Errorf("recording batch: %w", err)
		}
		result.BatchID = batch.ID

		// Snapshot the directory as of immediately before this batch's
		// writes. Change detection always compares against this snapshot so
		// an upsert never self-compares against a row the same batch wrote.
		ids := make([]string, 0, len(input.Customers))
		for _, record := range input.Customers {
			ids = append(ids, record.CustomerID)
		}
		existing, err := repo.FindCustomers(ctx, ids)
		if err != nil {
			return fmt.Errorf("loading prior customer state: %w", err)
		}
		priorAddress := make(map[string]string, len(existing))
		for _, customer := range existing {
			priorAddress[customer.CustomerID] = customer.Address
		}

		audited := map[string]bool{}
		for _, record := range input.Customers {
			if prior, ok := priorAddress[record.CustomerID]; ok && prior != record.Address && !audited[record.CustomerID] {
				event := &models.AddressChangeEvent{
					CustomerID: record.CustomerID,
					OldAddress: prior,
					NewAddress: record.Address,
					BatchID:    batch.ID,
				}
				if err := repo.CreateAddressChange(ctx, event); err != nil {
					return fmt.Errorf("recording address change for %s: %w", record.CustomerID, err)
				}
				audited[record.CustomerID] = true
				result.AddressChanges++
			}

			customer := &models.Customer{
				CustomerID:  record.CustomerID,
				Name:        record.Name,
				Email:       record.Email,
				DateOfBirth: record.DateOfBirth,
				Address:     record.Address,
				CreatedDate: record.CreatedDate,
			}
			if err := repo.UpsertCustomer(ctx, customer); err != nil {
				return fmt.Errorf("upserting customer %s: %w", record.CustomerID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting batch")
	}
	return result, nil
}

func (s *service) ListCustomers(ctx context.Context) ([]CustomerDTO, error) {
	customers, err := s.repo.ListCustomers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing customers")
	}
	dtos := make([]CustomerDTO, 0, len(customers))
	for _, customer := range customers {
		dtos = append(dtos, toCustomerDTO(customer))
	}
	return dtos, nil
}

func (s *service) ListAddressChanges(ctx context.Context, customerID string) ([]AddressChangeDTO, error) {
	if customerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	events, err := s.repo.ListAddressChanges(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing address changes")
	}
	dtos := make([]AddressChangeDTO, 0, len(events))
	for _, event := range events {
		dtos = append(dtos, toAddressChangeDTO(event))
	}
	return dtos, nil
}

func (s *service) ListBatches(ctx context.Context) ([]BatchDTO, error) {
	batches, err := s.repo.ListBatches(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing batches")
	}
	dtos := make([]BatchDTO, 0, len(batches))
	for _, batch := range batches {
		dtos = append(dtos, toBatchDTO(batch))
	}
	return dtos, nil
}
