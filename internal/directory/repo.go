package directory

import (
	"context"
	"errors"

	"github.com/jedmarcnocum/spendledger-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository manages persistence for the customer directory, the batch log,
// and the address-change audit trail.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBatch(ctx context.Context, batch *models.UploadBatch) error
	FindCustomers(ctx context.Context, ids []string) ([]models.Customer, error)
	UpsertCustomer(ctx context.Context, customer *models.Customer) error
	CreateAddressChange(ctx context.Context, event *models.AddressChangeEvent) error
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	ListAddressChanges(ctx context.Context, customerID string) ([]models.AddressChangeEvent, error)
	ListBatches(ctx context.Context) ([]models.UploadBatch, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a directory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateBatch(ctx context.Context, batch *models.UploadBatch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *repository) FindCustomers(ctx context.Context, ids []string) ([]models.Customer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var customers []models.Customer
	if err := r.db.WithContext(ctx).
		Where("customer_id IN ?", ids).
		Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// UpsertCustomer replaces the stored row for the record's customer id, or
// inserts it when absent. Insert-or-replace keyed on the primary key; the new
// record becomes canonical in full.
func (r *repository) UpsertCustomer(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "customer_id"}},
			UpdateAll: true,
		}).
		Create(customer).Error
}

func (r *repository) CreateAddressChange(ctx context.Context, event *models.AddressChangeEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := r.db.WithContext(ctx).
		Order("customer_id ASC").
		Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repository) ListAddressChanges(ctx context.Context, customerID string) ([]models.AddressChangeEvent, error) {
	var events []models.AddressChangeEvent
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) ListBatches(ctx context.Context) ([]models.UploadBatch, error) {
	var batches []models.UploadBatch
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// IsNotFound reports whether err is the record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
