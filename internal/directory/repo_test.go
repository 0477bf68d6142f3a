package directory

import (
	"context"
	"testing"
	"time"

	"github.com/jedmarcnocum/spendledger-backend/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDirectoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	for _, table := range []string{"address_change_events", "upload_batches", "customers"} {
		require.NoError(t, db.Exec("DROP TABLE IF EXISTS "+table).Error)
	}

	customers := `
CREATE TABLE customers (
  customer_id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  date_of_birth DATE NOT NULL,
  address TEXT NOT NULL,
  created_date DATE NOT NULL,
  updated_at DATETIME
);`
	batches := `
CREATE TABLE upload_batches (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  filename TEXT NOT NULL,
  transactions_row_count INTEGER NOT NULL DEFAULT 0,
  customers_row_count INTEGER NOT NULL DEFAULT 0,
  products_row_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	events := `
CREATE TABLE address_change_events (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  customer_id TEXT NOT NULL,
  old_address TEXT NOT NULL,
  new_address TEXT NOT NULL,
  batch_id INTEGER NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(customers).Error)
	require.NoError(t, db.Exec(batches).Error)
	require.NoError(t, db.Exec(events).Error)
	return db
}

func newDirCustomer(id, name, address string) *models.Customer {
	return &models.Customer{
		CustomerID:  id,
		Name:        name,
		Email:       name + "@example.com",
		DateOfBirth: time.Date(1990, 5, 14, 0, 0, 0, 0, time.UTC),
		Address:     address,
		CreatedDate: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRepositoryUpsertCustomerInsertThenUpdate(t *testing.T) {
	db := setupDirectoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertCustomer(ctx, newDirCustomer("C001", "Ana Reyes", "12 Mabini St")))

	updated := newDirCustomer("C001", "Ana Reyes", "88 Rizal Ave")
	require.NoError(t, repo.UpsertCustomer(ctx, updated))

	customers, err := repo.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "C001", customers[0].CustomerID)
	assert.Equal(t, "88 Rizal Ave", customers[0].Address)
}

func TestRepositoryFindCustomersOnlyRequestedIDs(t *testing.T) {
	db := setupDirectoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertCustomer(ctx, newDirCustomer("C001", "Ana Reyes", "12 Mabini St")))
	require.NoError(t, repo.UpsertCustomer(ctx, newDirCustomer("C002", "Ben Cruz", "7 Luna St")))
	require.NoError(t, repo.UpsertCustomer(ctx, newDirCustomer("C003", "Caro Lim", "9 Bonifacio St")))

	found, err := repo.FindCustomers(ctx, []string{"C001", "C003", "C999"})
	require.NoError(t, err)
	require.Len(t, found, 2)

	ids := []string{found[0].CustomerID, found[1].CustomerID}
	assert.ElementsMatch(t, []string{"C001", "C003"}, ids)
}

func TestRepositoryFindCustomersEmptyIDs(t *testing.T) {
	db := setupDirectoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertCustomer(ctx, newDirCustomer("C001", "Ana Reyes", "12 Mabini St")))

	found, err := repo.FindCustomers(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestRepositoryBatchAndAddressChanges(t *testing.T) {
	db := setupDirectoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	batch := &models.UploadBatch{
		Filename:             "q1_extract.xlsx",
		TransactionsRowCount: 10,
		CustomersRowCount:    3,
		ProductsRowCount:     4,
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))
	require.NotZero(t, batch.ID)

	require.NoError(t, repo.CreateAddressChange(ctx, &models.AddressChangeEvent{
		CustomerID: "C001",
		OldAddress: "12 Mabini St",
		NewAddress: "88 Rizal Ave",
		BatchID:    batch.ID,
	}))
	require.NoError(t, repo.CreateAddressChange(ctx, &models.AddressChangeEvent{
		CustomerID: "C002",
		OldAddress: "7 Luna St",
		NewAddress: "1 Aguinaldo Hwy",
		BatchID:    batch.ID,
	}))

	events, err := repo.ListAddressChanges(ctx, "C001")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "12 Mabini St", events[0].OldAddress)
	assert.Equal(t, "88 Rizal Ave", events[0].NewAddress)
	assert.Equal(t, batch.ID, events[0].BatchID)

	batches, err := repo.ListBatches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "q1_extract.xlsx", batches[0].Filename)
	assert.Equal(t, 10, batches[0].TransactionsRowCount)
}

func TestRepositoryListCustomersOrdered(t *testing.T) {
	db := setupDirectoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertCustomer(ctx, newDirCustomer("C010", "Ben Cruz", "7 Luna St")))
	require.NoError(t, repo.UpsertCustomer(ctx, newDirCustomer("C002", "Ana Reyes", "12 Mabini St")))

	customers, err := repo.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "C002", customers[0].CustomerID)
	assert.Equal(t, "C010", customers[1].CustomerID)
}
