package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/kedaikopi/pos-api/internal/domain/entity"
	"github.com/kedaikopi/pos-api/internal/domain/enum"
	"github.com/kedaikopi/pos-api/pkg/apperror"
)

func newTableFixture(tables ...*entity.DiningTable) (*TableService, *fakeTableRepo, *fakeSaleRepo) {
	tableRepo := newFakeTableRepo(tables...)
	saleRepo := newFakeSaleRepo()
	return NewTableService(tableRepo, saleRepo), tableRepo, saleRepo
}

func activeSaleAt(tableNo int) *entity.Sale {
	no := tableNo
	return &entity.Sale{
		UserID:     uuid.New(),
		SaleNumber: uuid.NewString(),
		Status:     enum.SaleStatusUnpaid,
		TableNo:    &no,
		Items: []entity.SaleItem{
			{Name: "Es Kopi Susu", UnitPrice: 18000, Quantity: 1, LineTotal: 18000},
		},
	}
}

func TestTableService_Occupancy(t *testing.T) {
	ctx := context.Background()

	t.Run("active sale marks a table occupied", func(t *testing.T) {
		svc, _, saleRepo := newTableFixture(
			&entity.DiningTable{TableNo: 1, Seats: 4},
			&entity.DiningTable{TableNo: 2, Seats: 4},
		)
		require.NoError(t, saleRepo.Create(ctx, activeSaleAt(1)))

		views, err := svc.ListTables(ctx)
		require.NoError(t, err)

		byNo := make(map[int]TableView)
		for _, v := range views {
			byNo[v.Table.TableNo] = v
		}

		assert.True(t, byNo[1].Occupied)
		require.NotNil(t, byNo[1].ActiveSale)
		assert.False(t, byNo[2].Occupied)
	})

	t.Run("flag alone also counts as occupied", func(t *testing.T) {
		svc, _, _ := newTableFixture(
			&entity.DiningTable{TableNo: 3, Seats: 2, Status: enum.TableStatusOccupied},
		)

		view, err := svc.GetTable(ctx, 3)
		require.NoError(t, err)
		assert.True(t, view.Occupied)
		assert.Nil(t, view.ActiveSale)
	})

	t.Run("paid sales do not occupy", func(t *testing.T) {
		svc, _, saleRepo := newTableFixture(&entity.DiningTable{TableNo: 5, Seats: 4})

		sale := activeSaleAt(5)
		sale.Status = enum.SaleStatusPaid
		require.NoError(t, saleRepo.Create(ctx, sale))

		view, err := svc.GetTable(ctx, 5)
		require.NoError(t, err)
		assert.False(t, view.Occupied)
	})

	t.Run("unknown table is not found", func(t *testing.T) {
		svc, _, _ := newTableFixture()
		_, err := svc.GetTable(ctx, 99)
		require.Error(t, err)
	})
}

func TestTableService_CreateTable(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with default seats", func(t *testing.T) {
		svc, _, _ := newTableFixture()

		table, err := svc.CreateTable(ctx, 7, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, table.Seats)
	})

	t.Run("duplicate table number is rejected", func(t *testing.T) {
		svc, _, _ := newTableFixture(&entity.DiningTable{TableNo: 1, Seats: 4})

		_, err := svc.CreateTable(ctx, 1, 4)
		require.Error(t, err)
	})

	t.Run("non-positive table number is rejected", func(t *testing.T) {
		svc, _, _ := newTableFixture()

		_, err := svc.CreateTable(ctx, 0, 4)
		require.Error(t, err)
	})
}

func TestTableService_ClearTable(t *testing.T) {
	ctx := context.Background()

	t.Run("cannot clear a table with an unsettled sale", func(t *testing.T) {
		svc, _, saleRepo := newTableFixture(&entity.DiningTable{TableNo: 1, Seats: 4})
		require.NoError(t, saleRepo.Create(ctx, activeSaleAt(1)))

		err := svc.ClearTable(ctx, 1)
		assert.ErrorIs(t, err, apperror.ErrTableHasActiveOrder)
	})

	t.Run("an itemless active sale is dropped with the flag", func(t *testing.T) {
		svc, tableRepo, saleRepo := newTableFixture(
			&entity.DiningTable{TableNo: 6, Seats: 4, Status: enum.TableStatusOccupied},
		)
		sale := activeSaleAt(6)
		sale.Items = nil
		require.NoError(t, saleRepo.Create(ctx, sale))

		require.NoError(t, svc.ClearTable(ctx, 6))

		stored, _ := saleRepo.GetByID(ctx, sale.ID)
		assert.Nil(t, stored)
		table, _ := tableRepo.GetByTableNo(ctx, 6)
		assert.Equal(t, enum.TableStatusAvailable, table.Status)
	})

	t.Run("clears a stale occupied flag", func(t *testing.T) {
		svc, tableRepo, _ := newTableFixture(
			&entity.DiningTable{TableNo: 2, Seats: 4, Status: enum.TableStatusOccupied},
		)

		require.NoError(t, svc.ClearTable(ctx, 2))

		table, _ := tableRepo.GetByTableNo(ctx, 2)
		assert.Equal(t, enum.TableStatusAvailable, table.Status)
	})

	t.Run("clearing a free table is a no-op", func(t *testing.T) {
		svc, _, _ := newTableFixture(&entity.DiningTable{TableNo: 3, Seats: 4})
		require.NoError(t, svc.ClearTable(ctx, 3))
	})

	t.Run("unknown table is not found", func(t *testing.T) {
		svc, _, _ := newTableFixture()
		require.Error(t, svc.ClearTable(ctx, 42))
	})
}
