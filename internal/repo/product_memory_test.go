package repo

import (
	"errors"
	"sync"
	"testing"

	"github.com/rogerio-castellano/inventory-simulator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

func intPtr(v int) *int { return &v }

func TestCreate_AssignsIncreasingIDsNeverReused(t *testing.T) {
	r := NewInMemoryProductRepository()

	a, err := r.Create("Alpha", 1, 5)
	require.NoError(t, err)
	b, err := r.Create("Beta", 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, a.ID)
	assert.Equal(t, 2, b.ID)

	require.NoError(t, r.Delete(b.ID))
	c, err := r.Create("Gamma", 0, 5)
	require.NoError(t, err)
	assert.Greater(t, c.ID, b.ID, "deleted ids must not be reused")
}

func TestSeededRepository(t *testing.T) {
	r := NewSeededProductRepository()
	all, _ := r.GetAll()
	require.Len(t, all, 3)
	assert.Equal(t, "Laptop", all[0].Name)
	assert.Equal(t, 3, all[2].ID)

	p, err := r.Create("Keyboard", 3, 10)
	require.NoError(t, err)
	assert.Equal(t, models.Product{ID: 4, Name: "Keyboard", Stock: 3, MaxThreshold: 10}, p)
}

func TestCreate_Validation(t *testing.T) {
	r := NewInMemoryProductRepository()
	_, err := r.Create("K", 0, 10)
	var ve *models.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "name required (min 2 chars)", ve.Message)

	all, _ := r.GetAll()
	assert.Empty(t, all)
}

func TestUpdate_PartialAndNotFound(t *testing.T) {
	r := NewInMemoryProductRepository()
	p, _ := r.Create("Monitor", 2, 10)

	updated, delta, err := r.Update(p.ID, models.ProductPatch{Stock: intPtr(15)})
	require.NoError(t, err)
	assert.Equal(t, 13, delta)
	assert.Equal(t, "Monitor", updated.Name)
	assert.Equal(t, 15, updated.Stock, "manual update may exceed maxThreshold")
	assert.Equal(t, 10, updated.MaxThreshold)

	_, _, err = r.Update(9999, models.ProductPatch{Stock: intPtr(1)})
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, _, err = r.Update(p.ID, models.ProductPatch{Stock: intPtr(1), MaxThreshold: intPtr(-1)})
	require.Error(t, err)
	got, _ := r.GetByID(p.ID)
	assert.Equal(t, 15, got.Stock, "a rejected update writes nothing")
}

func TestDelete_NotFound(t *testing.T) {
	r := NewSeededProductRepository()
	assert.ErrorIs(t, r.Delete(9999), ErrProductNotFound)
	require.NoError(t, r.Delete(2))
	_, err := r.GetByID(2)
	assert.ErrorIs(t, err, ErrProductNotFound)

	all, _ := r.GetAll()
	assert.Equal(t, []int{1, 3}, []int{all[0].ID, all[1].ID}, "order is preserved")
}

func TestPickRandom(t *testing.T) {
	r := NewInMemoryProductRepository()
	_, ok := r.PickRandom(fixedRand(0))
	assert.False(t, ok)

	r = NewSeededProductRepository()
	p, ok := r.PickRandom(fixedRand(1))
	require.True(t, ok)
	assert.Equal(t, "Phone", p.Name)
}

func TestApplyMovement(t *testing.T) {
	r := NewInMemoryProductRepository()
	p, _ := r.Create("Cable", 0, 1)

	got, delta, err := r.ApplyMovement(p.ID, models.ActionSale)
	require.NoError(t, err)
	assert.Equal(t, 0, delta)
	assert.Equal(t, 0, got.Stock)

	got, delta, _ = r.ApplyMovement(p.ID, models.ActionPurchase)
	assert.Equal(t, 1, delta)
	assert.Equal(t, 1, got.Stock)

	got, delta, _ = r.ApplyMovement(p.ID, models.ActionPurchase)
	assert.Equal(t, 0, delta)
	assert.Equal(t, 1, got.Stock)

	_, _, err = r.ApplyMovement(42, models.ActionSale)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestGetAll_ReturnsCopy(t *testing.T) {
	r := NewSeededProductRepository()
	all, _ := r.GetAll()
	all[0].Stock = 999
	p, _ := r.GetByID(all[0].ID)
	assert.NotEqual(t, 999, p.Stock)
}

func TestConcurrentMovementsStayInBounds(t *testing.T) {
	r := NewInMemoryProductRepository()
	p, _ := r.Create("Widget", 5, 10)

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		action := models.ActionSale
		if i%3 == 0 {
			action = models.ActionPurchase
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = r.ApplyMovement(p.ID, action)
		}()
	}
	wg.Wait()

	got, _ := r.GetByID(p.ID)
	assert.GreaterOrEqual(t, got.Stock, 0)
	assert.LessOrEqual(t, got.Stock, got.MaxThreshold)
}
