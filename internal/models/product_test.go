package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }

func TestNewProduct(t *testing.T) {
	tests := []struct {
		name      string
		inName    string
		stock     int
		max       int
		wantField string
	}{
		{name: "valid", inName: "  Keyboard ", stock: 3, max: 10},
		{name: "blank name", inName: "   ", stock: 1, max: 5, wantField: "name"},
		{name: "one char name", inName: "K", stock: 1, max: 5, wantField: "name"},
		{name: "one accented char", inName: "é", stock: 1, max: 5, wantField: "name"},
		{name: "one cjk char", inName: " 日 ", stock: 1, max: 5, wantField: "name"},
		{name: "one emoji", inName: "😀", stock: 1, max: 5, wantField: "name"},
		{name: "negative stock", inName: "Mouse", stock: -1, max: 5, wantField: "stock"},
		{name: "negative threshold", inName: "Mouse", stock: 1, max: -5, wantField: "maxThreshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProduct(tt.inName, tt.stock, tt.max)
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, "Keyboard", p.Name)
				assert.Equal(t, 3, p.Stock)
				assert.Equal(t, 10, p.MaxThreshold)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestNewProduct_MultiByteNames(t *testing.T) {
	p, err := NewProduct("日本", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, "日本", p.Name)

	_, err = NewProduct("Ü ", 0, 10)
	assert.EqualError(t, err, "name required (min 2 chars)")
}

func TestNewProduct_NameMessage(t *testing.T) {
	_, err := NewProduct("K", 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name required")
}

func TestProductPatch_ValidateAndApply(t *testing.T) {
	p := Product{ID: 7, Name: "Phone", Stock: 2, MaxThreshold: 5}

	patch := ProductPatch{Stock: intPtr(9)}
	require.NoError(t, patch.Validate())
	patch.Apply(&p)

	assert.Equal(t, Product{ID: 7, Name: "Phone", Stock: 9, MaxThreshold: 5}, p, "only stock may change, and it is not clamped")

	bad := ProductPatch{Name: strPtr("ok name"), MaxThreshold: intPtr(-1)}
	err := bad.Validate()
	require.Error(t, err)
	assert.Equal(t, "maxThreshold cannot be negative", err.Error())

	assert.EqualError(t, ProductPatch{Name: strPtr(" x ")}.Validate(), "name too short")
	assert.EqualError(t, ProductPatch{Stock: intPtr(-3)}.Validate(), "stock cannot be negative")

	for _, name := range []string{"é", "日", "😀"} {
		assert.EqualError(t, ProductPatch{Name: strPtr(name)}.Validate(), "name too short", name)
	}
	assert.NoError(t, ProductPatch{Name: strPtr("日本")}.Validate())
}

func TestProduct_ApplyBounds(t *testing.T) {
	empty := Product{Stock: 0, MaxThreshold: 5}
	assert.Equal(t, 0, empty.Apply(ActionSale))
	assert.Equal(t, 0, empty.Stock)

	full := Product{Stock: 5, MaxThreshold: 5}
	assert.Equal(t, 0, full.Apply(ActionPurchase))
	assert.Equal(t, 5, full.Stock)

	over := Product{Stock: 9, MaxThreshold: 5}
	assert.Equal(t, 0, over.Apply(ActionPurchase), "purchase respects the current threshold")
	assert.Equal(t, -1, over.Apply(ActionSale))
	assert.Equal(t, 8, over.Stock)

	mid := Product{Stock: 2, MaxThreshold: 5}
	assert.Equal(t, 1, mid.Apply(ActionPurchase))
	assert.Equal(t, 3, mid.Stock)
	assert.Equal(t, 0, mid.Apply(ActionManual))
}

func TestActionFromDraw(t *testing.T) {
	assert.Equal(t, ActionSale, ActionFromDraw(0.9))
	assert.Equal(t, ActionPurchase, ActionFromDraw(0.5))
	assert.Equal(t, ActionPurchase, ActionFromDraw(0))
}
