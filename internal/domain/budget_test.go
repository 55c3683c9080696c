package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func int32Ptr(v int32) *int32 { return &v }

func TestBudgetCovers(t *testing.T) {
	budget := &Budget{CategoryIDs: []int32{1, 2}, LabelIDs: []int32{10}}

	tests := []struct {
		name string
		tx   *Transaction
		want bool
	}{
		{"matching category", &Transaction{CategoryID: int32Ptr(2)}, true},
		{"matching label", &Transaction{LabelIDs: []int32{10}}, true},
		{"other category without label", &Transaction{CategoryID: int32Ptr(3)}, false},
		{"uncategorized without label", &Transaction{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, budget.Covers(tt.tx))
		})
	}
}

func TestBudgetPatch_Apply(t *testing.T) {
	original := Budget{Name: "Food", Value: decimal.NewFromInt(300), CategoryIDs: []int32{1}}

	updated := BudgetPatch{
		Value:       Some(decimal.NewFromInt(400)),
		CategoryIDs: Some([]int32{}),
	}.Apply(original)

	assert.Equal(t, "Food", updated.Name)
	assert.True(t, updated.Value.Equal(decimal.NewFromInt(400)))
	assert.Empty(t, updated.CategoryIDs)
	assert.Equal(t, []int32{1}, original.CategoryIDs)
}

func TestWalletPatch_ApplyIgnoresAbsentFields(t *testing.T) {
	original := Wallet{Name: "Cash", Color: "#00ff00", Amount: decimal.NewFromInt(12)}

	updated := WalletPatch{Color: Some("#ff0000")}.Apply(original)

	assert.Equal(t, "Cash", updated.Name)
	assert.Equal(t, "#ff0000", updated.Color)
	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(12)))
}

func TestCategoryVisibility(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	global := &Category{}
	owned := &Category{UserID: &owner}

	assert.True(t, global.IsGlobal())
	assert.True(t, global.VisibleTo(other))
	assert.False(t, owned.IsGlobal())
	assert.True(t, owned.VisibleTo(owner))
	assert.False(t, owned.VisibleTo(other))
}
