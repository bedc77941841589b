package repository_test

import (
	"context"
	"testing"

	"pos/internal/domain/model"
	infrarepo "pos/internal/infra/repository"
	repo "pos/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := infrarepo.NewSessionMemoryRepository()

	_, err := r.Load(ctx, "T1")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	s := model.NewSession("T1", model.Form{{Name: "codcliente"}})
	require.NoError(t, s.Apply(model.AddLine{Code: "001", Description: "Widget"}))
	require.NoError(t, r.Save(ctx, s))

	// Saveしていない変更は見えない
	require.NoError(t, s.Apply(model.AddLine{Code: "002", Description: "Gadget"}))

	got, err := r.Load(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Cart.Len())
	assert.Equal(t, uint64(1), got.Revision)
	assert.Equal(t, "Widget", got.Cart.Lines[0].Description)

	require.NoError(t, r.Delete(ctx, "T1"))
	assert.ErrorIs(t, r.Delete(ctx, "T1"), repo.ErrNotFound)
	_, err = r.Load(ctx, "T1")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}
