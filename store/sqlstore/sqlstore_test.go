package sqlstore

import (
	"context"
	"testing"

	"github.com/junaidrashid-git/eshop-api/store"
	"github.com/junaidrashid-git/eshop-api/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return newTestStore(t) })
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	assert.Error(t, err)
}

func TestGetProduct_InvalidID(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetProduct(t.Context(), "42")
	assert.ErrorIs(t, err, store.ErrInvalidID)
}
