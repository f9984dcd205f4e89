package mongostore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/junaidrashid-git/eshop-api/store"
	"github.com/junaidrashid-git/eshop-api/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only when MONGO_TEST_URI points at a reachable server, e.g.
// MONGO_TEST_URI=mongodb://localhost:27017 go test ./store/mongostore/
func TestContract_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	n := 0
	storetest.Run(t, func(t *testing.T) store.Store {
		n++
		ctx := context.Background()
		s, err := Open(ctx, uri, fmt.Sprintf("eshop_test_%d_%d", time.Now().UnixNano(), n))
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = s.Drop(ctx)
			_ = s.Close(ctx)
		})
		return s
	})
}

func TestCheckID(t *testing.T) {
	assert.NoError(t, checkID(newID()))
	assert.ErrorIs(t, checkID("42"), store.ErrInvalidID)
	assert.ErrorIs(t, checkID("zzzzzzzzzzzzzzzzzzzzzzzz"), store.ErrInvalidID)
}

func TestOpen_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Open(ctx, "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200", "eshop")
	assert.Error(t, err)
}
