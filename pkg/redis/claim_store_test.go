package redis

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f000102030405060708090a0b0c0d0e0f"

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	return mr
}

func TestNewClaimStore_KeyValidation(t *testing.T) {
	_, err := NewClaimStore("not-hex")
	require.Error(t, err)

	_, err = NewClaimStore("abcd")
	require.Error(t, err)

	_, err = NewClaimStore(testKeyHex)
	require.NoError(t, err)
}

func TestClaimStore_CreateAndClaim(t *testing.T) {
	setupMiniredis(t)
	store, err := NewClaimStore(testKeyHex)
	require.NoError(t, err)
	ctx := context.Background()

	data := &ClaimData{MerchantID: uuid.New(), CustomerID: uuid.New()}
	require.NoError(t, store.Create(ctx, "code-1", data, time.Minute))

	got, err := store.Claim(ctx, "code-1")
	require.NoError(t, err)
	require.Equal(t, data.MerchantID, got.MerchantID)
	require.Equal(t, data.CustomerID, got.CustomerID)

	// single use
	_, err = store.Claim(ctx, "code-1")
	require.ErrorIs(t, err, ErrClaimNotFound)
}

func TestClaimStore_CreateRejectsDuplicateCode(t *testing.T) {
	setupMiniredis(t)
	store, err := NewClaimStore(testKeyHex)
	require.NoError(t, err)
	ctx := context.Background()

	data := &ClaimData{MerchantID: uuid.New(), CustomerID: uuid.New()}
	require.NoError(t, store.Create(ctx, "dup", data, time.Minute))
	require.Error(t, store.Create(ctx, "dup", data, time.Minute))
}

func TestClaimStore_Expiry(t *testing.T) {
	mr := setupMiniredis(t)
	store, err := NewClaimStore(testKeyHex)
	require.NoError(t, err)
	ctx := context.Background()

	data := &ClaimData{MerchantID: uuid.New(), CustomerID: uuid.New()}
	require.NoError(t, store.Create(ctx, "short", data, time.Second))

	mr.FastForward(2 * time.Second)

	_, err = store.Claim(ctx, "short")
	require.ErrorIs(t, err, ErrClaimNotFound)
}

func TestClaimStore_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	setupMiniredis(t)
	store, err := NewClaimStore(testKeyHex)
	require.NoError(t, err)
	ctx := context.Background()

	data := &ClaimData{MerchantID: uuid.New(), CustomerID: uuid.New()}
	require.NoError(t, store.Create(ctx, "race", data, time.Minute))

	const callers = 4
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.Claim(ctx, "race")
		}(i)
	}
	wg.Wait()

	winners := 0
	for i := range errs {
		if errs[i] == nil {
			winners++
		} else {
			require.ErrorIs(t, errs[i], ErrClaimNotFound)
		}
	}
	require.Equal(t, 1, winners, "a code is single-use")
}

func TestClaimStore_PayloadIsEncryptedAtRest(t *testing.T) {
	mr := setupMiniredis(t)
	store, err := NewClaimStore(testKeyHex)
	require.NoError(t, err)
	ctx := context.Background()

	customerID := uuid.New()
	require.NoError(t, store.Create(ctx, "enc", &ClaimData{MerchantID: uuid.New(), CustomerID: customerID}, time.Minute))

	raw, err := mr.Get("claim:enc")
	require.NoError(t, err)
	require.False(t, strings.Contains(raw, customerID.String()))
}
