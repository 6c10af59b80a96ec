package kvstore

import (
	"context"
	"math"
	"testing"

	"github.com/sealvault/go-sealvault/service/persist"
	"github.com/sealvault/go-sealvault/service/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inTx(t *testing.T, fn func(tx store.Tx) error) {
	t.Helper()
	s := store.NewMemoryStore()
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Update(context.Background(), fn))
}

func TestIndexRepository(t *testing.T) {
	repo := NewIndexRepository()

	t.Run("allocates monotonically and resolves both directions", func(t *testing.T) {
		inTx(t, func(tx store.Tx) error {
			for i, id := range []persist.TokenID{"NFT1", "NFT2", "NFT3"} {
				index, err := repo.Allocate(tx, id)
				require.NoError(t, err)
				assert.Equal(t, persist.TokenIndex(i), index)

				resolved, err := repo.Resolve(tx, id)
				require.NoError(t, err)
				assert.Equal(t, index, resolved)

				back, err := repo.GetID(tx, index)
				require.NoError(t, err)
				assert.Equal(t, id, back)
			}
			next, err := repo.NextIndex(tx)
			require.NoError(t, err)
			assert.Equal(t, persist.TokenIndex(3), next)
			return nil
		})
	})

	t.Run("rejects an id that is already mapped", func(t *testing.T) {
		inTx(t, func(tx store.Tx) error {
			_, err := repo.Allocate(tx, "NFT1")
			require.NoError(t, err)
			_, err = repo.Allocate(tx, "NFT1")
			assert.ErrorIs(t, err, persist.ErrTokenAlreadyExists{ID: "NFT1"})
			return nil
		})
	})

	t.Run("released indices are never reused", func(t *testing.T) {
		inTx(t, func(tx store.Tx) error {
			index, err := repo.Allocate(tx, "NFT1")
			require.NoError(t, err)
			require.NoError(t, repo.Release(tx, "NFT1", index))

			_, err = repo.Resolve(tx, "NFT1")
			assert.ErrorIs(t, err, persist.ErrTokenNotFound{ID: "NFT1"})

			// the freed id gets a fresh index, not the retired one
			reallocated, err := repo.Allocate(tx, "NFT1")
			require.NoError(t, err)
			assert.Equal(t, index+1, reallocated)
			return nil
		})
	})

	t.Run("resolving an unknown id reports not found", func(t *testing.T) {
		inTx(t, func(tx store.Tx) error {
			_, err := repo.Resolve(tx, "ghost")
			assert.EqualError(t, err, "Token ID: ghost not found")
			return nil
		})
	})
}

func TestInventoryRepository(t *testing.T) {
	repo := NewInventoryRepository()
	owner := persist.Address("alice")

	t.Run("count tracks membership through adds and removes", func(t *testing.T) {
		inTx(t, func(tx store.Tx) error {
			for _, index := range []persist.TokenIndex{0, 1, 2} {
				require.NoError(t, repo.Add(tx, owner, index))
			}
			// re-adding a member must not inflate the count
			require.NoError(t, repo.Add(tx, owner, 1))

			count, err := repo.Count(tx, owner)
			require.NoError(t, err)
			assert.Equal(t, uint32(3), count)

			require.NoError(t, repo.Remove(tx, owner, 1))
			require.NoError(t, repo.Remove(tx, owner, 1))

			count, err = repo.Count(tx, owner)
			require.NoError(t, err)
			assert.Equal(t, uint32(2), count)

			indices, err := repo.List(tx, owner)
			require.NoError(t, err)
			assert.Equal(t, []persist.TokenIndex{0, 2}, indices)
			return nil
		})
	})

	t.Run("count key disappears when the inventory empties", func(t *testing.T) {
		inTx(t, func(tx store.Tx) error {
			require.NoError(t, repo.Add(tx, owner, 7))
			require.NoError(t, repo.Remove(tx, owner, 7))

			count, err := repo.Count(tx, owner)
			require.NoError(t, err)
			assert.Zero(t, count)

			_, err = tx.Get(stringKey(prefixInventoryCount, owner.String()))
			assert.ErrorIs(t, err, store.ErrKeyNotFound)
			return nil
		})
	})

	t.Run("inventories of different owners are disjoint", func(t *testing.T) {
		inTx(t, func(tx store.Tx) error {
			require.NoError(t, repo.Add(tx, "alice", 0))
			require.NoError(t, repo.Add(tx, "bob", 1))

			has, err := repo.Contains(tx, "alice", 1)
			require.NoError(t, err)
			assert.False(t, has)

			indices, err := repo.List(tx, "bob")
			require.NoError(t, err)
			assert.Equal(t, []persist.TokenIndex{1}, indices)
			return nil
		})
	})

	t.Run("a delimiter-bearing address cannot reach a neighbor's scan range", func(t *testing.T) {
		inTx(t, func(tx store.Tx) error {
			require.NoError(t, repo.Add(tx, "alice", 0))
			require.NoError(t, repo.Add(tx, "alice:X", 1))

			indices, err := repo.List(tx, "alice")
			require.NoError(t, err)
			assert.Equal(t, []persist.TokenIndex{0}, indices)

			indices, err = repo.List(tx, "alice:X")
			require.NoError(t, err)
			assert.Equal(t, []persist.TokenIndex{1}, indices)
			return nil
		})
	})

	t.Run("approvals replace wholesale and clear to nothing", func(t *testing.T) {
		inTx(t, func(tx store.Tx) error {
			approvals := []persist.Approval{{Spender: "bob", Expiration: persist.ExpirationAtHeight(10)}}
			require.NoError(t, repo.SetApprovals(tx, owner, approvals))

			got, err := repo.Approvals(tx, owner)
			require.NoError(t, err)
			assert.Equal(t, approvals, got)

			require.NoError(t, repo.SetApprovals(tx, owner, nil))
			got, err = repo.Approvals(tx, owner)
			require.NoError(t, err)
			assert.Nil(t, got)
			return nil
		})
	})
}

func TestConfigRepository(t *testing.T) {
	repo := NewConfigRepository()

	t.Run("load before save reports not instantiated", func(t *testing.T) {
		inTx(t, func(tx store.Tx) error {
			_, err := repo.Load(tx)
			assert.ErrorIs(t, err, persist.ErrConfigNotFound{})

			exists, err := repo.Exists(tx)
			require.NoError(t, err)
			assert.False(t, exists)
			return nil
		})
	})

	t.Run("round trips the aggregate", func(t *testing.T) {
		inTx(t, func(tx store.Tx) error {
			cfg := persist.Config{
				Name:      "vault",
				Symbol:    "VLT",
				Admin:     "admin",
				Minters:   []persist.Address{"admin", "alice"},
				MintCount: 5,
				TxCount:   12,
			}
			require.NoError(t, repo.Save(tx, cfg))

			loaded, err := repo.Load(tx)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
			return nil
		})
	})

	t.Run("default royalty is nil until set and nil after clearing", func(t *testing.T) {
		inTx(t, func(tx store.Tx) error {
			royalty, err := repo.LoadDefaultRoyalty(tx)
			require.NoError(t, err)
			assert.Nil(t, royalty)

			set := persist.RoyaltyInfo{DecimalPlacesInRates: 2, Royalties: []persist.Royalty{{Recipient: "charlie", Rate: 10}}}
			require.NoError(t, repo.SaveDefaultRoyalty(tx, &set))
			royalty, err = repo.LoadDefaultRoyalty(tx)
			require.NoError(t, err)
			require.NotNil(t, royalty)
			assert.Equal(t, set, *royalty)

			require.NoError(t, repo.SaveDefaultRoyalty(tx, nil))
			royalty, err = repo.LoadDefaultRoyalty(tx)
			require.NoError(t, err)
			assert.Nil(t, royalty)
			return nil
		})
	})
}

func TestTxRepository(t *testing.T) {
	repo := NewTxRepository()
	from := persist.Address("alice")
	to := persist.Address("bob")

	t.Run("indexes each involved address once", func(t *testing.T) {
		inTx(t, func(tx store.Tx) error {
			record := persist.TxRecord{
				ID: "tx-0", Seq: 0, Action: persist.TxActionTransfer,
				TokenID: "NFT1", From: &from, To: &from,
			}
			require.NoError(t, repo.Append(tx, record))

			records, err := repo.ByAddress(tx, from, 0, 10)
			require.NoError(t, err)
			assert.Len(t, records, 1)
			return nil
		})
	})

	t.Run("pages newest first", func(t *testing.T) {
		inTx(t, func(tx store.Tx) error {
			for seq := uint64(0); seq < 5; seq++ {
				require.NoError(t, repo.Append(tx, persist.TxRecord{
					Seq: seq, Action: persist.TxActionTransfer, TokenID: "NFT1", From: &from, To: &to,
				}))
			}

			records, err := repo.ByAddress(tx, from, 0, 2)
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Equal(t, uint64(4), records[0].Seq)
			assert.Equal(t, uint64(3), records[1].Seq)

			records, err = repo.ByAddress(tx, from, 2, 2)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, uint64(0), records[0].Seq)

			// a page far past the end is empty, even where the 32-bit
			// product of page and size would wrap back into the log
			records, err = repo.ByAddress(tx, from, math.MaxUint32, math.MaxUint32)
			require.NoError(t, err)
			assert.Empty(t, records)
			return nil
		})
	})

	t.Run("a delimiter-bearing address keeps its own log", func(t *testing.T) {
		inTx(t, func(tx store.Tx) error {
			plain := persist.Address("alice")
			tricky := persist.Address("alice:X")
			require.NoError(t, repo.Append(tx, persist.TxRecord{Seq: 0, Action: persist.TxActionMint, TokenID: "NFT1", To: &plain}))
			require.NoError(t, repo.Append(tx, persist.TxRecord{Seq: 1, Action: persist.TxActionMint, TokenID: "NFT2", To: &tricky}))

			records, err := repo.ByAddress(tx, plain, 0, 10)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, persist.TokenID("NFT1"), records[0].TokenID)

			records, err = repo.ByAddress(tx, tricky, 0, 10)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, persist.TokenID("NFT2"), records[0].TokenID)
			return nil
		})
	})
}
