// Package kvstore implements the persist repositories on top of the
// byte-keyed store, one key prefix per logical map.
package kvstore

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/sealvault/go-sealvault/service/persist"
	"github.com/sealvault/go-sealvault/service/store"
)

// one namespace prefix per logical map; every repository stays inside its
// own prefix so the maps can only be mutated in lock-step by the engine's
// single transaction
const (
	prefixConfig         = "config"
	prefixDefaultRoyalty = "config:royalty"
	prefixInfos          = "infos:"
	prefixIDToIndex      = "map2idx:"
	prefixIndexToID      = "map2id:"
	prefixNextIndex      = "nextidx"
	prefixInventory      = "inv:"
	prefixInventoryCount = "invcnt:"
	prefixOwnerApprovals = "ownerappr:"
	prefixTxs            = "txs:"
	prefixAddrTxs        = "addrtxs:"
)

// Repositories bundles every repository over one store
type Repositories struct {
	TokenRepository     persist.TokenRepository
	IndexRepository     persist.IndexRepository
	InventoryRepository persist.InventoryRepository
	ConfigRepository    persist.ConfigRepository
	TxRepository        persist.TxRepository
}

// NewRepositories creates the full repository set
func NewRepositories() *Repositories {
	return &Repositories{
		TokenRepository:     NewTokenRepository(),
		IndexRepository:     NewIndexRepository(),
		InventoryRepository: NewInventoryRepository(),
		ConfigRepository:    NewConfigRepository(),
		TxRepository:        NewTxRepository(),
	}
}

func indexKey(prefix string, index persist.TokenIndex) []byte {
	key := make([]byte, len(prefix)+4)
	copy(key, prefix)
	binary.BigEndian.PutUint32(key[len(prefix):], uint32(index))
	return key
}

func stringKey(prefix string, suffix string) []byte {
	return []byte(prefix + suffix)
}

// addrPrefix returns prefix + length-prefixed address. Addresses are
// caller-chosen, so splicing them in raw would let an address containing
// the delimiter byte write keys inside a neighbor's scan range.
func addrPrefix(prefix string, addr persist.Address) []byte {
	key := make([]byte, len(prefix)+4+len(addr))
	copy(key, prefix)
	binary.BigEndian.PutUint32(key[len(prefix):], uint32(len(addr)))
	copy(key[len(prefix)+4:], addr)
	return key
}

func jsonSet(tx store.Tx, key []byte, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal record for key %q: %w", key, err)
	}
	return tx.Set(key, b)
}

func jsonGet(tx store.Tx, key []byte, v interface{}) error {
	b, err := tx.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("failed to unmarshal record for key %q: %w", key, err)
	}
	return nil
}
