package kvstore

import (
	"encoding/binary"

	"github.com/sealvault/go-sealvault/service/persist"
	"github.com/sealvault/go-sealvault/service/store"
)

// InventoryRepository stores each owner's set of token indices as one
// membership key per index plus a cached count, and the owner's
// inventory-wide approvals.
// Invariant: the cached count always equals the number of membership keys.
type InventoryRepository struct{}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{}
}

func inventoryKey(owner persist.Address, index persist.TokenIndex) []byte {
	prefix := addrPrefix(prefixInventory, owner)
	key := make([]byte, len(prefix)+4)
	copy(key, prefix)
	binary.BigEndian.PutUint32(key[len(prefix):], uint32(index))
	return key
}

// Add inserts the index into the owner's inventory; adding a member twice
// is a no-op
func (r *InventoryRepository) Add(tx store.Tx, owner persist.Address, index persist.TokenIndex) error {
	exists, err := r.Contains(tx, owner, index)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := tx.Set(inventoryKey(owner, index), []byte{1}); err != nil {
		return err
	}
	count, err := r.Count(tx, owner)
	if err != nil {
		return err
	}
	return r.setCount(tx, owner, count+1)
}

// Remove deletes the index from the owner's inventory; removing a
// non-member is a no-op
func (r *InventoryRepository) Remove(tx store.Tx, owner persist.Address, index persist.TokenIndex) error {
	exists, err := r.Contains(tx, owner, index)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	if err := tx.Delete(inventoryKey(owner, index)); err != nil {
		return err
	}
	count, err := r.Count(tx, owner)
	if err != nil {
		return err
	}
	return r.setCount(tx, owner, count-1)
}

// Contains reports membership of the index in the owner's inventory
func (r *InventoryRepository) Contains(tx store.Tx, owner persist.Address, index persist.TokenIndex) (bool, error) {
	_, err := tx.Get(inventoryKey(owner, index))
	if err == store.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Count returns the cached size of the owner's inventory
func (r *InventoryRepository) Count(tx store.Tx, owner persist.Address) (uint32, error) {
	b, err := tx.Get(stringKey(prefixInventoryCount, owner.String()))
	if err == store.ErrKeyNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// List returns the owner's token indices in ascending (mint) order
func (r *InventoryRepository) List(tx store.Tx, owner persist.Address) ([]persist.TokenIndex, error) {
	prefix := addrPrefix(prefixInventory, owner)
	var indices []persist.TokenIndex
	err := tx.Scan(prefix, func(key, value []byte) error {
		indices = append(indices, persist.TokenIndex(binary.BigEndian.Uint32(key[len(prefix):])))
		return nil
	})
	return indices, err
}

// Approvals returns the owner's inventory-wide approvals
func (r *InventoryRepository) Approvals(tx store.Tx, owner persist.Address) ([]persist.Approval, error) {
	var approvals []persist.Approval
	err := jsonGet(tx, stringKey(prefixOwnerApprovals, owner.String()), &approvals)
	if err == store.ErrKeyNotFound {
		return nil, nil
	}
	return approvals, err
}

// SetApprovals replaces the owner's inventory-wide approvals
func (r *InventoryRepository) SetApprovals(tx store.Tx, owner persist.Address, approvals []persist.Approval) error {
	key := stringKey(prefixOwnerApprovals, owner.String())
	if len(approvals) == 0 {
		return tx.Delete(key)
	}
	return jsonSet(tx, key, approvals)
}

func (r *InventoryRepository) setCount(tx store.Tx, owner persist.Address, count uint32) error {
	key := stringKey(prefixInventoryCount, owner.String())
	if count == 0 {
		return tx.Delete(key)
	}
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, count)
	return tx.Set(key, b)
}
