package kvstore

import (
	"encoding/binary"

	"github.com/sealvault/go-sealvault/service/persist"
	"github.com/sealvault/go-sealvault/service/store"
)

// IndexRepository maintains the id->index and index->id maps and the
// monotonic next-index counter. Indices are never reused: Release removes
// both map directions but leaves the counter alone.
type IndexRepository struct{}

// NewIndexRepository creates a new IndexRepository
func NewIndexRepository() *IndexRepository {
	return &IndexRepository{}
}

// Resolve returns the internal index mapped to the given id
func (r *IndexRepository) Resolve(tx store.Tx, id persist.TokenID) (persist.TokenIndex, error) {
	b, err := tx.Get(stringKey(prefixIDToIndex, id.String()))
	if err == store.ErrKeyNotFound {
		return 0, persist.ErrTokenNotFound{ID: id}
	}
	if err != nil {
		return 0, err
	}
	return persist.TokenIndex(binary.BigEndian.Uint32(b)), nil
}

// GetID returns the external id mapped to the given index
func (r *IndexRepository) GetID(tx store.Tx, index persist.TokenIndex) (persist.TokenID, error) {
	b, err := tx.Get(indexKey(prefixIndexToID, index))
	if err != nil {
		return "", err
	}
	return persist.TokenID(b), nil
}

// Allocate assigns the next index to the given id, inserting both map
// directions and advancing the counter. Fails with ErrTokenAlreadyExists if
// the id is already mapped.
func (r *IndexRepository) Allocate(tx store.Tx, id persist.TokenID) (persist.TokenIndex, error) {
	idKey := stringKey(prefixIDToIndex, id.String())
	if _, err := tx.Get(idKey); err == nil {
		return 0, persist.ErrTokenAlreadyExists{ID: id}
	} else if err != store.ErrKeyNotFound {
		return 0, err
	}

	next, err := r.NextIndex(tx)
	if err != nil {
		return 0, err
	}

	encoded := make([]byte, 4)
	binary.BigEndian.PutUint32(encoded, uint32(next))
	if err := tx.Set(idKey, encoded); err != nil {
		return 0, err
	}
	if err := tx.Set(indexKey(prefixIndexToID, next), []byte(id)); err != nil {
		return 0, err
	}

	counter := make([]byte, 4)
	binary.BigEndian.PutUint32(counter, uint32(next)+1)
	if err := tx.Set([]byte(prefixNextIndex), counter); err != nil {
		return 0, err
	}
	return next, nil
}

// Release removes both map directions for a burned token. The counter is
// untouched, retiring the index permanently.
func (r *IndexRepository) Release(tx store.Tx, id persist.TokenID, index persist.TokenIndex) error {
	if err := tx.Delete(stringKey(prefixIDToIndex, id.String())); err != nil {
		return err
	}
	return tx.Delete(indexKey(prefixIndexToID, index))
}

// NextIndex returns the index the next allocation will use
func (r *IndexRepository) NextIndex(tx store.Tx) (persist.TokenIndex, error) {
	b, err := tx.Get([]byte(prefixNextIndex))
	if err == store.ErrKeyNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return persist.TokenIndex(binary.BigEndian.Uint32(b)), nil
}
