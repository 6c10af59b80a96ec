package kvstore

import (
	"fmt"

	"github.com/sealvault/go-sealvault/service/persist"
	"github.com/sealvault/go-sealvault/service/store"
)

// TokenRepository stores token records under the infos prefix, keyed by
// internal index
type TokenRepository struct{}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository() *TokenRepository {
	return &TokenRepository{}
}

// Create stores a new token record, failing if the index is occupied
func (r *TokenRepository) Create(tx store.Tx, index persist.TokenIndex, token persist.Token) error {
	key := indexKey(prefixInfos, index)
	if _, err := tx.Get(key); err == nil {
		return fmt.Errorf("token record already exists at index %d", index)
	} else if err != store.ErrKeyNotFound {
		return err
	}
	return jsonSet(tx, key, token)
}

// Get retrieves the token record at the given index
func (r *TokenRepository) Get(tx store.Tx, index persist.TokenIndex) (persist.Token, error) {
	var token persist.Token
	err := jsonGet(tx, indexKey(prefixInfos, index), &token)
	return token, err
}

// Save overwrites the token record at the given index
func (r *TokenRepository) Save(tx store.Tx, index persist.TokenIndex, token persist.Token) error {
	return jsonSet(tx, indexKey(prefixInfos, index), token)
}

// Delete removes the token record at the given index
func (r *TokenRepository) Delete(tx store.Tx, index persist.TokenIndex) error {
	return tx.Delete(indexKey(prefixInfos, index))
}
