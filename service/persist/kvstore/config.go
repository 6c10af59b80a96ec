package kvstore

import (
	"github.com/sealvault/go-sealvault/service/persist"
	"github.com/sealvault/go-sealvault/service/store"
)

// ConfigRepository stores the singleton configuration aggregate and the
// contract-level default royalty info
type ConfigRepository struct{}

// NewConfigRepository creates a new ConfigRepository
func NewConfigRepository() *ConfigRepository {
	return &ConfigRepository{}
}

// Load retrieves the configuration
func (r *ConfigRepository) Load(tx store.Tx) (persist.Config, error) {
	var cfg persist.Config
	err := jsonGet(tx, []byte(prefixConfig), &cfg)
	if err == store.ErrKeyNotFound {
		return cfg, persist.ErrConfigNotFound{}
	}
	return cfg, err
}

// Save writes the configuration back
func (r *ConfigRepository) Save(tx store.Tx, cfg persist.Config) error {
	return jsonSet(tx, []byte(prefixConfig), cfg)
}

// Exists reports whether the registry has been instantiated
func (r *ConfigRepository) Exists(tx store.Tx) (bool, error) {
	_, err := tx.Get([]byte(prefixConfig))
	if err == store.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// LoadDefaultRoyalty retrieves the contract-level default royalty info, or
// nil if none is set
func (r *ConfigRepository) LoadDefaultRoyalty(tx store.Tx) (*persist.RoyaltyInfo, error) {
	var royalty persist.RoyaltyInfo
	err := jsonGet(tx, []byte(prefixDefaultRoyalty), &royalty)
	if err == store.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &royalty, nil
}

// SaveDefaultRoyalty replaces the contract-level default royalty info; nil
// clears it
func (r *ConfigRepository) SaveDefaultRoyalty(tx store.Tx, royalty *persist.RoyaltyInfo) error {
	if royalty == nil {
		return tx.Delete([]byte(prefixDefaultRoyalty))
	}
	return jsonSet(tx, []byte(prefixDefaultRoyalty), *royalty)
}
