package persist

import (
	"fmt"

	"github.com/sealvault/go-sealvault/service/store"
)

const (
	// StatusNormal allows every operation
	StatusNormal ContractStatus = iota
	// StatusStopTransactions blocks mint/transfer/send/burn but allows
	// approvals, metadata and config operations
	StatusStopTransactions
	// StatusStopAll blocks everything except status changes
	StatusStopAll
)

// ContractStatus gates which operations the registry currently accepts
type ContractStatus uint8

// Valid returns whether the status is a known value
func (s ContractStatus) Valid() bool {
	return s <= StatusStopAll
}

func (s ContractStatus) String() string {
	switch s {
	case StatusNormal:
		return "normal"
	case StatusStopTransactions:
		return "stop_transactions"
	case StatusStopAll:
		return "stop_all"
	default:
		return "unknown"
	}
}

// Config is the process-wide registry configuration: created at
// instantiation, mutated only by admin-gated operations, never destroyed.
type Config struct {
	Name    string    `json:"name"`
	Symbol  string    `json:"symbol"`
	Admin   Address   `json:"admin"`
	Minters []Address `json:"minters"`

	Status ContractStatus `json:"status"`

	// MintCount counts every mint ever performed; TokenCount is the live
	// supply (decremented on burn); TxCount numbers the transaction log.
	MintCount  uint32 `json:"mint_cnt"`
	TokenCount uint32 `json:"token_cnt"`
	TxCount    uint64 `json:"tx_cnt"`

	TokenSupplyIsPublic     bool `json:"token_supply_is_public"`
	OwnerIsPublic           bool `json:"owner_is_public"`
	SealedMetadataIsEnabled bool `json:"sealed_metadata_is_enabled"`
	UnwrapToPrivate         bool `json:"unwrap_to_private"`
	MinterMayUpdateMetadata bool `json:"minter_may_update_metadata"`
	OwnerMayUpdateMetadata  bool `json:"owner_may_update_metadata"`
	BurnIsEnabled           bool `json:"burn_is_enabled"`
}

// IsMinter returns whether the address is the admin or a designated minter
func (c Config) IsMinter(addr Address) bool {
	if addr == c.Admin {
		return true
	}
	for _, m := range c.Minters {
		if m == addr {
			return true
		}
	}
	return false
}

// ConfigRepository represents the persisted configuration aggregate and the
// contract-level default royalty info
type ConfigRepository interface {
	Load(tx store.Tx) (Config, error)
	Save(tx store.Tx, cfg Config) error
	Exists(tx store.Tx) (bool, error)
	LoadDefaultRoyalty(tx store.Tx) (*RoyaltyInfo, error)
	SaveDefaultRoyalty(tx store.Tx, royalty *RoyaltyInfo) error
}

// ErrNotAdmin is returned when a non-admin calls an admin-gated operation
type ErrNotAdmin struct{}

func (e ErrNotAdmin) Error() string {
	return "This is an admin command and can only be performed by the contract admin"
}

// ErrNotMinter is returned when a caller without mint rights tries to mint
type ErrNotMinter struct{}

func (e ErrNotMinter) Error() string {
	return "Only designated minters are allowed to mint"
}

// ErrContractStopped is returned when the contract status blocks the
// requested operation
type ErrContractStopped struct {
	Status ContractStatus
}

func (e ErrContractStopped) Error() string {
	return fmt.Sprintf("The contract admin has temporarily disabled this action (status: %s)", e.Status)
}

// ErrConfigNotFound is returned when the registry is used before
// instantiation
type ErrConfigNotFound struct{}

func (e ErrConfigNotFound) Error() string {
	return "registry has not been instantiated"
}

// ErrAlreadyInstantiated is returned when instantiation runs twice
type ErrAlreadyInstantiated struct{}

func (e ErrAlreadyInstantiated) Error() string {
	return "registry has already been instantiated"
}
