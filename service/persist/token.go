package persist

import (
	"fmt"

	"github.com/sealvault/go-sealvault/service/store"
)

// TokenID is the caller-chosen external identifier of a token
type TokenID string

func (id TokenID) String() string {
	return string(id)
}

// TokenIndex is the dense internal index of a token. Indices are allocated
// monotonically and never reused, so a burned token's index can never
// silently resolve to a different token.
type TokenIndex uint32

// TokenMetadata is an opaque metadata document; the registry stores it and
// gates its visibility but never interprets it
type TokenMetadata map[string]interface{}

// MintRunInfo describes the mint run a token was created in
type MintRunInfo struct {
	TokenCreator          Address `json:"token_creator"`
	TimeOfMinting         uint64  `json:"time_of_minting"`
	MintRunNumber         *uint32 `json:"mint_run_number,omitempty"`
	SerialNumber          *uint32 `json:"serial_number,omitempty"`
	QuantityMintedThisRun *uint32 `json:"quantity_minted_this_run,omitempty"`
}

// Token is the durable per-token record.
// Invariant: RoyaltyInfo != nil implies Transferable, enforced at mint and
// at every later royalty mutation.
type Token struct {
	Owner           Address       `json:"owner"`
	PublicMetadata  TokenMetadata `json:"public_metadata,omitempty"`
	PrivateMetadata TokenMetadata `json:"private_metadata,omitempty"`
	RoyaltyInfo     *RoyaltyInfo  `json:"royalty_info,omitempty"`
	Transferable    bool          `json:"transferable"`
	Unwrapped       bool          `json:"unwrapped"`
	Approvals       []Approval    `json:"approvals,omitempty"`
	MintRunInfo     MintRunInfo   `json:"mint_run_info"`
}

// TokenRepository represents a repository for interacting with persisted
// token records, keyed by internal index
type TokenRepository interface {
	Create(tx store.Tx, index TokenIndex, token Token) error
	Get(tx store.Tx, index TokenIndex) (Token, error)
	Save(tx store.Tx, index TokenIndex, token Token) error
	Delete(tx store.Tx, index TokenIndex) error
}

// IndexRepository represents the bidirectional id<->index mapping and its
// monotonic allocation counter
type IndexRepository interface {
	Resolve(tx store.Tx, id TokenID) (TokenIndex, error)
	GetID(tx store.Tx, index TokenIndex) (TokenID, error)
	Allocate(tx store.Tx, id TokenID) (TokenIndex, error)
	Release(tx store.Tx, id TokenID, index TokenIndex) error
	NextIndex(tx store.Tx) (TokenIndex, error)
}

// InventoryRepository represents the per-owner set of token indices
type InventoryRepository interface {
	Add(tx store.Tx, owner Address, index TokenIndex) error
	Remove(tx store.Tx, owner Address, index TokenIndex) error
	Contains(tx store.Tx, owner Address, index TokenIndex) (bool, error)
	Count(tx store.Tx, owner Address) (uint32, error)
	List(tx store.Tx, owner Address) ([]TokenIndex, error)
	Approvals(tx store.Tx, owner Address) ([]Approval, error)
	SetApprovals(tx store.Tx, owner Address, approvals []Approval) error
}

// ErrTokenNotFound is returned when a token id is unknown or its index is
// unmapped
type ErrTokenNotFound struct {
	ID TokenID
}

func (e ErrTokenNotFound) Error() string {
	return fmt.Sprintf("Token ID: %s not found", e.ID)
}

// ErrTokenAlreadyExists is returned when a mint supplies an id that is
// already mapped
type ErrTokenAlreadyExists struct {
	ID TokenID
}

func (e ErrTokenAlreadyExists) Error() string {
	return fmt.Sprintf("Token ID: %s is already in use", e.ID)
}

// ErrTokenNonTransferable is returned when a transfer or send touches a
// non-transferable token
type ErrTokenNonTransferable struct {
	ID TokenID
}

func (e ErrTokenNonTransferable) Error() string {
	return fmt.Sprintf("Token ID: %s is non-transferable", e.ID)
}

// ErrUnauthorized is returned when the caller lacks ownership or approval
// rights over a token
type ErrUnauthorized struct {
	ID TokenID
}

func (e ErrUnauthorized) Error() string {
	return fmt.Sprintf("You are not authorized to perform this action on token %s", e.ID)
}

// ErrRoyaltiesNonTransferable is returned when royalty data is combined
// with a non-transferable token, at mint or at any later royalty mutation
type ErrRoyaltiesNonTransferable struct{}

func (e ErrRoyaltiesNonTransferable) Error() string {
	return "Non-transferable tokens can not be sold, so royalties are meaningless"
}

// ErrBurnDisabled is returned when a transferable token is burned while the
// global burn flag is off. Non-transferable tokens never hit this: they are
// always burnable.
type ErrBurnDisabled struct{}

func (e ErrBurnDisabled) Error() string {
	return "Burn functionality is not enabled for this token"
}

// ErrSealedMetadataDisabled is returned when a reveal is attempted while
// sealed metadata is not enabled
type ErrSealedMetadataDisabled struct{}

func (e ErrSealedMetadataDisabled) Error() string {
	return "Sealed metadata functionality is not enabled for this contract"
}

// ErrAlreadyUnwrapped is returned when revealing a token that has already
// been unwrapped
type ErrAlreadyUnwrapped struct {
	ID TokenID
}

func (e ErrAlreadyUnwrapped) Error() string {
	return fmt.Sprintf("Token ID: %s has already been unwrapped", e.ID)
}
