package registry

import (
	"github.com/sealvault/go-sealvault/service/persist"
)

// QueryMsg is the closed set of read-only operations. Exactly one field
// must be set.
type QueryMsg struct {
	ContractInfo           *ContractInfoQuery           `json:"contract_info,omitempty"`
	ContractConfig         *ContractConfigQuery         `json:"contract_config,omitempty"`
	Minters                *MintersQuery                `json:"minters,omitempty"`
	NumTokens              *NumTokensQuery              `json:"num_tokens,omitempty"`
	OwnerOf                *OwnerOfQuery                `json:"owner_of,omitempty"`
	Tokens                 *TokensQuery                 `json:"tokens,omitempty"`
	IsTransferable         *IsTransferableQuery         `json:"is_transferable,omitempty"`
	RoyaltyInfo            *RoyaltyInfoQuery            `json:"royalty_info,omitempty"`
	NftDossier             *NftDossierQuery             `json:"nft_dossier,omitempty"`
	VerifyTransferApproval *VerifyTransferApprovalQuery `json:"verify_transfer_approval,omitempty"`
	TxHistory              *TxHistoryQuery              `json:"tx_history,omitempty"`
}

// ContractInfoQuery asks for the registry's name and symbol
type ContractInfoQuery struct{}

// ContractConfigQuery asks for the public view of the configuration
type ContractConfigQuery struct{}

// MintersQuery asks for the minter list
type MintersQuery struct{}

// NumTokensQuery asks for the live token supply
type NumTokensQuery struct {
	Viewer *persist.Address `json:"viewer,omitempty"`
}

// OwnerOfQuery asks for a token's owner
type OwnerOfQuery struct {
	TokenID persist.TokenID  `json:"token_id"`
	Viewer  *persist.Address `json:"viewer,omitempty"`
}

// TokensQuery asks for an owner's token ids
type TokensQuery struct {
	Owner  persist.Address  `json:"owner"`
	Viewer *persist.Address `json:"viewer,omitempty"`
}

// IsTransferableQuery asks whether a token is transferable
type IsTransferableQuery struct {
	TokenID persist.TokenID `json:"token_id"`
}

// RoyaltyInfoQuery asks for a token's royalty info, or the contract
// default when token_id is unset
type RoyaltyInfoQuery struct {
	TokenID *persist.TokenID `json:"token_id,omitempty"`
	Viewer  *persist.Address `json:"viewer,omitempty"`
}

// NftDossierQuery asks for everything the viewer is entitled to see about
// one token
type NftDossierQuery struct {
	TokenID persist.TokenID  `json:"token_id"`
	Viewer  *persist.Address `json:"viewer,omitempty"`
}

// VerifyTransferApprovalQuery checks whether the address may transfer every
// listed token. The credential is opaque to the registry; the host verifies
// it before the query arrives.
type VerifyTransferApprovalQuery struct {
	TokenIDs   []persist.TokenID `json:"token_ids"`
	Address    persist.Address   `json:"address"`
	Credential string            `json:"credential,omitempty"`
}

// TxHistoryQuery asks for an address's transaction log, newest-first
type TxHistoryQuery struct {
	Address  persist.Address `json:"address"`
	Page     *uint32         `json:"page,omitempty"`
	PageSize *uint32         `json:"page_size,omitempty"`
}

// QueryAnswer carries the result of the one query that ran
type QueryAnswer struct {
	ContractInfo           *ContractInfoAnswer           `json:"contract_info,omitempty"`
	ContractConfig         *ContractConfigAnswer         `json:"contract_config,omitempty"`
	Minters                *MintersAnswer                `json:"minters,omitempty"`
	NumTokens              *NumTokensAnswer              `json:"num_tokens,omitempty"`
	OwnerOf                *OwnerOfAnswer                `json:"owner_of,omitempty"`
	Tokens                 *TokensAnswer                 `json:"token_list,omitempty"`
	IsTransferable         *IsTransferableAnswer         `json:"is_transferable,omitempty"`
	RoyaltyInfo            *RoyaltyInfoAnswer            `json:"royalty_info,omitempty"`
	NftDossier             *NftDossierAnswer             `json:"nft_dossier,omitempty"`
	VerifyTransferApproval *VerifyTransferApprovalAnswer `json:"verify_transfer_approval,omitempty"`
	TxHistory              *TxHistoryAnswer              `json:"tx_history,omitempty"`
}

// ContractInfoAnswer is the registry's name and symbol
type ContractInfoAnswer struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// ContractConfigAnswer is the public view of the configuration toggles
type ContractConfigAnswer struct {
	TokenSupplyIsPublic     bool `json:"token_supply_is_public"`
	OwnerIsPublic           bool `json:"owner_is_public"`
	SealedMetadataIsEnabled bool `json:"sealed_metadata_is_enabled"`
	UnwrapToPrivate         bool `json:"unwrap_to_private"`
	MinterMayUpdateMetadata bool `json:"minter_may_update_metadata"`
	OwnerMayUpdateMetadata  bool `json:"owner_may_update_metadata"`
	BurnIsEnabled           bool `json:"burn_is_enabled"`
}

// MintersAnswer lists the designated minters
type MintersAnswer struct {
	Minters []persist.Address `json:"minters"`
}

// NumTokensAnswer is the live token supply
type NumTokensAnswer struct {
	Count uint32 `json:"count"`
}

// OwnerOfAnswer names a token's owner
type OwnerOfAnswer struct {
	Owner persist.Address `json:"owner"`
}

// TokensAnswer lists an owner's token ids in mint order
type TokensAnswer struct {
	Tokens []persist.TokenID `json:"tokens"`
}

// IsTransferableAnswer reports a token's transferability
type IsTransferableAnswer struct {
	TokenIsTransferable bool `json:"token_is_transferable"`
}

// RoyaltyInfoAnswer is the viewer-facing royalty info, absent when none is
// set
type RoyaltyInfoAnswer struct {
	RoyaltyInfo *persist.DisplayRoyaltyInfo `json:"royalty_info,omitempty"`
}

// NftDossierAnswer is everything the viewer may see about one token
type NftDossierAnswer struct {
	Owner                       *persist.Address            `json:"owner,omitempty"`
	PublicMetadata              persist.TokenMetadata       `json:"public_metadata,omitempty"`
	PrivateMetadata             persist.TokenMetadata       `json:"private_metadata,omitempty"`
	DisplayPrivateMetadataError *string                     `json:"display_private_metadata_error,omitempty"`
	RoyaltyInfo                 *persist.DisplayRoyaltyInfo `json:"royalty_info,omitempty"`
	MintRunInfo                 *persist.MintRunInfo        `json:"mint_run_info,omitempty"`
	Transferable                bool                        `json:"transferable"`
	Unwrapped                   bool                        `json:"unwrapped"`
	OwnerIsPublic               bool                        `json:"owner_is_public"`
	TokenApprovals              []persist.Approval          `json:"token_approvals,omitempty"`
	InventoryApprovals          []persist.Approval          `json:"inventory_approvals,omitempty"`
}

// VerifyTransferApprovalAnswer reports whether the address may transfer
// every listed token, naming the first that it may not
type VerifyTransferApprovalAnswer struct {
	ApprovedForAll       bool             `json:"approved_for_all"`
	FirstUnapprovedToken *persist.TokenID `json:"first_unapproved_token,omitempty"`
}

// TxHistoryAnswer is one page of an address's transaction log
type TxHistoryAnswer struct {
	Txs []persist.TxRecord `json:"txs"`
}
