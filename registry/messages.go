package registry

import (
	"encoding/json"

	"github.com/sealvault/go-sealvault/service/persist"
)

// ExecuteMsg is the closed set of state-changing operations. Exactly one
// field must be set; the registry rejects anything else.
type ExecuteMsg struct {
	Mint              *MintMsg              `json:"mint,omitempty"`
	BatchMint         *BatchMintMsg         `json:"batch_mint,omitempty"`
	Transfer          *TransferMsg          `json:"transfer,omitempty"`
	BatchTransfer     *BatchTransferMsg     `json:"batch_transfer,omitempty"`
	Send              *SendMsg              `json:"send,omitempty"`
	BatchSend         *BatchSendMsg         `json:"batch_send,omitempty"`
	Burn              *BurnMsg              `json:"burn,omitempty"`
	BatchBurn         *BatchBurnMsg         `json:"batch_burn,omitempty"`
	GrantApproval     *GrantApprovalMsg     `json:"grant_approval,omitempty"`
	RevokeApproval    *RevokeApprovalMsg    `json:"revoke_approval,omitempty"`
	SetRoyaltyInfo    *SetRoyaltyInfoMsg    `json:"set_royalty_info,omitempty"`
	SetMetadata       *SetMetadataMsg       `json:"set_metadata,omitempty"`
	Reveal            *RevealMsg            `json:"reveal,omitempty"`
	SetContractStatus *SetContractStatusMsg `json:"set_contract_status,omitempty"`
	ChangeAdmin       *ChangeAdminMsg       `json:"change_admin,omitempty"`
	AddMinters        *AddMintersMsg        `json:"add_minters,omitempty"`
	RemoveMinters     *RemoveMintersMsg     `json:"remove_minters,omitempty"`
}

// MintMsg mints one token. Unset fields take their defaults: the id is the
// current mint count, the owner is the caller, and the token is
// transferable.
type MintMsg struct {
	TokenID         *persist.TokenID      `json:"token_id,omitempty"`
	Owner           *persist.Address      `json:"owner,omitempty"`
	PublicMetadata  persist.TokenMetadata `json:"public_metadata,omitempty"`
	PrivateMetadata persist.TokenMetadata `json:"private_metadata,omitempty"`
	RoyaltyInfo     *persist.RoyaltyInfo  `json:"royalty_info,omitempty"`
	Transferable    *bool                 `json:"transferable,omitempty"`
	SerialNumber    *uint32               `json:"serial_number,omitempty"`
	Memo            *string               `json:"memo,omitempty"`
}

// BatchMintMsg mints a list of tokens atomically
type BatchMintMsg struct {
	Mints []MintMsg `json:"mints"`
}

// TransferMsg moves one token to a new owner
type TransferMsg struct {
	Recipient persist.Address `json:"recipient"`
	TokenID   persist.TokenID `json:"token_id"`
	Memo      *string         `json:"memo,omitempty"`
}

// TransferSpec is one recipient's slice of a batch transfer
type TransferSpec struct {
	Recipient persist.Address   `json:"recipient"`
	TokenIDs  []persist.TokenID `json:"token_ids"`
	Memo      *string           `json:"memo,omitempty"`
}

// BatchTransferMsg transfers a list of tokens atomically, in order,
// failing the whole batch on the first violating token
type BatchTransferMsg struct {
	Transfers []TransferSpec `json:"transfers"`
}

// SendMsg transfers one token to a contract address and carries an opaque
// callback message for the host to deliver
type SendMsg struct {
	Contract persist.Address `json:"contract"`
	TokenID  persist.TokenID `json:"token_id"`
	Msg      json.RawMessage `json:"msg,omitempty"`
	Memo     *string         `json:"memo,omitempty"`
}

// SendSpec is one contract's slice of a batch send
type SendSpec struct {
	Contract persist.Address   `json:"contract"`
	TokenIDs []persist.TokenID `json:"token_ids"`
	Msg      json.RawMessage   `json:"msg,omitempty"`
	Memo     *string           `json:"memo,omitempty"`
}

// BatchSendMsg sends a list of tokens atomically
type BatchSendMsg struct {
	Sends []SendSpec `json:"sends"`
}

// BurnMsg destroys one token
type BurnMsg struct {
	TokenID persist.TokenID `json:"token_id"`
	Memo    *string         `json:"memo,omitempty"`
}

// BurnSpec is one slice of a batch burn
type BurnSpec struct {
	TokenIDs []persist.TokenID `json:"token_ids"`
	Memo     *string           `json:"memo,omitempty"`
}

// BatchBurnMsg burns a list of tokens atomically
type BatchBurnMsg struct {
	Burns []BurnSpec `json:"burns"`
}

// GrantApprovalMsg grants a spender rights over one token (token_id set)
// or over the caller's whole inventory (token_id unset). Granting for an
// existing spender replaces the earlier approval.
type GrantApprovalMsg struct {
	TokenID    *persist.TokenID   `json:"token_id,omitempty"`
	Spender    persist.Address    `json:"spender"`
	Expiration persist.Expiration `json:"expiration"`
}

// RevokeApprovalMsg removes a spender's approval at either granularity
type RevokeApprovalMsg struct {
	TokenID *persist.TokenID `json:"token_id,omitempty"`
	Spender persist.Address  `json:"spender"`
}

// SetRoyaltyInfoMsg replaces a token's royalty info, or the contract
// default when token_id is unset. A nil royalty_info clears it.
type SetRoyaltyInfoMsg struct {
	TokenID     *persist.TokenID     `json:"token_id,omitempty"`
	RoyaltyInfo *persist.RoyaltyInfo `json:"royalty_info,omitempty"`
}

// SetMetadataMsg replaces a token's metadata, gated by the metadata-update
// config toggles
type SetMetadataMsg struct {
	TokenID         persist.TokenID       `json:"token_id"`
	PublicMetadata  persist.TokenMetadata `json:"public_metadata,omitempty"`
	PrivateMetadata persist.TokenMetadata `json:"private_metadata,omitempty"`
}

// RevealMsg unwraps a sealed token's metadata
type RevealMsg struct {
	TokenID persist.TokenID `json:"token_id"`
}

// SetContractStatusMsg changes the contract status; admin only
type SetContractStatusMsg struct {
	Level string `json:"level"`
}

// ChangeAdminMsg hands the admin role to a new address; admin only
type ChangeAdminMsg struct {
	Address persist.Address `json:"address"`
}

// AddMintersMsg adds addresses to the minter list; admin only
type AddMintersMsg struct {
	Minters []persist.Address `json:"minters"`
}

// RemoveMintersMsg removes addresses from the minter list; admin only
type RemoveMintersMsg struct {
	Minters []persist.Address `json:"minters"`
}

// ExecuteAnswer carries the result of the one operation that ran
type ExecuteAnswer struct {
	Mint              *MintAnswer      `json:"mint,omitempty"`
	BatchMint         *BatchMintAnswer `json:"batch_mint,omitempty"`
	Transfer          *OKAnswer        `json:"transfer,omitempty"`
	BatchTransfer     *OKAnswer        `json:"batch_transfer,omitempty"`
	Send              *SendAnswer      `json:"send,omitempty"`
	BatchSend         *SendAnswer      `json:"batch_send,omitempty"`
	Burn              *OKAnswer        `json:"burn,omitempty"`
	BatchBurn         *OKAnswer        `json:"batch_burn,omitempty"`
	GrantApproval     *OKAnswer        `json:"grant_approval,omitempty"`
	RevokeApproval    *OKAnswer        `json:"revoke_approval,omitempty"`
	SetRoyaltyInfo    *OKAnswer        `json:"set_royalty_info,omitempty"`
	SetMetadata       *OKAnswer        `json:"set_metadata,omitempty"`
	Reveal            *OKAnswer        `json:"reveal,omitempty"`
	SetContractStatus *OKAnswer        `json:"set_contract_status,omitempty"`
	ChangeAdmin       *OKAnswer        `json:"change_admin,omitempty"`
	AddMinters        *OKAnswer        `json:"add_minters,omitempty"`
	RemoveMinters     *OKAnswer        `json:"remove_minters,omitempty"`
}

// OKAnswer acknowledges an operation with no payload
type OKAnswer struct {
	Status string `json:"status"`
}

// MintAnswer names the minted token
type MintAnswer struct {
	TokenID persist.TokenID `json:"token_id"`
}

// BatchMintAnswer names every minted token, in request order
type BatchMintAnswer struct {
	TokenIDs []persist.TokenID `json:"token_ids"`
}

// ReceiverCallback is a callback the host should deliver to a receiving
// contract after a send commits
type ReceiverCallback struct {
	Contract persist.Address `json:"contract"`
	Sender   persist.Address `json:"sender"`
	From     persist.Address `json:"from"`
	TokenID  persist.TokenID `json:"token_id"`
	Msg      json.RawMessage `json:"msg,omitempty"`
}

// SendAnswer acknowledges a send and lists the callbacks to deliver
type SendAnswer struct {
	Status    string             `json:"status"`
	Callbacks []ReceiverCallback `json:"callbacks,omitempty"`
}

var okAnswer = OKAnswer{Status: "success"}
