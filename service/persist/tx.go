package persist

import (
	"github.com/sealvault/go-sealvault/service/store"
)

const (
	// TxActionMint records a mint
	TxActionMint TxAction = "mint"
	// TxActionTransfer records a transfer or send
	TxActionTransfer TxAction = "transfer"
	// TxActionBurn records a burn
	TxActionBurn TxAction = "burn"
)

// TxAction is the kind of state transition a TxRecord describes
type TxAction string

// TxRecord is one entry of the append-only transaction log
type TxRecord struct {
	ID      DBID     `json:"id"`
	Seq     uint64   `json:"seq"`
	Action  TxAction `json:"action"`
	TokenID TokenID  `json:"token_id"`
	From    *Address `json:"from,omitempty"`
	To      *Address `json:"to,omitempty"`
	Burner  *Address `json:"burner,omitempty"`
	Memo    *string  `json:"memo,omitempty"`
	Height  uint64   `json:"height"`
	Time    uint64   `json:"time"`
}

// TxRepository represents the transaction log: a global sequence plus a
// per-address index
type TxRepository interface {
	Append(tx store.Tx, record TxRecord) error
	ByAddress(tx store.Tx, addr Address, page, pageSize uint32) ([]TxRecord, error)
}
