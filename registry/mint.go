package registry

import (
	"fmt"

	"github.com/sealvault/go-sealvault/service/persist"
	"github.com/sealvault/go-sealvault/service/store"
	"github.com/sealvault/go-sealvault/util"
	"github.com/sealvault/go-sealvault/validate"
)

// mint creates the token record, the id<->index mapping and the inventory
// entry together. Any failure unwinds the enclosing transaction, so the
// three maps can never disagree.
func (r *Registry) mint(tx store.Tx, cfg *persist.Config, ec ExecCtx, msg MintMsg) (persist.TokenID, error) {
	if !cfg.IsMinter(ec.Caller) {
		return "", persist.ErrNotMinter{}
	}

	id := persist.TokenID(fmt.Sprintf("%d", cfg.MintCount))
	if msg.TokenID != nil {
		if err := validate.ValidateFields(r.validator, validate.ValidationMap{
			"token_id": {Value: msg.TokenID.String(), Tag: "token_id"},
		}); err != nil {
			return "", err
		}
		id = *msg.TokenID
	}

	owner := ec.Caller
	if msg.Owner != nil {
		owner = *msg.Owner
	}

	transferable := true
	if msg.Transferable != nil {
		transferable = *msg.Transferable
	}

	// royalty data on a non-transferable token is rejected outright; the
	// contract-level default is simply not inherited
	if !transferable && msg.RoyaltyInfo != nil {
		return "", persist.ErrRoyaltiesNonTransferable{}
	}
	royalty := msg.RoyaltyInfo
	if royalty == nil && transferable {
		defaultRoyalty, err := r.repos.ConfigRepository.LoadDefaultRoyalty(tx)
		if err != nil {
			return "", err
		}
		royalty = defaultRoyalty
	}

	index, err := r.repos.IndexRepository.Allocate(tx, id)
	if err != nil {
		return "", err
	}

	token := persist.Token{
		Owner:           owner,
		PublicMetadata:  msg.PublicMetadata,
		PrivateMetadata: msg.PrivateMetadata,
		RoyaltyInfo:     royalty,
		Transferable:    transferable,
		Unwrapped:       !cfg.SealedMetadataIsEnabled,
		MintRunInfo: persist.MintRunInfo{
			TokenCreator:  ec.Caller,
			TimeOfMinting: ec.Time,
			SerialNumber:  msg.SerialNumber,
		},
	}
	if err := r.repos.TokenRepository.Create(tx, index, token); err != nil {
		return "", err
	}
	if err := r.repos.InventoryRepository.Add(tx, owner, index); err != nil {
		return "", err
	}

	cfg.MintCount++
	cfg.TokenCount++

	if err := r.appendTx(tx, cfg, persist.TxRecord{
		Action:  persist.TxActionMint,
		TokenID: id,
		From:    util.ToPointer(ec.Caller),
		To:      util.ToPointer(owner),
		Memo:    msg.Memo,
		Height:  ec.Height,
		Time:    ec.Time,
	}); err != nil {
		return "", err
	}

	return id, nil
}

// appendTx numbers and stores one transaction log record
func (r *Registry) appendTx(tx store.Tx, cfg *persist.Config, record persist.TxRecord) error {
	record.ID = persist.GenerateID()
	record.Seq = cfg.TxCount
	cfg.TxCount++
	return r.repos.TxRepository.Append(tx, record)
}
