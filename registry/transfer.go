package registry

import (
	"github.com/sealvault/go-sealvault/service/persist"
	"github.com/sealvault/go-sealvault/service/store"
	"github.com/sealvault/go-sealvault/util"
)

// transfer moves one token between inventories and rewrites its owner.
// The transferable flag is checked before anything else: for a
// non-transferable token the operation is invalid no matter who asks.
func (r *Registry) transfer(tx store.Tx, cfg *persist.Config, ec ExecCtx, recipient persist.Address, id persist.TokenID, memo *string) error {
	index, err := r.repos.IndexRepository.Resolve(tx, id)
	if err != nil {
		return err
	}
	token, err := r.repos.TokenRepository.Get(tx, index)
	if err != nil {
		return err
	}

	if !token.Transferable {
		return persist.ErrTokenNonTransferable{ID: id}
	}
	if err := r.checkPermission(tx, ec, id, token); err != nil {
		return err
	}

	from := token.Owner
	if err := r.repos.InventoryRepository.Remove(tx, from, index); err != nil {
		return err
	}
	if err := r.repos.InventoryRepository.Add(tx, recipient, index); err != nil {
		return err
	}

	token.Owner = recipient
	// approvals were granted by the previous owner and do not survive them
	token.Approvals = nil
	if err := r.repos.TokenRepository.Save(tx, index, token); err != nil {
		return err
	}

	return r.appendTx(tx, cfg, persist.TxRecord{
		Action:  persist.TxActionTransfer,
		TokenID: id,
		From:    util.ToPointer(from),
		To:      util.ToPointer(recipient),
		Memo:    memo,
		Height:  ec.Height,
		Time:    ec.Time,
	})
}

// send is a transfer to a contract address plus a callback for the host to
// deliver once the whole invocation commits
func (r *Registry) send(tx store.Tx, cfg *persist.Config, ec ExecCtx, msg SendMsg) (ReceiverCallback, error) {
	index, err := r.repos.IndexRepository.Resolve(tx, msg.TokenID)
	if err != nil {
		return ReceiverCallback{}, err
	}
	token, err := r.repos.TokenRepository.Get(tx, index)
	if err != nil {
		return ReceiverCallback{}, err
	}
	from := token.Owner

	if err := r.transfer(tx, cfg, ec, msg.Contract, msg.TokenID, msg.Memo); err != nil {
		return ReceiverCallback{}, err
	}

	return ReceiverCallback{
		Contract: msg.Contract,
		Sender:   ec.Caller,
		From:     from,
		TokenID:  msg.TokenID,
		Msg:      msg.Msg,
	}, nil
}
