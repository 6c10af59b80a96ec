package registry

import (
	"github.com/sealvault/go-sealvault/service/persist"
	"github.com/sealvault/go-sealvault/service/store"
	"github.com/sealvault/go-sealvault/util"
)

// burn destroys a token: the record, both index map directions and the
// inventory entry go together. The index itself is retired, never reused.
//
// Non-transferable tokens are always burnable, even while the global burn
// flag is off. "Cannot be sold" deliberately does not imply "cannot be
// destroyed".
func (r *Registry) burn(tx store.Tx, cfg *persist.Config, ec ExecCtx, id persist.TokenID, memo *string) error {
	index, err := r.repos.IndexRepository.Resolve(tx, id)
	if err != nil {
		return err
	}
	token, err := r.repos.TokenRepository.Get(tx, index)
	if err != nil {
		return err
	}

	if err := r.checkPermission(tx, ec, id, token); err != nil {
		return err
	}
	if token.Transferable && !cfg.BurnIsEnabled {
		return persist.ErrBurnDisabled{}
	}

	if err := r.repos.InventoryRepository.Remove(tx, token.Owner, index); err != nil {
		return err
	}
	if err := r.repos.TokenRepository.Delete(tx, index); err != nil {
		return err
	}
	if err := r.repos.IndexRepository.Release(tx, id, index); err != nil {
		return err
	}

	cfg.TokenCount--

	return r.appendTx(tx, cfg, persist.TxRecord{
		Action:  persist.TxActionBurn,
		TokenID: id,
		Burner:  util.ToPointer(ec.Caller),
		From:    util.ToPointer(token.Owner),
		Memo:    memo,
		Height:  ec.Height,
		Time:    ec.Time,
	})
}
