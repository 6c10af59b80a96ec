package registry

import (
	"github.com/sealvault/go-sealvault/service/persist"
	"github.com/sealvault/go-sealvault/service/store"
)

// isOwnerOrApproved evaluates, in order: caller is the owner; a live
// token-level approval names the caller; a live inventory-level approval of
// the owner names the caller. Expirations are compared against the
// invocation's height and time, boundary inclusive.
func (r *Registry) isOwnerOrApproved(tx store.Tx, token persist.Token, caller persist.Address, height, time uint64) (bool, error) {
	if caller == token.Owner {
		return true, nil
	}
	for _, approval := range token.Approvals {
		if approval.Spender == caller && !approval.Expiration.IsExpired(height, time) {
			return true, nil
		}
	}

	ownerApprovals, err := r.repos.InventoryRepository.Approvals(tx, token.Owner)
	if err != nil {
		return false, err
	}
	for _, approval := range ownerApprovals {
		if approval.Spender == caller && !approval.Expiration.IsExpired(height, time) {
			return true, nil
		}
	}
	return false, nil
}

// checkPermission wraps isOwnerOrApproved into the unauthorized error that
// names the token
func (r *Registry) checkPermission(tx store.Tx, ec ExecCtx, id persist.TokenID, token persist.Token) error {
	ok, err := r.isOwnerOrApproved(tx, token, ec.Caller, ec.Height, ec.Time)
	if err != nil {
		return err
	}
	if !ok {
		return persist.ErrUnauthorized{ID: id}
	}
	return nil
}
