package registry

import (
	"github.com/sealvault/go-sealvault/service/persist"
	"github.com/sealvault/go-sealvault/service/store"
	"github.com/sealvault/go-sealvault/validate"
)

// grantApproval attaches an approval to one token or to the caller's whole
// inventory. A later grant for the same spender replaces the earlier one;
// granting with a past expiration is an effective revocation.
func (r *Registry) grantApproval(tx store.Tx, ec ExecCtx, msg GrantApprovalMsg) error {
	if err := validate.ValidateFields(r.validator, validate.ValidationMap{
		"spender": {Value: msg.Spender.String(), Tag: "required"},
	}); err != nil {
		return err
	}
	approval := persist.Approval{Spender: msg.Spender, Expiration: msg.Expiration}

	if msg.TokenID == nil {
		approvals, err := r.repos.InventoryRepository.Approvals(tx, ec.Caller)
		if err != nil {
			return err
		}
		return r.repos.InventoryRepository.SetApprovals(tx, ec.Caller, upsertApproval(approvals, approval))
	}

	id := *msg.TokenID
	index, err := r.repos.IndexRepository.Resolve(tx, id)
	if err != nil {
		return err
	}
	token, err := r.repos.TokenRepository.Get(tx, index)
	if err != nil {
		return err
	}
	// only the owner may delegate rights over a token
	if token.Owner != ec.Caller {
		return persist.ErrUnauthorized{ID: id}
	}

	token.Approvals = upsertApproval(token.Approvals, approval)
	return r.repos.TokenRepository.Save(tx, index, token)
}

// revokeApproval removes a spender's approval at either granularity; it is
// idempotent
func (r *Registry) revokeApproval(tx store.Tx, ec ExecCtx, msg RevokeApprovalMsg) error {
	if msg.TokenID == nil {
		approvals, err := r.repos.InventoryRepository.Approvals(tx, ec.Caller)
		if err != nil {
			return err
		}
		return r.repos.InventoryRepository.SetApprovals(tx, ec.Caller, removeApproval(approvals, msg.Spender))
	}

	id := *msg.TokenID
	index, err := r.repos.IndexRepository.Resolve(tx, id)
	if err != nil {
		return err
	}
	token, err := r.repos.TokenRepository.Get(tx, index)
	if err != nil {
		return err
	}
	if token.Owner != ec.Caller {
		return persist.ErrUnauthorized{ID: id}
	}

	token.Approvals = removeApproval(token.Approvals, msg.Spender)
	return r.repos.TokenRepository.Save(tx, index, token)
}

func upsertApproval(approvals []persist.Approval, approval persist.Approval) []persist.Approval {
	for i, existing := range approvals {
		if existing.Spender == approval.Spender {
			approvals[i] = approval
			return approvals
		}
	}
	return append(approvals, approval)
}

func removeApproval(approvals []persist.Approval, spender persist.Address) []persist.Approval {
	kept := approvals[:0]
	for _, existing := range approvals {
		if existing.Spender != spender {
			kept = append(kept, existing)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}
