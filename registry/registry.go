// Package registry is the ownership ledger and permission engine: it owns
// every state transition over the token, index and inventory maps and keeps
// their cross-references consistent.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/sealvault/go-sealvault/service/logger"
	"github.com/sealvault/go-sealvault/service/persist"
	"github.com/sealvault/go-sealvault/service/persist/kvstore"
	"github.com/sealvault/go-sealvault/service/store"
	"github.com/sealvault/go-sealvault/validate"
)

// ExecCtx is the execution context the host supplies for one invocation.
// Height and time are captured once and never change mid-operation.
type ExecCtx struct {
	Caller persist.Address
	Height uint64
	Time   uint64
}

// Registry is the transition engine over one store. Requests are processed
// one at a time; every execute runs inside a single store transaction so a
// failing batch item discards the whole invocation's effects.
type Registry struct {
	mu        sync.Mutex
	store     store.Store
	repos     *kvstore.Repositories
	validator *validator.Validate
}

// InstantiateMsg creates the registry's configuration
type InstantiateMsg struct {
	Name   string          `json:"name"`
	Symbol string          `json:"symbol"`
	Admin  persist.Address `json:"admin"`

	RoyaltyInfo *persist.RoyaltyInfo `json:"royalty_info,omitempty"`

	TokenSupplyIsPublic     bool `json:"public_token_supply"`
	OwnerIsPublic           bool `json:"public_owner"`
	SealedMetadataIsEnabled bool `json:"enable_sealed_metadata"`
	UnwrapToPrivate         bool `json:"unwrapped_metadata_is_private"`
	MinterMayUpdateMetadata bool `json:"minter_may_update_metadata"`
	OwnerMayUpdateMetadata  bool `json:"owner_may_update_metadata"`
	BurnIsEnabled           bool `json:"enable_burn"`
}

// New creates a Registry over the given store
func New(s store.Store) *Registry {
	return &Registry{
		store:     s,
		repos:     kvstore.NewRepositories(),
		validator: validate.WithCustomValidators(),
	}
}

// Instantiate creates the configuration. It fails if the registry has
// already been instantiated.
func (r *Registry) Instantiate(ctx context.Context, ec ExecCtx, msg InstantiateMsg) error {
	if err := validate.ValidateFields(r.validator, validate.ValidationMap{
		"name":   {Value: msg.Name, Tag: "required"},
		"symbol": {Value: msg.Symbol, Tag: "required"},
	}); err != nil {
		return err
	}

	admin := msg.Admin
	if !admin.Valid() {
		admin = ec.Caller
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.store.Update(ctx, func(tx store.Tx) error {
		exists, err := r.repos.ConfigRepository.Exists(tx)
		if err != nil {
			return err
		}
		if exists {
			return persist.ErrAlreadyInstantiated{}
		}

		cfg := persist.Config{
			Name:                    msg.Name,
			Symbol:                  msg.Symbol,
			Admin:                   admin,
			Minters:                 []persist.Address{admin},
			Status:                  persist.StatusNormal,
			TokenSupplyIsPublic:     msg.TokenSupplyIsPublic,
			OwnerIsPublic:           msg.OwnerIsPublic,
			SealedMetadataIsEnabled: msg.SealedMetadataIsEnabled,
			UnwrapToPrivate:         msg.UnwrapToPrivate,
			MinterMayUpdateMetadata: msg.MinterMayUpdateMetadata,
			OwnerMayUpdateMetadata:  msg.OwnerMayUpdateMetadata,
			BurnIsEnabled:           msg.BurnIsEnabled,
		}
		if err := r.repos.ConfigRepository.Save(tx, cfg); err != nil {
			return err
		}
		return r.repos.ConfigRepository.SaveDefaultRoyalty(tx, msg.RoyaltyInfo)
	})
}

// Instantiated reports whether a configuration exists
func (r *Registry) Instantiated(ctx context.Context) (bool, error) {
	var exists bool
	err := r.store.View(ctx, func(tx store.Tx) error {
		var err error
		exists, err = r.repos.ConfigRepository.Exists(tx)
		return err
	})
	return exists, err
}

// Execute runs one state-changing operation. All of its effects, including
// every item of a batch, commit together or not at all.
func (r *Registry) Execute(ctx context.Context, ec ExecCtx, msg ExecuteMsg) (ExecuteAnswer, error) {
	var answer ExecuteAnswer

	if !ec.Caller.Valid() {
		return answer, fmt.Errorf("execute requires a caller address")
	}
	if err := validateOneOf(countExecuteOps(msg)); err != nil {
		return answer, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.store.Update(ctx, func(tx store.Tx) error {
		cfg, err := r.repos.ConfigRepository.Load(tx)
		if err != nil {
			return err
		}
		if err := checkStatus(cfg, msg); err != nil {
			return err
		}

		switch {
		case msg.Mint != nil:
			id, err := r.mint(tx, &cfg, ec, *msg.Mint)
			if err != nil {
				return err
			}
			answer.Mint = &MintAnswer{TokenID: id}
		case msg.BatchMint != nil:
			ids := make([]persist.TokenID, 0, len(msg.BatchMint.Mints))
			for _, m := range msg.BatchMint.Mints {
				id, err := r.mint(tx, &cfg, ec, m)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			answer.BatchMint = &BatchMintAnswer{TokenIDs: ids}
		case msg.Transfer != nil:
			if err := r.transfer(tx, &cfg, ec, msg.Transfer.Recipient, msg.Transfer.TokenID, msg.Transfer.Memo); err != nil {
				return err
			}
			answer.Transfer = &okAnswer
		case msg.BatchTransfer != nil:
			for _, spec := range msg.BatchTransfer.Transfers {
				for _, id := range spec.TokenIDs {
					if err := r.transfer(tx, &cfg, ec, spec.Recipient, id, spec.Memo); err != nil {
						return err
					}
				}
			}
			answer.BatchTransfer = &okAnswer
		case msg.Send != nil:
			callback, err := r.send(tx, &cfg, ec, *msg.Send)
			if err != nil {
				return err
			}
			answer.Send = &SendAnswer{Status: okAnswer.Status, Callbacks: []ReceiverCallback{callback}}
		case msg.BatchSend != nil:
			var callbacks []ReceiverCallback
			for _, spec := range msg.BatchSend.Sends {
				for _, id := range spec.TokenIDs {
					callback, err := r.send(tx, &cfg, ec, SendMsg{Contract: spec.Contract, TokenID: id, Msg: spec.Msg, Memo: spec.Memo})
					if err != nil {
						return err
					}
					callbacks = append(callbacks, callback)
				}
			}
			answer.BatchSend = &SendAnswer{Status: okAnswer.Status, Callbacks: callbacks}
		case msg.Burn != nil:
			if err := r.burn(tx, &cfg, ec, msg.Burn.TokenID, msg.Burn.Memo); err != nil {
				return err
			}
			answer.Burn = &okAnswer
		case msg.BatchBurn != nil:
			for _, spec := range msg.BatchBurn.Burns {
				for _, id := range spec.TokenIDs {
					if err := r.burn(tx, &cfg, ec, id, spec.Memo); err != nil {
						return err
					}
				}
			}
			answer.BatchBurn = &okAnswer
		case msg.GrantApproval != nil:
			if err := r.grantApproval(tx, ec, *msg.GrantApproval); err != nil {
				return err
			}
			answer.GrantApproval = &okAnswer
		case msg.RevokeApproval != nil:
			if err := r.revokeApproval(tx, ec, *msg.RevokeApproval); err != nil {
				return err
			}
			answer.RevokeApproval = &okAnswer
		case msg.SetRoyaltyInfo != nil:
			if err := r.setRoyaltyInfo(tx, &cfg, ec, *msg.SetRoyaltyInfo); err != nil {
				return err
			}
			answer.SetRoyaltyInfo = &okAnswer
		case msg.SetMetadata != nil:
			if err := r.setMetadata(tx, &cfg, ec, *msg.SetMetadata); err != nil {
				return err
			}
			answer.SetMetadata = &okAnswer
		case msg.Reveal != nil:
			if err := r.reveal(tx, &cfg, ec, msg.Reveal.TokenID); err != nil {
				return err
			}
			answer.Reveal = &okAnswer
		case msg.SetContractStatus != nil:
			if err := r.setContractStatus(&cfg, ec, msg.SetContractStatus.Level); err != nil {
				return err
			}
			answer.SetContractStatus = &okAnswer
		case msg.ChangeAdmin != nil:
			if err := r.changeAdmin(&cfg, ec, msg.ChangeAdmin.Address); err != nil {
				return err
			}
			answer.ChangeAdmin = &okAnswer
		case msg.AddMinters != nil:
			if err := r.addMinters(&cfg, ec, msg.AddMinters.Minters); err != nil {
				return err
			}
			answer.AddMinters = &okAnswer
		case msg.RemoveMinters != nil:
			if err := r.removeMinters(&cfg, ec, msg.RemoveMinters.Minters); err != nil {
				return err
			}
			answer.RemoveMinters = &okAnswer
		}

		return r.repos.ConfigRepository.Save(tx, cfg)
	})
	if err != nil {
		return ExecuteAnswer{}, err
	}

	logger.For(ctx).WithField("caller", ec.Caller).Debug("execute committed")
	return answer, nil
}

func countExecuteOps(msg ExecuteMsg) int {
	count := 0
	for _, set := range []bool{
		msg.Mint != nil, msg.BatchMint != nil,
		msg.Transfer != nil, msg.BatchTransfer != nil,
		msg.Send != nil, msg.BatchSend != nil,
		msg.Burn != nil, msg.BatchBurn != nil,
		msg.GrantApproval != nil, msg.RevokeApproval != nil,
		msg.SetRoyaltyInfo != nil, msg.SetMetadata != nil, msg.Reveal != nil,
		msg.SetContractStatus != nil, msg.ChangeAdmin != nil,
		msg.AddMinters != nil, msg.RemoveMinters != nil,
	} {
		if set {
			count++
		}
	}
	return count
}

func validateOneOf(count int) error {
	if count != 1 {
		return fmt.Errorf("exactly one operation must be specified, got %d", count)
	}
	return nil
}

// isTransactional reports whether the message is one of the supply-changing
// operations that StatusStopTransactions blocks
func isTransactional(msg ExecuteMsg) bool {
	return msg.Mint != nil || msg.BatchMint != nil ||
		msg.Transfer != nil || msg.BatchTransfer != nil ||
		msg.Send != nil || msg.BatchSend != nil ||
		msg.Burn != nil || msg.BatchBurn != nil
}

func checkStatus(cfg persist.Config, msg ExecuteMsg) error {
	if msg.SetContractStatus != nil {
		return nil
	}
	switch cfg.Status {
	case persist.StatusStopAll:
		return persist.ErrContractStopped{Status: cfg.Status}
	case persist.StatusStopTransactions:
		if isTransactional(msg) {
			return persist.ErrContractStopped{Status: cfg.Status}
		}
	}
	return nil
}

// IsNotFound reports whether the error is an unknown-token failure
func IsNotFound(err error) bool {
	var notFound persist.ErrTokenNotFound
	return errors.As(err, &notFound)
}
