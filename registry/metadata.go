package registry

import (
	"github.com/sealvault/go-sealvault/service/persist"
	"github.com/sealvault/go-sealvault/service/store"
)

// setRoyaltyInfo replaces a token's royalty info, or the contract default
// when no token id is given. The non-transferable rejection comes before
// any authorization check: royalty data on such a token is invalid no
// matter who asks.
func (r *Registry) setRoyaltyInfo(tx store.Tx, cfg *persist.Config, ec ExecCtx, msg SetRoyaltyInfoMsg) error {
	if msg.TokenID == nil {
		if !cfg.IsMinter(ec.Caller) {
			return persist.ErrNotMinter{}
		}
		return r.repos.ConfigRepository.SaveDefaultRoyalty(tx, msg.RoyaltyInfo)
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

	if !token.Transferable {
		return persist.ErrRoyaltiesNonTransferable{}
	}
	if token.Owner != ec.Caller && ec.Caller != cfg.Admin {
		return persist.ErrUnauthorized{ID: id}
	}

	token.RoyaltyInfo = msg.RoyaltyInfo
	return r.repos.TokenRepository.Save(tx, index, token)
}

// setMetadata replaces a token's metadata, gated by the config's
// metadata-update toggles
func (r *Registry) setMetadata(tx store.Tx, cfg *persist.Config, ec ExecCtx, msg SetMetadataMsg) error {
	index, err := r.repos.IndexRepository.Resolve(tx, msg.TokenID)
	if err != nil {
		return err
	}
	token, err := r.repos.TokenRepository.Get(tx, index)
	if err != nil {
		return err
	}

	ownerAllowed := cfg.OwnerMayUpdateMetadata && ec.Caller == token.Owner
	minterAllowed := cfg.MinterMayUpdateMetadata && cfg.IsMinter(ec.Caller)
	if !ownerAllowed && !minterAllowed {
		return persist.ErrUnauthorized{ID: msg.TokenID}
	}

	if msg.PublicMetadata != nil {
		token.PublicMetadata = msg.PublicMetadata
	}
	if msg.PrivateMetadata != nil {
		token.PrivateMetadata = msg.PrivateMetadata
	}
	return r.repos.TokenRepository.Save(tx, index, token)
}

// reveal unwraps a sealed token's private metadata. Only the owner may
// reveal, each token unwraps exactly once, and unless the configuration
// keeps unwrapped metadata private the revealed document moves to the
// public slot.
func (r *Registry) reveal(tx store.Tx, cfg *persist.Config, ec ExecCtx, id persist.TokenID) error {
	if !cfg.SealedMetadataIsEnabled {
		return persist.ErrSealedMetadataDisabled{}
	}

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
	if token.Unwrapped {
		return persist.ErrAlreadyUnwrapped{ID: id}
	}

	token.Unwrapped = true
	if !cfg.UnwrapToPrivate && token.PrivateMetadata != nil {
		token.PublicMetadata = token.PrivateMetadata
		token.PrivateMetadata = nil
	}
	return r.repos.TokenRepository.Save(tx, index, token)
}
