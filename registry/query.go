package registry

import (
	"context"
	"fmt"

	"github.com/sealvault/go-sealvault/service/persist"
	"github.com/sealvault/go-sealvault/service/store"
	"github.com/sealvault/go-sealvault/util"
)

const defaultTxPageSize = 25

// QueryCtx carries the host-supplied height and time a query's expiration
// comparisons run against
type QueryCtx struct {
	Height uint64
	Time   uint64
}

// Query runs one read-only operation against a consistent snapshot
func (r *Registry) Query(ctx context.Context, qc QueryCtx, msg QueryMsg) (QueryAnswer, error) {
	var answer QueryAnswer

	err := r.store.View(ctx, func(tx store.Tx) error {
		cfg, err := r.repos.ConfigRepository.Load(tx)
		if err != nil {
			return err
		}

		switch {
		case msg.ContractInfo != nil:
			answer.ContractInfo = &ContractInfoAnswer{Name: cfg.Name, Symbol: cfg.Symbol}
		case msg.ContractConfig != nil:
			answer.ContractConfig = &ContractConfigAnswer{
				TokenSupplyIsPublic:     cfg.TokenSupplyIsPublic,
				OwnerIsPublic:           cfg.OwnerIsPublic,
				SealedMetadataIsEnabled: cfg.SealedMetadataIsEnabled,
				UnwrapToPrivate:         cfg.UnwrapToPrivate,
				MinterMayUpdateMetadata: cfg.MinterMayUpdateMetadata,
				OwnerMayUpdateMetadata:  cfg.OwnerMayUpdateMetadata,
				BurnIsEnabled:           cfg.BurnIsEnabled,
			}
		case msg.Minters != nil:
			answer.Minters = &MintersAnswer{Minters: cfg.Minters}
		case msg.NumTokens != nil:
			a, err := r.queryNumTokens(cfg, *msg.NumTokens)
			if err != nil {
				return err
			}
			answer.NumTokens = a
		case msg.OwnerOf != nil:
			a, err := r.queryOwnerOf(tx, cfg, qc, *msg.OwnerOf)
			if err != nil {
				return err
			}
			answer.OwnerOf = a
		case msg.Tokens != nil:
			a, err := r.queryTokens(tx, cfg, qc, *msg.Tokens)
			if err != nil {
				return err
			}
			answer.Tokens = a
		case msg.IsTransferable != nil:
			a, err := r.queryIsTransferable(tx, cfg, *msg.IsTransferable)
			if err != nil {
				return err
			}
			answer.IsTransferable = a
		case msg.RoyaltyInfo != nil:
			a, err := r.queryRoyaltyInfo(tx, cfg, *msg.RoyaltyInfo)
			if err != nil {
				return err
			}
			answer.RoyaltyInfo = a
		case msg.NftDossier != nil:
			a, err := r.queryNftDossier(tx, cfg, qc, *msg.NftDossier)
			if err != nil {
				return err
			}
			answer.NftDossier = a
		case msg.VerifyTransferApproval != nil:
			a, err := r.queryVerifyTransferApproval(tx, qc, *msg.VerifyTransferApproval)
			if err != nil {
				return err
			}
			answer.VerifyTransferApproval = a
		case msg.TxHistory != nil:
			a, err := r.queryTxHistory(tx, *msg.TxHistory)
			if err != nil {
				return err
			}
			answer.TxHistory = a
		default:
			return fmt.Errorf("exactly one query must be specified")
		}
		return nil
	})
	if err != nil {
		return QueryAnswer{}, err
	}
	return answer, nil
}

func (r *Registry) queryNumTokens(cfg persist.Config, q NumTokensQuery) (*NumTokensAnswer, error) {
	if !cfg.TokenSupplyIsPublic {
		if q.Viewer == nil || !cfg.IsMinter(*q.Viewer) {
			return nil, fmt.Errorf("The token supply of this contract is private")
		}
	}
	return &NumTokensAnswer{Count: cfg.TokenCount}, nil
}

func (r *Registry) queryOwnerOf(tx store.Tx, cfg persist.Config, qc QueryCtx, q OwnerOfQuery) (*OwnerOfAnswer, error) {
	token, _, err := r.getToken(tx, q.TokenID)
	if err != nil {
		return nil, err
	}
	visible, err := r.ownerVisible(tx, cfg, qc, token, q.Viewer)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, persist.ErrUnauthorized{ID: q.TokenID}
	}
	return &OwnerOfAnswer{Owner: token.Owner}, nil
}

func (r *Registry) queryTokens(tx store.Tx, cfg persist.Config, qc QueryCtx, q TokensQuery) (*TokensAnswer, error) {
	allowed := cfg.OwnerIsPublic || (q.Viewer != nil && *q.Viewer == q.Owner)
	if !allowed && q.Viewer != nil {
		approvals, err := r.repos.InventoryRepository.Approvals(tx, q.Owner)
		if err != nil {
			return nil, err
		}
		for _, approval := range approvals {
			if approval.Spender == *q.Viewer && !approval.Expiration.IsExpired(qc.Height, qc.Time) {
				allowed = true
				break
			}
		}
	}
	if !allowed {
		return nil, fmt.Errorf("You are not authorized to view the inventory of address %s", q.Owner)
	}

	indices, err := r.repos.InventoryRepository.List(tx, q.Owner)
	if err != nil {
		return nil, err
	}
	ids := make([]persist.TokenID, 0, len(indices))
	for _, index := range indices {
		id, err := r.repos.IndexRepository.GetID(tx, index)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return &TokensAnswer{Tokens: ids}, nil
}

// queryIsTransferable answers true for unknown ids while the token supply
// is private, so nonexistence is not leaked
func (r *Registry) queryIsTransferable(tx store.Tx, cfg persist.Config, q IsTransferableQuery) (*IsTransferableAnswer, error) {
	token, _, err := r.getToken(tx, q.TokenID)
	if err != nil {
		if IsNotFound(err) && !cfg.TokenSupplyIsPublic {
			return &IsTransferableAnswer{TokenIsTransferable: true}, nil
		}
		return nil, err
	}
	return &IsTransferableAnswer{TokenIsTransferable: token.Transferable}, nil
}

func (r *Registry) queryRoyaltyInfo(tx store.Tx, cfg persist.Config, q RoyaltyInfoQuery) (*RoyaltyInfoAnswer, error) {
	if q.TokenID == nil {
		royalty, err := r.repos.ConfigRepository.LoadDefaultRoyalty(tx)
		if err != nil {
			return nil, err
		}
		if royalty == nil {
			return &RoyaltyInfoAnswer{}, nil
		}
		hideRecipients := q.Viewer == nil || !cfg.IsMinter(*q.Viewer)
		return &RoyaltyInfoAnswer{RoyaltyInfo: util.ToPointer(royalty.Display(hideRecipients))}, nil
	}

	token, _, err := r.getToken(tx, *q.TokenID)
	if err != nil {
		return nil, err
	}
	if token.RoyaltyInfo == nil {
		return &RoyaltyInfoAnswer{}, nil
	}
	hideRecipients := q.Viewer == nil || *q.Viewer != token.Owner
	return &RoyaltyInfoAnswer{RoyaltyInfo: util.ToPointer(token.RoyaltyInfo.Display(hideRecipients))}, nil
}

func (r *Registry) queryNftDossier(tx store.Tx, cfg persist.Config, qc QueryCtx, q NftDossierQuery) (*NftDossierAnswer, error) {
	token, _, err := r.getToken(tx, q.TokenID)
	if err != nil {
		return nil, err
	}

	isOwner := q.Viewer != nil && *q.Viewer == token.Owner
	approved := false
	if q.Viewer != nil && !isOwner {
		approved, err = r.isOwnerOrApproved(tx, token, *q.Viewer, qc.Height, qc.Time)
		if err != nil {
			return nil, err
		}
	}

	answer := &NftDossierAnswer{
		PublicMetadata: token.PublicMetadata,
		MintRunInfo:    util.ToPointer(token.MintRunInfo),
		Transferable:   token.Transferable,
		Unwrapped:      token.Unwrapped,
		OwnerIsPublic:  cfg.OwnerIsPublic,
	}

	if cfg.OwnerIsPublic || isOwner || approved {
		owner := token.Owner
		answer.Owner = &owner
	}

	// a sealed document stays hidden from everyone until the owner reveals
	// it; an approval delegates the owner's rights, not more than them
	switch {
	case cfg.SealedMetadataIsEnabled && !token.Unwrapped:
		answer.DisplayPrivateMetadataError = util.ToPointer("Sealed metadata must be unwrapped by calling Reveal before it can be viewed")
	case isOwner || approved:
		answer.PrivateMetadata = token.PrivateMetadata
	default:
		answer.DisplayPrivateMetadataError = util.ToPointer(persist.ErrUnauthorized{ID: q.TokenID}.Error())
	}

	if token.RoyaltyInfo != nil {
		answer.RoyaltyInfo = util.ToPointer(token.RoyaltyInfo.Display(!isOwner))
	}

	if isOwner {
		answer.TokenApprovals = token.Approvals
		inventoryApprovals, err := r.repos.InventoryRepository.Approvals(tx, token.Owner)
		if err != nil {
			return nil, err
		}
		answer.InventoryApprovals = inventoryApprovals
	}

	return answer, nil
}

// queryVerifyTransferApproval reports the first listed token the address
// could not transfer. A non-transferable token always counts as not
// approved, even for its owner: transfer approval is meaningless for it.
func (r *Registry) queryVerifyTransferApproval(tx store.Tx, qc QueryCtx, q VerifyTransferApprovalQuery) (*VerifyTransferApprovalAnswer, error) {
	for _, id := range q.TokenIDs {
		token, _, err := r.getToken(tx, id)
		if err != nil {
			if IsNotFound(err) {
				return &VerifyTransferApprovalAnswer{FirstUnapprovedToken: util.ToPointer(id)}, nil
			}
			return nil, err
		}
		if !token.Transferable {
			return &VerifyTransferApprovalAnswer{FirstUnapprovedToken: util.ToPointer(id)}, nil
		}
		ok, err := r.isOwnerOrApproved(tx, token, q.Address, qc.Height, qc.Time)
		if err != nil {
			return nil, err
		}
		if !ok {
			return &VerifyTransferApprovalAnswer{FirstUnapprovedToken: util.ToPointer(id)}, nil
		}
	}
	return &VerifyTransferApprovalAnswer{ApprovedForAll: true}, nil
}

func (r *Registry) queryTxHistory(tx store.Tx, q TxHistoryQuery) (*TxHistoryAnswer, error) {
	page := util.FromPointer(q.Page)
	pageSize := uint32(defaultTxPageSize)
	if q.PageSize != nil {
		pageSize = *q.PageSize
	}
	records, err := r.repos.TxRepository.ByAddress(tx, q.Address, page, pageSize)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []persist.TxRecord{}
	}
	return &TxHistoryAnswer{Txs: records}, nil
}

// ownerVisible reports whether the viewer may learn a token's owner
func (r *Registry) ownerVisible(tx store.Tx, cfg persist.Config, qc QueryCtx, token persist.Token, viewer *persist.Address) (bool, error) {
	if cfg.OwnerIsPublic {
		return true, nil
	}
	if viewer == nil {
		return false, nil
	}
	return r.isOwnerOrApproved(tx, token, *viewer, qc.Height, qc.Time)
}

// getToken resolves an id through the index map and loads its record
func (r *Registry) getToken(tx store.Tx, id persist.TokenID) (persist.Token, persist.TokenIndex, error) {
	index, err := r.repos.IndexRepository.Resolve(tx, id)
	if err != nil {
		return persist.Token{}, 0, err
	}
	token, err := r.repos.TokenRepository.Get(tx, index)
	if err != nil {
		return persist.Token{}, 0, err
	}
	return token, index, nil
}
