package registry

import (
	"context"
	"testing"

	"github.com/sealvault/go-sealvault/service/persist"
	"github.com/sealvault/go-sealvault/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryIsTransferable(t *testing.T) {
	ctx := context.Background()

	t.Run("reports the token's flag", func(t *testing.T) {
		r := newTestRegistry(t, InstantiateMsg{TokenSupplyIsPublic: true})
		mintToken(t, r, "NFT1", alice, true)
		mintToken(t, r, "NFT2", alice, false)

		q, err := r.Query(ctx, QueryCtx{}, QueryMsg{IsTransferable: &IsTransferableQuery{TokenID: "NFT1"}})
		require.NoError(t, err)
		assert.True(t, q.IsTransferable.TokenIsTransferable)

		q, err = r.Query(ctx, QueryCtx{}, QueryMsg{IsTransferable: &IsTransferableQuery{TokenID: "NFT2"}})
		require.NoError(t, err)
		assert.False(t, q.IsTransferable.TokenIsTransferable)
	})

	t.Run("unknown id errors when the supply is public", func(t *testing.T) {
		r := newTestRegistry(t, InstantiateMsg{TokenSupplyIsPublic: true})
		_, err := r.Query(ctx, QueryCtx{}, QueryMsg{IsTransferable: &IsTransferableQuery{TokenID: "NFT1"}})
		assert.EqualError(t, err, "Token ID: NFT1 not found")
	})

	t.Run("unknown id reads as transferable when the supply is private", func(t *testing.T) {
		r := newTestRegistry(t, InstantiateMsg{})
		q, err := r.Query(ctx, QueryCtx{}, QueryMsg{IsTransferable: &IsTransferableQuery{TokenID: "NFT1"}})
		require.NoError(t, err)
		assert.True(t, q.IsTransferable.TokenIsTransferable)
	})
}

func TestQueryVerifyTransferApproval(t *testing.T) {
	ctx := context.Background()
	qc := QueryCtx{Height: 100, Time: 1_000_000}

	t.Run("approves the owner of transferable tokens", func(t *testing.T) {
		r := newTestRegistry(t, InstantiateMsg{})
		mintToken(t, r, "NFT1", alice, true)
		mintToken(t, r, "NFT2", alice, true)

		q, err := r.Query(ctx, qc, QueryMsg{VerifyTransferApproval: &VerifyTransferApprovalQuery{
			TokenIDs: []persist.TokenID{"NFT1", "NFT2"}, Address: alice,
		}})
		require.NoError(t, err)
		assert.True(t, q.VerifyTransferApproval.ApprovedForAll)
		assert.Nil(t, q.VerifyTransferApproval.FirstUnapprovedToken)
	})

	t.Run("a non-transferable token is unapproved even for its owner", func(t *testing.T) {
		r := newTestRegistry(t, InstantiateMsg{})
		mintToken(t, r, "NFT1", alice, true)
		mintToken(t, r, "NFT2", alice, false)
		mintToken(t, r, "NFT3", alice, true)

		q, err := r.Query(ctx, qc, QueryMsg{VerifyTransferApproval: &VerifyTransferApprovalQuery{
			TokenIDs: []persist.TokenID{"NFT1", "NFT2", "NFT3"}, Address: alice,
		}})
		require.NoError(t, err)
		assert.False(t, q.VerifyTransferApproval.ApprovedForAll)
		require.NotNil(t, q.VerifyTransferApproval.FirstUnapprovedToken)
		assert.Equal(t, persist.TokenID("NFT2"), *q.VerifyTransferApproval.FirstUnapprovedToken)
	})

	t.Run("an unknown id is unapproved", func(t *testing.T) {
		r := newTestRegistry(t, InstantiateMsg{})
		q, err := r.Query(ctx, qc, QueryMsg{VerifyTransferApproval: &VerifyTransferApprovalQuery{
			TokenIDs: []persist.TokenID{"NFT1"}, Address: alice,
		}})
		require.NoError(t, err)
		assert.False(t, q.VerifyTransferApproval.ApprovedForAll)
		assert.Equal(t, persist.TokenID("NFT1"), *q.VerifyTransferApproval.FirstUnapprovedToken)
	})

	t.Run("a stranger is unapproved until granted", func(t *testing.T) {
		r := newTestRegistry(t, InstantiateMsg{})
		mintToken(t, r, "NFT1", alice, true)

		q, err := r.Query(ctx, qc, QueryMsg{VerifyTransferApproval: &VerifyTransferApprovalQuery{
			TokenIDs: []persist.TokenID{"NFT1"}, Address: bob,
		}})
		require.NoError(t, err)
		assert.False(t, q.VerifyTransferApproval.ApprovedForAll)

		_, err = r.Execute(ctx, ctxFor(alice), ExecuteMsg{GrantApproval: &GrantApprovalMsg{
			TokenID: util.ToPointer(persist.TokenID("NFT1")), Spender: bob, Expiration: persist.ExpirationNever(),
		}})
		require.NoError(t, err)

		q, err = r.Query(ctx, qc, QueryMsg{VerifyTransferApproval: &VerifyTransferApprovalQuery{
			TokenIDs: []persist.TokenID{"NFT1"}, Address: bob,
		}})
		require.NoError(t, err)
		assert.True(t, q.VerifyTransferApproval.ApprovedForAll)
	})
}

func TestQueryNftDossier(t *testing.T) {
	ctx := context.Background()
	qc := QueryCtx{Height: 100, Time: 1_000_000}
	public := persist.TokenMetadata{"name": "public doc"}
	private := persist.TokenMetadata{"name": "private doc"}

	mintFull := func(t *testing.T, r *Registry, transferable bool) {
		t.Helper()
		msg := &MintMsg{
			TokenID:        util.ToPointer(persist.TokenID("NFT1")),
			Owner:          util.ToPointer(alice),
			PublicMetadata: public, PrivateMetadata: private,
			Transferable: util.ToPointer(transferable),
		}
		if transferable {
			msg.RoyaltyInfo = testRoyalty()
		}
		_, err := r.Execute(ctx, ctxFor(admin), ExecuteMsg{Mint: msg})
		require.NoError(t, err)
	}

	t.Run("owner sees everything", func(t *testing.T) {
		r := newTestRegistry(t, InstantiateMsg{})
		mintFull(t, r, true)
		_, err := r.Execute(ctx, ctxFor(alice), ExecuteMsg{GrantApproval: &GrantApprovalMsg{
			Spender: bob, Expiration: persist.ExpirationNever(),
		}})
		require.NoError(t, err)

		q, err := r.Query(ctx, qc, QueryMsg{NftDossier: &NftDossierQuery{TokenID: "NFT1", Viewer: util.ToPointer(alice)}})
		require.NoError(t, err)
		dossier := q.NftDossier
		require.NotNil(t, dossier.Owner)
		assert.Equal(t, alice, *dossier.Owner)
		assert.Equal(t, public, dossier.PublicMetadata)
		assert.Equal(t, private, dossier.PrivateMetadata)
		assert.Nil(t, dossier.DisplayPrivateMetadataError)
		assert.True(t, dossier.Transferable)
		assert.True(t, dossier.Unwrapped)
		require.NotNil(t, dossier.RoyaltyInfo)
		assert.NotNil(t, dossier.RoyaltyInfo.Royalties[0].Recipient)
		require.Len(t, dossier.InventoryApprovals, 1)
		assert.Equal(t, bob, dossier.InventoryApprovals[0].Spender)
	})

	t.Run("a stranger gets the public slice and an explanation", func(t *testing.T) {
		r := newTestRegistry(t, InstantiateMsg{})
		mintFull(t, r, true)

		q, err := r.Query(ctx, qc, QueryMsg{NftDossier: &NftDossierQuery{TokenID: "NFT1", Viewer: util.ToPointer(bob)}})
		require.NoError(t, err)
		dossier := q.NftDossier
		assert.Nil(t, dossier.Owner)
		assert.Equal(t, public, dossier.PublicMetadata)
		assert.Nil(t, dossier.PrivateMetadata)
		require.NotNil(t, dossier.DisplayPrivateMetadataError)
		assert.Equal(t, "You are not authorized to perform this action on token NFT1", *dossier.DisplayPrivateMetadataError)
		// royalty rates are public, recipients are not
		require.NotNil(t, dossier.RoyaltyInfo)
		assert.Nil(t, dossier.RoyaltyInfo.Royalties[0].Recipient)
		assert.Nil(t, dossier.TokenApprovals)
		assert.Nil(t, dossier.InventoryApprovals)
	})

	t.Run("non-transferable dossier reports the flag", func(t *testing.T) {
		r := newTestRegistry(t, InstantiateMsg{})
		mintFull(t, r, false)

		q, err := r.Query(ctx, qc, QueryMsg{NftDossier: &NftDossierQuery{TokenID: "NFT1", Viewer: util.ToPointer(alice)}})
		require.NoError(t, err)
		assert.False(t, q.NftDossier.Transferable)
		assert.Nil(t, q.NftDossier.RoyaltyInfo)
	})

	t.Run("public ownership shows the owner to anyone", func(t *testing.T) {
		r := newTestRegistry(t, InstantiateMsg{OwnerIsPublic: true})
		mintFull(t, r, true)

		q, err := r.Query(ctx, qc, QueryMsg{NftDossier: &NftDossierQuery{TokenID: "NFT1"}})
		require.NoError(t, err)
		require.NotNil(t, q.NftDossier.Owner)
		assert.Equal(t, alice, *q.NftDossier.Owner)
		assert.True(t, q.NftDossier.OwnerIsPublic)
	})

	t.Run("an approved viewer sees private metadata and the owner", func(t *testing.T) {
		r := newTestRegistry(t, InstantiateMsg{})
		mintFull(t, r, true)
		_, err := r.Execute(ctx, ctxFor(alice), ExecuteMsg{GrantApproval: &GrantApprovalMsg{
			TokenID: util.ToPointer(persist.TokenID("NFT1")), Spender: bob, Expiration: persist.ExpirationNever(),
		}})
		require.NoError(t, err)

		q, err := r.Query(ctx, qc, QueryMsg{NftDossier: &NftDossierQuery{TokenID: "NFT1", Viewer: util.ToPointer(bob)}})
		require.NoError(t, err)
		require.NotNil(t, q.NftDossier.Owner)
		assert.Equal(t, alice, *q.NftDossier.Owner)
		assert.Equal(t, private, q.NftDossier.PrivateMetadata)
		assert.Nil(t, q.NftDossier.DisplayPrivateMetadataError)
	})
}

func TestQueryNumTokens(t *testing.T) {
	ctx := context.Background()

	t.Run("public supply answers anyone", func(t *testing.T) {
		r := newTestRegistry(t, InstantiateMsg{TokenSupplyIsPublic: true})
		mintToken(t, r, "NFT1", alice, true)

		q, err := r.Query(ctx, QueryCtx{}, QueryMsg{NumTokens: &NumTokensQuery{}})
		require.NoError(t, err)
		assert.Equal(t, uint32(1), q.NumTokens.Count)
	})

	t.Run("private supply answers only minters", func(t *testing.T) {
		r := newTestRegistry(t, InstantiateMsg{})
		mintToken(t, r, "NFT1", alice, true)

		_, err := r.Query(ctx, QueryCtx{}, QueryMsg{NumTokens: &NumTokensQuery{}})
		require.Error(t, err)
		_, err = r.Query(ctx, QueryCtx{}, QueryMsg{NumTokens: &NumTokensQuery{Viewer: util.ToPointer(alice)}})
		require.Error(t, err)

		q, err := r.Query(ctx, QueryCtx{}, QueryMsg{NumTokens: &NumTokensQuery{Viewer: util.ToPointer(admin)}})
		require.NoError(t, err)
		assert.Equal(t, uint32(1), q.NumTokens.Count)
	})
}

func TestQueryTokens(t *testing.T) {
	ctx := context.Background()
	qc := QueryCtx{Height: 100, Time: 1_000_000}

	t.Run("lists in mint order", func(t *testing.T) {
		r := newTestRegistry(t, InstantiateMsg{OwnerIsPublic: true})
		mintToken(t, r, "NFT3", alice, true)
		mintToken(t, r, "NFT1", alice, true)
		mintToken(t, r, "NFT2", alice, true)

		q, err := r.Query(ctx, qc, QueryMsg{Tokens: &TokensQuery{Owner: alice}})
		require.NoError(t, err)
		assert.Equal(t, []persist.TokenID{"NFT3", "NFT1", "NFT2"}, q.Tokens.Tokens)
	})

	t.Run("private ownership hides the list from strangers", func(t *testing.T) {
		r := newTestRegistry(t, InstantiateMsg{})
		mintToken(t, r, "NFT1", alice, true)

		_, err := r.Query(ctx, qc, QueryMsg{Tokens: &TokensQuery{Owner: alice, Viewer: util.ToPointer(bob)}})
		require.Error(t, err)

		q, err := r.Query(ctx, qc, QueryMsg{Tokens: &TokensQuery{Owner: alice, Viewer: util.ToPointer(alice)}})
		require.NoError(t, err)
		assert.Equal(t, []persist.TokenID{"NFT1"}, q.Tokens.Tokens)
	})

	t.Run("similarly prefixed owners keep separate inventories", func(t *testing.T) {
		r := newTestRegistry(t, InstantiateMsg{OwnerIsPublic: true})
		mintToken(t, r, "NFT1", alice, true)
		mintToken(t, r, "NFT2", alice+":X", true)

		q, err := r.Query(ctx, qc, QueryMsg{Tokens: &TokensQuery{Owner: alice}})
		require.NoError(t, err)
		assert.Equal(t, []persist.TokenID{"NFT1"}, q.Tokens.Tokens)

		q, err = r.Query(ctx, qc, QueryMsg{Tokens: &TokensQuery{Owner: alice + ":X"}})
		require.NoError(t, err)
		assert.Equal(t, []persist.TokenID{"NFT2"}, q.Tokens.Tokens)
	})

	t.Run("an inventory approval opens the list", func(t *testing.T) {
		r := newTestRegistry(t, InstantiateMsg{})
		mintToken(t, r, "NFT1", alice, true)
		_, err := r.Execute(ctx, ctxFor(alice), ExecuteMsg{GrantApproval: &GrantApprovalMsg{
			Spender: bob, Expiration: persist.ExpirationNever(),
		}})
		require.NoError(t, err)

		q, err := r.Query(ctx, qc, QueryMsg{Tokens: &TokensQuery{Owner: alice, Viewer: util.ToPointer(bob)}})
		require.NoError(t, err)
		assert.Equal(t, []persist.TokenID{"NFT1"}, q.Tokens.Tokens)
	})
}

func TestQueryOwnerOf(t *testing.T) {
	ctx := context.Background()
	qc := QueryCtx{Height: 100, Time: 1_000_000}

	t.Run("private ownership rejects strangers", func(t *testing.T) {
		r := newTestRegistry(t, InstantiateMsg{})
		mintToken(t, r, "NFT1", alice, true)

		_, err := r.Query(ctx, qc, QueryMsg{OwnerOf: &OwnerOfQuery{TokenID: "NFT1", Viewer: util.ToPointer(bob)}})
		assert.EqualError(t, err, "You are not authorized to perform this action on token NFT1")

		q, err := r.Query(ctx, qc, QueryMsg{OwnerOf: &OwnerOfQuery{TokenID: "NFT1", Viewer: util.ToPointer(alice)}})
		require.NoError(t, err)
		assert.Equal(t, alice, q.OwnerOf.Owner)
	})

	t.Run("unknown tokens are not found", func(t *testing.T) {
		r := newTestRegistry(t, InstantiateMsg{OwnerIsPublic: true})
		_, err := r.Query(ctx, qc, QueryMsg{OwnerOf: &OwnerOfQuery{TokenID: "NFT1"}})
		assert.EqualError(t, err, "Token ID: NFT1 not found")
	})
}

func TestQueryContractInfo(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t, InstantiateMsg{Name: "sealed vault", Symbol: "SVT", BurnIsEnabled: true})

	q, err := r.Query(ctx, QueryCtx{}, QueryMsg{ContractInfo: &ContractInfoQuery{}})
	require.NoError(t, err)
	assert.Equal(t, "sealed vault", q.ContractInfo.Name)
	assert.Equal(t, "SVT", q.ContractInfo.Symbol)

	q, err = r.Query(ctx, QueryCtx{}, QueryMsg{ContractConfig: &ContractConfigQuery{}})
	require.NoError(t, err)
	assert.True(t, q.ContractConfig.BurnIsEnabled)
	assert.False(t, q.ContractConfig.OwnerIsPublic)
}

func TestQueryTxHistory(t *testing.T) {
	ctx := context.Background()

	r := newTestRegistry(t, InstantiateMsg{BurnIsEnabled: true})
	mintToken(t, r, "NFT1", alice, true)
	_, err := r.Execute(ctx, ctxFor(alice), ExecuteMsg{Transfer: &TransferMsg{Recipient: bob, TokenID: "NFT1", Memo: util.ToPointer("gift")}})
	require.NoError(t, err)
	_, err = r.Execute(ctx, ctxFor(bob), ExecuteMsg{Burn: &BurnMsg{TokenID: "NFT1"}})
	require.NoError(t, err)

	t.Run("newest first", func(t *testing.T) {
		q, err := r.Query(ctx, QueryCtx{}, QueryMsg{TxHistory: &TxHistoryQuery{Address: alice}})
		require.NoError(t, err)
		require.Len(t, q.TxHistory.Txs, 2)
		assert.Equal(t, persist.TxActionTransfer, q.TxHistory.Txs[0].Action)
		assert.Equal(t, persist.TxActionMint, q.TxHistory.Txs[1].Action)
		assert.Equal(t, util.ToPointer("gift"), q.TxHistory.Txs[0].Memo)
	})

	t.Run("scoped to the address", func(t *testing.T) {
		q, err := r.Query(ctx, QueryCtx{}, QueryMsg{TxHistory: &TxHistoryQuery{Address: bob}})
		require.NoError(t, err)
		require.Len(t, q.TxHistory.Txs, 2)
		assert.Equal(t, persist.TxActionBurn, q.TxHistory.Txs[0].Action)
		assert.Equal(t, persist.TxActionTransfer, q.TxHistory.Txs[1].Action)
	})

	t.Run("paginates", func(t *testing.T) {
		q, err := r.Query(ctx, QueryCtx{}, QueryMsg{TxHistory: &TxHistoryQuery{
			Address: alice, PageSize: util.ToPointer(uint32(1)),
		}})
		require.NoError(t, err)
		require.Len(t, q.TxHistory.Txs, 1)
		assert.Equal(t, persist.TxActionTransfer, q.TxHistory.Txs[0].Action)

		q, err = r.Query(ctx, QueryCtx{}, QueryMsg{TxHistory: &TxHistoryQuery{
			Address: alice, Page: util.ToPointer(uint32(1)), PageSize: util.ToPointer(uint32(1)),
		}})
		require.NoError(t, err)
		require.Len(t, q.TxHistory.Txs, 1)
		assert.Equal(t, persist.TxActionMint, q.TxHistory.Txs[0].Action)
	})

	t.Run("empty for an unseen address", func(t *testing.T) {
		q, err := r.Query(ctx, QueryCtx{}, QueryMsg{TxHistory: &TxHistoryQuery{Address: charlie}})
		require.NoError(t, err)
		assert.Empty(t, q.TxHistory.Txs)
	})
}
