package tests

import (
	"path"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/nft-contract/common"
	"github.com/nspcc-dev/nft-contract/nft"
	"github.com/stretchr/testify/require"
)

const (
	nftPath     = "../nft"
	nftRecvPath = "../internal/testcontracts/nftrecv"

	collectionName    = "Test Tokens"
	collectionSymbol  = "TST"
	collectionBaseURL = "https://nft.example.com"
)

func newNFTInvokerWithType(t *testing.T, metadataType int64) *neotest.ContractInvoker {
	e := newExecutor(t)
	ctr := neotest.CompileFile(t, e.CommitteeHash, nftPath, path.Join(nftPath, "config.yml"))

	args := make([]interface{}, 4)
	args[0] = collectionName
	args[1] = collectionSymbol
	args[2] = collectionBaseURL
	args[3] = metadataType
	e.DeployContract(t, ctr, args)

	return e.CommitteeInvoker(ctr.Hash)
}

func newNFTInvoker(t *testing.T) *neotest.ContractInvoker {
	return newNFTInvokerWithType(t, int64(nft.MetadataURL))
}

func urlMeta(url string) []interface{} {
	return []interface{}{int64(nft.MetadataURL), url, []interface{}{}}
}

// checkBalance asserts both the tracked balance and the size of the tokensOf
// index for the account.
func checkBalance(t *testing.T, c *neotest.ContractInvoker, acc util.Uint160, expected int64) {
	c.Invoke(t, expected, "balance", acc)

	s, err := c.TestInvoke(t, "tokensOf", acc)
	require.NoError(t, err)
	iter := s.Pop().Value().(*storage.Iterator)
	require.Len(t, iteratorToArray(iter), int(expected))
}

func TestNFTGeneric(t *testing.T) {
	c := newNFTInvoker(t)

	c.Invoke(t, collectionSymbol, "symbol")
	c.Invoke(t, 0, "decimals")
	c.Invoke(t, 0, "totalSupply")
	c.Invoke(t, common.Version, "version")
	c.Invoke(t, stackitem.NewArray([]stackitem.Item{
		stackitem.Make("mint"),
		stackitem.Make("burn"),
		stackitem.Make("swap"),
	}), "extensions")

	s, err := c.TestInvoke(t, "metaInfo")
	require.NoError(t, err)
	info, ok := s.Pop().Item().Value().([]stackitem.MapElement)
	require.True(t, ok)
	require.Len(t, info, 4)

	fields := make(map[string]stackitem.Item, len(info))
	for i := range info {
		k, err := stackitem.ToString(info[i].Key)
		require.NoError(t, err)
		fields[k] = info[i].Value
	}
	require.Equal(t, stackitem.Make(collectionName), fields["name"])
	require.Equal(t, stackitem.Make(collectionSymbol), fields["symbol"])
	require.Equal(t, stackitem.Make(collectionBaseURL), fields["baseURL"])
	require.Equal(t, stackitem.Make(int64(nft.MetadataURL)), fields["metadataType"])
}

func TestNFTMint(t *testing.T) {
	c := newNFTInvoker(t)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)
	owner := acc.ScriptHash()

	// Nothing is tracked for the account yet.
	c.Invoke(t, stackitem.Null{}, "balance", owner)
	c.Invoke(t, stackitem.Null{}, "owner", 0)

	h := cAcc.Invoke(t, 0, "mint", owner, urlMeta("token/0"), nil)
	aer := cAcc.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "Transfer", aer.Events[0].Name)
	ev := aer.Events[0].Item.Value().([]stackitem.Item)
	require.Equal(t, stackitem.Null{}, ev[0])
	require.Equal(t, stackitem.Make(owner), ev[1])
	require.Equal(t, stackitem.Make(0), ev[2])

	c.Invoke(t, owner.BytesBE(), "owner", 0)
	c.Invoke(t, 1, "totalSupply")
	checkBalance(t, c, owner, 1)

	// IDs grow monotonically.
	cAcc.Invoke(t, 1, "mint", owner, urlMeta("token/1"), nil)
	c.Invoke(t, 2, "totalSupply")
	checkBalance(t, c, owner, 2)
}

func TestNFTMetadata(t *testing.T) {
	c := newNFTInvoker(t)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	c.InvokeFail(t, nft.ErrNotFound, "metadata", 0)

	cAcc.Invoke(t, 0, "mint", acc.ScriptHash(), urlMeta("token/0"), nil)

	s, err := c.TestInvoke(t, "metadata", 0)
	require.NoError(t, err)
	meta := s.Pop().Item().Value().([]stackitem.Item)
	require.Len(t, meta, 3)
	require.Equal(t, stackitem.Make(int64(nft.MetadataURL)), meta[0])
	require.Equal(t, stackitem.Make("token/0"), meta[1])
	require.Empty(t, meta[2].Value().([]stackitem.Item))

	// Payload kind must match the collection settings.
	cAcc.InvokeFail(t, nft.ErrInvalidMetadata, "mint", acc.ScriptHash(),
		[]interface{}{int64(nft.MetadataIPFS), "QmToken", []interface{}{}}, nil)
	cAcc.InvokeFail(t, nft.ErrInvalidMetadata, "mint", acc.ScriptHash(),
		[]interface{}{int64(nft.MetadataURL), "", []interface{}{}}, nil)

	t.Run("key-value pairs", func(t *testing.T) {
		c := newNFTInvokerWithType(t, int64(nft.MetadataPairs))
		acc := c.NewAccount(t)
		cAcc := c.WithSigners(acc)

		pairs := []interface{}{
			[]interface{}{"creator", "alice"},
			[]interface{}{"edition", "1"},
		}
		cAcc.Invoke(t, 0, "mint", acc.ScriptHash(),
			[]interface{}{int64(nft.MetadataPairs), "", pairs}, nil)

		s, err := c.TestInvoke(t, "metadata", 0)
		require.NoError(t, err)
		meta := s.Pop().Item().Value().([]stackitem.Item)
		require.Equal(t, stackitem.Make(int64(nft.MetadataPairs)), meta[0])
		got := meta[2].Value().([]stackitem.Item)
		require.Len(t, got, 2)
		require.Equal(t, stackitem.Make("creator"), got[0].Value().([]stackitem.Item)[0])
		require.Equal(t, stackitem.Make("alice"), got[0].Value().([]stackitem.Item)[1])

		// The scalar representation is not allowed for pairs.
		cAcc.InvokeFail(t, nft.ErrInvalidMetadata, "mint", acc.ScriptHash(),
			[]interface{}{int64(nft.MetadataPairs), "creator=alice", []interface{}{}}, nil)
	})

	t.Run("object ID", func(t *testing.T) {
		c := newNFTInvokerWithType(t, int64(nft.MetadataObjectID))
		acc := c.NewAccount(t)
		cAcc := c.WithSigners(acc)

		objID := base58.Encode(randomBytes(32))
		cAcc.Invoke(t, 0, "mint", acc.ScriptHash(),
			[]interface{}{int64(nft.MetadataObjectID), objID, []interface{}{}}, nil)

		s, err := c.TestInvoke(t, "metadata", 0)
		require.NoError(t, err)
		meta := s.Pop().Item().Value().([]stackitem.Item)
		require.Equal(t, stackitem.Make(objID), meta[1])
	})
}

func TestNFTTransfer(t *testing.T) {
	c := newNFTInvoker(t)

	accA := c.NewAccount(t)
	accB := c.NewAccount(t)
	accC := c.NewAccount(t)
	cAccA := c.WithSigners(accA)
	cAccC := c.WithSigners(accC)
	a, b := accA.ScriptHash(), accB.ScriptHash()

	cAccA.Invoke(t, 0, "mint", a, urlMeta("token/0"), nil)

	cAccA.InvokeFail(t, nft.ErrNotFound, "transfer", a, b, 42, nil)
	cAccA.InvokeFail(t, nft.ErrOwnerMismatch, "transfer", b, a, 0, nil)
	// A stranger has no proof of right over the token.
	cAccC.InvokeFail(t, nft.ErrNotAuthorized, "transfer", a, b, 0, nil)
	c.Invoke(t, a.BytesBE(), "owner", 0)

	h := cAccA.Invoke(t, stackitem.Null{}, "transfer", a, b, 0, nil)
	aer := cAccA.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "Transfer", aer.Events[0].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.Make(a), stackitem.Make(b), stackitem.Make(0),
	}), aer.Events[0].Item)

	c.Invoke(t, b.BytesBE(), "owner", 0)
	checkBalance(t, c, a, 0)
	checkBalance(t, c, b, 1)

	// The sender no longer has any standing.
	cAccA.InvokeFail(t, nft.ErrNotAuthorized, "transfer", b, a, 0, nil)
}

func TestNFTTransferToSelf(t *testing.T) {
	c := newNFTInvoker(t)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)
	owner := acc.ScriptHash()
	delegate := c.NewAccount(t)

	cAcc.Invoke(t, 0, "mint", owner, urlMeta("token/0"), nil)
	cAcc.Invoke(t, stackitem.Null{}, "approve", delegate.ScriptHash(), 0, true)
	c.Invoke(t, delegate.ScriptHash().BytesBE(), "getApproved", 0)

	// Self-transfer is permitted, still notifies and still drops the
	// delegate approval.
	h := cAcc.Invoke(t, stackitem.Null{}, "transfer", owner, owner, 0, nil)
	aer := cAcc.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "Transfer", aer.Events[0].Name)

	c.Invoke(t, owner.BytesBE(), "owner", 0)
	checkBalance(t, c, owner, 1)
	c.Invoke(t, stackitem.Null{}, "getApproved", 0)
}

func TestNFTApprove(t *testing.T) {
	c := newNFTInvoker(t)

	accA := c.NewAccount(t)
	accB := c.NewAccount(t)
	accD := c.NewAccount(t)
	cAccA := c.WithSigners(accA)
	cAccD := c.WithSigners(accD)
	a, b, d := accA.ScriptHash(), accB.ScriptHash(), accD.ScriptHash()

	cAccA.Invoke(t, 0, "mint", a, urlMeta("token/0"), nil)

	cAccA.InvokeFail(t, nft.ErrNotFound, "approve", d, 42, true)
	c.InvokeFail(t, nft.ErrNotFound, "getApproved", 42)
	c.Invoke(t, false, "isApproved", 42, d)

	// Only the owner (or an operator) may manage approvals.
	cAccD.InvokeFail(t, nft.ErrNotAuthorized, "approve", d, 0, true)

	h := cAccA.Invoke(t, stackitem.Null{}, "approve", d, 0, true)
	aer := cAccA.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "Approval", aer.Events[0].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.Make(a), stackitem.Make(d), stackitem.Make(0), stackitem.Make("true"),
	}), aer.Events[0].Item)

	c.Invoke(t, d.BytesBE(), "getApproved", 0)
	c.Invoke(t, true, "isApproved", 0, d)
	c.Invoke(t, false, "isApproved", 0, b)

	// The delegate manages the one token but cannot grant approvals.
	cAccD.InvokeFail(t, nft.ErrNotAuthorized, "approve", b, 0, true)

	// The delegate moves the token, the approval is dropped by the
	// transfer.
	cAccD.Invoke(t, stackitem.Null{}, "transfer", a, b, 0, nil)
	c.Invoke(t, b.BytesBE(), "owner", 0)
	c.Invoke(t, stackitem.Null{}, "getApproved", 0)
	c.Invoke(t, false, "isApproved", 0, d)

	// Dropping an unset approval is a no-op success.
	cAccB := c.WithSigners(accB)
	h = cAccB.Invoke(t, stackitem.Null{}, "approve", d, 0, false)
	aer = cAccB.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.Make(b), stackitem.Make(d), stackitem.Make(0), stackitem.Make("false"),
	}), aer.Events[0].Item)
	c.Invoke(t, stackitem.Null{}, "getApproved", 0)
}

func TestNFTApproveAll(t *testing.T) {
	c := newNFTInvoker(t)

	accA := c.NewAccount(t)
	accB := c.NewAccount(t)
	accOp := c.NewAccount(t)
	cAccA := c.WithSigners(accA)
	cAccOp := c.WithSigners(accOp)
	a, b, op := accA.ScriptHash(), accB.ScriptHash(), accOp.ScriptHash()

	cAccA.Invoke(t, 0, "mint", a, urlMeta("token/0"), nil)
	cAccA.Invoke(t, 1, "mint", a, urlMeta("token/1"), nil)

	// Only the owner may manage its operator set.
	cAccOp.InvokeFail(t, common.ErrOwnerWitnessFailed, "approveAll", a, op, true)
	c.Invoke(t, false, "isApprovedForAll", a, op)

	h := cAccA.Invoke(t, stackitem.Null{}, "approveAll", a, op, true)
	aer := cAccA.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "ApprovalForAll", aer.Events[0].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.Make(a), stackitem.Make(op), stackitem.Make("true"),
	}), aer.Events[0].Item)

	c.Invoke(t, true, "isApprovedForAll", a, op)

	// Granting twice keeps the relation, it is idempotent.
	cAccA.Invoke(t, stackitem.Null{}, "approveAll", a, op, true)
	c.Invoke(t, true, "isApprovedForAll", a, op)

	// An operator manages single-token approvals and transfers.
	cAccOp.Invoke(t, stackitem.Null{}, "approve", op, 0, true)
	c.Invoke(t, op.BytesBE(), "getApproved", 0)
	cAccOp.Invoke(t, stackitem.Null{}, "transfer", a, b, 0, nil)
	c.Invoke(t, b.BytesBE(), "owner", 0)

	// The relation is per-owner, not per-token: it survives transfers of
	// individual tokens and does not follow them.
	c.Invoke(t, true, "isApprovedForAll", a, op)
	c.Invoke(t, false, "isApprovedForAll", b, op)
	cAccOp.InvokeFail(t, nft.ErrNotAuthorized, "transfer", b, a, 0, nil)

	// Revocation is explicit and idempotent as well.
	cAccA.Invoke(t, stackitem.Null{}, "approveAll", a, op, false)
	cAccA.Invoke(t, stackitem.Null{}, "approveAll", a, op, false)
	c.Invoke(t, false, "isApprovedForAll", a, op)
	cAccOp.InvokeFail(t, nft.ErrNotAuthorized, "transfer", a, b, 1, nil)
}

func TestNFTBurn(t *testing.T) {
	c := newNFTInvoker(t)

	accA := c.NewAccount(t)
	accD := c.NewAccount(t)
	accOp := c.NewAccount(t)
	cAccA := c.WithSigners(accA)
	cAccD := c.WithSigners(accD)
	cAccOp := c.WithSigners(accOp)
	a := accA.ScriptHash()

	c.InvokeFail(t, nft.ErrNotFound, "burn", 0)

	cAccA.Invoke(t, 0, "mint", a, urlMeta("token/0"), nil)
	cAccA.Invoke(t, 1, "mint", a, urlMeta("token/1"), nil)
	cAccA.Invoke(t, 2, "mint", a, urlMeta("token/2"), nil)

	cAccD.InvokeFail(t, nft.ErrNotAuthorized, "burn", 0)

	h := cAccA.Invoke(t, stackitem.Null{}, "burn", 0)
	aer := cAccA.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "Transfer", aer.Events[0].Name)
	ev := aer.Events[0].Item.Value().([]stackitem.Item)
	require.Equal(t, stackitem.Make(a), ev[0])
	require.Equal(t, stackitem.Null{}, ev[1])
	require.Equal(t, stackitem.Make(0), ev[2])

	c.Invoke(t, stackitem.Null{}, "owner", 0)
	c.InvokeFail(t, nft.ErrNotFound, "metadata", 0)
	c.Invoke(t, 2, "totalSupply")
	checkBalance(t, c, a, 2)

	// The identifier of a burned token is never reissued.
	cAccA.Invoke(t, 3, "mint", a, urlMeta("token/3"), nil)

	// A delegate may burn its token.
	cAccA.Invoke(t, stackitem.Null{}, "approve", accD.ScriptHash(), 1, true)
	cAccD.Invoke(t, stackitem.Null{}, "burn", 1)
	c.Invoke(t, stackitem.Null{}, "owner", 1)

	// An operator may burn any of the owner's tokens.
	cAccA.Invoke(t, stackitem.Null{}, "approveAll", a, accOp.ScriptHash(), true)
	cAccOp.Invoke(t, stackitem.Null{}, "burn", 2)
	c.Invoke(t, stackitem.Null{}, "owner", 2)

	c.Invoke(t, 1, "totalSupply")
	checkBalance(t, c, a, 1)
}

func TestNFTSwap(t *testing.T) {
	c := newNFTInvoker(t)

	accA := c.NewAccount(t)
	accB := c.NewAccount(t)
	cAccA := c.WithSigners(accA)
	cAccB := c.WithSigners(accB)
	a, b := accA.ScriptHash(), accB.ScriptHash()

	cAccA.Invoke(t, 0, "mint", a, urlMeta("token/0"), nil)
	cAccA.Invoke(t, 1, "mint", a, urlMeta("token/1"), nil)
	cAccB.Invoke(t, 2, "mint", b, urlMeta("token/2"), nil)

	c.Invoke(t, 0, "checkSwap", a)

	// Only the account itself may swap.
	cAccB.InvokeFail(t, common.ErrOwnerWitnessFailed, "swap", a)

	h := cAccA.Invoke(t, stackitem.Null{}, "swap", a)
	aer := cAccA.CheckHalt(t, h)
	require.Equal(t, 3, len(aer.Events))
	require.Equal(t, "Transfer", aer.Events[0].Name)
	require.Equal(t, "Transfer", aer.Events[1].Name)
	require.Equal(t, "Swap", aer.Events[2].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.Make(a), stackitem.Make(2),
	}), aer.Events[2].Item)

	// Both tokens are gone, the emptied balance entry is kept.
	c.Invoke(t, stackitem.Null{}, "owner", 0)
	c.Invoke(t, stackitem.Null{}, "owner", 1)
	checkBalance(t, c, a, 0)
	c.Invoke(t, 2, "checkSwap", a)
	c.Invoke(t, 1, "totalSupply")

	// Another account's tokens are not affected.
	c.Invoke(t, b.BytesBE(), "owner", 2)
	checkBalance(t, c, b, 1)
	c.Invoke(t, 0, "checkSwap", b)

	// The record accumulates across swaps and swapped IDs are not reused.
	cAccA.Invoke(t, 3, "mint", a, urlMeta("token/3"), nil)
	cAccA.Invoke(t, stackitem.Null{}, "swap", a)
	c.Invoke(t, 3, "checkSwap", a)

	s, err := c.TestInvoke(t, "swapped")
	require.NoError(t, err)
	ledger, ok := s.Pop().Item().Value().([]stackitem.MapElement)
	require.True(t, ok)
	require.Len(t, ledger, 1)
	key, err := ledger[0].Key.TryBytes()
	require.NoError(t, err)
	require.Equal(t, a.BytesBE(), key)
	require.Equal(t, stackitem.Make(3), ledger[0].Value)
}

func TestNFTReceiver(t *testing.T) {
	e := newExecutor(t)
	ctr := neotest.CompileFile(t, e.CommitteeHash, nftPath, path.Join(nftPath, "config.yml"))
	args := make([]interface{}, 4)
	args[0] = collectionName
	args[1] = collectionSymbol
	args[2] = collectionBaseURL
	args[3] = int64(nft.MetadataURL)
	e.DeployContract(t, ctr, args)

	recv := neotest.CompileFile(t, e.CommitteeHash, nftRecvPath, path.Join(nftRecvPath, "config.yml"))
	e.DeployContract(t, recv, nil)

	c := e.CommitteeInvoker(ctr.Hash)
	cRecv := e.CommitteeInvoker(recv.Hash)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)
	a := acc.ScriptHash()

	cAcc.Invoke(t, 0, "mint", a, urlMeta("token/0"), nil)
	cAcc.Invoke(t, 1, "mint", a, urlMeta("token/1"), nil)

	// An accepting contract takes the token and records the call.
	cAcc.Invoke(t, stackitem.Null{}, "transfer", a, recv.Hash, 0, []byte("greetings"))
	c.Invoke(t, recv.Hash.BytesBE(), "owner", 0)
	checkBalance(t, c, recv.Hash, 1)

	s, err := cRecv.TestInvoke(t, "get")
	require.NoError(t, err)
	call := s.Pop().Item().Value().([]stackitem.Item)
	require.Equal(t, stackitem.Make(a), call[0])
	require.Equal(t, stackitem.Make(recv.Hash), call[1])
	require.Equal(t, stackitem.Make(0), call[2])
	require.Equal(t, stackitem.Make([]byte("greetings")), call[3])

	// A rejecting contract reverts the whole transfer.
	cRecv.Invoke(t, stackitem.Null{}, "setReject", true)
	cAcc.InvokeFail(t, nft.ErrReceiverRejected, "transfer", a, recv.Hash, 1, nil)
	c.Invoke(t, a.BytesBE(), "owner", 1)
	checkBalance(t, c, a, 1)
	checkBalance(t, c, recv.Hash, 1)

	// Mint runs the same confirmation, nothing is created on refusal.
	cAcc.InvokeFail(t, nft.ErrReceiverRejected, "mint", recv.Hash, urlMeta("token/2"), nil)
	c.Invoke(t, 2, "totalSupply")
	c.Invoke(t, stackitem.Null{}, "owner", 2)

	cRecv.Invoke(t, stackitem.Null{}, "setReject", false)
	cAcc.Invoke(t, 2, "mint", recv.Hash, urlMeta("token/2"), nil)
	c.Invoke(t, recv.Hash.BytesBE(), "owner", 2)
	checkBalance(t, c, recv.Hash, 2)
}
