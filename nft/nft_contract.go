package nft

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/neo"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/interop/util"
	"github.com/nspcc-dev/nft-contract/common"
)

type (
	// TokenState is the on-chain record of a single token. A token exists
	// iff its TokenState is stored under prefixToken. Approved is the
	// single-delegate approval, nil when unset; it is dropped on every
	// owner change and on burn.
	TokenState struct {
		// Numeric token identifier, allocated from the mint counter.
		ID int
		// Current owner.
		Owner interop.Hash160
		// Single-delegate approval, nil if not set.
		Approved interop.Hash160
	}

	// TokenMetadata is the payload attached to a token at mint time.
	// Exactly one representation is used depending on Kind: Value keeps
	// URL, IPFS reference or object ID, Pairs keeps the ordered key-value
	// list for MetadataPairs.
	TokenMetadata struct {
		Kind  int
		Value string
		Pairs [][]string
	}
)

// Prefixes used for contract data storage.
const (
	// prefixTokenCounter contains the next token ID to allocate. It only
	// grows, so identifiers of burned and swapped tokens are never reused.
	prefixTokenCounter byte = 0x00
	// prefixTotalSupply contains the number of currently existing tokens.
	prefixTotalSupply byte = 0x01
	// prefixToken contains map from token ID to serialized TokenState.
	prefixToken byte = 0x02
	// prefixBalance contains map from the owner to the number of tokens
	// owned. An entry is created on the first touch and kept (with zero
	// value) after the account empties, which lets balance distinguish
	// accounts the contract has never seen.
	prefixBalance byte = 0x03
	// prefixAccountToken contains map from (owner + token ID) to token ID
	// backing the tokensOf iterator.
	prefixAccountToken byte = 0x04
	// prefixOperator contains map from (owner + operator) to a marker of
	// the blanket operator approval.
	prefixOperator byte = 0x05
	// prefixMetadata contains map from token ID to serialized
	// TokenMetadata.
	prefixMetadata byte = 0x06
	// prefixSwapped contains map from the account to the total number of
	// tokens it surrendered via swap.
	prefixSwapped byte = 0x07
)

// Keys of the collection settings put by _deploy.
const (
	nameKey         = "collectionName"
	symbolKey       = "collectionSymbol"
	baseURLKey      = "collectionBaseURL"
	metadataTypeKey = "collectionMetadataType"
)

// Metadata kinds, the closed set of TokenMetadata.Kind values.
const (
	// MetadataURL is a plain URL string.
	MetadataURL = 0
	// MetadataIPFS is a content-addressed (IPFS) reference.
	MetadataIPFS = 1
	// MetadataObjectID is an opaque object identifier.
	MetadataObjectID = 2
	// MetadataPairs is an ordered list of string key-value pairs.
	MetadataPairs = 3
)

// Error messages thrown by the contract.
const (
	// ErrNotFound is thrown when the addressed token does not exist.
	ErrNotFound = "token not found"
	// ErrOwnerMismatch is thrown by transfer when the declared sender is
	// not the recorded owner.
	ErrOwnerMismatch = "owner mismatch"
	// ErrNotAuthorized is thrown when the invocation is witnessed neither
	// by the owner nor by an approved party.
	ErrNotAuthorized = "not authorized"
	// ErrAlreadyExists is thrown on a token ID collision at mint. The
	// counter alone allocates IDs, so seeing it means broken storage.
	ErrAlreadyExists = "token already exists"
	// ErrReceiverRejected is thrown when the recipient contract declined
	// the incoming token.
	ErrReceiverRejected = "receiver rejected token"
	// ErrInvalidMetadata is thrown when the mint payload does not match
	// the collection's metadata kind.
	ErrInvalidMetadata = "invalid metadata"
)

func _deploy(data interface{}, isUpdate bool) {
	if isUpdate {
		args := data.([]interface{})
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		name         string
		symbol       string
		baseURL      string
		metadataType int
	})

	if len(args.name) == 0 || len(args.symbol) == 0 {
		panic("invalid collection settings")
	}
	if args.metadataType < MetadataURL || args.metadataType > MetadataPairs {
		panic(ErrInvalidMetadata)
	}

	ctx := storage.GetContext()
	storage.Put(ctx, nameKey, args.name)
	storage.Put(ctx, symbolKey, args.symbol)
	if len(args.baseURL) != 0 {
		storage.Put(ctx, baseURLKey, args.baseURL)
	}
	storage.Put(ctx, metadataTypeKey, args.metadataType)
	storage.Put(ctx, []byte{prefixTokenCounter}, 0)
	storage.Put(ctx, []byte{prefixTotalSupply}, 0)

	runtime.Log("nft contract initialized")
}

// Update method updates contract source code and manifest. Can be invoked
// only by committee.
func Update(nef []byte, manifest string, data interface{}) {
	checkCommittee()
	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nef, manifest, common.AppendVersion(data))
	runtime.Log("nft contract updated")
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// Extensions returns the list of optional capabilities the contract
// implements on top of the base token standard.
func Extensions() []string {
	return []string{"mint", "burn", "swap"}
}

// Symbol returns the collection ticker symbol.
func Symbol() string {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, symbolKey).(string)
}

// Decimals returns 0, tokens are not divisible.
func Decimals() int {
	return 0
}

// MetaInfo returns the collection settings: name, symbol, optional base URL
// and the metadata kind used for minting.
func MetaInfo() map[string]interface{} {
	ctx := storage.GetReadOnlyContext()
	info := map[string]interface{}{
		"name":         storage.Get(ctx, nameKey).(string),
		"symbol":       storage.Get(ctx, symbolKey).(string),
		"metadataType": storage.Get(ctx, metadataTypeKey).(int),
	}
	if base := storage.Get(ctx, baseURLKey); base != nil {
		info["baseURL"] = base.(string)
	}
	return info
}

// TotalSupply returns the number of currently existing tokens.
func TotalSupply() int {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, []byte{prefixTotalSupply}).(int)
}

// Metadata returns the payload attached to the specified token at mint time.
func Metadata(tokenID int) TokenMetadata {
	ctx := storage.GetReadOnlyContext()
	data := storage.Get(ctx, metadataKey(tokenID))
	if data == nil {
		panic(ErrNotFound)
	}
	return std.Deserialize(data.([]byte)).(TokenMetadata)
}

// Balance returns the number of tokens owned by the specified account or nil
// if the contract has never tracked it. An account emptied by transfers or
// swap keeps a zero balance entry.
func Balance(owner interop.Hash160) interface{} {
	if !isValid(owner) {
		panic("invalid owner")
	}
	ctx := storage.GetReadOnlyContext()
	raw := storage.Get(ctx, append([]byte{prefixBalance}, owner...))
	if raw == nil {
		return nil
	}
	return raw.(int)
}

// Owner returns the owner of the specified token or nil if the token was
// never minted or no longer exists.
func Owner(tokenID int) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	t, ok := tryGetToken(ctx, tokenID)
	if !ok {
		return nil
	}
	return t.Owner
}

// Tokens returns iterator over IDs of all existing tokens.
func Tokens() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{prefixToken}, storage.ValuesOnly|storage.DeserializeValues|storage.PickField0)
}

// TokensOf returns iterator over IDs of tokens owned by the specified owner.
func TokensOf(owner interop.Hash160) iterator.Iterator {
	if !isValid(owner) {
		panic("invalid owner")
	}
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, append([]byte{prefixAccountToken}, owner...), storage.ValuesOnly)
}

// Transfer passes the token to a new owner. The declared sender must be the
// recorded owner, and the invocation must be witnessed by the owner, by the
// token's delegate or by one of the owner's operators. The single-delegate
// approval is dropped even when from equals to. If the recipient is a
// deployed contract, its onNFTReceived method must confirm acceptance,
// otherwise the whole transfer is reverted.
func Transfer(from, to interop.Hash160, tokenID int, data interface{}) {
	if !isValid(from) {
		panic("invalid owner")
	}
	if !isValid(to) {
		panic("invalid receiver")
	}
	ctx := storage.GetContext()
	t := getToken(ctx, tokenID)
	if !util.Equals(t.Owner, from) {
		panic(ErrOwnerMismatch)
	}
	if !isAuthorized(ctx, t) {
		panic(ErrNotAuthorized)
	}

	t.Owner = to
	t.Approved = nil
	putToken(ctx, t)
	updateBalance(ctx, tokenID, from, -1)
	updateBalance(ctx, tokenID, to, +1)

	postTransfer(from, to, tokenID, data)
}

// Approve sets or drops the single-delegate approval for the token. Only the
// owner or an operator may manage it, a delegate cannot grant further
// approvals. Dropping an unset approval is a no-op.
func Approve(delegate interop.Hash160, tokenID int, enabled bool) {
	if !isValid(delegate) {
		panic("invalid delegate")
	}
	ctx := storage.GetContext()
	t := getToken(ctx, tokenID)
	if !isManagedBy(ctx, t.Owner) {
		panic(ErrNotAuthorized)
	}

	if enabled {
		t.Approved = delegate
	} else {
		t.Approved = nil
	}
	putToken(ctx, t)

	runtime.Notify("Approval", t.Owner, delegate, tokenID, boolString(enabled))
}

// ApproveAll sets or drops the blanket approval allowing the operator to
// manage all of the owner's tokens. Requires the owner's witness. The
// relation survives transfers of individual tokens and is idempotent both
// ways.
func ApproveAll(owner, operator interop.Hash160, enabled bool) {
	if !isValid(owner) {
		panic("invalid owner")
	}
	if !isValid(operator) {
		panic("invalid operator")
	}
	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()
	key := operatorKey(owner, operator)
	if enabled {
		storage.Put(ctx, key, true)
	} else {
		storage.Delete(ctx, key)
	}

	runtime.Notify("ApprovalForAll", owner, operator, boolString(enabled))
}

// GetApproved returns the delegate approved for the specified token or nil
// if there is none.
func GetApproved(tokenID int) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	t := getToken(ctx, tokenID)
	return t.Approved
}

// IsApproved returns true iff the specified address is the delegate approved
// for the token. Returns false for unknown tokens.
func IsApproved(tokenID int, address interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	t, ok := tryGetToken(ctx, tokenID)
	if !ok || t.Approved == nil {
		return false
	}
	return util.Equals(t.Approved, address)
}

// IsApprovedForAll returns true iff the operator holds the blanket approval
// of the owner.
func IsApprovedForAll(owner, operator interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, operatorKey(owner, operator)) != nil
}

// Mint creates a new token owned by to with the given metadata attached and
// returns its ID. IDs grow monotonically and are never reused. The receiver
// confirmation works the same way as in Transfer.
func Mint(to interop.Hash160, meta TokenMetadata, data interface{}) int {
	if !isValid(to) {
		panic("invalid receiver")
	}
	ctx := storage.GetContext()
	checkMetadata(ctx, meta)

	id := storage.Get(ctx, []byte{prefixTokenCounter}).(int)
	storage.Put(ctx, []byte{prefixTokenCounter}, id+1)

	tKey := tokenKey(id)
	if storage.Get(ctx, tKey) != nil {
		panic(ErrAlreadyExists)
	}

	t := TokenState{
		ID:    id,
		Owner: to,
	}
	common.SetSerialized(ctx, tKey, t)
	common.SetSerialized(ctx, metadataKey(id), meta)
	updateBalance(ctx, id, to, +1)
	updateTotalSupply(ctx, +1)

	postTransfer(nil, to, id, data)
	return id
}

// Burn destroys the token permanently. The invocation must be witnessed the
// same way as for Transfer. The token ID is not reused afterwards.
func Burn(tokenID int) {
	ctx := storage.GetContext()
	t := getToken(ctx, tokenID)
	if !isAuthorized(ctx, t) {
		panic(ErrNotAuthorized)
	}
	burnToken(ctx, t)
}

// Swap burns every token currently owned by the account and adds the burned
// count to the account's swap record. Requires the account's witness. No
// receiver confirmations are run, there is no recipient. Operator approvals
// of the account are left untouched.
func Swap(account interop.Hash160) {
	if !isValid(account) {
		panic("invalid owner")
	}
	common.CheckOwnerWitness(account)

	ctx := storage.GetContext()
	var ids []int
	it := storage.Find(ctx, append([]byte{prefixAccountToken}, account...), storage.ValuesOnly)
	for iterator.Next(it) {
		ids = append(ids, iterator.Value(it).(int))
	}
	for i := 0; i < len(ids); i++ {
		burnToken(ctx, getToken(ctx, ids[i]))
	}

	key := append([]byte{prefixSwapped}, account...)
	total := len(ids)
	if raw := storage.Get(ctx, key); raw != nil {
		total += raw.(int)
	}
	storage.Put(ctx, key, total)

	runtime.Notify("Swap", account, len(ids))
}

// CheckSwap returns the accumulated number of tokens the account surrendered
// via swap, 0 if it never swapped.
func CheckSwap(account interop.Hash160) int {
	if !isValid(account) {
		panic("invalid owner")
	}
	ctx := storage.GetReadOnlyContext()
	raw := storage.Get(ctx, append([]byte{prefixSwapped}, account...))
	if raw == nil {
		return 0
	}
	return raw.(int)
}

// Swapped returns the whole swap ledger as a map from the account to the
// accumulated swapped count.
func Swapped() map[string]int {
	ctx := storage.GetReadOnlyContext()
	res := map[string]int{}
	it := storage.Find(ctx, []byte{prefixSwapped}, storage.RemovePrefix)
	for iterator.Next(it) {
		kv := iterator.Value(it).([]interface{})
		res[string(kv[0].([]byte))] = kv[1].(int)
	}
	return res
}

// burnToken removes the token together with its metadata and index entry and
// sends the Transfer notification with the empty receiver.
func burnToken(ctx storage.Context, t TokenState) {
	storage.Delete(ctx, tokenKey(t.ID))
	storage.Delete(ctx, metadataKey(t.ID))
	updateBalance(ctx, t.ID, t.Owner, -1)
	updateTotalSupply(ctx, -1)
	runtime.Notify("Transfer", t.Owner, interop.Hash160(nil), t.ID)
}

// postTransfer sends the Transfer notification and asks the recipient
// contract, if there is one, to confirm the incoming token. Any answer
// except true aborts the invocation, reverting the transfer.
func postTransfer(from, to interop.Hash160, tokenID int, data interface{}) {
	runtime.Notify("Transfer", from, to, tokenID)
	if management.GetContract(to) != nil {
		ok := contract.Call(to, "onNFTReceived", contract.All, from, to, tokenID, data).(bool)
		if !ok {
			panic(ErrReceiverRejected)
		}
	}
}

// isAuthorized returns true iff the invocation is witnessed by the token
// owner, by the token's delegate or by one of the owner's operators. It is
// the single authorization predicate behind Transfer and Burn.
func isAuthorized(ctx storage.Context, t TokenState) bool {
	if t.Approved != nil && isWitnessed(t.Approved) {
		return true
	}
	return isManagedBy(ctx, t.Owner)
}

// isManagedBy returns true iff the invocation is witnessed by the owner or
// by one of the owner's operators. Unlike isAuthorized it ignores the
// single-delegate approval: a delegate manages one token but cannot grant
// approvals.
func isManagedBy(ctx storage.Context, owner interop.Hash160) bool {
	if isWitnessed(owner) {
		return true
	}
	it := storage.Find(ctx, append([]byte{prefixOperator}, owner...), storage.KeysOnly|storage.RemovePrefix)
	for iterator.Next(it) {
		op := iterator.Value(it).([]byte)
		if isWitnessed(interop.Hash160(op)) {
			return true
		}
	}
	return false
}

// isWitnessed checks if the address signed the invocation or is the directly
// calling contract.
func isWitnessed(addr interop.Hash160) bool {
	if runtime.CheckWitness(addr) {
		return true
	}
	return util.Equals(runtime.GetCallingScriptHash(), addr)
}

// updateBalance updates the account's balance and the account-token index.
// Zero balances are kept in storage so that Balance can tell an emptied
// account from a never-seen one.
func updateBalance(ctx storage.Context, tokenID int, acc interop.Hash160, diff int) {
	balanceKey := append([]byte{prefixBalance}, acc...)
	var balance int
	if b := storage.Get(ctx, balanceKey); b != nil {
		balance = b.(int)
	}
	balance += diff
	storage.Put(ctx, balanceKey, balance)

	accountTokenKey := append(append([]byte{prefixAccountToken}, acc...), idBytes(tokenID)...)
	if diff < 0 {
		storage.Delete(ctx, accountTokenKey)
	} else {
		storage.Put(ctx, accountTokenKey, tokenID)
	}
}

// updateTotalSupply adds the specified diff to the total supply.
func updateTotalSupply(ctx storage.Context, diff int) {
	tsKey := []byte{prefixTotalSupply}
	ts := storage.Get(ctx, tsKey).(int)
	storage.Put(ctx, tsKey, ts+diff)
}

// checkMetadata ensures the mint payload belongs to the collection's
// metadata kind and uses the matching representation.
func checkMetadata(ctx storage.Context, meta TokenMetadata) {
	kind := storage.Get(ctx, metadataTypeKey).(int)
	if meta.Kind != kind {
		panic(ErrInvalidMetadata)
	}
	if meta.Kind == MetadataPairs {
		if len(meta.Pairs) == 0 || len(meta.Value) != 0 {
			panic(ErrInvalidMetadata)
		}
		for i := 0; i < len(meta.Pairs); i++ {
			if len(meta.Pairs[i]) != 2 {
				panic(ErrInvalidMetadata)
			}
		}
	} else if len(meta.Value) == 0 || len(meta.Pairs) != 0 {
		panic(ErrInvalidMetadata)
	}
}

// getToken returns the stored token state or throws ErrNotFound.
func getToken(ctx storage.Context, tokenID int) TokenState {
	t, ok := tryGetToken(ctx, tokenID)
	if !ok {
		panic(ErrNotFound)
	}
	return t
}

// tryGetToken returns the stored token state if the token exists.
func tryGetToken(ctx storage.Context, tokenID int) (TokenState, bool) {
	data := storage.Get(ctx, tokenKey(tokenID))
	if data == nil {
		return TokenState{}, false
	}
	return std.Deserialize(data.([]byte)).(TokenState), true
}

// putToken stores the token state.
func putToken(ctx storage.Context, t TokenState) {
	common.SetSerialized(ctx, tokenKey(t.ID), t)
}

func tokenKey(tokenID int) []byte {
	return append([]byte{prefixToken}, idBytes(tokenID)...)
}

func metadataKey(tokenID int) []byte {
	return append([]byte{prefixMetadata}, idBytes(tokenID)...)
}

func operatorKey(owner, operator interop.Hash160) []byte {
	return append(append([]byte{prefixOperator}, owner...), operator...)
}

// idBytes renders the token ID for use in storage keys.
func idBytes(tokenID int) []byte {
	return []byte(std.Itoa(tokenID, 10))
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// isValid returns true if the provided address is a valid Uint160.
func isValid(address interop.Hash160) bool {
	return address != nil && len(address) == interop.Hash160Len
}

// checkCommittee panics if the script container is not signed by the committee.
func checkCommittee() {
	committee := neo.GetCommittee()
	if committee == nil {
		panic("failed to get committee")
	}
	l := len(committee)
	committeeMultisig := contract.CreateMultisigAccount(l-(l-1)/2, committee)
	if committeeMultisig == nil || !runtime.CheckWitness(committeeMultisig) {
		panic("not witnessed by committee")
	}
}
