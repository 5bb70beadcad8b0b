// Package nft contains RPC wrappers for NFT Token contract.
package nft

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// NftTokenMetadata is a contract-specific nft.TokenMetadata type used by its methods.
type NftTokenMetadata struct {
	Kind  *big.Int
	Value string
	Pairs [][]string
}

// NftCollectionInfo is the decoded result of the metaInfo method.
type NftCollectionInfo struct {
	Name         string
	Symbol       string
	BaseURL      string
	MetadataType *big.Int
}

// TransferEvent represents "Transfer" event emitted by the contract. From is
// zero for mints, To is zero for burns (including swaps).
type TransferEvent struct {
	From    util.Uint160
	To      util.Uint160
	TokenID *big.Int
}

// ApprovalEvent represents "Approval" event emitted by the contract. Enabled
// is the literal "true" or "false" string.
type ApprovalEvent struct {
	Owner    util.Uint160
	Delegate util.Uint160
	TokenID  *big.Int
	Enabled  string
}

// ApprovalForAllEvent represents "ApprovalForAll" event emitted by the
// contract. Enabled is the literal "true" or "false" string.
type ApprovalForAllEvent struct {
	Owner    util.Uint160
	Operator util.Uint160
	Enabled  string
}

// SwapEvent represents "Swap" event emitted by the contract.
type SwapEvent struct {
	Account util.Uint160
	Value   *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Balance invokes `balance` method of contract. The boolean return is false
// when the contract has never tracked the account.
func (c *ContractReader) Balance(owner util.Uint160) (*big.Int, bool, error) {
	itm, err := unwrap.Item(c.invoker.Call(c.hash, "balance", owner))
	if err != nil {
		return nil, false, err
	}
	if _, ok := itm.(stackitem.Null); ok {
		return nil, false, nil
	}
	v, err := itm.TryInteger()
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// CheckSwap invokes `checkSwap` method of contract.
func (c *ContractReader) CheckSwap(account util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "checkSwap", account))
}

// Decimals invokes `decimals` method of contract.
func (c *ContractReader) Decimals() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "decimals"))
}

// Extensions invokes `extensions` method of contract.
func (c *ContractReader) Extensions() ([]string, error) {
	return unwrap.ArrayOfUTF8Strings(c.invoker.Call(c.hash, "extensions"))
}

// GetApproved invokes `getApproved` method of contract. The boolean return is
// false when the token has no delegate approved.
func (c *ContractReader) GetApproved(tokenID *big.Int) (util.Uint160, bool, error) {
	return c.optionalHash160("getApproved", tokenID)
}

// IsApproved invokes `isApproved` method of contract.
func (c *ContractReader) IsApproved(tokenID *big.Int, address util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isApproved", tokenID, address))
}

// IsApprovedForAll invokes `isApprovedForAll` method of contract.
func (c *ContractReader) IsApprovedForAll(owner util.Uint160, operator util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isApprovedForAll", owner, operator))
}

// MetaInfo invokes `metaInfo` method of contract.
func (c *ContractReader) MetaInfo() (*NftCollectionInfo, error) {
	itm, err := unwrap.Item(c.invoker.Call(c.hash, "metaInfo"))
	if err != nil {
		return nil, err
	}
	m, ok := itm.Value().([]stackitem.MapElement)
	if !ok {
		return nil, errors.New("not a map")
	}
	var res = new(NftCollectionInfo)
	for i := range m {
		k, err := itemToString(m[i].Key)
		if err != nil {
			return nil, fmt.Errorf("map key %d: %w", i, err)
		}
		switch k {
		case "name":
			res.Name, err = itemToString(m[i].Value)
		case "symbol":
			res.Symbol, err = itemToString(m[i].Value)
		case "baseURL":
			res.BaseURL, err = itemToString(m[i].Value)
		case "metadataType":
			res.MetadataType, err = m[i].Value.TryInteger()
		default:
			err = errors.New("unexpected key")
		}
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", k, err)
		}
	}
	return res, nil
}

// Metadata invokes `metadata` method of contract.
func (c *ContractReader) Metadata(tokenID *big.Int) (*NftTokenMetadata, error) {
	return itemToNftTokenMetadata(unwrap.Item(c.invoker.Call(c.hash, "metadata", tokenID)))
}

// Owner invokes `owner` method of contract. The boolean return is false when
// the token was never minted or no longer exists.
func (c *ContractReader) Owner(tokenID *big.Int) (util.Uint160, bool, error) {
	return c.optionalHash160("owner", tokenID)
}

// Swapped invokes `swapped` method of contract.
func (c *ContractReader) Swapped() (map[util.Uint160]*big.Int, error) {
	itm, err := unwrap.Item(c.invoker.Call(c.hash, "swapped"))
	if err != nil {
		return nil, err
	}
	m, ok := itm.Value().([]stackitem.MapElement)
	if !ok {
		return nil, errors.New("not a map")
	}
	res := make(map[util.Uint160]*big.Int, len(m))
	for i := range m {
		b, err := m[i].Key.TryBytes()
		if err != nil {
			return nil, fmt.Errorf("map key %d: %w", i, err)
		}
		acc, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return nil, fmt.Errorf("map key %d: %w", i, err)
		}
		res[acc], err = m[i].Value.TryInteger()
		if err != nil {
			return nil, fmt.Errorf("map value %d: %w", i, err)
		}
	}
	return res, nil
}

// Symbol invokes `symbol` method of contract.
func (c *ContractReader) Symbol() (string, error) {
	return unwrap.UTF8String(c.invoker.Call(c.hash, "symbol"))
}

// Tokens invokes `tokens` method of contract.
func (c *ContractReader) Tokens() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "tokens"))
}

// TokensExpanded is similar to Tokens (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) TokensExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "tokens", _numOfIteratorItems))
}

// TokensOf invokes `tokensOf` method of contract.
func (c *ContractReader) TokensOf(owner util.Uint160) (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "tokensOf", owner))
}

// TokensOfExpanded is similar to TokensOf (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) TokensOfExpanded(owner util.Uint160, _numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "tokensOf", _numOfIteratorItems, owner))
}

// TotalSupply invokes `totalSupply` method of contract.
func (c *ContractReader) TotalSupply() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "totalSupply"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

func (c *ContractReader) optionalHash160(method string, tokenID *big.Int) (util.Uint160, bool, error) {
	itm, err := unwrap.Item(c.invoker.Call(c.hash, method, tokenID))
	if err != nil {
		return util.Uint160{}, false, err
	}
	if _, ok := itm.(stackitem.Null); ok {
		return util.Uint160{}, false, nil
	}
	b, err := itm.TryBytes()
	if err != nil {
		return util.Uint160{}, false, err
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return util.Uint160{}, false, err
	}
	return u, true, nil
}

// Approve creates a transaction invoking `approve` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Approve(delegate util.Uint160, tokenID *big.Int, enabled bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "approve", delegate, tokenID, enabled)
}

// ApproveTransaction creates a transaction invoking `approve` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ApproveTransaction(delegate util.Uint160, tokenID *big.Int, enabled bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "approve", delegate, tokenID, enabled)
}

// ApproveUnsigned creates a transaction invoking `approve` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ApproveUnsigned(delegate util.Uint160, tokenID *big.Int, enabled bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "approve", nil, delegate, tokenID, enabled)
}

// ApproveAll creates a transaction invoking `approveAll` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ApproveAll(owner util.Uint160, operator util.Uint160, enabled bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "approveAll", owner, operator, enabled)
}

// ApproveAllTransaction creates a transaction invoking `approveAll` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ApproveAllTransaction(owner util.Uint160, operator util.Uint160, enabled bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "approveAll", owner, operator, enabled)
}

// ApproveAllUnsigned creates a transaction invoking `approveAll` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ApproveAllUnsigned(owner util.Uint160, operator util.Uint160, enabled bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "approveAll", nil, owner, operator, enabled)
}

// Burn creates a transaction invoking `burn` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Burn(tokenID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "burn", tokenID)
}

// BurnTransaction creates a transaction invoking `burn` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) BurnTransaction(tokenID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "burn", tokenID)
}

// BurnUnsigned creates a transaction invoking `burn` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) BurnUnsigned(tokenID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "burn", nil, tokenID)
}

// Mint creates a transaction invoking `mint` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Mint(to util.Uint160, meta *NftTokenMetadata, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "mint", to, metaToParam(meta), data)
}

// MintTransaction creates a transaction invoking `mint` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) MintTransaction(to util.Uint160, meta *NftTokenMetadata, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "mint", to, metaToParam(meta), data)
}

// MintUnsigned creates a transaction invoking `mint` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) MintUnsigned(to util.Uint160, meta *NftTokenMetadata, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "mint", nil, to, metaToParam(meta), data)
}

// Swap creates a transaction invoking `swap` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Swap(account util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "swap", account)
}

// SwapTransaction creates a transaction invoking `swap` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SwapTransaction(account util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "swap", account)
}

// SwapUnsigned creates a transaction invoking `swap` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SwapUnsigned(account util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "swap", nil, account)
}

// Transfer creates a transaction invoking `transfer` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Transfer(from util.Uint160, to util.Uint160, tokenID *big.Int, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "transfer", from, to, tokenID, data)
}

// TransferTransaction creates a transaction invoking `transfer` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) TransferTransaction(from util.Uint160, to util.Uint160, tokenID *big.Int, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "transfer", from, to, tokenID, data)
}

// TransferUnsigned creates a transaction invoking `transfer` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) TransferUnsigned(from util.Uint160, to util.Uint160, tokenID *big.Int, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "transfer", nil, from, to, tokenID, data)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(nef []byte, manifest string, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", nef, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(nef []byte, manifest string, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", nef, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(nef []byte, manifest string, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, nef, manifest, data)
}

// metaToParam converts NftTokenMetadata into the positional parameter form
// expected by the contract.
func metaToParam(meta *NftTokenMetadata) []any {
	pairs := make([]any, len(meta.Pairs))
	for i := range meta.Pairs {
		pairs[i] = []any{meta.Pairs[i][0], meta.Pairs[i][1]}
	}
	return []any{meta.Kind, meta.Value, pairs}
}

// itemToNftTokenMetadata converts stack item into *NftTokenMetadata.
func itemToNftTokenMetadata(item stackitem.Item, err error) (*NftTokenMetadata, error) {
	if err != nil {
		return nil, err
	}
	var res = new(NftTokenMetadata)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of NftTokenMetadata from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *NftTokenMetadata) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Kind, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Kind: %w", err)
	}

	index++
	res.Value, err = itemToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Value: %w", err)
	}

	index++
	res.Pairs, err = func(item stackitem.Item) ([][]string, error) {
		arr, ok := item.Value().([]stackitem.Item)
		if !ok {
			return nil, errors.New("not an array")
		}
		res := make([][]string, len(arr))
		for i := range res {
			res[i], err = func(item stackitem.Item) ([]string, error) {
				arr, ok := item.Value().([]stackitem.Item)
				if !ok {
					return nil, errors.New("not an array")
				}
				res := make([]string, len(arr))
				for i := range res {
					res[i], err = itemToString(arr[i])
					if err != nil {
						return nil, fmt.Errorf("item %d: %w", i, err)
					}
				}
				return res, nil
			}(arr[i])
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		return res, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Pairs: %w", err)
	}

	return nil
}

// TransferEventsFromApplicationLog retrieves a set of all emitted events
// with "Transfer" name from the provided [result.ApplicationLog].
func TransferEventsFromApplicationLog(log *result.ApplicationLog) ([]*TransferEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*TransferEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Transfer" {
				continue
			}
			event := new(TransferEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize TransferEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to TransferEvent or
// returns an error if it's not possible to do to so.
func (e *TransferEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.From, err = itemToNullableHash160(arr[index])
	if err != nil {
		return fmt.Errorf("field From: %w", err)
	}

	index++
	e.To, err = itemToNullableHash160(arr[index])
	if err != nil {
		return fmt.Errorf("field To: %w", err)
	}

	index++
	e.TokenID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field TokenID: %w", err)
	}

	return nil
}

// ApprovalEventsFromApplicationLog retrieves a set of all emitted events
// with "Approval" name from the provided [result.ApplicationLog].
func ApprovalEventsFromApplicationLog(log *result.ApplicationLog) ([]*ApprovalEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*ApprovalEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Approval" {
				continue
			}
			event := new(ApprovalEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize ApprovalEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to ApprovalEvent or
// returns an error if it's not possible to do to so.
func (e *ApprovalEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.Owner, err = itemToHash160(arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	index++
	e.Delegate, err = itemToHash160(arr[index])
	if err != nil {
		return fmt.Errorf("field Delegate: %w", err)
	}

	index++
	e.TokenID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field TokenID: %w", err)
	}

	index++
	e.Enabled, err = itemToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Enabled: %w", err)
	}

	return nil
}

// ApprovalForAllEventsFromApplicationLog retrieves a set of all emitted events
// with "ApprovalForAll" name from the provided [result.ApplicationLog].
func ApprovalForAllEventsFromApplicationLog(log *result.ApplicationLog) ([]*ApprovalForAllEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*ApprovalForAllEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "ApprovalForAll" {
				continue
			}
			event := new(ApprovalForAllEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize ApprovalForAllEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to ApprovalForAllEvent or
// returns an error if it's not possible to do to so.
func (e *ApprovalForAllEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.Owner, err = itemToHash160(arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	index++
	e.Operator, err = itemToHash160(arr[index])
	if err != nil {
		return fmt.Errorf("field Operator: %w", err)
	}

	index++
	e.Enabled, err = itemToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Enabled: %w", err)
	}

	return nil
}

// SwapEventsFromApplicationLog retrieves a set of all emitted events
// with "Swap" name from the provided [result.ApplicationLog].
func SwapEventsFromApplicationLog(log *result.ApplicationLog) ([]*SwapEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*SwapEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Swap" {
				continue
			}
			event := new(SwapEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize SwapEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to SwapEvent or
// returns an error if it's not possible to do to so.
func (e *SwapEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.Account, err = itemToHash160(arr[index])
	if err != nil {
		return fmt.Errorf("field Account: %w", err)
	}

	index++
	e.Value, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Value: %w", err)
	}

	return nil
}

func itemToString(item stackitem.Item) (string, error) {
	b, err := item.TryBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.New("not a UTF-8 string")
	}
	return string(b), nil
}

func itemToHash160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(b)
}

// itemToNullableHash160 decodes a Hash160 that may legitimately be null in
// mint and burn notifications, mapping null to the zero hash.
func itemToNullableHash160(item stackitem.Item) (util.Uint160, error) {
	if _, ok := item.(stackitem.Null); ok {
		return util.Uint160{}, nil
	}
	return itemToHash160(item)
}
