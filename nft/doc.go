/*
Package nft contains a non-divisible non-fungible token contract. The
contract tracks token ownership, per-owner balances, single-delegate and
blanket operator approvals and the swap ledger. Tokens are identified by
monotonically growing integers allocated at mint; identifiers of burned or
swapped tokens are never reused. Every state-changing method either applies
all of its storage writes or FAULTs and leaves the state untouched.

Token recipients that are deployed contracts take part in transfers and
mints: the contract calls their onNFTReceived(from, to, tokenId, data)
method and treats anything except true as a refusal reverting the operation.

# Contract notifications

Transfer notification. This notification is produced when a token changes
its owner: on transfer, on mint (with empty sender) and on burn or swap
(with empty receiver).

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: tokenId
	    type: Integer

Approval notification. This notification is produced when a single-delegate
approval for a token is set or dropped. The flag is passed as the "true" or
"false" string to keep at most three natively-indexed fields in the event.

	Approval:
	  - name: owner
	    type: Hash160
	  - name: delegate
	    type: Hash160
	  - name: tokenId
	    type: Integer
	  - name: enabled
	    type: String

ApprovalForAll notification. This notification is produced when an owner
grants or revokes the blanket approval of an operator. The flag is encoded
the same way as in Approval.

	ApprovalForAll:
	  - name: owner
	    type: Hash160
	  - name: operator
	    type: Hash160
	  - name: enabled
	    type: String

Swap notification. This notification is produced when an account surrenders
all of its tokens through the swap extension.

	Swap:
	  - name: account
	    type: Hash160
	  - name: value
	    type: Integer
*/
package nft
