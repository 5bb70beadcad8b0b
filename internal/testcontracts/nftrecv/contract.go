package nftrecv

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	callKey   = "call"
	rejectKey = "reject"
)

type Call struct {
	From    interop.Hash160
	To      interop.Hash160
	TokenID int
	Data    any
}

// OnNFTReceived records the incoming token or refuses it when the contract
// is switched into rejecting mode.
func OnNFTReceived(from, to interop.Hash160, tokenID int, data any) bool {
	ctx := storage.GetContext()
	if storage.Get(ctx, rejectKey) != nil {
		return false
	}
	storage.Put(ctx, callKey, std.Serialize(Call{
		From:    from,
		To:      to,
		TokenID: tokenID,
		Data:    data,
	}))
	return true
}

// SetReject switches the contract into or out of rejecting mode.
func SetReject(v bool) {
	ctx := storage.GetContext()
	if v {
		storage.Put(ctx, rejectKey, 1)
	} else {
		storage.Delete(ctx, rejectKey)
	}
}

// Get returns the last recorded call.
func Get() Call {
	val := storage.Get(storage.GetReadOnlyContext(), callKey)
	if val == nil {
		return Call{}
	}
	return std.Deserialize(val.([]byte)).(Call)
}

func Verify() bool {
	return true
}
