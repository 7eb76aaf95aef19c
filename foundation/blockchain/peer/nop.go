package peer

import (
	"errors"

	"github.com/jgagnon1/blockchain/foundation/blockchain/ledger"
)

// ErrDisabled is returned by registration when the node runs without peer
// networking.
var ErrDisabled = errors.New("peer networking is disabled")

// Nop is the registry for a node running alone. It knows no peers and
// refuses registrations.
type Nop struct{}

// Register reports that peer networking is disabled.
func (Nop) Register(p Peer) (bool, error) {
	return false, ErrDisabled
}

// KnownPeers returns no peers.
func (Nop) KnownPeers() []Peer {
	return nil
}

// FetchLedgers returns no chains.
func (Nop) FetchLedgers() []ledger.Chain {
	return nil
}
