package state

import (
	"github.com/jgagnon1/blockchain/foundation/blockchain/ledger"
	"github.com/jgagnon1/blockchain/foundation/blockchain/peer"
)

// RegisterPeer adds the specified peer to the known set and announces
// this node to it. A peer already known, including this node itself, is a
// no-op. On announce failure the peer is not retained and the error goes
// back to the caller.
//
// The announce round trip runs outside the ledger guard on purpose: the
// remote counter-announces on a second connection while ours is still
// waiting, and that request must be able to make progress. The registry
// serializes its own set mutations.
func (s *State) RegisterPeer(p peer.Peer) (bool, error) {
	s.evHandler("state: RegisterPeer: started: %s", p.Address)
	defer s.evHandler("state: RegisterPeer: completed: %s", p.Address)

	return s.registry.Register(p)
}

// ResolveConflicts pulls every known peer's chain and adopts the first
// one that is strictly longer than the local chain and fully valid,
// reporting whether a replacement happened. Pending transactions are
// never touched. The fetches run under the exclusive lock, so resolution
// and mining can never interleave.
func (s *State) ResolveConflicts() bool {
	s.evHandler("state: ResolveConflicts: started")
	defer s.evHandler("state: ResolveConflicts: completed")

	s.mu.Lock()
	defer s.mu.Unlock()

	chains := s.registry.FetchLedgers()
	s.evHandler("state: ResolveConflicts: chains[%d] local-height[%d]", len(chains), s.ledger.Len())

	for _, chain := range chains {
		if len(chain) <= s.ledger.Len() {
			continue
		}

		if !ledger.Validate(chain) {
			s.evHandler("state: ResolveConflicts: rejected invalid chain height[%d]", len(chain))
			continue
		}

		s.ledger.Replace(chain)
		s.evHandler("state: ResolveConflicts: REPLACED: height[%d]", len(chain))

		return true
	}

	return false
}
