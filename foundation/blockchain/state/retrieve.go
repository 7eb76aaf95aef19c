package state

import (
	"github.com/jgagnon1/blockchain/foundation/blockchain/ledger"
	"github.com/jgagnon1/blockchain/foundation/blockchain/peer"
)

// RetrieveChain returns a copy of the chain from genesis to the latest
// block.
func (s *State) RetrieveChain() ledger.Chain {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.Chain()
}

// RetrievePending returns a copy of the transactions waiting to be mined.
func (s *State) RetrievePending() []ledger.Tx {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.Pending()
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.registry.KnownPeers()
}

// RetrieveHost returns the address this node advertises to peers.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveNodeID returns the unique id minted for this node at startup.
func (s *State) RetrieveNodeID() string {
	return s.nodeID
}
