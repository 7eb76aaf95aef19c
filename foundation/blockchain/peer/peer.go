// Package peer maintains the set of known peers and the HTTP registry
// used to announce this node to them and pull their ledgers.
package peer

import (
	"sync"
)

// Peer represents information about a node in the network. The JSON shape
// doubles as the wire body of a registration announce.
type Peer struct {
	Address string `json:"address"`
}

// New constructs a peer from its host:port address.
func New(address string) Peer {
	return Peer{
		Address: address,
	}
}

// Match validates if the specified address matches this peer.
func (p Peer) Match(address string) bool {
	return p.Address == address
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of known peers.
type PeerSet struct {
	mu  sync.RWMutex
	set map[Peer]struct{}
}

// NewPeerSet constructs a new set to manage node peer information.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		set: make(map[Peer]struct{}),
	}
}

// Add adds a new peer to the set. It reports whether the peer was not
// already present.
func (ps *PeerSet) Add(peer Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	_, exists := ps.set[peer]
	if !exists {
		ps.set[peer] = struct{}{}
		return true
	}

	return false
}

// Remove removes a peer from the set.
func (ps *PeerSet) Remove(peer Peer) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	delete(ps.set, peer)
}

// Copy returns a list of the known peers, excluding the specified address.
func (ps *PeerSet) Copy(address string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	var peers []Peer
	for peer := range ps.set {
		if !peer.Match(address) {
			peers = append(peers, peer)
		}
	}

	return peers
}
