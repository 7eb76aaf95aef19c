// Package state is the core API for the node and implements all the
// business rules and processing.
package state

import (
	"sync"

	"github.com/jgagnon1/blockchain/foundation/blockchain/ledger"
	"github.com/jgagnon1/blockchain/foundation/blockchain/peer"
)

// EventHandler defines a function that is called when events occur in the
// processing of the node's operations.
type EventHandler func(v string, args ...any)

// Registry interface represents the behavior required to be implemented
// by any package providing support for tracking remote peers, announcing
// this node to them and pulling their ledgers.
type Registry interface {
	Register(p peer.Peer) (bool, error)
	KnownPeers() []peer.Peer
	FetchLedgers() []ledger.Chain
}

// =============================================================================

// Config represents the configuration required to start the node.
type Config struct {
	NodeID    string
	Host      string
	Registry  Registry
	EvHandler EventHandler
}

// State manages the node's ledger and its view of the network. The ledger
// is guarded by a single readers-writer lock: submitting, mining and
// resolving take it exclusively, reads take it shared. Nothing mutates
// state in the background; every operation is request triggered.
type State struct {
	mu        sync.RWMutex
	nodeID    string
	host      string
	evHandler EventHandler

	ledger   *ledger.Ledger
	registry Registry
}

// New constructs a new state for ledger management.
func New(cfg Config) *State {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	// Nodes without peer networking run against the nop registry.
	registry := cfg.Registry
	if registry == nil {
		registry = peer.Nop{}
	}

	return &State{
		nodeID:    cfg.NodeID,
		host:      cfg.Host,
		evHandler: ev,

		ledger:   ledger.New(),
		registry: registry,
	}
}
