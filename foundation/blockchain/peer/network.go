package peer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jgagnon1/blockchain/foundation/blockchain/ledger"
)

// Node to node traffic reuses the public routes. There is no separate
// wire protocol between peers.
const (
	registerURL = "http://%s/node/register"
	chainURL    = "http://%s/chain"
)

// defaultTimeout bounds every peer call so an unreachable peer cannot
// stall the node indefinitely.
const defaultTimeout = 5 * time.Second

// =============================================================================

// NetworkConfig represents the configuration required to construct a
// network registry.
type NetworkConfig struct {
	Host      string
	Timeout   time.Duration
	EvHandler func(v string, args ...any)
}

// Network is the HTTP registry of known peers for this node. The set
// serializes its own mutations, so registration never holds a lock across
// a network call.
type Network struct {
	host      string
	set       *PeerSet
	client    http.Client
	evHandler func(v string, args ...any)
}

// NewNetwork constructs a network registry for the node advertised at
// cfg.Host.
func NewNetwork(cfg NetworkConfig) *Network {
	ev := func(v string, args ...any) {}
	if cfg.EvHandler != nil {
		ev = cfg.EvHandler
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Network{
		host:      cfg.Host,
		set:       NewPeerSet(),
		client:    http.Client{Timeout: timeout},
		evHandler: ev,
	}
}

// Register adds the peer to the known set and announces this node to it.
// A peer that is already known, including this node itself, is a no-op.
// If the announce fails the peer is not retained and the error is
// returned to the caller.
func (n *Network) Register(p Peer) (bool, error) {

	// This node never registers itself.
	if p.Match(n.host) {
		return false, nil
	}

	// The peer enters the set before the announce goes out. A counter
	// announce from the remote then lands on the no-op path instead of
	// starting another announce back, which would cycle the two nodes.
	if !n.set.Add(p) {
		n.evHandler("peer: register: already known: %s", p.Address)
		return false, nil
	}

	if err := n.announce(p); err != nil {
		n.set.Remove(p)
		return false, fmt.Errorf("announcing to peer %s: %w", p.Address, err)
	}

	n.evHandler("peer: register: added: %s", p.Address)

	return true, nil
}

// KnownPeers returns the current set of peers, excluding this node.
func (n *Network) KnownPeers() []Peer {
	return n.set.Copy(n.host)
}

// FetchLedgers pulls the full chain from every known peer, one peer at a
// time in set order. Peers that cannot be reached or whose response does
// not decode are dropped from the result.
func (n *Network) FetchLedgers() []ledger.Chain {
	var chains []ledger.Chain

	for _, p := range n.KnownPeers() {
		url := fmt.Sprintf(chainURL, p.Address)

		var chain ledger.Chain
		if err := n.send(http.MethodGet, url, nil, &chain); err != nil {
			n.evHandler("peer: fetch: WARNING: dropping peer %s: %s", p.Address, err)
			continue
		}

		chains = append(chains, chain)
	}

	return chains
}

// =============================================================================

// announce posts this node's address to the remote peer's register route.
func (n *Network) announce(p Peer) error {
	url := fmt.Sprintf(registerURL, p.Address)
	return n.send(http.MethodPost, url, New(n.host), nil)
}

// send is a helper function to send an HTTP request to a peer.
func (n *Network) send(method string, url string, dataSend any, dataRecv any) error {
	var req *http.Request

	switch {
	case dataSend != nil:
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		req, err = http.NewRequest(method, url, bytes.NewReader(data))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

	default:
		var err error
		req, err = http.NewRequest(method, url, nil)
		if err != nil {
			return err
		}
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return errors.New(string(msg))
	}

	if dataRecv != nil {
		if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
			return err
		}
	}

	return nil
}
