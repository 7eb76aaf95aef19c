package nodegrp

import (
	"github.com/jgagnon1/blockchain/foundation/blockchain/ledger"
	"github.com/jgagnon1/blockchain/foundation/blockchain/peer"
)

// newTx represents a transaction submitted by a client.
type newTx struct {
	Sender    string `json:"sender" validate:"required"`
	Recipient string `json:"recipient" validate:"required"`
	Amount    uint64 `json:"amount"`
}

// txAck tells the client which block will carry the transaction.
type txAck struct {
	Status     string `json:"status"`
	BlockIndex uint64 `json:"block_index"`
}

// registerNode is the body of a registration, sent both by clients
// introducing a peer and by peers announcing themselves.
type registerNode struct {
	Address string `json:"address" validate:"required,hostname_port"`
}

// registerAck reports the outcome of a registration and the size of the
// known peer set after it.
type registerAck struct {
	Status    string `json:"status"`
	PeerIndex int    `json:"peer_index"`
}

// nodeList is the set of peers this node knows.
type nodeList struct {
	Nodes []peer.Peer `json:"nodes"`
	Total int         `json:"total"`
}

// resolveResult reports the consensus outcome and the resulting chain.
type resolveResult struct {
	Message string       `json:"message"`
	Chain   ledger.Chain `json:"chain"`
}

// nodeInfo identifies this node to clients and peers.
type nodeInfo struct {
	NodeID  string `json:"node_id"`
	Address string `json:"address"`
}
