package ledger

import (
	"crypto/sha256"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/jgagnon1/blockchain/foundation/blockchain/pow"
)

// zeroHash is the hash value used when a block cannot be serialized.
const zeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// =============================================================================

// Tx represents a transfer of an amount between two parties. Addresses are
// opaque strings; there is no account or balance model behind them.
type Tx struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

// Block represents a group of transactions sealed into the chain. Index is
// 1 based, Timestamp is epoch seconds in UTC, Seal is the value found by
// the proof of work and PrevHash is the content hash of the predecessor.
type Block struct {
	Index        uint64 `json:"index"`
	Timestamp    int64  `json:"timestamp"`
	Transactions []Tx   `json:"transactions"`
	Seal         uint64 `json:"seal"`
	PrevHash     string `json:"previous_hash"`
}

// Chain is the ordered sequence of blocks, genesis first.
type Chain []Block

// =============================================================================

// Hash returns a unique string for the full content of the block. Any
// change to any field produces a different hash, and the same block value
// hashes identically before and after a trip through the wire format.
func Hash(block Block) string {
	data, err := json.Marshal(block)
	if err != nil {
		return zeroHash
	}

	hash := sha256.Sum256(data)
	return hexutil.Encode(hash[:])
}

// copyBlock returns a copy of the block backed by its own transactions
// array. Blocks move between the ledger and its callers in both
// directions, and the two sides must never share mutable memory.
func copyBlock(block Block) Block {
	trans := make([]Tx, len(block.Transactions))
	copy(trans, block.Transactions)
	block.Transactions = trans

	return block
}

// Validate reports whether every block in the chain carries its
// predecessor's content hash and a seal accepted by the work problem
// chained to the predecessor's seal. A single block chain is valid.
func Validate(chain Chain) bool {
	for i := 1; i < len(chain); i++ {
		prev := chain[i-1]
		curr := chain[i]

		if Hash(prev) != curr.PrevHash {
			return false
		}

		// The operands here are the reverse of the order sealing uses.
		// The work predicate is a product, so both directions agree.
		if !pow.Accepts(curr.Seal, prev.Seal) {
			return false
		}
	}

	return true
}
