// Package ledger maintains the append-only chain of sealed blocks and the
// pool of pending transactions waiting to be mined.
package ledger

import (
	"time"

	"github.com/jgagnon1/blockchain/foundation/blockchain/pow"
)

// The genesis block has no predecessor, so its seal and previous hash are
// fixed sentinel values every node agrees on.
const (
	genesisSeal     uint64 = 100
	genesisPrevHash string = "1"
)

// originSender marks a transaction whose amount is minted by mining
// rather than moved between parties. It is never a participant address.
const originSender = "0"

// miningReward is the amount minted to the beneficiary of each new block.
const miningReward uint64 = 1

// =============================================================================

// Ledger owns the chain and the pending pool. It is not safe for
// concurrent use; the state package serializes access to it.
type Ledger struct {
	chain   Chain
	pending []Tx
}

// New constructs a ledger holding only the genesis block.
func New() *Ledger {
	var l Ledger
	l.seal(genesisSeal, genesisPrevHash)

	return &l
}

// AddTransaction queues a transaction in the pending pool and returns the
// index the enclosing block will have once it is mined.
func (l *Ledger) AddTransaction(sender string, recipient string, amount uint64) uint64 {
	l.pending = append(l.pending, Tx{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	})

	return l.lastBlock().Index + 1
}

// Mine performs the work of sealing every pending transaction, plus the
// mining reward for the beneficiary, into a new block on the chain. A
// copy of the sealed block is returned to the caller.
func (l *Ledger) Mine(beneficiary string) Block {
	last := l.lastBlock()
	seal := pow.Seal(last.Seal)

	// The reward joins the pool only after the seal search completes.
	l.pending = append(l.pending, Tx{
		Sender:    originSender,
		Recipient: beneficiary,
		Amount:    miningReward,
	})

	return l.seal(seal, Hash(*last))
}

// Chain returns a copy of the block sequence from genesis to the latest
// block. The copy shares no memory with the ledger, so nothing a caller
// does to it can reach ledger internals.
func (l *Ledger) Chain() Chain {
	chain := make(Chain, len(l.chain))
	for i, block := range l.chain {
		chain[i] = copyBlock(block)
	}

	return chain
}

// Pending returns a copy of the transactions waiting to be mined.
func (l *Ledger) Pending() []Tx {
	trans := make([]Tx, len(l.pending))
	copy(trans, l.pending)

	return trans
}

// Len returns the number of blocks in the chain.
func (l *Ledger) Len() int {
	return len(l.chain)
}

// Replace swaps the whole block sequence for the specified chain. The
// pending pool is left alone; those transactions belong to this node, not
// to any particular chain.
func (l *Ledger) Replace(chain Chain) {
	l.chain = make(Chain, len(chain))
	for i, block := range chain {
		l.chain[i] = copyBlock(block)
	}
}

// =============================================================================

// seal moves every pending transaction into a new block appended to the
// chain. The pool is cleared and the block appended as one step, so no
// transaction can be dropped or mined twice.
func (l *Ledger) seal(seal uint64, prevHash string) Block {
	trans := make([]Tx, len(l.pending))
	copy(trans, l.pending)

	block := Block{
		Index:        uint64(len(l.chain)) + 1,
		Timestamp:    time.Now().UTC().Unix(),
		Transactions: trans,
		Seal:         seal,
		PrevHash:     prevHash,
	}

	l.pending = nil
	l.chain = append(l.chain, block)

	return copyBlock(block)
}

// lastBlock returns a pointer to the most recent block in the chain. A
// ledger with no blocks is corrupted state, not a runtime condition, so
// this panics instead of returning an error.
func (l *Ledger) lastBlock() *Block {
	if len(l.chain) == 0 {
		panic("ledger: chain has no blocks")
	}

	return &l.chain[len(l.chain)-1]
}
