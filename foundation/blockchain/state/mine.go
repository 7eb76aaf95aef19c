package state

import (
	"github.com/jgagnon1/blockchain/foundation/blockchain/ledger"
)

// SubmitTransaction queues a transaction in the pending pool and returns
// the index of the block that will carry it once mined.
func (s *State) SubmitTransaction(sender string, recipient string, amount uint64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.ledger.AddTransaction(sender, recipient, amount)
	s.evHandler("state: SubmitTransaction: queued for block[%d]: %s -> %s amount[%d]", index, sender, recipient, amount)

	return index
}

// MineNewBlock performs the proof of work over the pending transactions
// and appends the sealed block to the chain. The mining reward goes to
// this node's advertised address. The work runs under the exclusive lock,
// so mining and a chain replacement can never interleave.
func (s *State) MineNewBlock() ledger.Block {
	s.evHandler("state: MineNewBlock: MINING: started")
	defer s.evHandler("state: MineNewBlock: MINING: completed")

	s.mu.Lock()
	defer s.mu.Unlock()

	block := s.ledger.Mine(s.host)
	s.evHandler("state: MineNewBlock: MINING: sealed block[%d] seal[%d] txs[%d]", block.Index, block.Seal, len(block.Transactions))

	return block
}
