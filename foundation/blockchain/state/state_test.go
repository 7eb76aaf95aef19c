package state_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jgagnon1/blockchain/foundation/blockchain/ledger"
	"github.com/jgagnon1/blockchain/foundation/blockchain/peer"
	"github.com/jgagnon1/blockchain/foundation/blockchain/state"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// stubRegistry serves canned chains so consensus can be exercised without
// a network.
type stubRegistry struct {
	chains []ledger.Chain
}

func (r stubRegistry) Register(p peer.Peer) (bool, error) { return false, nil }
func (r stubRegistry) KnownPeers() []peer.Peer            { return nil }
func (r stubRegistry) FetchLedgers() []ledger.Chain       { return r.chains }

// remoteChain builds a valid chain of the specified height by mining on a
// throwaway ledger.
func remoteChain(height int) ledger.Chain {
	l := ledger.New()
	for i := 1; i < height; i++ {
		l.AddTransaction("remote", "remote", uint64(i))
		l.Mine("remote-miner")
	}

	return l.Chain()
}

// =============================================================================

func Test_SubmitAndMine(t *testing.T) {
	t.Log("Given the need to submit transactions and mine them through the node state.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen submitting two transactions and mining.", testID)
		{
			s := state.New(state.Config{
				NodeID: "test-node",
				Host:   "127.0.0.1:8080",
			})

			if idx := s.SubmitTransaction("alice", "bob", 10); idx != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould queue for block 2: got %d", failed, testID, idx)
			}
			t.Logf("\t%s\tTest %d:\tShould queue for block 2.", success, testID)

			s.SubmitTransaction("bob", "carol", 5)

			block := s.MineNewBlock()

			if block.Index != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould seal block 2: got %d", failed, testID, block.Index)
			}
			t.Logf("\t%s\tTest %d:\tShould seal block 2.", success, testID)

			reward := block.Transactions[len(block.Transactions)-1]
			if reward.Sender != "0" || reward.Recipient != "127.0.0.1:8080" || reward.Amount != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould reward this node's address: got %+v", failed, testID, reward)
			}
			t.Logf("\t%s\tTest %d:\tShould reward this node's address.", success, testID)

			if pending := s.RetrievePending(); len(pending) != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould leave the pool empty after mining: got %d", failed, testID, len(pending))
			}
			t.Logf("\t%s\tTest %d:\tShould leave the pool empty after mining.", success, testID)

			chain := s.RetrieveChain()
			if len(chain) != 2 || !ledger.Validate(chain) {
				t.Fatalf("\t%s\tTest %d:\tShould hold a valid two block chain.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould hold a valid two block chain.", success, testID)
		}
	}
}

func Test_ResolveConflicts(t *testing.T) {
	corrupt := remoteChain(3)
	corrupt[1].Seal++

	type table struct {
		name     string
		chains   []ledger.Chain
		localLen int
		replaced bool
		finalLen int
		adopted  int
	}

	tt := []table{
		{name: "no-peers", chains: nil, localLen: 2, replaced: false, finalLen: 2},
		{name: "shorter", chains: []ledger.Chain{remoteChain(1)}, localLen: 2, replaced: false, finalLen: 2},
		{name: "equal-length", chains: []ledger.Chain{remoteChain(2)}, localLen: 2, replaced: false, finalLen: 2},
		{name: "longer-invalid", chains: []ledger.Chain{corrupt}, localLen: 2, replaced: false, finalLen: 2},
		{name: "longer-valid", chains: []ledger.Chain{remoteChain(3)}, localLen: 2, replaced: true, finalLen: 3, adopted: 0},
		{name: "first-qualifying-wins", chains: []ledger.Chain{remoteChain(2), remoteChain(4)}, localLen: 1, replaced: true, finalLen: 2, adopted: 0},
		{name: "skips-invalid-adopts-next", chains: []ledger.Chain{corrupt, remoteChain(3)}, localLen: 1, replaced: true, finalLen: 3, adopted: 1},
	}

	t.Log("Given the need to resolve conflicts against peer chains.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen resolving the %s case.", testID, tst.name)
			{
				f := func(t *testing.T) {
					s := state.New(state.Config{
						NodeID:   "test-node",
						Host:     "127.0.0.1:8080",
						Registry: stubRegistry{chains: tst.chains},
					})

					for i := 1; i < tst.localLen; i++ {
						s.MineNewBlock()
					}
					s.SubmitTransaction("alice", "bob", 10)

					before := s.RetrieveChain()

					replaced := s.ResolveConflicts()
					if replaced != tst.replaced {
						t.Fatalf("\t%s\tTest %d:\tShould report replaced %v: got %v", failed, testID, tst.replaced, replaced)
					}
					t.Logf("\t%s\tTest %d:\tShould report replaced %v.", success, testID, tst.replaced)

					chain := s.RetrieveChain()
					if len(chain) != tst.finalLen {
						t.Fatalf("\t%s\tTest %d:\tShould end with %d blocks: got %d", failed, testID, tst.finalLen, len(chain))
					}
					t.Logf("\t%s\tTest %d:\tShould end with %d blocks.", success, testID, tst.finalLen)

					if !tst.replaced && !reflect.DeepEqual(chain, before) {
						t.Fatalf("\t%s\tTest %d:\tShould leave the local chain untouched.", failed, testID)
					}
					if tst.replaced && !reflect.DeepEqual(chain, tst.chains[tst.adopted]) {
						t.Fatalf("\t%s\tTest %d:\tShould hold the first qualifying chain.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould hold the expected chain.", success, testID)

					if pending := s.RetrievePending(); len(pending) != 1 {
						t.Fatalf("\t%s\tTest %d:\tShould never touch pending transactions: got %d", failed, testID, len(pending))
					}
					t.Logf("\t%s\tTest %d:\tShould never touch pending transactions.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_RegisterPeerDisabled(t *testing.T) {
	t.Log("Given the need to refuse registrations when networking is off.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen registering against the nop registry.", testID)
		{
			s := state.New(state.Config{
				NodeID: "test-node",
				Host:   "127.0.0.1:8080",
			})

			added, err := s.RegisterPeer(peer.New("127.0.0.1:8081"))
			if !errors.Is(err, peer.ErrDisabled) {
				t.Fatalf("\t%s\tTest %d:\tShould get ErrDisabled: got %v", failed, testID, err)
			}
			if added {
				t.Fatalf("\t%s\tTest %d:\tShould not report the peer as added.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get ErrDisabled.", success, testID)

			if peers := s.RetrieveKnownPeers(); len(peers) != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould know no peers: got %v", failed, testID, peers)
			}
			t.Logf("\t%s\tTest %d:\tShould know no peers.", success, testID)
		}
	}
}
