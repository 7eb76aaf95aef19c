package pow_test

import (
	"testing"

	"github.com/jgagnon1/blockchain/foundation/blockchain/pow"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Accepts(t *testing.T) {
	type table struct {
		name         string
		previousSeal uint64
		candidate    uint64
		accepts      bool
	}

	tt := []table{
		{name: "known-good", previousSeal: 1, candidate: 31214, accepts: true},
		{name: "known-bad", previousSeal: 1, candidate: 31213, accepts: false},
		{name: "swapped-known-good", previousSeal: 31214, candidate: 1, accepts: true},
		{name: "zero-candidate", previousSeal: 1, candidate: 0, accepts: false},
	}

	t.Log("Given the need to validate seals against the work problem.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen checking candidate %d against previous seal %d.", testID, tst.candidate, tst.previousSeal)
			{
				f := func(t *testing.T) {
					got := pow.Accepts(tst.previousSeal, tst.candidate)
					if got != tst.accepts {
						t.Fatalf("\t%s\tTest %d:\tShould get %v from Accepts: got %v", failed, testID, tst.accepts, got)
					}
					t.Logf("\t%s\tTest %d:\tShould get %v from Accepts.", success, testID, tst.accepts)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_Seal(t *testing.T) {
	type table struct {
		name         string
		previousSeal uint64
		seal         uint64
	}

	tt := []table{
		{name: "from-one", previousSeal: 1, seal: 31214},
		{name: "from-genesis", previousSeal: 100, seal: 3297},
		{name: "back-to-hundred", previousSeal: 3297, seal: 100},
	}

	t.Log("Given the need to find the seal for a new block.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen sealing on top of previous seal %d.", testID, tst.previousSeal)
			{
				f := func(t *testing.T) {
					seal := pow.Seal(tst.previousSeal)
					if seal != tst.seal {
						t.Fatalf("\t%s\tTest %d:\tShould find seal %d: got %d", failed, testID, tst.seal, seal)
					}
					t.Logf("\t%s\tTest %d:\tShould find seal %d.", success, testID, tst.seal)

					if !pow.Accepts(tst.previousSeal, seal) {
						t.Fatalf("\t%s\tTest %d:\tShould have the found seal accepted.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould have the found seal accepted.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
