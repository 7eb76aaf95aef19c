// Package pow implements the proof of work used to seal blocks into
// the chain.
//
// The work problem is defined over a single product: take the previous
// block's seal multiplied by the candidate value (ordinary unsigned
// integer multiplication, wrapping on overflow), format the product in
// decimal, and hash it with SHA-256. A candidate is accepted when the
// lowercase hex digest ends in "0000". The multiplicative form is
// canonical for this chain: hashing the two seals concatenated instead
// of multiplied yields a network whose blocks this node can never
// validate, and whose nodes can never validate ours. Sealing and
// validation must both go through Accepts.
package pow

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// difficultySuffix is the tail the hex digest must carry for a candidate
// to be accepted. Each extra zero makes sealing ~16x more work.
const difficultySuffix = "0000"

// Seal performs the work of finding a seal for a block whose predecessor
// carries previousSeal. Candidates are scanned linearly from zero, so the
// result is deterministic for a given previousSeal.
func Seal(previousSeal uint64) uint64 {
	var candidate uint64
	for !Accepts(previousSeal, candidate) {
		candidate++
	}

	return candidate
}

// Accepts reports whether the candidate solves the work problem chained
// to previousSeal. The product commutes, so validation may present the
// operands in either order and agree with what sealing produced.
func Accepts(previousSeal uint64, candidate uint64) bool {
	guess := strconv.FormatUint(previousSeal*candidate, 10)
	digest := sha256.Sum256([]byte(guess))

	return strings.HasSuffix(hex.EncodeToString(digest[:]), difficultySuffix)
}
