// Package identity derives the deterministic content-addressed identifiers
// of the hrönir protocol. Every function here is pure: same
// input bytes always yield the same output bytes, with no salt, clock, or
// randomness involved.
package identity

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"lukechampine.com/blake3"
)

// Namespace is the fixed namespace UUID5 identifiers are derived under.
var Namespace = uuid.NameSpaceDNS

// NormalizeText enforces UTF-8 (invalid byte sequences become U+FFFD),
// trims trailing whitespace, and ensures the text ends in exactly one
// newline before it is hashed into a hrönir's content-addressed identifier.
func NormalizeText(text string) string {
	trimmed := strings.TrimRight(strings.ToValidUTF8(text, "�"), " \t\r\n")
	return trimmed + "\n"
}

// HronirID derives the content-addressed identifier of a hrönir's text.
func HronirID(text string) uuid.UUID {
	return uuid.NewSHA1(Namespace, []byte(NormalizeText(text)))
}

// PathID derives the identifier of a narrative edge. predecessor is the
// zero UUID for position 0.
func PathID(position int, predecessor, current uuid.UUID) uuid.UUID {
	canonical := fmt.Sprintf("%d:%s:%s", position, predecessorString(predecessor), current)
	return uuid.NewSHA1(Namespace, []byte(canonical))
}

func predecessorString(predecessor uuid.UUID) string {
	if predecessor == (uuid.UUID{}) {
		return ""
	}
	return predecessor.String()
}

// VoteID derives the identifier of a single persisted vote row. Unlike
// hronir_id and path_id this is not re-derivable by external integrators
// as a protocol identifier; it only needs to be unique and deterministic
// per (token, target, winner, loser), so it reuses the same UUID5
// construction under a distinct canonical string.
func VoteID(votingToken uuid.UUID, targetPosition int, winner, loser uuid.UUID) uuid.UUID {
	canonical := fmt.Sprintf("vote:%s:%d:%s:%s", votingToken, targetPosition, winner, loser)
	return uuid.NewSHA1(Namespace, []byte(canonical))
}

// TxID derives the identifier of a transaction envelope from its
// sequence, voting token and predecessor hash, giving every transaction a
// stable identifier without relying on randomness.
func TxID(sequence int64, votingToken uuid.UUID, prevTxHash []byte) uuid.UUID {
	canonical := fmt.Sprintf("tx:%d:%s:%s", sequence, votingToken, encodeHex(prevTxHash))
	return uuid.NewSHA1(Namespace, []byte(canonical))
}

// MandateID derives the 16-byte mandate identifier for a voting token, as
// BLAKE3(path_uuid ∥ prev_tx_hash) truncated to 16 bytes.
func MandateID(pathUUID uuid.UUID, prevTxHash []byte) []byte {
	h := blake3.New()
	pb := pathUUID
	h.Write(pb[:])
	h.Write(prevTxHash)
	sum := h.Sum(nil)
	return sum[:16]
}
