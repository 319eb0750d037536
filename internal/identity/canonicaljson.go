package identity

import (
	"crypto/sha256"
	"encoding/json"

	"github.com/hronir/engine/internal/models"
)

// txHashView mirrors models.Transaction but omits ContentHash, since the
// hash is computed over everything else. encoding/json always emits struct
// fields in declaration order, so the fields of both view structs are
// declared in ascending order of their JSON keys: the encoding has sorted
// keys. Every field is a scalar, a string, or a slice of a fixed struct —
// never a map — so there is no iteration-order nondeterminism to guard
// against.
type txHashView struct {
	PrevSequence int64          `json:"prev_sequence"`
	PrevTxHash   string         `json:"prev_tx_hash"`
	Sequence     int64          `json:"sequence"`
	TxID         string         `json:"tx_id"`
	Votes        []voteHashView `json:"votes"`
	VotingToken  string         `json:"voting_token"`
}

type voteHashView struct {
	ChosenSide  string `json:"chosen_side"`
	PathA       string `json:"path_a"`
	PathB       string `json:"path_b"`
	Position    int    `json:"position"`
	VoteID      string `json:"vote_id"`
	VotingToken string `json:"voting_token"`
}

// TxContentHash computes the SHA-256 content hash of a transaction over its
// canonical JSON encoding.
func TxContentHash(tx models.Transaction) ([]byte, error) {
	view := txHashView{
		TxID:         tx.TxID.String(),
		Sequence:     tx.Sequence,
		PrevSequence: tx.PrevSequence,
		PrevTxHash:   encodeHex(tx.PrevTxHash),
		VotingToken:  tx.VotingToken.String(),
		Votes:        make([]voteHashView, len(tx.Votes)),
	}
	for i, v := range tx.Votes {
		view.Votes[i] = voteHashView{
			VoteID:      v.VoteID.String(),
			Position:    v.Position,
			VotingToken: v.VotingToken.String(),
			PathA:       v.PathA.String(),
			PathB:       v.PathB.String(),
			ChosenSide:  string(v.ChosenSide),
		}
	}

	b, err := json.Marshal(view)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(b)
	return sum[:], nil
}

func encodeHex(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexdigits[c>>4]
		out[i*2+1] = hexdigits[c&0x0f]
	}
	return string(out)
}

// ZeroHash is the 32-byte zero sentinel used as prev_tx_hash for the first
// transaction in the ledger.
var ZeroHash = make([]byte, 32)
