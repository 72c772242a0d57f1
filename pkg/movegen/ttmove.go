package movegen

import "github.com/chizhovvadim/chesscore/pkg/chess"

// VerifyTTMove reports whether a move read back from a transposition table
// entry can actually be played in pos. A stored move is only ever tagged by
// pkg/tt's truncated 16-bit key and can in principle belong to an unrelated
// position that happens to collide on that tag, so the read path must never
// trust it blindly: it must first pass PseudoLegal (spec.md §4.6) and then
// Legal before the caller plays it or returns it as a principal variation
// move.
func VerifyTTMove(pos *chess.Position, m chess.Move) bool {
	return m != chess.MoveNone && pos.PseudoLegal(m) && pos.Legal(m)
}
