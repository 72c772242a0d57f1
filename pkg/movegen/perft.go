package movegen

import "github.com/chizhovvadim/chesscore/pkg/chess"

// Perft counts leaf nodes of the legal-move tree rooted at pos to the given
// depth, exercising DoMove/UndoMove the way a real search would. Grounded
// on common/perft_test.go's Perft.
func Perft(pos *chess.Position, depth int) int64 {
	if depth == 0 {
		return 1
	}

	var moves = GenerateLegalMoves(pos)
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, m := range moves {
		var gives = pos.GivesCheck(m)
		pos.DoMove(m, gives)
		nodes += Perft(pos, depth-1)
		pos.UndoMove(m)
	}
	return nodes
}
