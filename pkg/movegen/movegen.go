// Package movegen is a reference pseudo-legal/legal move generator for
// pkg/chess. It exists only to make the position core testable (perft, the
// PseudoLegal fallback for non-NORMAL moves, the legal-move count in
// Position.String) — it is not a tuned production generator, and
// pkg/chess never imports it. Grounded on common/movegen.go's
// GenerateMoves/GenerateLegalMoves shape, adapted to pkg/chess's
// Position/StateInfo model.
package movegen

import (
	"github.com/chizhovvadim/chesscore/pkg/chess"
)

// Generator implements chess.MoveGenerator by enumerating legal moves on
// demand. It carries no state of its own.
type Generator struct{}

var _ chess.MoveGenerator = Generator{}

// Contains reports whether m is a legal move in pos.
func (Generator) Contains(pos *chess.Position, m chess.Move) bool {
	for _, lm := range GenerateLegalMoves(pos) {
		if lm == m {
			return true
		}
	}
	return false
}

// CountLegalMoves returns len(GenerateLegalMoves(pos)).
func (Generator) CountLegalMoves(pos *chess.Position) int {
	return len(GenerateLegalMoves(pos))
}

// GenerateLegalMoves returns every legal move available to the side to
// move in pos, by filtering GeneratePseudoLegal through pos.Legal.
func GenerateLegalMoves(pos *chess.Position) []chess.Move {
	var pseudo = GeneratePseudoLegal(pos)
	var legal = make([]chess.Move, 0, len(pseudo))
	for _, m := range pseudo {
		if pos.Legal(m) {
			legal = append(legal, m)
		}
	}
	return legal
}

var promotionTypes = [4]chess.PieceType{chess.Queen, chess.Rook, chess.Bishop, chess.Knight}

// GeneratePseudoLegal returns every pseudo-legal move for the side to move:
// correct piece movement and capture rules, but not yet filtered for
// leaving the mover's own king in check. Grounded on
// common/movegen.go's GenerateMoves.
func GeneratePseudoLegal(pos *chess.Position) []chess.Move {
	var moves = make([]chess.Move, 0, 64)
	var us = pos.SideToMove()
	var them = us.Opp()
	var own = pos.PiecesByColor(us)
	var occ = pos.Occupied()

	moves = generatePawnMoves(pos, moves, us, them)

	for _, pt := range [4]chess.PieceType{chess.Knight, chess.Bishop, chess.Rook, chess.Queen} {
		for fromBB := pos.Pieces(us, pt); fromBB != 0; {
			var from = chess.PopLsb(&fromBB)
			for toBB := chess.AttacksFrom(pt, from, occ) &^ own; toBB != 0; {
				var to = chess.PopLsb(&toBB)
				moves = append(moves, chess.MakeMove(from, to))
			}
		}
	}

	var ksq = pos.KingSquare(us)
	for toBB := chess.KingAttacks[ksq] &^ own; toBB != 0; {
		var to = chess.PopLsb(&toBB)
		moves = append(moves, chess.MakeMove(ksq, to))
	}

	moves = generateCastling(pos, moves, us, occ)

	return moves
}

func generatePawnMoves(pos *chess.Position, moves []chess.Move, us, them chess.Color) []chess.Move {
	var push = chess.PawnPush(us)
	var oppPieces = pos.PiecesByColor(them)

	for fromBB := pos.Pieces(us, chess.Pawn); fromBB != 0; {
		var from = chess.PopLsb(&fromBB)
		var promoRank = from.RelativeRank(us) == chess.Rank7

		var one = chess.Square(int(from) + int(push))
		if pos.Empty(one) {
			moves = appendPawnMove(moves, us, from, one, promoRank)
			var two = chess.Square(int(from) + 2*int(push))
			if from.RelativeRank(us) == chess.Rank2 && pos.Empty(two) {
				moves = append(moves, chess.MakeMove(from, two))
			}
		}

		for toBB := chess.PawnAttacksFrom(from, us) & oppPieces; toBB != 0; {
			var to = chess.PopLsb(&toBB)
			moves = appendPawnMove(moves, us, from, to, promoRank)
		}

		if ep := pos.EpSquare(); ep != chess.SquareNone {
			if chess.PawnAttacksFrom(from, us)&chess.SquareBB(ep) != 0 {
				moves = append(moves, chess.MakeEnPassant(from, ep))
			}
		}
	}
	return moves
}

func appendPawnMove(moves []chess.Move, us chess.Color, from, to chess.Square, promoRank bool) []chess.Move {
	if promoRank {
		for _, pt := range promotionTypes {
			moves = append(moves, chess.MakePromotion(from, to, pt))
		}
		return moves
	}
	return append(moves, chess.MakeMove(from, to))
}

func generateCastling(pos *chess.Position, moves []chess.Move, us chess.Color, occ chess.Bitboard) []chess.Move {
	if pos.Checkers() != 0 {
		return moves
	}
	var ksq = pos.KingSquare(us)
	for _, cr := range [2]chess.CastlingRights{chess.KingSideRight(us), chess.QueenSideRight(us)} {
		if !pos.CanCastle(cr) || pos.CastlingImpeded(cr) {
			continue
		}
		var rfrom = pos.CastlingRookSquare(cr)
		moves = append(moves, chess.MakeCastling(ksq, rfrom))
	}
	return moves
}
