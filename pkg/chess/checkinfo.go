package chess

// attackersTo returns every piece, of either color, that attacks square s
// given the occupancy occ. Grounded on Position::attackers_to in
// original_source/src/position.cpp.
func (pos *Position) attackersTo(s Square, occ Bitboard) Bitboard {
	return (PawnAttacksFrom(s, Black) & pos.Pieces(White, Pawn)) |
		(PawnAttacksFrom(s, White) & pos.Pieces(Black, Pawn)) |
		(KnightAttacks[s] & pos.PiecesByType(Knight)) |
		(RookAttacks(s, occ) & pos.PiecesByType(Rook, Queen)) |
		(BishopAttacks(s, occ) & pos.PiecesByType(Bishop, Queen)) |
		(KingAttacks[s] & pos.PiecesByType(King))
}

// AttackersTo exposes attackersTo to external collaborators (a move
// generator, an evaluator) that need the same pin-free attacker query.
func (pos *Position) AttackersTo(s Square, occ Bitboard) Bitboard {
	return pos.attackersTo(s, occ)
}

// sliderBlockers finds, for the king-ish square s, the pieces that block a
// slider in sliders from attacking s (blockers) and which of those sliders
// is doing the pinning (pinners). Grounded on Position::slider_blockers in
// original_source/src/position.cpp; spec.md §4.3.
func (pos *Position) sliderBlockers(sliders Bitboard, s Square) (blockers, pinners Bitboard) {
	var snipers = ((PseudoAttacks(Rook, s) & pos.PiecesByType(Rook, Queen)) |
		(PseudoAttacks(Bishop, s) & pos.PiecesByType(Bishop, Queen))) & sliders
	var occupied = pos.byTypeBB[AllPieces] &^ snipers

	for sn := snipers; sn != 0; {
		var sniperSq = PopLsb(&sn)
		var b = Between(s, sniperSq) & occupied
		if b != 0 && !MoreThanOne(b) {
			blockers |= b
			if b&pos.byColorBB[pos.board[s].ColorOf()] != 0 {
				pinners |= SquareBB(sniperSq)
			}
		}
	}
	return blockers, pinners
}

// setCheckInfo precomputes blockersForKing/pinners for both kings and, for
// the king of the side about to move's opponent (i.e. the side that just
// moved), the squares from which each piece type delivers a direct check.
// Grounded on Position::set_check_info; spec.md §4.3.
func (pos *Position) setCheckInfo(st *StateInfo) {
	st.BlockersForKing[White], st.Pinners[Black] = pos.sliderBlockers(pos.byColorBB[Black], pos.KingSquare(White))
	st.BlockersForKing[Black], st.Pinners[White] = pos.sliderBlockers(pos.byColorBB[White], pos.KingSquare(Black))

	var us = pos.sideToMove
	var them = us.Opp()
	var ksq = pos.KingSquare(them)
	var occ = pos.byTypeBB[AllPieces]

	st.CheckSquares[Pawn] = PawnAttacksFrom(ksq, them)
	st.CheckSquares[Knight] = KnightAttacks[ksq]
	st.CheckSquares[Bishop] = BishopAttacks(ksq, occ)
	st.CheckSquares[Rook] = RookAttacks(ksq, occ)
	st.CheckSquares[Queen] = st.CheckSquares[Bishop] | st.CheckSquares[Rook]
	st.CheckSquares[King] = 0
}
