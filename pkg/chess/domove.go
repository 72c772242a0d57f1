package chess

// castlingSquares returns the king and rook destination squares for a
// castling move encoded as "king captures own rook" (to is rfrom).
func castlingSquares(us Color, from, rfrom Square) (kto, rto Square) {
	if rfrom > from {
		return RelativeSquare(us, MakeSquare(FileG, Rank1)), RelativeSquare(us, MakeSquare(FileF, Rank1))
	}
	return RelativeSquare(us, MakeSquare(FileC, Rank1)), RelativeSquare(us, MakeSquare(FileD, Rank1))
}

// DoMove plays m, pushing a new StateInfo onto the position's owned stack.
// givesCheck should be pos.GivesCheck(m), computed by the caller before the
// board changes (since GivesCheck relies on the pre-move checkSquares
// cache). Grounded on Position::do_move; spec.md §4.4.
func (pos *Position) DoMove(m Move, givesCheck bool) {
	var us = pos.sideToMove
	var them = us.Opp()
	var from, to = m.From(), m.To()
	var pt = pos.board[from].TypeOf()

	var newSt StateInfo
	newSt.PawnKey = pos.st.PawnKey
	newSt.MaterialKey = pos.st.MaterialKey
	newSt.NonPawnMaterial = pos.st.NonPawnMaterial
	newSt.CastlingRights = pos.st.CastlingRights
	newSt.Rule50 = pos.st.Rule50
	newSt.PliesFromNull = pos.st.PliesFromNull
	newSt.EpSquare = pos.st.EpSquare
	newSt.Previous = pos.st

	pos.gamePly++
	newSt.Rule50++
	newSt.PliesFromNull++

	var key = pos.st.Key ^ zobristSide

	var captured Piece
	var capsq Square
	switch m.Type() {
	case EnPassant:
		capsq = MakeSquare(to.File(), from.Rank())
		captured = MakePiece(them, Pawn)
	case Castling:
		captured = NoPiece
	default:
		capsq = to
		captured = pos.board[to]
	}

	if m.Type() == Castling {
		var rfrom = to
		var kto, rto = castlingSquares(us, from, rfrom)
		var kingPiece, rookPiece = pos.board[from], pos.board[rfrom]
		pos.removePiece(from)
		pos.removePiece(rfrom)
		pos.putPiece(kto, kingPiece)
		pos.putPiece(rto, rookPiece)
		key ^= zobristPsq[rookPiece][rfrom] ^ zobristPsq[rookPiece][rto]
		key ^= zobristPsq[kingPiece][from] ^ zobristPsq[kingPiece][kto]
		newSt.CapturedPiece = NoPiece
	} else {
		if captured != NoPiece {
			if captured.TypeOf() == Pawn {
				newSt.PawnKey ^= zobristPsq[captured][capsq]
			} else {
				newSt.NonPawnMaterial[them] -= PieceValue[MG][captured]
			}
			pos.removePiece(capsq)
			key ^= zobristPsq[captured][capsq]
			newSt.MaterialKey ^= zobristPsq[captured][pos.pieceCount[captured]]
			newSt.Rule50 = 0
		}

		var pc = pos.board[from]
		key ^= zobristPsq[pc][from] ^ zobristPsq[pc][to]
		pos.movePiece(from, to)
		newSt.CapturedPiece = captured
	}

	if newSt.EpSquare != SquareNone {
		key ^= zobristEnpassant[newSt.EpSquare.File()]
		newSt.EpSquare = SquareNone
	}

	var cr = pos.castlingRightsMask[from] | pos.castlingRightsMask[to]
	if cr != 0 && newSt.CastlingRights&cr != 0 {
		key ^= zobristCastling[newSt.CastlingRights] ^ zobristCastling[newSt.CastlingRights&^cr]
		newSt.CastlingRights &^= cr
	}

	if pt == Pawn {
		newSt.PawnKey ^= zobristPsq[MakePiece(us, Pawn)][from] ^ zobristPsq[MakePiece(us, Pawn)][to]
		if abs(int(to)-int(from)) == 16 {
			var epSq = Square(int(to) - int(PawnPush(us)))
			if PawnAttacksFrom(epSq, us)&pos.Pieces(them, Pawn) != 0 {
				newSt.EpSquare = epSq
				key ^= zobristEnpassant[epSq.File()]
			}
		}

		if m.Type() == Promotion {
			var pawn = MakePiece(us, Pawn)
			var promoted = MakePiece(us, m.PromotionType())
			pos.removePiece(to)
			pos.putPiece(to, promoted)
			key ^= zobristPsq[pawn][to] ^ zobristPsq[promoted][to]
			newSt.PawnKey ^= zobristPsq[pawn][to]
			newSt.MaterialKey ^= zobristPsq[pawn][pos.pieceCount[pawn]] ^ zobristPsq[promoted][pos.pieceCount[promoted]-1]
			newSt.NonPawnMaterial[us] += PieceValue[MG][promoted]
		}
		newSt.Rule50 = 0
	}

	newSt.Key = key
	pos.sideToMove = them
	if givesCheck {
		newSt.CheckersBB = pos.attackersTo(pos.KingSquare(them), pos.byTypeBB[AllPieces]) & pos.byColorBB[us]
	} else {
		newSt.CheckersBB = 0
	}

	pos.states = append(pos.states, newSt)
	pos.st = &pos.states[len(pos.states)-1]
	pos.setCheckInfo(pos.st)
	pos.updateRepetition()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// updateRepetition walks the StateInfo chain backwards by two plies at a
// time, up to min(rule50, pliesFromNull), looking for a key match. Grounded
// on the repetition bookkeeping at the end of Position::do_move; spec.md
// §4.4 item 12, §4.9.
func (pos *Position) updateRepetition() {
	pos.st.Repetition = 0
	var end = Min(pos.st.Rule50, pos.st.PliesFromNull)
	if end < 4 {
		return
	}
	var sp = pos.st.Previous
	if sp == nil {
		return
	}
	sp = sp.Previous
	for i := 4; i <= end; i += 2 {
		if sp == nil || sp.Previous == nil {
			return
		}
		sp = sp.Previous.Previous
		if sp == nil {
			return
		}
		if sp.Key == pos.st.Key {
			if sp.Repetition != 0 {
				pos.st.Repetition = -i
			} else {
				pos.st.Repetition = i
			}
			return
		}
	}
}

// UndoMove reverses the most recent DoMove, popping the StateInfo stack.
// Grounded on Position::undo_move; spec.md §4.4.
func (pos *Position) UndoMove(m Move) {
	pos.sideToMove = pos.sideToMove.Opp()
	var us = pos.sideToMove
	var from, to = m.From(), m.To()

	if m.Type() == Promotion {
		pos.removePiece(to)
		pos.putPiece(to, MakePiece(us, Pawn))
	}

	if m.Type() == Castling {
		var rfrom = to
		var kto, rto = castlingSquares(us, from, rfrom)
		var kingPiece, rookPiece = pos.board[kto], pos.board[rto]
		pos.removePiece(kto)
		pos.removePiece(rto)
		pos.putPiece(from, kingPiece)
		pos.putPiece(rfrom, rookPiece)
	} else {
		pos.movePiece(to, from)
		if pos.st.CapturedPiece != NoPiece {
			var capsq = to
			if m.Type() == EnPassant {
				capsq = MakeSquare(to.File(), from.Rank())
			}
			pos.putPiece(capsq, pos.st.CapturedPiece)
		}
	}

	pos.gamePly--
	pos.states = pos.states[:len(pos.states)-1]
	pos.st = &pos.states[len(pos.states)-1]
}

// DoNullMove flips the side to move without moving a piece. pliesFromNull
// resets to zero; repetition search never crosses this boundary because
// updateRepetition's walk stops at min(rule50, pliesFromNull). Grounded on
// Position::do_null_move; spec.md §4.4.
func (pos *Position) DoNullMove() {
	var newSt = *pos.st
	newSt.Previous = pos.st
	newSt.Key ^= zobristSide
	if newSt.EpSquare != SquareNone {
		newSt.Key ^= zobristEnpassant[newSt.EpSquare.File()]
		newSt.EpSquare = SquareNone
	}
	newSt.Rule50++
	newSt.PliesFromNull = 0
	newSt.Repetition = 0
	newSt.CapturedPiece = NoPiece

	pos.sideToMove = pos.sideToMove.Opp()
	pos.states = append(pos.states, newSt)
	pos.st = &pos.states[len(pos.states)-1]
	pos.setCheckInfo(pos.st)
}

// UndoNullMove reverses DoNullMove. Grounded on Position::undo_null_move.
func (pos *Position) UndoNullMove() {
	pos.states = pos.states[:len(pos.states)-1]
	pos.st = &pos.states[len(pos.states)-1]
	pos.sideToMove = pos.sideToMove.Opp()
}

// KeyAfter computes the Zobrist key that would result from playing m,
// without mutating the position — used by a search to prefetch a TT
// cluster before committing to do_move. Grounded on Position::key_after.
func (pos *Position) KeyAfter(m Move) Key {
	var from, to = m.From(), m.To()
	var pc = pos.board[from]
	var captured = pos.board[to]
	var key = pos.st.Key ^ zobristSide

	if captured != NoPiece {
		key ^= zobristPsq[captured][to]
	}
	return key ^ zobristPsq[pc][from] ^ zobristPsq[pc][to]
}

// IsDraw reports whether the current position is a draw by repetition
// visible at ply (spec.md §4.9): the position repeats at least once
// strictly after the search root, or it had already occurred twice before.
func (pos *Position) IsDraw(ply int) bool {
	return pos.st.Repetition != 0 && pos.st.Repetition < ply
}

// HasRepeated reports whether any position in the last min(rule50,
// pliesFromNull) plies has a non-zero repetition distance. Grounded on
// Position::has_repeated.
func (pos *Position) HasRepeated() bool {
	var sp = pos.st
	var end = Min(sp.Rule50, sp.PliesFromNull)
	for end >= 4 {
		if sp.Repetition != 0 {
			return true
		}
		if sp.Previous == nil {
			return false
		}
		sp = sp.Previous
		end--
	}
	return false
}
