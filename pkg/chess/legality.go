package chess

// Legal reports whether a pseudo-legal move m leaves the mover's own king
// safe. Grounded on Position::legal; spec.md §4.5.
func (pos *Position) Legal(m Move) bool {
	var us = pos.sideToMove
	var them = us.Opp()
	var from, to = m.From(), m.To()

	if pos.st.CheckersBB != 0 && pos.board[from].TypeOf() != King {
		if MoreThanOne(pos.st.CheckersBB) {
			return false
		}
		var target = Between(Lsb(pos.st.CheckersBB), pos.KingSquare(us)) | pos.st.CheckersBB
		var hit = SquareBB(to)
		if m.Type() == EnPassant {
			hit |= SquareBB(MakeSquare(to.File(), from.Rank()))
		}
		if target&hit == 0 {
			return false
		}
	}

	if m.Type() == EnPassant {
		var ksq = pos.KingSquare(us)
		var capsq = MakeSquare(to.File(), from.Rank())
		var occupied = (pos.byTypeBB[AllPieces] &^ SquareBB(from) &^ SquareBB(capsq)) | SquareBB(to)
		return RookAttacks(ksq, occupied)&pos.Pieces(them, Rook, Queen) == 0 &&
			BishopAttacks(ksq, occupied)&pos.Pieces(them, Bishop, Queen) == 0
	}

	if m.Type() == Castling {
		var rfrom = to
		var kingSide = rfrom > from
		var kto Square
		if kingSide {
			kto = RelativeSquare(us, MakeSquare(FileG, Rank1))
		} else {
			kto = RelativeSquare(us, MakeSquare(FileC, Rank1))
		}
		var occ = pos.byTypeBB[AllPieces] &^ SquareBB(from) &^ SquareBB(rfrom)
		var step Square = 1
		if kto < from {
			step = -1
		}
		for s := from; ; s += step {
			if pos.attackersTo(s, occ)&pos.byColorBB[them] != 0 {
				return false
			}
			if s == kto {
				break
			}
		}
		return true
	}

	if pos.board[from].TypeOf() == King {
		var occ = pos.byTypeBB[AllPieces] &^ SquareBB(from)
		return pos.attackersTo(to, occ)&pos.byColorBB[them] == 0
	}

	return pos.st.BlockersForKing[us]&SquareBB(from) == 0 || Aligned(from, to, pos.KingSquare(us))
}

// PseudoLegal reports whether m could plausibly be made in the current
// position, ignoring whether it leaves the mover's own king in check. Used
// to validate moves read back from an untrusted source (e.g. a
// transposition table entry). Non-NORMAL moves defer to the wired
// MoveGenerator's Contains, exactly as spec.md §4.6 describes (and as the
// Open Question in spec.md §9 permits — explicit checks are only worth
// writing for NORMAL moves here).
func (pos *Position) PseudoLegal(m Move) bool {
	if m.Type() != Normal {
		if pos.generator == nil {
			return false
		}
		return pos.generator.Contains(pos, m)
	}

	var us = pos.sideToMove
	var from, to = m.From(), m.To()
	var pc = pos.board[from]

	if pc == NoPiece || pc.ColorOf() != us {
		return false
	}
	if pos.board[to] != NoPiece && pos.board[to].ColorOf() == us {
		return false
	}

	var pt = pc.TypeOf()
	if pt == Pawn {
		if to.RelativeRank(us) == Rank8 {
			return false // promotions are never encoded as NORMAL
		}
		var push = Square(int(from) + int(PawnPush(us)))
		var doublePush = Square(int(from) + 2*int(PawnPush(us)))
		switch {
		case PawnAttacksFrom(from, us)&SquareBB(to) != 0 && pos.board[to] != NoPiece:
		case to == push && pos.board[to] == NoPiece:
		case to == doublePush && from.RelativeRank(us) == Rank2 && pos.board[to] == NoPiece && pos.board[push] == NoPiece:
		default:
			return false
		}
	} else if AttacksFrom(pt, from, pos.byTypeBB[AllPieces])&SquareBB(to) == 0 {
		return false
	}

	if pos.st.CheckersBB != 0 {
		if pt != King {
			if MoreThanOne(pos.st.CheckersBB) {
				return false
			}
			var checker = Lsb(pos.st.CheckersBB)
			if (Between(checker, pos.KingSquare(us))|pos.st.CheckersBB)&SquareBB(to) == 0 {
				return false
			}
		} else if pos.attackersTo(to, pos.byTypeBB[AllPieces]&^SquareBB(from))&pos.byColorBB[us.Opp()] != 0 {
			return false
		}
	}

	return true
}

// GivesCheck reports whether making m would check the opponent's king,
// using the cached checkSquares/blockersForKing rather than a speculative
// do_move. Grounded on Position::gives_check; spec.md §4.7.
func (pos *Position) GivesCheck(m Move) bool {
	var us = pos.sideToMove
	var them = us.Opp()
	var from, to = m.From(), m.To()
	var pc = pos.board[from]

	if pos.st.CheckSquares[pc.TypeOf()]&SquareBB(to) != 0 {
		return true
	}
	if pos.st.BlockersForKing[them]&SquareBB(from) != 0 && !Aligned(from, to, pos.KingSquare(them)) {
		return true
	}

	switch m.Type() {
	case Normal:
		return false
	case Promotion:
		var occ = (pos.byTypeBB[AllPieces] &^ SquareBB(from)) | SquareBB(to)
		return AttacksFrom(m.PromotionType(), to, occ)&SquareBB(pos.KingSquare(them)) != 0
	case EnPassant:
		var capsq = MakeSquare(to.File(), from.Rank())
		var occ = (pos.byTypeBB[AllPieces] &^ SquareBB(from) &^ SquareBB(capsq)) | SquareBB(to)
		var ksq = pos.KingSquare(them)
		return RookAttacks(ksq, occ)&pos.Pieces(us, Rook, Queen) != 0 ||
			BishopAttacks(ksq, occ)&pos.Pieces(us, Bishop, Queen) != 0
	case Castling:
		var rfrom = to
		var kingSide = rfrom > from
		var kto, rto Square
		if kingSide {
			kto = RelativeSquare(us, MakeSquare(FileG, Rank1))
			rto = RelativeSquare(us, MakeSquare(FileF, Rank1))
		} else {
			kto = RelativeSquare(us, MakeSquare(FileC, Rank1))
			rto = RelativeSquare(us, MakeSquare(FileD, Rank1))
		}
		var occ = (pos.byTypeBB[AllPieces] &^ SquareBB(from) &^ SquareBB(rfrom)) | SquareBB(kto) | SquareBB(rto)
		return RookAttacks(rto, occ)&SquareBB(pos.KingSquare(them)) != 0
	}
	return false
}
