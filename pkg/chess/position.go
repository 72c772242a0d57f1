package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// StateInfo holds the per-ply data needed to reverse a do_move: the fields
// an implementer would normally chain through caller-owned linked nodes are
// instead owned by the Position itself, in a slice that plays the role of
// the reversible undo log (see the Design Notes on a vector-backed StateInfo
// stack as an alternative to the pointer-chained original).
type StateInfo struct {
	// Incrementally maintained across do_move/undo_move.
	PawnKey         Key
	MaterialKey     Key
	NonPawnMaterial [ColorNB]Value
	CastlingRights  CastlingRights
	Rule50          int
	PliesFromNull   int
	EpSquare        Square

	// Recomputed every ply by set_check_info / do_move.
	Key             Key
	CheckersBB      Bitboard
	BlockersForKing [ColorNB]Bitboard
	Pinners         [ColorNB]Bitboard
	CheckSquares    [PieceTypeNB]Bitboard
	CapturedPiece   Piece
	Repetition      int

	Previous *StateInfo
}

// MoveGenerator is the external collaborator a Position defers to for
// enumerating and validating non-NORMAL moves (castling/en-passant/
// promotion) in PseudoLegal, and for the legal move count in String. The
// position core never imports a concrete generator; callers that want
// PseudoLegal to work for special moves, or a legal move count in the ASCII
// dump, wire one in via SetMoveGenerator.
type MoveGenerator interface {
	Contains(pos *Position, m Move) bool
	CountLegalMoves(pos *Position) int
}

// Position is the mutable, single-threaded chess position: piece
// placement, side to move, castling state, en-passant target, and the
// StateInfo stack of per-ply incremental data.
type Position struct {
	board      [SquareNB]Piece
	byTypeBB   [PieceTypeNB]Bitboard
	byColorBB  [ColorNB]Bitboard
	pieceCount [PieceNB]int
	pieceList  [PieceNB][16]Square
	index      [SquareNB]int

	castlingRightsMask [SquareNB]CastlingRights
	castlingRookSquare [CastlingRightNB]Square
	castlingPath       [CastlingRightNB]Bitboard

	sideToMove Color
	gamePly    int
	chess960   bool

	states []StateInfo
	st     *StateInfo

	generator MoveGenerator
}

// StartFEN is the standard chess starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// NewPosition returns a Position set to the standard starting array.
func NewPosition() *Position {
	var pos Position
	pos.Set(StartFEN, false)
	return &pos
}

// SetMoveGenerator wires in the external move generator PseudoLegal and
// String use for non-NORMAL moves and legal move counts.
func (pos *Position) SetMoveGenerator(g MoveGenerator) {
	pos.generator = g
}

func (pos *Position) SideToMove() Color       { return pos.sideToMove }
func (pos *Position) GamePly() int            { return pos.gamePly }
func (pos *Position) Chess960() bool          { return pos.chess960 }
func (pos *Position) PieceOn(s Square) Piece  { return pos.board[s] }
func (pos *Position) Checkers() Bitboard      { return pos.st.CheckersBB }
func (pos *Position) EpSquare() Square        { return pos.st.EpSquare }
func (pos *Position) CastlingRights() CastlingRights { return pos.st.CastlingRights }
func (pos *Position) Key() Key                { return pos.st.Key }
func (pos *Position) PawnKey() Key            { return pos.st.PawnKey }
func (pos *Position) MaterialKey() Key        { return pos.st.MaterialKey }
func (pos *Position) Rule50() int             { return pos.st.Rule50 }
func (pos *Position) PliesFromNull() int      { return pos.st.PliesFromNull }
func (pos *Position) Empty(s Square) bool     { return pos.board[s] == NoPiece }

func (pos *Position) KingSquare(c Color) Square {
	return pos.pieceList[MakePiece(c, King)][0]
}

// PiecesByType returns the union bitboard of the given piece types, across
// both colors.
func (pos *Position) PiecesByType(pts ...PieceType) Bitboard {
	var b Bitboard
	for _, pt := range pts {
		b |= pos.byTypeBB[pt]
	}
	return b
}

// Pieces returns the squares occupied by pieces of color c and any of pts.
func (pos *Position) Pieces(c Color, pts ...PieceType) Bitboard {
	return pos.byColorBB[c] & pos.PiecesByType(pts...)
}

func (pos *Position) PiecesByColor(c Color) Bitboard { return pos.byColorBB[c] }
func (pos *Position) Occupied() Bitboard             { return pos.byTypeBB[AllPieces] }

func (pos *Position) CanCastle(cr CastlingRights) bool {
	return pos.st.CastlingRights&cr != 0
}

func (pos *Position) CastlingImpeded(cr CastlingRights) bool {
	return pos.byTypeBB[AllPieces]&pos.castlingPath[cr] != 0
}

func (pos *Position) CastlingRookSquare(cr CastlingRights) Square {
	return pos.castlingRookSquare[cr]
}

func (pos *Position) putPiece(s Square, pc Piece) {
	pos.board[s] = pc
	pos.byTypeBB[AllPieces] |= SquareBB(s)
	pos.byTypeBB[pc.TypeOf()] |= SquareBB(s)
	pos.byColorBB[pc.ColorOf()] |= SquareBB(s)
	pos.index[s] = pos.pieceCount[pc]
	pos.pieceList[pc][pos.index[s]] = s
	pos.pieceCount[pc]++
}

func (pos *Position) removePiece(s Square) {
	pc := pos.board[s]
	pos.byTypeBB[AllPieces] &^= SquareBB(s)
	pos.byTypeBB[pc.TypeOf()] &^= SquareBB(s)
	pos.byColorBB[pc.ColorOf()] &^= SquareBB(s)

	var lastSquare = pos.pieceList[pc][pos.pieceCount[pc]-1]
	var idx = pos.index[s]
	pos.pieceList[pc][idx] = lastSquare
	pos.index[lastSquare] = idx
	pos.pieceList[pc][pos.pieceCount[pc]-1] = SquareNone
	pos.pieceCount[pc]--
	pos.board[s] = NoPiece
}

func (pos *Position) movePiece(from, to Square) {
	pc := pos.board[from]
	var fromTo = SquareBB(from) | SquareBB(to)
	pos.byTypeBB[AllPieces] ^= fromTo
	pos.byTypeBB[pc.TypeOf()] ^= fromTo
	pos.byColorBB[pc.ColorOf()] ^= fromTo
	pos.board[from] = NoPiece
	pos.board[to] = pc
	pos.index[to] = pos.index[from]
	pos.pieceList[pc][pos.index[to]] = to
}

// setCastlingRight registers a castling right given the king's color and
// the rook's starting square, grounded on Position::set_castling_right in
// original_source/src/position.cpp.
func (pos *Position) setCastlingRight(c Color, rfrom Square) {
	var kfrom = pos.KingSquare(c)
	var kingSide = rfrom > kfrom
	var cr CastlingRights
	if kingSide {
		cr = KingSideRight(c)
	} else {
		cr = QueenSideRight(c)
	}

	var kto, rto Square
	if kingSide {
		kto = RelativeSquare(c, MakeSquare(FileG, Rank1))
		rto = RelativeSquare(c, MakeSquare(FileF, Rank1))
	} else {
		kto = RelativeSquare(c, MakeSquare(FileC, Rank1))
		rto = RelativeSquare(c, MakeSquare(FileD, Rank1))
	}

	pos.castlingRookSquare[cr] = rfrom
	pos.castlingRightsMask[kfrom] |= cr
	pos.castlingRightsMask[rfrom] |= cr

	pos.castlingPath[cr] = (Between(rfrom, rto) | Between(kfrom, kto) | SquareBB(rto) | SquareBB(kto)) &^
		(SquareBB(kfrom) | SquareBB(rfrom))
}

// Set parses a FEN string (spec.md §4.2) into pos, replacing its entire
// contents. Malformed fields are tolerated: unknown tokens are skipped and
// missing trailing fields default (halfmove 0, fullmove 1).
func (pos *Position) Set(fen string, isChess960 bool) error {
	*pos = Position{}
	pos.chess960 = isChess960
	for i := range pos.index {
		pos.index[i] = 0
	}

	var fields = strings.Fields(fen)
	if len(fields) == 0 {
		return fmt.Errorf("chess: empty fen")
	}

	// 1. Piece placement, rank 8 down to rank 1.
	var file, rank = FileA, Rank8
	for _, ch := range fields[0] {
		switch {
		case ch == '/':
			file, rank = FileA, rank-1
		case ch >= '1' && ch <= '8':
			file += int(ch - '0')
		default:
			if idx := strings.IndexRune(pieceGlyphs, ch); idx > 0 && idx != 7 && idx != 8 {
				pos.putPiece(MakeSquare(file, rank), Piece(idx))
			}
			file++
		}
	}

	// 2. Side to move.
	pos.sideToMove = White
	if len(fields) > 1 && fields[1] == "b" {
		pos.sideToMove = Black
	}

	var root StateInfo
	root.EpSquare = SquareNone

	// 3. Castling availability: KQkq, Shredder-FEN and X-FEN rook-file letters.
	if len(fields) > 2 && fields[2] != "-" {
		for _, ch := range fields[2] {
			var color = White
			var c = ch
			if ch >= 'a' && ch <= 'z' {
				color = Black
				c = ch - 32
			}
			if pos.pieceCount[MakePiece(color, King)] == 0 {
				continue
			}
			var kingSq = pos.KingSquare(color)
			var rookSq = SquareNone
			switch {
			case c == 'K':
				for f := FileH; f > kingSq.File(); f-- {
					var s = MakeSquare(f, kingSq.Rank())
					if pos.board[s] == MakePiece(color, Rook) {
						rookSq = s
						break
					}
				}
			case c == 'Q':
				for f := FileA; f < kingSq.File(); f++ {
					var s = MakeSquare(f, kingSq.Rank())
					if pos.board[s] == MakePiece(color, Rook) {
						rookSq = s
						break
					}
				}
			case c >= 'A' && c <= 'H':
				rookSq = MakeSquare(int(c-'A'), kingSq.Rank())
			default:
				continue
			}
			if rookSq != SquareNone && pos.board[rookSq] == MakePiece(color, Rook) {
				pos.setCastlingRight(color, rookSq)
				if rookSq.File() != FileA && rookSq.File() != FileH {
					pos.chess960 = true
				}
			}
		}
	}
	// Derive the active rights set directly from which corners were wired.
	root.CastlingRights = NoCastling
	for _, cr := range [4]CastlingRights{WhiteOO, WhiteOOO, BlackOO, BlackOOO} {
		if pos.castlingPath[cr] != 0 {
			root.CastlingRights |= cr
		}
	}

	// 4. En-passant target, validated against invariant 6.
	root.EpSquare = SquareNone
	if len(fields) > 3 && fields[3] != "-" {
		var ep = ParseSquare(fields[3])
		if ep != SquareNone {
			var them = pos.sideToMove.Opp()
			var us = pos.sideToMove
			if ep.RelativeRank(us) == Rank6 {
				var pushSq = Square(int(ep) - int(PawnPush(us)))
				if pos.board[pushSq] == MakePiece(them, Pawn) && pos.board[ep] == NoPiece &&
					PawnAttacksFrom(ep, us)&pos.Pieces(us, Pawn) != 0 {
					root.EpSquare = ep
				}
			}
		}
	}

	// 5. Halfmove clock.
	root.Rule50 = 0
	if len(fields) > 4 {
		if n, err := strconv.Atoi(fields[4]); err == nil && n >= 0 {
			root.Rule50 = n
		}
	}

	// 6. Fullmove number.
	var fullmove = 1
	if len(fields) > 5 {
		if n, err := strconv.Atoi(fields[5]); err == nil && n > 0 {
			fullmove = n
		}
	}
	var blackToMove = 0
	if pos.sideToMove == Black {
		blackToMove = 1
	}
	pos.gamePly = Max(2*(Max(fullmove, root.Rule50/2+1)-1), 0) + blackToMove

	pos.states = make([]StateInfo, 0, 1024)
	pos.states = append(pos.states, root)
	pos.st = &pos.states[0]
	pos.setState(pos.st)

	return nil
}

// setState recomputes every field of st from scratch: key, pawnKey,
// materialKey, nonPawnMaterial, checkersBB and the check-info caches.
// Grounded on Position::set_state in original_source/src/position.cpp.
func (pos *Position) setState(st *StateInfo) {
	st.Key = 0
	st.PawnKey = 0
	st.MaterialKey = 0
	st.NonPawnMaterial = [ColorNB]Value{}

	for s := Square(0); s < SquareNB; s++ {
		var pc = pos.board[s]
		if pc == NoPiece {
			continue
		}
		st.Key ^= zobristPsq[pc][s]
		if pc.TypeOf() == Pawn {
			st.PawnKey ^= zobristPsq[pc][s]
		} else if pc.TypeOf() != King {
			st.NonPawnMaterial[pc.ColorOf()] += PieceValue[MG][pc]
		}
	}

	if st.EpSquare != SquareNone {
		st.Key ^= zobristEnpassant[st.EpSquare.File()]
	}
	if pos.sideToMove == Black {
		st.Key ^= zobristSide
	}
	st.Key ^= zobristCastling[st.CastlingRights]

	for pc := Piece(0); pc < PieceNB; pc++ {
		if pc.TypeOf() == NoPieceType || pc.TypeOf() == AllPieces {
			continue
		}
		for cnt := 0; cnt < pos.pieceCount[pc]; cnt++ {
			st.MaterialKey ^= zobristPsq[pc][cnt]
		}
	}

	st.CheckersBB = pos.attackersTo(pos.KingSquare(pos.sideToMove), pos.byTypeBB[AllPieces]) &
		pos.byColorBB[pos.sideToMove.Opp()]
	pos.setCheckInfo(st)
}

// Fen emits a FEN string, Shredder-FEN rook-file letters for Chess960,
// classic KQkq otherwise.
func (pos *Position) Fen() string {
	var sb strings.Builder
	for rank := Rank8; rank >= Rank1; rank-- {
		var empty = 0
		for file := FileA; file <= FileH; file++ {
			var pc = pos.board[MakeSquare(file, rank)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(pc.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > Rank1 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(pos.sideToMove.String())
	sb.WriteByte(' ')

	var any = false
	for _, spec := range []struct {
		cr CastlingRights
		c  Color
		ks bool
	}{{WhiteOO, White, true}, {WhiteOOO, White, false}, {BlackOO, Black, true}, {BlackOOO, Black, false}} {
		if !pos.CanCastle(spec.cr) {
			continue
		}
		any = true
		if pos.chess960 {
			var f = pos.castlingRookSquare[spec.cr].File()
			var ch = byte('A' + f)
			if spec.c == Black {
				ch += 32
			}
			sb.WriteByte(ch)
		} else if spec.ks {
			sb.WriteString(map[Color]string{White: "K", Black: "k"}[spec.c])
		} else {
			sb.WriteString(map[Color]string{White: "Q", Black: "q"}[spec.c])
		}
	}
	if !any {
		sb.WriteByte('-')
	}

	sb.WriteByte(' ')
	sb.WriteString(pos.st.EpSquare.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(pos.st.Rule50))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa((pos.gamePly-boolToInt(pos.sideToMove == Black))/2 + 1))

	return sb.String()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// String renders the ASCII dump described in spec.md §6: an 8x8 grid,
// piece glyphs, then FEN/key/checkers/legal-move-count lines.
func (pos *Position) String() string {
	var sb strings.Builder
	var sep = " +---+---+---+---+---+---+---+---+\n"
	for rank := Rank8; rank >= Rank1; rank-- {
		sb.WriteString(sep)
		for file := FileA; file <= FileH; file++ {
			sb.WriteString(" | ")
			sb.WriteString(pos.board[MakeSquare(file, rank)].String())
		}
		sb.WriteString(" |\n")
	}
	sb.WriteString(sep)

	fmt.Fprintf(&sb, "Fen: %s\n", pos.Fen())
	fmt.Fprintf(&sb, "PositionKey: %016X\n", uint64(pos.st.Key))
	fmt.Fprintf(&sb, "MaterialKey: %016X\n", uint64(pos.st.MaterialKey))
	fmt.Fprintf(&sb, "PawnKey: %016X\n", uint64(pos.st.PawnKey))

	sb.WriteString("Checkers:")
	for b := pos.st.CheckersBB; b != 0; {
		sb.WriteString(" " + PopLsb(&b).String())
	}
	sb.WriteByte('\n')

	if pos.generator != nil {
		fmt.Fprintf(&sb, "Legal moves: %d\n", pos.generator.CountLegalMoves(pos))
	}

	return sb.String()
}

// SetFromCode builds a synthetic position from an endgame code such as
// "KBPKN": the code splits at its second 'K' into the strong side's pieces
// (first run) and the weak side's pieces (second run), placed on an
// otherwise empty board (Black's run on rank 7, White's on rank 2), purely
// to compute material keys. strongSide is the color given to the first
// run. Grounded on the Position::set(code,
// Color, StateInfo*) constructor in original_source/src/position.cpp.
func (pos *Position) SetFromCode(code string, strongSide Color) error {
	if len(code) == 0 || code[0] != 'K' {
		return fmt.Errorf("chess: endgame code must start with K")
	}
	var idx = strings.IndexByte(code[1:], 'K')
	if idx < 0 {
		return fmt.Errorf("chess: endgame code %q missing second K", code)
	}
	idx++
	var strong = code[:idx]
	var weak = code[idx:]

	var weakSide = strongSide.Opp()
	var ranks = [2]string{"", ""}
	ranks[strongSide] = strong
	ranks[weakSide] = weak

	var sb strings.Builder
	sb.WriteString("8/")
	sb.WriteString(padRank(strings.ToLower(ranks[Black])))
	sb.WriteString("/8/8/8/8/")
	sb.WriteString(padRank(ranks[White]))
	sb.WriteString("/8 w - - 0 1")

	return pos.Set(sb.String(), false)
}

func padRank(pieces string) string {
	if len(pieces) >= 8 {
		return pieces[:8]
	}
	return pieces + strconv.Itoa(8-len(pieces))
}

// Flip mirrors the position: colors swap, ranks reverse. Grounded on
// Position::flip in original_source/src/position.cpp, implemented (like
// the original) by round-tripping through a transformed FEN.
func (pos *Position) Flip() {
	var fields = strings.Fields(pos.Fen())
	var placementRanks = strings.Split(fields[0], "/")
	for i, j := 0, len(placementRanks)-1; i < j; i, j = i+1, j-1 {
		placementRanks[i], placementRanks[j] = placementRanks[j], placementRanks[i]
	}
	for i, r := range placementRanks {
		placementRanks[i] = flipCase(r)
	}
	fields[0] = strings.Join(placementRanks, "/")

	if fields[1] == "w" {
		fields[1] = "b"
	} else {
		fields[1] = "w"
	}

	fields[2] = flipCase(fields[2])

	if fields[3] != "-" {
		var s = ParseSquare(fields[3])
		fields[3] = Square(int(s) ^ 56).String()
	}

	var chess960 = pos.chess960
	pos.Set(strings.Join(fields, " "), chess960)
}

func flipCase(s string) string {
	var b = []byte(s)
	for i, ch := range b {
		switch {
		case ch >= 'a' && ch <= 'z':
			b[i] = ch - 32
		case ch >= 'A' && ch <= 'Z':
			b[i] = ch + 32
		}
	}
	return string(b)
}
