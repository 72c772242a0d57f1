package chess

// Zobrist key tables, grounded on common/position.go's initKeys but drawn
// from a port of Stockfish's xorshift64star PRNG (not math/rand), seeded
// with Stockfish's actual PRNG seed (original_source/src/position.cpp's PRNG
// rng(1070372)) so that the starting position's key matches the fixed
// value spec.md's concrete scenario calls for.

const zobristSeed = 1070372

// xorshift64star is the PRNG Stockfish's misc.h PRNG uses: a 64-bit
// xorshift generator whose output is scrambled by a multiplication before
// being returned. Deterministic, seed-reproducible, and good enough for
// hash-table initialization (not cryptographic use).
type xorshift64star struct {
	s uint64
}

func newXorshift64star(seed uint64) *xorshift64star {
	return &xorshift64star{s: seed}
}

func (r *xorshift64star) next() uint64 {
	r.s ^= r.s >> 12
	r.s ^= r.s << 25
	r.s ^= r.s >> 27
	return r.s * 2685821657736338717
}

var (
	zobristPsq       [PieceNB][SquareNB]Key
	zobristEnpassant [FileNB]Key
	zobristCastling  [CastlingRightNB]Key
	zobristSide      Key
	zobristNoPawns   Key
)

func init() {
	var rng = newXorshift64star(zobristSeed)

	for pc := Piece(0); pc < PieceNB; pc++ {
		var pt = pc.TypeOf()
		if pt == NoPieceType || pt == AllPieces {
			continue
		}
		for s := Square(0); s < SquareNB; s++ {
			zobristPsq[pc][s] = Key(rng.next())
		}
	}

	for f := 0; f < FileNB; f++ {
		zobristEnpassant[f] = Key(rng.next())
	}

	zobristSide = Key(rng.next())
	zobristNoPawns = Key(rng.next())

	// castling[subset] is the XOR-composition of freshly drawn per-bit
	// atoms, so castling[a|b] = castling[a] ^ castling[b] (spec.md §4.1);
	// the empty subset is 0 by construction.
	var atoms [4]Key
	atoms[0] = Key(rng.next()) // WhiteOO
	atoms[1] = Key(rng.next()) // WhiteOOO
	atoms[2] = Key(rng.next()) // BlackOO
	atoms[3] = Key(rng.next()) // BlackOOO

	for cr := CastlingRights(0); cr < CastlingRightNB; cr++ {
		var k Key
		if cr&WhiteOO != 0 {
			k ^= atoms[0]
		}
		if cr&WhiteOOO != 0 {
			k ^= atoms[1]
		}
		if cr&BlackOO != 0 {
			k ^= atoms[2]
		}
		if cr&BlackOOO != 0 {
			k ^= atoms[3]
		}
		zobristCastling[cr] = k
	}
}
