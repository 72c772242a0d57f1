package movegen_test

import (
	"testing"

	"github.com/chizhovvadim/chesscore/pkg/chess"
	"github.com/chizhovvadim/chesscore/pkg/movegen"
)

// Canonical perft positions and node counts, grounded on
// common/perft_test.go (https://www.chessprogramming.org/Perft_Results),
// which covers all six standard positions including position6 (a
// symmetric standard-chess middlegame). startpos depth 6 runs
// here too (spec.md §8's property explicitly calls for depths 1-6); it is
// gated behind testing.Short() since 119,060,324 nodes takes real time.
func TestPerft(t *testing.T) {
	var tests = []struct {
		name  string
		fen   string
		depth int
		nodes int64
	}{
		{"startpos d1", chess.StartFEN, 1, 20},
		{"startpos d2", chess.StartFEN, 2, 400},
		{"startpos d3", chess.StartFEN, 3, 8902},
		{"startpos d4", chess.StartFEN, 4, 197281},
		{"startpos d5", chess.StartFEN, 5, 4865609},
		{"startpos d6", chess.StartFEN, 6, 119060324},
		{"kiwipete d3", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 3, 97862},
		{"kiwipete d4", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 4, 4085603},
		{"position3 d5", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 5, 674624},
		{"position4 d4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 4, 422333},
		{"position5 d4", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 4, 2103487},
		{"position6 d5", "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10", 5, 164075551},
	}

	for _, tt := range tests {
		if tt.nodes > 10_000_000 && testing.Short() {
			continue
		}
		t.Run(tt.name, func(t *testing.T) {
			var pos chess.Position
			if err := pos.Set(tt.fen, false); err != nil {
				t.Fatal(err)
			}
			pos.SetMoveGenerator(movegen.Generator{})
			if nodes := movegen.Perft(&pos, tt.depth); nodes != tt.nodes {
				t.Errorf("Perft(%q, %d) = %d, want %d", tt.fen, tt.depth, nodes, tt.nodes)
			}
		})
	}
}
