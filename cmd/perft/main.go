// Command perft counts leaf nodes of the legal-move tree below a FEN
// position, exercising pkg/chess's do_move/undo_move and pkg/movegen's
// generator end to end. Flag/logging conventions grounded on
// cmd/counter/main.go.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/chizhovvadim/chesscore/pkg/chess"
	"github.com/chizhovvadim/chesscore/pkg/movegen"
)

func main() {
	var fen = flag.String("fen", chess.StartFEN, "FEN of the position to search from")
	var depth = flag.Int("depth", 5, "perft depth in plies")
	var chess960 = flag.Bool("chess960", false, "interpret castling rights as Shredder/X-FEN")
	flag.Parse()

	var logger = log.New(os.Stderr, "", log.LstdFlags)

	var pos chess.Position
	if err := pos.Set(*fen, *chess960); err != nil {
		logger.Fatalf("bad fen: %v", err)
	}
	pos.SetMoveGenerator(movegen.Generator{})

	var start = time.Now()
	var nodes = movegen.Perft(&pos, *depth)
	var elapsed = time.Since(start)

	logger.Printf("fen=%q depth=%d nodes=%d elapsed=%s nps=%.0f",
		*fen, *depth, nodes, elapsed, float64(nodes)/elapsed.Seconds())
}
