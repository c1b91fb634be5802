package uci

import (
	"bufio"
	"fmt"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/kestrelchess/engine/internal/board"
	"github.com/kestrelchess/engine/internal/engine"
	"github.com/kestrelchess/engine/internal/persist"
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	position *board.Position

	// Position history for repetition detection
	positionHashes []uint64

	// NNUE configuration
	nnuePath string

	// multiPV mirrors the "MultiPV" UCI option into calculateLimits.
	multiPV int

	// moveOverhead is subtracted from the time budget for each move to
	// absorb GUI/network lag, set via "setoption name Move Overhead".
	moveOverhead time.Duration

	// chess960 forces Fischer-random castling semantics for every
	// position this session parses, set via "setoption name UCI_Chess960".
	chess960 bool

	// Search state
	searching     bool
	searchDone    chan struct{}
	stopRequested atomic.Bool

	// CPU profiling
	profileFile *os.File

	// persist backs the optional "PersistHash" option: a cache of deep
	// root results that survives process restarts.
	persist *persist.Store
}

// persistMinDepth is the shallowest search result worth writing to the
// persistent hash store; anything shallower is cheap enough to recompute
// and would just add write amplification for little benefit.
const persistMinDepth = 20

// New creates a new UCI protocol handler.
func New(eng *engine.Engine) *UCI {
	return &UCI{
		engine:       eng,
		position:     board.NewPosition(),
		multiPV:      1,
		moveOverhead: 30 * time.Millisecond,
	}
}

// Run starts the UCI main loop.
func (u *UCI) Run() {
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			if board.DebugMoveValidation {
				fmt.Fprintf(os.Stderr, "info string DEBUG: position %s\n", strings.Join(args, " "))
			}
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleQuit()
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			fmt.Println(u.position.String())
		case "eval":
			u.handleEval()
		case "perft":
			u.handlePerft(args)
		default:
			if looksLikeFEN(line) {
				u.handlePosition(append([]string{"fen"}, parts...))
			}
		}
	}
}

// looksLikeFEN reports whether a raw input line is a bare FEN string rather
// than a recognized UCI command, so "position fen" can be typed without the
// "position fen" prefix at an interactive prompt.
func looksLikeFEN(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return false
	}
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return false
	}
	stm := fields[1]
	return stm == "w" || stm == "b"
}

// handleEval prints a breakdown of the static evaluation of the current
// position, from both the classical and NNUE evaluators when available.
func (u *UCI) handleEval() {
	classical := engine.Evaluate(u.position)
	fmt.Printf("Classical eval: %d (white's perspective, centipawns)\n", perspectiveScore(classical, u.position))
	if nnueScore, ok := u.engine.EvaluateNNUE(u.position); ok {
		fmt.Printf("NNUE eval: %d (white's perspective, centipawns)\n", perspectiveScore(nnueScore, u.position))
	} else {
		fmt.Println("NNUE eval: unavailable (no network loaded)")
	}
}

// perspectiveScore converts a side-to-move-relative score to White's
// perspective, matching how engines conventionally report "eval" output.
func perspectiveScore(score int, pos *board.Position) int {
	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	fmt.Println("id name ChessPlay")
	fmt.Println("id author ChessPlay Team")
	fmt.Println()
	fmt.Println("option name Hash type spin default 64 min 1 max 4096")
	fmt.Printf("option name Threads type spin default %d min 1 max 512\n", engine.NumWorkers)
	fmt.Println("option name MultiPV type spin default 1 min 1 max 8")
	fmt.Println("option name Move Overhead type spin default 30 min 0 max 5000")
	fmt.Println("option name UCI_Chess960 type check default false")
	fmt.Println("option name UseNNUE type check default false")
	fmt.Println("option name EvalFile type string default <empty>")
	fmt.Println("option name PersistHash type check default false")
	fmt.Println("uciok")
}

// handleNewGame resets the engine for a new game.
func (u *UCI) handleNewGame() {
	u.engine.Clear()
	u.position = board.NewPosition()
	u.positionHashes = []uint64{u.position.Hash}
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	u.positionHashes = nil
	var moveStart int

	if args[0] == "startpos" {
		u.position = board.NewPosition()
		moveStart = 1
		// Find "moves" keyword
		for i, arg := range args {
			if arg == "moves" {
				moveStart = i + 1
				break
			}
		}
	} else if args[0] == "fen" {
		// Find where FEN ends (at "moves" or end of args)
		fenEnd := len(args)
		for i, arg := range args[1:] {
			if arg == "moves" {
				fenEnd = i + 1
				break
			}
		}

		fenStr := strings.Join(args[1:fenEnd], " ")
		pos, err := board.ParseFEN(fenStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "info string Invalid FEN: %v\n", err)
			return
		}
		u.position = pos

		// Find "moves" keyword
		moveStart = len(args)
		for i, arg := range args {
			if arg == "moves" {
				moveStart = i + 1
				break
			}
		}
	} else {
		return
	}

	if u.chess960 {
		u.position.Chess960 = true
	}

	// Record initial position hash
	u.positionHashes = append(u.positionHashes, u.position.Hash)

	// Apply moves
	if moveStart < len(args) {
		for _, moveStr := range args[moveStart:] {
			move := u.parseMove(moveStr)
			if move == board.NoMove {
				fmt.Fprintf(os.Stderr, "info string Invalid move: %s\n", moveStr)
				return
			}
			u.position.MakeMove(move)
			u.positionHashes = append(u.positionHashes, u.position.Hash)
		}
	}

	// Debug: log position state after setup
	if board.DebugMoveValidation {
		legal := u.position.GenerateLegalMoves()
		var legalStrs []string
		for i := 0; i < legal.Len() && i < 8; i++ {
			legalStrs = append(legalStrs, legal.Get(i).String())
		}
		fmt.Fprintf(os.Stderr, "info string DEBUG: After position setup - hash=%016x inCheck=%v legal=%v...\n",
			u.position.Hash, u.position.InCheck(), legalStrs)
	}
}

// moveText renders a move on the wire: long algebraic, except Chess960
// castling, which is encoded as the king capturing its own rook. The position
// must be the one the move is about to be played in.
func moveText(pos *board.Position, m board.Move) string {
	if m.IsCastling() && pos.Chess960 {
		rookFrom, _ := pos.CastleRookSquares(m)
		return m.From().String() + rookFrom.String()
	}
	return m.String()
}

// parseMove converts a UCI move string to a board.Move.
func (u *UCI) parseMove(moveStr string) board.Move {
	if len(moveStr) < 4 {
		return board.NoMove
	}

	fromFile := int(moveStr[0] - 'a')
	fromRank := int(moveStr[1] - '1')
	toFile := int(moveStr[2] - 'a')
	toRank := int(moveStr[3] - '1')

	if fromFile < 0 || fromFile > 7 || fromRank < 0 || fromRank > 7 ||
		toFile < 0 || toFile > 7 || toRank < 0 || toRank > 7 {
		return board.NoMove
	}

	from := board.NewSquare(fromFile, fromRank)
	to := board.NewSquare(toFile, toRank)

	// King-captures-own-rook is how castling arrives on the wire in
	// Chess960 mode; map it back to the internal king-destination encoding.
	if piece := u.position.PieceAt(from); piece != board.NoPiece && piece.Type() == board.King {
		if target := u.position.PieceAt(to); target != board.NoPiece &&
			target.Type() == board.Rook && target.Color() == piece.Color() {
			moves := u.position.GenerateLegalMoves()
			for i := 0; i < moves.Len(); i++ {
				m := moves.Get(i)
				if !m.IsCastling() || m.From() != from {
					continue
				}
				if rookFrom, _ := u.position.CastleRookSquares(m); rookFrom == to {
					return m
				}
			}
			return board.NoMove
		}
	}

	// Check for promotion
	var promo board.PieceType
	if len(moveStr) == 5 {
		switch moveStr[4] {
		case 'q':
			promo = board.Queen
		case 'r':
			promo = board.Rook
		case 'b':
			promo = board.Bishop
		case 'n':
			promo = board.Knight
		}
	}

	// Find matching legal move
	moves := u.position.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From() == from && m.To() == to {
			if promo != 0 {
				if m.IsPromotion() && m.Promotion() == promo {
					return m
				}
			} else if !m.IsPromotion() {
				return m
			}
		}
	}

	return board.NoMove
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth     int
	Nodes     uint64
	MoveTime  time.Duration
	Infinite  bool
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
}

// handleGo starts a search with the given parameters.
func (u *UCI) handleGo(args []string) {
	opts := u.parseGoOptions(args)

	// Set up position history for repetition detection
	u.engine.SetPositionHistory(u.positionHashes)

	// Serve straight from the persistent hash store when we already hold a
	// sufficiently deep answer for this exact position and aren't being
	// asked to think forever or to a fixed shallow depth.
	if u.persist != nil && !opts.Infinite && (opts.Depth == 0 || opts.Depth >= persistMinDepth) {
		if entry, ok := u.persist.Get(u.position.Hash); ok && int(entry.Depth) >= persistMinDepth {
			if mv := u.moveFromUint16(entry.Move); mv != board.NoMove {
				fmt.Printf("info string PersistHash hit depth %d\n", entry.Depth)
				fmt.Printf("bestmove %s\n", moveText(u.position, mv))
				return
			}
		}
	}

	var lastInfo engine.SearchInfo
	// Configure info callback
	u.engine.OnInfo = func(info engine.SearchInfo) {
		lastInfo = info
		u.sendInfo(info)
	}

	// Calculate search limits
	limits := u.calculateLimits(opts)

	// Start search in goroutine
	u.searching = true
	u.stopRequested.Store(false)
	u.searchDone = make(chan struct{})

	pos := u.position.Copy()
	rootHash := u.position.Hash

	gamePly := len(u.positionHashes) - 1

	go func() {
		defer close(u.searchDone)

		var bestMove board.Move
		if limits.MultiPV > 1 {
			bestMove = u.runMultiPV(pos, limits)
		} else if opts.MoveTime == 0 && (opts.WTime > 0 || opts.BTime > 0) && !opts.Infinite {
			// Tournament clocks: let the time manager allocate soft and
			// hard budgets from the remaining time and increments.
			bestMove = u.engine.SearchWithUCILimits(pos, engine.UCILimits{
				Time:         [2]time.Duration{opts.WTime, opts.BTime},
				Inc:          [2]time.Duration{opts.WInc, opts.BInc},
				MovesToGo:    opts.MovesToGo,
				Depth:        opts.Depth,
				Nodes:        opts.Nodes,
				MoveOverhead: u.moveOverhead,
			}, gamePly)
		} else {
			bestMove = u.engine.SearchWithLimits(pos, limits)
		}

		u.searching = false

		if u.persist != nil && bestMove != board.NoMove && lastInfo.Depth >= persistMinDepth {
			_ = u.persist.Put(rootHash, persist.Entry{
				Move:  uint16(bestMove),
				Score: int16(lastInfo.Score),
				Depth: uint8(lastInfo.Depth),
			})
		}

		// Validate move is legal before sending
		// Use fresh copy of original position for validation (search may have corrupted pos)
		validationPos := u.position.Copy()
		if bestMove != board.NoMove {
			legal := validationPos.GenerateLegalMoves()
			found := false
			for i := 0; i < legal.Len(); i++ {
				if legal.Get(i) == bestMove {
					found = true
					break
				}
			}
			if found {
				if board.DebugMoveValidation {
					fmt.Fprintf(os.Stderr, "info string DEBUG: Sending bestmove %s (hash=%016x)\n", bestMove.String(), validationPos.Hash)
				}
				fmt.Printf("bestmove %s\n", moveText(validationPos, bestMove))
				return
			}
			// Move not legal - log detailed warning
			fmt.Fprintf(os.Stderr, "info string CRITICAL: Search returned illegal move %s (not in %d legal moves)\n", bestMove.String(), legal.Len())
			// Log all legal moves for debugging
			var legalStrs []string
			for i := 0; i < legal.Len() && i < 10; i++ {
				legalStrs = append(legalStrs, legal.Get(i).String())
			}
			fmt.Fprintf(os.Stderr, "info string Legal moves (first 10): %v\n", legalStrs)
		} else {
			fmt.Fprintf(os.Stderr, "info string WARNING: Search returned NoMove, using fallback\n")
		}

		// Fallback: return first legal move if available
		legal := validationPos.GenerateLegalMoves()
		if legal.Len() > 0 {
			fmt.Printf("bestmove %s\n", moveText(validationPos, legal.Get(0)))
		} else {
			// Only send 0000 for checkmate/stalemate (no legal moves)
			fmt.Println("bestmove 0000")
		}
	}()
}

// parseGoOptions parses "go" command arguments.
func (u *UCI) parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "nodes":
			if i+1 < len(args) {
				n, _ := strconv.ParseUint(args[i+1], 10, 64)
				opts.Nodes = n
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.MoveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "infinite":
			opts.Infinite = true
		case "wtime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.WTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "btime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.BTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "winc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.WInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "binc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.BInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "movestogo":
			if i+1 < len(args) {
				opts.MovesToGo, _ = strconv.Atoi(args[i+1])
				i++
			}
		}
	}

	return opts
}

// calculateLimits converts GoOptions to engine.SearchLimits.
func (u *UCI) calculateLimits(opts GoOptions) engine.SearchLimits {
	limits := engine.SearchLimits{}

	if opts.Infinite {
		limits.Infinite = true
		return limits
	}

	if opts.Depth > 0 {
		limits.Depth = opts.Depth
	}

	if u.multiPV > 1 {
		limits.MultiPV = u.multiPV
	}

	if opts.Nodes > 0 {
		limits.Nodes = opts.Nodes
	}

	if opts.MoveTime > 0 {
		moveTime := opts.MoveTime - u.moveOverhead
		if moveTime < 10*time.Millisecond {
			moveTime = 10 * time.Millisecond
		}
		limits.MoveTime = moveTime
	}

	return limits
}

// moveFromUint16 decodes a persisted move and confirms it is legal in the
// current position before trusting it, guarding against the rare zobrist
// collision between the stored position and the one on the board now.
func (u *UCI) moveFromUint16(raw uint16) board.Move {
	mv := board.Move(raw)
	legal := u.position.GenerateLegalMoves()
	for i := 0; i < legal.Len(); i++ {
		if legal.Get(i) == mv {
			return mv
		}
	}
	return board.NoMove
}

// runMultiPV drives the engine's Multi-PV search path and reports each
// principal variation with the "multipv" info field before returning the
// single best move for "bestmove".
func (u *UCI) runMultiPV(pos *board.Position, limits engine.SearchLimits) board.Move {
	results := u.engine.SearchMultiPV(pos, limits)
	for i, r := range results {
		var pvStrs []string
		for _, m := range r.PV {
			pvStrs = append(pvStrs, m.String())
		}
		fmt.Printf("info multipv %d depth %d score cp %d pv %s\n", i+1, r.Depth, r.Score, strings.Join(pvStrs, " "))
	}
	if len(results) == 0 {
		return board.NoMove
	}
	return results[0].Move
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	var parts []string

	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))

	// Score
	if info.Score > engine.MateScore-100 {
		mateIn := (engine.MateScore - info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else if info.Score < -engine.MateScore+100 {
		mateIn := -(engine.MateScore + info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))

	// NPS
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	// Hash fullness
	if info.HashFull > 0 {
		parts = append(parts, fmt.Sprintf("hashfull %d", info.HashFull))
	}

	// PV - validate moves to prevent outputting illegal sequences
	if len(info.PV) > 0 {
		validPV := make([]string, 0, len(info.PV))
		testPos := u.position.Copy()
		for _, move := range info.PV {
			// Validate move is legal in current test position
			legal := testPos.GenerateLegalMoves()
			isLegal := false
			for i := 0; i < legal.Len(); i++ {
				if legal.Get(i) == move {
					isLegal = true
					break
				}
			}
			if !isLegal {
				break // Stop at first illegal move
			}
			validPV = append(validPV, moveText(testPos, move))
			testPos.MakeMove(move)
		}
		if len(validPV) > 0 {
			parts = append(parts, "pv "+strings.Join(validPV, " "))
		}
	}

	fmt.Printf("info %s\n", strings.Join(parts, " "))
}

// handleStop stops the current search.
func (u *UCI) handleStop() {
	if u.searching {
		u.stopRequested.Store(true)
		u.engine.Stop()
		<-u.searchDone // Wait for search to finish
	}
}

// handleQuit exits the program.
func (u *UCI) handleQuit() {
	u.handleStop()
	// Stop profiling if active
	if u.profileFile != nil {
		pprof.StopCPUProfile()
		u.profileFile.Close()
		fmt.Fprintf(os.Stderr, "info string CPU profile saved\n")
	}
	if u.persist != nil {
		u.persist.Close()
	}
	os.Exit(0)
}

// persistHashDir returns the directory the PersistHash option stores its
// BadgerDB database in, creating it if necessary.
func persistHashDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := home + "/.chessplay/hash"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	// Handle options
	switch strings.ToLower(name) {
	case "hash":
		if mb, err := strconv.Atoi(value); err == nil {
			u.engine.ResizeHash(mb)
			fmt.Fprintf(os.Stderr, "info string Hash resized to %s\n", humanize.Bytes(uint64(mb)*1024*1024))
		}
	case "threads":
		if n, err := strconv.Atoi(value); err == nil {
			u.engine.SetThreads(n)
		}
	case "multipv":
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			u.multiPV = n
		}
	case "move overhead":
		if ms, err := strconv.Atoi(value); err == nil {
			overhead := time.Duration(ms) * time.Millisecond
			u.moveOverhead = overhead
			u.engine.SetMoveOverhead(overhead)
		}
	case "uci_chess960":
		u.chess960 = strings.ToLower(value) == "true"
	case "persisthash":
		enabled := strings.ToLower(value) == "true"
		if enabled && u.persist == nil {
			dir, err := persistHashDir()
			if err != nil {
				fmt.Fprintf(os.Stderr, "info string PersistHash unavailable: %v\n", err)
				return
			}
			store, err := persist.Open(dir)
			if err != nil {
				fmt.Fprintf(os.Stderr, "info string PersistHash failed to open: %v\n", err)
				return
			}
			u.persist = store
		} else if !enabled && u.persist != nil {
			u.persist.Close()
			u.persist = nil
		}
	case "usennue":
		useNNUE := strings.ToLower(value) == "true"
		if useNNUE && u.nnuePath != "" {
			// Load the network if not already loaded
			if !u.engine.HasNNUE() {
				if err := u.engine.LoadNNUE(u.nnuePath); err != nil {
					fmt.Fprintf(os.Stderr, "info string Failed to load NNUE: %v\n", err)
					return
				}
			}
		}
		u.engine.SetUseNNUE(useNNUE)
	case "evalfile":
		u.nnuePath = value
		u.tryLoadNNUE()
	case "debug":
		enabled := strings.ToLower(value) == "true"
		board.DebugMoveValidation = enabled
		if enabled {
			fmt.Fprintf(os.Stderr, "info string Debug mode enabled\n")
		}
	case "cpuprofile":
		// Stop existing profile if any
		if u.profileFile != nil {
			pprof.StopCPUProfile()
			u.profileFile.Close()
			fmt.Fprintf(os.Stderr, "info string CPU profile stopped\n")
			u.profileFile = nil
		}
		// Start new profile if path provided
		if value != "" && value != "stop" {
			f, err := os.Create(value)
			if err != nil {
				fmt.Fprintf(os.Stderr, "info string Failed to create profile: %v\n", err)
				return
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				f.Close()
				fmt.Fprintf(os.Stderr, "info string Failed to start profile: %v\n", err)
				return
			}
			u.profileFile = f
			fmt.Fprintf(os.Stderr, "info string CPU profiling to %s\n", value)
		}
	}
}

// tryLoadNNUE attempts to load the NNUE network if a path is set.
func (u *UCI) tryLoadNNUE() {
	if u.nnuePath != "" {
		if err := u.engine.LoadNNUE(u.nnuePath); err != nil {
			fmt.Fprintf(os.Stderr, "info string Failed to load NNUE: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "info string NNUE network loaded\n")
		}
	}
}

// handlePerft runs a perft test.
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}

	start := time.Now()
	nodes := u.engine.Perft(u.position, depth)
	elapsed := time.Since(start)

	fmt.Printf("Nodes: %s\n", humanize.Comma(int64(nodes)))
	fmt.Printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := uint64(float64(nodes) / elapsed.Seconds())
		fmt.Printf("NPS: %s/s\n", humanize.Comma(int64(nps)))
	}
}
