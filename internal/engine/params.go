package engine

// Heuristic toggles for negamax/quiescence. All default on; kept as named
// constants (rather than inlined `true`) so a heuristic can be isolated
// during tuning without touching the search loop itself.
const (
	EnableRFP             = true
	EnableRazoring        = true
	EnableNMP             = true
	EnableFutilityPruning = true
	EnableLMP             = true
)

// lmpThreshold caps the number of quiet moves tried at each remaining depth
// before late-move pruning skips the rest.
var lmpThreshold = [8]int{0, 8, 12, 16, 20, 24, 28, 32}

// lazyEvalMargin gates quiescence's cheap material-only eval: if it clears
// this margin on either side of the window, the full NNUE/classical eval is
// skipped for this node.
const lazyEvalMargin = 400
