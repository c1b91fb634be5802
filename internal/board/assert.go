package board

// DebugMoveValidation gates the verbose protocol logging in the UCI layer
// (toggled via "setoption name Debug"). It is a normal runtime flag,
// independent of the compile-time Assert in assert_debug.go.
var DebugMoveValidation = false
