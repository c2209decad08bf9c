// Package basic implements the nanoBASIC tokenizer, bytecode program store,
// and execution engine described for memory-constrained BASIC interpreters.
//
// The package only depends on the host collaborator interfaces defined in
// package host; it never touches a terminal, a clock, or a file directly.
package basic

// Config holds the build-time choices a real firmware image would fix at
// compile time: integer width, program area capacity, and the various
// fixed-depth limits. Defaults match the reference hardware profile.
type Config struct {
	// IntWidth is either 16 or 32 (bits per BASIC integer).
	IntWidth int
	// ProgramAreaSize is the byte capacity of the program store.
	ProgramAreaSize int
	// MaxLineLen is the maximum number of opcode bytes (excluding the
	// length prefix) a single stored line may contain.
	MaxLineLen int
	// StackDepth is the number of GOSUB/FOR/DO frames the control stack holds.
	StackDepth int
	// ArrayLen is the number of slots in the @[] integer array.
	ArrayLen int
	// ExprDepthMax caps recursive-descent nesting in the evaluator.
	ExprDepthMax int
}

// DefaultConfig returns the reference hardware profile from the spec.
func DefaultConfig() Config {
	return Config{
		IntWidth:        32,
		ProgramAreaSize: 768,
		MaxLineLen:      63,
		StackDepth:      8,
		ArrayLen:        64,
		ExprDepthMax:    32,
	}
}

func (c Config) valueMask() int64 {
	if c.IntWidth == 16 {
		return 0xFFFF
	}
	return 0xFFFFFFFF
}

// wrap sign-extends v to the configured integer width, emulating the
// wraparound behavior of fixed-width hardware registers.
func (c Config) wrap(v int32) int32 {
	if c.IntWidth == 16 {
		return int32(int16(v))
	}
	return v
}

// maxValueBytes is the widest value-literal payload this build can encode,
// 2 bytes for a 16-bit build and 4 for a 32-bit build.
func (c Config) maxValueBytes() int {
	if c.IntWidth == 16 {
		return 2
	}
	return 4
}
