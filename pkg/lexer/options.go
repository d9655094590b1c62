package lexer

// Options configures a Hierarchy.
type Options struct {
	// Lazy lexes the top level list only as far as it is read.
	Lazy bool

	// CheckInvariants validates the whole hierarchy after every update.
	CheckInvariants bool

	// DumpTokens sends a dump of every changed list to Diagnostics.
	DumpTokens bool

	// Diagnostics receives debug output. Nil discards it.
	Diagnostics Diagnostics
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Diagnostics: NopDiagnostics(),
	}
}

func (o Options) diagnostics() Diagnostics {
	if o.Diagnostics == nil {
		return NopDiagnostics()
	}
	return o.Diagnostics
}
