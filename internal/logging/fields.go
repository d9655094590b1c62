package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Lexing fields.
	FieldLanguage  = "language"
	FieldTokens    = "tokens"
	FieldLazy      = "lazy"
	FieldEdits     = "edits"
	FieldStep      = "step"
	FieldOffset    = "offset"
	FieldRemoved   = "removed"
	FieldInserted  = "inserted"
	FieldHierarchy = "hierarchy"

	// Stress fields.
	FieldSeed       = "seed"
	FieldIterations = "iterations"
	FieldFailures   = "failures"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
