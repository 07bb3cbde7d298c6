package bytecode

// Stats contains statistics about a compiled CodeBlock and the blocks
// nested inside it.
type Stats struct {
	// InstructionCount is the total number of decoded instructions.
	InstructionCount int

	// CodeBytes is the total size of all instruction streams.
	CodeBytes int

	// LiteralCount is the number of string and bigint literals.
	LiteralCount int

	// NameCount is the number of property-name pool entries.
	NameCount int

	// BindingCount is the number of binding locator pool entries.
	BindingCount int

	// EnvironmentCount is the number of environment descriptors.
	EnvironmentCount int

	// FunctionCount is the number of nested blocks, at any depth.
	FunctionCount int
}
