// Package bytecode provides the immutable output of ECMAScript compilation.
//
// A [CodeBlock] holds the byte-encoded instruction stream for one
// compilation unit (a script, a function body, a class constructor, a field
// initializer or a static block) together with the pools its operands
// index into:
//
//   - literals: string and bigint constants ([Literal])
//   - names: property-name identifiers
//   - bindings: resolved variable references ([BindingLocator])
//   - environments: declarative environment descriptors ([Environment])
//   - functions: nested CodeBlocks
//
// # Immutability Guarantees
//
// A CodeBlock is created once by the compiler through [NewCodeBlock] and is
// never modified afterwards:
//
//   - All fields are unexported
//   - The constructor copies input slices
//   - Accessors are index-based and never return internal slices
//
// CodeBlocks may therefore be shared freely across goroutines and VM
// instances.
//
// # Instruction Encoding
//
// Instructions are one opcode byte followed by little-endian operands whose
// widths are given by [op.GetInfo]. Use [NewInstructionIter] to walk a
// block's instructions and [Verify] to check that a block respects the
// stack contract declared by the op package.
//
// Example:
//
//	cb, err := compiler.Compile(program, nil)
//	if err != nil {
//	    return err
//	}
//	it := bytecode.NewInstructionIter(cb)
//	for ins, ok := it.Next(); ok; ins, ok = it.Next() {
//	    fmt.Println(ins.Offset, ins.Code)
//	}
//	if err := it.Err(); err != nil {
//	    return err
//	}
package bytecode
