package bytecode

import (
	"testing"

	"github.com/risor-io/escompile/op"
	"github.com/stretchr/testify/require"
)

func TestVerifyValid(t *testing.T) {
	tests := []struct {
		name string
		code []byte
	}{
		{
			"return constant",
			assemble(ins(op.PushOne), ins(op.Return)),
		},
		{
			// 0: PushTrue 1: JumpIfFalse 8 6: PushOne 7: Return 8: PushZero 9: Return
			"branch",
			assemble(
				ins(op.PushTrue),
				ins(op.JumpIfFalse, 8),
				ins(op.PushOne),
				ins(op.Return),
				ins(op.PushZero),
				ins(op.Return),
			),
		},
		{
			// 0: PushNull 1: Coalesce 7 6: PushOne 7: Return
			"short circuit",
			assemble(
				ins(op.PushNull),
				ins(op.Coalesce, 7),
				ins(op.PushOne),
				ins(op.Return),
			),
		},
		{
			// 0: TryStart 18 0  9: TryEnd 10: Jump 22  15: ... catch at 18
			"try catch",
			assemble(
				ins(op.TryStart, 16, 0), // 0
				ins(op.TryEnd),          // 9
				ins(op.Jump, 18),        // 10
				ins(op.Nop),             // 15
				ins(op.Pop),             // 16
				ins(op.CatchEnd2),       // 17
				ins(op.PushUndefined),   // 18
				ins(op.Return),          // 19
			),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := NewCodeBlock(CodeParams{Name: tt.name, Code: tt.code})
			require.NoError(t, Verify(cb))
		})
	}
}

func TestVerifyErrors(t *testing.T) {
	tests := []struct {
		name string
		code []byte
		msg  string
	}{
		{
			"underflow",
			assemble(ins(op.Pop), ins(op.PushOne), ins(op.Return)),
			"stack underflow",
		},
		{
			"return depth",
			assemble(ins(op.PushOne), ins(op.PushOne), ins(op.Return)),
			"return with stack depth 2",
		},
		{
			"falls off end",
			assemble(ins(op.PushOne)),
			"falls off the end",
		},
		{
			"dummy address",
			assemble(ins(op.Jump, uint64(op.DummyAddress)), ins(op.PushOne), ins(op.Return)),
			"unpatched address",
		},
		{
			"mid instruction target",
			assemble(ins(op.Jump, 2), ins(op.PushOne), ins(op.Return)),
			"not an instruction boundary",
		},
		{
			// 0: PushTrue 1: JumpIfTrue 7 6: PushOne 7: PushOne 8: Return
			"inconsistent merge",
			assemble(
				ins(op.PushTrue),
				ins(op.JumpIfTrue, 7),
				ins(op.PushOne),
				ins(op.PushOne),
				ins(op.Return),
			),
			"inconsistent stack depth",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := NewCodeBlock(CodeParams{Name: "test", Code: tt.code})
			err := Verify(cb)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestVerifyNestedFunctions(t *testing.T) {
	bad := NewCodeBlock(CodeParams{Name: "bad", Code: assemble(ins(op.Return))})
	root := NewCodeBlock(CodeParams{
		Name:      "main",
		Code:      assemble(ins(op.PushUndefined), ins(op.Return)),
		Functions: []*CodeBlock{bad},
	})
	err := Verify(root)
	require.Error(t, err)
	var verr *VerifyError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "bad", verr.Block)
	require.Equal(t, op.Return, verr.Code)
}
