package ast

import (
	"testing"

	"github.com/risor-io/escompile/internal/token"
	"github.com/stretchr/testify/require"
)

func pos(col int) token.Position {
	return token.Position{Line: 0, Column: col}
}

// let x = 1 + y;
func sampleProgram() *Program {
	return &Program{
		Body: []Stmt{
			&VarDecl{
				DeclPos: pos(0),
				Kind:    Let,
				List: []*Binding{{
					Target: &Ident{NamePos: pos(4), Name: "x"},
					Init: &Binary{
						X:  &Number{ValuePos: pos(8), Literal: "1", Value: 1},
						Op: "+",
						Y:  &Ident{NamePos: pos(12), Name: "y"},
					},
				}},
			},
		},
	}
}

func TestInspect(t *testing.T) {
	var visited []string
	Inspect(sampleProgram(), func(n Node) bool {
		switch node := n.(type) {
		case *Program:
			visited = append(visited, "Program")
		case *VarDecl:
			visited = append(visited, "VarDecl")
		case *Ident:
			visited = append(visited, "Ident:"+node.Name)
		case *Binary:
			visited = append(visited, "Binary")
		case *Number:
			visited = append(visited, "Number:"+node.Literal)
		}
		return true
	})
	require.Equal(t, []string{
		"Program", "VarDecl", "Ident:x", "Binary", "Number:1", "Ident:y",
	}, visited)
}

func TestInspectSkipChildren(t *testing.T) {
	count := 0
	Inspect(sampleProgram(), func(n Node) bool {
		count++
		_, isBinary := n.(*Binary)
		return !isBinary
	})
	// Program, VarDecl, Ident, Binary
	require.Equal(t, 4, count)
}

func TestPreorderStops(t *testing.T) {
	var names []string
	for n := range Preorder(sampleProgram()) {
		if id, ok := n.(*Ident); ok {
			names = append(names, id.Name)
			break
		}
	}
	require.Equal(t, []string{"x"}, names)
}

func TestChildrenSkipsNil(t *testing.T) {
	try := &Try{Body: &Block{}, Finally: &Block{}}
	require.Len(t, Children(try), 2)

	fn := &Func{Params: &Params{}, Body: &Block{}}
	require.Len(t, Children(fn), 1)

	arr := &Array{Items: []Expr{nil, &Null{}, &Spread{X: &Ident{Name: "a"}}}}
	require.Len(t, Children(arr), 2)
}

func TestBoundNames(t *testing.T) {
	target := &ObjectPattern{
		Props: []*PatternProperty{
			{Key: &String{Value: "a"}, Value: &Ident{Name: "a"}},
			{Key: &String{Value: "b"}, Value: &AssignPattern{
				Target:  &ArrayPattern{Elements: []Expr{nil, &Ident{Name: "c"}}, Rest: &Ident{Name: "d"}},
				Default: &Array{},
			}},
		},
		Rest: &Ident{Name: "e"},
	}
	require.Equal(t, []string{"a", "c", "d", "e"}, BoundNames(target))
}

func TestParamsSimple(t *testing.T) {
	var nilParams *Params
	require.True(t, nilParams.Simple())
	require.True(t, (&Params{List: []*Binding{{Target: &Ident{Name: "a"}}}}).Simple())
	require.False(t, (&Params{List: []*Binding{{Target: &Ident{Name: "a"}, Init: &Null{}}}}).Simple())
	require.False(t, (&Params{Rest: &Ident{Name: "r"}}).Simple())
}
