// printer.go — value rendering and canonical AST formatting.
//
// renderValue produces the textual form the print statement and the REPL
// echo emit. FormatProgram renders an AST back to canonical Pith source;
// reparsing the result yields a structurally identical tree, which the
// roundtrip tests rely on. Declared types that the parser discards (return
// and parameter types) are omitted from the canonical form; binary and unary
// subexpressions are always parenthesized so precedence survives the trip.
package pith

import (
	"fmt"
	"strconv"
	"strings"
)

// renderValue renders a runtime value for print and the REPL.
func renderValue(v Value) string {
	switch v.Tag {
	case VTInt:
		return strconv.FormatInt(int64(v.Data.(int32)), 10)
	case VTFloat:
		return fmt.Sprintf("%f", v.Data.(float64))
	case VTString:
		return v.Data.(string)
	case VTBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case VTVoid:
		return "void"
	case VTNative:
		return "<native fn>"
	case VTFunc:
		return fmt.Sprintf("<function %s>", v.Data.(*Function).Name)
	case VTModule:
		return fmt.Sprintf("<module %s>", v.Data.(*Module).Name)
	case VTClass:
		return fmt.Sprintf("<class %s>", v.Data.(*Class).Name)
	case VTInstance:
		return fmt.Sprintf("<instance of %s>", v.Data.(*Instance).Class.Name)
	case VTBoundMethod:
		return "<bound method>"
	case VTList:
		list := v.Data.(*ListObject)
		parts := make([]string, len(list.Items))
		for i, item := range list.Items {
			parts[i] = renderValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case VTMap:
		m := v.Data.(*MapObject)
		var b strings.Builder
		b.WriteByte('{')
		for i, key := range m.Keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(key)
			b.WriteString(": ")
			b.WriteString(renderValue(m.Entries[key]))
		}
		b.WriteByte('}')
		return b.String()
	default:
		return "<unknown>"
	}
}

// RenderValue is the exported form used by the REPL driver.
func RenderValue(v Value) string { return renderValue(v) }

// --- canonical source formatting ---------------------------------------------

// FormatProgram renders an AST back to canonical source text.
func FormatProgram(root *Node) string {
	var b strings.Builder
	for _, stmt := range root.Children {
		writeStmt(&b, stmt, 0)
	}
	return b.String()
}

func indentOf(depth int) string { return strings.Repeat("    ", depth) }

func writeBlock(b *strings.Builder, block *Node, depth int) {
	if len(block.Children) == 0 {
		b.WriteString(indentOf(depth))
		b.WriteString("pass\n")
		return
	}
	for _, stmt := range block.Children {
		writeStmt(b, stmt, depth)
	}
}

func writeStmt(b *strings.Builder, n *Node, depth int) {
	ind := indentOf(depth)
	switch n.Kind {
	case NdVarDecl:
		b.WriteString(ind)
		b.WriteString(n.TypeName)
		rest := n.Children
		if len(rest) > 0 && rest[0].Kind == NdArraySpec {
			b.WriteByte('[')
			if len(rest[0].Children) > 0 {
				b.WriteString(exprString(rest[0].Children[0]))
			}
			b.WriteByte(']')
			rest = rest[1:]
		}
		b.WriteByte(' ')
		b.WriteString(n.Value)
		if len(rest) > 0 {
			b.WriteString(" = ")
			b.WriteString(exprString(rest[0]))
		}
		b.WriteByte('\n')

	case NdAssign:
		fmt.Fprintf(b, "%s%s = %s\n", ind, exprString(n.Children[0]), exprString(n.Children[1]))

	case NdPrint:
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			parts[i] = exprString(c)
		}
		fmt.Fprintf(b, "%sprint(%s)\n", ind, strings.Join(parts, ", "))

	case NdImport:
		fmt.Fprintf(b, "%simport %q\n", ind, n.Value)

	case NdFuncDef:
		fmt.Fprintf(b, "%sdefine %s(%s):\n", ind, n.Value, strings.Join(n.Args, ", "))
		writeBlock(b, n.Children[0], depth+1)

	case NdClassDef:
		b.WriteString(ind)
		b.WriteString("class ")
		b.WriteString(n.Value)
		if n.Parent != "" {
			b.WriteString(" extends ")
			b.WriteString(n.Parent)
		}
		b.WriteString(":\n")
		if len(n.Children) == 0 {
			b.WriteString(indentOf(depth + 1))
			b.WriteString("pass\n")
		}
		for _, member := range n.Children {
			if member.Kind == NdFieldDecl {
				fmt.Fprintf(b, "%s%s %s\n", indentOf(depth+1), member.TypeName, member.Value)
			} else {
				writeStmt(b, member, depth+1)
			}
		}

	case NdIf:
		writeIf(b, n, depth, "if")

	case NdWhile:
		fmt.Fprintf(b, "%swhile %s:\n", ind, exprString(n.Children[0]))
		writeBlock(b, n.Children[1], depth+1)

	case NdDoWhile:
		fmt.Fprintf(b, "%sdo:\n", ind)
		writeBlock(b, n.Children[0], depth+1)
		fmt.Fprintf(b, "%swhile (%s)\n", ind, exprString(n.Children[1]))

	case NdFor:
		fmt.Fprintf(b, "%sfor (%s; %s; %s):\n", ind,
			inlineStmt(n.Children[0]), exprString(n.Children[1]), inlineStmt(n.Children[2]))
		writeBlock(b, n.Children[3], depth+1)

	case NdForeach:
		fmt.Fprintf(b, "%sforeach (%s %s in %s):\n", ind, n.TypeName, n.Value, exprString(n.Children[0]))
		writeBlock(b, n.Children[1], depth+1)

	case NdSwitch:
		fmt.Fprintf(b, "%sswitch (%s):\n", ind, exprString(n.Children[0]))
		for _, caseNode := range n.Children[1:] {
			if caseNode.Kind == NdCase {
				fmt.Fprintf(b, "%scase %s:\n", indentOf(depth+1), exprString(caseNode.Children[0]))
				if len(caseNode.Children[1].Children) > 0 {
					writeBlock(b, caseNode.Children[1], depth+2)
				}
			} else {
				fmt.Fprintf(b, "%sdefault:\n", indentOf(depth+1))
				writeBlock(b, caseNode.Children[0], depth+2)
			}
		}

	case NdReturn:
		fmt.Fprintf(b, "%sreturn %s\n", ind, exprString(n.Children[0]))

	case NdBreak:
		fmt.Fprintf(b, "%sbreak\n", ind)

	case NdContinue:
		fmt.Fprintf(b, "%scontinue\n", ind)

	case NdBlock:
		fmt.Fprintf(b, "%spass\n", ind)

	default:
		fmt.Fprintf(b, "%s%s\n", ind, exprString(n))
	}
}

func writeIf(b *strings.Builder, n *Node, depth int, word string) {
	fmt.Fprintf(b, "%s%s %s:\n", indentOf(depth), word, exprString(n.Children[0]))
	writeBlock(b, n.Children[1], depth+1)
	if len(n.Children) > 2 {
		tail := n.Children[2]
		if tail.Kind == NdIf {
			writeIf(b, tail, depth, "elif")
		} else {
			fmt.Fprintf(b, "%selse:\n", indentOf(depth))
			writeBlock(b, tail, depth+1)
		}
	}
}

// inlineStmt renders the simple statements a for-header can carry.
func inlineStmt(n *Node) string {
	switch n.Kind {
	case NdVarDecl:
		s := n.TypeName + " " + n.Value
		if len(n.Children) > 0 {
			s += " = " + exprString(n.Children[0])
		}
		return s
	case NdAssign:
		return exprString(n.Children[0]) + " = " + exprString(n.Children[1])
	default:
		return exprString(n)
	}
}

func exprString(n *Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case NdIntLit, NdFloatLit, NdBoolLit:
		return n.Value
	case NdStringLit:
		return quoteString(n.Value)
	case NdVarRef:
		return n.Value
	case NdBinaryOp:
		return "(" + exprString(n.Children[0]) + " " + n.Value + " " + exprString(n.Children[1]) + ")"
	case NdUnaryOp:
		return "(" + n.Value + exprString(n.Children[0]) + ")"
	case NdCall:
		parts := make([]string, len(n.Children)-1)
		for i, c := range n.Children[1:] {
			parts[i] = exprString(c)
		}
		return exprString(n.Children[0]) + "(" + strings.Join(parts, ", ") + ")"
	case NdFieldAccess:
		return exprString(n.Children[0]) + "." + n.Value
	case NdIndexAccess:
		return exprString(n.Children[0]) + "[" + exprString(n.Children[1]) + "]"
	case NdNewExpr:
		return "new " + exprString(n.Children[0])
	case NdListLit:
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			parts[i] = exprString(c)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case NdMapLit:
		var parts []string
		for i := 0; i+1 < len(n.Children); i += 2 {
			parts = append(parts, exprString(n.Children[i])+": "+exprString(n.Children[i+1]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return ""
	}
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(s[i])
		}
	}
	b.WriteByte('"')
	return b.String()
}
