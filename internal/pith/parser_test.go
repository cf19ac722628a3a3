package pith

import "testing"

func parse(t *testing.T, src string) *Node {
	t.Helper()
	root, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v\nsource:\n%s", err, src)
	}
	return root
}

func onlyStmt(t *testing.T, src string) *Node {
	t.Helper()
	root := parse(t, src)
	if len(root.Children) != 1 {
		t.Fatalf("want 1 statement, got %d\nsource:\n%s", len(root.Children), src)
	}
	return root.Children[0]
}

func TestParsePrecedence(t *testing.T) {
	// 1 + 2 * 3 → (+ 1 (* 2 3))
	expr := onlyStmt(t, "1 + 2 * 3\n")
	if expr.Kind != NdBinaryOp || expr.Value != "+" {
		t.Fatalf("root not '+': %+v", expr)
	}
	if expr.Children[1].Kind != NdBinaryOp || expr.Children[1].Value != "*" {
		t.Fatalf("rhs not '*': %+v", expr.Children[1])
	}
}

func TestParseCaretLeftAssociative(t *testing.T) {
	// 2 ^ 3 ^ 2 → (^ (^ 2 3) 2)
	expr := onlyStmt(t, "2 ^ 3 ^ 2\n")
	if expr.Kind != NdBinaryOp || expr.Value != "^" {
		t.Fatalf("root not '^': %+v", expr)
	}
	left := expr.Children[0]
	if left.Kind != NdBinaryOp || left.Value != "^" {
		t.Fatalf("caret is not left-associative: left child %+v", left)
	}
	if expr.Children[1].Kind != NdIntLit || expr.Children[1].Value != "2" {
		t.Fatalf("rhs: %+v", expr.Children[1])
	}
}

func TestParseLogicalLowerThanEquality(t *testing.T) {
	// a == b or c == d → (or (== a b) (== c d))
	expr := onlyStmt(t, "a == b or c == d\n")
	if expr.Value != "or" {
		t.Fatalf("root not 'or': %+v", expr)
	}
	if expr.Children[0].Value != "==" || expr.Children[1].Value != "==" {
		t.Fatalf("children: %+v %+v", expr.Children[0], expr.Children[1])
	}
}

func TestParseUnaryChain(t *testing.T) {
	expr := onlyStmt(t, "!!ok\n")
	if expr.Kind != NdUnaryOp || expr.Children[0].Kind != NdUnaryOp {
		t.Fatalf("unary chain: %+v", expr)
	}
}

func TestParsePostfixChain(t *testing.T) {
	// obj.field[0](1).next
	expr := onlyStmt(t, "obj.field[0](1).next\n")
	if expr.Kind != NdFieldAccess || expr.Value != "next" {
		t.Fatalf("outer: %+v", expr)
	}
	call := expr.Children[0]
	if call.Kind != NdCall {
		t.Fatalf("call: %+v", call)
	}
	index := call.Children[0]
	if index.Kind != NdIndexAccess {
		t.Fatalf("index: %+v", index)
	}
	field := index.Children[0]
	if field.Kind != NdFieldAccess || field.Value != "field" {
		t.Fatalf("field: %+v", field)
	}
}

func TestParseTypedDeclarations(t *testing.T) {
	decl := onlyStmt(t, "int x = 1\n")
	if decl.Kind != NdVarDecl || decl.Value != "x" || decl.TypeName != "int" {
		t.Fatalf("decl: %+v", decl)
	}

	decl = onlyStmt(t, "list<int> xs = [1]\n")
	if decl.TypeName != "list<int>" {
		t.Fatalf("generic list type: %q", decl.TypeName)
	}

	decl = onlyStmt(t, "map<string,int> m = {}\n")
	if decl.TypeName != "map<string,int>" {
		t.Fatalf("generic map type: %q", decl.TypeName)
	}
}

func TestParseArraySpecifier(t *testing.T) {
	decl := onlyStmt(t, "int[10] a\n")
	if decl.Kind != NdVarDecl || len(decl.Children) != 1 {
		t.Fatalf("decl: %+v", decl)
	}
	spec := decl.Children[0]
	if spec.Kind != NdArraySpec || len(spec.Children) != 1 || spec.Children[0].Value != "10" {
		t.Fatalf("spec: %+v", spec)
	}

	decl = onlyStmt(t, "int[] a\n")
	if len(decl.Children[0].Children) != 0 {
		t.Fatalf("unsized spec grew a size: %+v", decl.Children[0])
	}
}

func TestParseUserTypedDeclaration(t *testing.T) {
	decl := onlyStmt(t, "Foo f\n")
	if decl.Kind != NdVarDecl || decl.TypeName != "Foo" || decl.Value != "f" {
		t.Fatalf("decl: %+v", decl)
	}
	if len(decl.Children) != 0 {
		t.Fatalf("uninitialized declaration carries an initializer: %+v", decl.Children)
	}
}

func TestParseFuncDefDropsTypes(t *testing.T) {
	fn := onlyStmt(t, "define int add(int a, float b, Foo c):\n    return a\n")
	if fn.Kind != NdFuncDef || fn.Value != "add" {
		t.Fatalf("fn: %+v", fn)
	}
	if len(fn.Args) != 3 || fn.Args[0] != "a" || fn.Args[1] != "b" || fn.Args[2] != "c" {
		t.Fatalf("args: %v", fn.Args)
	}
	if len(fn.Children) != 1 || fn.Children[0].Kind != NdBlock {
		t.Fatalf("body: %+v", fn.Children)
	}
}

func TestParseFuncDefNoReturnType(t *testing.T) {
	fn := onlyStmt(t, "define go():\n    pass\n")
	if fn.Value != "go" || len(fn.Args) != 0 {
		t.Fatalf("fn: %+v", fn)
	}
}

func TestParseElifChainNests(t *testing.T) {
	src := `if a:
    x()
elif b:
    y()
else:
    z()
`
	ifNode := onlyStmt(t, src)
	if ifNode.Kind != NdIf || len(ifNode.Children) != 3 {
		t.Fatalf("if: %+v", ifNode)
	}
	elif := ifNode.Children[2]
	if elif.Kind != NdIf || len(elif.Children) != 3 {
		t.Fatalf("elif not nested as third child: %+v", elif)
	}
	if elif.Children[2].Kind != NdBlock {
		t.Fatalf("else block: %+v", elif.Children[2])
	}
}

func TestParseClassWithExtends(t *testing.T) {
	src := `class B extends A:
    int x
    list<int> xs
    define speak():
        pass
`
	class := onlyStmt(t, src)
	if class.Kind != NdClassDef || class.Value != "B" || class.Parent != "A" {
		t.Fatalf("class: %+v", class)
	}
	if len(class.Children) != 3 {
		t.Fatalf("members: %d", len(class.Children))
	}
	if class.Children[0].Kind != NdFieldDecl || class.Children[0].TypeName != "int" {
		t.Fatalf("field: %+v", class.Children[0])
	}
	if class.Children[1].TypeName != "list<int>" {
		t.Fatalf("generic field: %+v", class.Children[1])
	}
	if class.Children[2].Kind != NdFuncDef {
		t.Fatalf("method: %+v", class.Children[2])
	}
}

func TestParseClassPassDiscarded(t *testing.T) {
	class := onlyStmt(t, "class Empty:\n    pass\n")
	if len(class.Children) != 0 {
		t.Fatalf("pass produced members: %+v", class.Children)
	}
}

func TestParseSwitchWithEmptyCase(t *testing.T) {
	src := `switch(x):
    case 1:
        a()
        break
    case 2:
    case 3:
        b()
    default:
        c()
`
	sw := onlyStmt(t, src)
	if sw.Kind != NdSwitch || len(sw.Children) != 5 {
		t.Fatalf("switch: %d children", len(sw.Children))
	}
	empty := sw.Children[2]
	if empty.Kind != NdCase || len(empty.Children[1].Children) != 0 {
		t.Fatalf("empty case arm: %+v", empty)
	}
	if sw.Children[4].Kind != NdDefault {
		t.Fatalf("default: %+v", sw.Children[4])
	}
}

func TestParseForeach(t *testing.T) {
	node := onlyStmt(t, "foreach (int v in xs):\n    print(v)\n")
	if node.Kind != NdForeach || node.Value != "v" || node.TypeName != "int" {
		t.Fatalf("foreach: %+v", node)
	}
}

func TestParseForeachMissingIn(t *testing.T) {
	_, err := Parse("foreach (int v of xs):\n    print(v)\n")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("want *ParseError, got %T", err)
	}
}

func TestParseDoWithoutWhile(t *testing.T) {
	_, err := Parse("do:\n    x()\n")
	if err == nil {
		t.Fatal("expected parse error for do without while")
	}
}

func TestParseNewExpr(t *testing.T) {
	stmt := onlyStmt(t, "Point p = new Point(1, 2)\n")
	init := stmt.Children[0]
	if init.Kind != NdNewExpr {
		t.Fatalf("init: %+v", init)
	}
	call := init.Children[0]
	if call.Kind != NdCall || len(call.Children) != 3 {
		t.Fatalf("call: %+v", call)
	}
}

func TestParseImport(t *testing.T) {
	node := onlyStmt(t, "import \"math\"\n")
	if node.Kind != NdImport || node.Value != "math" {
		t.Fatalf("import: %+v", node)
	}
}

func TestParseTrailingEmptyCollections(t *testing.T) {
	list := onlyStmt(t, "[]\n")
	if list.Kind != NdListLit || len(list.Children) != 0 {
		t.Fatalf("empty list: %+v", list)
	}
	m := onlyStmt(t, "{}\n")
	if m.Kind != NdMapLit || len(m.Children) != 0 {
		t.Fatalf("empty map: %+v", m)
	}
}

func TestParseForHeader(t *testing.T) {
	node := onlyStmt(t, "for (int i = 0; i < 3; i = i + 1):\n    x()\n")
	if node.Kind != NdFor || len(node.Children) != 4 {
		t.Fatalf("for: %+v", node)
	}
	if node.Children[0].Kind != NdVarDecl {
		t.Fatalf("init: %+v", node.Children[0])
	}
	if node.Children[2].Kind != NdAssign {
		t.Fatalf("incr: %+v", node.Children[2])
	}
}
