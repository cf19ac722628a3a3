// interpreter_exec.go — the tree walk: statement execution and expression
// evaluation.
//
// Two mutually recursive entry points drive evaluation:
//
//   - execStmt returns void for ordinary statements, the VTBreak/VTContinue
//     sentinel for loop control, and any other value for `return`.
//   - evalExpr returns the expression's value.
//
// Statements receive the scope handle so declarations can extend the chain;
// blocks restore the chain head on exit, discarding their local bindings.
// Child layout per node kind:
//
//	NdFuncDef      [block]                 Args = parameter names
//	NdVarDecl      [arraySpec?, init?]     TypeName = declared type
//	NdAssign       [target, rhs]
//	NdIf           [cond, then, (elif NdIf | else block)?]
//	NdWhile        [cond, block]
//	NdDoWhile      [block, cond]
//	NdFor          [init, cond, incr, block]
//	NdForeach      [collection, block]     Value = loop var
//	NdSwitch       [subject, cases...]
//	NdCase         [expr, block]           NdDefault [block]
//	NdClassDef     methods and field decls Parent = parent class name
//	NdCall         [callee, args...]
//	NdNewExpr      [call]
//	NdFieldAccess  [object]                Value = member name
//	NdIndexAccess  [object, index]
package pith

import (
	"strconv"
	"strings"
)

// --- environment access -----------------------------------------------------

func (ip *Interpreter) envDefine(sc *scope, name string, val Value) {
	sc.head = ip.gc.newBinding(name, val, sc.head)
}

func (ip *Interpreter) envGet(head *Binding, name string, line int) Value {
	if b, ok := chainLookup(head, name); ok {
		return b.Val
	}
	if b, ok := chainLookup(ip.globals.head, name); ok {
		return b.Val
	}
	ip.failf(line, "Undefined variable '%s'.", name)
	return Void
}

func (ip *Interpreter) envAssign(head *Binding, name string, val Value, line int) {
	if b, ok := chainLookup(head, name); ok {
		b.Val = val
		return
	}
	if b, ok := chainLookup(ip.globals.head, name); ok {
		b.Val = val
		return
	}
	ip.failf(line, "Undefined variable '%s'.", name)
}

// --- statement execution ----------------------------------------------------

func (ip *Interpreter) execProgram(root *Node, sc *scope) {
	for _, stmt := range root.Children {
		ip.execStmt(stmt, sc)
	}
}

// execBlock runs a block's statements, restoring the scope head on exit so
// block-local declarations do not leak. The first non-void result propagates
// immediately.
func (ip *Interpreter) execBlock(n *Node, sc *scope) Value {
	saved := sc.head
	for _, stmt := range n.Children {
		result := ip.execStmt(stmt, sc)
		if !result.isVoid() {
			sc.head = saved
			return result
		}
	}
	sc.head = saved
	return Void
}

func (ip *Interpreter) execStmt(n *Node, sc *scope) Value {
	if n == nil {
		return Void
	}

	switch n.Kind {
	case NdClassDef:
		ip.execClassDef(n, sc)

	case NdFuncDef:
		fn := ip.gc.newFunc(n.Value, n, sc.head, nil)
		ip.envDefine(sc, n.Value, Value{Tag: VTFunc, Data: fn})
		// Capture the chain that includes the function's own binding so
		// nested functions can recurse by name.
		fn.Env = sc.head

	case NdPrint:
		for i, child := range n.Children {
			v := ip.evalExpr(child, sc)
			if i > 0 {
				ip.write(" ")
			}
			ip.write(renderValue(v))
		}
		ip.write("\n")

	case NdVarDecl:
		ip.execVarDecl(n, sc)

	case NdAssign:
		ip.execAssign(n, sc)

	case NdIf:
		cond := ip.evalExpr(n.Children[0], sc)
		if cond.truthy() {
			return ip.execBlock(n.Children[1], sc)
		}
		if len(n.Children) > 2 {
			elseNode := n.Children[2]
			if elseNode.Kind == NdIf {
				return ip.execStmt(elseNode, sc)
			}
			return ip.execBlock(elseNode, sc)
		}

	case NdWhile:
		for ip.evalExpr(n.Children[0], sc).truthy() {
			result := ip.execBlock(n.Children[1], sc)
			if result.Tag == VTBreak {
				break
			}
			if result.Tag == VTContinue {
				continue
			}
			if !result.isVoid() {
				return result
			}
		}

	case NdForeach:
		return ip.execForeach(n, sc)

	case NdFor:
		return ip.execFor(n, sc)

	case NdDoWhile:
		for {
			result := ip.execBlock(n.Children[0], sc)
			if result.Tag == VTBreak {
				break
			}
			if result.Tag != VTContinue && !result.isVoid() {
				return result
			}
			if !ip.evalExpr(n.Children[1], sc).truthy() {
				break
			}
		}

	case NdSwitch:
		return ip.execSwitch(n, sc)

	case NdBreak:
		return Value{Tag: VTBreak}

	case NdContinue:
		return Value{Tag: VTContinue}

	case NdImport:
		ip.execImport(n, sc)

	case NdReturn:
		if len(n.Children) == 0 {
			return Void
		}
		return ip.evalExpr(n.Children[0], sc)

	case NdBlock:
		return ip.execBlock(n, sc)

	default:
		ip.evalExpr(n, sc)
	}

	return Void
}

// execClassDef creates the class object, copies an extended parent's methods
// and field names first, then overlays the locally declared ones. Methods
// capture the scope at the point of the class definition.
func (ip *Interpreter) execClassDef(n *Node, sc *scope) {
	var parent *Class
	if n.Parent != "" {
		pv := ip.envGet(sc.head, n.Parent, n.Line)
		if pv.Tag != VTClass {
			ip.failf(n.Line, "Cannot extend '%s': it is not a class.", n.Parent)
		}
		parent = pv.Data.(*Class)
	}

	methods := ip.gc.newMap(VTString, VTFunc)
	ip.gc.pushRoot(Value{Tag: VTMap, Data: methods})
	class := ip.gc.newClass(n.Value, methods, parent)
	ip.gc.popRoot()
	classVal := Value{Tag: VTClass, Data: class}
	ip.gc.pushRoot(classVal)

	if parent != nil {
		for _, k := range parent.Methods.Keys {
			methods.set(k, parent.Methods.Entries[k])
		}
		class.Fields = append(class.Fields, parent.Fields...)
	}

	// Bind the class before its body runs so methods can refer to it.
	ip.envDefine(sc, n.Value, classVal)

	for _, member := range n.Children {
		switch member.Kind {
		case NdFuncDef:
			fn := ip.gc.newFunc(member.Value, member, sc.head, class)
			methods.set(member.Value, Value{Tag: VTFunc, Data: fn})
		case NdFieldDecl:
			if !contains(class.Fields, member.Value) {
				class.Fields = append(class.Fields, member.Value)
			}
		}
	}
	ip.gc.popRoot()
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func (ip *Interpreter) execVarDecl(n *Node, sc *scope) {
	if len(n.Children) > 0 && n.Children[0].Kind == NdArraySpec {
		spec := n.Children[0]
		if len(spec.Children) == 0 {
			// Unsized specifier: an empty growable list.
			list := ip.gc.newList(0)
			ip.envDefine(sc, n.Value, Value{Tag: VTList, Data: list})
			return
		}
		sizeVal := ip.evalExpr(spec.Children[0], sc)
		if sizeVal.Tag != VTInt {
			ip.failf(spec.Line, "Array size must be an integer.")
		}
		size := int(sizeVal.Data.(int32))
		if size < 0 {
			ip.failf(spec.Line, "Array size must not be negative.")
		}
		list := ip.gc.newFixedList(size, primitiveType(n.TypeName))
		ip.envDefine(sc, n.Value, Value{Tag: VTList, Data: list})
		return
	}

	if strings.HasPrefix(n.TypeName, "map<") {
		keyName, valName := splitMapGenerics(n.TypeName)
		m := ip.gc.newMap(primitiveType(keyName), primitiveType(valName))
		mapVal := Value{Tag: VTMap, Data: m}
		ip.gc.pushRoot(mapVal)
		if len(n.Children) > 0 {
			lit := n.Children[0]
			if lit.Kind == NdMapLit {
				for i := 0; i+1 < len(lit.Children); i += 2 {
					key := ip.evalExpr(lit.Children[i], sc)
					if key.Tag != VTString {
						ip.failf(lit.Children[i].Line, "Hashmap keys must be strings.")
					}
					val := ip.evalExpr(lit.Children[i+1], sc)
					if err := m.set(key.Data.(string), val); err != nil {
						ip.failf(lit.Line, "%s", err.Error())
					}
				}
			} else {
				v := ip.evalExpr(lit, sc)
				if v.Tag != VTMap {
					ip.failf(lit.Line, "Cannot initialize '%s' with a value of type '%s'.", n.Value, v.typeName())
				}
				mapVal = v
			}
		}
		ip.gc.popRoot()
		ip.envDefine(sc, n.Value, mapVal)
		return
	}

	val := Void
	if len(n.Children) > 0 {
		val = ip.evalExpr(n.Children[0], sc)
	}
	if strings.HasPrefix(n.TypeName, "list<") && val.Tag == VTList {
		val.Data.(*ListObject).ElemType = primitiveType(n.TypeName[5 : len(n.TypeName)-1])
	}
	ip.envDefine(sc, n.Value, val)
}

// primitiveType maps a declared type name to a value tag; unknown names are
// unenforced (void).
func primitiveType(name string) ValueTag {
	switch name {
	case "int":
		return VTInt
	case "string":
		return VTString
	case "float":
		return VTFloat
	case "bool":
		return VTBool
	default:
		return VTVoid
	}
}

func splitMapGenerics(typeName string) (string, string) {
	inner := strings.TrimSuffix(strings.TrimPrefix(typeName, "map<"), ">")
	parts := strings.SplitN(inner, ",", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return inner, ""
}

func (ip *Interpreter) execForeach(n *Node, sc *scope) Value {
	collection := ip.evalExpr(n.Children[0], sc)
	if collection.Tag != VTList {
		ip.failf(n.Line, "foreach loop can only iterate over a list or array.")
	}
	list := collection.Data.(*ListObject)
	ip.gc.pushRoot(collection)
	defer ip.gc.popRoot()

	base := sc.head
	for i := 0; i < len(list.Items); i++ {
		// The binding lives in the current chain, shadowing per iteration;
		// it remains visible after the loop.
		sc.head = ip.gc.newBinding(n.Value, list.Items[i], base)
		result := ip.execBlock(n.Children[1], sc)
		if result.Tag == VTBreak {
			break
		}
		if result.Tag == VTContinue {
			continue
		}
		if !result.isVoid() {
			return result
		}
	}
	return Void
}

func (ip *Interpreter) execFor(n *Node, sc *scope) Value {
	inner := &scope{head: sc.head}
	ip.gc.pushFrame(inner)
	defer ip.gc.popFrame()

	ip.execStmt(n.Children[0], inner)
	for {
		if !ip.evalExpr(n.Children[1], inner).truthy() {
			break
		}
		result := ip.execBlock(n.Children[3], inner)
		if result.Tag == VTBreak {
			break
		}
		if result.Tag == VTContinue {
			ip.execStmt(n.Children[2], inner)
			continue
		}
		if !result.isVoid() {
			return result
		}
		ip.execStmt(n.Children[2], inner)
	}
	return Void
}

// execSwitch walks the cases in order; the first match turns on fall-through,
// after which every subsequent case (and the default) runs until a break.
// With no match, the default alone runs. BREAK is consumed here; any other
// propagation value (including CONTINUE) escapes to the enclosing construct.
func (ip *Interpreter) execSwitch(n *Node, sc *scope) Value {
	subject := ip.evalExpr(n.Children[0], sc)
	ip.gc.pushRoot(subject)
	defer ip.gc.popRoot()
	matched := false

	for _, caseNode := range n.Children[1:] {
		switch caseNode.Kind {
		case NdCase:
			caseVal := ip.evalExpr(caseNode.Children[0], sc)
			if matched || switchEqual(subject, caseVal) {
				matched = true
				result := ip.execBlock(caseNode.Children[1], sc)
				if result.Tag == VTBreak {
					return Void
				}
				if !result.isVoid() {
					return result
				}
			}
		case NdDefault:
			if matched {
				result := ip.execBlock(caseNode.Children[0], sc)
				if result.Tag == VTBreak {
					return Void
				}
				if !result.isVoid() {
					return result
				}
			}
		}
	}

	if !matched {
		for _, caseNode := range n.Children[1:] {
			if caseNode.Kind == NdDefault {
				result := ip.execBlock(caseNode.Children[0], sc)
				if result.Tag == VTBreak {
					return Void
				}
				if !result.isVoid() {
					return result
				}
			}
		}
	}
	return Void
}

// switchEqual compares a switch subject against a case label by value.
func switchEqual(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTInt:
		return a.Data.(int32) == b.Data.(int32)
	case VTString:
		return a.Data.(string) == b.Data.(string)
	default:
		return false
	}
}

// --- expression evaluation --------------------------------------------------

func (ip *Interpreter) evalExpr(n *Node, sc *scope) Value {
	if n == nil {
		return Void
	}

	switch n.Kind {
	case NdIntLit:
		v, _ := strconv.ParseInt(n.Value, 10, 64)
		return IntVal(int32(v))

	case NdFloatLit:
		f, _ := strconv.ParseFloat(n.Value, 64)
		return FloatVal(f)

	case NdStringLit:
		return StrVal(n.Value)

	case NdBoolLit:
		return BoolVal(n.Value == "true")

	case NdListLit:
		list := ip.gc.newList(len(n.Children))
		listVal := Value{Tag: VTList, Data: list}
		ip.gc.pushRoot(listVal)
		for _, child := range n.Children {
			list.Items = append(list.Items, ip.evalExpr(child, sc))
		}
		ip.gc.popRoot()
		return listVal

	case NdMapLit:
		m := ip.gc.newMap(VTString, VTVoid)
		mapVal := Value{Tag: VTMap, Data: m}
		ip.gc.pushRoot(mapVal)
		for i := 0; i+1 < len(n.Children); i += 2 {
			key := ip.evalExpr(n.Children[i], sc)
			if key.Tag != VTString {
				ip.failf(n.Children[i].Line, "Hashmap keys must be strings.")
			}
			val := ip.evalExpr(n.Children[i+1], sc)
			m.set(key.Data.(string), val)
		}
		ip.gc.popRoot()
		return mapVal

	case NdVarRef:
		return ip.envGet(sc.head, n.Value, n.Line)

	case NdUnaryOp:
		return ip.evalUnary(n, sc)

	case NdBinaryOp:
		return ip.evalBinary(n, sc)

	case NdNewExpr:
		return ip.evalNew(n, sc)

	case NdFieldAccess:
		return ip.evalFieldAccess(n, sc)

	case NdIndexAccess:
		return ip.evalIndexAccess(n, sc)

	case NdCall:
		return ip.evalCall(n, sc)
	}

	return Void
}

func (ip *Interpreter) write(s string) {
	ip.Stdout.Write([]byte(s))
}
