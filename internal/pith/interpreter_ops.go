// interpreter_ops.go — operators, assignment targets, member and index
// access, and the call engine.
package pith

import "math"

// --- unary & binary operators -----------------------------------------------

func (ip *Interpreter) evalUnary(n *Node, sc *scope) Value {
	operand := ip.evalExpr(n.Children[0], sc)
	switch n.Value {
	case "-":
		switch operand.Tag {
		case VTInt:
			return IntVal(-operand.Data.(int32))
		case VTFloat:
			return FloatVal(-operand.Data.(float64))
		}
		ip.failf(n.Line, "Operand for unary '-' must be a number.")
	case "!":
		if operand.Tag == VTBool {
			return BoolVal(!operand.Data.(bool))
		}
		ip.failf(n.Line, "Operand for '!' must be a boolean.")
	}
	return Void
}

func (ip *Interpreter) evalBinary(n *Node, sc *scope) Value {
	op := n.Value
	left := ip.evalExpr(n.Children[0], sc)
	right := ip.evalExpr(n.Children[1], sc)

	switch {
	case left.Tag == VTInt && right.Tag == VTInt:
		a, b := left.Data.(int32), right.Data.(int32)
		switch op {
		case "+":
			return IntVal(a + b)
		case "-":
			return IntVal(a - b)
		case "*":
			return IntVal(a * b)
		case "/":
			if b == 0 {
				ip.failf(n.Line, "Division by zero.")
			}
			return IntVal(a / b)
		case "%":
			if b == 0 {
				ip.failf(n.Line, "Modulo by zero.")
			}
			return IntVal(a % b)
		case "^":
			return IntVal(int32(math.Pow(float64(a), float64(b))))
		case "<":
			return BoolVal(a < b)
		case ">":
			return BoolVal(a > b)
		case "<=":
			return BoolVal(a <= b)
		case ">=":
			return BoolVal(a >= b)
		case "==":
			return BoolVal(a == b)
		case "!=":
			return BoolVal(a != b)
		}

	case (left.Tag == VTInt || left.Tag == VTFloat) && (right.Tag == VTInt || right.Tag == VTFloat):
		a, b := numericOf(left), numericOf(right)
		switch op {
		case "+":
			return FloatVal(a + b)
		case "-":
			return FloatVal(a - b)
		case "*":
			return FloatVal(a * b)
		case "/":
			return FloatVal(a / b)
		case "^":
			return FloatVal(math.Pow(a, b))
		case "<":
			return BoolVal(a < b)
		case ">":
			return BoolVal(a > b)
		case "<=":
			return BoolVal(a <= b)
		case ">=":
			return BoolVal(a >= b)
		case "==":
			return BoolVal(a == b)
		case "!=":
			return BoolVal(a != b)
		}

	case left.Tag == VTString && right.Tag == VTString:
		a, b := left.Data.(string), right.Data.(string)
		switch op {
		case "+":
			return StrVal(a + b)
		case "==":
			return BoolVal(a == b)
		case "!=":
			return BoolVal(a != b)
		}

	case left.Tag == VTBool && right.Tag == VTBool:
		a, b := left.Data.(bool), right.Data.(bool)
		switch op {
		case "and":
			return BoolVal(a && b)
		case "or":
			return BoolVal(a || b)
		}
	}

	ip.failf(n.Line, "Operator '%s' is not defined for types '%s' and '%s'.",
		op, left.typeName(), right.typeName())
	return Void
}

func numericOf(v Value) float64 {
	if v.Tag == VTInt {
		return float64(v.Data.(int32))
	}
	return v.Data.(float64)
}

// --- assignment -------------------------------------------------------------

func (ip *Interpreter) execAssign(n *Node, sc *scope) {
	target := n.Children[0]
	val := ip.evalExpr(n.Children[1], sc)
	ip.gc.pushRoot(val)
	defer ip.gc.popRoot()

	switch target.Kind {
	case NdVarRef:
		ip.envAssign(sc.head, target.Value, val, target.Line)

	case NdFieldAccess:
		object := ip.evalExpr(target.Children[0], sc)
		if object.Tag != VTInstance {
			ip.failf(target.Line, "Cannot assign to a field on a value of type '%s'.", object.typeName())
		}
		object.Data.(*Instance).Fields.set(target.Value, val)

	case NdIndexAccess:
		collection := ip.evalExpr(target.Children[0], sc)
		ip.gc.pushRoot(collection)
		defer ip.gc.popRoot()
		index := ip.evalExpr(target.Children[1], sc)

		switch collection.Tag {
		case VTMap:
			if index.Tag != VTString {
				ip.failf(target.Line, "Hashmap index must be a string.")
			}
			if err := collection.Data.(*MapObject).set(index.Data.(string), val); err != nil {
				ip.failf(target.Line, "%s", err.Error())
			}
		case VTList:
			if index.Tag != VTInt {
				ip.failf(target.Line, "List or array index must be an integer.")
			}
			list := collection.Data.(*ListObject)
			i := int(index.Data.(int32))
			if i < 0 || i >= len(list.Items) {
				ip.failf(target.Line, "Index out of bounds.")
			}
			list.Items[i] = val
		default:
			ip.failf(target.Line, "Index assignment is only supported for lists, arrays, and hashmaps.")
		}

	default:
		ip.failf(target.Line, "Invalid assignment target.")
	}
}

// --- member & index access --------------------------------------------------

// evalFieldAccess resolves obj.name: instance fields first, then class
// methods as bound methods, then module members, then the native method
// registries for string and list receivers.
func (ip *Interpreter) evalFieldAccess(n *Node, sc *scope) Value {
	object := ip.evalExpr(n.Children[0], sc)

	switch object.Tag {
	case VTInstance:
		inst := object.Data.(*Instance)
		if field, ok := inst.Fields.Entries[n.Value]; ok {
			return field
		}
		if method := inst.Class.Methods.get(n.Value); !method.isVoid() {
			return ip.bindMethod(object, method)
		}

	case VTModule:
		return object.Data.(*Module).Members.get(n.Value)

	case VTString:
		if method := ip.stringMethods.get(n.Value); !method.isVoid() {
			return ip.bindMethod(object, method)
		}

	case VTList:
		if method := ip.listMethods.get(n.Value); !method.isVoid() {
			return ip.bindMethod(object, method)
		}
	}

	ip.failf(n.Line, "Value of type '%s' has no field or method named '%s'.", object.typeName(), n.Value)
	return Void
}

func (ip *Interpreter) bindMethod(receiver, method Value) Value {
	ip.gc.pushRoot(receiver)
	bm := ip.gc.newBoundMethod(receiver, method)
	ip.gc.popRoot()
	return Value{Tag: VTBoundMethod, Data: bm}
}

func (ip *Interpreter) evalIndexAccess(n *Node, sc *scope) Value {
	collection := ip.evalExpr(n.Children[0], sc)
	ip.gc.pushRoot(collection)
	defer ip.gc.popRoot()
	index := ip.evalExpr(n.Children[1], sc)

	switch collection.Tag {
	case VTList:
		if index.Tag != VTInt {
			ip.failf(n.Line, "List index must be an integer.")
		}
		list := collection.Data.(*ListObject)
		i := int(index.Data.(int32))
		if i < 0 || i >= len(list.Items) {
			ip.failf(n.Line, "Index out of bounds.")
		}
		return list.Items[i]

	case VTMap:
		if index.Tag != VTString {
			ip.failf(n.Line, "Hashmap index must be a string.")
		}
		return collection.Data.(*MapObject).get(index.Data.(string))
	}

	ip.failf(n.Line, "Not an indexable type.")
	return Void
}

// --- instantiation ----------------------------------------------------------

// evalNew instantiates a class: fields are populated to void, then the init
// method, if defined, runs with `this` bound to the fresh instance.
func (ip *Interpreter) evalNew(n *Node, sc *scope) Value {
	callNode := n.Children[0]
	calleeNode := callNode
	var argNodes []*Node
	if callNode.Kind == NdCall {
		calleeNode = callNode.Children[0]
		argNodes = callNode.Children[1:]
	}

	classVal := ip.evalExpr(calleeNode, sc)
	if classVal.Tag != VTClass {
		ip.failf(n.Line, "Cannot instantiate non-class type.")
	}
	class := classVal.Data.(*Class)

	fields := ip.gc.newMap(VTString, VTVoid)
	ip.gc.pushRoot(Value{Tag: VTMap, Data: fields})
	inst := ip.gc.newInstance(class, fields)
	ip.gc.popRoot()
	instVal := Value{Tag: VTInstance, Data: inst}
	ip.gc.pushRoot(instVal)
	defer ip.gc.popRoot()

	for _, field := range class.Fields {
		fields.set(field, Void)
	}

	if initVal := class.Methods.get("init"); !initVal.isVoid() {
		args := make([]Value, 0, len(argNodes))
		for _, argNode := range argNodes {
			v := ip.evalExpr(argNode, sc)
			ip.gc.pushRoot(v)
			args = append(args, v)
		}
		ip.callFunction(initVal.Data.(*Function), &instVal, args, n.Line)
		ip.gc.popRoots(len(args))
	}
	return instVal
}

// --- calls ------------------------------------------------------------------

// evalCall evaluates the callee, then the arguments left to right, and
// dispatches on the callee kind. Evaluated values are held on the temporary
// root stack while the remaining argument expressions run.
func (ip *Interpreter) evalCall(n *Node, sc *scope) Value {
	callee := ip.evalExpr(n.Children[0], sc)
	ip.gc.pushRoot(callee)

	args := make([]Value, 0, len(n.Children)-1)
	for _, argNode := range n.Children[1:] {
		v := ip.evalExpr(argNode, sc)
		ip.gc.pushRoot(v)
		args = append(args, v)
	}
	defer ip.gc.popRoots(1 + len(args))

	switch callee.Tag {
	case VTBoundMethod:
		bm := callee.Data.(*BoundMethod)
		if bm.Method.Tag == VTNative {
			full := make([]Value, 0, len(args)+1)
			full = append(full, bm.Receiver)
			full = append(full, args...)
			return ip.callNative(bm.Method.Data.(NativeFn), full, n.Line)
		}
		receiver := bm.Receiver
		return ip.callFunction(bm.Method.Data.(*Function), &receiver, args, n.Line)

	case VTFunc:
		return ip.callFunction(callee.Data.(*Function), nil, args, n.Line)

	case VTNative:
		return ip.callNative(callee.Data.(NativeFn), args, n.Line)
	}

	ip.failf(n.Line, "Expression is not callable.")
	return Void
}

func (ip *Interpreter) callNative(fn NativeFn, args []Value, line int) Value {
	prev := ip.curLine
	ip.curLine = line
	res := fn(ip, args)
	ip.curLine = prev
	return res
}

// callFunction binds parameters in a fresh chain spliced onto the function's
// captured environment, then executes the body block. A `this` binding
// precedes the parameters for method calls. The body's propagation value is
// the call's result; a function that falls off the end yields void.
func (ip *Interpreter) callFunction(fn *Function, this *Value, args []Value, line int) Value {
	params := fn.Body.Args
	if len(args) != len(params) {
		name := fn.Name
		if name == "" {
			name = "<anonymous>"
		}
		ip.failf(line, "Function '%s' expects %d arguments but got %d.", name, len(params), len(args))
	}

	callScope := &scope{head: fn.Env}
	ip.gc.pushFrame(callScope)
	defer ip.gc.popFrame()

	if this != nil {
		callScope.head = ip.gc.newBinding("this", *this, callScope.head)
	}
	for i, param := range params {
		callScope.head = ip.gc.newBinding(param, args[i], callScope.head)
	}

	return ip.execBlock(fn.Body.Children[0], callScope)
}
