// std_core.go — core natives and the string/list method registries.
//
// These are the host-side collaborators the evaluator dispatches to through
// the three registries. Method natives receive the receiver as args[0].
package pith

import (
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

var processStart = time.Now()

func registerCoreNatives(ip *Interpreter) {
	ip.RegisterGlobal("clock", nativeClock)
	ip.RegisterGlobal("input", nativeInput)
}

func registerNativeMethods(ip *Interpreter) {
	ip.RegisterStringMethod("len", nativeLen)
	ip.RegisterStringMethod("trim", nativeStringTrim)
	ip.RegisterStringMethod("split", nativeStringSplit)
	ip.RegisterStringMethod("upper", nativeStringUpper)
	ip.RegisterStringMethod("lower", nativeStringLower)
	ip.RegisterStringMethod("match", nativeStringMatch)
	ip.RegisterStringMethod("replace", nativeStringReplace)

	ip.RegisterListMethod("len", nativeLen)
	ip.RegisterListMethod("append", nativeListAppend)
	ip.RegisterListMethod("join", nativeListJoin)
}

func nativeClock(ip *Interpreter, args []Value) Value {
	return FloatVal(time.Since(processStart).Seconds())
}

func nativeInput(ip *Interpreter, args []Value) Value {
	for _, arg := range args {
		ip.write(renderValue(arg))
	}
	line, err := ip.stdin.ReadString('\n')
	if err != nil && line == "" {
		return StrVal("")
	}
	return StrVal(strings.TrimRight(line, "\r\n"))
}

func nativeLen(ip *Interpreter, args []Value) Value {
	if len(args) != 1 {
		ip.failNative("len() takes no arguments.")
	}
	switch args[0].Tag {
	case VTString:
		return IntVal(int32(len(args[0].Data.(string))))
	case VTList:
		return IntVal(int32(len(args[0].Data.(*ListObject).Items)))
	}
	ip.failNative("len() can only be called on a string or a list.")
	return Void
}

// --- string methods ---------------------------------------------------------

func stringReceiver(ip *Interpreter, args []Value, method string) string {
	if len(args) == 0 || args[0].Tag != VTString {
		ip.failNative("%s() must be called on a string.", method)
	}
	return args[0].Data.(string)
}

func nativeStringTrim(ip *Interpreter, args []Value) Value {
	if len(args) != 1 {
		ip.failNative("trim() takes no arguments.")
	}
	return StrVal(strings.TrimSpace(stringReceiver(ip, args, "trim")))
}

// nativeStringSplit splits on any character of the delimiter set; empty
// fields are dropped, matching the original tokenizer behavior.
func nativeStringSplit(ip *Interpreter, args []Value) Value {
	if len(args) != 2 {
		ip.failNative("split() takes exactly one argument (the delimiter).")
	}
	if args[0].Tag != VTString || args[1].Tag != VTString {
		ip.failNative("split() requires a string object and a string delimiter.")
	}
	src := args[0].Data.(string)
	delims := args[1].Data.(string)

	tokens := strings.FieldsFunc(src, func(r rune) bool {
		return strings.ContainsRune(delims, r)
	})

	list := ip.gc.newList(len(tokens))
	for _, tok := range tokens {
		list.Items = append(list.Items, StrVal(tok))
	}
	return Value{Tag: VTList, Data: list}
}

func nativeStringUpper(ip *Interpreter, args []Value) Value {
	if len(args) != 1 {
		ip.failNative("upper() takes no arguments.")
	}
	return StrVal(strings.ToUpper(stringReceiver(ip, args, "upper")))
}

func nativeStringLower(ip *Interpreter, args []Value) Value {
	if len(args) != 1 {
		ip.failNative("lower() takes no arguments.")
	}
	return StrVal(strings.ToLower(stringReceiver(ip, args, "lower")))
}

func nativeStringMatch(ip *Interpreter, args []Value) Value {
	if len(args) != 2 || args[1].Tag != VTString {
		ip.failNative("match() takes exactly one string argument (the pattern).")
	}
	src := stringReceiver(ip, args, "match")
	re, err := regexp2.Compile(args[1].Data.(string), 0)
	if err != nil {
		ip.failNative("match(): invalid pattern: %s", err.Error())
	}
	ok, err := re.MatchString(src)
	if err != nil {
		ip.failNative("match(): %s", err.Error())
	}
	return BoolVal(ok)
}

func nativeStringReplace(ip *Interpreter, args []Value) Value {
	if len(args) != 3 || args[1].Tag != VTString || args[2].Tag != VTString {
		ip.failNative("replace() takes two string arguments (pattern, replacement).")
	}
	src := stringReceiver(ip, args, "replace")
	re, err := regexp2.Compile(args[1].Data.(string), 0)
	if err != nil {
		ip.failNative("replace(): invalid pattern: %s", err.Error())
	}
	out, err := re.Replace(src, args[2].Data.(string), -1, -1)
	if err != nil {
		ip.failNative("replace(): %s", err.Error())
	}
	return StrVal(out)
}

// --- list methods -----------------------------------------------------------

func nativeListAppend(ip *Interpreter, args []Value) Value {
	if len(args) != 2 {
		ip.failNative("append() takes exactly one argument.")
	}
	if args[0].Tag != VTList {
		ip.failNative("append() must be called on a list.")
	}
	list := args[0].Data.(*ListObject)
	if list.IsFixed {
		ip.failNative("Cannot append to a fixed-size list.")
	}
	list.Items = append(list.Items, args[1])
	return Void
}

func nativeListJoin(ip *Interpreter, args []Value) Value {
	if len(args) != 2 {
		ip.failNative("join() takes exactly one argument (the delimiter).")
	}
	if args[0].Tag != VTList || args[1].Tag != VTString {
		ip.failNative("join() requires a list object and a string delimiter.")
	}
	list := args[0].Data.(*ListObject)
	delim := args[1].Data.(string)

	parts := make([]string, len(list.Items))
	for i, item := range list.Items {
		if item.Tag != VTString {
			ip.failNative("join() can only be called on a list of strings.")
		}
		parts[i] = item.Data.(string)
	}
	return StrVal(strings.Join(parts, delim))
}
