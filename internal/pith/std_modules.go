// std_modules.go — the math, io, and sys native modules.
package pith

import (
	"math"
	"os"
)

func registerNativeModules(ip *Interpreter) {
	ip.RegisterModule("math", map[string]NativeFn{
		"sqrt":  mathUnary("sqrt", math.Sqrt),
		"sin":   mathUnary("sin", math.Sin),
		"cos":   mathUnary("cos", math.Cos),
		"tan":   mathUnary("tan", math.Tan),
		"floor": mathUnary("floor", math.Floor),
		"ceil":  mathUnary("ceil", math.Ceil),
		"log":   mathUnary("log", math.Log),
	})

	ip.RegisterModule("io", map[string]NativeFn{
		"read_file":  nativeIOReadFile,
		"write_file": nativeIOWriteFile,
	})

	ip.RegisterModule("sys", map[string]NativeFn{
		"exit": nativeSysExit,
	})
}

func mathUnary(name string, fn func(float64) float64) NativeFn {
	return func(ip *Interpreter, args []Value) Value {
		if len(args) != 1 {
			ip.failNative("%s() takes exactly one argument.", name)
		}
		switch args[0].Tag {
		case VTInt:
			return FloatVal(fn(float64(args[0].Data.(int32))))
		case VTFloat:
			return FloatVal(fn(args[0].Data.(float64)))
		}
		ip.failNative("%s() argument must be a number.", name)
		return Void
	}
}

func nativeIOReadFile(ip *Interpreter, args []Value) Value {
	if len(args) != 1 || args[0].Tag != VTString {
		ip.failNative("read_file() takes exactly one string argument (the path).")
	}
	data, err := os.ReadFile(args[0].Data.(string))
	if err != nil {
		return Void
	}
	return StrVal(string(data))
}

func nativeIOWriteFile(ip *Interpreter, args []Value) Value {
	if len(args) != 2 || args[0].Tag != VTString || args[1].Tag != VTString {
		ip.failNative("write_file() takes two string arguments (path, content).")
	}
	err := os.WriteFile(args[0].Data.(string), []byte(args[1].Data.(string)), 0o644)
	return BoolVal(err == nil)
}

func nativeSysExit(ip *Interpreter, args []Value) Value {
	if len(args) != 1 || args[0].Tag != VTInt {
		ip.failNative("exit() takes exactly one integer argument (the exit code).")
	}
	os.Exit(int(args[0].Data.(int32)))
	return Void
}
