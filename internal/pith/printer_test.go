package pith

import "testing"

// roundtrip formats a program, reparses it, and formats again; the two
// canonical forms must be identical.
func roundtrip(t *testing.T, src string) {
	t.Helper()
	first, err := Parse(src)
	if err != nil {
		t.Fatalf("parse: %v\nsource:\n%s", err, src)
	}
	canon := FormatProgram(first)
	second, err := Parse(canon)
	if err != nil {
		t.Fatalf("reparse: %v\ncanonical:\n%s", err, canon)
	}
	again := FormatProgram(second)
	if canon != again {
		t.Fatalf("canonical form not stable\nfirst:\n%s\nsecond:\n%s", canon, again)
	}
}

func TestRoundtripExpressions(t *testing.T) {
	roundtrip(t, "print(1 + 2 * 3)\nprint((1 + 2) * 3)\nprint(2 ^ 3 ^ 2)\n")
	roundtrip(t, "x = -y + !z\n")
	roundtrip(t, `s = "a\nb\"c\\d"`+"\n")
	roundtrip(t, "xs = [1, 2.5, \"three\", [4]]\n")
	roundtrip(t, "m = {\"a\": 1, \"b\": {\"c\": 2}}\n")
	roundtrip(t, "v = obj.field[0](1, 2).next\n")
}

func TestRoundtripStatements(t *testing.T) {
	roundtrip(t, `int x = 1
list<int> xs = [1, 2]
map<string,int> m = {}
int[5] arr
Foo f
import "math"
`)
	roundtrip(t, `if a:
    x()
elif b:
    y()
else:
    z()
`)
	roundtrip(t, `while x < 10:
    x = x + 1
    if x == 5:
        continue
    if x == 8:
        break
`)
	roundtrip(t, `for (int i = 0; i < 3; i = i + 1):
    print(i)
`)
	roundtrip(t, `foreach (int v in xs):
    print(v)
`)
	roundtrip(t, `do:
    step()
while (going)
`)
}

func TestRoundtripDefinitions(t *testing.T) {
	roundtrip(t, `define int add(int a, int b):
    return a + b
class B extends A:
    int x
    list<string> names
    define speak():
        pass
class Empty:
    pass
`)
	roundtrip(t, `switch(x):
    case 1:
        a()
        break
    case 2:
    default:
        c()
`)
}

func TestRenderValues(t *testing.T) {
	ip, _ := testInterp()

	cases := []struct {
		src  string
		want string
	}{
		{"42", "42"},
		{"-1", "-1"},
		{"1.5", "1.500000"},
		{`"hi"`, "hi"},
		{"true", "true"},
		{"false", "false"},
		{"[1, 2, 3]", "[1, 2, 3]"},
		{`[[1], "x"]`, "[[1], x]"},
		{`{"a": 1, "b": 2}`, "{a: 1, b: 2}"},
	}
	for _, tc := range cases {
		val, _, err := ip.EvalLine(tc.src)
		if err != nil {
			t.Fatalf("%s: %v", tc.src, err)
		}
		if got := RenderValue(val); got != tc.want {
			t.Fatalf("render %s: got %q want %q", tc.src, got, tc.want)
		}
	}
}

func TestRenderCompoundValues(t *testing.T) {
	ip, _ := testInterp()
	src := `class Point:
    int x
define int f():
    return 1
Point p = new Point()
`
	if err := ip.Run(src); err != nil {
		t.Fatal(err)
	}
	if v, _ := ip.Global("Point"); RenderValue(v) != "<class Point>" {
		t.Fatalf("class render: %q", RenderValue(v))
	}
	if v, _ := ip.Global("f"); RenderValue(v) != "<function f>" {
		t.Fatalf("function render: %q", RenderValue(v))
	}
	if v, _ := ip.Global("p"); RenderValue(v) != "<instance of Point>" {
		t.Fatalf("instance render: %q", RenderValue(v))
	}
}
