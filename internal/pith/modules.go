// modules.go — import resolution and module snapshots.
//
// `import "name"` resolves through the configured SourceLoader: first
// stdlib/<name>.pith, then <name>.pith. When a native module of the same
// name is registered, its functions are merged into the module environment
// before the script runs, so script code can shadow them. The resulting
// bindings are snapshotted into the module's member map (nearest binding
// wins) and the module is bound under the import name in the current scope.
package pith

import "os"

// SourceLoader maps a module file name to source text.
type SourceLoader interface {
	Load(name string) (string, bool)
}

// FileLoader reads modules from the current directory.
type FileLoader struct{}

// Load returns the file's contents, or false when it cannot be read.
func (FileLoader) Load(name string) (string, bool) {
	data, err := os.ReadFile(name)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// MemoryLoader serves modules from an in-memory table (tests, embedding).
type MemoryLoader map[string]string

func (m MemoryLoader) Load(name string) (string, bool) {
	src, ok := m[name]
	return src, ok
}

func (ip *Interpreter) execImport(n *Node, sc *scope) {
	name := n.Value

	src, found := ip.loader.Load("stdlib/" + name + ".pith")
	if !found {
		src, found = ip.loader.Load(name + ".pith")
	}

	modScope := &scope{}
	ip.gc.pushFrame(modScope)
	defer ip.gc.popFrame()

	// Natives first: script bindings prepend later and take precedence.
	if nv := ip.moduleFuncs.get(name); nv.Tag == VTMap {
		funcs := nv.Data.(*MapObject)
		for _, key := range funcs.Keys {
			modScope.head = ip.gc.newBinding(key, funcs.Entries[key], modScope.head)
		}
	}

	if found {
		root, err := Parse(src)
		if err != nil {
			ip.failf(n.Line, "In module '%s': %s", name, err.Error())
		}
		for _, stmt := range root.Children {
			ip.execStmt(stmt, modScope)
		}
	}

	members := ip.gc.newMap(VTString, VTVoid)
	ip.gc.pushRoot(Value{Tag: VTMap, Data: members})
	module := ip.gc.newModule(name, members)
	ip.gc.popRoot()
	modVal := Value{Tag: VTModule, Data: module}
	ip.gc.pushRoot(modVal)

	for b := modScope.head; b != nil; b = b.Next {
		if _, exists := members.Entries[b.Name]; !exists {
			members.set(b.Name, b.Val)
		}
	}

	ip.envDefine(sc, name, modVal)
	ip.gc.popRoot()
}
