// gc.go — mark-and-sweep reclamation over the global object chain.
//
// Every heap object is linked into one intrusive chain at allocation time.
// Roots are: the global environment chain head, the three native registries,
// the temporary root stack, and the scope heads of every active evaluator
// frame. Collection runs synchronously at allocator entry once the byte
// counter crosses the threshold; after each such cycle the threshold resets
// to max(minHeap, 2 × live bytes). Sweeping unlinks unmarked objects and drops
// their owned buffers; the mark bit is cleared on survivors so it is zero
// between cycles.
package pith

import (
	"fmt"
	"os"
)

const (
	gcMinHeap      = 64 * 1024
	gcMaxTempRoots = 256
)

// Approximate per-object footprints for the allocation counter.
const (
	sizeBinding  = 64
	sizeListBase = 56
	sizeListSlot = 24
	sizeMap      = 96
	sizeFunc     = 64
	sizeModule   = 48
	sizeClass    = 96
	sizeInstance = 48
	sizeBound    = 48
)

// GC owns the object chain and the root set.
type GC struct {
	objects heapObject
	bytes   int
	next    int

	temp   []Value  // temporary root stack (fixed maximum depth)
	frames []*scope // active evaluator scope handles

	globals    *scope
	registries []*MapObject
}

func newGC(globals *scope) *GC {
	return &GC{
		next:    gcMinHeap,
		temp:    make([]Value, 0, gcMaxTempRoots),
		globals: globals,
	}
}

// --- allocation -------------------------------------------------------------

// track links a freshly constructed object into the chain, collecting first
// when the byte counter would cross the threshold.
func (g *GC) track(o heapObject, kind ObjKind, size int) {
	if g.bytes+size > g.next {
		g.collect()
		g.next = g.bytes * 2
		if g.next < gcMinHeap {
			g.next = gcMinHeap
		}
	}
	h := o.hdr()
	h.kind = kind
	h.size = size
	h.next = g.objects
	g.objects = o
	g.bytes += size
}

func (g *GC) newBinding(name string, val Value, next *Binding) *Binding {
	b := &Binding{Name: name, Val: val, Next: next}
	g.track(b, ObjEnv, sizeBinding)
	return b
}

func (g *GC) newList(capacity int) *ListObject {
	l := &ListObject{Items: make([]Value, 0, capacity), ElemType: VTVoid}
	g.track(l, ObjList, sizeListBase+capacity*sizeListSlot)
	return l
}

func (g *GC) newFixedList(size int, elemType ValueTag) *ListObject {
	l := &ListObject{Items: make([]Value, size), IsFixed: true, ElemType: elemType}
	for i := range l.Items {
		l.Items[i] = Void
	}
	g.track(l, ObjList, sizeListBase+size*sizeListSlot)
	return l
}

func (g *GC) newMap(keyType, valType ValueTag) *MapObject {
	m := &MapObject{Entries: make(map[string]Value), KeyType: keyType, ValType: valType}
	g.track(m, ObjMap, sizeMap)
	return m
}

func (g *GC) newFunc(name string, body *Node, env *Binding, owner *Class) *Function {
	f := &Function{Name: name, Body: body, Env: env, Owner: owner}
	g.track(f, ObjFunc, sizeFunc)
	return f
}

func (g *GC) newModule(name string, members *MapObject) *Module {
	m := &Module{Name: name, Members: members}
	g.track(m, ObjModule, sizeModule)
	return m
}

func (g *GC) newClass(name string, methods *MapObject, parent *Class) *Class {
	c := &Class{Name: name, Methods: methods, Parent: parent}
	g.track(c, ObjClass, sizeClass)
	return c
}

func (g *GC) newInstance(class *Class, fields *MapObject) *Instance {
	i := &Instance{Class: class, Fields: fields}
	g.track(i, ObjInstance, sizeInstance)
	return i
}

func (g *GC) newBoundMethod(receiver, method Value) *BoundMethod {
	b := &BoundMethod{Receiver: receiver, Method: method}
	g.track(b, ObjBoundMethod, sizeBound)
	return b
}

// --- roots ------------------------------------------------------------------

// pushRoot registers a value held only on the evaluator's own call stack for
// the duration of a potentially allocating construction. Overflow is fatal.
func (g *GC) pushRoot(v Value) {
	if len(g.temp) >= gcMaxTempRoots {
		fmt.Fprintln(os.Stderr, "Fatal: temporary root stack overflow.")
		os.Exit(1)
	}
	g.temp = append(g.temp, v)
}

func (g *GC) popRoot() {
	g.temp = g.temp[:len(g.temp)-1]
}

func (g *GC) popRoots(n int) {
	g.temp = g.temp[:len(g.temp)-n]
}

// tempDepth reports the current temporary root stack depth; it must return
// to zero between top-level statements.
func (g *GC) tempDepth() int { return len(g.temp) }

// pushFrame registers the scope handle of an evaluator call frame so the
// chain it points at stays reachable while the frame is live.
func (g *GC) pushFrame(sc *scope) { g.frames = append(g.frames, sc) }

func (g *GC) popFrame() { g.frames = g.frames[:len(g.frames)-1] }

// resetRoots clears the temporary root and frame stacks after an aborted
// evaluation so the interactive driver can resume cleanly.
func (g *GC) resetRoots() {
	g.temp = g.temp[:0]
	g.frames = g.frames[:0]
}

// --- mark -------------------------------------------------------------------

func (g *GC) markValue(v Value) {
	switch v.Tag {
	case VTList:
		g.markObject(v.Data.(*ListObject))
	case VTMap:
		g.markObject(v.Data.(*MapObject))
	case VTFunc:
		g.markObject(v.Data.(*Function))
	case VTModule:
		g.markObject(v.Data.(*Module))
	case VTClass:
		g.markObject(v.Data.(*Class))
	case VTInstance:
		g.markObject(v.Data.(*Instance))
	case VTBoundMethod:
		g.markObject(v.Data.(*BoundMethod))
	}
}

func (g *GC) markObject(o heapObject) {
	if o == nil {
		return
	}
	h := o.hdr()
	if h == nil || h.marked {
		return
	}
	h.marked = true
	o.trace(g)
}

func (g *GC) markRoots() {
	if g.globals != nil && g.globals.head != nil {
		g.markObject(g.globals.head)
	}
	for _, reg := range g.registries {
		g.markObject(reg)
	}
	for _, v := range g.temp {
		g.markValue(v)
	}
	for _, sc := range g.frames {
		if sc.head != nil {
			g.markObject(sc.head)
		}
	}
}

// --- sweep ------------------------------------------------------------------

func (g *GC) sweep() {
	var prev heapObject
	obj := g.objects
	for obj != nil {
		h := obj.hdr()
		next := h.next
		if !h.marked {
			g.bytes -= h.size
			obj.release()
			h.next = nil
			if prev == nil {
				g.objects = next
			} else {
				prev.hdr().next = next
			}
		} else {
			h.marked = false
			prev = obj
		}
		obj = next
	}
}

// collect runs one full mark-and-sweep cycle.
func (g *GC) collect() {
	g.markRoots()
	g.sweep()
}

// teardown sweeps with no preceding mark, releasing every remaining object.
func (g *GC) teardown() {
	for obj := g.objects; obj != nil; obj = obj.hdr().next {
		obj.hdr().marked = false
	}
	g.sweep()
}

// objectCount walks the chain; each live object appears exactly once.
func (g *GC) objectCount() int {
	n := 0
	for obj := g.objects; obj != nil; obj = obj.hdr().next {
		n++
	}
	return n
}
