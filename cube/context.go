package cube

// Slot is one visible binding of a Context, as enumerated by Slots.
type Slot struct {
	Name  string
	Depth int
	Value Value

	// Imported marks bindings copied in from an enclosing scope at
	// instantiation time, as opposed to ones produced by executing
	// declarations. Diagnostic only.
	Imported bool
}

type slotRec struct {
	value    Value
	depth    int
	imported bool
}

type shadowRec struct {
	name    string
	prev    slotRec
	existed bool
}

// Context is a name-keyed value store with a lexical depth per slot. The
// script root scope is a Context, every function call gets one, and every
// class instance owns exactly one for its lifetime. Nested blocks do not
// allocate a new Context; they raise the depth counter and unwind their slots
// on exit, so a slot's depth records the block nesting it was declared at.
//
// A Context is not safe for concurrent use.
type Context struct {
	parent *Context

	// owner is set on a context that serves as an instance's private scope;
	// assignments that land on such a context go through the property
	// interception protocol.
	owner *Instance

	depth  int
	order  []string
	slots  map[string]slotRec
	shadow []shadowRec
}

func newContext(parent *Context) *Context {
	return &Context{parent: parent, slots: make(map[string]slotRec)}
}

// Define binds name at the context's current depth, shadowing any same-named
// slot from a shallower depth until the enclosing block exits.
func (c *Context) Define(name string, v Value) {
	c.defineSlot(name, slotRec{value: v, depth: c.depth})
}

// defineImported binds a snapshot-copied value at depth 0 with the imported
// marker set.
func (c *Context) defineImported(name string, v Value) {
	c.defineSlot(name, slotRec{value: v, imported: true})
}

func (c *Context) defineSlot(name string, rec slotRec) {
	prev, existed := c.slots[name]
	if existed && prev.depth < c.depth {
		c.shadow = append(c.shadow, shadowRec{name: name, prev: prev, existed: true})
	} else if !existed {
		if c.depth > 0 {
			c.shadow = append(c.shadow, shadowRec{name: name, existed: false})
		}
		c.order = append(c.order, name)
	}
	c.slots[name] = rec
}

// GetOwn reads a slot of this context only, without walking the parent chain.
func (c *Context) GetOwn(name string) (Value, bool) {
	rec, ok := c.slots[name]
	if !ok {
		return Value{}, false
	}
	return rec.value, true
}

func (c *Context) hasOwn(name string) bool {
	_, ok := c.slots[name]
	return ok
}

// Get resolves name through this context and its parents.
func (c *Context) Get(name string) (Value, bool) {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if rec, ok := ctx.slots[name]; ok {
			return rec.value, true
		}
	}
	return Value{}, false
}

// resolve returns the context in the parent chain that owns name, or nil.
func (c *Context) resolve(name string) *Context {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if _, ok := ctx.slots[name]; ok {
			return ctx
		}
	}
	return nil
}

// setOwn updates an existing slot in place, preserving its depth and imported
// marker. The slot must exist.
func (c *Context) setOwn(name string, v Value) {
	rec := c.slots[name]
	rec.value = v
	c.slots[name] = rec
}

// enterBlock raises the depth counter and returns a mark for exitBlock.
func (c *Context) enterBlock() int {
	c.depth++
	return len(c.shadow)
}

// exitBlock unwinds slots declared since the matching enterBlock, restoring
// any bindings they shadowed.
func (c *Context) exitBlock(mark int) {
	for len(c.shadow) > mark {
		rec := c.shadow[len(c.shadow)-1]
		c.shadow = c.shadow[:len(c.shadow)-1]
		if rec.existed {
			c.slots[rec.name] = rec.prev
		} else {
			delete(c.slots, rec.name)
			c.dropFromOrder(rec.name)
		}
	}
	c.depth--
}

func (c *Context) dropFromOrder(name string) {
	for i := len(c.order) - 1; i >= 0; i-- {
		if c.order[i] == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// Slots enumerates this context's own bindings in definition order, with
// their lexical depth and imported marker.
func (c *Context) Slots() []Slot {
	out := make([]Slot, 0, len(c.slots))
	for _, name := range c.order {
		rec, ok := c.slots[name]
		if !ok {
			continue
		}
		out = append(out, Slot{Name: name, Depth: rec.depth, Value: rec.value, Imported: rec.imported})
	}
	return out
}
