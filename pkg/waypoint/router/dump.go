package router

import (
	"fmt"
	"strings"
)

// Dump renders the stack as text, bottom entry first, marking the current entry.
func (c *Controller) Dump() string {
	var b strings.Builder

	name := c.key
	if name == "" {
		name = c.scopeID
	}
	fmt.Fprintf(&b, "controller %s (%s) depth=%d direction=%s\n", name, c.mode, c.stack.Len(), c.direction)

	for i, e := range c.stack.Entries() {
		marker := " "
		if i == c.stack.Len()-1 {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %d %s id=%s", marker, i, e.destination, e.id)
		if e.args != nil {
			fmt.Fprintf(&b, " args=%v", e.args)
		}
		if e.result != nil {
			fmt.Fprintf(&b, " result=%v", e.result)
		}
		b.WriteString("\n")
	}
	return b.String()
}
