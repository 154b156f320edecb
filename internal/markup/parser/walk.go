package parser

// PlainText concatenates all leaf text in document order, unescaped.
func PlainText(nodes []*Node) string {
	var out string
	Walk(nodes, func(n *Node, depth int) {
		out += n.Text
	})
	return out
}

// Walk visits every node depth-first in document order. depth counts
// enclosing wrappers.
func Walk(nodes []*Node, visit func(n *Node, depth int)) {
	walk(nodes, 0, visit)
}

func walk(nodes []*Node, depth int, visit func(n *Node, depth int)) {
	for _, n := range nodes {
		visit(n, depth)
		switch {
		case n.Fill != nil:
			walk(n.Fill.Body, depth+1, visit)
		case n.Rule != nil:
			walk(n.Rule.Body, depth+1, visit)
		}
	}
}

// CountFills returns the number of \fill wrappers in the tree.
func CountFills(nodes []*Node) int {
	count := 0
	Walk(nodes, func(n *Node, depth int) {
		if n.Fill != nil {
			count++
		}
	})
	return count
}

// CountRules returns the number of \rule wrappers in the tree.
func CountRules(nodes []*Node) int {
	count := 0
	Walk(nodes, func(n *Node, depth int) {
		if n.Rule != nil {
			count++
		}
	})
	return count
}

// MaxDepth returns the deepest wrapper nesting level in the tree.
func MaxDepth(nodes []*Node) int {
	max := 0
	Walk(nodes, func(n *Node, depth int) {
		if (n.Fill != nil || n.Rule != nil) && depth+1 > max {
			max = depth + 1
		}
	})
	return max
}
