package dag

// Depth returns the number of edges on the longest cycle-free path from id.
func (g *Graph) Depth(id string) int {
	memo := make(map[string]int)
	onPath := make(map[string]bool)

	var walk func(string) int
	walk = func(n string) int {
		if v, ok := memo[n]; ok {
			return v
		}
		onPath[n] = true
		best := 0
		for _, c := range g.children[n] {
			if !onPath[c] {
				best = max(best, walk(c)+1)
			}
		}
		onPath[n] = false
		memo[n] = best
		return best
	}
	return walk(id)
}

// Reachable returns the IDs reachable from id, excluding id, in
// breadth-first order.
func (g *Graph) Reachable(id string) []string {
	seen := map[string]bool{id: true}
	var out []string
	for queue := []string{id}; len(queue) > 0; queue = queue[1:] {
		for _, c := range g.children[queue[0]] {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
				queue = append(queue, c)
			}
		}
	}
	return out
}

// MaxOutDegree returns the widest fan-out among id and everything below it.
func (g *Graph) MaxOutDegree(id string) int {
	best := g.OutDegree(id)
	for _, n := range g.Reachable(id) {
		best = max(best, g.OutDegree(n))
	}
	return best
}
