package datastructure

// ConnectedComponents label every node with the id of its connected component over the routable roads.
// components are numbered in order of their lowest node id. nodes without a routable road form their own component.
func (m *RouteModel) ConnectedComponents() ([]int32, int) {
	n := len(m.nodes)
	component := make([]int32, n)
	for i := range component {
		component[i] = -1
	}

	count := int32(0)
	stack := make([]int32, 0)
	for v := int32(0); v < int32(n); v++ {
		if component[v] != -1 {
			continue
		}

		component[v] = count
		stack = append(stack[:0], v)
		for len(stack) > 0 {
			curr := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			for _, w := range m.FindNeighbors(curr) {
				if component[w] == -1 {
					component[w] = count
					stack = append(stack, w)
				}
			}
		}
		count++
	}

	return component, int(count)
}
