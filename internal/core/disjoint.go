package core

// DisjointSet is a union-find forest over dense integer ids.
type DisjointSet struct {
	parent []int
	rank   []uint8
}

// Add creates a new singleton set and returns its id.
func (d *DisjointSet) Add() int {
	id := len(d.parent)
	d.parent = append(d.parent, id)
	d.rank = append(d.rank, 0)
	return id
}

// Len returns the number of ids ever added.
func (d *DisjointSet) Len() int { return len(d.parent) }

// Find returns the representative of id's set.
func (d *DisjointSet) Find(id int) int {
	for d.parent[id] != id {
		d.parent[id] = d.parent[d.parent[id]]
		id = d.parent[id]
	}
	return id
}

// Union merges the sets holding a and b and reports whether they were
// distinct.
func (d *DisjointSet) Union(a, b int) bool {
	ra, rb := d.Find(a), d.Find(b)
	if ra == rb {
		return false
	}
	switch {
	case d.rank[ra] < d.rank[rb]:
		ra, rb = rb, ra
	case d.rank[ra] == d.rank[rb]:
		d.rank[ra]++
	}
	d.parent[rb] = ra
	return true
}
