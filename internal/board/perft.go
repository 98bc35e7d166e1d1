package board

// Perft counts the leaf nodes of the legal move tree at the given depth.
// The pooled move lists keep the recursion allocation-free; pass one pool
// per goroutine.
func Perft(p *Position, depth int, pool *MoveListPool) uint64 {
	if depth == 0 {
		return 1
	}
	list := pool.Get()
	defer pool.Put(list)

	p.GenerateMoves(list)
	if depth == 1 {
		return uint64(list.Len())
	}

	var nodes uint64
	for i := 0; i < list.Len(); i++ {
		m := list.Get(i)
		p.MakeMove(&m)
		nodes += Perft(p, depth-1, pool)
		p.UnmakeMove(&m)
	}
	return nodes
}

// DivideEntry pairs a root move with its subtree leaf count.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// Divide returns the perft count split per root move, the standard tool for
// locating move-generation bugs, plus the total.
func Divide(p *Position, depth int, pool *MoveListPool) ([]DivideEntry, uint64) {
	list := pool.Get()
	defer pool.Put(list)

	p.GenerateMoves(list)
	entries := make([]DivideEntry, 0, list.Len())
	var total uint64
	for i := 0; i < list.Len(); i++ {
		m := list.Get(i)
		p.MakeMove(&m)
		nodes := Perft(p, depth-1, pool)
		p.UnmakeMove(&m)
		entries = append(entries, DivideEntry{Move: m, Nodes: nodes})
		total += nodes
	}
	return entries, total
}
