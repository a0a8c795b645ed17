package planner

import (
	"container/heap"
	"math"

	"drone-flightpath/internal/geometry"
)

// stateKey identifies a search state: a position snapped to the revisit grid
// plus whether the central area has been entered.
type stateKey struct {
	x, y   int64
	inArea bool
}

// node represents a state in the A* search
type node struct {
	pos    geometry.Position
	move   geometry.Move // move that reached pos
	inArea bool
	key    stateKey
	g      float64 // cost from start to this node
	h      float64 // heuristic cost from this node to the destination
	f      float64 // g + h
	seq    int     // insertion order, follows heading order within an expansion
	parent *node
	index  int // index in the heap
}

// priorityQueue implements heap.Interface ordered by f, then h, then insertion order
type priorityQueue []*node

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	a, b := pq[i], pq[j]
	if a.f != b.f {
		return a.f < b.f
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.seq < b.seq
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	n := x.(*node)
	n.index = len(*pq)
	*pq = append(*pq, n)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// candidateMoves are tried in this order from every state
var candidateMoves = append(append([]geometry.Move{}, geometry.Headings...), geometry.Hover)

// search runs A* from start. The caller has already checked the start
// preconditions.
func (p *Planner) search(start, dest geometry.Position) (Path, Stats) {
	var stats Stats

	root := &node{
		pos:    start,
		move:   geometry.Hover,
		inArea: geometry.IsInRegion(start, p.centralArea),
		h:      geometry.Distance(start, dest),
	}
	root.f = root.h
	root.key = p.keyFor(root.pos, root.inArea)

	openSet := &priorityQueue{}
	heap.Init(openSet)
	heap.Push(openSet, root)

	openSetMap := map[stateKey]*node{root.key: root}
	closedSet := make(map[stateKey]bool)
	seq := 0

	for openSet.Len() > 0 {
		current := heap.Pop(openSet).(*node)
		delete(openSetMap, current.key)

		if geometry.IsClose(current.pos, dest) {
			return reconstruct(current), stats
		}

		if stats.Expansions >= p.maxExpansions {
			stats.BoundReached = true
			return nil, stats
		}
		stats.Expansions++
		closedSet[current.key] = true

		for _, move := range candidateMoves {
			next := current.pos.Apply(move)

			// Once inside the central area the drone may not leave it.
			nextInArea := geometry.IsInRegion(next, p.centralArea)
			if current.inArea && !nextInArea {
				continue
			}

			inArea := current.inArea || nextInArea
			key := p.keyFor(next, inArea)
			if closedSet[key] || p.blocked(current.pos, next) {
				continue
			}

			tentativeG := current.g + geometry.StepLength

			if existing, ok := openSetMap[key]; ok {
				if tentativeG < existing.g {
					// Found a cheaper way into this state
					existing.pos = next
					existing.move = move
					existing.g = tentativeG
					existing.h = geometry.Distance(next, dest)
					existing.f = existing.g + existing.h
					existing.parent = current
					heap.Fix(openSet, existing.index)
				}
				continue
			}

			seq++
			stats.Generated++
			n := &node{
				pos:    next,
				move:   move,
				inArea: inArea,
				key:    key,
				g:      tentativeG,
				h:      geometry.Distance(next, dest),
				seq:    seq,
				parent: current,
			}
			n.f = n.g + n.h
			heap.Push(openSet, n)
			openSetMap[key] = n
		}
	}

	// No path found
	return nil, stats
}

// blocked reports whether the move from -> to ends in or passes through a
// no-fly zone.
func (p *Planner) blocked(from, to geometry.Position) bool {
	return p.zones.Contains(to) || p.zones.Crosses(from, to)
}

func (p *Planner) keyFor(pos geometry.Position, inArea bool) stateKey {
	return stateKey{
		x:      int64(math.Round(pos.Lng / p.revisitTolerance)),
		y:      int64(math.Round(pos.Lat / p.revisitTolerance)),
		inArea: inArea,
	}
}

// reconstruct walks parent links back to the root
func reconstruct(n *node) Path {
	var path Path
	for ; n.parent != nil; n = n.parent {
		path = append(path, Step{From: n.parent.pos, Move: n.move, To: n.pos})
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
