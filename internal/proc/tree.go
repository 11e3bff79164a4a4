package proc

// MaxAncestorHops bounds ancestor walks so inconsistent parent ids can
// never produce an unbounded chain.
const MaxAncestorHops = 10

// Tree links snapshot records into a parent->children adjacency keyed by
// pid. A record whose parent pid is absent from the snapshot is a root.
// Trees are built once per resolution and read-only afterwards.
type Tree struct {
	records  map[int]Record
	children map[int][]int
}

// NewTree builds a tree from a flat snapshot. A duplicate pid keeps the
// first record seen so each process appears exactly once.
func NewTree(records []Record) *Tree {
	t := &Tree{
		records:  make(map[int]Record, len(records)),
		children: make(map[int][]int),
	}

	for _, r := range records {
		if _, seen := t.records[r.PID]; seen {
			continue
		}
		t.records[r.PID] = r
	}

	// Adjacency in snapshot order keeps walks deterministic.
	for _, r := range records {
		if r.PID == r.PPID {
			continue // self-parented rows would form a trivial cycle
		}
		if _, ok := t.records[r.PPID]; ok {
			t.children[r.PPID] = append(t.children[r.PPID], r.PID)
		}
	}

	return t
}

// Get returns the record for a pid.
func (t *Tree) Get(pid int) (Record, bool) {
	r, ok := t.records[pid]
	return r, ok
}

// Len returns the number of records in the tree.
func (t *Tree) Len() int { return len(t.records) }

// Descendants collects every process below pid, depth-unbounded but
// guarded by a visited set so malformed parent links cannot loop. The
// starting pid is never included in the result.
func (t *Tree) Descendants(pid int) []Record {
	visited := map[int]bool{pid: true}
	var out []Record

	var walk func(int)
	walk = func(p int) {
		for _, child := range t.children[p] {
			if visited[child] {
				continue
			}
			visited[child] = true
			out = append(out, t.records[child])
			walk(child)
		}
	}
	walk(pid)

	return out
}

// AncestorChain returns the ancestry of pid ordered from the oldest
// reachable ancestor down to pid itself, capped at maxHops entries.
func (t *Tree) AncestorChain(pid, maxHops int) []Record {
	if maxHops <= 0 {
		maxHops = MaxAncestorHops
	}

	seen := make(map[int]bool)
	var chain []Record

	current := pid
	for len(chain) < maxHops {
		if seen[current] {
			break // loop protection
		}
		seen[current] = true

		r, ok := t.records[current]
		if !ok {
			break
		}
		chain = append(chain, r)
		current = r.PPID
	}

	// Collected child-first; the command chain reads oldest-first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
