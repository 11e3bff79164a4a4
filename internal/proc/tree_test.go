package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(pid, ppid int, command string) Record {
	return Record{PID: pid, PPID: ppid, PGID: pid, SID: 1, State: "S", Command: command}
}

func TestTreeRootsAndChildren(t *testing.T) {
	tree := NewTree([]Record{
		rec(10, 1, "-zsh"), // parent outside snapshot => root
		rec(20, 10, "npm run build"),
		rec(30, 20, "node build.js"),
		rec(40, 10, "tail -f log"),
	})

	assert.Equal(t, 4, tree.Len())

	_, ok := tree.Get(10)
	assert.True(t, ok)
	_, ok = tree.Get(99)
	assert.False(t, ok)

	descendants := tree.Descendants(10)
	pids := make([]int, 0, len(descendants))
	for _, d := range descendants {
		pids = append(pids, d.PID)
	}
	assert.Equal(t, []int{20, 30, 40}, pids)
}

func TestDescendantsNeverIncludeRootOrDuplicates(t *testing.T) {
	// A pid listing itself as its own parent must not loop or appear in
	// its own descendant set.
	tree := NewTree([]Record{
		rec(10, 10, "self-parented"),
		rec(20, 10, "child"),
	})

	descendants := tree.Descendants(10)
	require.Len(t, descendants, 1)
	assert.Equal(t, 20, descendants[0].PID)
}

func TestDescendantsCycleGuard(t *testing.T) {
	// 10 -> 20 -> 30 -> 10 parent cycle.
	tree := NewTree([]Record{
		rec(10, 30, "a"),
		rec(20, 10, "b"),
		rec(30, 20, "c"),
	})

	descendants := tree.Descendants(10)
	seen := make(map[int]bool)
	for _, d := range descendants {
		assert.NotEqual(t, 10, d.PID, "starting pid must not appear")
		assert.False(t, seen[d.PID], "pid %d collected twice", d.PID)
		seen[d.PID] = true
	}
	assert.Len(t, descendants, 2)
}

func TestDuplicatePIDKeepsFirstRecord(t *testing.T) {
	tree := NewTree([]Record{
		rec(10, 1, "first"),
		rec(10, 1, "second"),
	})

	assert.Equal(t, 1, tree.Len())
	r, _ := tree.Get(10)
	assert.Equal(t, "first", r.Command)
}

func TestAncestorChain(t *testing.T) {
	tree := NewTree([]Record{
		rec(10, 1, "login"),
		rec(20, 10, "-zsh"),
		rec(30, 20, "npm run dev"),
		rec(40, 30, "node server.js"),
	})

	chain := tree.AncestorChain(40, MaxAncestorHops)
	names := make([]string, 0, len(chain))
	for _, r := range chain {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{"login", "-zsh", "npm", "node"}, names, "oldest ancestor first")
}

func TestAncestorChainCapped(t *testing.T) {
	records := []Record{rec(1, 0, "init")}
	for pid := 2; pid <= 30; pid++ {
		records = append(records, rec(pid, pid-1, "step"))
	}
	tree := NewTree(records)

	chain := tree.AncestorChain(30, MaxAncestorHops)
	assert.Len(t, chain, MaxAncestorHops)
	assert.Equal(t, 30, chain[len(chain)-1].PID, "chain ends at the queried pid")
}

func TestAncestorChainCycleGuard(t *testing.T) {
	tree := NewTree([]Record{
		rec(10, 20, "a"),
		rec(20, 10, "b"),
	})

	chain := tree.AncestorChain(10, MaxAncestorHops)
	assert.Len(t, chain, 2)
}
