// Package process builds and refreshes the process forest: the live,
// pid-indexed tree of every process the target filter currently cares
// about, plus enough of its invisible ancestry to keep the tree connected.
package process

import (
	"sort"

	"github.com/oprsmon/oprs/pkg/procfs"
)

// NodeID is a stable handle into the Forest's arena. It stays valid for the
// lifetime of the node it names (detach, reparent and sibling reordering
// never change it), and is only reused once the node it named has been
// removed — the same cheap-reparenting, stable-identity property an
// arena-backed tree gives a pointer-linked one without per-node heap churn.
type NodeID int

const noNode NodeID = -1

type node struct {
	info     Info
	parent   NodeID
	children []NodeID
	alive    bool
}

// Classifier decides whether a process is "useful": one the user actually
// asked to monitor. Processes that are not useful themselves are still
// kept in the tree as long as at least one of their descendants is, so the
// visible set always forms connected subtrees rooted at real ancestors.
type Classifier func(Info) bool

// Forest is the mutable, arena-indexed process tree. It is refreshed once
// per sampling tick; between refreshes its NodeIDs and parent/child
// relationships are stable and safe to read concurrently with rendering.
type Forest struct {
	reader *procfs.Reader
	nodes  []node
	free   []NodeID
	byPid  map[int]NodeID
	roots  []NodeID
}

// NewForest builds an empty forest that will read process state through
// reader.
func NewForest(reader *procfs.Reader) *Forest {
	return &Forest{reader: reader, byPid: make(map[int]NodeID)}
}

// Info returns the node's current Info and whether id still names a live
// node.
func (f *Forest) Info(id NodeID) (Info, bool) {
	if id < 0 || int(id) >= len(f.nodes) || !f.nodes[id].alive {
		return Info{}, false
	}
	return f.nodes[id].info, true
}

// Children returns id's children, already ordered ascending by pid.
func (f *Forest) Children(id NodeID) []NodeID {
	if id < 0 || int(id) >= len(f.nodes) || !f.nodes[id].alive {
		return nil
	}
	return f.nodes[id].children
}

// Parent returns id's parent, or (noNode, false) if id is a root.
func (f *Forest) Parent(id NodeID) (NodeID, bool) {
	if id < 0 || int(id) >= len(f.nodes) || !f.nodes[id].alive {
		return noNode, false
	}
	p := f.nodes[id].parent
	return p, p != noNode
}

// Roots returns the current root node ids, ordered ascending by node id.
func (f *Forest) Roots() []NodeID { return f.roots }

// Lookup finds the node currently tracking pid.
func (f *Forest) Lookup(pid int) (NodeID, bool) {
	id, ok := f.byPid[pid]
	return id, ok
}

// Walk visits every live node in the forest depth-first, roots in node-id
// order (see Roots) and each node's children in ascending pid order, the
// traversal the table renderer and text/export writers
// use to lay out rows.
func (f *Forest) Walk(visit func(id NodeID, depth int)) {
	var rec func(id NodeID, depth int)
	rec = func(id NodeID, depth int) {
		visit(id, depth)
		for _, child := range f.nodes[id].children {
			rec(child, depth+1)
		}
	}
	for _, root := range f.roots {
		rec(root, 0)
	}
}

// Refresh re-reads /proc and rebuilds the tree to match it: pids that died
// or were reused are dropped (refresh phase), new processes are read in
// (build phase), and the whole tree is pruned down to exactly the nodes
// that are useful themselves or an ancestor of one that is (prune phase).
//
// Unlike the original's single streaming pass over /proc with deferred
// "candidate" nodes awaiting adoption, this reads every candidate's Info
// into memory first and links it into a pid->children index before
// deciding visibility — the full parent chain is known up front, so
// there is no ordering constraint to work around and no node is ever
// provisionally discarded only to be needed a moment later.
func (f *Forest) Refresh(classify Classifier) (changed bool, err error) {
	before := make(map[int]int, len(f.byPid)) // pid -> parent pid, 0 if root
	for pid, id := range f.byPid {
		if f.nodes[id].parent == noNode {
			before[pid] = 0
		} else {
			before[pid] = f.nodes[f.nodes[id].parent].info.Pid
		}
	}

	pids, listErr := procfs.ListPids()
	if listErr != nil {
		return false, listErr
	}

	infos := make(map[int]Info, len(pids))
	for _, pid := range pids {
		var info Info
		if id, tracked := f.byPid[pid]; tracked {
			cur := f.nodes[id].info
			if refreshErr := cur.refresh(f.reader); refreshErr != nil {
				continue // pid died or was reused; simply absent from infos
			}
			info = cur
		} else {
			created, readErr := newInfo(f.reader, pid)
			if readErr != nil {
				continue // exited between listing and reading
			}
			info = created
		}
		info.Visible = classify(info)
		infos[pid] = info
	}

	childrenOf := make(map[int][]int, len(infos))
	for pid, info := range infos {
		if _, ok := infos[info.Ppid]; ok && info.Ppid != pid {
			childrenOf[info.Ppid] = append(childrenOf[info.Ppid], pid)
		}
	}
	for ppid := range childrenOf {
		sort.Ints(childrenOf[ppid])
	}

	keep := make(map[int]bool, len(infos))
	var markKeep func(pid int) bool
	markKeep = func(pid int) bool {
		if v, done := keep[pid]; done {
			return v
		}
		info := infos[pid]
		useful := info.Visible
		for _, child := range childrenOf[pid] {
			if markKeep(child) {
				useful = true
			}
		}
		keep[pid] = useful
		return useful
	}
	var roots []int
	for pid, info := range infos {
		if _, hasParent := infos[info.Ppid]; !hasParent || info.Ppid == pid {
			roots = append(roots, pid)
		}
	}
	sort.Ints(roots)
	for _, pid := range roots {
		markKeep(pid)
	}
	for pid := range infos {
		markKeep(pid)
	}

	f.rebuild(infos, childrenOf, keep, roots)

	after := make(map[int]int, len(f.byPid))
	for pid, id := range f.byPid {
		if f.nodes[id].parent == noNode {
			after[pid] = 0
		} else {
			after[pid] = f.nodes[f.nodes[id].parent].info.Pid
		}
	}
	changed = len(before) != len(after)
	if !changed {
		for pid, parent := range after {
			if before[pid] != parent {
				changed = true
				break
			}
		}
	}
	return changed, nil
}

// rebuild replaces the arena's alive node set to exactly the kept pids,
// reusing existing NodeIDs (and their identity) for pids that survive the
// tick, and recycling the slots of pids that did not.
func (f *Forest) rebuild(infos map[int]Info, childrenOf map[int][]int, keep map[int]bool, sortedRoots []int) {
	for pid, id := range f.byPid {
		if !keep[pid] {
			f.free = append(f.free, id)
			f.nodes[id] = node{}
			delete(f.byPid, pid)
		}
	}

	for pid, info := range infos {
		if !keep[pid] {
			continue
		}
		if id, ok := f.byPid[pid]; ok {
			f.nodes[id].info = info
		} else {
			f.byPid[pid] = f.alloc(info)
		}
	}

	f.roots = f.roots[:0]
	for _, pid := range sortedRoots {
		if keep[pid] {
			f.roots = append(f.roots, f.byPid[pid])
		}
	}
	sort.Slice(f.roots, func(i, j int) bool { return f.roots[i] < f.roots[j] })

	for pid, id := range f.byPid {
		kids := childrenOf[pid]
		childIDs := make([]NodeID, 0, len(kids))
		for _, kid := range kids {
			if keep[kid] {
				childIDs = append(childIDs, f.byPid[kid])
			}
		}
		f.nodes[id].children = childIDs

		info := infos[pid]
		if parentID, ok := f.byPid[info.Ppid]; ok && info.Ppid != pid {
			f.nodes[id].parent = parentID
		} else {
			f.nodes[id].parent = noNode
		}
	}
}

func (f *Forest) alloc(info Info) NodeID {
	if n := len(f.free); n > 0 {
		id := f.free[n-1]
		f.free = f.free[:n-1]
		f.nodes[id] = node{info: info, parent: noNode, alive: true}
		return id
	}
	f.nodes = append(f.nodes, node{info: info, parent: noNode, alive: true})
	return NodeID(len(f.nodes) - 1)
}
