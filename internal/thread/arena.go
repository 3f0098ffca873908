// Package thread builds comment trees and flattens reply threads.
//
// Comments of a post are loaded once into an Arena: a flat slice of records
// linked by parent and child indexes. All walks are iterative, so thread depth
// is bounded by memory only, and every walk keeps a visited set so corrupt
// parent links (self references, cycles) cannot loop forever.
package thread

import (
	"sort"

	"github.com/Radhe743/full-stack-social-media-app/internal/models"
)

const noParent = -1

// Entry is one reply in a flattened thread. Depth is relative to the comment
// the thread was requested for, so direct replies have depth 1.
type Entry struct {
	Comment models.Comment
	Depth   int
}

// Arena holds the comments of one post
type Arena struct {
	nodes    []models.Comment
	parent   []int
	children [][]int
	index    map[uint]int

	replyCounts []int
}

// NewArena indexes comments. Children of a node keep creation order.
// Self parents and parents missing from comments are ignored, and so is the
// link that closes a parent cycle, so every such comment becomes a root.
func NewArena(comments []models.Comment) *Arena {
	nodes := make([]models.Comment, len(comments))
	copy(nodes, comments)
	sort.SliceStable(nodes, func(i, j int) bool {
		if !nodes[i].CreatedAt.Equal(nodes[j].CreatedAt) {
			return nodes[i].CreatedAt.Before(nodes[j].CreatedAt)
		}
		return nodes[i].ID < nodes[j].ID
	})

	a := &Arena{
		nodes:    nodes,
		parent:   make([]int, len(nodes)),
		children: make([][]int, len(nodes)),
		index:    make(map[uint]int, len(nodes)),
	}
	for i, c := range nodes {
		a.index[c.ID] = i
	}
	for i, c := range nodes {
		a.parent[i] = noParent
		if c.ParentID == nil || *c.ParentID == c.ID {
			continue
		}
		p, ok := a.index[*c.ParentID]
		if !ok {
			continue
		}
		a.parent[i] = p
		a.children[p] = append(a.children[p], i)
	}
	a.breakCycles()
	return a
}

// breakCycles detaches the earliest created node of each parent cycle from
// its parent
func (a *Arena) breakCycles() {
	const (
		unseen = iota
		onPath
		done
	)
	state := make([]int, len(a.nodes))
	for i := range a.nodes {
		path := make([]int, 0)
		j := i
		for j != noParent && state[j] == unseen {
			state[j] = onPath
			path = append(path, j)
			j = a.parent[j]
		}
		if j != noParent && state[j] == onPath {
			p := a.parent[j]
			a.parent[j] = noParent
			kept := a.children[p][:0]
			for _, child := range a.children[p] {
				if child != j {
					kept = append(kept, child)
				}
			}
			a.children[p] = kept
		}
		for _, n := range path {
			state[n] = done
		}
	}
}

func (a *Arena) Len() int {
	return len(a.nodes)
}

// Lookup returns the comment with the given id
func (a *Arena) Lookup(id uint) (models.Comment, bool) {
	i, ok := a.index[id]
	if !ok {
		return models.Comment{}, false
	}
	return a.nodes[i], true
}

// Roots returns the top-level comments ordered pinned first, then by like
// count, then newest first. Comments whose parent link was ignored are
// included.
func (a *Arena) Roots() []models.Comment {
	roots := make([]models.Comment, 0)
	for i, c := range a.nodes {
		if a.parent[i] == noParent {
			roots = append(roots, c)
		}
	}
	sort.SliceStable(roots, func(i, j int) bool {
		ri, rj := roots[i], roots[j]
		if ri.Pinned != rj.Pinned {
			return ri.Pinned
		}
		if ri.LikeCount != rj.LikeCount {
			return ri.LikeCount > rj.LikeCount
		}
		if !ri.CreatedAt.Equal(rj.CreatedAt) {
			return ri.CreatedAt.After(rj.CreatedAt)
		}
		return ri.ID > rj.ID
	})
	return roots
}

// Replies flattens every descendant of id in reply-group order: the direct
// replies of a node are emitted together, then the subtree of each of them is
// expanded in turn. maxDepth <= 0 means unbounded. The bool is false when id
// is not in the arena.
func (a *Arena) Replies(id uint, maxDepth int) ([]Entry, bool) {
	start, ok := a.index[id]
	if !ok {
		return nil, false
	}

	type frame struct {
		node  int
		depth int
	}

	entries := make([]Entry, 0)
	visited := map[int]bool{start: true}
	stack := []frame{{node: start, depth: 0}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if maxDepth > 0 && top.depth >= maxDepth {
			continue
		}

		group := make([]int, 0, len(a.children[top.node]))
		for _, child := range a.children[top.node] {
			if visited[child] {
				continue
			}
			visited[child] = true
			group = append(group, child)
			entries = append(entries, Entry{Comment: a.nodes[child], Depth: top.depth + 1})
		}
		// reversed so the first reply's subtree is expanded first
		for i := len(group) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: group[i], depth: top.depth + 1})
		}
	}
	return entries, true
}

// ReplyCount returns the number of transitive replies of id
func (a *Arena) ReplyCount(id uint) int {
	i, ok := a.index[id]
	if !ok {
		return 0
	}
	if a.replyCounts == nil {
		a.replyCounts = a.countReplies()
	}
	return a.replyCounts[i]
}

// countReplies sizes every subtree, walking down from the roots
func (a *Arena) countReplies() []int {
	counts := make([]int, len(a.nodes))
	visited := make([]bool, len(a.nodes))
	order := make([]int, 0, len(a.nodes))

	for i := range a.nodes {
		if a.parent[i] != noParent {
			continue
		}
		visited[i] = true
		stack := []int{i}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			order = append(order, n)
			for _, child := range a.children[n] {
				if !visited[child] {
					visited[child] = true
					stack = append(stack, child)
				}
			}
		}
	}

	for k := len(order) - 1; k >= 0; k-- {
		n := order[k]
		if p := a.parent[n]; p != noParent {
			counts[p] += counts[n] + 1
		}
	}
	return counts
}

// TopLevelParent returns the id of the top-level comment that id belongs to.
// A top-level comment is its own top-level parent.
func (a *Arena) TopLevelParent(id uint) (uint, bool) {
	i, ok := a.index[id]
	if !ok {
		return 0, false
	}
	seen := map[int]bool{i: true}
	for a.parent[i] != noParent {
		p := a.parent[i]
		if seen[p] {
			break
		}
		seen[p] = true
		i = p
	}
	return a.nodes[i].ID, true
}

// Subtree returns id followed by the ids of all of its replies
func (a *Arena) Subtree(id uint) []uint {
	entries, ok := a.Replies(id, 0)
	if !ok {
		return nil
	}
	ids := make([]uint, 0, len(entries)+1)
	ids = append(ids, id)
	for _, e := range entries {
		ids = append(ids, e.Comment.ID)
	}
	return ids
}
