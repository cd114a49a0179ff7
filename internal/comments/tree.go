// Package comments assembles flat comment rows into reply threads.
package comments

import "github.com/anonto42/linkup/backend/internal/models"

const (
	// MaxReplyDepth is the deepest level a reply may be attached under.
	MaxReplyDepth = 3
	// AutoExpandDepth is the depth below which replies start expanded.
	AutoExpandDepth = 2
)

// Node is one comment in a thread.
type Node struct {
	models.CommentView
	Depth      int     `json:"depth"`
	CanReply   bool    `json:"can_reply"`
	AutoExpand bool    `json:"auto_expand"`
	Replies    []*Node `json:"replies"`
}

// CanReply reports whether a comment at depth accepts replies.
func CanReply(depth int) bool { return depth < MaxReplyDepth }

// AutoExpand reports whether replies under a comment at depth start expanded.
func AutoExpand(depth int) bool { return depth < AutoExpandDepth }

// BuildTree links comments under their parents. A comment whose parent is
// not in the list is treated as a root. Input order is kept among siblings.
func BuildTree(flat []models.CommentView) []*Node {
	nodes := make(map[uint]*Node, len(flat))
	for i := range flat {
		nodes[flat[i].ID] = &Node{CommentView: flat[i], Replies: []*Node{}}
	}

	roots := make([]*Node, 0, len(flat))
	for i := range flat {
		n := nodes[flat[i].ID]
		if pid := flat[i].ParentCommentID; pid != nil && *pid != flat[i].ID {
			if parent, ok := nodes[*pid]; ok {
				parent.Replies = append(parent.Replies, n)
				continue
			}
		}
		roots = append(roots, n)
	}

	for _, r := range roots {
		setDepth(r, 0, map[*Node]bool{})
	}
	return roots
}

func setDepth(n *Node, depth int, seen map[*Node]bool) {
	if seen[n] {
		return
	}
	seen[n] = true
	n.Depth = depth
	n.CanReply = CanReply(depth)
	n.AutoExpand = AutoExpand(depth)
	for _, r := range n.Replies {
		setDepth(r, depth+1, seen)
	}
}

// Count returns the number of nodes in the forest.
func Count(roots []*Node) int {
	total := 0
	for _, r := range roots {
		total += 1 + Count(r.Replies)
	}
	return total
}
