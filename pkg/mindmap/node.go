package mindmap

import (
	"encoding/json"
	"strings"

	"synaptiq-be/internal/apperror"
)

// Node is one topic in the generated outline. NodeID values form a contiguous
// preorder numbering starting at 1, assigned exactly once at generation time;
// the rest of the system addresses topics by these ids.
type Node struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	NodeID      int     `json:"node_id,omitempty"`
	Children    []*Node `json:"children,omitempty"`
}

// ParseTree decodes a serialized tree. Code-fence markers the model may have
// wrapped the JSON in are stripped first. Invalid JSON is a parse failure,
// fatal to the enclosing operation.
func ParseTree(raw string) (*Node, error) {
	cleaned := stripCodeFences(raw)

	var root Node
	if err := json.Unmarshal([]byte(cleaned), &root); err != nil {
		return nil, apperror.NewParse("generation model returned an invalid mindmap", err)
	}
	return &root, nil
}

func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// AssignNodeIDs stamps the tree with node ids 1..N in preorder: root first,
// then each child subtree fully numbered left-to-right. The counter is
// threaded through the recursion rather than captured by a closure.
func AssignNodeIDs(root *Node) {
	assignIDs(root, 1)
}

func assignIDs(node *Node, next int) int {
	if node == nil {
		return next
	}
	node.NodeID = next
	next++
	for _, child := range node.Children {
		next = assignIDs(child, next)
	}
	return next
}

// Serialize renders the id-stamped tree back to its stored JSON form.
func Serialize(root *Node) (string, error) {
	out, err := json.Marshal(root)
	if err != nil {
		return "", apperror.NewParse("failed to serialize mindmap", err)
	}
	return string(out), nil
}

// CountNodes returns the number of nodes in the tree.
func CountNodes(root *Node) int {
	if root == nil {
		return 0
	}
	n := 1
	for _, child := range root.Children {
		n += CountNodes(child)
	}
	return n
}
