package mindmap

import (
	"synaptiq-be/internal/apperror"
)

// Resolve finds the node carrying the given id and returns its title and
// description. Depth-first, first match wins; ids are unique so only one
// match can exist. A nil tree or absent id resolves to not-found.
func Resolve(root *Node, nodeID int) (title string, description string, err error) {
	if root != nil {
		if found := findNode(root, nodeID); found != nil {
			return found.Title, found.Description, nil
		}
	}
	return "", "", apperror.NewNotFound("node %d not found in mindmap", nodeID)
}

func findNode(node *Node, nodeID int) *Node {
	if node.NodeID == nodeID {
		return node
	}
	for _, child := range node.Children {
		if found := findNode(child, nodeID); found != nil {
			return found
		}
	}
	return nil
}
