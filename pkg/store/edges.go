package store

import "github.com/wardenhq/warden/pkg/model"

// EdgesStore abstracts role hierarchy edge storage. The transitive closure
// itself is computed by the hierarchy engine; this store only answers
// one-hop neighbour queries over the edge table.
type EdgesStore interface {
	// Insert creates an edge. A duplicate edge is a no-op reporting 0 rows.
	Insert(edge *model.RoleEdge) (int64, error)

	// Delete removes an edge. Removing a non-edge reports 0 rows.
	Delete(tenant string, parentRoleID, childRoleID int64) (int64, error)

	// ChildIDs returns the immediate child role ids of the given parents.
	ChildIDs(parentRoleIDs []int64) ([]int64, error)

	// ParentIDs returns the immediate parent role ids of the given children.
	ParentIDs(childRoleIDs []int64) ([]int64, error)
}
