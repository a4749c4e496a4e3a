package authz

import (
	"github.com/wardenhq/warden/pkg/audit"
	"github.com/wardenhq/warden/pkg/identity"
	"github.com/wardenhq/warden/pkg/model"
	"github.com/wardenhq/warden/pkg/store"
)

// Hierarchy manages the role DAG: directed parent->child edges within a
// tenant. An edge means the parent transitively grants everything the child
// grants. Closures are computed with an iterative worklist and a visited
// set, so an inadvertently cyclic edge set degrades to "all reachable
// nodes" instead of non-termination. Edge insertion does not reject cycles.
type Hierarchy struct {
	store    store.Store
	recorder *audit.Recorder
}

// NewHierarchy creates the hierarchy engine.
func NewHierarchy(st store.Store, recorder *audit.Recorder) *Hierarchy {
	return &Hierarchy{store: st, recorder: recorder}
}

// AssignChildRole inserts the edge parentRole->childRole. Both roles must
// already exist in the tenant. Duplicate edges report 0 rows.
func (h *Hierarchy) AssignChildRole(tenant, parentRole, childRole string, by identity.Identity) (int64, error) {
	const op = "assignChildRole"

	parentID, childID, err := h.resolveEdgeRoles(op, tenant, parentRole, childRole)
	if err != nil {
		return 0, err
	}

	rows, err := h.store.Edges().Insert(&model.RoleEdge{
		Tenant:       tenant,
		ParentRoleID: parentID,
		ChildRoleID:  childID,
		CreatedBy:    by.User,
		UpdatedBy:    by.User,
	})
	if err != nil {
		return 0, storeErr(op, tenant, parentRole+"->"+childRole, err)
	}

	if rows > 0 {
		h.recorder.Record(audit.EdgeEvent{Action: "assign", Tenant: tenant, ParentRole: parentRole, ChildRole: childRole, By: by.User, ByTenant: by.Tenant})
	}
	return rows, nil
}

// RemoveChildRole deletes the edge parentRole->childRole. Removing a
// non-edge reports 0 rows.
func (h *Hierarchy) RemoveChildRole(tenant, parentRole, childRole string, by identity.Identity) (int64, error) {
	const op = "removeChildRole"

	parentID, childID, err := h.resolveEdgeRoles(op, tenant, parentRole, childRole)
	if err != nil {
		return 0, err
	}

	rows, err := h.store.Edges().Delete(tenant, parentID, childID)
	if err != nil {
		return 0, storeErr(op, tenant, parentRole+"->"+childRole, err)
	}

	if rows > 0 {
		h.recorder.Record(audit.EdgeEvent{Action: "remove", Tenant: tenant, ParentRole: parentRole, ChildRole: childRole, By: by.User, ByTenant: by.Tenant})
	}
	return rows, nil
}

func (h *Hierarchy) resolveEdgeRoles(op, tenant, parentRole, childRole string) (int64, int64, error) {
	if err := requireNonBlank(op, tenant, "tenant", tenant); err != nil {
		return 0, 0, err
	}
	if err := requireNonBlank(op, tenant, "parent role", parentRole); err != nil {
		return 0, 0, err
	}
	if err := requireNonBlank(op, tenant, "child role", childRole); err != nil {
		return 0, 0, err
	}

	roles := h.store.Roles()
	parent, err := roles.Get(tenant, parentRole)
	if err != nil {
		return 0, 0, storeErr(op, tenant, parentRole, err)
	}
	if parent == nil {
		return 0, 0, notFoundf(op, tenant, parentRole)
	}

	child, err := roles.Get(tenant, childRole)
	if err != nil {
		return 0, 0, storeErr(op, tenant, childRole, err)
	}
	if child == nil {
		return 0, 0, notFoundf(op, tenant, childRole)
	}

	return parent.ID, child.ID, nil
}

// DescendantRoleNames returns the names of every role transitively
// reachable by following child edges from roleID, in alphabetic order. The
// role itself is not included.
func (h *Hierarchy) DescendantRoleNames(roleID int64) ([]string, error) {
	const op = "getDescendantRoleNames"

	closure, err := h.closure(h.store, []int64{roleID}, downward)
	if err != nil {
		return nil, storeErr(op, "", "", err)
	}
	delete(closure, roleID)

	names, err := h.store.Roles().NamesByIDs(idSet(closure))
	if err != nil {
		return nil, storeErr(op, "", "", err)
	}
	return names, nil
}

// AncestorRoleNames returns the names of every role from which roleID is
// transitively reachable, in alphabetic order. The role itself is not
// included.
func (h *Hierarchy) AncestorRoleNames(roleID int64) ([]string, error) {
	const op = "getAncestorRoleNames"

	closure, err := h.closure(h.store, []int64{roleID}, upward)
	if err != nil {
		return nil, storeErr(op, "", "", err)
	}
	delete(closure, roleID)

	names, err := h.store.Roles().NamesByIDs(idSet(closure))
	if err != nil {
		return nil, storeErr(op, "", "", err)
	}
	return names, nil
}

type direction int

const (
	downward direction = iota // parent -> children
	upward                    // child -> parents
)

// closure computes the transitive closure of seeds in the given direction,
// including the seeds themselves. Traversal is breadth-first over the edge
// table, one store round-trip per frontier level; the visited set bounds it
// on cyclic edge sets.
func (h *Hierarchy) closure(st store.Store, seeds []int64, dir direction) (map[int64]struct{}, error) {
	visited := make(map[int64]struct{}, len(seeds))
	frontier := make([]int64, 0, len(seeds))
	for _, id := range seeds {
		if _, seen := visited[id]; !seen {
			visited[id] = struct{}{}
			frontier = append(frontier, id)
		}
	}

	edges := st.Edges()
	for len(frontier) > 0 {
		var next []int64
		var err error
		if dir == downward {
			next, err = edges.ChildIDs(frontier)
		} else {
			next, err = edges.ParentIDs(frontier)
		}
		if err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, id := range next {
			if _, seen := visited[id]; !seen {
				visited[id] = struct{}{}
				frontier = append(frontier, id)
			}
		}
	}

	return visited, nil
}

// DescendantClosureIDs returns roleIDs plus every transitively reachable
// descendant id. Used by the assignment engine to resolve effective roles
// and permissions.
func (h *Hierarchy) DescendantClosureIDs(roleIDs []int64) ([]int64, error) {
	closure, err := h.closure(h.store, roleIDs, downward)
	if err != nil {
		return nil, err
	}
	return idSet(closure), nil
}

// AncestorClosureIDs returns roleIDs plus every transitive ancestor id.
func (h *Hierarchy) AncestorClosureIDs(roleIDs []int64) ([]int64, error) {
	closure, err := h.closure(h.store, roleIDs, upward)
	if err != nil {
		return nil, err
	}
	return idSet(closure), nil
}

func idSet(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
