package storetest

import (
	"regexp"
	"sort"
	"strings"

	"github.com/wardenhq/warden/pkg/model"
	"github.com/wardenhq/warden/pkg/store"
)

// Store is an in-memory store.Store for tests. It mirrors the row-count
// and conflict semantics of the SQL implementation, including transaction
// rollback via copy-on-begin snapshots.
type Store struct {
	roles     []model.Role
	edges     []model.RoleEdge
	perms     []model.RolePermission
	userRoles []model.UserRole
	shares    []model.Share
	secrets   []model.Secret

	nextRoleID int64
	nextPermID int64

	// err, when set, is returned by every store call. Simulates an
	// unreachable or failing backend.
	err error
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{nextRoleID: 1, nextPermID: 1}
}

// SetError makes every subsequent store call fail with err. Pass nil to
// restore normal operation.
func (f *Store) SetError(err error) { f.err = err }

func (f *Store) Roles() store.RolesStore             { return (*rolesStore)(f) }
func (f *Store) Edges() store.EdgesStore             { return (*edgesStore)(f) }
func (f *Store) Permissions() store.PermissionsStore { return (*permsStore)(f) }
func (f *Store) UserRoles() store.UserRolesStore     { return (*userRolesStore)(f) }
func (f *Store) Shares() store.SharesStore           { return (*sharesStore)(f) }
func (f *Store) Secrets() store.SecretsStore         { return (*secretsStore)(f) }

func (f *Store) Transaction(fn func(store.Store) error) error {
	if f.err != nil {
		return f.err
	}
	snapshot := *f
	snapshot.roles = append([]model.Role(nil), f.roles...)
	snapshot.edges = append([]model.RoleEdge(nil), f.edges...)
	snapshot.perms = append([]model.RolePermission(nil), f.perms...)
	snapshot.userRoles = append([]model.UserRole(nil), f.userRoles...)
	snapshot.shares = append([]model.Share(nil), f.shares...)
	snapshot.secrets = append([]model.Secret(nil), f.secrets...)

	if err := fn(f); err != nil {
		*f = snapshot
		return err
	}
	return nil
}

type rolesStore Store

func (f *rolesStore) Insert(role *model.Role) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	for _, r := range f.roles {
		if r.Tenant == role.Tenant && r.Name == role.Name {
			return 0, nil
		}
	}
	role.ID = f.nextRoleID
	f.nextRoleID++
	f.roles = append(f.roles, *role)
	return 1, nil
}

func (f *rolesStore) Get(tenant, name string) (*model.Role, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.roles {
		if f.roles[i].Tenant == tenant && f.roles[i].Name == name {
			r := f.roles[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (f *rolesStore) GetByID(id int64) (*model.Role, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.roles {
		if f.roles[i].ID == id {
			r := f.roles[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (f *rolesStore) Names(tenant string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	var names []string
	for _, r := range f.roles {
		if r.Tenant == tenant {
			names = append(names, r.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (f *rolesStore) NamesByIDs(ids []int64) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var names []string
	for _, r := range f.roles {
		if _, ok := want[r.ID]; ok {
			names = append(names, r.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (f *rolesStore) Rename(tenant, name, newName, by, byTenant string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	for _, r := range f.roles {
		if r.Tenant == tenant && r.Name == newName {
			return 0, nil
		}
	}
	for i := range f.roles {
		if f.roles[i].Tenant == tenant && f.roles[i].Name == name {
			f.roles[i].Name = newName
			f.roles[i].UpdatedBy = by
			f.roles[i].UpdatedByTenant = byTenant
			return 1, nil
		}
	}
	return 0, nil
}

func (f *rolesStore) SetOwner(tenant, name, owner, ownerTenant, by, byTenant string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	for i := range f.roles {
		if f.roles[i].Tenant == tenant && f.roles[i].Name == name {
			f.roles[i].Owner = owner
			f.roles[i].OwnerTenant = ownerTenant
			f.roles[i].UpdatedBy = by
			f.roles[i].UpdatedByTenant = byTenant
			return 1, nil
		}
	}
	return 0, nil
}

func (f *rolesStore) SetDescription(tenant, name, description, by, byTenant string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	for i := range f.roles {
		if f.roles[i].Tenant == tenant && f.roles[i].Name == name {
			f.roles[i].Description = description
			f.roles[i].UpdatedBy = by
			f.roles[i].UpdatedByTenant = byTenant
			return 1, nil
		}
	}
	return 0, nil
}

func (f *rolesStore) Delete(tenant, name string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	for i := range f.roles {
		if f.roles[i].Tenant == tenant && f.roles[i].Name == name {
			f.roles = append(f.roles[:i], f.roles[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type edgesStore Store

func (f *edgesStore) Insert(edge *model.RoleEdge) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	for _, e := range f.edges {
		if e.Tenant == edge.Tenant && e.ParentRoleID == edge.ParentRoleID && e.ChildRoleID == edge.ChildRoleID {
			return 0, nil
		}
	}
	f.edges = append(f.edges, *edge)
	return 1, nil
}

func (f *edgesStore) Delete(tenant string, parentRoleID, childRoleID int64) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	for i := range f.edges {
		if f.edges[i].Tenant == tenant && f.edges[i].ParentRoleID == parentRoleID && f.edges[i].ChildRoleID == childRoleID {
			f.edges = append(f.edges[:i], f.edges[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *edgesStore) ChildIDs(parentRoleIDs []int64) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[int64]struct{}, len(parentRoleIDs))
	for _, id := range parentRoleIDs {
		want[id] = struct{}{}
	}
	var ids []int64
	for _, e := range f.edges {
		if _, ok := want[e.ParentRoleID]; ok {
			ids = append(ids, e.ChildRoleID)
		}
	}
	return ids, nil
}

func (f *edgesStore) ParentIDs(childRoleIDs []int64) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[int64]struct{}, len(childRoleIDs))
	for _, id := range childRoleIDs {
		want[id] = struct{}{}
	}
	var ids []int64
	for _, e := range f.edges {
		if _, ok := want[e.ChildRoleID]; ok {
			ids = append(ids, e.ParentRoleID)
		}
	}
	return ids, nil
}

type permsStore Store

func (f *permsStore) Insert(perm *model.RolePermission) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	for _, p := range f.perms {
		if p.Tenant == perm.Tenant && p.RoleID == perm.RoleID && p.Permission == perm.Permission {
			return 0, nil
		}
	}
	perm.ID = f.nextPermID
	f.nextPermID++
	f.perms = append(f.perms, *perm)
	return 1, nil
}

func (f *permsStore) Delete(tenant string, roleID int64, permission string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	for i := range f.perms {
		if f.perms[i].Tenant == tenant && f.perms[i].RoleID == roleID && f.perms[i].Permission == permission {
			f.perms = append(f.perms[:i], f.perms[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *permsStore) Matching(tenant, pattern string, roleID *int64) ([]model.RolePermission, error) {
	if f.err != nil {
		return nil, f.err
	}
	re := likeRegexp(pattern)
	var out []model.RolePermission
	for _, p := range f.perms {
		if p.Tenant != tenant {
			continue
		}
		if roleID != nil && p.RoleID != *roleID {
			continue
		}
		if re.MatchString(p.Permission) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Permission < out[j].Permission })
	return out, nil
}

func (f *permsStore) ByRoleIDs(tenant string, roleIDs []int64) ([]model.RolePermission, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[int64]struct{}, len(roleIDs))
	for _, id := range roleIDs {
		want[id] = struct{}{}
	}
	var out []model.RolePermission
	for _, p := range f.perms {
		if p.Tenant != tenant {
			continue
		}
		if _, ok := want[p.RoleID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *permsStore) UpdateValue(tenant string, id int64, permission, by string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	for i := range f.perms {
		if f.perms[i].Tenant == tenant && f.perms[i].ID == id {
			f.perms[i].Permission = permission
			f.perms[i].UpdatedBy = by
			return 1, nil
		}
	}
	return 0, nil
}

// likeRegexp converts a SQL LIKE pattern (`%`, `_`, backslash escape) to a
// regexp for the in-memory matcher.
func likeRegexp(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			b.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '%':
			b.WriteString(".*")
		case r == '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}

type userRolesStore Store

func (f *userRolesStore) Insert(assignment *model.UserRole) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	for _, a := range f.userRoles {
		if a.Tenant == assignment.Tenant && a.UserName == assignment.UserName && a.RoleID == assignment.RoleID {
			return 0, nil
		}
	}
	f.userRoles = append(f.userRoles, *assignment)
	return 1, nil
}

func (f *userRolesStore) Delete(tenant, userName string, roleID int64) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	for i := range f.userRoles {
		if f.userRoles[i].Tenant == tenant && f.userRoles[i].UserName == userName && f.userRoles[i].RoleID == roleID {
			f.userRoles = append(f.userRoles[:i], f.userRoles[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *userRolesStore) RoleIDsForUser(tenant, userName string) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	var ids []int64
	for _, a := range f.userRoles {
		if a.Tenant == tenant && a.UserName == userName {
			ids = append(ids, a.RoleID)
		}
	}
	return ids, nil
}

func (f *userRolesStore) UserNamesByRoleIDs(tenant string, roleIDs []int64) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[int64]struct{}, len(roleIDs))
	for _, id := range roleIDs {
		want[id] = struct{}{}
	}
	seen := make(map[string]struct{})
	var names []string
	for _, a := range f.userRoles {
		if a.Tenant != tenant {
			continue
		}
		if _, ok := want[a.RoleID]; !ok {
			continue
		}
		if _, dup := seen[a.UserName]; dup {
			continue
		}
		seen[a.UserName] = struct{}{}
		names = append(names, a.UserName)
	}
	sort.Strings(names)
	return names, nil
}

type sharesStore Store

func sameID2(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (f *sharesStore) grantKeyMatch(a, b *model.Share) bool {
	return a.Tenant == b.Tenant &&
		a.Grantor == b.Grantor &&
		a.Grantee == b.Grantee &&
		a.ResourceType == b.ResourceType &&
		a.ResourceID1 == b.ResourceID1 &&
		sameID2(a.ResourceID2, b.ResourceID2) &&
		a.Privilege == b.Privilege
}

func (f *sharesStore) Insert(share *model.Share) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	for i := range f.shares {
		if f.grantKeyMatch(&f.shares[i], share) {
			return 0, nil
		}
	}
	f.shares = append(f.shares, *share)
	return 1, nil
}

func (f *sharesStore) FindExact(share *model.Share) (*model.Share, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.shares {
		if f.grantKeyMatch(&f.shares[i], share) {
			s := f.shares[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (f *sharesStore) Get(tenant, id string) (*model.Share, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.shares {
		if f.shares[i].Tenant == tenant && f.shares[i].ID == id {
			s := f.shares[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (f *sharesStore) List(filter store.ShareFilter) ([]model.Share, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Share
	for _, s := range f.shares {
		if s.Tenant != filter.Tenant {
			continue
		}
		if filter.ID != "" {
			if s.ID == filter.ID {
				out = append(out, s)
			}
			continue
		}
		if filter.Grantor != nil && s.Grantor != *filter.Grantor {
			continue
		}
		if filter.Grantee != nil {
			if filter.IncludePublicGrantees {
				if s.Grantee != *filter.Grantee && s.Grantee != model.PublicGrantee && s.Grantee != model.PublicNoAuthnGrantee {
					continue
				}
			} else if s.Grantee != *filter.Grantee {
				continue
			}
		} else if !filter.IncludePublicGrantees {
			if s.Grantee == model.PublicGrantee || s.Grantee == model.PublicNoAuthnGrantee {
				continue
			}
		}
		if filter.ResourceType != nil && s.ResourceType != *filter.ResourceType {
			continue
		}
		if filter.ResourceID1 != nil && s.ResourceID1 != *filter.ResourceID1 {
			continue
		}
		if filter.ResourceID2 != nil {
			if !sameID2(s.ResourceID2, filter.ResourceID2) {
				continue
			}
		} else if filter.RequireNullID2 && s.ResourceID2 != nil {
			continue
		}
		if filter.Privilege != nil && s.Privilege != *filter.Privilege {
			continue
		}
		if filter.CreatedBy != nil && s.CreatedBy != *filter.CreatedBy {
			continue
		}
		if filter.CreatedByTenant != nil && s.CreatedByTenant != *filter.CreatedByTenant {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *sharesStore) Delete(tenant, id string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	for i := range f.shares {
		if f.shares[i].Tenant == tenant && f.shares[i].ID == id {
			f.shares = append(f.shares[:i], f.shares[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *sharesStore) AnyWithPrivilege(tenant string, grantees []string, resourceType, resourceID1 string, resourceID2 *string, privilege string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	allowed := make(map[string]struct{}, len(grantees))
	for _, g := range grantees {
		allowed[g] = struct{}{}
	}
	for _, s := range f.shares {
		if s.Tenant != tenant || s.ResourceType != resourceType || s.ResourceID1 != resourceID1 || s.Privilege != privilege {
			continue
		}
		if !sameID2(s.ResourceID2, resourceID2) {
			continue
		}
		if _, ok := allowed[s.Grantee]; ok {
			return true, nil
		}
	}
	return false, nil
}

type secretsStore Store

func (f *secretsStore) Upsert(secret *model.Secret) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.secrets {
		if f.secrets[i].Tenant == secret.Tenant && f.secrets[i].Path == secret.Path {
			f.secrets[i] = *secret
			return nil
		}
	}
	f.secrets = append(f.secrets, *secret)
	return nil
}

func (f *secretsStore) Fetch(tenant, path string) (*model.Secret, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.secrets {
		if f.secrets[i].Tenant == tenant && f.secrets[i].Path == path {
			s := f.secrets[i]
			return &s, nil
		}
	}
	return nil, store.ErrSecretNotFound
}

func (f *secretsStore) Delete(tenant, path string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	for i := range f.secrets {
		if f.secrets[i].Tenant == tenant && f.secrets[i].Path == path {
			f.secrets = append(f.secrets[:i], f.secrets[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *secretsStore) ListPaths(tenant, prefix string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	var paths []string
	for _, s := range f.secrets {
		if s.Tenant == tenant && strings.HasPrefix(s.Path, prefix) {
			paths = append(paths, s.Path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}
