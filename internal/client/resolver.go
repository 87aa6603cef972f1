package client

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/secmetrics-io/kb4/pkg/kb4"
)

// resolver hydrates reference fields against session-owned caches, one per
// record kind. A cache is bulk populated from its collection endpoint on the
// first miss; ids still absent afterwards are fetched individually and
// inserted, so each distinct id costs at most one request. All lookups for
// the same id hand back the identical cached pointer.
//
// The mutex spans populate-and-lookup so priming happens exactly once per
// cache even when sessions are shared across goroutines.
type resolver struct {
	client *Client

	mu           sync.Mutex
	groups       map[int]*kb4.Group
	groupsPrimed bool
	psts         map[int]*kb4.PhishingSecurityTest
	pstsPrimed   bool
	users        map[int]*kb4.User
	usersPrimed  bool
}

func newResolver(client *Client) *resolver {
	return &resolver{
		client: client,
		groups: make(map[int]*kb4.Group),
		psts:   make(map[int]*kb4.PhishingSecurityTest),
		users:  make(map[int]*kb4.User),
	}
}

// resolveGroupRefs hydrates a slice of group references in input order.
// References with the sentinel id 0 are dropped; already-resolved references
// (expand=group listings) pass through and seed the cache.
func (r *resolver) resolveGroupRefs(ctx context.Context, refs []kb4.GroupRef) ([]kb4.GroupRef, error) {
	if len(refs) == 0 {
		return refs, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.resolveGroupRefsLocked(ctx, refs)
}

// resolveGroupRefsLocked is resolveGroupRefs for callers already holding r.mu.
func (r *resolver) resolveGroupRefsLocked(ctx context.Context, refs []kb4.GroupRef) ([]kb4.GroupRef, error) {
	resolved := make([]kb4.GroupRef, 0, len(refs))

	for _, ref := range refs {
		if ref.Resolved() {
			r.groups[ref.ID] = ref.Group
			resolved = append(resolved, ref)

			continue
		}

		if ref.ID == 0 {
			continue
		}

		group, err := r.lookupGroup(ctx, ref.ID)
		if err != nil {
			return nil, err
		}

		resolved = append(resolved, kb4.GroupRef{ID: ref.ID, Group: group})
	}

	return resolved, nil
}

func (r *resolver) lookupGroup(ctx context.Context, groupID int) (*kb4.Group, error) {
	if group, ok := r.groups[groupID]; ok {
		return group, nil
	}

	if !r.groupsPrimed {
		groups, err := fetchRecords[kb4.Group](ctx, r.client.pager, "groups", nil)
		if err != nil {
			return nil, fmt.Errorf("populating group cache: %w", err)
		}

		for i := range groups {
			r.groups[groups[i].ID] = &groups[i]
		}

		r.groupsPrimed = true

		if group, ok := r.groups[groupID]; ok {
			return group, nil
		}
	}

	group, err := fetchOne[kb4.Group](ctx, r.client.pager, "groups/"+strconv.Itoa(groupID), nil)
	if err != nil {
		return nil, fmt.Errorf("resolving group %d: %w", groupID, err)
	}

	r.groups[groupID] = group

	return group, nil
}

// resolvePSTRefs hydrates a slice of security test references in input order.
func (r *resolver) resolvePSTRefs(ctx context.Context, refs []kb4.PSTRef) ([]kb4.PSTRef, error) {
	if len(refs) == 0 {
		return refs, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	resolved := make([]kb4.PSTRef, 0, len(refs))

	for _, ref := range refs {
		if ref.Resolved() {
			if err := r.hydratePSTGroups(ctx, ref.PST); err != nil {
				return nil, err
			}

			r.psts[ref.ID] = ref.PST
			resolved = append(resolved, ref)

			continue
		}

		if ref.ID == 0 {
			continue
		}

		pst, err := r.lookupPST(ctx, ref.ID)
		if err != nil {
			return nil, err
		}

		resolved = append(resolved, kb4.PSTRef{ID: ref.ID, PST: pst})
	}

	return resolved, nil
}

func (r *resolver) lookupPST(ctx context.Context, pstID int) (*kb4.PhishingSecurityTest, error) {
	if pst, ok := r.psts[pstID]; ok {
		return pst, nil
	}

	if !r.pstsPrimed {
		psts, err := fetchRecords[kb4.PhishingSecurityTest](ctx, r.client.pager, "phishing/security_tests", nil)
		if err != nil {
			return nil, fmt.Errorf("populating security test cache: %w", err)
		}

		for i := range psts {
			if err := r.hydratePSTGroups(ctx, &psts[i]); err != nil {
				return nil, err
			}

			r.psts[psts[i].PSTID] = &psts[i]
		}

		r.pstsPrimed = true

		if pst, ok := r.psts[pstID]; ok {
			return pst, nil
		}
	}

	pst, err := fetchOne[kb4.PhishingSecurityTest](ctx, r.client.pager, "phishing/security_tests/"+strconv.Itoa(pstID), nil)
	if err != nil {
		return nil, fmt.Errorf("resolving security test %d: %w", pstID, err)
	}

	if err := r.hydratePSTGroups(ctx, pst); err != nil {
		return nil, err
	}

	r.psts[pstID] = pst

	return pst, nil
}

// hydratePSTGroups resolves the group references carried by a security test
// before it enters the cache, so a hydrated campaign carries fully resolved
// nested records. Callers hold r.mu.
func (r *resolver) hydratePSTGroups(ctx context.Context, pst *kb4.PhishingSecurityTest) error {
	if len(pst.Groups) == 0 {
		return nil
	}

	groups, err := r.resolveGroupRefsLocked(ctx, pst.Groups)
	if err != nil {
		return err
	}

	pst.Groups = groups

	return nil
}

// resolveUserRef hydrates one user reference. Nested group references on the
// cached user stay as decoded; only the requested reference kind is resolved.
func (r *resolver) resolveUserRef(ctx context.Context, ref kb4.UserRef) (kb4.UserRef, error) {
	if ref.Resolved() || ref.ID == 0 {
		return ref, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, err := r.lookupUser(ctx, ref.ID)
	if err != nil {
		return ref, err
	}

	return kb4.UserRef{ID: ref.ID, Email: ref.Email, User: user}, nil
}

func (r *resolver) lookupUser(ctx context.Context, userID int) (*kb4.User, error) {
	if user, ok := r.users[userID]; ok {
		return user, nil
	}

	if !r.usersPrimed {
		users, err := fetchRecords[kb4.User](ctx, r.client.pager, "users", nil)
		if err != nil {
			return nil, fmt.Errorf("populating user cache: %w", err)
		}

		for i := range users {
			r.users[users[i].ID] = &users[i]
		}

		r.usersPrimed = true

		if user, ok := r.users[userID]; ok {
			return user, nil
		}
	}

	user, err := fetchOne[kb4.User](ctx, r.client.pager, "users/"+strconv.Itoa(userID), nil)
	if err != nil {
		return nil, fmt.Errorf("resolving user %d: %w", userID, err)
	}

	r.users[userID] = user

	return user, nil
}
