package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/user-management-service/internal/core/domain/project"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestGenerator_SameSeedSameRows(t *testing.T) {
	a, b := newGenerator(42, fixedNow), newGenerator(42, fixedNow)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.user(i, "h"), b.user(i, "h"))
		assert.Equal(t, a.project(i), b.project(i))
	}
}

func TestGenerator_UsersAreUniqueAndValid(t *testing.T) {
	g := newGenerator(1, fixedNow)
	emails := map[string]struct{}{}
	for i := 0; i < 500; i++ {
		u := g.user(i, "hash")
		_, dup := emails[u.Email]
		require.False(t, dup, "duplicate email %s", u.Email)
		emails[u.Email] = struct{}{}

		assert.Equal(t, "hash", u.HashedPassword)
		assert.Contains(t, countries, u.Country)
		assert.Len(t, u.Country, 2)
		assert.False(t, u.CreatedAt.After(fixedNow))
		assert.True(t, u.CreatedAt.After(fixedNow.Add(-history)))
	}
}

func TestGenerator_ProjectEndDateFollowsStatus(t *testing.T) {
	g := newGenerator(7, fixedNow)
	names := map[string]struct{}{}
	for i := 0; i < 500; i++ {
		p := g.project(i)
		_, dup := names[p.Name]
		require.False(t, dup, "duplicate project name %s", p.Name)
		names[p.Name] = struct{}{}

		finished := p.Status == project.StatusCompleted || p.Status == project.StatusCancelled
		assert.Equal(t, finished, p.EndDate != nil, "status %s", p.Status)
		if p.EndDate != nil {
			assert.True(t, p.EndDate.After(p.StartDate))
		}
		assert.Equal(t, p.Status == project.StatusPlanning || p.Status == project.StatusInProgress, p.IsActive)
		assert.True(t, p.StartDate.After(p.CreatedAt))
	}
}

func TestGenerator_ActivitiesStayInRange(t *testing.T) {
	g := newGenerator(3, fixedNow)
	for id := int64(1); id <= 200; id++ {
		acts := g.activities(id)
		assert.LessOrEqual(t, len(acts), 10)
		for _, a := range acts {
			assert.Equal(t, id, a.UserID)
			assert.Contains(t, actionTypes, a.ActionType)
			assert.NotEmpty(t, a.Description)
			assert.NotEmpty(t, a.IPAddress)
		}
	}
}

func TestGenerator_MembershipsAreDistinct(t *testing.T) {
	g := newGenerator(9, fixedNow)
	projectIDs := []int64{10, 11, 12, 13, 14, 15, 16, 17}
	roles := map[project.Role]int{}
	for id := int64(1); id <= 300; id++ {
		ms := g.memberships(id, projectIDs)
		require.GreaterOrEqual(t, len(ms), 1)
		require.LessOrEqual(t, len(ms), 6)
		seen := map[int64]struct{}{}
		for _, m := range ms {
			_, dup := seen[m.ProjectID]
			require.False(t, dup)
			seen[m.ProjectID] = struct{}{}
			assert.Contains(t, projectIDs, m.ProjectID)
			assert.Equal(t, id, m.UserID)
			roles[m.Role]++
		}
	}
	assert.Greater(t, roles[project.RoleMember], roles[project.RoleAdmin])
	assert.Greater(t, roles[project.RoleAdmin], roles[project.RoleOwner])
	for r := range roles {
		assert.Contains(t, []project.Role{project.RoleOwner, project.RoleAdmin, project.RoleMember}, r)
	}
}

func TestGenerator_MembershipsCappedByProjectCount(t *testing.T) {
	g := newGenerator(5, fixedNow)
	assert.Nil(t, g.memberships(1, nil))
	for i := 0; i < 50; i++ {
		assert.Len(t, g.memberships(1, []int64{99}), 1)
	}
}
