package main

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/avatarctic/user-management-service/internal/core/domain/activity"
	"github.com/avatarctic/user-management-service/internal/core/domain/project"
)

var (
	countries = []string{"VN", "US", "JP", "KR", "FR", "GB", "DE", "CN", "IN", "BR", "AU", "CA", "TH", "SG", "MY"}

	actionTypes = []string{
		activity.ActionLogin, activity.ActionLogout, activity.ActionCreate, activity.ActionUpdate,
		activity.ActionDelete, activity.ActionView, "DOWNLOAD", "UPLOAD",
	}

	statuses = []project.Status{
		project.StatusPlanning, project.StatusInProgress, project.StatusCompleted, project.StatusOnHold, project.StatusCancelled,
	}

	firstNames   = []string{"Anna", "Minh", "Yuki", "Ji-woo", "Louis", "Oliver", "Lena", "Wei", "Priya", "Lucas", "Chloe", "Noah"}
	lastNames    = []string{"Nguyen", "Smith", "Tanaka", "Kim", "Martin", "Brown", "Muller", "Wang", "Sharma", "Silva", "Tremblay"}
	projectKinds = []string{"Website", "Mobile App", "API", "Dashboard", "Platform", "System", "Tool", "Service", "Portal", "Application"}
	projectVerbs = []string{"Development", "Redesign", "Migration", "Upgrade", "Implementation", "Integration", "Optimization"}
	words        = []string{"report", "invoice", "profile", "dashboard", "settings", "document", "image", "archive"}
	userAgents   = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_2) AppleWebKit/605.1.15 Safari/17.2",
		"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_2 like Mac OS X) Mobile/15E148",
	}
)

// history is how far back generated timestamps reach.
const history = 2 * 365 * 24 * time.Hour

type userRow struct {
	Email          string    `db:"email"`
	FullName       string    `db:"full_name"`
	HashedPassword string    `db:"hashed_password"`
	IsActive       bool      `db:"is_active"`
	IsSuperuser    bool      `db:"is_superuser"`
	Bio            *string   `db:"bio"`
	Country        string    `db:"country"`
	CreatedAt      time.Time `db:"created_at"`
}

type projectRow struct {
	Name        string         `db:"name"`
	Description string         `db:"description"`
	IsActive    bool           `db:"is_active"`
	Status      project.Status `db:"status"`
	StartDate   time.Time      `db:"start_date"`
	EndDate     *time.Time     `db:"end_date"`
	CreatedAt   time.Time      `db:"created_at"`
}

type activityRow struct {
	UserID      int64     `db:"user_id"`
	ActionType  string    `db:"action_type"`
	Description string    `db:"description"`
	IPAddress   string    `db:"ip_address"`
	UserAgent   string    `db:"user_agent"`
	CreatedAt   time.Time `db:"created_at"`
}

type membershipRow struct {
	UserID    int64        `db:"user_id"`
	ProjectID int64        `db:"project_id"`
	Role      project.Role `db:"role"`
	JoinedAt  time.Time    `db:"joined_at"`
}

// generator produces reproducible rows for a given seed.
type generator struct {
	rnd *rand.Rand
	now time.Time
}

func newGenerator(seed int64, now time.Time) *generator {
	return &generator{rnd: rand.New(rand.NewSource(seed)), now: now}
}

func (g *generator) pick(list []string) string { return list[g.rnd.Intn(len(list))] }

func (g *generator) pastTime() time.Time {
	return g.now.Add(-time.Duration(g.rnd.Int63n(int64(history))))
}

// user builds the i-th user. i keeps the email unique.
func (g *generator) user(i int, hashedPassword string) userRow {
	first, last := g.pick(firstNames), g.pick(lastNames)
	u := userRow{
		Email:          fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(strings.ReplaceAll(first, "-", "")), strings.ToLower(last), i),
		FullName:       first + " " + last,
		HashedPassword: hashedPassword,
		IsActive:       g.rnd.Intn(4) != 0,
		IsSuperuser:    g.rnd.Intn(5) == 0,
		Country:        g.pick(countries),
		CreatedAt:      g.pastTime(),
	}
	if g.rnd.Intn(2) == 0 {
		bio := fmt.Sprintf("%s from %s, working on %s.", first, u.Country, g.pick(words))
		u.Bio = &bio
	}
	return u
}

// project builds the i-th project. Only completed and cancelled projects get an end date.
func (g *generator) project(i int) projectRow {
	status := statuses[g.rnd.Intn(len(statuses))]
	created := g.pastTime()
	start := created.AddDate(0, 0, 1+g.rnd.Intn(30))
	p := projectRow{
		Name:        fmt.Sprintf("%s %s %d", g.pick(projectKinds), g.pick(projectVerbs), i+1),
		Description: fmt.Sprintf("Work on the %s %s.", g.pick(words), g.pick(projectVerbs)),
		IsActive:    status == project.StatusPlanning || status == project.StatusInProgress,
		Status:      status,
		StartDate:   start,
		CreatedAt:   created,
	}
	if status == project.StatusCompleted || status == project.StatusCancelled {
		end := start.AddDate(0, 0, 30+g.rnd.Intn(336))
		p.EndDate = &end
	}
	return p
}

// activities returns 0 to 10 activities for userID.
func (g *generator) activities(userID int64) []activityRow {
	n := g.rnd.Intn(11)
	out := make([]activityRow, 0, n)
	for i := 0; i < n; i++ {
		action := g.pick(actionTypes)
		out = append(out, activityRow{
			UserID:      userID,
			ActionType:  action,
			Description: g.describe(action),
			IPAddress:   fmt.Sprintf("%d.%d.%d.%d", 1+g.rnd.Intn(223), g.rnd.Intn(256), g.rnd.Intn(256), 1+g.rnd.Intn(254)),
			UserAgent:   g.pick(userAgents),
			CreatedAt:   g.pastTime(),
		})
	}
	return out
}

func (g *generator) describe(action string) string {
	switch action {
	case activity.ActionLogin:
		return "Successful login"
	case activity.ActionLogout:
		return "User logged out"
	case "DOWNLOAD":
		return fmt.Sprintf("Downloaded %s.pdf", g.pick(words))
	case "UPLOAD":
		return fmt.Sprintf("Uploaded %s.pdf", g.pick(words))
	default:
		return fmt.Sprintf("%s %s", strings.ToLower(action), g.pick(words))
	}
}

// memberships puts userID in 1 to 6 distinct projects, weighted 5/15/80 owner/admin/member.
func (g *generator) memberships(userID int64, projectIDs []int64) []membershipRow {
	if len(projectIDs) == 0 {
		return nil
	}
	n := 1 + g.rnd.Intn(6)
	if n > len(projectIDs) {
		n = len(projectIDs)
	}
	seen := make(map[int64]struct{}, n)
	out := make([]membershipRow, 0, n)
	for len(out) < n {
		pid := projectIDs[g.rnd.Intn(len(projectIDs))]
		if _, dup := seen[pid]; dup {
			continue
		}
		seen[pid] = struct{}{}
		out = append(out, membershipRow{UserID: userID, ProjectID: pid, Role: g.role(), JoinedAt: g.pastTime()})
	}
	return out
}

func (g *generator) role() project.Role {
	switch r := g.rnd.Intn(100); {
	case r < 5:
		return project.RoleOwner
	case r < 20:
		return project.RoleAdmin
	default:
		return project.RoleMember
	}
}
