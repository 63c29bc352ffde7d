// Package guard decides whether a navigation may render its view.
package guard

import (
	"fmt"
	"slices"
	"strings"

	"mess-portal/internal/model"
	"mess-portal/internal/session"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

type Kind string

const (
	KindLoading  Kind = "loading"
	KindAllow    Kind = "allow"
	KindRedirect Kind = "redirect"
	KindDeny     Kind = "deny"
)

// Decision is the outcome of a guard. Allow, Redirect and Deny are terminal;
// Loading means no decision can be made yet.
type Decision struct {
	Kind       Kind
	RedirectTo string
	From       string
	Reason     string
}

type Guard interface {
	Decide(snap session.Snapshot, location string) Decision
}

// Authenticated lets any authenticated user through.
type Authenticated struct{}

func (Authenticated) Decide(snap session.Snapshot, location string) Decision {
	if snap.IsLoading {
		return Decision{Kind: KindLoading}
	}

	if !snap.IsAuthenticated {
		return Decision{
			Kind:       KindRedirect,
			RedirectTo: LoginPath,
			From:       location,
			Reason:     "authentication required",
		}
	}

	return Decision{Kind: KindAllow}
}

// RoleRestricted additionally requires the user's role to be in AllowedRoles.
type RoleRestricted struct {
	AllowedRoles []model.Role
}

func RequireRoles(roles ...model.Role) RoleRestricted {
	return RoleRestricted{AllowedRoles: roles}
}

func (g RoleRestricted) Decide(snap session.Snapshot, location string) Decision {
	decision := Authenticated{}.Decide(snap, location)
	if decision.Kind != KindAllow {
		return decision
	}

	// A nil user here breaks the session invariant; treat it as a denial.
	if snap.User == nil || !slices.Contains(g.AllowedRoles, snap.User.Role) {
		return Decision{
			Kind:       KindDeny,
			RedirectTo: HomePath,
			From:       location,
			Reason:     g.denialReason(snap, location),
		}
	}

	return decision
}

func (g RoleRestricted) denialReason(snap session.Snapshot, location string) string {
	allowed := make([]string, 0, len(g.AllowedRoles))
	for _, role := range g.AllowedRoles {
		allowed = append(allowed, string(role))
	}

	role := "unknown"
	if snap.User != nil {
		role = string(snap.User.Role)
	}

	return fmt.Sprintf("access denied for role %s on %s (allowed: %s)", role, location, strings.Join(allowed, ", "))
}
