package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"campus-governance-api/config"
	"campus-governance-api/models"

	"gorm.io/gorm"
)

// Capability is a permission an actor needs for a governance operation.
type Capability string

const (
	CapCreateEvent  Capability = "event:create"
	CapSubmitEvent  Capability = "event:submit"
	CapApproveEvent Capability = "event:approve"
	CapAssignJudges Capability = "judges:assign"
	CapLockScores   Capability = "scores:lock"
	CapReadAudit    Capability = "governance:read"
	// CapAdmin implies every other capability.
	CapAdmin Capability = "admin"
)

// defaultRoleCapabilities applies when roles.capabilities is empty.
var defaultRoleCapabilities = map[string][]Capability{
	"student":   nil,
	"judge":     nil,
	"organizer": {CapCreateEvent, CapSubmitEvent},
	"faculty":   {CapCreateEvent, CapSubmitEvent},
	"hod":       {CapApproveEvent, CapLockScores, CapAssignJudges, CapReadAudit},
	"approver":  {CapApproveEvent, CapLockScores, CapReadAudit},
	"director":  {CapAssignJudges, CapReadAudit},
	"admin":     {CapAdmin},
}

// CapabilitySet is the resolved permission set of an actor.
type CapabilitySet map[Capability]struct{}

func NewCapabilitySet(caps ...Capability) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// Has reports whether the set grants capability.
func (s CapabilitySet) Has(capability Capability) bool {
	if _, ok := s[CapAdmin]; ok {
		return true
	}
	_, ok := s[capability]
	return ok
}

// Actor is the caller of a governance operation. It is always passed explicitly.
type Actor struct {
	UserID       int           `json:"user_id"`
	RoleID       int           `json:"role_id"`
	RoleName     string        `json:"role"`
	Capabilities CapabilitySet `json:"-"`
}

// RequireCapability is the single authorization gate of the governance core.
func RequireCapability(actor Actor, capability Capability) error {
	if actor.UserID <= 0 {
		return fmt.Errorf("%w: no authenticated actor", ErrForbidden)
	}
	if !actor.Capabilities.Has(capability) {
		return fmt.Errorf("%w: %s requires %s", ErrForbidden, actorLabel(actor), capability)
	}
	return nil
}

func actorLabel(actor Actor) string {
	if actor.RoleName != "" {
		return fmt.Sprintf("user %d (%s)", actor.UserID, actor.RoleName)
	}
	return fmt.Sprintf("user %d", actor.UserID)
}

// ParseCapabilities splits a comma separated capability list.
func ParseCapabilities(raw string) []Capability {
	parts := strings.Split(raw, ",")
	caps := make([]Capability, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		caps = append(caps, Capability(p))
	}
	return caps
}

// CapabilitiesForRole resolves the capabilities granted by a role row.
func CapabilitiesForRole(role models.Role) CapabilitySet {
	if strings.TrimSpace(role.Capabilities) != "" {
		return NewCapabilitySet(ParseCapabilities(role.Capabilities)...)
	}
	return NewCapabilitySet(defaultRoleCapabilities[strings.ToLower(strings.TrimSpace(role.Role))]...)
}

const roleCacheTTL = 5 * time.Minute

type roleCacheEntry struct {
	byID      map[int]models.Role
	fetchedAt time.Time
}

// ActorResolver turns an authenticated user id into an Actor. Roles are cached
// for roleCacheTTL and reloaded once when an unknown role id shows up.
type ActorResolver struct {
	db *gorm.DB

	mu    sync.RWMutex
	cache *roleCacheEntry
}

func NewActorResolver(db *gorm.DB) *ActorResolver {
	if db == nil {
		db = config.DB
	}
	return &ActorResolver{db: db}
}

func (r *ActorResolver) loadRoles(ctx context.Context, force bool) (*roleCacheEntry, error) {
	r.mu.RLock()
	cached := r.cache
	r.mu.RUnlock()

	if cached != nil && !force && time.Since(cached.fetchedAt) < roleCacheTTL {
		return cached, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cache != nil && !force && time.Since(r.cache.fetchedAt) < roleCacheTTL {
		return r.cache, nil
	}

	var rows []models.Role
	if err := r.db.WithContext(ctx).Where("delete_at IS NULL").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}

	byID := make(map[int]models.Role, len(rows))
	for _, role := range rows {
		byID[role.RoleID] = role
	}

	r.cache = &roleCacheEntry{byID: byID, fetchedAt: time.Now()}
	return r.cache, nil
}

// Invalidate drops the cached role table.
func (r *ActorResolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = nil
}

func (r *ActorResolver) role(ctx context.Context, roleID int) (models.Role, bool, error) {
	entry, err := r.loadRoles(ctx, false)
	if err != nil {
		return models.Role{}, false, err
	}
	if role, ok := entry.byID[roleID]; ok {
		return role, true, nil
	}

	// Force refresh cache once before giving up
	entry, err = r.loadRoles(ctx, true)
	if err != nil {
		return models.Role{}, false, err
	}
	role, ok := entry.byID[roleID]
	return role, ok, nil
}

// ResolveActor loads the user and its role capabilities.
func (r *ActorResolver) ResolveActor(ctx context.Context, userID int) (Actor, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND delete_at IS NULL", userID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Actor{}, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return Actor{}, fmt.Errorf("failed to load user %d: %w", userID, err)
	}

	actor := Actor{UserID: user.UserID, RoleID: user.RoleID, Capabilities: CapabilitySet{}}
	role, ok, err := r.role(ctx, user.RoleID)
	if err != nil {
		return Actor{}, err
	}
	if ok {
		actor.RoleName = role.Role
		actor.Capabilities = CapabilitiesForRole(role)
	}
	return actor, nil
}
