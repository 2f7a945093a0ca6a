package role

import (
	"context"
	"sync"
	"time"

	"community-sport/backend/internal/apperr"
	"community-sport/backend/internal/logger"

	"firebase.google.com/go/v4/auth"
)

// ClaimsStore is the slice of the Firebase Auth admin client the service needs.
type ClaimsStore interface {
	SetCustomUserClaims(ctx context.Context, uid string, customClaims map[string]interface{}) error
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
}

// Service assigns and reads roles. The custom claim is the only source of truth.
type Service struct {
	claims ClaimsStore
	log    *logger.Logger
	now    func() time.Time

	mu     sync.Mutex
	nextID int
	subs   map[int]func(Change)
}

func NewService(claims ClaimsStore, log *logger.Logger) *Service {
	return &Service{
		claims: claims,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
		subs:   map[int]func(Change){},
	}
}

// Subscribe registers fn for role changes. Subscribers run synchronously, in
// no particular order, after each successful SetRole.
func (s *Service) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Service) SetRole(ctx context.Context, caller Caller, in SetRoleInput) (*SetRoleResult, error) {
	if in.UID == "" {
		return nil, apperr.Validation("Missing required field: uid")
	}
	r, ok := Parse(in.Role)
	if !ok {
		return nil, apperr.Validation("Role must be either member or organizer")
	}
	if !caller.Authenticated() {
		return nil, apperr.Unauthenticated("Please log in to set a role.")
	}
	if caller.UID != in.UID && !caller.Admin {
		return nil, apperr.Permission("You can only set your own role.")
	}

	user, err := s.claims.GetUser(ctx, in.UID)
	if err != nil {
		return nil, s.lookupError(ctx, in.UID, err)
	}

	claims := map[string]interface{}{}
	for k, v := range user.CustomClaims {
		claims[k] = v
	}
	previous := FromClaims(user.CustomClaims)
	claims[ClaimKey] = string(r)
	claims["roles"] = mergeRoles(user.CustomClaims["roles"], r)
	claims["claimsUpdatedAt"] = s.now().Unix()

	if err := s.claims.SetCustomUserClaims(ctx, in.UID, claims); err != nil {
		s.log.ErrorContext(ctx, "Failed to set role claim", "uid", in.UID, "role", r, "error", err)
		return nil, apperr.Upstream("Failed to set user role. Please try again.", err)
	}

	s.log.InfoContext(ctx, "Role set", "uid", in.UID, "role", r, "previous", previous)
	s.notify(Change{UID: in.UID, Previous: previous, Role: r, At: s.now()})

	return &SetRoleResult{
		Success: true,
		Message: "Role set successfully",
		UID:     in.UID,
		Role:    r,
	}, nil
}

// GetRole returns the role claim for uid, or None when unset. Only uid itself
// or an admin may ask.
func (s *Service) GetRole(ctx context.Context, caller Caller, uid string) (Role, error) {
	if !caller.Authenticated() {
		return None, apperr.Unauthenticated("Please log in to view your role.")
	}
	if uid == "" {
		uid = caller.UID
	}
	if caller.UID != uid && !caller.Admin {
		return None, apperr.Permission("You can only view your own role.")
	}

	user, err := s.claims.GetUser(ctx, uid)
	if err != nil {
		return None, s.lookupError(ctx, uid, err)
	}
	return FromClaims(user.CustomClaims), nil
}

// Me answers getUserRole for the authenticated caller.
func (s *Service) Me(ctx context.Context, caller Caller) (*UserRole, error) {
	r, err := s.GetRole(ctx, caller, caller.UID)
	if err != nil {
		return nil, err
	}
	out := &UserRole{UID: caller.UID, Email: caller.Email}
	if r != None {
		out.Role = &r
	}
	return out, nil
}

// mergeRoles keeps non-community entries such as admin and replaces any
// member/organizer entry with r.
func mergeRoles(existing interface{}, r Role) map[string]interface{} {
	out := map[string]interface{}{}
	switch m := existing.(type) {
	case map[string]interface{}:
		for k, v := range m {
			out[k] = v
		}
	case map[string]bool:
		for k, v := range m {
			out[k] = v
		}
	case []interface{}:
		for _, v := range m {
			if name, ok := v.(string); ok {
				out[name] = true
			}
		}
	}
	delete(out, string(Member))
	delete(out, string(Organizer))
	out[string(r)] = true
	return out
}

func (s *Service) lookupError(ctx context.Context, uid string, err error) error {
	if auth.IsUserNotFound(err) {
		return apperr.NotFound("User not found")
	}
	s.log.ErrorContext(ctx, "Failed to load user", "uid", uid, "error", err)
	return apperr.Upstream("Failed to load user. Please try again.", err)
}

func (s *Service) notify(c Change) {
	s.mu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}
