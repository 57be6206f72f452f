// Package demo provides a sample command set and sender used by the
// console and gateway hosts.
package demo

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/msto63/cmdcore/pkg/core/sender"
)

// Replier is implemented by senders that can receive handler output.
type Replier interface {
	Reply(text string)
}

// PermissionHolder is implemented by senders that carry permissions.
type PermissionHolder interface {
	HasPermission(permission string) bool
}

// Position is a point in the demo world.
type Position struct {
	X, Y, Z float64
}

func (p Position) String() string {
	return fmt.Sprintf("%.2f %.2f %.2f", p.X, p.Y, p.Z)
}

// User is a demo sender with a permission set and an optional presence in
// the world. Replies are buffered until drained by the host.
type User struct {
	name string

	mu          sync.Mutex
	permissions map[string]struct{}
	inWorld     bool
	position    Position
	replies     []string
}

// NewUser creates a user holding permissions. A permission ending in ".*"
// grants everything below it; "*" grants everything.
func NewUser(name string, permissions ...string) *User {
	u := &User{name: name, permissions: make(map[string]struct{}, len(permissions))}
	for _, p := range permissions {
		u.permissions[p] = struct{}{}
	}
	return u
}

// Name implements sender.Sender.
func (u *User) Name() string { return u.name }

// HasPermission reports whether u holds permission directly or by wildcard.
func (u *User) HasPermission(permission string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, ok := u.permissions["*"]; ok {
		return true
	}
	if _, ok := u.permissions[permission]; ok {
		return true
	}
	for p := range u.permissions {
		if prefix, ok := strings.CutSuffix(p, ".*"); ok && strings.HasPrefix(permission, prefix+".") {
			return true
		}
	}
	return false
}

// Grant adds permissions.
func (u *User) Grant(permissions ...string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, p := range permissions {
		u.permissions[p] = struct{}{}
	}
}

// Permissions returns the held permissions sorted.
func (u *User) Permissions() []string {
	u.mu.Lock()
	defer u.mu.Unlock()

	out := make([]string, 0, len(u.permissions))
	for p := range u.permissions {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Join places u in the world at the origin.
func (u *User) Join() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.inWorld = true
}

// Leave removes u from the world.
func (u *User) Leave() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.inWorld = false
	u.position = Position{}
}

// InWorld reports whether u is in the world.
func (u *User) InWorld() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.inWorld
}

// Position returns u's current position.
func (u *User) Position() Position {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.position
}

func (u *User) moveTo(p Position) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.position = p
}

// Reply implements Replier.
func (u *User) Reply(text string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.replies = append(u.replies, text)
}

// Drain returns and clears the buffered replies.
func (u *User) Drain() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := u.replies
	u.replies = nil
	return out
}

// Permission is the dispatch permission predicate for the demo hosts. The
// console sender holds every permission; other senders need to implement
// PermissionHolder.
func Permission(s sender.Sender, permission string) bool {
	if s == sender.Console {
		return true
	}
	if h, ok := s.(PermissionHolder); ok {
		return h.HasPermission(permission)
	}
	return false
}

// Directory tracks the users known to a host, for the "user" argument type.
// Users created through GetOrAdd are guests: they can be capped and expire
// when idle. Users added with Add stay until removed.
type Directory struct {
	mu     sync.RWMutex
	users  map[string]*User
	guests map[string]time.Time
	limit  int
	now    func() time.Time
}

// NewDirectory creates an empty directory without a guest limit.
func NewDirectory() *Directory {
	return &Directory{
		users:  make(map[string]*User),
		guests: make(map[string]time.Time),
		now:    time.Now,
	}
}

// SetGuestLimit caps the number of guests kept. Zero means no limit.
func (d *Directory) SetGuestLimit(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.limit = n
}

// Add registers u, replacing a user with the same name.
func (d *Directory) Add(u *User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := strings.ToLower(u.Name())
	d.users[k] = u
	delete(d.guests, k)
}

// GetOrAdd returns the user called name, creating a guest without
// permissions on first use. When the guest limit is reached the new user is
// returned without being kept, and kept reports false.
func (d *Directory) GetOrAdd(name string) (u *User, kept bool) {
	k := strings.ToLower(name)

	d.mu.Lock()
	defer d.mu.Unlock()

	if u, ok := d.users[k]; ok {
		if _, guest := d.guests[k]; guest {
			d.guests[k] = d.now()
		}
		return u, true
	}

	u = NewUser(name)
	if d.limit > 0 && len(d.guests) >= d.limit {
		return u, false
	}
	d.users[k] = u
	d.guests[k] = d.now()
	return u, true
}

// ExpireGuests forgets guests unused for longer than idle, except those in
// the world. It returns the number removed.
func (d *Directory) ExpireGuests(idle time.Duration) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	cutoff := d.now().Add(-idle)
	n := 0
	for k, seen := range d.guests {
		if seen.After(cutoff) || d.users[k].InWorld() {
			continue
		}
		delete(d.guests, k)
		delete(d.users, k)
		n++
	}
	return n
}

// Guests returns the number of guests kept.
func (d *Directory) Guests() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.guests)
}

// Remove forgets the user called name.
func (d *Directory) Remove(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := strings.ToLower(name)
	delete(d.users, k)
	delete(d.guests, k)
}

// Get finds a user by case-insensitive name.
func (d *Directory) Get(name string) (*User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[strings.ToLower(name)]
	return u, ok
}

// Names returns every user's name sorted.
func (d *Directory) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]string, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, u.Name())
	}
	sort.Strings(out)
	return out
}
