package session

import (
	"context"
	"errors"
	"testing"

	"github.com/you/clinicgate/domain"
	"github.com/you/clinicgate/internal/infrastructure/store"
)

func strptr(s string) *string { return &s }

func newTestProvider(t *testing.T) (*Provider, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return NewProvider(st, nil), st
}

func TestProvider_RehydrateEmptyStore(t *testing.T) {
	p, _ := newTestProvider(t)

	if got := p.Snapshot(); !got.Pending() {
		t.Fatalf("state before rehydrate = %v, want initializing", got.State)
	}

	p.Rehydrate(context.Background())
	<-p.Ready()

	snap := p.Snapshot()
	if snap.State != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", snap.State)
	}
	if snap.Session != nil {
		t.Errorf("session = %+v, want nil", snap.Session)
	}
}

func TestProvider_RehydratePersistedSession(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	saved := &domain.Session{ID: "doc-001", Name: "Dr. Priya Sharma", Role: domain.RoleDoctor}
	if err := st.Save(ctx, saved); err != nil {
		t.Fatal(err)
	}

	p := NewProvider(st, nil)
	p.Rehydrate(ctx)

	snap := p.Snapshot()
	if snap.State != StateAuthenticated {
		t.Fatalf("state = %v, want authenticated", snap.State)
	}
	if snap.Session.ID != "doc-001" || snap.Role() != domain.RoleDoctor {
		t.Errorf("session = %+v", snap.Session)
	}
}

type failingStore struct{}

func (failingStore) Load(context.Context) (*domain.Session, error) {
	return nil, errors.New("disk on fire")
}
func (failingStore) Save(context.Context, *domain.Session) error { return errors.New("disk on fire") }
func (failingStore) Clear(context.Context) error                 { return errors.New("disk on fire") }

func TestProvider_RehydrateFailureDegradesToUnauthenticated(t *testing.T) {
	p := NewProvider(failingStore{}, nil)
	p.Rehydrate(context.Background())

	if snap := p.Snapshot(); snap.State != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", snap.State)
	}
}

func TestProvider_RehydrateRunsOnce(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	p := NewProvider(st, nil)
	p.Rehydrate(ctx)

	// A record appearing later must not resurrect through a second call.
	if err := st.Save(ctx, &domain.Session{ID: "u-9", Role: domain.RolePatient}); err != nil {
		t.Fatal(err)
	}
	p.Rehydrate(ctx)

	if snap := p.Snapshot(); snap.State != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated after one-shot rehydrate", snap.State)
	}
}

func TestProvider_LoginPersistsBeforeCommit(t *testing.T) {
	p, st := newTestProvider(t)
	ctx := context.Background()
	p.Rehydrate(ctx)

	sess := &domain.Session{
		ID:      "patient-1",
		Name:    "John Doe",
		Email:   "patient@demo.com",
		Role:    domain.RolePatient,
		Profile: map[string]any{"blood_group": "O+"},
		Token:   "tok-1",
	}
	if err := p.Login(ctx, sess); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// A fresh load from the store reflects the session field-for-field.
	persisted, err := st.Load(ctx)
	if err != nil || persisted == nil {
		t.Fatalf("store.Load() = %v, %v", persisted, err)
	}
	if persisted.ID != sess.ID || persisted.Name != sess.Name ||
		persisted.Email != sess.Email || persisted.Role != sess.Role ||
		persisted.Token != sess.Token || persisted.Profile["blood_group"] != "O+" {
		t.Errorf("persisted = %+v, want %+v", persisted, sess)
	}

	snap := p.Snapshot()
	if !snap.IsAuthenticated() || snap.Role() != domain.RolePatient {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestProvider_LoginRejectsInvalidSession(t *testing.T) {
	p, st := newTestProvider(t)
	ctx := context.Background()
	p.Rehydrate(ctx)

	err := p.Login(ctx, &domain.Session{ID: "u-1", Role: domain.Role("superuser")})
	if err != domain.ErrUnknownRole {
		t.Fatalf("Login() error = %v, want ErrUnknownRole", err)
	}
	if got, _ := st.Load(ctx); got != nil {
		t.Error("invalid login must not persist anything")
	}
	if snap := p.Snapshot(); snap.IsAuthenticated() {
		t.Error("invalid login must not authenticate")
	}
}

func TestProvider_LoginFailedSaveLeavesStateUnchanged(t *testing.T) {
	p := NewProvider(failingStore{}, nil)
	p.Rehydrate(context.Background())

	err := p.Login(context.Background(), &domain.Session{ID: "u-1", Role: domain.RolePatient})
	if err == nil {
		t.Fatal("Login() should propagate the store failure")
	}
	if snap := p.Snapshot(); snap.IsAuthenticated() {
		t.Error("failed persist must not install the session")
	}
}

func TestProvider_LogoutIdempotent(t *testing.T) {
	p, st := newTestProvider(t)
	ctx := context.Background()
	p.Rehydrate(ctx)

	if err := p.Login(ctx, &domain.Session{ID: "u-1", Role: domain.RoleHospital}); err != nil {
		t.Fatal(err)
	}

	if err := p.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	first := p.Snapshot()

	if err := p.Logout(ctx); err != nil {
		t.Fatalf("second Logout() error = %v", err)
	}
	second := p.Snapshot()

	if first.State != StateUnauthenticated || second.State != StateUnauthenticated {
		t.Errorf("states = %v, %v, want unauthenticated twice", first.State, second.State)
	}
	if got, _ := st.Load(ctx); got != nil {
		t.Errorf("store record = %+v, want cleared", got)
	}
}

func TestProvider_UpdateUserMergesShallowly(t *testing.T) {
	p, st := newTestProvider(t)
	ctx := context.Background()
	p.Rehydrate(ctx)

	if err := p.Login(ctx, &domain.Session{
		ID:    "patient-1",
		Name:  "John Doe",
		Email: "patient@demo.com",
		Phone: "+91 9876543210",
		Role:  domain.RolePatient,
		Profile: map[string]any{
			"blood_group": "O+",
			"allergies":   []string{"Penicillin"},
		},
	}); err != nil {
		t.Fatal(err)
	}

	got, err := p.UpdateUser(ctx, domain.SessionUpdate{
		Name:    strptr("Johnathan Doe"),
		Profile: map[string]any{"blood_group": "B+"},
	})
	if err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}

	if got.Name != "Johnathan Doe" {
		t.Errorf("Name = %q", got.Name)
	}
	// Everything else is preserved.
	if got.Email != "patient@demo.com" || got.Phone != "+91 9876543210" ||
		got.Role != domain.RolePatient {
		t.Errorf("unrelated fields changed: %+v", got)
	}
	if got.Profile["blood_group"] != "B+" {
		t.Errorf("profile key not merged: %v", got.Profile)
	}
	if _, ok := got.Profile["allergies"]; !ok {
		t.Errorf("untouched profile key dropped: %v", got.Profile)
	}

	// The merged record is what a fresh load sees.
	persisted, _ := st.Load(ctx)
	if persisted == nil || persisted.Name != "Johnathan Doe" || persisted.Profile["blood_group"] != "B+" {
		t.Errorf("persisted = %+v", persisted)
	}
}

func TestProvider_UpdateUserWithoutSession(t *testing.T) {
	p, st := newTestProvider(t)
	ctx := context.Background()
	p.Rehydrate(ctx)

	_, err := p.UpdateUser(ctx, domain.SessionUpdate{Name: strptr("x")})
	if err != domain.ErrNoActiveSession {
		t.Fatalf("UpdateUser() error = %v, want ErrNoActiveSession", err)
	}
	if got, _ := st.Load(ctx); got != nil {
		t.Error("misuse must leave the store untouched")
	}
}

func TestProvider_SnapshotIsolation(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()
	p.Rehydrate(ctx)

	if err := p.Login(ctx, &domain.Session{
		ID: "u-1", Role: domain.RolePatient,
		Profile: map[string]any{"k": "v"},
	}); err != nil {
		t.Fatal(err)
	}

	snap := p.Snapshot()
	snap.Session.Name = "tampered"
	snap.Session.Profile["k"] = "tampered"

	fresh := p.Snapshot()
	if fresh.Session.Name == "tampered" || fresh.Session.Profile["k"] == "tampered" {
		t.Error("snapshot mutation leaked into the provider")
	}
}
