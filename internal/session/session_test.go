package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"showdown-client/internal/api"
	"showdown-client/internal/domain"
)

type fakeNavigator struct {
	routes []string
}

func (f *fakeNavigator) NavigateTo(route string) {
	f.routes = append(f.routes, route)
}

type fakePoster struct {
	path string
	body any
	resp string
	err  error
}

func (f *fakePoster) PostPublic(_ context.Context, path string, body, out any) error {
	f.path = path
	f.body = body
	if f.err != nil {
		return f.err
	}
	if out != nil && f.resp != "" {
		return json.Unmarshal([]byte(f.resp), out)
	}
	return nil
}

type fakeResetter struct {
	calls int
}

func (f *fakeResetter) Reset() { f.calls++ }

func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	if err != nil {
		t.Fatalf("encoding header: %v", err)
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("encoding claims: %v", err)
	}
	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + "." + enc.EncodeToString([]byte("sig"))
}

func TestLoginStoresSessionAndNavigates(t *testing.T) {
	token := makeToken(t, map[string]any{"userId": 7, "username": "casey"})
	nav := &fakeNavigator{}
	store := NewFileStore(t.TempDir())

	sess := New(Config{Store: store, Navigator: nav})
	sess.UseClient(&fakePoster{resp: `{"token":"` + token + `"}`})

	if err := sess.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}

	if !sess.IsAuthenticated() {
		t.Fatal("expected authenticated session")
	}
	if got := sess.CurrentUser(); got.ID != 7 || got.Username != "casey" {
		t.Fatalf("unexpected user %+v", got)
	}
	if len(nav.routes) != 1 || nav.routes[0] != RoutePostAuth {
		t.Fatalf("expected post-auth navigation, got %v", nav.routes)
	}

	// The persisted session must survive a fresh context (process restart).
	restored := New(Config{Store: store})
	if restored.Token() != token {
		t.Fatal("expected persisted token to be restored")
	}
	if got := restored.CurrentUser(); got.Username != "casey" {
		t.Fatalf("expected persisted user restored, got %+v", got)
	}
}

func TestLoginRejectionSurfacesAuthError(t *testing.T) {
	nav := &fakeNavigator{}
	sess := New(Config{Navigator: nav})
	sess.UseClient(&fakePoster{err: &api.AuthError{StatusCode: 401, Message: "bad credentials"}})

	err := sess.Login(context.Background(), "a@b.c", "wrong")
	if _, ok := api.AsAuthError(err); !ok {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if sess.IsAuthenticated() {
		t.Fatal("expected no session after failed login")
	}
	if len(nav.routes) != 0 {
		t.Fatalf("expected no navigation, got %v", nav.routes)
	}
}

func TestLoginUnreadableTokenIsDecodeError(t *testing.T) {
	sess := New(Config{})
	sess.UseClient(&fakePoster{resp: `{"token":"not-a-jwt"}`})

	err := sess.Login(context.Background(), "a@b.c", "pw")
	if _, ok := api.AsDecodeError(err); !ok {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestRegisterWithoutTokenLandsOnLogin(t *testing.T) {
	nav := &fakeNavigator{}
	sess := New(Config{Navigator: nav})
	sess.UseClient(&fakePoster{resp: `{}`})

	if err := sess.Register(context.Background(), Credentials{Email: "a@b.c"}); err != nil {
		t.Fatalf("expected registration to succeed, got %v", err)
	}
	if sess.IsAuthenticated() {
		t.Fatal("expected no session without a token")
	}
	if len(nav.routes) != 1 || nav.routes[0] != RoutePreAuth {
		t.Fatalf("expected pre-auth navigation, got %v", nav.routes)
	}
}

func TestRegisterValidationErrorsPropagate(t *testing.T) {
	rej := &api.ServerRejection{StatusCode: 422, Errors: []string{"email taken", "password too short"}}
	sess := New(Config{})
	sess.UseClient(&fakePoster{err: rej})

	err := sess.Register(context.Background(), Credentials{})
	got, ok := api.AsServerRejection(err)
	if !ok || len(got.Errors) != 2 {
		t.Fatalf("expected itemized rejection, got %v", err)
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	token := makeToken(t, map[string]any{"userId": 7, "username": "casey"})
	nav := &fakeNavigator{}
	store := NewFileStore(t.TempDir())
	reset := &fakeResetter{}

	sess := New(Config{Store: store, Navigator: nav})
	sess.UseClient(&fakePoster{resp: `{"token":"` + token + `"}`})
	sess.AddResetter(reset)

	if err := sess.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	sess.Logout()

	if sess.IsAuthenticated() {
		t.Fatal("expected session cleared")
	}
	if reset.calls != 1 {
		t.Fatalf("expected dependent reset, got %d calls", reset.calls)
	}
	if nav.routes[len(nav.routes)-1] != RoutePreAuth {
		t.Fatalf("expected pre-auth navigation, got %v", nav.routes)
	}

	restored := New(Config{Store: store})
	if restored.IsAuthenticated() {
		t.Fatal("expected persisted session removed")
	}
}

func TestFileStoreMissingFileIsEmptySession(t *testing.T) {
	store := NewFileStore(t.TempDir())
	sess, err := store.Load()
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if sess.Valid() {
		t.Fatal("expected empty session")
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("expected clear of missing file to succeed, got %v", err)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir())
	want := domain.Session{Token: "tok", User: domain.User{ID: 3, Username: "rae"}}

	if err := store.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestDecodeUserRequiresIdentityClaims(t *testing.T) {
	token := makeToken(t, map[string]any{"exp": 1700000000})
	if _, err := decodeUser(token); err == nil {
		t.Fatal("expected error for identity-free claims")
	}
	if _, err := decodeUser("garbage"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
