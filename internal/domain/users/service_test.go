package users

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pet-clinic-platform/internal/domain/owners"
	"pet-clinic-platform/internal/domain/vets"
	"pet-clinic-platform/internal/ports/auth"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]User

	ownerRepo *testOwnerRepo
	vetRepo   *testVetRepo
}

func newTestRepo() *testRepo {
	return &testRepo{
		byID:      map[string]User{},
		ownerRepo: &testOwnerRepo{byID: map[string]owners.Owner{}},
		vetRepo:   &testVetRepo{byID: map[string]vets.Veterinarian{}},
	}
}

func (r *testRepo) GetByID(ctx context.Context, id string) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *testRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *testRepo) List(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	return out, nil
}

func (r *testRepo) Create(ctx context.Context, u User) error {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) CreateOwnerAccount(ctx context.Context, u User, o owners.Owner) error {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	for _, existing := range r.ownerRepo.byID {
		if existing.Name == o.Name {
			return ErrNameTaken
		}
	}
	r.byID[u.ID] = u
	r.ownerRepo.byID[o.ID] = o
	return nil
}

func (r *testRepo) CreateVetAccount(ctx context.Context, u User, v vets.Veterinarian) error {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	r.byID[u.ID] = u
	r.vetRepo.byID[v.ID] = v
	return nil
}

type testOwnerRepo struct {
	byID map[string]owners.Owner
}

func (r *testOwnerRepo) GetByID(ctx context.Context, id string) (owners.Owner, error) {
	o, ok := r.byID[id]
	if !ok {
		return owners.Owner{}, owners.ErrNotFound
	}
	return o, nil
}

func (r *testOwnerRepo) GetByUserID(ctx context.Context, userID string) (owners.Owner, error) {
	for _, o := range r.byID {
		if o.UserID == userID {
			return o, nil
		}
	}
	return owners.Owner{}, owners.ErrNotFound
}

func (r *testOwnerRepo) GetByName(ctx context.Context, name string) (owners.Owner, error) {
	for _, o := range r.byID {
		if o.Name == name {
			return o, nil
		}
	}
	return owners.Owner{}, owners.ErrNotFound
}

func (r *testOwnerRepo) List(ctx context.Context) ([]owners.Owner, error) { return nil, nil }
func (r *testOwnerRepo) Update(ctx context.Context, o owners.Owner) error { return nil }
func (r *testOwnerRepo) DeleteCascade(ctx context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type testVetRepo struct {
	byID map[string]vets.Veterinarian
}

func (r *testVetRepo) GetByID(ctx context.Context, id string) (vets.Veterinarian, error) {
	v, ok := r.byID[id]
	if !ok {
		return vets.Veterinarian{}, vets.ErrNotFound
	}
	return v, nil
}

func (r *testVetRepo) GetByUserID(ctx context.Context, userID string) (vets.Veterinarian, error) {
	for _, v := range r.byID {
		if v.UserID == userID {
			return v, nil
		}
	}
	return vets.Veterinarian{}, vets.ErrNotFound
}

func (r *testVetRepo) List(ctx context.Context) ([]vets.Veterinarian, error) { return nil, nil }
func (r *testVetRepo) Update(ctx context.Context, v vets.Veterinarian) error { return nil }
func (r *testVetRepo) DeleteCascade(ctx context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

// testTokens firma tokens triviales "tok:<userID>"; suficiente para probar
// el flujo login/authenticate sin JWT de por medio.
type testTokens struct{}

func (testTokens) Sign(ctx context.Context, userID string) (string, error) {
	return "tok:" + userID, nil
}

func (testTokens) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if !strings.HasPrefix(token, "tok:") {
		return auth.Claims{}, errors.New("bad token")
	}
	return auth.Claims{UserID: strings.TrimPrefix(token, "tok:")}, nil
}

func newTestService(repo *testRepo) *Service {
	return NewService(Options{
		Repo:       repo,
		OwnerRepo:  repo.ownerRepo,
		VetRepo:    repo.vetRepo,
		Issuer:     testTokens{},
		Verifier:   testTokens{},
		BcryptCost: 4, // mínimo de bcrypt, para que los tests no se arrastren
	})
}

// -------------------------
// Tests
// -------------------------

func TestRegister_AlwaysCreatesOwnerRole(t *testing.T) {
	svc := newTestService(newTestRepo())

	u, o, err := svc.Register(context.Background(), RegisterInput{
		Email:    "Alice@Email.com",
		Password: "s3cret",
		Name:     "Alice",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != auth.RoleOwner {
		t.Fatalf("expected OWNER role, got %s", u.Role)
	}
	if u.Email != "alice@email.com" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}
	if o.UserID != u.ID {
		t.Fatalf("owner not linked to user")
	}
}

func TestRegister_DuplicateEmailAndName(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{Email: "alice@email.com", Password: "x", Name: "Alice"}); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, _, err := svc.Register(ctx, RegisterInput{Email: "alice@email.com", Password: "x", Name: "Alicia"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	_, _, err = svc.Register(ctx, RegisterInput{Email: "other@email.com", Password: "x", Name: "Alice"})
	if !errors.Is(err, ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}
}

func TestLogin_GenericFailure(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{Email: "alice@email.com", Password: "right", Name: "Alice"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Email desconocido y password incorrecto fallan idéntico.
	_, _, errUnknown := svc.Login(ctx, "ghost@email.com", "whatever")
	_, _, errWrongPw := svc.Login(ctx, "alice@email.com", "wrong")

	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrongPw, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPw)
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Fatalf("failure modes distinguishable: %q vs %q", errUnknown, errWrongPw)
	}
}

func TestLogin_NoLockout(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{Email: "alice@email.com", Password: "right", Name: "Alice"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Muchos intentos fallidos no bloquean la cuenta.
	for i := 0; i < 10; i++ {
		if _, _, err := svc.Login(ctx, "alice@email.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}

	if _, _, err := svc.Login(ctx, "alice@email.com", "right"); err != nil {
		t.Fatalf("login after failed attempts: %v", err)
	}
}

func TestLogin_ResolvesPrincipalProfile(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()

	_, o, err := svc.Register(ctx, RegisterInput{Email: "alice@email.com", Password: "pw", Name: "Alice"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, p, err := svc.Login(ctx, "alice@email.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if p.Role != auth.RoleOwner || p.OwnerID != o.ID {
		t.Fatalf("principal profile not resolved: %+v", p)
	}
}

func TestAuthenticate_PrincipalGone(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	u, _, err := svc.Register(ctx, RegisterInput{Email: "alice@email.com", Password: "pw", Name: "Alice"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	token, _, err := svc.Login(ctx, "alice@email.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// La cuenta desaparece; el token firmado sigue siendo criptográficamente
	// válido pero ya no autentica.
	delete(repo.byID, u.ID)

	_, err = svc.Authenticate(ctx, token)
	if !errors.Is(err, ErrPrincipalGone) {
		t.Fatalf("expected ErrPrincipalGone, got %v", err)
	}
}

func TestAuthenticate_RoleComesFromStore(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	u, v, err := svc.CreateVeterinarian(ctx, CreateVetInput{
		Email:      "vet@email.com",
		Password:   "pw",
		Name:       "Dr. Ruiz",
		Speciality: "felinos",
	})
	if err != nil {
		t.Fatalf("create vet: %v", err)
	}

	token, _, err := svc.Login(ctx, "vet@email.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	p, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if p.Role != auth.RoleVet || p.VetID != v.ID || p.UserID != u.ID {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	if err := svc.EnsureAdmin(ctx, "admin@email.com", "admin-pw"); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := svc.EnsureAdmin(ctx, "admin@email.com", "admin-pw"); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected a single admin account, got %d", len(repo.byID))
	}

	_, p, err := svc.Login(ctx, "admin@email.com", "admin-pw")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if p.Role != auth.RoleAdmin {
		t.Fatalf("expected ADMIN role, got %s", p.Role)
	}
}
