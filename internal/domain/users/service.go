package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pet-clinic-platform/internal/domain/owners"
	"pet-clinic-platform/internal/domain/vets"
	"pet-clinic-platform/internal/platform/logger"
	"pet-clinic-platform/internal/ports/auth"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already exists")
	ErrNameTaken    = errors.New("owner name already exists")

	// ErrInvalidCredentials es deliberadamente genérico: no distingue
	// "email desconocido" de "password incorrecto" para no filtrar
	// qué cuentas existen.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated: token ausente, malformado o vencido.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrPrincipalGone: token válido pero la cuenta ya no existe.
	ErrPrincipalGone = errors.New("principal not found")
)

// Service resuelve sesiones y administra cuentas: auto-registro de owners,
// login, resolución de principal y el alta compuesta de veterinarios.
type Service struct {
	repo      Repository
	ownerRepo owners.Repository
	vetRepo   vets.Repository

	issuer   auth.TokenIssuer
	verifier auth.TokenVerifier

	log        logger.Logger
	bcryptCost int
	now        func() time.Time
}

type Options struct {
	Repo      Repository
	OwnerRepo owners.Repository
	VetRepo   vets.Repository
	Issuer    auth.TokenIssuer
	Verifier  auth.TokenVerifier
	Logger    logger.Logger

	// BcryptCost <= 0 usa bcrypt.DefaultCost.
	BcryptCost int
}

func NewService(opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	cost := opts.BcryptCost
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       opts.Repo,
		ownerRepo:  opts.OwnerRepo,
		vetRepo:    opts.VetRepo,
		issuer:     opts.Issuer,
		verifier:   opts.Verifier,
		log:        log,
		bcryptCost: cost,
		now:        time.Now,
	}
}

type RegisterInput struct {
	Email    string
	Password string

	Name    string
	Phone   string
	Address string
	Gender  string
}

// Register es el auto-registro público. El rol es SIEMPRE OWNER: cualquier
// role que venga del cliente se descarta antes de llegar acá.
// Crea User + Owner como unidad atómica.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, owners.Owner, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	if email == "" || in.Password == "" || name == "" {
		return User{}, owners.Owner{}, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return User{}, owners.Owner{}, fmt.Errorf("hashing password: %w", err)
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         auth.RoleOwner,
		CreatedAt:    now,
	}
	o := owners.Owner{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		Gender:    strings.TrimSpace(in.Gender),
		CreatedAt: now,
	}

	if err := s.repo.CreateOwnerAccount(ctx, u, o); err != nil {
		return User{}, owners.Owner{}, err
	}

	s.log.Info("owner registered", map[string]any{"user_id": u.ID, "owner_id": o.ID})
	return u, o, nil
}

type CreateVetInput struct {
	Email    string
	Password string

	Name       string
	Phone      string
	Speciality string
}

// CreateVeterinarian es el alta compuesta que solo un admin puede invocar
// (la policy lo garantiza antes de llegar acá). User + Veterinarian se crean
// en una transacción: nunca queda una cuenta vet sin perfil ni al revés.
func (s *Service) CreateVeterinarian(ctx context.Context, in CreateVetInput) (User, vets.Veterinarian, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	if email == "" || in.Password == "" || name == "" || strings.TrimSpace(in.Speciality) == "" {
		return User{}, vets.Veterinarian{}, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return User{}, vets.Veterinarian{}, fmt.Errorf("hashing password: %w", err)
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         auth.RoleVet,
		CreatedAt:    now,
	}
	v := vets.Veterinarian{
		ID:         uuid.NewString(),
		UserID:     u.ID,
		Name:       name,
		Phone:      strings.TrimSpace(in.Phone),
		Speciality: strings.TrimSpace(in.Speciality),
		CreatedAt:  now,
	}

	if err := s.repo.CreateVetAccount(ctx, u, v); err != nil {
		return User{}, vets.Veterinarian{}, err
	}

	s.log.Info("veterinarian created", map[string]any{"user_id": u.ID, "vet_id": v.ID})
	return u, v, nil
}

// Login valida credenciales y emite un token de sesión.
func (s *Service) Login(ctx context.Context, email, password string) (string, auth.Principal, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", auth.Principal{}, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", auth.Principal{}, ErrInvalidCredentials
		}
		return "", auth.Principal{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", auth.Principal{}, ErrInvalidCredentials
	}

	p, err := s.resolvePrincipal(ctx, u)
	if err != nil {
		return "", auth.Principal{}, err
	}

	token, err := s.issuer.Sign(ctx, u.ID)
	if err != nil {
		return "", auth.Principal{}, fmt.Errorf("issuing token: %w", err)
	}

	return token, p, nil
}

// Authenticate resuelve un bearer token a un principal.
// El rol sale del store, nunca del token: un token viejo no puede conservar
// privilegios que la cuenta ya perdió.
func (s *Service) Authenticate(ctx context.Context, token string) (auth.Principal, error) {
	if strings.TrimSpace(token) == "" {
		return auth.Principal{}, ErrUnauthenticated
	}

	claims, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return auth.Principal{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	u, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// el token sobrevivió a la cuenta
			return auth.Principal{}, ErrPrincipalGone
		}
		return auth.Principal{}, err
	}

	return s.resolvePrincipal(ctx, u)
}

func (s *Service) resolvePrincipal(ctx context.Context, u User) (auth.Principal, error) {
	p := auth.Principal{UserID: u.ID, Role: u.Role}

	switch u.Role {
	case auth.RoleOwner:
		o, err := s.ownerRepo.GetByUserID(ctx, u.ID)
		if err != nil {
			return auth.Principal{}, fmt.Errorf("resolving owner profile: %w", err)
		}
		p.OwnerID = o.ID
	case auth.RoleVet:
		v, err := s.vetRepo.GetByUserID(ctx, u.ID)
		if err != nil {
			return auth.Principal{}, fmt.Errorf("resolving vet profile: %w", err)
		}
		p.VetID = v.ID
	}

	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// AccountSummary es una cuenta con su perfil enlazado, para el listado admin.
type AccountSummary struct {
	User User

	OwnerID   string
	OwnerName string
	VetID     string
	VetName   string
}

// ListAccounts arma el listado de cuentas con el resumen del perfil de cada
// una. Una cuenta sin perfil (admin, o un perfil borrado a mitad de camino)
// sale igual, solo sin resumen.
func (s *Service) ListAccounts(ctx context.Context) ([]AccountSummary, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]AccountSummary, 0, len(list))
	for _, u := range list {
		sum := AccountSummary{User: u}
		switch u.Role {
		case auth.RoleOwner:
			if o, err := s.ownerRepo.GetByUserID(ctx, u.ID); err == nil {
				sum.OwnerID = o.ID
				sum.OwnerName = o.Name
			}
		case auth.RoleVet:
			if v, err := s.vetRepo.GetByUserID(ctx, u.ID); err == nil {
				sum.VetID = v.ID
				sum.VetName = v.Name
			}
		}
		out = append(out, sum)
	}
	return out, nil
}

// EnsureAdmin siembra la cuenta admin si no existe todavía (equivalente al
// seed de la clínica original). Idempotente.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return ErrInvalidInput
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         auth.RoleAdmin,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		// carrera benigna: otro proceso sembró primero
		if errors.Is(err, ErrEmailTaken) {
			return nil
		}
		return err
	}

	s.log.Info("admin account seeded", map[string]any{"user_id": u.ID})
	return nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
