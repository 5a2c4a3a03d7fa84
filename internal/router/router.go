package router

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-clinic-platform/docs" // registro del documento swagger generado

	mem "pet-clinic-platform/internal/adapters/storage/memory"
	pg "pet-clinic-platform/internal/adapters/storage/postgres"
	"pet-clinic-platform/internal/domain/owners"
	"pet-clinic-platform/internal/domain/pets"
	"pet-clinic-platform/internal/domain/records"
	"pet-clinic-platform/internal/domain/users"
	"pet-clinic-platform/internal/domain/vets"
	"pet-clinic-platform/internal/middleware"
	"pet-clinic-platform/internal/platform/logger"
	"pet-clinic-platform/internal/ports/auth"
)

type Options struct {
	Issuer   auth.TokenIssuer
	Verifier auth.TokenVerifier

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger     logger.Logger
	BcryptCost int

	// Cuenta admin a sembrar al armar el router. Password vacío = no sembrar.
	SeedAdminEmail    string
	SeedAdminPassword string
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		userRepo   users.Repository
		ownerRepo  owners.Repository
		vetRepo    vets.Repository
		petRepo    pets.Repository
		recordRepo records.Repository
		allocator  pets.CodeAllocator
	)

	// El ciclo de vida de la conexión es del caller (cmd/api la abre y cierra);
	// sin DB explícita, repos en memoria.
	if db := opts.DB; db != nil {
		userRepo = pg.NewUsersRepo(db)
		ownerRepo = pg.NewOwnersRepo(db)
		vetRepo = pg.NewVetsRepo(db)
		pgPets := pg.NewPetsRepo(db)
		petRepo = pgPets
		allocator = pgPets
		recordRepo = pg.NewRecordsRepo(db)
	} else {
		store := mem.NewStore()
		userRepo = mem.NewUsersRepo(store)
		ownerRepo = mem.NewOwnersRepo(store)
		vetRepo = mem.NewVetsRepo(store)
		memPets := mem.NewPetsRepo(store)
		petRepo = memPets
		allocator = memPets
		recordRepo = mem.NewRecordsRepo(store)
	}

	// Services por módulo
	ownersSvc := owners.NewService(ownerRepo)
	vetsSvc := vets.NewService(vetRepo)
	petsSvc := pets.NewService(petRepo, allocator, log)
	recordsSvc := records.NewService(recordRepo, petsSvc, log)
	usersSvc := users.NewService(users.Options{
		Repo:       userRepo,
		OwnerRepo:  ownerRepo,
		VetRepo:    vetRepo,
		Issuer:     opts.Issuer,
		Verifier:   opts.Verifier,
		Logger:     log,
		BcryptCost: opts.BcryptCost,
	})

	if opts.SeedAdminPassword != "" {
		if err := usersSvc.EnsureAdmin(context.Background(), opts.SeedAdminEmail, opts.SeedAdminPassword); err != nil {
			log.Error("seeding admin account failed", map[string]any{"err": err.Error()})
		}
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthContext(usersSvc))

		// Rutas por módulo
		users.RegisterRoutes(r, usersSvc, log)
		owners.RegisterRoutes(r, ownersSvc, petsSvc, log)
		vets.RegisterRoutes(r, vetsSvc, log)
		pets.RegisterRoutes(r, petsSvc, log)
		records.RegisterRoutes(r, recordsSvc, log)
	})

	return r
}
