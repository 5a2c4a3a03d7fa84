package pets

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

// -------------------------
// Test repo + allocator
// -------------------------

type testRepo struct {
	mu     sync.Mutex
	byID   map[string]Pet
	byCode map[string]Pet
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}, byCode: map[string]Pet{}}
}

func (r *testRepo) Create(ctx context.Context, p Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byCode[p.Code]; ok {
		return ErrCodeTaken
	}
	r.byID[p.ID] = p
	r.byCode[p.Code] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) GetByCode(ctx context.Context, code string) (Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byCode[code]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) List(ctx context.Context, f Filter) ([]Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if f.OwnerID != "" && p.OwnerID != f.OwnerID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, p Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.byID[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.Code = current.Code
	p.OwnerID = current.OwnerID
	r.byID[p.ID] = p
	r.byCode[p.Code] = p
	return nil
}

func (r *testRepo) AssignVet(ctx context.Context, petID, vetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[petID]
	if !ok {
		return ErrNotFound
	}
	p.VetID = vetID
	r.byID[petID] = p
	r.byCode[p.Code] = p
	return nil
}

func (r *testRepo) DeleteCascade(ctx context.Context, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[petID]
	if !ok {
		return ErrNotFound
	}
	delete(r.byID, petID)
	delete(r.byCode, p.Code)
	return nil
}

type testAllocator struct {
	n int64
}

func (a *testAllocator) NextCodeNumber(ctx context.Context) (int64, error) {
	return atomic.AddInt64(&a.n, 1), nil
}

// stuckAllocator devuelve siempre el mismo número: fuerza colisiones de
// código para ejercitar el camino de reintentos.
type stuckAllocator struct{}

func (stuckAllocator) NextCodeNumber(ctx context.Context) (int64, error) { return 7, nil }

func validInput(owner string) CreateInput {
	return CreateInput{
		OwnerID: owner,
		Name:    "Milo",
		Species: "dog",
		Age:     3,
		Weight:  12.5,
	}
}

// -------------------------
// Tests
// -------------------------

func TestFormatCode(t *testing.T) {
	if got := FormatCode(1); got != "P-000001" {
		t.Fatalf("FormatCode(1) = %q", got)
	}
	if got := FormatCode(123456); got != "P-123456" {
		t.Fatalf("FormatCode(123456) = %q", got)
	}
	// Más de seis dígitos no se trunca.
	if got := FormatCode(1234567); got != "P-1234567" {
		t.Fatalf("FormatCode(1234567) = %q", got)
	}
}

func TestCreate_SequentialCodes(t *testing.T) {
	svc := NewService(newTestRepo(), &testAllocator{}, nil)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		p, err := svc.Create(ctx, validInput("o-1"))
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		want := fmt.Sprintf("P-%06d", i)
		if p.Code != want {
			t.Fatalf("expected code %s, got %s", want, p.Code)
		}
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newTestRepo(), &testAllocator{}, nil)
	ctx := context.Background()

	cases := []CreateInput{
		{Name: "Milo", Species: "dog", Age: 3, Weight: 10},               // sin owner
		{OwnerID: "o-1", Species: "dog", Age: 3, Weight: 10},             // sin nombre
		{OwnerID: "o-1", Name: "Milo", Age: 3, Weight: 10},               // sin especie
		{OwnerID: "o-1", Name: "Milo", Species: "dog", Age: 0, Weight: 1}, // edad
		{OwnerID: "o-1", Name: "Milo", Species: "dog", Age: 3, Weight: 0}, // peso
	}
	for i, in := range cases {
		if _, err := svc.Create(ctx, in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestCreate_ConcurrentCodesAreDistinct(t *testing.T) {
	svc := NewService(newTestRepo(), &testAllocator{}, nil)
	ctx := context.Background()

	const n = 50
	codes := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := svc.Create(ctx, validInput("o-1"))
			if err != nil {
				t.Errorf("concurrent create: %v", err)
				return
			}
			codes <- p.Code
		}()
	}
	wg.Wait()
	close(codes)

	seen := map[string]bool{}
	for c := range codes {
		if seen[c] {
			t.Fatalf("duplicate code %s", c)
		}
		seen[c] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d distinct codes, got %d", n, len(seen))
	}
}

func TestCreate_RetriesAreBounded(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, stuckAllocator{}, nil)
	ctx := context.Background()

	// La primera creación toma P-000007.
	if _, err := svc.Create(ctx, validInput("o-1")); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// La segunda colisiona siempre: reintenta y termina rindiéndose
	// con el conflicto, no colgándose.
	if _, err := svc.Create(ctx, validInput("o-1")); !errors.Is(err, ErrCodeTaken) {
		t.Fatalf("expected ErrCodeTaken after retries, got %v", err)
	}
}

func TestUpdate_CodeAndOwnerImmutable(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, &testAllocator{}, nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, validInput("o-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Milo II"
	updated, err := svc.Update(ctx, p.Code, UpdateInput{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Milo II" {
		t.Fatalf("name not updated: %+v", updated)
	}
	if updated.Code != p.Code || updated.OwnerID != p.OwnerID {
		t.Fatalf("code/owner changed: %+v", updated)
	}
}

func TestDeleteByCode_Missing(t *testing.T) {
	svc := NewService(newTestRepo(), &testAllocator{}, nil)
	if err := svc.DeleteByCode(context.Background(), "P-000099"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
