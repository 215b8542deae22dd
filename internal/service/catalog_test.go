package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ivanoskov/warehouse/internal/model"
	"github.com/ivanoskov/warehouse/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// --- Mock Repository ---

type mockRepo struct {
	*repository.MemoryRepository
	creates       int
	lastCategory  int64
	categoryReads int
	invalidations int
}

func newMockRepo(categories ...string) *mockRepo {
	return &mockRepo{MemoryRepository: repository.NewMemoryRepository(repository.SeedCategoryNames(categories...)...)}
}

func (m *mockRepo) GetCategories(ctx context.Context) ([]model.Category, error) {
	m.categoryReads++
	return m.MemoryRepository.GetCategories(ctx)
}

func (m *mockRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	m.creates++
	m.lastCategory = product.CategoryID
	return m.MemoryRepository.CreateProduct(ctx, product)
}

func (m *mockRepo) Invalidate(ctx context.Context) error {
	m.invalidations++
	return nil
}

func byID(records []model.Record) map[int64]model.Record {
	out := make(map[int64]model.Record, len(records))
	for _, r := range records {
		out[r.ID] = r
	}
	return out
}

// --- Tests ---

func TestEndToEndScenario(t *testing.T) {
	ctx := context.Background()
	catalog := NewCatalog(newMockRepo("Hardware", "Tools"), nil, Options{})

	records, err := catalog.FetchProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	snapshot, err := catalog.InsertProduct(ctx, ProductInput{Name: "Bolt", Quantity: 100, Price: 0.5, Category: "Hardware"})
	require.NoError(t, err)
	require.Len(t, snapshot.Records, 1)

	bolt := snapshot.Records[0]
	expected := model.Record{ID: bolt.ID, Name: "Bolt", Quantity: 100, Price: 0.5, Category: "Hardware", Value: 50}
	if diff := cmp.Diff(expected, bolt); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 50.0, snapshot.Summary.TotalValue)

	snapshot, err = catalog.DeleteProduct(ctx, bolt.ID)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Records)

	records, err = catalog.FetchProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestInsertAddsExactlyOneRecord(t *testing.T) {
	ctx := context.Background()
	catalog := NewCatalog(newMockRepo("Hardware", "Tools"), nil, Options{})

	inputs := []ProductInput{
		{Name: "Hammer", Quantity: 3, Price: 29.99, Category: "Tools"},
		{Name: "Screw", Quantity: 0, Price: 0, Category: "Hardware"},
		{Name: "Nail", Quantity: 2.5, Price: 0.1, Category: "Hardware"},
		{Name: "  Wrench ", Quantity: 1, Price: 15, Category: "Tools"},
	}

	before, err := catalog.FetchProducts(ctx)
	require.NoError(t, err)

	for _, in := range inputs {
		snapshot, err := catalog.InsertProduct(ctx, in)
		require.NoError(t, err)
		require.Len(t, snapshot.Records, len(before)+1)

		known := byID(before)
		var added []model.Record
		for _, r := range snapshot.Records {
			if _, ok := known[r.ID]; !ok {
				added = append(added, r)
			}
		}
		require.Len(t, added, 1)

		got := added[0]
		assert.Equal(t, in.Quantity, got.Quantity)
		assert.Equal(t, in.Price, got.Price)
		assert.Equal(t, in.Category, got.Category)
		assert.Equal(t, got.Price*got.Quantity, got.Value)
		before = snapshot.Records
	}

	assert.Equal(t, "Wrench", before[len(before)-1].Name, "name is stored trimmed")
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	catalog := NewCatalog(newMockRepo("Hardware"), nil, Options{})

	var ids []int64
	for _, name := range []string{"Bolt", "Nut", "Washer"} {
		snapshot, err := catalog.InsertProduct(ctx, ProductInput{Name: name, Quantity: 1, Price: 1, Category: "Hardware"})
		require.NoError(t, err)
		ids = append(ids, snapshot.Records[len(snapshot.Records)-1].ID)
	}

	for _, id := range ids {
		snapshot, err := catalog.DeleteProduct(ctx, id)
		require.NoError(t, err)
		_, present := byID(snapshot.Records)[id]
		assert.False(t, present)

		// повторное удаление - no-op
		again, err := catalog.DeleteProduct(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, snapshot.Records, again.Records)
	}
}

func TestInsertValidation(t *testing.T) {
	testCases := []struct {
		name        string
		input       ProductInput
		expectedErr error
	}{
		{name: "empty name", input: ProductInput{Name: "", Category: "Hardware"}, expectedErr: ErrValidation},
		{name: "whitespace name", input: ProductInput{Name: "   \t", Category: "Hardware"}, expectedErr: ErrValidation},
		{name: "negative quantity", input: ProductInput{Name: "Bolt", Quantity: -1, Category: "Hardware"}, expectedErr: ErrValidation},
		{name: "negative price", input: ProductInput{Name: "Bolt", Price: -0.01, Category: "Hardware"}, expectedErr: ErrValidation},
		{name: "unknown category", input: ProductInput{Name: "Bolt", Category: "Garden"}, expectedErr: ErrUnknownCategory},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newMockRepo("Hardware")
			catalog := NewCatalog(repo, nil, Options{})

			_, err := catalog.InsertProduct(context.Background(), tc.input)
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Equal(t, 0, repo.creates, "store must not be called")
		})
	}
}

func TestValidationSkipsCategoryRead(t *testing.T) {
	repo := newMockRepo("Hardware")
	catalog := NewCatalog(repo, nil, Options{})

	_, err := catalog.InsertProduct(context.Background(), ProductInput{Name: " ", Category: "Hardware"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 0, repo.categoryReads)
}

func TestCategoryIndexUsesMostRecentRead(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo("Hardware")
	catalog := NewCatalog(repo, nil, Options{})

	_, err := catalog.FetchCategories(ctx)
	require.NoError(t, err)
	reads := repo.categoryReads

	// индекс уже построен, справочник повторно не читается до вставки
	_, err = catalog.InsertProduct(ctx, ProductInput{Name: "Bolt", Quantity: 1, Price: 1, Category: "Hardware"})
	require.NoError(t, err)
	assert.Equal(t, reads+1, repo.categoryReads, "only the post-insert refresh reads categories")
}

func TestDuplicateCategoryNamesLastWins(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{MemoryRepository: repository.NewMemoryRepository(
		model.Category{ID: 1, Name: "Tools"},
		model.Category{ID: 2, Name: "Tools"},
	)}
	catalog := NewCatalog(repo, nil, Options{})

	_, err := catalog.InsertProduct(ctx, ProductInput{Name: "Saw", Quantity: 1, Price: 1, Category: "Tools"})
	require.NoError(t, err)

	assert.Equal(t, int64(2), repo.lastCategory)
}

func TestStoreErrorsSurface(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo("Hardware")
	catalog := NewCatalog(repo, nil, Options{})
	storeErr := errors.New("invalid api key")

	_, err := catalog.FetchCategories(ctx)
	require.NoError(t, err)

	repo.FailWith(storeErr)

	_, err = catalog.FetchProducts(ctx)
	assert.ErrorIs(t, err, storeErr)
	_, err = catalog.Load(ctx)
	assert.ErrorIs(t, err, storeErr)
	_, err = catalog.InsertProduct(ctx, ProductInput{Name: "Bolt", Category: "Hardware"})
	assert.ErrorIs(t, err, storeErr)
	_, err = catalog.DeleteProduct(ctx, 1)
	assert.ErrorIs(t, err, storeErr)
}

func TestMissingCategoryLabel(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo("Hardware")
	require.NoError(t, repo.MemoryRepository.CreateProduct(ctx, &model.Product{Name: "Orphan", Quantity: 2, Price: 3, CategoryID: 42}))

	catalog := NewCatalog(repo, nil, Options{MissingCategoryLabel: "Brak"})
	snapshot, err := catalog.Load(ctx)
	require.NoError(t, err)

	require.Len(t, snapshot.Records, 1)
	assert.Equal(t, "Brak", snapshot.Records[0].Category)
	assert.Equal(t, 6.0, snapshot.Summary.TotalValue, "orphans still count in aggregates")
	assert.Equal(t, "Brak", catalog.MissingCategoryLabel())
}

func TestRefreshInvalidatesCache(t *testing.T) {
	repo := newMockRepo("Hardware")
	catalog := NewCatalog(repo, nil, Options{})

	_, err := catalog.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, repo.invalidations)

	_, err = catalog.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.invalidations)
}
