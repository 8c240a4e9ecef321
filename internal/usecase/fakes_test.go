package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeTx struct {
	calls int
}

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// fakeProductRepo сравнивает идентификаторы как колонка uuid в PostgreSQL: по значению,
// без учёта регистра и формы записи.
type fakeProductRepo struct {
	mu       sync.Mutex
	products []domain.Product
	failWith error
	// afterGet вызывается после чтения GetByIDs, вне блокировки
	afterGet func()
}

func sameUUID(a, b string) bool {
	ua, errA := uuid.Parse(a)
	ub, errB := uuid.Parse(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return ua == ub
}

func (f *fakeProductRepo) List(_ context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]domain.Product, len(f.products))
	copy(out, f.products)
	return out, nil
}

func (f *fakeProductRepo) GetByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	f.mu.Lock()
	var out []domain.Product
	for _, id := range ids {
		for _, p := range f.products {
			if sameUUID(p.ID, id) {
				out = append(out, p)
			}
		}
	}
	hook := f.afterGet
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return out, nil
}

func (f *fakeProductRepo) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	p := *product
	p.CreatedAt = time.Now()
	f.products = append(f.products, p)
	return &p, nil
}

func (f *fakeProductRepo) CreateMany(_ context.Context, products []domain.Product) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return 0, f.failWith
	}
	f.products = append(f.products, products...)
	return int64(len(products)), nil
}

func (f *fakeProductRepo) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.products {
		if sameUUID(p.ID, product.ID) {
			updated := *product
			updated.ID = p.ID
			updated.CreatedAt = p.CreatedAt
			f.products[i] = updated
			return &updated, nil
		}
	}
	return nil, e.ErrProductNotFound
}

func (f *fakeProductRepo) SetImage(_ context.Context, id string, image string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	for i := range f.products {
		if sameUUID(f.products[i].ID, id) {
			f.products[i].Image = image
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, e.ErrProductNotFound
}

func (f *fakeProductRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.products {
		if sameUUID(p.ID, id) {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return e.ErrProductNotFound
}

func (f *fakeProductRepo) DeleteAll(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.products))
	for _, p := range f.products {
		ids = append(ids, p.ID)
	}
	f.products = nil
	return ids, nil
}

func (f *fakeProductRepo) AdjustPrices(_ context.Context, percent decimal.Decimal) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.products))
	for i := range f.products {
		f.products[i].Price = money.ApplyPercent(f.products[i].Price, percent).IntPart()
		ids = append(ids, f.products[i].ID)
	}
	return ids, nil
}

func (f *fakeProductRepo) MaxPrice(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var maxPrice int64
	for _, p := range f.products {
		maxPrice = max(maxPrice, p.Price)
	}
	return maxPrice, nil
}

func (f *fakeProductRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.products)), nil
}

func (f *fakeProductRepo) CountByCategory(_ context.Context, category string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.products {
		if p.CategoryName == category {
			n++
		}
	}
	return n, nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[string]domain.Category
	nextID     int64
}

func newFakeCategoryRepo(categories ...*domain.Category) *fakeCategoryRepo {
	f := &fakeCategoryRepo{categories: map[string]domain.Category{}}
	for _, c := range categories {
		_, _ = f.Upsert(context.Background(), c)
	}
	return f
}

func (f *fakeCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCategoryRepo) GetByName(_ context.Context, name string) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[name]
	if !ok {
		return nil, e.ErrCategoryNotFound
	}
	return &c, nil
}

func (f *fakeCategoryRepo) Upsert(_ context.Context, category *domain.Category) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *category
	if existing, ok := f.categories[c.Name]; ok {
		c.ID = existing.ID
	} else {
		f.nextID++
		c.ID = f.nextID
	}
	f.categories[c.Name] = c
	return &c, nil
}

func (f *fakeCategoryRepo) Delete(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[name]; !ok {
		return e.ErrCategoryNotFound
	}
	delete(f.categories, name)
	return nil
}

type fakeOutbox struct {
	mu     sync.Mutex
	events []*OutboxEvent
}

func (f *fakeOutbox) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event.ID = int64(len(f.events) + 1)
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeOutbox) GetAndMarkAsProcessing(_ context.Context, _ int, _ time.Duration) ([]*OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkAsProcessed(_ context.Context, _ int64) error { return nil }

func (f *fakeOutbox) MarkAsPending(_ context.Context, _ int64) error { return nil }

func (f *fakeOutbox) types() []OutboxEventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]OutboxEventType, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, ev.EventType)
	}
	return out
}

type fakeCache struct {
	mu      sync.Mutex
	items   map[string]domain.Product
	deleted []string
	fail    error
	setCh   chan struct{}
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string]domain.Product{}, setCh: make(chan struct{}, 16)}
}

func (f *fakeCache) GetProducts(_ context.Context, ids []string) (map[string]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	out := make(map[string]domain.Product)
	for _, id := range ids {
		if p, ok := f.items[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeCache) SetProducts(_ context.Context, products []domain.Product) error {
	f.mu.Lock()
	for _, p := range products {
		f.items[p.ID] = p
	}
	f.mu.Unlock()
	f.setCh <- struct{}{}
	return nil
}

func (f *fakeCache) DeleteProducts(_ context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		delete(f.items, id)
	}
	f.deleted = append(f.deleted, ids...)
	return nil
}

type fakeImages struct {
	mu       sync.Mutex
	uploaded []string
	cleaned  []string
}

func (f *fakeImages) UploadImage(_ context.Context, req *UploadImageReq) (*UploadImageRes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := "products/" + req.ProductID + "/img.png"
	f.uploaded = append(f.uploaded, key)
	return NewUploadImageRes(key, "http://minio/catalog/"+key), nil
}

func (f *fakeImages) CleanupImages(keys []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleaned = append(f.cleaned, keys...)
}
