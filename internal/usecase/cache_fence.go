package usecase

import (
	"context"
	"sync"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

// CacheFence упорядочивает фоновое заполнение кэша относительно инвалидаций.
// Заполнение, начатое до инвалидации, отбрасывается: иначе в кэш вернулась бы
// запись, прочитанная из БД до изменения.
// Один экземпляр должен разделяться всеми use case, которые инвалидируют кэш продуктов.
type CacheFence struct {
	CacheRepository

	mu  sync.RWMutex
	gen uint64
}

func NewCacheFence(cache CacheRepository) *CacheFence {
	if f, ok := cache.(*CacheFence); ok {
		return f
	}
	return &CacheFence{CacheRepository: cache}
}

// Generation возвращает номер текущего поколения. Снимается до чтения из БД.
func (f *CacheFence) Generation() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.gen
}

// Backfill кэширует products, если с поколения since не было инвалидаций.
// Возвращает false, если заполнение отброшено.
func (f *CacheFence) Backfill(ctx context.Context, since uint64, products []domain.Product) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.gen != since {
		return false, nil
	}

	return true, f.CacheRepository.SetProducts(ctx, products)
}

// DeleteProducts начинает новое поколение и удаляет продукты из кэша.
// Запись, начатая в старом поколении, завершается до удаления.
func (f *CacheFence) DeleteProducts(ctx context.Context, ids []string) error {
	f.mu.Lock()
	f.gen++
	f.mu.Unlock()

	return f.CacheRepository.DeleteProducts(ctx, ids)
}
