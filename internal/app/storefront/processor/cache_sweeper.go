package processor

import (
	"meadowmarket/internal/app/storefront/cache"
	"meadowmarket/pkg/logger"

	"github.com/robfig/cron/v3"
)

// CacheSweeper по расписанию вычищает истёкшие записи memory-кеша.
// Записи и так отфильтровываются при чтении, но без вычистки память
// процесса растёт вместе с разнообразием ключей.
type CacheSweeper struct {
	cron  *cron.Cron
	store *cache.MemoryStore
}

func NewCacheSweeper(store *cache.MemoryStore) *CacheSweeper {
	return &CacheSweeper{
		cron:  cron.New(),
		store: store,
	}
}

func (s *CacheSweeper) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		removed := s.store.Sweep()
		if removed > 0 {
			logger.Debug().Int("removed", removed).Msg("cache sweep completed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Str("schedule", schedule).Msg("Cache sweeper started")
	return nil
}

func (s *CacheSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cache sweeper stopped")
}
