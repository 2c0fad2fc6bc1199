package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/daylock"
)

// Guard сериализует изменения календаря по паре (категория, день).
// Порядок: блокировка дней -> сериализуемая транзакция -> фиксация ->
// пересчет маркеров -> снятие блокировки.
type Guard struct {
	locker    daylock.Locker
	txManager TransactionManager
	logger    Logger
}

// NewGuard создает новый экземпляр
func NewGuard(locker daylock.Locker, txManager TransactionManager, logger Logger) *Guard {
	return &Guard{
		locker:    locker,
		txManager: txManager,
		logger:    logger,
	}
}

// Do выполняет write в транзакции под блокировкой всех days категории.
// after вызывается после фиксации, пока блокировка еще удерживается; может быть nil.
// Без write транзакция не открывается: так пересчитываются маркеры дней без изменения данных.
// Ошибка after оборачивается в ErrReconcile: данные к этому моменту уже сохранены.
func (g *Guard) Do(
	ctx context.Context,
	category string,
	days []time.Time,
	write func(txCtx context.Context) error,
	after func(ctx context.Context) error,
) error {
	keys := make([]string, 0, len(days))
	for _, d := range days {
		keys = append(keys, daylock.Key(category, d))
	}

	unlock, err := daylock.LockAll(ctx, g.locker, keys...)
	if err != nil {
		if errors.Is(err, daylock.ErrLockTimeout) {
			g.logger.Warn("guard: lock timeout for %v", keys)
			return fmt.Errorf("%w: %v", ErrLockUnavailable, err)
		}
		return err
	}
	defer unlock()

	if write != nil {
		if err := g.txManager.DoSerializable(ctx, write); err != nil {
			return err
		}
	}

	if after == nil {
		return nil
	}
	if err := after(ctx); err != nil {
		g.logger.Error("guard: reconciliation failed for %v: %v", keys, err)
		return fmt.Errorf("%w: %v", ErrReconcile, err)
	}
	return nil
}
