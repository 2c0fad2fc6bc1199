package daylock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrLockTimeout блокировку не удалось взять за отведенное время
var ErrLockTimeout = errors.New("daylock: lock wait timeout")

// Locker взаимное исключение по строковому ключу.
// Lock блокирует до получения ключа и возвращает функцию освобождения.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Key ключ блокировки записи на день для категории услуг
func Key(category string, day time.Time) string {
	return fmt.Sprintf("booking:%s:%s", category, day.Format("2006-01-02"))
}

// LockAll берет несколько ключей в отсортированном порядке без повторов.
// При ошибке уже взятые ключи освобождаются.
func LockAll(ctx context.Context, locker Locker, keys ...string) (func(), error) {
	uniq := make(map[string]struct{}, len(keys))
	sorted := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := uniq[k]; ok {
			continue
		}
		uniq[k] = struct{}{}
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	unlocks := make([]func(), 0, len(sorted))
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}

	for _, k := range sorted {
		unlock, err := locker.Lock(ctx, k)
		if err != nil {
			release()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}

	return release, nil
}
