package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// memoryRedis answers GET, SET and DEL from a map through a client hook,
// so no server is dialled.
type memoryRedis struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memoryRedis) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (m *memoryRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (m *memoryRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		m.mu.Lock()
		defer m.mu.Unlock()

		args := cmd.Args()
		switch cmd.Name() {
		case "get":
			value, ok := m.data[fmt.Sprint(args[1])]
			if !ok {
				return redis.Nil
			}
			cmd.(*redis.StringCmd).SetVal(value)
		case "set":
			switch v := args[2].(type) {
			case []byte:
				m.data[fmt.Sprint(args[1])] = string(v)
			default:
				m.data[fmt.Sprint(args[1])] = fmt.Sprint(v)
			}
			cmd.(*redis.StatusCmd).SetVal("OK")
		case "del":
			var deleted int64
			for _, arg := range args[1:] {
				key := fmt.Sprint(arg)
				if _, ok := m.data[key]; ok {
					delete(m.data, key)
					deleted++
				}
			}
			cmd.(*redis.IntCmd).SetVal(deleted)
		default:
			return fmt.Errorf("unexpected command %v", args)
		}
		return nil
	}
}

func (m *memoryRedis) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

func newTestStatsCache(t *testing.T) (StatsCache, *memoryRedis) {
	t.Helper()

	store := &memoryRedis{data: map[string]string{}}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(store)
	t.Cleanup(func() { client.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewRedisStatsCache(client, time.Minute, log), store
}

func TestRememberCachesLoadedValue(t *testing.T) {
	cache, store := newTestStatsCache(t)
	ctx := context.Background()

	loads := 0
	load := func(ctx context.Context) (interface{}, error) {
		loads++
		return int64(12), nil
	}

	for i := 0; i < 2; i++ {
		var total int64
		if err := cache.Remember(ctx, StatsKeyPatientCount, &total, load); err != nil {
			t.Fatal(err)
		}
		if total != 12 {
			t.Fatalf("expected 12, got %d", total)
		}
	}

	if loads != 1 {
		t.Errorf("expected one load, got %d", loads)
	}
	if !store.has(StatsKeyPatientCount) {
		t.Error("value should be stored in redis")
	}
}

func TestInvalidateForcesReload(t *testing.T) {
	cache, store := newTestStatsCache(t)
	ctx := context.Background()

	loads := 0
	load := func(ctx context.Context) (interface{}, error) {
		loads++
		return int64(loads), nil
	}

	var total int64
	if err := cache.Remember(ctx, StatsKeyStaffCount, &total, load); err != nil {
		t.Fatal(err)
	}
	cache.Invalidate(ctx, StaffStatsKeys...)
	if store.has(StatsKeyStaffCount) {
		t.Fatal("invalidate should delete the key")
	}

	if err := cache.Remember(ctx, StatsKeyStaffCount, &total, load); err != nil {
		t.Fatal(err)
	}
	if total != 2 || loads != 2 {
		t.Errorf("expected a fresh load, got total %d after %d loads", total, loads)
	}
}

func TestInvalidateDuringLoadSkipsWrite(t *testing.T) {
	cache, store := newTestStatsCache(t)
	ctx := context.Background()

	loads := 0
	var total int64
	err := cache.Remember(ctx, StatsKeyTodayVisits, &total, func(ctx context.Context) (interface{}, error) {
		loads++
		// A visit is appended after the count was read but before it is cached.
		cache.Invalidate(ctx, RecordStatsKeys...)
		return int64(3), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 {
		t.Errorf("the caller still gets the loaded value, got %d", total)
	}
	if store.has(StatsKeyTodayVisits) {
		t.Fatal("a value loaded before the invalidation must not be cached")
	}

	if err := cache.Remember(ctx, StatsKeyTodayVisits, &total, func(ctx context.Context) (interface{}, error) {
		loads++
		return int64(4), nil
	}); err != nil {
		t.Fatal(err)
	}
	if total != 4 || loads != 2 || !store.has(StatsKeyTodayVisits) {
		t.Errorf("expected a cached reload, got total %d after %d loads", total, loads)
	}
}
