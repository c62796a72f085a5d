package querycache

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func staticLoader(data string, calls *int32) Loader {
	return func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(calls, 1)
		return []byte(data), nil
	}
}

func TestQueryCachesResult(t *testing.T) {
	c := New(NewMemoryStore())
	defer c.Close()
	ctx := context.Background()
	var calls int32

	for i := 0; i < 3; i++ {
		data, err := c.Query(ctx, "k", staticLoader("v1", &calls))
		if err != nil || string(data) != "v1" {
			t.Fatalf("query = %q, %v", data, err)
		}
	}
	if calls != 1 {
		t.Errorf("loader called %d times", calls)
	}
}

func TestQueryErrorIsNotCached(t *testing.T) {
	c := New(NewMemoryStore())
	defer c.Close()
	boom := errors.New("backend down")

	_, err := c.Query(context.Background(), "k", func(ctx context.Context) ([]byte, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if _, ok, _ := c.Peek(context.Background(), "k"); ok {
		t.Error("failed fetch was cached")
	}
}

func TestConcurrentQueriesShareOneFetch(t *testing.T) {
	c := New(NewMemoryStore())
	defer c.Close()

	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	loader := func(ctx context.Context) ([]byte, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		<-release
		return []byte("shared"), nil
	}

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = c.Query(context.Background(), "k", loader)
	}()
	<-started
	for i := 1; i < len(results); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Query(context.Background(), "k", loader)
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls != 1 {
		t.Errorf("loader called %d times", calls)
	}
	for i, r := range results {
		if string(r) != "shared" {
			t.Errorf("result %d = %q", i, r)
		}
	}
}

func TestCancelDiscardsLateResult(t *testing.T) {
	c := New(NewMemoryStore())
	defer c.Close()
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	var sawCancel atomic.Bool
	loader := func(ctx context.Context) ([]byte, error) {
		close(started)
		<-release
		sawCancel.Store(ctx.Err() != nil)
		return []byte("stale remote"), nil
	}

	done := make(chan []byte)
	go func() {
		data, _ := c.Query(ctx, "k", loader)
		done <- data
	}()
	<-started

	c.Cancel("k")
	if _, err := c.Patch(ctx, "k", func([]byte, bool) ([]byte, error) {
		return []byte("optimistic"), nil
	}); err != nil {
		t.Fatal(err)
	}
	close(release)

	if got := <-done; string(got) != "optimistic" {
		t.Errorf("query returned %q", got)
	}
	if !sawCancel.Load() {
		t.Error("loader context was not cancelled")
	}
	entry, ok, _ := c.Peek(ctx, "k")
	if !ok || string(entry.Data) != "optimistic" {
		t.Errorf("cache = %q, %v", entry.Data, ok)
	}
}

func TestCancelWithoutFetchIsNoop(t *testing.T) {
	c := New(NewMemoryStore())
	defer c.Close()
	c.Cancel("nothing")

	var calls int32
	if data, err := c.Query(context.Background(), "nothing", staticLoader("v", &calls)); err != nil || string(data) != "v" {
		t.Errorf("query = %q, %v", data, err)
	}
}

func TestRestoreIsExact(t *testing.T) {
	store := NewMemoryStore()
	c := New(store)
	defer c.Close()
	ctx := context.Background()

	original := Entry{
		Data:      []byte(`[{"id":"1","status":"not-started"}]`),
		Stale:     true,
		UpdatedAt: time.Date(2024, 5, 1, 10, 0, 0, 123, time.UTC),
	}
	if err := store.Set(ctx, "k", original); err != nil {
		t.Fatal(err)
	}

	snapshot, err := c.Patch(ctx, "k", func(data []byte, ok bool) ([]byte, error) {
		if !ok || !bytes.Equal(data, original.Data) {
			t.Errorf("patch saw %q, %v", data, ok)
		}
		return []byte(`[{"id":"1","status":"completed"}]`), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if patched, _, _ := c.Peek(ctx, "k"); !bytes.Contains(patched.Data, []byte("completed")) {
		t.Fatalf("patched = %q", patched.Data)
	}

	if err := c.Restore(ctx, "k", snapshot); err != nil {
		t.Fatal(err)
	}
	restored, ok, _ := c.Peek(ctx, "k")
	if !ok || !bytes.Equal(restored.Data, original.Data) || restored.Stale != original.Stale || !restored.UpdatedAt.Equal(original.UpdatedAt) {
		t.Errorf("restored = %+v, want %+v", restored, original)
	}
}

func TestRestoreRemovesKeyThatDidNotExist(t *testing.T) {
	c := New(NewMemoryStore())
	defer c.Close()
	ctx := context.Background()

	snapshot, err := c.Patch(ctx, "k", func(data []byte, ok bool) ([]byte, error) {
		if ok || data != nil {
			t.Errorf("patch saw %q, %v", data, ok)
		}
		return []byte("guess"), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Restore(ctx, "k", snapshot); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Peek(ctx, "k"); ok {
		t.Error("key still cached")
	}
}

func TestPatchErrorLeavesEntry(t *testing.T) {
	c := New(NewMemoryStore())
	defer c.Close()
	ctx := context.Background()
	var calls int32
	if _, err := c.Query(ctx, "k", staticLoader("v1", &calls)); err != nil {
		t.Fatal(err)
	}

	bad := errors.New("not a list")
	if _, err := c.Patch(ctx, "k", func([]byte, bool) ([]byte, error) { return nil, bad }); !errors.Is(err, bad) {
		t.Fatalf("err = %v", err)
	}
	if entry, _, _ := c.Peek(ctx, "k"); string(entry.Data) != "v1" {
		t.Errorf("entry = %q", entry.Data)
	}
}

func TestInvalidateRefetches(t *testing.T) {
	c := New(NewMemoryStore())
	defer c.Close()
	ctx := context.Background()

	var version int32 = 1
	release := make(chan struct{})
	loader := func(ctx context.Context) ([]byte, error) {
		if v := atomic.LoadInt32(&version); v > 1 {
			<-release
			return []byte("v2"), nil
		}
		return []byte("v1"), nil
	}
	if _, err := c.Query(ctx, "k", loader); err != nil {
		t.Fatal(err)
	}

	atomic.StoreInt32(&version, 2)
	if err := c.Invalidate(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	entry, _, _ := c.Peek(ctx, "k")
	if !entry.Stale || string(entry.Data) != "v1" {
		t.Errorf("before refetch = %+v", entry)
	}

	close(release)
	c.Wait()
	entry, _, _ = c.Peek(ctx, "k")
	if entry.Stale || string(entry.Data) != "v2" {
		t.Errorf("after refetch = %q stale=%v", entry.Data, entry.Stale)
	}
}

func TestInvalidateDoesNotJoinEarlierFetch(t *testing.T) {
	store := NewMemoryStore()
	c := New(store)
	defer c.Close()
	ctx := context.Background()
	if err := store.Set(ctx, "k", Entry{Data: []byte("old"), Stale: true}); err != nil {
		t.Fatal(err)
	}

	var remote atomic.Value
	remote.Store("old")
	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	loader := func(ctx context.Context) ([]byte, error) {
		data := remote.Load().(string)
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
			<-release
		}
		return []byte(data), nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := c.Query(ctx, "k", loader); err != nil {
			t.Errorf("query: %v", err)
		}
	}()
	<-started

	// the write lands while the earlier read is still in flight
	remote.Store("new")
	if err := c.Invalidate(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	c.Wait()
	close(release)
	<-done

	entry, ok, _ := c.Peek(ctx, "k")
	if !ok || entry.Stale || string(entry.Data) != "new" {
		t.Errorf("after invalidate = %q stale=%v, want fresh %q", entry.Data, entry.Stale, "new")
	}
	if calls != 2 {
		t.Errorf("loader called %d times", calls)
	}
}

func TestQueryRetriesFirstLoadCancelledBeforeAnythingCached(t *testing.T) {
	c := New(NewMemoryStore())
	defer c.Close()
	ctx := context.Background()

	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	loader := func(ctx context.Context) ([]byte, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
			<-release
			return []byte("before"), nil
		}
		return []byte("after"), nil
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result)
	go func() {
		data, err := c.Query(ctx, "k", loader)
		done <- result{data, err}
	}()
	<-started

	c.Cancel("k")
	close(release)

	got := <-done
	if got.err != nil || string(got.data) != "after" {
		t.Fatalf("query = %q, %v", got.data, got.err)
	}
	if entry, ok, _ := c.Peek(ctx, "k"); !ok || string(entry.Data) != "after" {
		t.Errorf("cache = %q, %v", entry.Data, ok)
	}
}

func TestMaxAge(t *testing.T) {
	c := New(NewMemoryStore(), WithMaxAge(time.Minute))
	defer c.Close()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()
	var calls int32

	if _, err := c.Query(ctx, "k", staticLoader("v", &calls)); err != nil {
		t.Fatal(err)
	}
	now = now.Add(30 * time.Second)
	if _, err := c.Query(ctx, "k", staticLoader("v", &calls)); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("refetched a fresh entry: %d calls", calls)
	}

	now = now.Add(time.Minute)
	if _, err := c.Query(ctx, "k", staticLoader("v", &calls)); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("expired entry served from cache: %d calls", calls)
	}
}

func TestInvalidateWithoutLoaderOnlyMarksStale(t *testing.T) {
	store := NewMemoryStore()
	c := New(store)
	ctx := context.Background()
	if err := store.Set(ctx, "k", Entry{Data: []byte("v")}); err != nil {
		t.Fatal(err)
	}

	if err := c.Invalidate(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	c.Close()
	if entry, _, _ := c.Peek(ctx, "k"); !entry.Stale {
		t.Error("entry not stale")
	}
}

func TestQueryJSON(t *testing.T) {
	c := New(NewMemoryStore())
	defer c.Close()
	type task struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	userID, projectID := uuid.New(), uuid.New()

	tasks, err := QueryJSON(context.Background(), c, TasksKey(userID, projectID), func(ctx context.Context) ([]task, error) {
		return []task{{ID: "1", Status: "not-started"}}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].Status != "not-started" {
		t.Errorf("tasks = %+v", tasks)
	}
	if TasksKey(userID, projectID) == TasksKey(uuid.New(), projectID) {
		t.Error("task lists of different users share a key")
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("QUERYCACHE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("QUERYCACHE_TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	ctx := context.Background()

	store := NewRedisStore(rdb, "querycache-test:"+uuid.NewString()+":", time.Minute)
	if _, ok, err := store.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("empty get = %v, %v", ok, err)
	}

	want := Entry{Data: []byte(`[{"id":"1"}]`), Stale: true, UpdatedAt: time.Date(2024, 5, 1, 10, 0, 0, 987654321, time.UTC)}
	if err := store.Set(ctx, "k", want); err != nil {
		t.Fatal(err)
	}
	got, ok, err := store.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("get = %v, %v", ok, err)
	}
	if !bytes.Equal(got.Data, want.Data) || got.Stale != want.Stale || !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("key survived delete")
	}
}
