package persist

import(
	"context"
	"sort"
	"sync"
)

// MemStore is a KVStore that lives only as long as the process.
type MemStore struct {
	sync.Mutex
	m map[string]string
}

func NewMemStore() *MemStore { return &MemStore{m:map[string]string{}} }

func (ms *MemStore)Get(ctx context.Context, key string) (string, error) {
	ms.Lock()
	defer ms.Unlock()
	if v,exists := ms.m[key]; exists {
		return v, nil
	}
	return "", ErrAbsent
}

func (ms *MemStore)Put(ctx context.Context, key, val string) error {
	ms.Lock()
	defer ms.Unlock()
	ms.m[key] = val
	return nil
}

func (ms *MemStore)Delete(ctx context.Context, key string) error {
	ms.Lock()
	defer ms.Unlock()
	delete(ms.m, key)
	return nil
}

func (ms *MemStore)List(ctx context.Context) ([]string, error) {
	ms.Lock()
	defer ms.Unlock()
	names := []string{}
	for k := range ms.m { names = append(names, k) }
	sort.Strings(names)
	return names, nil
}

func (ms *MemStore)Len() int {
	ms.Lock()
	defer ms.Unlock()
	return len(ms.m)
}
