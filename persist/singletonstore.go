package persist

import(
	"context"
	"errors"
	"fmt"

	"github.com/skypies/util/gcp/ds"
	gcpsingleton "github.com/skypies/util/gcp/singleton"
	"github.com/skypies/util/singleton"
	mcprovider "github.com/skypies/util/singleton/memcache"
)

// The singleton providers can't delete; a blank entry stands in for a deleted key.
type singletonEntry struct {
	Value string
}

// SingletonStore keeps each key as its own singleton, via memcache or datastore. A missing
// entity reads back as a blank entry from some providers, so blank is absent.
type SingletonStore struct {
	SP     singleton.SingletonProvider
	Prefix string // prepended to every key, so many dashboards can share a backend
}

func NewMemcacheStore(server, prefix string) *SingletonStore {
	sp := mcprovider.NewProvider(server)
	sp.ErrIfNotFound = true
	return &SingletonStore{SP:sp, Prefix:prefix}
}

func NewDatastoreStore(ctx context.Context, project, prefix string) (*SingletonStore, error) {
	p,err := ds.NewCloudDSProvider(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("NewDatastoreStore: could not get a clouddsprovider (projectId=%s): %v", project, err)
	}
	return &SingletonStore{SP:gcpsingleton.NewProvider(p), Prefix:prefix}, nil
}

func (ss *SingletonStore)name(key string) string { return ss.Prefix + key }

func (ss *SingletonStore)Get(ctx context.Context, key string) (string, error) {
	e := singletonEntry{}
	if err := ss.SP.ReadSingleton(ctx, ss.name(key), singleton.GzipReader, &e); err != nil {
		if errors.Is(err, singleton.ErrNoSuchEntity) { return "", ErrAbsent }
		return "", err
	}
	if e.Value == "" { return "", ErrAbsent }
	return e.Value, nil
}

func (ss *SingletonStore)Put(ctx context.Context, key, val string) error {
	return ss.SP.WriteSingleton(ctx, ss.name(key), singleton.GzipWriter, &singletonEntry{val})
}

func (ss *SingletonStore)Delete(ctx context.Context, key string) error {
	return ss.SP.WriteSingleton(ctx, ss.name(key), singleton.GzipWriter, &singletonEntry{})
}
