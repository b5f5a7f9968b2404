package persist

import(
	"context"
	"fmt"
)

type Options struct {
	Backend     string // file, memory, memcache, datastore, gcs
	Dir         string // for the file backend; blank for DefaultStateDir()
	Memcache    string // host:port
	Project     string
	Bucket      string
	Prefix      string
	Credentials string // path to a service account file; blank for default creds
}

// Open returns the KVStore named by opt.Backend.
func Open(ctx context.Context, opt Options) (KVStore, error) {
	switch opt.Backend {
	case "", "file":
		return NewFileStore(opt.Dir), nil
	case "memory":
		return NewMemStore(), nil
	case "memcache":
		server := opt.Memcache
		if server == "" { server = "127.0.0.1:11211" }
		return NewMemcacheStore(server, opt.Prefix), nil
	case "datastore":
		if opt.Project == "" { return nil, fmt.Errorf("persist.Open: datastore needs a project") }
		return NewDatastoreStore(ctx, opt.Project, opt.Prefix)
	case "gcs":
		if opt.Bucket == "" { return nil, fmt.Errorf("persist.Open: gcs needs a bucket") }
		return NewGCSStore(ctx, opt.Bucket, opt.Prefix, opt.Credentials)
	}
	return nil, fmt.Errorf("persist.Open: unknown backend %q", opt.Backend)
}
