package persist

import(
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSStore keeps each key as a small object in a cloud storage bucket.
type GCSStore struct {
	Client     *storage.Client
	BucketName string
	Prefix     string // object name prefix, e.g. "dashboards/alice/"
}

// NewGCSStore makes a client; if credsFile is blank, the default credentials are used.
func NewGCSStore(ctx context.Context, bucketName, prefix, credsFile string) (*GCSStore, error) {
	opts := []option.ClientOption{}
	if credsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credsFile))
	}
	client,err := storage.NewClient(ctx, opts...)
	if err != nil { return nil, fmt.Errorf("NewGCSStore: %v", err) }
	return &GCSStore{Client:client, BucketName:bucketName, Prefix:prefix}, nil
}

func (gs *GCSStore)object(key string) *storage.ObjectHandle {
	return gs.Client.Bucket(gs.BucketName).Object(gs.Prefix + key)
}

func (gs *GCSStore)Get(ctx context.Context, key string) (string, error) {
	rdr,err := gs.object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return "", ErrAbsent
	} else if err != nil {
		return "", fmt.Errorf("GCS-Open %s|%s: %v", gs.BucketName, gs.Prefix+key, err)
	}
	defer rdr.Close()

	b,err := io.ReadAll(rdr)
	if err != nil { return "", fmt.Errorf("GCS-Read %s|%s: %v", gs.BucketName, gs.Prefix+key, err) }
	return string(b), nil
}

func (gs *GCSStore)Put(ctx context.Context, key, val string) error {
	w := gs.object(key).NewWriter(ctx)
	w.ContentType = "application/json"
	if _,err := io.Copy(w, strings.NewReader(val)); err != nil {
		w.Close()
		return fmt.Errorf("GCS-Write %s|%s: %v", gs.BucketName, gs.Prefix+key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("GCS-Close %s|%s: %v", gs.BucketName, gs.Prefix+key, err)
	}
	return nil
}

func (gs *GCSStore)Delete(ctx context.Context, key string) error {
	err := gs.object(key).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) { return ErrAbsent }
	return err
}

// List returns the names of all keys under the prefix.
func (gs *GCSStore)List(ctx context.Context) ([]string, error) {
	q := &storage.Query{Prefix: gs.Prefix}
	names := []string{}
	it := gs.Client.Bucket(gs.BucketName).Objects(ctx, q)
	for {
		oa,err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("GCS-Readdir [gs://%s]%s': %v", gs.BucketName, q.Prefix, err)
		}
		names = append(names, strings.TrimPrefix(oa.Name, gs.Prefix))
	}
	return names, nil
}

func (gs *GCSStore)Close() error { return gs.Client.Close() }
