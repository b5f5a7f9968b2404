package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	fdash "github.com/skypies/flightdash"
)

// The bigquery dataset may well live in an entirely different google cloud project from the
// bucket used for staging. In that case, this project's service account needs to be an 'editor'
// on the dest project, so that it can submit load jobs; and the dest project's service account
// needs read access to the staging bucket.

type Options struct {
	Project     string // the 'dest' project, which holds the dataset
	Dataset     string
	Table       string
	Bucket      string // If set, rows are staged in GCS and bulk loaded; else streamed in
	Credentials string // path to a JSON creds file; blank for the default credentials
}

func (o Options)String() string {
	return fmt.Sprintf("bq:%s.%s.%s (staging=%q)", o.Project, o.Dataset, o.Table, o.Bucket)
}

// {{{ JSONSink

// JSONSink writes newline-delimited JSON, the format bigquery load jobs want.
type JSONSink struct {
	sync.Mutex
	W io.Writer
}

func (js *JSONSink)Put(ctx context.Context, name string, rows []*fdash.PredictionForBigQuery) error {
	js.Lock()
	defer js.Unlock()
	return encodeRows(js.W, rows)
}

func encodeRows(w io.Writer, rows []*fdash.PredictionForBigQuery) error {
	encoder := json.NewEncoder(w)
	for _,row := range rows {
		if err := encoder.Encode(row); err != nil { return err }
	}
	return nil
}

// }}}
// {{{ InsertSink

// InsertSink streams rows in via the tabledata.insertAll API.
type InsertSink struct {
	Client *bigquery.Client
	Opt     Options
}

func (is *InsertSink)Put(ctx context.Context, name string, rows []*fdash.PredictionForBigQuery) error {
	ins := is.Client.Dataset(is.Opt.Dataset).Table(is.Opt.Table).Inserter()
	if err := ins.Put(ctx, rows); err != nil {
		var multi bigquery.PutMultiError
		if errors.As(err, &multi) {
			detailedErrStr := ""
			for i,rowErr := range multi {
				detailedErrStr += fmt.Sprintf(" [%2d] row %d: %v\n", i, rowErr.RowIndex, rowErr.Errors)
			}
			return fmt.Errorf("Insert: %v\n--\n%s", err, detailedErrStr)
		}
		return fmt.Errorf("Insert: %v", err)
	}
	return nil
}

// }}}
// {{{ LoadSink

// LoadSink writes the rows into a file in Cloud Storage, then submits a load request into
// BigQuery to load that file.
type LoadSink struct {
	BQ  *bigquery.Client
	GCS *storage.Client
	Opt  Options
}

func (ls *LoadSink)Put(ctx context.Context, name string, rows []*fdash.PredictionForBigQuery) error {
	if err := ls.writeGCSFile(ctx, name, rows); err != nil { return err }
	return ls.submitLoadJob(ctx, name)
}

func (ls *LoadSink)writeGCSFile(ctx context.Context, name string, rows []*fdash.PredictionForBigQuery) error {
	w := ls.GCS.Bucket(ls.Opt.Bucket).Object(name).NewWriter(ctx)
	w.ContentType = "application/json"
	if err := encodeRows(w, rows); err != nil {
		w.Close()
		return fmt.Errorf("GCS-Write gs://%s/%s: %v", ls.Opt.Bucket, name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("GCS-Close gs://%s/%s: %v", ls.Opt.Bucket, name, err)
	}
	return nil
}

// https://cloud.google.com/bigquery/docs/loading-data-cloud-storage#bigquery-import-gcs-file-go
func (ls *LoadSink)submitLoadJob(ctx context.Context, name string) error {
	gcsSrc := bigquery.NewGCSReference(fmt.Sprintf("gs://%s/%s", ls.Opt.Bucket, name))
	gcsSrc.SourceFormat = bigquery.JSON

	loader := ls.BQ.Dataset(ls.Opt.Dataset).Table(ls.Opt.Table).LoaderFrom(gcsSrc)
	loader.CreateDisposition = bigquery.CreateIfNeeded
	loader.WriteDisposition = bigquery.WriteAppend

	job,err := loader.Run(ctx)
	if err != nil {
		return fmt.Errorf("Submission of load job: %v", err)
	}

	status,err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("Failure determining status: %v", err)
	} else if err := status.Err(); err != nil {
		detailedErrStr := ""
		for i,innerErr := range status.Errors {
			detailedErrStr += fmt.Sprintf(" [%2d] %v\n", i, innerErr)
		}
		return fmt.Errorf("Job error: %v\n--\n%s", err, detailedErrStr)
	}
	return nil
}

// }}}

// {{{ NewSink

// NewSink picks a LoadSink if a staging bucket is configured, and an InsertSink otherwise.
func NewSink(ctx context.Context, opt Options) (Sink, error) {
	if opt.Project == "" || opt.Dataset == "" || opt.Table == "" {
		return nil, fmt.Errorf("NewSink: incomplete options %s", opt)
	}

	clientOpts := []option.ClientOption{}
	if opt.Credentials != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opt.Credentials))
	}

	bq,err := bigquery.NewClient(ctx, opt.Project, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("Creating bigquery client: %v", err)
	}
	if opt.Bucket == "" {
		return &InsertSink{Client:bq, Opt:opt}, nil
	}

	gcs,err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		bq.Close()
		return nil, fmt.Errorf("Creating storage client: %v", err)
	}
	return &LoadSink{BQ:bq, GCS:gcs, Opt:opt}, nil
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
