// Package bq provides the bigquery telemetry client
package bq

import (
	"context"
	"errors"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/option"
)

// Config configures the bigquery client
type Config struct {
	Project         string
	Dataset         string
	Location        string
	CredentialsFile string
	Endpoint        string
	UserAgent       string
}

// BQ wraps a bigquery client bound to one dataset
type BQ struct {
	client   *bigquery.Client
	dataset  string
	location string
}

var newClient = bigquery.NewClient

// ClientOptions turns cfg into google api options
// an Endpoint means an emulator, so no credentials are sent
func ClientOptions(cfg Config) []option.ClientOption {
	var opts []option.ClientOption
	if cfg.UserAgent != "" {
		opts = append(opts, option.WithUserAgent(cfg.UserAgent))
	}
	if cfg.Endpoint != "" {
		return append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	return opts
}

// Open creates the client; it does not issue any request
func Open(ctx context.Context, cfg Config) (*BQ, error) {
	if cfg.Project == "" || cfg.Dataset == "" {
		return nil, errors.New("bq: project and dataset are required")
	}
	c, err := newClient(ctx, cfg.Project, ClientOptions(cfg)...)
	if err != nil {
		return nil, err
	}
	return &BQ{client: c, dataset: cfg.Dataset, location: cfg.Location}, nil
}

// Dataset returns the dataset queries are expected to reference
func (b *BQ) Dataset() string { return b.dataset }

// Ping fetches the dataset metadata
func (b *BQ) Ping(ctx context.Context) error {
	_, err := b.client.Dataset(b.dataset).Metadata(ctx)
	return err
}

// Query runs sql with named parameters and returns the row iterator
func (b *BQ) Query(ctx context.Context, sql string, params []bigquery.QueryParameter) (*bigquery.RowIterator, error) {
	q := b.client.Query(sql)
	q.Parameters = params
	q.Location = b.location
	q.DefaultDatasetID = b.dataset
	return q.Read(ctx)
}

// Close releases the client
func (b *BQ) Close() error {
	if b == nil || b.client == nil {
		return nil
	}
	return b.client.Close()
}
