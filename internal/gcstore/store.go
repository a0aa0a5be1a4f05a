// Package gcstore reads report source files from a Google Cloud Storage
// bucket. Sales workbooks are uploaded as <prefix><YYYYMMDD>.xlsx and the
// store resolves the most recent one by its date stamp.
package gcstore

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

var datedObjectPattern = regexp.MustCompile(`(\d{8})\.xlsx$`)

// Store wraps a GCS client bound to a single bucket.
type Store struct {
	client *storage.Client
	bucket string
}

func New(ctx context.Context, bucket string) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Store{client: client, bucket: bucket}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// Download reads the full contents of one object.
func (s *Store) Download(ctx context.Context, object string) ([]byte, error) {
	r, err := s.client.Bucket(s.bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read GCS object %s: %w", object, err)
	}
	return data, nil
}

// LatestSalesObject lists objects under prefix and returns the name and the
// YYYYMMDD stamp of the newest dated workbook. Objects without a date stamp
// are ignored.
func (s *Store) LatestSalesObject(ctx context.Context, prefix string) (name, date string, err error) {
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	var names []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", "", fmt.Errorf("list GCS objects under %s: %w", prefix, err)
		}
		if datedObjectPattern.MatchString(attrs.Name) {
			names = append(names, attrs.Name)
		}
	}
	if len(names) == 0 {
		return "", "", fmt.Errorf("no dated sales workbook under %s", prefix)
	}

	sort.Slice(names, func(i, j int) bool {
		return stamp(names[i]) < stamp(names[j])
	})
	latest := names[len(names)-1]
	return latest, stamp(latest), nil
}

func stamp(name string) string {
	m := datedObjectPattern.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return m[1]
}
