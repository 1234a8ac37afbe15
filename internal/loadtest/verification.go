package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/okian/fairway/internal/domain/ingest"
	"github.com/okian/fairway/internal/domain/model"
	"github.com/okian/fairway/internal/domain/stats"
	"github.com/okian/fairway/pkg/logger"
)

// Expected parses s locally and computes the statistics the server should
// report for it. The result is normalized through JSON like a response body.
func Expected(ctx context.Context, s Sample) (map[string]any, error) {
	var parsed *model.Session
	capture := ingest.SaverFunc(func(_ context.Context, sess *model.Session) (*model.Session, error) {
		parsed = sess
		return sess, nil
	})

	in := ingest.New(capture, ingest.WithLogger(logger.Discard()))
	if _, err := in.Ingest(ctx, s.Upload(), s.Title, s.Location, s.Source); err != nil {
		return nil, fmt.Errorf("parse %s locally: %w", s.Filename, err)
	}
	return normalize(stats.Compute(parsed.Shots))
}

func normalize(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Compare reports every top level key whose value differs.
func Compare(want, got map[string]any) error {
	keys := make(map[string]struct{}, len(want)+len(got))
	for k := range want {
		keys[k] = struct{}{}
	}
	for k := range got {
		keys[k] = struct{}{}
	}

	var diffs []string
	for k := range keys {
		if !reflect.DeepEqual(want[k], got[k]) {
			diffs = append(diffs, fmt.Sprintf("%s: want %v, got %v", k, want[k], got[k]))
		}
	}
	if len(diffs) == 0 {
		return nil
	}
	sort.Strings(diffs)
	return fmt.Errorf("%w: %s", ErrMismatch, strings.Join(diffs, "; "))
}
