package redis

import (
	"context"
	"strconv"

	"github.com/giftlane/relevance/internal/db"
)

// XAdd appends an entry to a stream, trimming it to approximately maxLen.
// maxLen <= 0 leaves the stream uncapped.
func (s *Store) XAdd(ctx context.Context, stream string, maxLen int64, fields map[string]string) error {
	args := []string{stream}
	if maxLen > 0 {
		args = append(args, "MAXLEN", "~", strconv.FormatInt(maxLen, 10))
	}
	args = append(args, "*")
	for k, v := range fields {
		args = append(args, k, v)
	}

	cmd := s.b().Arbitrary("XADD").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpXAdd, Err: err}
	}
	return nil
}
