package archive

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// NewBWLimiter creates a rate.Limiter that caps source reads to
// bytesPerSec. The burst never drops below one block so a single read can
// always be admitted.
func NewBWLimiter(bytesPerSec int64) *rate.Limiter {
	burst := 1 << 20 // 1 MB
	if bytesPerSec < int64(burst) {
		burst = int(max(bytesPerSec, BlockSize))
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), burst)
}

// rateLimitedReader wraps an io.Reader and enforces a shared rate limit.
// Once ctx is done it stops waiting and reads at full speed, so an entry
// whose header is already out is finished with its real contents.
type rateLimitedReader struct {
	r       io.Reader
	limiter *rate.Limiter
	ctx     context.Context
}

func newRateLimitedReader(
	ctx context.Context,
	r io.Reader,
	limiter *rate.Limiter,
) *rateLimitedReader {
	return &rateLimitedReader{r: r, limiter: limiter, ctx: ctx}
}

// Read reserves len(p) tokens (capped at the burst) before reading.
// WaitN fails only when ctx is done or its deadline is too close to wait
// for; the read then goes ahead unthrottled.
func (rl *rateLimitedReader) Read(p []byte) (int, error) {
	if rl.ctx.Err() == nil {
		if len(p) > rl.limiter.Burst() {
			p = p[:rl.limiter.Burst()]
		}
		_ = rl.limiter.WaitN(rl.ctx, len(p)) //nolint:errcheck // see above
	}
	return rl.r.Read(p)
}
