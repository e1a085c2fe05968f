package orders

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"
)

// DefaultPollInterval matches the original dashboard's 5 second refresh.
const DefaultPollInterval = 5 * time.Second

// PollerOptions configures the background list poller.
type PollerOptions struct {
	Service  *Service
	Interval time.Duration
	Page     int
	Limit    int
}

// Poller re-fetches the first order page on a fixed interval and emits a
// refresh event whenever the page content changes, until its context is
// cancelled.
type Poller struct {
	service  *Service
	interval time.Duration
	page     int
	limit    int
	lastHash string
}

// NewPoller builds a poller with defaulted paging and interval.
func NewPoller(opts PollerOptions) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 10
	}
	return &Poller{
		service:  opts.Service,
		interval: opts.Interval,
		page:     opts.Page,
		limit:    opts.Limit,
	}
}

// Run polls until ctx is done. Fetch errors are swallowed so a flaky
// remote API only delays the next refresh.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	if p.service == nil {
		return
	}
	page, err := p.service.List(ctx, p.page, p.limit)
	if err != nil {
		return
	}
	hash := pageHash(page)
	if hash == p.lastHash {
		return
	}
	p.lastHash = hash
	_ = p.service.NotifyOrdersChanged(ctx, OrderEvent{Reason: "poll", Page: p.page})
}

func pageHash(page Page) string {
	b, err := json.Marshal(page)
	if err != nil {
		return ""
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
