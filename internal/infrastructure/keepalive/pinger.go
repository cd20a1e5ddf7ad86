// Package keepalive periodically requests the service's own public URL so
// free-tier hosts that idle inactive instances keep it warm.
package keepalive

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookworm-social/bookworm-api/internal/pkg/metrics"
)

const requestTimeout = 10 * time.Second

type Pinger struct {
	url      string
	interval time.Duration
	client   *http.Client
	log      zerolog.Logger
}

func NewPinger(url string, interval time.Duration, log zerolog.Logger) *Pinger {
	return &Pinger{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: requestTimeout},
		log:      log,
	}
}

// Run pings on every tick until ctx is cancelled. It returns immediately when
// no URL is configured.
func (p *Pinger) Run(ctx context.Context) {
	if p.url == "" || p.interval <= 0 {
		p.log.Info().Msg("keep-alive disabled")
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.log.Info().Str("url", p.url).Dur("interval", p.interval).Msg("keep-alive started")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Ping(ctx)
		}
	}
}

// Ping issues a single GET and reports whether the target answered 200.
func (p *Pinger) Ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		metrics.KeepAlivePingsTotal.WithLabelValues("error").Inc()
		p.log.Error().Err(err).Msg("keep-alive request build failed")
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		metrics.KeepAlivePingsTotal.WithLabelValues("error").Inc()
		p.log.Warn().Err(err).Str("url", p.url).Msg("keep-alive ping failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.KeepAlivePingsTotal.WithLabelValues("bad_status").Inc()
		p.log.Warn().Int("status", resp.StatusCode).Str("url", p.url).Msg("keep-alive ping got unexpected status")
		return false
	}

	metrics.KeepAlivePingsTotal.WithLabelValues("ok").Inc()
	p.log.Debug().Str("url", p.url).Msg("keep-alive ping ok")
	return true
}
