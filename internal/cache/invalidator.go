package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// InvalidationChannel is the Redis pub/sub channel carrying invalidations.
// Namespaced invalidators append ":<namespace>".
const InvalidationChannel = "agentflow:cache:invalidate"

// patternMarker prefixes payloads that carry a glob instead of a key.
const patternMarker = "pattern:"

// LocalTier is a process-local tier that invalidations are applied to.
type LocalTier interface {
	Tier
	PatternInvalidator
}

// Invalidator keeps per-process tiers consistent across instances. Writers
// publish the keys they change and every subscribed instance drops them from
// its local tier instead of serving them until expiry.
type Invalidator struct {
	local   LocalTier
	client  *redis.Client
	channel string
	ready   chan struct{}
	// newBackOff paces subscribe attempts.
	newBackOff func() backoff.BackOff

	mu     sync.Mutex
	cancel context.CancelFunc
	closed bool
}

// NewInvalidator creates an invalidator applying messages published for
// namespace to local.
func NewInvalidator(local LocalTier, client *redis.Client, namespace string) *Invalidator {
	channel := InvalidationChannel
	if namespace != "" {
		channel += ":" + namespace
	}
	return &Invalidator{
		local:      local,
		client:     client,
		channel:    channel,
		ready:      make(chan struct{}),
		newBackOff: subscribeBackOff,
	}
}

// subscribeBackOff retries without an elapsed-time limit; only the context
// ends the attempts.
func subscribeBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return b
}

// Channel returns the pub/sub channel the invalidator uses.
func (i *Invalidator) Channel() string { return i.channel }

// Start subscribes and applies invalidations until ctx ends or Close is
// called. A failed subscribe is retried with exponential backoff. It blocks
// and must be called at most once.
func (i *Invalidator) Start(ctx context.Context) {
	subCtx, cancel := context.WithCancel(ctx)
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		cancel()
		return
	}
	i.cancel = cancel
	i.mu.Unlock()

	pubsub, err := i.subscribe(subCtx)
	if err != nil {
		log.Info().Err(err).Str("channel", i.channel).Msg("Cache invalidation subscription abandoned")
		return
	}
	defer func() {
		_ = pubsub.Close()
	}()
	close(i.ready)
	log.Info().Str("channel", i.channel).Msg("Listening for cache invalidations")

	ch := pubsub.Channel()
	for {
		select {
		case <-subCtx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			i.apply(subCtx, msg.Payload)
		}
	}
}

// subscribe retries until the subscription is confirmed or ctx ends.
func (i *Invalidator) subscribe(ctx context.Context) (*redis.PubSub, error) {
	var pubsub *redis.PubSub
	op := func() error {
		ps := i.client.Subscribe(ctx, i.channel)
		if _, err := ps.Receive(ctx); err != nil {
			_ = ps.Close()
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		pubsub = ps
		return nil
	}
	notify := func(err error, next time.Duration) {
		log.Warn().Err(err).Str("channel", i.channel).Dur("retry_in", next).Msg("Cache invalidation subscription failed")
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(i.newBackOff(), ctx), notify); err != nil {
		return nil, err
	}
	return pubsub, nil
}

func (i *Invalidator) apply(ctx context.Context, payload string) {
	if pattern, ok := strings.CutPrefix(payload, patternMarker); ok {
		i.local.InvalidatePattern(ctx, pattern)
		return
	}
	i.local.Delete(ctx, payload)
}

// Ready is closed once the subscription is confirmed.
func (i *Invalidator) Ready() <-chan struct{} { return i.ready }

// Publish announces that key changed.
func (i *Invalidator) Publish(ctx context.Context, key string) error {
	return i.publish(ctx, key)
}

// PublishPattern announces that every key matching pattern changed.
func (i *Invalidator) PublishPattern(ctx context.Context, pattern string) error {
	return i.publish(ctx, patternMarker+pattern)
}

func (i *Invalidator) publish(ctx context.Context, payload string) error {
	if err := i.client.Publish(ctx, i.channel, payload).Err(); err != nil {
		log.Warn().Err(err).Str("channel", i.channel).Str("payload", payload).Msg("Failed to publish cache invalidation")
		return err
	}
	return nil
}

// Close stops the subscription loop.
func (i *Invalidator) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return nil
	}
	i.closed = true
	if i.cancel != nil {
		i.cancel()
	}
	return nil
}
