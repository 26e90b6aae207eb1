// Package resource fetches images in the background and hands the decoded
// result back to a single ticking goroutine.
package resource

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/sync/semaphore"

	"github.com/CrestNiraj12/mastoview/app"
)

// State is the lifecycle of a Resource.
type State int

const (
	Pending State = iota
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "pending"
}

type result struct {
	img image.Image
	err error
}

// Resource is one in-flight or completed image fetch. The fetch runs on its
// own goroutine; only Poll observes its completion, so a Resource must be
// confined to one goroutine or guarded by its owner.
type Resource struct {
	url    string
	state  State
	img    image.Image
	err    error
	done   chan result
	cancel context.CancelFunc
}

// Start begins fetching url immediately and returns a Pending resource.
// When sem is non-nil the fetch waits for a slot before touching the network.
func Start(ctx context.Context, url string, f app.ImageFetcher, sem *semaphore.Weighted) *Resource {
	ctx, cancel := context.WithCancel(ctx)
	r := &Resource{
		url:    url,
		done:   make(chan result, 1),
		cancel: cancel,
	}
	go func() {
		r.done <- fetch(ctx, url, f, sem)
	}()
	return r
}

func fetch(ctx context.Context, url string, f app.ImageFetcher, sem *semaphore.Weighted) result {
	if sem != nil {
		if err := sem.Acquire(ctx, 1); err != nil {
			return result{err: fmt.Errorf("waiting for fetch slot: %w", err)}
		}
		defer sem.Release(1)
	}
	data, err := f.FetchImage(ctx, url)
	if err != nil {
		return result{err: fmt.Errorf("fetching %s: %w", url, err)}
	}
	img, err := Decode(data)
	if err != nil {
		return result{err: err}
	}
	return result{img: img}
}

// Poll reports true exactly once: on the call that observes the fetch
// finishing. It never blocks. Failed fetches still become Ready, with a nil
// Image and the reason in Err.
func (r *Resource) Poll() bool {
	if r.state == Ready {
		return false
	}
	select {
	case res := <-r.done:
		r.img = res.img
		r.err = res.err
		r.state = Ready
		r.done = nil
		r.cancel()
		return true
	default:
		return false
	}
}

// URL returns the normalized URL this resource was started with.
func (r *Resource) URL() string { return r.url }

func (r *Resource) State() State { return r.state }

// Image is nil until Ready, and stays nil for failed or non-image fetches.
func (r *Resource) Image() image.Image { return r.img }

// Err explains a Ready resource without an image. Display code should not
// treat it as a failure to retry.
func (r *Resource) Err() error { return r.err }

// Cancel aborts an in-flight fetch. The resource still becomes Ready (with
// a cancellation error) on a later Poll.
func (r *Resource) Cancel() { r.cancel() }
