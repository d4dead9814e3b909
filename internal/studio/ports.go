package studio

import (
	"errors"
	"sync"
)

var (
	// ErrGenerateRejected is returned when GenerateAll is called while the
	// prompt is too short or a generation is already running. No call is issued.
	ErrGenerateRejected = errors.New("campaign generation not allowed")
	ErrImageBusy        = errors.New("image generation already in flight")
	ErrEmptyMessage     = errors.New("message is empty")
	ErrChatBusy         = errors.New("assistant is still replying")
)

// Notifier delivers blocking, user-facing failure messages.
type Notifier interface {
	Alert(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Alert(msg string) { f(msg) }

// Clipboard is the system clipboard seen from the studio. Writes are fire-and-forget.
type Clipboard interface {
	WriteText(text string) error
}

type nopNotifier struct{}

func (nopNotifier) Alert(string) {}

type nopClipboard struct{}

func (nopClipboard) WriteText(string) error { return nil }

// changeFeed fans change notifications out to every subscriber. Each
// subscriber holds at most one pending token, so bursts coalesce per listener.
type changeFeed struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func (f *changeFeed) subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	f.mu.Lock()
	if f.subs == nil {
		f.subs = make(map[chan struct{}]struct{})
	}
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, ch)
			f.mu.Unlock()
		})
	}
}

func (f *changeFeed) notify() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
