package server_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/go-pinyin/internal/pinyin"
	"github.com/example/go-pinyin/internal/server"
)

// ---------------------------------------------------------------------------
// Request validation and limits
// ---------------------------------------------------------------------------

func TestRender_OversizedTextRejectedAs413(t *testing.T) {
	h := newTestHandler(t, server.WithMaxTextBytes(5))

	// Two characters of three bytes each.
	rec := post(t, h, "/render", `{"text":"你好"}`)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("want 413, got %d", rec.Code)
	}

	var errBody map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&errBody); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if errBody["error"] == "" {
		t.Error("want non-empty error field")
	}
}

func TestRender_TextAtExactLimitIsAccepted(t *testing.T) {
	h := newTestHandler(t, server.WithMaxTextBytes(6))

	rec := post(t, h, "/render", `{"text":"你好"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200 for exactly-limit text, got %d", rec.Code)
	}
}

func TestEncode_LimitCountsAllTexts(t *testing.T) {
	h := newTestHandler(t, server.WithMaxTextBytes(8))

	rec := post(t, h, "/encode/hanzi", `{"texts":["你好","不好"]}`)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("texts: want 413, got %d", rec.Code)
	}

	rec = post(t, h, "/encode/pinyin", `{"syllables":["`+strings.Repeat("a", 9)+`"]}`)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("syllables: want 413, got %d", rec.Code)
	}
}

func TestRender_ZeroLimitDisablesCheck(t *testing.T) {
	h := newTestHandler(t, server.WithMaxTextBytes(0))

	rec := post(t, h, "/render", `{"text":"`+strings.Repeat("好", 5000)+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// Worker pool / concurrency throttling
// ---------------------------------------------------------------------------

// blockingEncoder counts concurrent Render calls and blocks each one until
// release is closed.
type blockingEncoder struct {
	current atomic.Int32
	peak    atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (b *blockingEncoder) Render(pinyin.Input, bool, bool) pinyin.Result {
	n := b.current.Add(1)
	for {
		p := b.peak.Load()
		if n <= p || b.peak.CompareAndSwap(p, n) {
			break
		}
	}
	b.entered <- struct{}{}
	<-b.release
	b.current.Add(-1)
	return pinyin.Result{Kind: pinyin.KindScalar}
}

func (b *blockingEncoder) EncodeHanzi(pinyin.Input) pinyin.Codes         { return pinyin.Codes{} }
func (b *blockingEncoder) EncodePinyin(pinyin.Input) pinyin.Codes        { return pinyin.Codes{} }
func (b *blockingEncoder) EncodePronunciation(pinyin.Input) pinyin.Codes { return pinyin.Codes{} }

type emptyVocab struct{}

func (emptyVocab) PinyinVocab() []string { return nil }
func (emptyVocab) HanziVocab() []string  { return nil }

func TestRender_ConcurrencyThrottling(t *testing.T) {
	const workers = 2
	const totalRequests = 5

	enc := &blockingEncoder{
		entered: make(chan struct{}, totalRequests),
		release: make(chan struct{}),
	}
	h := server.NewHandler(enc, emptyVocab{},
		server.WithWorkers(workers),
		server.WithRequestTimeout(5*time.Second),
	)

	var wg sync.WaitGroup
	codes := make([]int, totalRequests)
	for i := range totalRequests {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			codes[idx] = post(t, h, "/render", `{"text":"好"}`).Code
		}(i)
	}

	// Wait until the pool is full, give the rest a moment to queue up, then
	// let everything drain.
	for range workers {
		<-enc.entered
	}
	time.Sleep(50 * time.Millisecond)
	if got := enc.current.Load(); got != workers {
		t.Errorf("in-flight = %d; want %d", got, workers)
	}
	close(enc.release)
	wg.Wait()

	if p := enc.peak.Load(); p > workers {
		t.Errorf("peak concurrency = %d; want <= %d", p, workers)
	}
	for i, code := range codes {
		if code != http.StatusOK {
			t.Errorf("request %d: want 200, got %d", i, code)
		}
	}
}

func TestRender_NoWorkerAvailableReturns503(t *testing.T) {
	enc := &blockingEncoder{
		entered: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
	h := server.NewHandler(enc, emptyVocab{},
		server.WithWorkers(1),
		server.WithRequestTimeout(20*time.Millisecond),
	)

	done := make(chan int, 1)
	go func() { done <- post(t, h, "/render", `{"text":"好"}`).Code }()
	<-enc.entered

	rec := post(t, h, "/render", `{"text":"好"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("want 503 while the only worker is busy, got %d", rec.Code)
	}

	var errBody map[string]string
	_ = json.NewDecoder(rec.Body).Decode(&errBody)
	if errBody["error"] == "" {
		t.Error("want non-empty error field")
	}

	close(enc.release)
	if code := <-done; code != http.StatusOK {
		t.Errorf("first request: want 200, got %d", code)
	}
}

func TestRender_ZeroRequestTimeoutNeverRejects(t *testing.T) {
	h := newTestHandler(t, server.WithWorkers(4), server.WithRequestTimeout(0))

	for i := range 200 {
		rec := post(t, h, "/render", `{"text":"你好"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: want 200, got %d: %s", i, rec.Code, rec.Body.String())
		}
	}
}

func TestRender_ZeroRequestTimeoutWaitsForWorker(t *testing.T) {
	enc := &blockingEncoder{
		entered: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
	h := server.NewHandler(enc, emptyVocab{},
		server.WithWorkers(1),
		server.WithRequestTimeout(0),
	)

	first := make(chan int, 1)
	go func() { first <- post(t, h, "/render", `{"text":"好"}`).Code }()
	<-enc.entered

	second := make(chan int, 1)
	go func() { second <- post(t, h, "/render", `{"text":"好"}`).Code }()

	select {
	case code := <-second:
		t.Fatalf("second request finished with %d while the only worker was busy", code)
	case <-time.After(50 * time.Millisecond):
	}

	close(enc.release)
	if code := <-first; code != http.StatusOK {
		t.Errorf("first request: want 200, got %d", code)
	}
	if code := <-second; code != http.StatusOK {
		t.Errorf("second request: want 200, got %d", code)
	}
}
