package ws

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeConn alimenta mensagens pelo canal in e detecta escritas
// sobrepostas na mesma conexão
type fakeConn struct {
	in      chan ClientMsg
	writing int32
	overlap int32
	writes  int32
}

func (f *fakeConn) ReadJSON(v interface{}) error {
	m, ok := <-f.in
	if !ok {
		return errors.New("closed")
	}
	*(v.(*ClientMsg)) = m
	return nil
}

func (f *fakeConn) enter() {
	if atomic.AddInt32(&f.writing, 1) > 1 {
		atomic.AddInt32(&f.overlap, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&f.writing, -1)
	atomic.AddInt32(&f.writes, 1)
}

func (f *fakeConn) WriteMessage(int, []byte) error { f.enter(); return nil }
func (f *fakeConn) WriteJSON(interface{}) error    { f.enter(); return nil }

func waitSubscribed(t *testing.T, h *Hub, marketID string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.mu.RLock()
		n := len(h.subs[marketID])
		h.mu.RUnlock()
		if n > 0 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("client never subscribed")
}

func TestHub_BroadcastOnlyToSubscribedMarket(t *testing.T) {
	h := NewHub(nil)
	f := &fakeConn{in: make(chan ClientMsg)}
	go h.serve(&client{conn: f})
	defer close(f.in)

	f.in <- ClientMsg{Type: "subscribe", MarketID: "m1"}
	waitSubscribed(t, h, "m1")

	h.Broadcast(OddsUpdate{MarketID: "m1"})
	h.Broadcast(OddsUpdate{MarketID: "m2"})

	if got := atomic.LoadInt32(&f.writes); got != 1 {
		t.Fatalf("expected exactly 1 write (only m1 subscribed), got %d", got)
	}
}

// Pong (loop de leitura) e Broadcast (goroutine do subscriber Redis)
// escrevem na mesma conexão; as escritas nunca podem se sobrepor
func TestHub_ConcurrentPongAndBroadcastSerialized(t *testing.T) {
	h := NewHub(nil)
	f := &fakeConn{in: make(chan ClientMsg)}
	done := make(chan struct{})
	go func() {
		h.serve(&client{conn: f})
		close(done)
	}()

	f.in <- ClientMsg{Type: "subscribe", MarketID: "m1"}
	waitSubscribed(t, h, "m1")

	const n = 50
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			f.in <- ClientMsg{Type: "ping"}
		}
	}()
	for i := 0; i < n; i++ {
		h.Broadcast(OddsUpdate{MarketID: "m1"})
	}
	wg.Wait()
	close(f.in)
	<-done

	if got := atomic.LoadInt32(&f.overlap); got != 0 {
		t.Fatalf("overlapping writes on the same connection: %d", got)
	}
	if got := atomic.LoadInt32(&f.writes); got != 2*n {
		t.Fatalf("expected %d writes (pongs + broadcasts), got %d", 2*n, got)
	}
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub(nil)
	f := &fakeConn{in: make(chan ClientMsg)}
	done := make(chan struct{})
	go func() {
		h.serve(&client{conn: f})
		close(done)
	}()

	f.in <- ClientMsg{Type: "subscribe", MarketID: "m1"}
	waitSubscribed(t, h, "m1")
	h.Broadcast(OddsUpdate{MarketID: "m1"})

	f.in <- ClientMsg{Type: "unsubscribe", MarketID: "m1"}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.mu.RLock()
		_, still := h.subs["m1"]
		h.mu.RUnlock()
		if !still {
			break
		}
		time.Sleep(time.Millisecond)
	}

	h.Broadcast(OddsUpdate{MarketID: "m1"})
	close(f.in)
	<-done

	if got := atomic.LoadInt32(&f.writes); got != 1 {
		t.Fatalf("expected 1 write before unsubscribe, got %d", got)
	}
}
