package logging

import (
	"bufio"
	"errors"
	"net"
	"testing"
	"time"
)

func TestLogstashWriterShipsLines(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	lines := make(chan string, 2)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	w, err := NewLogstashWriter(ln.Addr().String())
	if err != nil {
		t.Fatalf("NewLogstashWriter returned error: %v", err)
	}
	if _, err := w.Write([]byte(`{"msg":"first"}`)); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if _, err := w.Write([]byte("{\"msg\":\"second\"}\n")); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	for _, want := range []string{`{"msg":"first"}`, `{"msg":"second"}`} {
		select {
		case got := <-lines:
			if got != want {
				t.Fatalf("expected %s, got %s", want, got)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s", want)
		}
	}
	_ = w.Close()
}

func TestLogstashWriterDropsWhileUnreachable(t *testing.T) {
	dials := 0
	w, err := NewLogstashWriter("127.0.0.1:1", func(w *LogstashWriter) {
		w.dial = func(string, string, time.Duration) (net.Conn, error) {
			dials++
			return nil, errors.New("connection refused")
		}
	}, WithRetryInterval(time.Hour))
	if err != nil {
		t.Fatalf("NewLogstashWriter returned error: %v", err)
	}
	for i := 0; i < 5; i++ {
		if n, err := w.Write([]byte("line")); err != nil || n != 4 {
			t.Fatalf("Write = %d, %v", n, err)
		}
	}
	_ = w.Close()
	if dials != 1 {
		t.Fatalf("expected a single dial during cool-down, got %d", dials)
	}
	if _, err := w.Write([]byte("late")); err == nil {
		t.Fatal("expected error after Close")
	}
}
