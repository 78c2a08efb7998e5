package logging

import (
	"io"
	"log"
	"os"
)

// Setup points the standard logger at stdout, mirrored to Logstash when addr is
// set. The returned func releases the Logstash connection.
func Setup(addr string) func() {
	log.SetFlags(log.LstdFlags | log.LUTC)
	if addr == "" {
		log.SetOutput(os.Stdout)
		return func() {}
	}
	w, err := NewLogstashWriter(addr)
	if err != nil {
		log.Printf("logstash disabled: %v", err)
		return func() {}
	}
	log.SetOutput(io.MultiWriter(os.Stdout, w))
	return func() { _ = w.Close() }
}
