/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package publisher implements a realtime republish loop on top of a
// single pre-encoded NetworkMessage buffer: the buffer is built once
// from a WriterGroup's shape and then patched in place on every tick,
// instead of being re-walked and re-allocated from scratch.
package publisher

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/opcfoundation-pubsub/uadp-codec/stats"
	"github.com/opcfoundation-pubsub/uadp-codec/uadp"
)

// Sink receives a buffer ready for transmission. Publish calls it with
// the same backing array on every tick, so a Sink that retains the
// slice past the call must copy it.
type Sink func(buf []byte)

// WriterGroup republishes a single NetworkMessage shape on a fixed
// interval, advancing its sequence numbers on every tick the way a
// publisher's send worker resends the same encoded frame in a hot
// loop rather than re-encoding from the DataSet model each time.
type WriterGroup struct {
	mux   sync.Mutex
	ob    *uadp.NetworkMessageOffsetBuffer
	sink  Sink
	stats stats.Recorder

	stop chan struct{}
	done chan struct{}
}

// NewWriterGroup shapes nm once: it sizes the message while recording
// every realtime-patchable offset, allocates the backing buffer, and
// encodes the initial frame. st may be nil to disable metrics.
func NewWriterGroup(nm *uadp.NetworkMessage, sink Sink, st stats.Recorder) (*WriterGroup, error) {
	ob := &uadp.NetworkMessageOffsetBuffer{}
	size, err := uadp.CalcSizeBinaryOffsets(nm, ob)
	if err != nil {
		return nil, err
	}
	ob.Buffer = make([]byte, size)
	if _, err := uadp.EncodeBinary(nm, ob.Buffer, 0); err != nil {
		return nil, err
	}

	return &WriterGroup{
		ob:    ob,
		sink:  sink,
		stats: st,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}, nil
}

// Start runs the publish loop on interval until Stop is called. It
// blocks, so callers that want to keep going typically invoke it with
// go wg.Start(interval).
func (w *WriterGroup) Start(interval time.Duration) {
	defer close(w.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			if err := w.publishOnce(); err != nil {
				log.Errorf("Failed to republish buffered NetworkMessage: %v", err)
			}
		}
	}
}

// Stop halts the publish loop and waits for the in-flight tick, if
// any, to finish.
func (w *WriterGroup) Stop() {
	close(w.stop)
	<-w.done
}

func (w *WriterGroup) publishOnce() error {
	w.mux.Lock()
	defer w.mux.Unlock()

	if err := uadp.UpdateBufferedMessage(w.ob); err != nil {
		if w.stats != nil {
			w.stats.ObserveEncode(0, err)
		}
		return err
	}
	if w.stats != nil {
		w.stats.ObserveEncode(len(w.ob.Buffer), nil)
		w.stats.IncRealtimeUpdate("publish")
	}
	w.sink(w.ob.Buffer)
	return nil
}
