package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/backdrop-cli/backdrop/log"
	"github.com/backdrop-cli/backdrop/playback"
)

// observed lists the properties the listener subscribes to, in observe id order.
var observed = []string{"time-pos", "duration"}

// ipcEvent is an asynchronous notification written by mpv.
type ipcEvent struct {
	Event     string      `json:"event"`
	Name      string      `json:"name"`
	Data      interface{} `json:"data"`
	Reason    string      `json:"reason"`
	FileError string      `json:"file_error"`
}

// EventListener translates mpv notifications on a persistent connection into playback events.
// Property observers are bound to the connection that created them, so the listener
// subscribes and reads on the same connection.
type EventListener struct {
	socketPath string
	source     func() string
	emit       func(playback.Event)

	conn     net.Conn
	duration float64
	done     chan struct{}
	once     sync.Once
	emitting atomic.Bool
}

// NewEventListener creates a listener for the given socket. source reports the URI
// currently loaded, which is stamped on every event.
func NewEventListener(socketPath string, source func() string, emit func(playback.Event)) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		source:     source,
		emit:       emit,
		done:       make(chan struct{}),
	}
}

// Start subscribes to the observed properties and begins the read loop.
func (el *EventListener) Start() error {
	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observed {
		if err := writeCommand(conn, []interface{}{"observe_property", i + 1, name}); err != nil {
			_ = conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	go el.readLoop()

	log.Infof("mpv event listener started on %s", el.socketPath)
	return nil
}

// Close stops the read loop and waits for it to exit. Called while an event is being
// delivered, it returns without waiting; the loop ends once that delivery returns.
// It is safe to call more than once.
func (el *EventListener) Close() error {
	var err error
	el.once.Do(func() {
		if el.conn == nil {
			return
		}
		err = el.conn.Close()
		if el.emitting.Load() {
			return
		}
		<-el.done
	})
	return err
}

func (el *EventListener) readLoop() {
	defer close(el.done)

	scanner := bufio.NewScanner(el.conn)
	for scanner.Scan() {
		el.process(scanner.Bytes())
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Warnf("event listener read error: %v", err)
	}
}

// process dispatches a single newline-delimited message. Replies and unknown events are skipped.
func (el *EventListener) process(line []byte) {
	var msg ipcEvent
	if err := json.Unmarshal(line, &msg); err != nil {
		return
	}

	switch msg.Event {
	case "property-change":
		value, ok := msg.Data.(float64)
		switch msg.Name {
		case "duration":
			el.duration = value
		case "time-pos":
			if ok {
				el.deliver(playback.Event{
					Kind:     playback.TimeUpdate,
					Source:   el.source(),
					Position: value,
					Duration: el.duration,
				})
			}
		}
	case "start-file":
		el.duration = 0
	case "playback-restart":
		el.deliver(playback.Event{Kind: playback.Started, Source: el.source()})
	case "end-file":
		if msg.Reason == "error" {
			el.deliver(playback.Event{
				Kind:   playback.Errored,
				Source: el.source(),
				Err:    fmt.Errorf("mpv: %s", msg.FileError),
			})
		}
	}
}

// deliver hands event to the subscriber on the read goroutine.
func (el *EventListener) deliver(event playback.Event) {
	el.emitting.Store(true)
	defer el.emitting.Store(false)
	el.emit(event)
}
