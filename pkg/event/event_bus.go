// Copyright 2026 AgentDev Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package event

import "sync"

// Event is any in-process notification published on the bus.
type Event interface {
	EventName() string
}

// Handler consumes published events.
type Handler interface {
	Handle(event Event)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(event Event)

func (f HandlerFunc) Handle(event Event) {
	f(event)
}

// Bus is a synchronous in-process event bus. Handlers run inline on the
// publisher's goroutine, so they must not block.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
	}
}

func (eb *Bus) RegisterHandler(eventName string, handler Handler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.handlers[eventName] = append(eb.handlers[eventName], handler)
}

func (eb *Bus) Publish(event Event) {
	eb.mu.RLock()
	handlers := eb.handlers[event.EventName()]
	eb.mu.RUnlock()
	for _, handler := range handlers {
		handler.Handle(event)
	}
}
