/*
Copyright 2025 The Request Pod Autoscaler Authors.

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

// Package events provides the ordered in-memory scaling event stream, recording every replica count change the
// reconciler applies so it can be consumed over the API and mirrored to the log.
package events

import (
	"sync"

	"github.com/request-pod-autoscaler/request-pod-autoscaler/scale"
)

// DefaultCapacity is the number of scaling events retained before the oldest are dropped
const DefaultCapacity = 256

// Recorder provides methods for recording and listing scaling events
type Recorder interface {
	Record(event scale.Event)
	List() []scale.Event
}

// Stream is a bounded, ordered scaling event stream. The stream is read by the API while the controller loop
// writes to it, so access is guarded by a mutex
type Stream struct {
	mu       sync.Mutex
	capacity int
	events   []scale.Event
}

// NewStream returns an event stream retaining up to capacity events, falling back to the default capacity if a
// non-positive capacity is provided
func NewStream(capacity int) *Stream {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Stream{
		capacity: capacity,
	}
}

// Record appends the event to the stream, dropping the oldest event if the stream is at capacity
func (s *Stream) Record(event scale.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if len(s.events) > s.capacity {
		s.events = s.events[len(s.events)-s.capacity:]
	}
}

// List returns a copy of the recorded events in the order they occurred
func (s *Stream) List() []scale.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	listed := make([]scale.Event, len(s.events))
	copy(listed, s.events)
	return listed
}
