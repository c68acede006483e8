package cue

import (
	"errors"
	"testing"
)

func TestQueue_Order(t *testing.T) {
	q := NewQueue(0)

	pushes := []struct {
		payload  map[string]any
		priority int
	}{
		{payload: map[string]any{"id": "a"}, priority: 50},
		{payload: map[string]any{"id": "b", "priority": 90.0}, priority: 90},
		{payload: map[string]any{"id": "c", "priority": "70"}, priority: 70},
		{payload: map[string]any{"id": "d", "priority": 90.0}, priority: 90},
		{payload: map[string]any{"id": "e", "priority": "loud"}, priority: 50},
		{payload: map[string]any{"id": "f", "priority": 10.9}, priority: 10},
	}
	for i, p := range pushes {
		priority, size, err := q.Push(p.payload)
		if err != nil {
			t.Fatalf("Push(%d) error = %v", i, err)
		}
		if priority != p.priority || size != i+1 {
			t.Errorf("Push(%d) = priority %d size %d, want %d %d", i, priority, size, p.priority, i+1)
		}
	}

	var got []string
	for _, it := range q.Items() {
		got = append(got, it.Payload["id"].(string))
	}
	want := []string{"b", "d", "c", "a", "e", "f"}
	if !equalStrings(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	head, ok := q.Pop()
	if !ok || head.Payload["id"] != "b" || q.Len() != 5 {
		t.Errorf("Pop() = %v %v, len %d", head.Payload, ok, q.Len())
	}
}

func TestQueue_Capacity(t *testing.T) {
	q := NewQueue(2)
	q.Push(map[string]any{})
	q.Push(map[string]any{})

	if _, size, err := q.Push(map[string]any{}); !errors.Is(err, ErrQueueFull) || size != 2 {
		t.Errorf("Push() on full queue = size %d err %v", size, err)
	}
}

func TestQueue_PopEmpty(t *testing.T) {
	if _, ok := NewQueue(1).Pop(); ok {
		t.Error("Pop() on empty queue reported ok")
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
