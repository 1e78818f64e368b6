package ai

import (
	"context"
	"sync"
	"testing"
)

func TestUsageMeter(t *testing.T) {
	m := NewUsageMeter()

	m.Record(100)
	m.Record(50)
	m.Record(-5) // ignored

	if m.Total() != 150 {
		t.Errorf("Total() = %d, want 150", m.Total())
	}
	if m.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", m.Calls())
	}
}

func TestUsageMeterConcurrent(t *testing.T) {
	m := NewUsageMeter()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Record(1)
			}
		}()
	}
	wg.Wait()

	if m.Total() != 2000 {
		t.Errorf("Total() = %d, want 2000", m.Total())
	}
}

func TestMockProviderScript(t *testing.T) {
	mock := &MockProvider{Script: []ScriptStep{
		{Response: "first"},
		{Response: "second"},
	}}

	req := CompletionRequest{Messages: []Message{{Role: "user", Content: "hi"}}}

	for _, want := range []string{"first", "second", "second"} {
		resp, err := mock.Complete(context.Background(), req)
		if err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if resp.Content != want {
			t.Errorf("content = %q, want %q", resp.Content, want)
		}
	}
	if mock.Calls() != 3 {
		t.Errorf("Calls() = %d, want 3", mock.Calls())
	}
}
