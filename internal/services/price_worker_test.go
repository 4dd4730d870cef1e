package services

import (
	"context"
	"testing"
	"time"
)

func TestPriceWorkerQueueRefresh(t *testing.T) {
	worker := NewPriceWorker(nil, NewMarketClient("", "", 2))

	if pos := worker.QueueRefresh(7); pos != 1 {
		t.Errorf("Expected queue position 1, got %d", pos)
	}
	if pos := worker.QueueRefresh(9); pos != 2 {
		t.Errorf("Expected queue position 2, got %d", pos)
	}

	// Re-queueing an item returns its existing position
	if pos := worker.QueueRefresh(7); pos != 1 {
		t.Errorf("Expected existing position 1 for duplicate, got %d", pos)
	}
	if size := worker.GetQueueSize(); size != 2 {
		t.Errorf("Expected queue size 2, got %d", size)
	}
}

func TestPriceWorkerDrainUrgent(t *testing.T) {
	worker := NewPriceWorker(nil, NewMarketClient("", "", 2))
	worker.QueueRefresh(1)
	worker.QueueRefresh(2)
	worker.QueueRefresh(3)

	drained := worker.drainUrgent(2)
	if len(drained) != 2 || drained[0] != 1 || drained[1] != 2 {
		t.Errorf("Expected to drain [1 2], got %v", drained)
	}
	if size := worker.GetQueueSize(); size != 1 {
		t.Errorf("Expected 1 item left in queue, got %d", size)
	}

	// Draining more than queued returns what's there
	drained = worker.drainUrgent(10)
	if len(drained) != 1 || drained[0] != 3 {
		t.Errorf("Expected to drain [3], got %v", drained)
	}
}

func TestPriceWorkerStartDisabledReturns(t *testing.T) {
	worker := NewPriceWorker(nil, NewMarketClient("", "", 2))

	done := make(chan struct{})
	go func() {
		worker.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start should return immediately when no valuation backend is configured")
	}
}

func TestPriceWorkerStatus(t *testing.T) {
	worker := NewPriceWorker(nil, NewMarketClient("", "", 2))
	worker.QueueRefresh(5)

	status := worker.GetStatus()
	if status.MarketEnabled {
		t.Error("Expected market disabled in status")
	}
	if status.QueueSize != 1 {
		t.Errorf("Expected queue size 1 in status, got %d", status.QueueSize)
	}
	if status.BatchSize != defaultPriceBatchSize {
		t.Errorf("Expected batch size %d, got %d", defaultPriceBatchSize, status.BatchSize)
	}
	if !status.LastUpdateTime.IsZero() || !status.NextUpdateTime.IsZero() {
		t.Error("Expected zero update times before the first batch")
	}
}
