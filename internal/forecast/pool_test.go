// internal/forecast/pool_test.go
package forecast

import (
	"context"
	"testing"
	"time"
)

func makeTasks(n, days int) []Task {
	tasks := make([]Task, 0, n)
	for i := 0; i < n; i++ {
		obs := make([]Observation, days)
		for d := 0; d < days; d++ {
			obs[d] = Observation{
				Date:  seriesStart.AddDate(0, 0, d),
				Units: float64(2 + i + d%3),
			}
		}
		tasks = append(tasks, Task{
			SKUID:        fmtSKU(i),
			SKUName:      "Product " + fmtSKU(i),
			Observations: obs,
		})
	}
	return tasks
}

func fmtSKU(i int) string {
	return string(rune('A' + i))
}

func TestOrchestratorForecastAll(t *testing.T) {
	pool := NewPool(2)
	defer pool.Close()
	o := NewOrchestrator(pool, 10*time.Second)

	tasks := makeTasks(5, 20)
	results := o.ForecastAll(context.Background(), tasks, 7)

	if len(results) != len(tasks) {
		t.Fatalf("got %d results, want %d", len(results), len(tasks))
	}
	for _, task := range tasks {
		res, ok := results[task.SKUID]
		if !ok {
			t.Errorf("missing result for %s", task.SKUID)
			continue
		}
		if len(res.Points) != 7 {
			t.Errorf("%s: %d points, want 7", task.SKUID, len(res.Points))
		}
		if res.SKUName != task.SKUName {
			t.Errorf("%s: name %q", task.SKUID, res.SKUName)
		}
	}
}

func TestOrchestratorDropsFailedProducts(t *testing.T) {
	pool := NewPool(2)
	defer pool.Close()
	o := NewOrchestrator(pool, 10*time.Second)

	tasks := makeTasks(3, 20)
	tasks[1].Observations = nil // empty series fails, the batch survives

	results := o.ForecastAll(context.Background(), tasks, 7)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if _, ok := results[tasks[1].SKUID]; ok {
		t.Error("failed product should be absent from results")
	}
}

func TestOrchestratorSequentialFallback(t *testing.T) {
	pool := NewPool(2)
	pool.Close() // dispatch will fail immediately
	o := NewOrchestrator(pool, 10*time.Second)

	tasks := makeTasks(4, 20)
	results := o.ForecastAll(context.Background(), tasks, 7)
	if len(results) != len(tasks) {
		t.Fatalf("sequential fallback produced %d results, want %d", len(results), len(tasks))
	}
}

func TestOrchestratorEmptyBatch(t *testing.T) {
	pool := NewPool(1)
	defer pool.Close()
	o := NewOrchestrator(pool, time.Second)
	if got := o.ForecastAll(context.Background(), nil, 7); len(got) != 0 {
		t.Errorf("got %d results for empty batch", len(got))
	}
}

func TestPoolSubmitAfterClose(t *testing.T) {
	pool := NewPool(1)
	pool.Close()
	err := pool.Submit(context.Background(), func() {})
	if err != ErrPoolClosed {
		t.Errorf("err = %v, want ErrPoolClosed", err)
	}
	pool.Close() // second close is a no-op
}

func TestPoolReusedAcrossBatches(t *testing.T) {
	pool := NewPool(2)
	defer pool.Close()
	o := NewOrchestrator(pool, 10*time.Second)

	for batch := 0; batch < 3; batch++ {
		results := o.ForecastAll(context.Background(), makeTasks(3, 15), 5)
		if len(results) != 3 {
			t.Fatalf("batch %d: got %d results, want 3", batch, len(results))
		}
	}
}
