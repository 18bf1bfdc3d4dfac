package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

// TestCircuitBreaker_ClosedState 测试关闭状态（正常放行）
func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb := NewCircuitBreaker("openlibrary", Config{
		MaxRequests: 2,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	// 连续成功请求不改变状态
	for i := 0; i < 10; i++ {
		err := cb.Execute(func() error {
			return nil
		})
		if err != nil {
			t.Fatalf("期望成功，实际失败: %v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("期望状态为CLOSED，实际%s", cb.State())
	}

	counts := cb.Counts()
	if counts.TotalSuccesses != 10 {
		t.Errorf("期望成功10次，实际%d次", counts.TotalSuccesses)
	}
}

// TestCircuitBreaker_OpenState 测试打开状态（上游持续不可达后熔断）
func TestCircuitBreaker_OpenState(t *testing.T) {
	cb := NewCircuitBreaker("openlibrary", Config{
		MaxRequests: 2,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	// 连续3次失败触发熔断
	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error {
			return errors.New("dial tcp: connection refused")
		})
	}

	if cb.State() != StateOpen {
		t.Errorf("期望状态为OPEN，实际%s", cb.State())
	}

	// 熔断后请求应该快速失败，不调用上游
	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})

	if err != ErrOpenState {
		t.Errorf("期望返回ErrOpenState，实际%v", err)
	}

	if called {
		t.Error("熔断器打开时不应该调用上游")
	}
}

// TestCircuitBreaker_HalfOpenRecovery 测试半开状态探测恢复
func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker("googlebooks", Config{
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     50 * time.Millisecond, // 缩短熔断期便于测试
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 2
		},
	})

	// 触发熔断
	for i := 0; i < 2; i++ {
		_ = cb.Execute(func() error {
			return errors.New("timeout")
		})
	}
	if cb.State() != StateOpen {
		t.Fatalf("期望状态为OPEN，实际%s", cb.State())
	}

	// 等待熔断期结束，进入半开状态
	time.Sleep(60 * time.Millisecond)
	if cb.State() != StateHalfOpen {
		t.Fatalf("期望状态为HALF_OPEN，实际%s", cb.State())
	}

	// 探测成功，熔断器关闭
	err := cb.Execute(func() error {
		return nil
	})
	if err != nil {
		t.Fatalf("半开状态应放行探测请求: %v", err)
	}

	if cb.State() != StateClosed {
		t.Errorf("探测成功后期望状态为CLOSED，实际%s", cb.State())
	}
}

// TestCircuitBreaker_StateChangeCallback 测试状态变化回调
func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	cb := NewCircuitBreaker("openlibrary", Config{
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 1
		},
	})

	var from, to State
	cb.SetStateChangeCallback(func(name string, f State, t State) {
		from, to = f, t
	})

	_ = cb.Execute(func() error {
		return errors.New("unreachable")
	})

	if from != StateClosed || to != StateOpen {
		t.Errorf("期望回调CLOSED→OPEN，实际%s→%s", from, to)
	}
}
