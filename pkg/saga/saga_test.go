package saga

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestSaga_Execute_Success 测试所有步骤成功的场景
func TestSaga_Execute_Success(t *testing.T) {
	executed := make([]string, 0)

	sg := NewSaga(5*time.Second, nil)

	sg.AddStep("保存订单快照",
		func(ctx context.Context) error {
			executed = append(executed, "保存订单快照")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "删除订单快照")
			return nil
		},
	)

	sg.AddStep("清空购物车",
		func(ctx context.Context) error {
			executed = append(executed, "清空购物车")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "恢复购物车")
			return nil
		},
	)

	err := sg.Execute(context.Background())
	if err != nil {
		t.Fatalf("Saga执行失败: %v", err)
	}

	if len(executed) != 2 {
		t.Errorf("期望执行2个步骤，实际执行%d个", len(executed))
	}

	if executed[0] != "保存订单快照" || executed[1] != "清空购物车" {
		t.Errorf("执行顺序错误: %v", executed)
	}
}

// TestSaga_Execute_FailureAndCompensate 测试步骤失败触发逆序补偿
func TestSaga_Execute_FailureAndCompensate(t *testing.T) {
	executed := make([]string, 0)

	sg := NewSaga(5*time.Second, nil)

	sg.AddStep("保存订单快照",
		func(ctx context.Context) error {
			executed = append(executed, "保存订单快照")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "删除订单快照")
			return nil
		},
	)

	sg.AddStep("发布订单事件",
		func(ctx context.Context) error {
			executed = append(executed, "发布订单事件")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "撤销订单事件")
			return nil
		},
	)

	sg.AddStep("清空购物车",
		func(ctx context.Context) error {
			return errors.New("存储不可用")
		},
		nil,
	)

	err := sg.Execute(context.Background())
	if err == nil {
		t.Fatal("期望Saga失败")
	}

	// 正向2步 + 逆序补偿2步
	want := []string{"保存订单快照", "发布订单事件", "撤销订单事件", "删除订单快照"}
	if len(executed) != len(want) {
		t.Fatalf("期望执行%d步，实际%d步: %v", len(want), len(executed), executed)
	}
	for i := range want {
		if executed[i] != want[i] {
			t.Errorf("第%d步期望%s，实际%s", i, want[i], executed[i])
		}
	}
}

// TestSaga_Execute_CompensateFailureContinues 补偿失败不中断后续补偿
func TestSaga_Execute_CompensateFailureContinues(t *testing.T) {
	compensated := make([]string, 0)

	sg := NewSaga(5*time.Second, nil)

	sg.AddStep("步骤一",
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error {
			compensated = append(compensated, "补偿一")
			return nil
		},
	)
	sg.AddStep("步骤二",
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error {
			compensated = append(compensated, "补偿二")
			return errors.New("补偿失败")
		},
	)
	sg.AddStep("步骤三",
		func(ctx context.Context) error { return errors.New("失败") },
		nil,
	)

	if err := sg.Execute(context.Background()); err == nil {
		t.Fatal("期望Saga失败")
	}

	// 补偿二失败后仍应执行补偿一
	if len(compensated) != 2 || compensated[0] != "补偿二" || compensated[1] != "补偿一" {
		t.Errorf("补偿顺序错误: %v", compensated)
	}
}

// TestSaga_Execute_Timeout 测试整体超时触发补偿
func TestSaga_Execute_Timeout(t *testing.T) {
	compensated := false

	sg := NewSaga(30*time.Millisecond, nil)

	sg.AddStep("慢步骤",
		func(ctx context.Context) error {
			time.Sleep(60 * time.Millisecond)
			return nil
		},
		func(ctx context.Context) error {
			compensated = true
			return nil
		},
	)
	sg.AddStep("不应执行",
		func(ctx context.Context) error {
			t.Error("超时后不应继续执行步骤")
			return nil
		},
		nil,
	)

	err := sg.Execute(context.Background())
	if err == nil {
		t.Fatal("期望超时错误")
	}

	if !compensated {
		t.Error("超时后应补偿已完成的步骤")
	}
}
