package dataset

import (
	"context"
	"sync/atomic"
	"time"

	"wilayah/internal/logger"
	"wilayah/internal/metrics"
	"wilayah/internal/region"
)

// Status：数据集在进程内的状态
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Snapshot：某一时刻的数据集状态，读取后不可变
type Snapshot struct {
	Status   Status
	Dataset  *region.Dataset
	Err      error
	LoadedAt time.Time
}

// 文档注释：数据集快照持有器
// 背景：通过 atomic.Pointer 提供无锁读取与整体切换；每个请求只读取一次快照，请求内数据集不变。
// 约束：首次加载失败为终止状态（不自动重试）；定时刷新只在已就绪时进行，刷新失败保留旧快照。
type Holder struct {
	v atomic.Pointer[Snapshot]
}

// NewHolder 返回处于 loading 状态的持有器
func NewHolder() *Holder {
	h := &Holder{}
	h.v.Store(&Snapshot{Status: StatusLoading})
	return h
}

func (h *Holder) Snapshot() *Snapshot { return h.v.Load() }

// Load 执行一次加载并更新快照；返回加载错误（已就绪时的失败不改变快照）
func (h *Holder) Load(ctx context.Context, p Provider) error {
	l := logger.L()
	kind := p.Kind()
	t0 := time.Now()
	ds, err := p.Load(ctx)
	metrics.DatasetLoadDurationMs.WithLabelValues(kind).Observe(float64(time.Since(t0).Milliseconds()))
	if err != nil {
		metrics.DatasetLoadsTotal.WithLabelValues(kind, "error").Inc()
		cur := h.v.Load()
		if cur.Status == StatusReady {
			l.Error("dataset_refresh_error", "kind", kind, "err", err)
			return err
		}
		l.Error("dataset_load_error", "kind", kind, "err", err)
		h.v.Store(&Snapshot{Status: StatusFailed, Err: err, LoadedAt: time.Now()})
		return err
	}
	metrics.DatasetLoadsTotal.WithLabelValues(kind, "ok").Inc()
	np, nr, nd := ds.Counts()
	metrics.DatasetEntities.WithLabelValues("province").Set(float64(np))
	metrics.DatasetEntities.WithLabelValues("regency").Set(float64(nr))
	metrics.DatasetEntities.WithLabelValues("district").Set(float64(nd))
	l.Info("dataset_load_ok", "kind", kind, "provinces", np, "regencies", nr, "districts", nd, "duration_ms", time.Since(t0).Milliseconds())
	h.v.Store(&Snapshot{Status: StatusReady, Dataset: ds, LoadedAt: time.Now()})
	return nil
}

// StartRefresh 按固定间隔重新加载，ctx 取消后退出；every<=0 时不启动
func (h *Holder) StartRefresh(ctx context.Context, p Provider, every, timeout time.Duration) {
	if every <= 0 {
		return
	}
	go func() {
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
			if h.Snapshot().Status != StatusReady {
				continue
			}
			lctx, cancel := withTimeout(ctx, timeout)
			_ = h.Load(lctx, p)
			cancel()
		}
	}()
}

// withTimeout 在 timeout<=0 时不设超时
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
