package progress

import (
	"math"
	"sync"
	"time"
)

// Snapshot は進捗の瞬間値。
type Snapshot struct {
	Total   int           `json:"total"`
	Done    int           `json:"done"`
	Rate    float64       `json:"rate_per_sec"`
	ETA     time.Duration `json:"eta"`
	Warmup  bool          `json:"warmup"`
	Elapsed time.Duration `json:"elapsed"`
}

// Remaining は残りファイル数を返す。
func (s Snapshot) Remaining() int {
	if s.Done >= s.Total {
		return 0
	}
	return s.Total - s.Done
}

// Config は Tracker の平滑化と通知間隔の設定。
type Config struct {
	Alpha          float64
	WarmupSamples  int
	NotifyInterval time.Duration
}

// DefaultConfig は CLI 向けの既定値を返す。
func DefaultConfig() Config {
	return Config{Alpha: 0.2, WarmupSamples: 8, NotifyInterval: 200 * time.Millisecond}
}

// Tracker はファイル単位の進捗と処理速度 (EMA) を記録する。並行に呼び出してよい。
type Tracker struct {
	mu         sync.Mutex
	cfg        Config
	start      time.Time
	lastUpdate time.Time
	lastNotify time.Time
	total      int
	done       int
	ema        float64
}

// NewTracker は total 件を処理する Tracker を作る。cfg のゼロ値は既定値で補う。
func NewTracker(total int, cfg Config) *Tracker {
	base := DefaultConfig()
	if cfg.Alpha > 0 {
		base.Alpha = cfg.Alpha
	}
	if cfg.WarmupSamples > 0 {
		base.WarmupSamples = cfg.WarmupSamples
	}
	if cfg.NotifyInterval > 0 {
		base.NotifyInterval = cfg.NotifyInterval
	}
	now := time.Now()
	return &Tracker{cfg: base, start: now, lastUpdate: now, total: total}
}

// Advance は delta 件の完了を記録し、通知すべきかどうかを返す。
func (t *Tracker) Advance(delta int) (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	if delta <= 0 {
		return t.snapshotLocked(now), false
	}
	dt := now.Sub(t.lastUpdate).Seconds()
	if dt <= 0 {
		dt = 1e-6
	}
	t.done += delta
	instant := float64(delta) / dt
	if math.IsNaN(instant) || math.IsInf(instant, 0) {
		instant = 0
	}
	if t.ema == 0 {
		t.ema = instant
	} else {
		t.ema = t.cfg.Alpha*instant + (1-t.cfg.Alpha)*t.ema
	}
	t.lastUpdate = now
	snap := t.snapshotLocked(now)
	notify := now.Sub(t.lastNotify) >= t.cfg.NotifyInterval || snap.Remaining() == 0
	if notify {
		t.lastNotify = now
	}
	return snap, notify
}

// Complete は残りを完了扱いにした最終スナップショットを返す。
func (t *Tracker) Complete() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done < t.total {
		t.done = t.total
	}
	return t.snapshotLocked(time.Now())
}

func (t *Tracker) snapshotLocked(now time.Time) Snapshot {
	snap := Snapshot{
		Total:   t.total,
		Done:    t.done,
		Rate:    t.ema,
		Warmup:  t.done < t.cfg.WarmupSamples,
		Elapsed: now.Sub(t.start),
	}
	if !snap.Warmup && t.ema > 0 {
		snap.ETA = time.Duration(float64(snap.Remaining()) / t.ema * float64(time.Second))
	}
	return snap
}
