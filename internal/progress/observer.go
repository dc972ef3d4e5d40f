package progress

import (
	"fmt"
	"io"
	"math"
	"os"
	"sync"
)

// Observer は Tracker の通知を受け取る。
type Observer interface {
	Publish(Snapshot)
	Done(Snapshot)
}

type NoopObserver struct{}

func (NoopObserver) Publish(Snapshot) {}
func (NoopObserver) Done(Snapshot)    {}

type ObserverFunc func(Snapshot)

func (f ObserverFunc) Publish(s Snapshot) { f(s) }
func (ObserverFunc) Done(Snapshot)        {}

// ShouldShow は --progress / --no-progress と TTY 判定から表示可否を決める。
func ShouldShow(force, no bool) bool {
	if no {
		return false
	}
	if force {
		return true
	}
	return isTTY(os.Stdout) && isTTY(os.Stderr)
}

type ttyObserver struct {
	w  io.Writer
	mu sync.Mutex
}

type lineObserver struct {
	w  io.Writer
	mu sync.Mutex
}

// NewAutoObserver は w が端末なら 1 行を書き換える表示、そうでなければ行単位の表示を返す。
func NewAutoObserver(w io.Writer) Observer {
	if w == nil {
		w = os.Stderr
	}
	if f, ok := w.(*os.File); ok && isTTY(f) {
		return &ttyObserver{w: w}
	}
	return &lineObserver{w: w}
}

func (o *ttyObserver) Publish(s Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, _ = fmt.Fprintf(o.w, "\r\033[K%s", render(s))
}

func (o *ttyObserver) Done(Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, _ = fmt.Fprint(o.w, "\r\033[K")
}

func (o *lineObserver) Publish(s Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, _ = fmt.Fprintln(o.w, render(s))
}

func (o *lineObserver) Done(Snapshot) {}

func render(s Snapshot) string {
	rate := "--/s"
	eta := "--:--:--"
	if !s.Warmup && s.Rate > 0 {
		rate = fmt.Sprintf("%.1f/s", s.Rate)
	}
	if !s.Warmup && s.ETA > 0 {
		total := int(math.Round(s.ETA.Seconds()))
		h := min(total/3600, 99)
		eta = fmt.Sprintf("%02d:%02d:%02d", h, (total%3600)/60, total%60)
	}
	return fmt.Sprintf("[scan] %3d%% %d/%d files %s ETA %s", percent(s.Done, s.Total), s.Done, s.Total, rate, eta)
}

func percent(a, b int) int {
	if b <= 0 {
		if a <= 0 {
			return 0
		}
		return 100
	}
	if a <= 0 {
		return 0
	}
	return min(int(float64(a)*100/float64(b)), 100)
}

func isTTY(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
