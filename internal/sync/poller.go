package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/quicktasks/internal/model"
)

// Lister fetches the current task list.
type Lister interface {
	List(ctx context.Context) ([]model.Task, error)
}

// ResultMsg is a tea.Msg sent after each background fetch.
type ResultMsg struct {
	Tasks []model.Task
	Err   error
	At    time.Time
}

// Poller re-fetches the task list on a fixed interval so changes made
// elsewhere (the web page, another terminal) show up without a manual
// refresh.
type Poller struct {
	lister   Lister
	interval time.Duration
	timeout  time.Duration
	resultCh chan ResultMsg
	stopCh   chan struct{}
	mu       gosync.Mutex
	running  bool
	stopped  bool
}

// New creates a Poller. A non-positive interval disables polling; a
// non-positive timeout falls back to the interval.
func New(l Lister, interval, timeout time.Duration) *Poller {
	if timeout <= 0 {
		timeout = interval
	}
	return &Poller{
		lister:   l,
		interval: interval,
		timeout:  timeout,
		resultCh: make(chan ResultMsg, 4),
		stopCh:   make(chan struct{}),
	}
}

// Start launches the polling goroutine and returns a command that waits
// for the first result. It returns nil when polling is disabled or the
// poller is already running or stopped.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running || p.stopped || p.interval <= 0 {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	go p.loop()

	return p.WaitForNextResult()
}

// Stop halts polling. Pending WaitForNextResult commands return nil.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}
	p.stopped = true
	close(p.stopCh)
}

func (p *Poller) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.fetch()
		}
	}
}

func (p *Poller) fetch() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	tasks, err := p.lister.List(ctx)
	p.sendResult(ResultMsg{Tasks: tasks, Err: err, At: time.Now()})
}

// sendResult never blocks; a result is dropped if the UI is behind.
func (p *Poller) sendResult(msg ResultMsg) {
	select {
	case p.resultCh <- msg:
	default:
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next result.
// Call it again after handling each ResultMsg to keep listening.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-p.stopCh:
			return nil
		default:
		}

		select {
		case result := <-p.resultCh:
			return result
		case <-p.stopCh:
			return nil
		}
	}
}
