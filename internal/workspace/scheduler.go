package workspace

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tanvi-28/huddle/internal/models"
)

// Scheduler drives the deferred operations: send-later deliveries and
// standup flushes. Tasks are persisted in the snapshot, so a restart only
// loses the in-memory timers; recover re-arms one timer per surviving task.
type Scheduler struct {
	svc *Service

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

func newScheduler(svc *Service) *Scheduler {
	return &Scheduler{
		svc:    svc,
		timers: make(map[string]*time.Timer),
	}
}

// recover re-arms a timer for every persisted task. Overdue tasks fire
// immediately.
func (sc *Scheduler) recover(ctx context.Context) error {
	var tasks []models.Task
	err := sc.svc.store.View(ctx, func(st *models.State) error {
		tasks = append(tasks[:0], st.Tasks...)
		return nil
	})
	if err != nil {
		return err
	}
	for _, t := range tasks {
		sc.arm(t)
	}
	if len(tasks) > 0 {
		sc.svc.log.Info("recovered scheduled tasks", zap.Int("count", len(tasks)))
	}
	return nil
}

// arm starts a timer that fires the task at its due time.
func (sc *Scheduler) arm(t models.Task) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.stopped {
		return
	}

	delay := time.Until(time.Unix(t.DueAt, 0))
	if delay < 0 {
		delay = 0
	}
	id := t.ID
	sc.timers[id] = time.AfterFunc(delay, func() {
		sc.fire(id)
	})
}

// stop cancels every pending timer. Persisted tasks are untouched and fire
// after the next recover.
func (sc *Scheduler) stop() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.stopped = true
	for id, timer := range sc.timers {
		timer.Stop()
		delete(sc.timers, id)
	}
}

// fire re-reads the snapshot, applies the task against the current state,
// and removes the task row. The world may have moved since scheduling: a
// deleted container or a lost membership drops the task instead of
// delivering into it.
func (sc *Scheduler) fire(taskID string) {
	sc.mu.Lock()
	delete(sc.timers, taskID)
	sc.mu.Unlock()

	ctx := context.Background()
	err := sc.svc.store.Update(ctx, func(st *models.State) error {
		idx := -1
		for i := range st.Tasks {
			if st.Tasks[i].ID == taskID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil
		}
		task := st.Tasks[idx]
		st.Tasks = append(st.Tasks[:idx], st.Tasks[idx+1:]...)

		switch task.Kind {
		case models.TaskSendLater:
			sc.deliver(st, task)
		case models.TaskStandupFlush:
			sc.flushStandup(st, task)
		default:
			sc.svc.log.Warn("dropping task of unknown kind",
				zap.String("taskId", task.ID),
				zap.String("kind", task.Kind))
		}
		return nil
	})
	if err != nil {
		sc.svc.log.Error("scheduled task failed",
			zap.String("taskId", taskID),
			zap.Error(err))
	}
}

func (sc *Scheduler) deliver(st *models.State, task models.Task) {
	var c container
	if task.ChannelID != models.None {
		if ch := channelByID(st, task.ChannelID); ch != nil {
			c = channelContainer{ch: ch}
		}
	} else {
		if dm := dmByID(st, task.DMID); dm != nil {
			c = dmContainer{dm: dm}
		}
	}
	if c == nil || !c.isMember(task.AuthorID) {
		sc.svc.log.Warn("dropping deferred send, target or membership gone",
			zap.String("taskId", task.ID),
			zap.Int64("messageId", task.MessageID))
		return
	}

	log := c.log()
	*log = append(*log, models.Message{
		ID:       task.MessageID,
		AuthorID: task.AuthorID,
		Text:     task.Text,
		SentAt:   sc.svc.epoch(),
	})
	sc.svc.notifyTags(st, c, task.AuthorID, task.Text)
}

func (sc *Scheduler) flushStandup(st *models.State, task models.Task) {
	ch := channelByID(st, task.ChannelID)
	if ch == nil {
		sc.svc.log.Warn("dropping standup flush, channel gone",
			zap.String("taskId", task.ID))
		return
	}

	buffer := ch.Standup.Buffer
	ch.Standup = models.Standup{}
	if buffer == "" {
		return
	}

	id := nextMessageID(st)
	ch.Messages = append(ch.Messages, models.Message{
		ID:       id,
		AuthorID: task.AuthorID,
		Text:     buffer,
		SentAt:   sc.svc.epoch(),
	})
	sc.svc.notifyTags(st, channelContainer{ch: ch}, task.AuthorID, buffer)
}
