package sim

import (
	"cmp"
	"slices"
	"time"
)

// JobID identifies a scheduled job.
type JobID uint64

type job struct {
	id     JobID
	due    time.Duration
	period time.Duration // 0 = one-shot
	fn     func()
}

// Scheduler runs callbacks at points in simulated time.
// It is driven synchronously by Advance from inside a step, so callbacks
// never run concurrently with the simulation.
type Scheduler struct {
	now  time.Duration
	next JobID
	jobs map[JobID]*job
}

// NewScheduler creates an empty scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{jobs: make(map[JobID]*job)}
}

// Now returns the time of the last Advance.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After runs fn once, delay after the current time.
func (s *Scheduler) After(delay time.Duration, fn func()) JobID {
	return s.add(max(delay, 0), 0, fn)
}

// Every runs fn every period, first one period from now.
func (s *Scheduler) Every(period time.Duration, fn func()) JobID {
	if period <= 0 {
		panic("sim: scheduler period must be positive")
	}
	return s.add(period, period, fn)
}

func (s *Scheduler) add(delay, period time.Duration, fn func()) JobID {
	s.next++
	s.jobs[s.next] = &job{id: s.next, due: s.now + delay, period: period, fn: fn}
	return s.next
}

// Cancel removes a job. It reports whether the job was pending.
func (s *Scheduler) Cancel(id JobID) bool {
	if _, ok := s.jobs[id]; !ok {
		return false
	}
	delete(s.jobs, id)
	return true
}

// CancelAll removes every pending job.
func (s *Scheduler) CancelAll() {
	clear(s.jobs)
}

// Pending returns the number of scheduled jobs.
func (s *Scheduler) Pending() int {
	return len(s.jobs)
}

// Advance moves the clock to now and runs every job due by then, ordered
// by due time and then by registration. A repeating job fires at most once
// per call; after a stall it resumes one period after now instead of
// catching up. Jobs added by callbacks run on a later Advance.
func (s *Scheduler) Advance(now time.Duration) int {
	if now < s.now {
		return 0
	}
	s.now = now

	var due []*job
	for _, j := range s.jobs {
		if j.due <= now {
			due = append(due, j)
		}
	}
	slices.SortFunc(due, func(a, b *job) int {
		if c := cmp.Compare(a.due, b.due); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})

	fired := 0
	for _, j := range due {
		// An earlier callback may have cancelled this job.
		if _, ok := s.jobs[j.id]; !ok {
			continue
		}
		if j.period == 0 {
			delete(s.jobs, j.id)
		} else {
			j.due += j.period
			if j.due <= now {
				j.due = now + j.period
			}
		}
		j.fn()
		fired++
	}
	return fired
}
