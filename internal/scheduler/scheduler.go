// Package scheduler runs the price capture job on a cron cadence. The job is
// an explicit description (spec, name, function, run bookkeeping); all state
// lives on the Job value, never in package globals.
package scheduler

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled task with its cron registration and run bookkeeping.
type Job struct {
	name   string
	cronID cron.EntryID
	cron   *cron.Cron

	mu      sync.Mutex
	lastRun time.Time
}

// Status describes a job for the status endpoint.
type Status struct {
	Name    string     `json:"name"`
	Running bool       `json:"running"`
	LastRun *time.Time `json:"last_run,omitempty"`
	NextRun time.Time  `json:"next_run"`
}

// New registers fn under the given cron spec and starts the schedule.
func New(spec, name string, fn func()) (*Job, error) {
	c := cron.New()
	job := &Job{name: name, cron: c}

	id, err := c.AddFunc(spec, func() {
		job.mu.Lock()
		job.lastRun = time.Now().UTC()
		job.mu.Unlock()
		fn()
	})
	if err != nil {
		return nil, err
	}

	job.cronID = id
	c.Start()
	return job, nil
}

// Status reports the job's schedule state.
func (j *Job) Status() Status {
	j.mu.Lock()
	lastRun := j.lastRun
	j.mu.Unlock()

	st := Status{
		Name:    j.name,
		Running: true,
		NextRun: j.cron.Entry(j.cronID).Next,
	}
	if !lastRun.IsZero() {
		st.LastRun = &lastRun
	}
	return st
}

// Stop removes the job and stops its cron runner. Safe to call once.
func (j *Job) Stop() {
	j.cron.Remove(j.cronID)
	j.cron.Stop()
}
