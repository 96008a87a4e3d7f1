package shell

import (
	"errors"
	"fmt"
)

var ErrDuplicateJob = errors.New("job already registered")

// JobRecord is a background process and the command line that started it.
type JobRecord struct {
	PID         int
	CommandLine string
}

type jobSlot struct {
	record JobRecord
	live   bool
	// reaped by the launcher's immediate check; the poller reports it next
	exited bool
}

// Registry keeps background jobs in launch order. Removed jobs leave a
// tombstone until enough accumulate to compact the slots.
type Registry struct {
	slots []jobSlot
	index map[int]int
	live  int
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[int]int)}
}

func (r *Registry) Add(pid int, commandLine string) error {
	if _, ok := r.index[pid]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateJob, pid)
	}
	r.index[pid] = len(r.slots)
	r.slots = append(r.slots, jobSlot{
		record: JobRecord{PID: pid, CommandLine: commandLine},
		live:   true,
	})
	r.live++
	return nil
}

// Remove drops the job for pid and reports whether one was registered.
func (r *Registry) Remove(pid int) bool {
	i, ok := r.index[pid]
	if !ok {
		return false
	}
	delete(r.index, pid)
	r.slots[i] = jobSlot{}
	r.live--

	if tombstones := len(r.slots) - r.live; tombstones > r.live {
		r.compact()
	}
	return true
}

func (r *Registry) List() []JobRecord {
	jobs := make([]JobRecord, 0, r.live)
	for _, slot := range r.slots {
		if slot.live {
			jobs = append(jobs, slot.record)
		}
	}
	return jobs
}

func (r *Registry) Len() int {
	return r.live
}

func (r *Registry) markExited(pid int) bool {
	i, ok := r.index[pid]
	if !ok {
		return false
	}
	r.slots[i].exited = true
	return true
}

func (r *Registry) firstExited() (int, bool) {
	for _, slot := range r.slots {
		if slot.live && slot.exited {
			return slot.record.PID, true
		}
	}
	return 0, false
}

func (r *Registry) compact() {
	n := len(r.slots)
	kept := r.slots[:0]
	for _, slot := range r.slots {
		if !slot.live {
			continue
		}
		r.index[slot.record.PID] = len(kept)
		kept = append(kept, slot)
	}
	clear(r.slots[len(kept):n])
	r.slots = kept
}
