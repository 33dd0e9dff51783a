package loop

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/pkg/errors"

	"github.com/mogaika/spacescene/scene"
	"github.com/mogaika/spacescene/stage"
)

type State int

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	ErrAlreadyRunning = errors.New("frame loop already running")
	ErrStopped        = errors.New("frame loop stopped")
)

// Event is applied on loop goroutine between frames
type Event func(s *stage.Stage)

type Stats struct {
	Frames uint64
	Faults uint64
	Events uint64
}

/*
Driver advances the stage once per refresh signal. All stage mutation,
including events from other goroutines, happens on the goroutine
running Run.
*/
type Driver struct {
	stage  *stage.Stage
	events chan Event

	lock   sync.Mutex
	state  State
	stats  Stats
	cancel context.CancelFunc
}

func NewDriver(s *stage.Stage) *Driver {
	return &Driver{
		stage:  s,
		events: make(chan Event, 64),
	}
}

func (d *Driver) State() State {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.state
}

func (d *Driver) Stats() Stats {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.stats
}

// Tick performs one frame: spin torus, orbit lights, spin moon, sync controls, render
func (d *Driver) Tick() error {
	s := d.stage
	anim := s.Animation()

	s.Torus.RotateX(anim.TorusRate[0])
	s.Torus.RotateY(anim.TorusRate[1])
	s.Torus.RotateZ(anim.TorusRate[2])

	axis := anim.NormalizedAxis()
	for _, light := range s.Lights {
		if err := scene.RotateAboutPoint(light, anim.Pivot.Vec(), axis, anim.LightRate, scene.Local); err != nil {
			return errors.Wrap(err, "light orbit")
		}
	}

	s.Moon.RotateX(anim.MoonRate)

	s.Controls.Update()

	if err := s.Renderer.Render(s.Root, s.Camera); err != nil {
		return errors.Wrap(err, "render")
	}
	return nil
}

// guardedTick keeps loop alive on error or panic
func (d *Driver) guardedTick() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[loop] frame panic: %v", r)
			d.countFault()
		}
	}()
	err := d.Tick()

	d.lock.Lock()
	d.stats.Frames++
	d.lock.Unlock()

	if err != nil {
		log.Printf("[loop] frame error: %v", err)
		d.countFault()
	}
}

func (d *Driver) countFault() {
	d.lock.Lock()
	d.stats.Faults++
	d.lock.Unlock()
}

// Step runs n frames on caller goroutine, applying queued events first
func (d *Driver) Step(n int) {
	for i := 0; i < n; i++ {
		d.drainEvents()
		d.guardedTick()
	}
}

// Post queues event for loop goroutine. Returns false if queue is full
func (d *Driver) Post(e Event) bool {
	select {
	case d.events <- e:
		return true
	default:
		log.Printf("[loop] event queue full, dropping event")
		return false
	}
}

// Do runs fn on loop goroutine and waits for it
func (d *Driver) Do(ctx context.Context, fn Event) error {
	done := make(chan struct{})
	if !d.Post(func(s *stage.Stage) {
		defer close(done)
		fn(s)
	}) {
		return errors.New("event queue full")
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Driver) apply(e Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[loop] event panic: %v", r)
			d.countFault()
		}
	}()
	e(d.stage)
	d.lock.Lock()
	d.stats.Events++
	d.lock.Unlock()
}

func (d *Driver) drainEvents() {
	for {
		select {
		case e := <-d.events:
			d.apply(e)
		default:
			return
		}
	}
}

/*
Run ticks once per value from refresh until ctx is cancelled, Stop is
called or refresh is closed. Driver can run only once.
*/
func (d *Driver) Run(ctx context.Context, refresh <-chan struct{}) error {
	d.lock.Lock()
	switch d.state {
	case Running:
		d.lock.Unlock()
		return ErrAlreadyRunning
	case Stopped:
		d.lock.Unlock()
		return ErrStopped
	}
	ctx, d.cancel = context.WithCancel(ctx)
	d.state = Running
	d.lock.Unlock()

	log.Printf("[loop] running")
	defer func() {
		d.lock.Lock()
		d.state = Stopped
		d.cancel()
		d.lock.Unlock()
		log.Printf("[loop] stopped after %d frames", d.Stats().Frames)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-d.events:
			d.apply(e)
		case _, ok := <-refresh:
			if !ok {
				return nil
			}
			d.drainEvents()
			d.guardedTick()
		}
	}
}

func (d *Driver) Stop() {
	d.lock.Lock()
	defer d.lock.Unlock()
	switch d.state {
	case Running:
		d.cancel()
	case Idle:
		d.state = Stopped
	}
}
