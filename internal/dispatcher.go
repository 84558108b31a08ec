package moonbridge

import (
	"fmt"
)

// Dispatcher records the thread that owns the native object graph. The
// bridge never enforces it; callers check it before touching objects.
type Dispatcher struct {
	threadID int
}

// NewDispatcher binds a dispatcher to the calling OS thread. Callers should
// hold runtime.LockOSThread for the dispatcher to be meaningful.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{threadID: currentThreadID()}
}

func (d *Dispatcher) ThreadID() int {
	return d.threadID
}

func (d *Dispatcher) CheckAccess() bool {
	return currentThreadID() == d.threadID
}

func (d *Dispatcher) VerifyAccess() error {
	if !d.CheckAccess() {
		return fmt.Errorf("the calling thread %d does not own the object graph, thread %d does", currentThreadID(), d.threadID)
	}
	return nil
}
