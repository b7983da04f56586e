package util

import (
	"sync"

	"github.com/castflow/castflow/logger"
	"go.uber.org/zap"
)

type Task any

// Worker runs a handler over a buffered task channel until stopped. Senders
// use Sender() and may combine it with a select to avoid blocking when the
// queue is full.
type Worker struct {
	name     string
	capacity int
	stop     chan struct{}
	wg       *sync.WaitGroup
	handler  func(Task) error
	taskChan chan Task
}

func NewWorker(name string, wg *sync.WaitGroup, handler func(Task) error, capacity int) *Worker {
	return &Worker{
		name:     name,
		capacity: capacity,
		stop:     make(chan struct{}),
		wg:       wg,
		handler:  handler,
		taskChan: make(chan Task, capacity),
	}
}

func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case task := <-w.taskChan:
				if err := w.handler(task); err != nil {
					logger.Error("error handling task in worker", zap.String("worker", w.name), zap.Error(err))
				}
			case <-w.stop:
				logger.Info("stopping worker", zap.String("worker", w.name))
				return
			}
		}
	}()
}

func (w *Worker) Sender() chan<- Task {
	return w.taskChan
}

func (w *Worker) Name() string {
	return w.name
}

func (w *Worker) Capacity() int {
	return w.capacity
}

func (w *Worker) Stop() {
	w.stop <- struct{}{}
}
