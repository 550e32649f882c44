package utils

import (
	"github.com/zecpool/cloud-miner/model"
)

type task struct {
	handler   model.Handler
	situation *model.Situation
	onError   func(error)
}

// Spreader fans incoming bot requests out to a fixed pool of workers so
// a slow handler cannot stall the update loop.
type Spreader struct {
	queue chan task
}

func NewSpreader(workers int) *Spreader {
	s := &Spreader{
		queue: make(chan task, workers*2),
	}

	for i := 0; i < workers; i++ {
		go s.work()
	}

	return s
}

func (s *Spreader) ServeHandler(handler model.Handler, situation *model.Situation, onError func(error)) {
	s.queue <- task{
		handler:   handler,
		situation: situation,
		onError:   onError,
	}
}

func (s *Spreader) work() {
	for t := range s.queue {
		if err := t.handler.Serve(t.situation); err != nil {
			t.onError(err)
		}
	}
}
