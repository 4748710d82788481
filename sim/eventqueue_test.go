package sim

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventQueue", func() {
	var (
		queue *EventQueueImpl
	)

	BeforeEach(func() {
		queue = NewEventQueue()
	})

	It("should pop events in time order", func() {
		for i := 0; i < 100; i++ {
			evt := MakeTickEvent(nil, VTimeInSec(rand.Float64()))
			queue.Push(evt)
		}

		now := VTimeInSec(0)
		for queue.Len() > 0 {
			evt := queue.Pop()
			Expect(evt.Time()).To(BeNumerically(">=", now))
			now = evt.Time()
		}
	})

	It("should peek without removing", func() {
		evt := MakeTickEvent(nil, 1.0)
		queue.Push(evt)

		Expect(queue.Peek().Time()).To(Equal(VTimeInSec(1.0)))
		Expect(queue.Len()).To(Equal(1))
	})
})
