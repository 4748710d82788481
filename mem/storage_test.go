package mem

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Storage", func() {
	var storage *Storage

	BeforeEach(func() {
		storage = NewStorage(1 << 24)
	})

	It("should read zeros from untouched memory", func() {
		data, err := storage.Read(0x1000, 4)

		Expect(err).To(BeNil())
		Expect(data).To(Equal([]byte{0, 0, 0, 0}))
	})

	It("should read what was written", func() {
		err := storage.Write(0x2000, []byte{1, 2, 3, 4})
		Expect(err).To(BeNil())

		data, err := storage.Read(0x2000, 4)

		Expect(err).To(BeNil())
		Expect(data).To(Equal([]byte{1, 2, 3, 4}))
	})

	It("should access data across unit boundaries", func() {
		err := storage.Write(4094, []byte{1, 2, 3, 4})
		Expect(err).To(BeNil())

		data, err := storage.Read(4094, 4)

		Expect(err).To(BeNil())
		Expect(data).To(Equal([]byte{1, 2, 3, 4}))
	})

	It("should report an error when accessing beyond the capacity", func() {
		_, err := storage.Read(1<<24, 4)
		Expect(err).NotTo(BeNil())

		err = storage.Write(1<<24, []byte{1})
		Expect(err).NotTo(BeNil())
	})
})
