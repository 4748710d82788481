package sdram

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sdramctrl/sdram/internal/ctrl"
	"github.com/sarchlab/sdramctrl/sim"
)

type fakeTimeTeller struct {
	now sim.VTimeInSec
}

func (t *fakeTimeTeller) CurrentTime() sim.VTimeInSec {
	return t.now
}

type fakeRecorder struct {
	tables  []string
	entries map[string][]any
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{entries: make(map[string][]any)}
}

func (r *fakeRecorder) CreateTable(tableName string, _ any) {
	r.tables = append(r.tables, tableName)
}

func (r *fakeRecorder) InsertData(tableName string, entry any) {
	r.entries[tableName] = append(r.entries[tableName], entry)
}

func (r *fakeRecorder) ListTables() []string {
	return r.tables
}

func (r *fakeRecorder) Flush() {
}

func (r *fakeRecorder) Close() {
}

var _ = Describe("CommandTracer", func() {
	var (
		teller   *fakeTimeTeller
		recorder *fakeRecorder
		tracer   *CommandTracer
	)

	BeforeEach(func() {
		teller = &fakeTimeTeller{}
		recorder = newFakeRecorder()
		tracer = NewCommandTracer(teller, recorder)
	})

	It("should create the command table", func() {
		Expect(recorder.tables).To(ContainElement("sdram_commands"))
	})

	It("should record commands with their wire encoding", func() {
		teller.now = 1e-9
		tracer.Func(sim.HookCtx{
			Pos: HookPosCommandIssue,
			Item: ctrl.BusOut{
				Command: ctrl.CommandActive,
				Bank:    2,
				Addr:    0x1234,
			},
		})

		entries := recorder.entries["sdram_commands"]
		Expect(entries).To(HaveLen(1))

		entry := entries[0].(commandTableEntry)
		Expect(entry.Command).To(Equal("ACTIVE"))
		Expect(entry.Wire).To(Equal(uint8(0b0011)))
		Expect(entry.Bank).To(Equal(uint8(2)))
		Expect(entry.Addr).To(Equal(uint16(0x1234)))
		Expect(entry.Time).To(BeNumerically("~", 1e-9, 1e-12))
	})

	It("should ignore other hook positions", func() {
		tracer.Func(sim.HookCtx{Pos: sim.HookPosBeforeEvent})

		Expect(recorder.entries["sdram_commands"]).To(BeEmpty())
	})
})
