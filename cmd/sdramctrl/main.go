// The sdramctrl command runs a random read and write workload against the
// SDRAM memory controller and reports how long the workload takes in
// simulated time.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sarchlab/sdramctrl/memaccessagent"
	"github.com/sarchlab/sdramctrl/sdram"
	"github.com/sarchlab/sdramctrl/sim"
	"github.com/sarchlab/sdramctrl/sim/directconnection"
	"github.com/sarchlab/sdramctrl/simulation"
	"github.com/sarchlab/sdramctrl/tracing"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var rootCmd = &cobra.Command{
	Use:   "sdramctrl",
	Short: "Simulate an SDRAM memory controller cycle by cycle.",
	Long: `sdramctrl simulates an SDRAM memory controller cycle by cycle. ` +
		`It connects a traffic generating agent to the controller, runs the ` +
		`requested number of read and write accesses, and reports the ` +
		`simulated time that the workload takes.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a random read and write workload.",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	// A .env file can override the defaults of the flags.
	_ = godotenv.Load()

	runCmd.Flags().Int("num-reads", envInt("SDRAMCTRL_NUM_READS", 10000),
		"number of read accesses to issue")
	runCmd.Flags().Int("num-writes", envInt("SDRAMCTRL_NUM_WRITES", 10000),
		"number of write accesses to issue")
	runCmd.Flags().Uint64("max-address",
		envUint64("SDRAMCTRL_MAX_ADDRESS", 1<<24),
		"highest byte address that the workload touches")
	runCmd.Flags().Int64("seed", 0,
		"random seed for the workload, 0 picks one")
	runCmd.Flags().Uint64("freq-mhz",
		envUint64("SDRAMCTRL_FREQ_MHZ", 166),
		"clock frequency of the controller and the device")
	runCmd.Flags().Uint64("refresh-interval",
		envUint64("SDRAMCTRL_REFRESH_INTERVAL", 1560),
		"number of cycles between refresh cycles")
	runCmd.Flags().Uint64("powerup-cycles", 0,
		"override the number of power-up wait cycles")
	runCmd.Flags().String("output",
		os.Getenv("SDRAMCTRL_OUTPUT"),
		"name of the output database file, without extension")
	runCmd.Flags().Bool("trace-commands", false,
		"record every device command into the output database")
	runCmd.Flags().Bool("trace-tasks", false,
		"record request tasks into the output database")
	runCmd.Flags().Bool("monitor", false,
		"start the monitoring server")
	runCmd.Flags().Int("monitor-port", 0,
		"port number of the monitoring server")
	runCmd.Flags().Bool("browser", false,
		"open the monitoring dashboard in a browser")

	rootCmd.AddCommand(runCmd)
}

func envInt(name string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(name))
	if err != nil {
		return fallback
	}

	return value
}

func envUint64(name string, fallback uint64) uint64 {
	value, err := strconv.ParseUint(os.Getenv(name), 10, 64)
	if err != nil {
		return fallback
	}

	return value
}

func buildSimulation(cmd *cobra.Command) *simulation.Simulation {
	builder := simulation.MakeBuilder()

	if monitorOn, _ := cmd.Flags().GetBool("monitor"); monitorOn {
		if port, _ := cmd.Flags().GetInt("monitor-port"); port > 0 {
			builder = builder.WithMonitorPort(port)
		}

		if openBrowser, _ := cmd.Flags().GetBool("browser"); openBrowser {
			builder = builder.WithMonitorBrowser()
		}
	} else {
		builder = builder.WithoutMonitoring()
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		builder = builder.WithOutputFileName(output)
	}

	return builder.Build()
}

func buildMemCtrl(
	cmd *cobra.Command,
	engine sim.Engine,
	freq sim.Freq,
) *sdram.Comp {
	timing := sdram.DefaultTiming()
	if powerUp, _ := cmd.Flags().GetUint64("powerup-cycles"); powerUp > 0 {
		timing.PowerUpCycles = int(powerUp)
	}

	refreshInterval, _ := cmd.Flags().GetUint64("refresh-interval")

	return sdram.MakeBuilder().
		WithEngine(engine).
		WithFreq(freq).
		WithTiming(timing).
		WithRefreshInterval(refreshInterval).
		Build("SDRAM")
}

func run(cmd *cobra.Command) {
	if seed, _ := cmd.Flags().GetInt64("seed"); seed != 0 {
		rand.Seed(seed)
	}

	s := buildSimulation(cmd)
	engine := s.GetEngine()

	freqMHz, _ := cmd.Flags().GetUint64("freq-mhz")
	freq := sim.Freq(freqMHz) * sim.MHz

	memCtrl := buildMemCtrl(cmd, engine, freq)
	s.RegisterComponent(memCtrl)

	agent := memaccessagent.NewMemAccessAgent(engine)
	agent.ReadLeft, _ = cmd.Flags().GetInt("num-reads")
	agent.WriteLeft, _ = cmd.Flags().GetInt("num-writes")
	agent.MaxAddress, _ = cmd.Flags().GetUint64("max-address")
	agent.LowModule = memCtrl.TopPort()
	s.RegisterComponent(agent)

	conn := directconnection.MakeBuilder().
		WithEngine(engine).
		WithFreq(freq).
		Build("Conn")
	conn.PlugIn(memCtrl.TopPort())
	conn.PlugIn(agent.MemPort())

	if traceCommands, _ := cmd.Flags().GetBool("trace-commands"); traceCommands {
		tracer := sdram.NewCommandTracer(engine, s.GetDataRecorder())
		memCtrl.AcceptHook(tracer)
	}

	if traceTasks, _ := cmd.Flags().GetBool("trace-tasks"); traceTasks {
		tracing.CollectTrace(memCtrl, s.GetVisTracer())
	}

	agent.TickLater()

	err := engine.Run()
	if err != nil {
		panic(err)
	}
	engine.Finished()

	numReads, _ := cmd.Flags().GetInt("num-reads")
	numWrites, _ := cmd.Flags().GetInt("num-writes")
	fmt.Printf("%d reads and %d writes done at %.9f s\n",
		numReads, numWrites, float64(engine.CurrentTime()))

	s.Terminate()
	atexit.Exit(0)
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}
