// Command shawl-child is a dummy program for exercising shawl by hand: it
// can run forever, exit immediately with a chosen code, or echo a marker so
// a test can confirm which flags it received.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	infinite bool
	exitCode int
	test     bool
)

var rootCmd = &cobra.Command{
	Use:   "shawl-child",
	Short: "Dummy program to test wrapping with shawl",
	RunE:  run,
}

func init() { //nolint:gochecknoinits
	rootCmd.Flags().BoolVar(&infinite, "infinite", false, "Run forever unless forcibly killed")
	rootCmd.Flags().IntVar(&exitCode, "exit", 0, "Exit immediately with this code")
	rootCmd.Flags().BoolVar(&test, "test", false, "Print an extra line to stdout if received")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	log, err := prepareLogging()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	log.Info("launch")
	log.Info("flags", zap.Bool("infinite", infinite), zap.Bool("test", test))
	log.Info("env", zap.String("PATH", os.Getenv("PATH")), zap.String("SHAWL_FROM_CLI", os.Getenv("SHAWL_FROM_CLI")))

	fmt.Println("shawl-child message on stdout")
	fmt.Fprintln(os.Stderr, "shawl-child message on stderr")

	if test {
		fmt.Println("shawl-child test option received")
	}

	if cmd.Flags().Changed("exit") {
		os.Exit(exitCode)
	}

	running := make(chan os.Signal, 1)
	signal.Notify(running, os.Interrupt)

	for {
		select {
		case <-running:
			if infinite {
				log.Info("ignoring ctrl-C")
				continue
			}
			log.Info("end")
			return nil
		case <-time.After(250 * time.Millisecond):
		}
	}
}

func prepareLogging() (*zap.Logger, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("unable to determine own executable path: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{filepath.Join(filepath.Dir(exe), "shawl-child.log"), "stderr"}
	return cfg.Build()
}
