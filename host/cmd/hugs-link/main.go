package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"hugs/config"
	"hugs/host/remote"
	"hugs/host/serial"
	"hugs/protocol"
)

var (
	configPath = flag.String("config", "", "YAML config file (defaults plus HUGS_* env if empty)")
	device     = flag.String("device", "", "Serial device path (overrides config)")
	verbose    = flag.Bool("verbose", false, "Print every frame received from the board")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *device != "" {
		cfg.Link.Port = *device
	}

	fmt.Println("HUGS Link - Bench Steering Remote")
	fmt.Println("=================================")

	r := remote.NewRemote()
	sc := serial.DefaultConfig(cfg.Link.Port)
	sc.Baud = cfg.Link.Baud

	fmt.Printf("Connecting to board on %s at %d baud...\n", sc.Device, sc.Baud)
	if err := r.ConnectWithConfig(sc); err != nil {
		log.Fatalf("%v", err)
	}
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		err := r.Stream(ctx, cfg.Link.RateHz)
		if err != nil && ctx.Err() == nil {
			log.Printf("stream stopped: %v", err)
			cancel()
		}
	}()

	go func() {
		err := r.Listen(func(f protocol.Frame) {
			if *verbose {
				fmt.Printf("\n< %c value=%d flags=%#x\n", f.Cmd, f.Value, f.Flags)
			}
		})
		if err != nil && ctx.Err() == nil {
			log.Printf("listen stopped: %v", err)
		}
	}()

	fmt.Printf("Streaming at %d Hz. Enter commands (type 'help' for available commands, 'quit' to exit):\n", cfg.Link.RateHz)
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		switch parts[0] {
		case "quit", "exit", "q":
			r.SetSpeed(0)
			if err := r.Tick(); err != nil {
				log.Printf("final stop frame: %v", err)
			}
			fmt.Println("Goodbye!")
			return

		case "help", "?":
			printHelp()

		case "speed", "s":
			v, err := argInt(parts, -1000, 1000)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			r.SetSpeed(int16(v))

		case "stop":
			r.SetSpeed(0)

		case "horn":
			r.Horn(len(parts) < 2 || parts[1] != "off")

		case "led":
			v, err := argInt(parts, 0, 255)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			r.LED(uint8(v))

		case "stats":
			st := r.Stats()
			fmt.Printf("speed=%d horn=%t led=%d sent=%d received=%d dropped_bytes=%d\n",
				r.Speed(), r.HornOn(), r.LEDProgram(), st.Sent, st.Received, st.Dropped)

		default:
			fmt.Printf("Unknown command: %s (type 'help' for available commands)\n", parts[0])
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

func argInt(parts []string, min, max int) (int, error) {
	if len(parts) < 2 {
		return 0, fmt.Errorf("%s needs a value", parts[0])
	}
	v, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("bad value %q", parts[1])
	}
	if v < min || v > max {
		return 0, fmt.Errorf("value must be between %d and %d, got %d", min, max, v)
	}
	return v, nil
}

func printHelp() {
	fmt.Println("\nAvailable commands:")
	fmt.Println("  speed|s <n>    - Stream speed n (-1000..1000)")
	fmt.Println("  stop           - Stream speed 0")
	fmt.Println("  horn [on|off]  - Switch the slave horn")
	fmt.Println("  led <n>        - Select slave LED program n")
	fmt.Println("  stats          - Show link counters")
	fmt.Println("  help           - Show this help message")
	fmt.Println("  quit/exit/q    - Stop and exit")
	fmt.Println()
}
