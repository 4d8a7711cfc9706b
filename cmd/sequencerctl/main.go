// sequencerctl drives a sequencer from newline-delimited add/cancel
// commands, optionally journaling every event to disk.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Layer-V/orderbook/book"
	"github.com/Layer-V/orderbook/command"
	"github.com/Layer-V/orderbook/journal"
	"github.com/Layer-V/orderbook/matching"
	"github.com/Layer-V/orderbook/sequencer"
)

type options struct {
	symbol      string
	journalPath string
	capacity    int
}

func main() {
	var opts options
	flag.StringVar(&opts.symbol, "symbol", "BTC/USD", "symbol to run the book for")
	flag.StringVar(&opts.journalPath, "journal", "", "path to a durable journal file (empty disables persistence)")
	flag.IntVar(&opts.capacity, "capacity", 0, "ingress channel capacity (0 uses the sequencer default)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [command-file]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "sequencerctl drives a sequencer from newline-delimited commands.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommand format (one per line):\n")
		fmt.Fprintf(os.Stderr, "  ADD <order-id> <BUY|SELL> <price> <quantity>\n")
		fmt.Fprintf(os.Stderr, "  CANCEL <order-id>\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s commands.txt                          # Replay a command file\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --journal book.journal < commands.txt  # Also persist events\n", os.Args[0])
	}
	flag.Parse()

	var input io.Reader = os.Stdin
	switch flag.NArg() {
	case 0:
	case 1:
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		input = f
	default:
		flag.Usage()
		os.Exit(1)
	}

	if err := run(opts, input); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, input io.Reader) error {
	bk := book.NewBook[struct{}](opts.symbol)

	var seq *sequencer.Sequencer[struct{}]
	if opts.capacity > 0 {
		seq = sequencer.WithCapacity[struct{}](bk, opts.capacity)
	} else {
		seq = sequencer.New[struct{}](bk)
	}

	if opts.journalPath != "" {
		j, err := journal.OpenFileJournal[struct{}](opts.journalPath)
		if err != nil {
			return fmt.Errorf("opening journal: %w", err)
		}
		defer j.Close()
		seq.AddListener(func(e *command.Event[struct{}]) {
			if err := j.Append(*e); err != nil {
				fmt.Fprintf(os.Stderr, "journal append failed at seq %d: %v\n", e.SequenceNum, err)
			}
		})
	}

	handle := seq.Spawn()

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cmd, err := parseCommand(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %q: %v\n", line, err)
			continue
		}
		receipt, err := seq.Submit(cmd)
		if err != nil {
			return fmt.Errorf("submit: %w", err)
		}
		printReceipt(receipt)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	seq.Shutdown()
	handle.Wait()
	return nil
}

func parseCommand(line string) (command.Command[struct{}], error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command.Command[struct{}]{}, fmt.Errorf("empty command")
	}

	switch strings.ToUpper(fields[0]) {
	case "ADD":
		return parseAdd(fields)
	case "CANCEL":
		return parseCancel(fields)
	default:
		return command.Command[struct{}]{}, fmt.Errorf("unknown command %q", fields[0])
	}
}

func parseAdd(fields []string) (command.Command[struct{}], error) {
	if len(fields) != 5 {
		return command.Command[struct{}]{}, fmt.Errorf("ADD needs <id> <side> <price> <quantity>")
	}
	id, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return command.Command[struct{}]{}, fmt.Errorf("order id: %w", err)
	}
	side, err := parseSide(fields[2])
	if err != nil {
		return command.Command[struct{}]{}, err
	}
	price, err := strconv.ParseUint(fields[3], 10, 64)
	if err != nil {
		return command.Command[struct{}]{}, fmt.Errorf("price: %w", err)
	}
	quantity, err := strconv.ParseUint(fields[4], 10, 64)
	if err != nil {
		return command.Command[struct{}]{}, fmt.Errorf("quantity: %w", err)
	}
	order := *matching.NewLimitOrder(id, 0, side, price, quantity)
	return command.AddOrder[struct{}](order, struct{}{}), nil
}

func parseCancel(fields []string) (command.Command[struct{}], error) {
	if len(fields) != 2 {
		return command.Command[struct{}]{}, fmt.Errorf("CANCEL needs <id>")
	}
	id, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return command.Command[struct{}]{}, fmt.Errorf("order id: %w", err)
	}
	return command.CancelOrder[struct{}](id), nil
}

func parseSide(s string) (matching.OrderSide, error) {
	switch strings.ToUpper(s) {
	case "BUY":
		return matching.OrderSideBuy, nil
	case "SELL":
		return matching.OrderSideSell, nil
	default:
		return 0, fmt.Errorf("side must be BUY or SELL, got %q", s)
	}
}

func printReceipt(r command.Receipt) {
	fmt.Printf("seq=%d %s\n", r.SequenceNum, r.Result.String())
}
