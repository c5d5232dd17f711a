// Command seot-dptool is a standalone wire-format probe for the TCP
// source/sink transports (mirrors original_source/seot/agent/dptool.py).
// Read mode listens and prints every decoded message it receives, the
// peer of a running TCPSink. Write mode dials out and sends one JSON
// document read from stdin, the peer of a running TCPSource.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/fossabot/seot-agent/codec"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	readMode  bool
	writeMode bool
)

var rootCmd = &cobra.Command{
	Use:   "seot-dptool <address>",
	Short: "Probe a TCP source/sink node's wire format",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.Flags().BoolVarP(&readMode, "read", "r", false, "listen and print decoded messages (default)")
	rootCmd.Flags().BoolVarP(&writeMode, "write", "w", false, "dial and send one JSON document read from stdin")
}

func run(cmd *cobra.Command, args []string) error {
	addr := args[0]
	if writeMode && !readMode {
		return writeOnce(addr)
	}
	return readLoop(addr)
}

// readLoop binds addr and prints every message decoded from each accepted
// connection, the role a TCPSink dials into.
func readLoop(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	defer ln.Close()

	fmt.Fprintf(os.Stderr, "listening on %s, press ctrl-c to stop\n", addr)
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go printDecoded(conn)
	}
}

func printDecoded(conn net.Conn) {
	defer conn.Close()
	framer := codec.NewFramer(conn)
	for {
		v, err := framer.NextValue()
		if err != nil {
			if err != io.EOF {
				fmt.Fprintf(os.Stderr, "decode error: %v\n", err)
			}
			return
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "re-encode error: %v\n", err)
			continue
		}
		fmt.Println(string(data))
	}
}

// writeOnce dials addr and sends one JSON document read from stdin, the
// role a TCPSource listens for.
func writeOnce(addr string) error {
	var d net.Dialer
	conn, err := d.DialContext(context.Background(), "tcp", addr)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", addr, err)
	}
	defer conn.Close()

	data, err := io.ReadAll(bufio.NewReader(os.Stdin))
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	var v map[string]interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("stdin is not valid JSON: %w", err)
	}

	w := codec.NewWriter(conn)
	return w.Write(v)
}
