package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/calvinmclean/bedlift/controller"

	log "github.com/sirupsen/logrus"
)

func main() {
	var (
		port    string
		baud    int
		list    bool
		send    string
		wait    time.Duration
		verbose bool
	)
	flag.StringVar(&port, "port", "", "Serial port. Defaults to BEDLIFT_PORT or the first USB serial port")
	flag.IntVar(&baud, "baud", 0, "Baud rate. Defaults to BEDLIFT_BAUD or 115200")
	flag.BoolVar(&list, "list", false, "List USB serial ports and exit")
	flag.StringVar(&send, "send", "", "Send these command bytes, print the response and exit. Example: \"MmS\"")
	flag.DurationVar(&wait, "wait", time.Second, "How long to print output after -send")
	flag.BoolVar(&verbose, "v", false, "Debug logging")
	flag.Parse()

	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	if list {
		listPorts()
		return
	}

	cfg, err := controller.ConfigFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	if port != "" {
		cfg.Port = port
	}
	if baud != 0 {
		cfg.BaudRate = baud
	}

	c, err := controller.New(cfg, log.WithField("component", "controller"))
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if send != "" {
		err = sendOnce(ctx, c, send, wait)
	} else {
		err = c.Run(ctx, os.Stdin, os.Stdout)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func listPorts() {
	ports, err := controller.Ports()
	if err != nil {
		log.Fatal(err)
	}
	if len(ports) == 0 {
		log.Warn(controller.ErrNoUSBSerial)
		return
	}
	for _, p := range ports {
		fmt.Printf("%s\t%s:%s\t%s\n", p.Name, p.VID, p.PID, p.Product)
	}
}

// sendOnce sends cmd and prints output for wait
func sendOnce(ctx context.Context, c *controller.Controller, cmd string, wait time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	return c.Run(ctx, strings.NewReader(cmd), os.Stdout)
}
