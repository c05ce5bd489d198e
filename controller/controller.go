// Package controller is the host side of the serial debug console. It finds the
// controller's USB serial port, forwards console commands to it and copies its output back.
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

const DefaultBaudRate = 115200

// ErrNoUSBSerial is returned when no port is configured and none can be found
var ErrNoUSBSerial = errors.New("no USB serial port found")

type Config struct {
	Port     string
	BaudRate int
}

// ConfigFromEnv reads BEDLIFT_PORT and BEDLIFT_BAUD
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		Port:     os.Getenv("BEDLIFT_PORT"),
		BaudRate: DefaultBaudRate,
	}

	baud := os.Getenv("BEDLIFT_BAUD")
	if baud != "" {
		var err error
		cfg.BaudRate, err = strconv.Atoi(baud)
		if err != nil {
			return Config{}, fmt.Errorf("invalid BEDLIFT_BAUD %q: %w", baud, err)
		}
	}

	return cfg, nil
}

// Controller is an open connection to the controller's console
type Controller struct {
	port   io.ReadWriteCloser
	name   string
	logger *logrus.Entry

	writeMu sync.Mutex
}

// New opens the configured port, or the first USB serial port when none is set
func New(cfg Config, logger *logrus.Entry) (*Controller, error) {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	name := cfg.Port
	if name == "" {
		var err error
		name, err = FindPort()
		if err != nil {
			return nil, err
		}
	}
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}

	port, err := serial.Open(name, &serial.Mode{BaudRate: cfg.BaudRate})
	if err != nil {
		return nil, fmt.Errorf("error opening serial port %q: %w", name, err)
	}

	logger.WithFields(logrus.Fields{
		"port": name,
		"baud": cfg.BaudRate,
	}).Info("connected")

	return newController(port, name, logger), nil
}

func NewFromEnv(logger *logrus.Entry) (*Controller, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return New(cfg, logger)
}

func newController(port io.ReadWriteCloser, name string, logger *logrus.Entry) *Controller {
	return &Controller{port: port, name: name, logger: logger.WithField("port", name)}
}

// Port is the name of the open serial port
func (c *Controller) Port() string {
	return c.name
}

// Send writes raw command bytes to the console
func (c *Controller) Send(cmd string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.logger.WithField("command", cmd).Debug("sending")
	_, err := io.WriteString(c.port, cmd)
	if err != nil {
		return fmt.Errorf("error writing command: %w", err)
	}
	return nil
}

// Run forwards in to the console and copies console output to out until ctx is done or the
// port is closed. The end of in does not stop it.
func (c *Controller) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	readErr := make(chan error, 1)
	go func() {
		_, err := io.Copy(out, c.port)
		readErr <- err
	}()

	writeErr := make(chan error, 1)
	go func() {
		_, err := io.Copy(writerFunc(func(p []byte) (int, error) {
			err := c.Send(string(p))
			if err != nil {
				return 0, err
			}
			return len(p), nil
		}), in)
		writeErr <- err
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if err != nil && !errors.Is(err, os.ErrClosed) {
				return fmt.Errorf("error reading serial: %w", err)
			}
			c.logger.Info("port closed")
			return nil
		case err := <-writeErr:
			if err != nil {
				return err
			}
			c.logger.Debug("input finished")
			writeErr = nil
		}
	}
}

func (c *Controller) Close() error {
	return c.port.Close()
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) {
	return f(p)
}

// Ports lists the serial ports that look like USB devices
func Ports() ([]*enumerator.PortDetails, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("error listing serial ports: %w", err)
	}

	var usb []*enumerator.PortDetails
	for _, p := range ports {
		if p.IsUSB {
			usb = append(usb, p)
		}
	}
	return usb, nil
}

// FindPort returns the first USB serial port
func FindPort() (string, error) {
	ports, err := Ports()
	if err != nil {
		return "", err
	}
	if len(ports) == 0 {
		return "", ErrNoUSBSerial
	}
	return ports[0].Name, nil
}
