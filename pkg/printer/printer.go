package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"
)

// Printer sends a rendered ESC/POS job to a receipt printer.
type Printer interface {
	Print(ctx context.Context, job []byte) error
	IsConnected(ctx context.Context) bool
}

// Config selects the printer attached to a front desk
type Config struct {
	Type    string // usb, network or none
	USBPath string // e.g. /dev/usb/lp0
	Address string // host:port, usually port 9100
}

// New builds the printer named by cfg.Type
func New(cfg Config) (Printer, error) {
	switch cfg.Type {
	case "usb":
		if cfg.USBPath == "" {
			return nil, fmt.Errorf("printer: usb path is required")
		}
		return &devicePrinter{path: cfg.USBPath}, nil
	case "network":
		if cfg.Address == "" {
			return nil, fmt.Errorf("printer: address is required")
		}
		return &networkPrinter{address: cfg.Address, dialTimeout: 5 * time.Second}, nil
	case "none", "":
		return Null{}, nil
	}
	return nil, fmt.Errorf("printer: unknown type %q (use usb, network or none)", cfg.Type)
}

// devicePrinter writes to a character device, opened per job
type devicePrinter struct {
	path string
}

func (p *devicePrinter) Print(_ context.Context, job []byte) error {
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(job); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.path, err)
	}
	return nil
}

func (p *devicePrinter) IsConnected(context.Context) bool {
	_, err := os.Stat(p.path)
	return err == nil
}

// networkPrinter speaks raw TCP (JetDirect), one connection per job
type networkPrinter struct {
	address     string
	dialTimeout time.Duration
}

func (p *networkPrinter) dial(ctx context.Context) (net.Conn, error) {
	d := net.Dialer{Timeout: p.dialTimeout}
	return d.DialContext(ctx, "tcp", p.address)
}

func (p *networkPrinter) Print(ctx context.Context, job []byte) error {
	conn, err := p.dial(ctx)
	if err != nil {
		return fmt.Errorf("printer: connect %s: %w", p.address, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(10 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(job); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) IsConnected(ctx context.Context) bool {
	conn, err := p.dial(ctx)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Null discards jobs. Used when no printer is configured.
type Null struct{}

func (Null) Print(context.Context, []byte) error { return nil }

func (Null) IsConnected(context.Context) bool { return false }
