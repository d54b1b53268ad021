package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"

	"github.com/netmeasure/udptester/internal/config"
	"github.com/netmeasure/udptester/internal/logger"
	"github.com/netmeasure/udptester/tester/exporter"
	"github.com/netmeasure/udptester/tester/receiver"
	"github.com/netmeasure/udptester/tester/transmitter"
)

const fullAppName = "UdpTester. "

type transmitterCmd struct {
	Address     string `arg:"" help:"The multicast group address to use. Multicast addresses range from 224.0.0.0 to 239.255.255.255."`
	Outgoing    string `short:"o" required:"" help:"The network interface address to send from."`
	Port        int    `short:"p" default:"10350" help:"The port number to use."`
	Totalcount  int    `short:"t" default:"1000" help:"Number of messages."`
	Messagesize int    `short:"m" default:"100" help:"Bytes per message. A message may consist of multiple packets."`
	Packetsize  int    `short:"s" default:"1300" help:"Bytes per packet sent."`
	Interval    int    `short:"i" default:"20" help:"Interval between messages in unit milliseconds."`
	Lossiness   int    `short:"l" default:"0" help:"Randomly skip sending a packet, in percent."`
}

func (c *transmitterCmd) Run(ctx context.Context) error {
	cfg := config.NewTransmitter()
	cfg.Address = c.Address
	cfg.Outgoing = c.Outgoing
	cfg.Port = c.Port
	cfg.MessageCount = c.Totalcount
	cfg.MessageSize = c.Messagesize
	cfg.PacketSize = c.Packetsize
	cfg.Interval = time.Duration(c.Interval) * time.Millisecond
	cfg.Lossiness = c.Lossiness

	if err := cfg.Validate(); err != nil {
		return err
	}

	fmt.Println("I am the transmitter")
	return transmitter.New(cfg, os.Stdout).Run(ctx)
}

type receiverCmd struct {
	Address        string  `arg:"" optional:"" help:"The multicast group address to join. May also come from the config file."`
	Config         string  `short:"c" type:"existingfile" help:"YAML receiver configuration file."`
	Interface      *string `short:"j" help:"The network interface address to join on. Default is any."`
	Port           *int    `short:"p" help:"The port number to use."`
	Totalcount     *int    `short:"t" help:"Number of messages."`
	Messagesize    *int    `short:"m" help:"Bytes per message. A message may consist of multiple packets."`
	Packetsize     *int    `short:"s" help:"Bytes per packet sent."`
	Reportinterval *int    `short:"r" help:"Number of messages per report."`
	Receivebuffer  *int    `short:"b" help:"Receive buffer size in bytes."`
	Quiet          *bool   `short:"q" help:"Suppress per-packet gap diagnostics."`
}

func (c *receiverCmd) Run(ctx context.Context) error {
	cfg := config.NewReceiver()

	if c.Config != "" {
		file, err := config.LoadReceiverFile(c.Config)
		if err != nil {
			return err
		}
		cfg.Apply(file)
	}

	// Explicit flags are applied after the file, so they win.
	overrides := config.ReceiverFile{
		Interface:      c.Interface,
		Port:           c.Port,
		MessageCount:   c.Totalcount,
		MessageSize:    c.Messagesize,
		PacketSize:     c.Packetsize,
		ReportInterval: c.Reportinterval,
		ReceiveBuffer:  c.Receivebuffer,
		Quiet:          c.Quiet,
	}
	if c.Address != "" {
		overrides.Address = &c.Address
	}
	cfg.Apply(&overrides)

	if err := cfg.Validate(); err != nil {
		return err
	}

	var metrics *exporter.Metrics
	if port := config.ExporterPort(); port > 0 {
		metrics = exporter.NewMetrics(cfg.Address, cfg.Port)
		exp, err := exporter.New(port, metrics)
		if err != nil {
			return fmt.Errorf("creating exporter: %w", err)
		}
		exp.Run(ctx)
	}

	fmt.Println("I am the receiver")
	return receiver.New(cfg, os.Stdout, metrics).Run(ctx)
}

var cli struct {
	Transmitter transmitterCmd `cmd:"" help:"Send sequenced test messages to a multicast group."`
	Receiver    receiverCmd    `cmd:"" help:"Join a multicast group and measure loss and latency."`
}

func main() {
	exitCode := 0
	defer func() { os.Exit(exitCode) }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	kctx := kong.Parse(&cli,
		kong.Name("udptester"),
		kong.Description("Test multicast traffic between two hosts."),
		kong.BindTo(ctx, (*context.Context)(nil)))

	config.Init()
	defer config.Close()
	logger.SetupGlobalLoger(config.DebugLevel(), os.Stdout)

	if err := kctx.Run(); err != nil {
		logger.Error().Println(fullAppName, err)
		exitCode = 1
	}
}
