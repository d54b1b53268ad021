package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// ReceiverFile is a partial receiver configuration. Fields are
// pointers so an absent key can be told apart from a zero value;
// only present fields are applied. The same structure carries
// explicit command line overrides, which are applied after the file
// and therefore win.
type ReceiverFile struct {
	Address        *string `yaml:"address"`
	Interface      *string `yaml:"interface"`
	Port           *int    `yaml:"port"`
	MessageSize    *int    `yaml:"messagesize"`
	PacketSize     *int    `yaml:"packetsize"`
	MessageCount   *int    `yaml:"totalcount"`
	ReportInterval *int    `yaml:"reportinterval"`
	ReceiveBuffer  *int    `yaml:"receivebuffer"`
	Quiet          *bool   `yaml:"quiet"`
}

// LoadReceiverFile reads a YAML receiver configuration file.
func LoadReceiverFile(path string) (*ReceiverFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var f ReceiverFile
	if err := yaml.UnmarshalStrict(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return &f, nil
}

// Apply copies the present fields of f over the receiver configuration.
func (c *Receiver) Apply(f *ReceiverFile) {
	if f == nil {
		return
	}
	if f.Address != nil {
		c.Address = *f.Address
	}
	if f.Interface != nil {
		c.Interface = *f.Interface
	}
	if f.Port != nil {
		c.Port = *f.Port
	}
	if f.MessageSize != nil {
		c.MessageSize = *f.MessageSize
	}
	if f.PacketSize != nil {
		c.PacketSize = *f.PacketSize
	}
	if f.MessageCount != nil {
		c.MessageCount = *f.MessageCount
	}
	if f.ReportInterval != nil {
		c.ReportInterval = *f.ReportInterval
	}
	if f.ReceiveBuffer != nil {
		c.ReceiveBuffer = *f.ReceiveBuffer
	}
	if f.Quiet != nil {
		c.Quiet = *f.Quiet
	}
}
