package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/netmeasure/udptester/internal/logger"
)

const maxPort = 65535

// Settings that are not per-run flags come from the environment and
// are cached here at startup.
var cache struct {
	debugLevel   int
	exporterPort uint16
}

func Init() {
	var tmpval uint

	initDebugLevel()

	initUint(&tmpval, "UDPTESTER_EXPORTER_PORT", 0)
	if tmpval <= maxPort {
		cache.exporterPort = uint16(tmpval)
	}
}

func Close() {
	// Anything needed to be closed or destroyed at the end of program, goes here
}

func DebugLevel() int {
	return cache.debugLevel
}

// ExporterPort is the prometheus exposition port. Zero means the
// exporter stays disabled.
func ExporterPort() uint16 {
	return cache.exporterPort
}

func initDebugLevel() {
	switch strings.ToUpper(os.Getenv("UDPTESTER_LOG_LEVEL")) {
	case "DEBUG":
		cache.debugLevel = logger.DebugLevel
	case "INFO":
		cache.debugLevel = logger.InfoLevel
	case "WARNING":
		cache.debugLevel = logger.WarningLevel
	case "ERROR":
		cache.debugLevel = logger.ErrorLevel
	default:
		cache.debugLevel = logger.InfoLevel
	}
}

func initUint(val *uint, key string, defaultValue uint) {
	*val = defaultValue
	str := os.Getenv(key)
	if str == "" {
		return
	}
	parsed, err := strconv.ParseUint(str, 10, 32)
	if err != nil {
		logger.Warning().Println(pkgName, "ignoring invalid", key, "value", str)
		return
	}
	*val = uint(parsed)
}
