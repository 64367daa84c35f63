package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/hamed0406/webhookmonitor/internal/scheduler"
)

type Config struct {
	Addr                string        // status API bind address; empty disables the API
	LogDir              string        // logs directory
	LogLevel            string        // debug|info|warn|error
	ServersFile         string        // YAML list of monitored endpoints
	CheckSchedule       string        // cron spec, seconds field optional
	CheckOnStart        bool          // run one cycle right away instead of waiting for the first tick
	NotifyTimeout       time.Duration // upper bound for one webhook delivery
	MaxConcurrentChecks int           // 1 = endpoints probed one after another
	StatusAPIKeys       []string      // empty = status API open
	StatusAPIRPM        int           // per-client requests per minute; 0 = unlimited
	StatusAPIBurst      int
}

// LoadDotEnv loads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func FromEnv() Config {
	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	logLevel := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if logLevel == "" {
		logLevel = "info"
	}

	servers := os.Getenv("SERVERS_FILE")
	if servers == "" {
		servers = "servers.yaml"
	}

	schedule := strings.TrimSpace(os.Getenv("CHECK_SCHEDULE"))
	if schedule == "" {
		schedule = scheduler.DefaultSpec
	}

	notifyTimeout := 10 * time.Second
	if v := os.Getenv("NOTIFY_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			notifyTimeout = time.Duration(ms) * time.Millisecond
		}
	}

	concurrency := 1
	if v := os.Getenv("MAX_CONCURRENT_CHECKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			concurrency = n
		}
	}

	checkOnStart := false
	if v := os.Getenv("CHECK_ON_START"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			checkOnStart = b
		}
	}

	rpm := envInt("STATUS_API_RPM", 120)
	burst := envInt("STATUS_API_BURST", 30)

	return Config{
		Addr:                strings.TrimSpace(os.Getenv("API_ADDR")),
		LogDir:              logDir,
		LogLevel:            logLevel,
		ServersFile:         servers,
		CheckSchedule:       schedule,
		CheckOnStart:        checkOnStart,
		NotifyTimeout:       notifyTimeout,
		MaxConcurrentChecks: concurrency,
		StatusAPIKeys:       splitList(os.Getenv("STATUS_API_KEYS")),
		StatusAPIRPM:        rpm,
		StatusAPIBurst:      burst,
	}
}

// envInt returns def unless key holds a non-negative integer.
func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
