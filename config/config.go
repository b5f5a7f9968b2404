// Package config is a flat key/value store for deployment settings. Values come from the
// built-in defaults, then an optional JSON file, then the environment; later sources win.
package config

import(
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var(
	mu sync.RWMutex
	values = map[string]string{}
)

var defaults = map[string]string{
	"predict.url":         "http://localhost:8000",
	"predict.timeout":     "30s",
	"predict.grpc_health": "",
	"predict.grpc_service": "",
	"predict.grpc_tls":    "false",
	"persist.backend":     "file",
	"persist.dir":         "",
	"persist.memcache":    "localhost:11211",
	"persist.project":     "",
	"persist.bucket":      "",
	"persist.prefix":      "",
	"persist.credentials": "",
	"session.stale":       "append",
	"bigquery.project":    "",
	"bigquery.dataset":    "flightdash",
	"bigquery.table":      "predictions",
	"bigquery.bucket":     "",
	"bigquery.credentials": "",
	"http.port":           "8080",
}

func init() { Reset() }

// EnvName is the environment variable that overrides key; e.g. FLIGHTDASH_SESSION_STALE.
func EnvName(key string) string {
	return "FLIGHTDASH_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

// Reset drops everything back to the defaults, plus the environment.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	values = map[string]string{}
	for k,v := range defaults { values[k] = v }
	applyEnv()
}

func applyEnv() {
	for k := range values {
		if v,exists := os.LookupEnv(EnvName(k)); exists { values[k] = v }
	}
}

// Load reads a JSON object of key/value pairs. Non-string values are stored in their JSON text
// form. The environment is reapplied afterwards, so it still wins.
func Load(filename string) error {
	b,err := os.ReadFile(filename)
	if err != nil { return fmt.Errorf("config.Load: %v", err) }

	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("config.Load %s: %v", filename, err)
	}

	mu.Lock()
	defer mu.Unlock()
	for k,v := range raw {
		str := ""
		if err := json.Unmarshal(v, &str); err != nil {
			str = string(v)
		}
		values[k] = str
	}
	applyEnv()
	return nil
}

func Set(key, val string) {
	mu.Lock()
	defer mu.Unlock()
	values[key] = val
}

// Get returns "" for unknown keys.
func Get(key string) string {
	mu.RLock()
	defer mu.RUnlock()
	return values[key]
}

func GetInt(key string) int {
	i,err := strconv.Atoi(Get(key))
	if err != nil { return 0 }
	return i
}

func GetBool(key string) bool {
	b,_ := strconv.ParseBool(Get(key))
	return b
}

// GetDuration accepts Go durations ("45s") or a plain number of seconds.
func GetDuration(key string) time.Duration {
	s := Get(key)
	if d,err := time.ParseDuration(s); err == nil { return d }
	if i,err := strconv.Atoi(s); err == nil { return time.Duration(i) * time.Second }
	return 0
}
