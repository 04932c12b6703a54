package logger

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync/atomic"
)

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var current atomic.Int32

var std = log.New(os.Stderr, "", log.LstdFlags)

func init() {
	current.Store(int32(LevelInfo))
}

// SetLevel sets the minimum level from a config string. Unknown values
// fall back to info.
func SetLevel(level string) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		current.Store(int32(LevelDebug))
	case "warn", "warning":
		current.Store(int32(LevelWarn))
	case "error":
		current.Store(int32(LevelError))
	default:
		current.Store(int32(LevelInfo))
	}
}

func enabled(l Level) bool {
	return int32(l) >= current.Load()
}

func emit(l Level, tag, component, msg string, fields map[string]interface{}) {
	if !enabled(l) {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] %s", tag, component, msg)
	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, fields[k])
		}
	}
	std.Println(b.String())
}

func DebugC(component, msg string) { emit(LevelDebug, "DEBUG", component, msg, nil) }
func InfoC(component, msg string)  { emit(LevelInfo, "INFO", component, msg, nil) }
func WarnC(component, msg string)  { emit(LevelWarn, "WARN", component, msg, nil) }
func ErrorC(component, msg string) { emit(LevelError, "ERROR", component, msg, nil) }

func DebugCF(component, msg string, fields map[string]interface{}) {
	emit(LevelDebug, "DEBUG", component, msg, fields)
}

func InfoCF(component, msg string, fields map[string]interface{}) {
	emit(LevelInfo, "INFO", component, msg, fields)
}

func WarnCF(component, msg string, fields map[string]interface{}) {
	emit(LevelWarn, "WARN", component, msg, fields)
}

func ErrorCF(component, msg string, fields map[string]interface{}) {
	emit(LevelError, "ERROR", component, msg, fields)
}
