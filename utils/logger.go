package utils

import (
	"fmt"
	"time"
)

// ANSI colour codes — make terminal output easier to read while debugging
const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	cyan   = "\033[36m"
)

func logf(colour, level, format string, a ...interface{}) {
	ts := time.Now().Format("15:04:05")
	fmt.Printf("%s[%s] %-7s %s%s\n", colour, ts, level, fmt.Sprintf(format, a...), reset)
}

func Info(format string, a ...interface{}) {
	logf(blue, "[INFO]", format, a...)
}

func Success(format string, a ...interface{}) {
	logf(green, "[OK]", format, a...)
}

func Warn(format string, a ...interface{}) {
	logf(yellow, "[WARN]", format, a...)
}

func Error(format string, a ...interface{}) {
	logf(red, "[ERROR]", format, a...)
}

func Section(title string) {
	ts := time.Now().Format("15:04:05")
	fmt.Printf("\n%s[%s] ══════════ %s ══════════%s\n\n", cyan, ts, title, reset)
}
