// Package logger is the leveled log sink of the games server. Simulation
// state transitions go through Event so a game's whole run can be
// reconstructed from the log alone.
package logger

import (
	"log"
	"os"
)

// Logger writes leveled, prefixed lines. Warnings and below go to
// stdout, errors to stderr.
type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
}

func NewLogger() *Logger {
	return &Logger{
		infoLogger:  log.New(os.Stdout, "[GAMES-INFO] ", log.Ldate|log.Ltime|log.Lshortfile),
		warnLogger:  log.New(os.Stdout, "[GAMES-WARN] ", log.Ldate|log.Ltime|log.Lshortfile),
		errorLogger: log.New(os.Stderr, "[GAMES-ERROR] ", log.Ldate|log.Ltime|log.Lshortfile),
	}
}

func (l *Logger) Info(msg string) {
	l.infoLogger.Println(msg)
}

func (l *Logger) Warn(msg string) {
	l.warnLogger.Println(msg)
}

func (l *Logger) Error(msg string) {
	l.errorLogger.Println(msg)
}

// Event records one audit line for a simulation state transition,
// tagged with the transition kind and the game it belongs to.
func (l *Logger) Event(eventType string, gameID string, details string) {
	l.infoLogger.Printf("[EVENT:%s] Game:%s | %s", eventType, gameID, details)
}
