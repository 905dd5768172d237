// Package logger держит глобальный logrus-логгер процесса.
// Симуляция пишет через него структурированные поля; до вызова Init
// журнал недоступен (Log == nil), поэтому Init зовется первым делом в
// main и в TestMain пакетов, чей код логирует.
package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log — общий логгер приложения.
var Log *logrus.Logger

// Init настраивает логгер из окружения.
//
//	LOG_LEVEL  — debug/info/warn/error, по умолчанию info
//	LOG_FORMAT — json для сбора логов, иначе цветной текст
func Init() {
	Log = logrus.New()
	Log.SetOutput(os.Stdout)
	Log.SetLevel(levelFromEnv())

	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		Log.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   true,
	})
}

func levelFromEnv() logrus.Level {
	raw, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		return logrus.InfoLevel
	}
	level, err := logrus.ParseLevel(raw)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
