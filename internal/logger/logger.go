// Package logger builds the process-wide zap logger.
package logger

import (
    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
)

// New returns a zap logger configured for the given environment:
// JSON production output for "prod", colored development output
// otherwise.
func New(env string) *zap.Logger {
    var config zap.Config
    if env == "prod" {
        config = zap.NewProductionConfig()
    } else {
        config = zap.NewDevelopmentConfig()
        config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
    }
    config.OutputPaths = []string{"stdout"}

    l, err := config.Build()
    if err != nil {
        panic("failed to create logger: " + err.Error())
    }
    return l
}
