package logging

import (
	"go.uber.org/zap"
)

// Logger is the global logger instance. It discards everything until Setup runs.
var Logger = zap.NewNop()

// Setup builds the global logger. Debug selects the development
// configuration (console encoding, debug level); otherwise the production
// configuration is used. Both write to stderr.
func Setup(debug bool, appName, appVersion string) error {
	var err error
	var cfg zap.Config

	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	// Add default fields
	cfg.InitialFields = map[string]interface{}{
		"appName":    appName,
		"appVersion": appVersion,
	}

	Logger, err = cfg.Build()
	if err != nil {
		Logger = zap.NewExample()
		return err
	}

	zap.ReplaceGlobals(Logger)
	return nil
}
