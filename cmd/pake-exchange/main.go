// Command pake-exchange performs one side of a symmetric password-
// authenticated key exchange over stdin/stdout and prints the resulting
// session key as one hex line.
//
// It sends its share first and then blocks for the peer's. Two instances
// connected back to back (each one's stdout feeding the other's stdin) and
// started with the same -code and -app-id print the same key.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/backkem/pake-exchange/exchange"
	"github.com/backkem/pake-exchange/spake2"
	"github.com/backkem/pake-exchange/wire"
	"github.com/sirupsen/logrus"
)

func main() {
	code := flag.String("code", "", "Password to use to connect to the other side")
	appID := flag.String("app-id", "", "Identifier for the application")
	side := flag.String("side", "", "Identifier for this side of the exchange")
	configPath := flag.String("config", "", "JSON file with code/app_id/side; flags override its values")
	logLevel := flag.String("log-level", "warning", "Log level (debug, info, warning, error)")
	flag.Parse()

	logrus.SetOutput(os.Stderr)
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid log level")
	}
	logrus.SetLevel(level)

	params, err := loadParams(*configPath, *code, *appID, *side)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid parameters")
	}

	// A missing PAKE capability is a deliberate skip, not a failure: exit
	// zero without attempting the exchange, and without printing a key.
	if err := spake2.CheckAvailability(nil); err != nil {
		logrus.WithError(err).Warn("PAKE ciphersuite unavailable, skipping exchange")
		os.Exit(0)
	}

	ch := wire.NewChannel(os.Stdin, os.Stdout)
	key, err := exchange.Run(ch, params)
	if err != nil {
		logrus.WithError(err).Error("Key exchange failed")
		os.Exit(1)
	}

	// The key is the only thing written to stdout besides the wire message.
	fmt.Println(hex.EncodeToString(key))
}

// loadParams builds Params from the optional config file, letting non-empty
// flags override file values.
func loadParams(configPath, code, appID, side string) (exchange.Params, error) {
	var params exchange.Params
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return exchange.Params{}, fmt.Errorf("failed to read config: %w", err)
		}
		params, err = exchange.ParamsFromJSON(data)
		if err != nil {
			return exchange.Params{}, err
		}
	}
	if code != "" {
		params.Code = code
	}
	if appID != "" {
		params.AppID = appID
	}
	if side != "" {
		params.Side = side
	}
	if err := params.Validate(); err != nil {
		return exchange.Params{}, err
	}
	return params, nil
}
