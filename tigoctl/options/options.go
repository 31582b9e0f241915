package options

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asnowfix/tigo-cca/internal/global"

	"github.com/go-logr/logr"
	"gopkg.in/yaml.v2"
)

var Flags struct {
	Verbose        bool
	Debug          bool
	Json           bool
	Username       string
	Password       string
	CommandTimeout time.Duration
}

// Commit is set at build time (-ldflags "-X ...options.Commit=$(git rev-parse HEAD)").
var Commit string

func CommandLineContext(ctx context.Context, log logr.Logger, timeout time.Duration, version string) context.Context {
	ctx = logr.NewContext(ctx, log)
	ctx = context.WithValue(ctx, global.VersionKey, version)
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	ctx = context.WithValue(ctx, global.CancelKey, cancel)
	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt)
		signal.Notify(signals, syscall.SIGTERM)
		<-signals
		log.Info("Received signal")
		cancel()
	}()
	return ctx
}

func PrintResult(out any) error {
	if Flags.Json {
		s, err := json.Marshal(out)
		if err != nil {
			return err
		}
		fmt.Println(string(s))
	} else {
		s, err := yaml.Marshal(out)
		if err != nil {
			return err
		}
		fmt.Println(string(s))
	}
	return nil
}
