package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/30x/iftttwebhook/communication"
	"github.com/30x/iftttwebhook/config"
	"github.com/30x/iftttwebhook/hooks"
	"github.com/30x/iftttwebhook/log"
	"github.com/golang/glog"
)

const (
	exitOK        = 0
	exitFailed    = 1
	exitUsage     = 2
	exitBadConfig = 3
	exitFetch     = 4

	debugLevel = 2
)

func main() {
	exitCode := runTriggerMain(flag.CommandLine, os.Args[1:], os.Stdout, os.Stderr)
	glog.Flush()
	os.Exit(exitCode)
}

func runTriggerMain(flags *flag.FlagSet, args []string, out, errOut io.Writer) int {
	var configFile string
	var apiKey string
	var event string
	var mode string
	var fingerprint string
	var certFile string
	var baseURL string
	var values [3]string
	var debug bool
	var fetch string
	var help bool

	flags.SetOutput(errOut)
	flags.StringVar(&configFile, "config", "", "YAML configuration file")
	flags.StringVar(&apiKey, "k", "", "IFTTT Webhooks API key")
	flags.StringVar(&event, "e", "", "Event name")
	flags.StringVar(&mode, "m", "", "Identity mode: \"fingerprint\" or \"certificate\"")
	flags.StringVar(&fingerprint, "f", "", "SHA-1 fingerprint of the server certificate")
	flags.StringVar(&certFile, "c", "", "PEM file with the root certificate of the server")
	flags.StringVar(&baseURL, "u", "", "Base URL, default "+hooks.DefaultBaseURL)
	flags.StringVar(&values[0], "1", "", "value1")
	flags.StringVar(&values[1], "2", "", "value2")
	flags.StringVar(&values[2], "3", "", "value3")
	flags.BoolVar(&debug, "debug", false, "Print the URL and response. Shows the API key!")
	flags.StringVar(&fetch, "fetch", "", "Print the fingerprint and certificate of host:port and exit")
	flags.BoolVar(&help, "h", false, "Print help message.")

	err := flags.Parse(args)
	if err != nil || help {
		printUsage(flags, errOut, "")
		return exitUsage
	}

	if fetch != "" {
		return runFetch(fetch, out, errOut)
	}

	cfg := config.GetDefaultConfig()
	if configFile != "" {
		err = cfg.LoadFile(configFile)
		if err != nil {
			fmt.Fprintf(errOut, "Error reading configuration: %s\n", err)
			return exitBadConfig
		}
	}
	err = cfg.LoadEnv(config.EnvPrefix)
	if err != nil {
		fmt.Fprintf(errOut, "Error reading environment: %s\n", err)
		return exitBadConfig
	}

	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	if set["k"] {
		cfg.APIKey = apiKey
	}
	if set["e"] {
		cfg.Event = event
	}
	if set["m"] {
		cfg.Mode = mode
	}
	if set["f"] {
		cfg.Fingerprint = fingerprint
	}
	if set["c"] {
		cfg.Certificate = ""
		cfg.CertificateFile = certFile
	}
	if set["u"] {
		cfg.BaseURL = baseURL
	}
	if set["debug"] {
		cfg.Debug = debug
	}

	var logger log.Logger
	if cfg.Debug {
		logger = log.New(errOut, true)
	} else {
		logger = log.Glog(debugLevel)
	}

	hook, err := cfg.NewWebHook(logger)
	if err != nil {
		printUsage(flags, errOut, err.Error())
		return exitBadConfig
	}

	var v [3]*string
	for i, name := range []string{"1", "2", "3"} {
		if set[name] {
			v[i] = hooks.Value(values[i])
		}
	}

	glog.V(1).Infof("Triggering event %s", hook.Event())
	if hook.TriggerValues(v[0], v[1], v[2]) != hooks.StatusOK {
		fmt.Fprintf(errOut, "Event %s failed\n", hook.Event())
		return exitFailed
	}
	fmt.Fprintf(out, "Event %s triggered\n", hook.Event())
	return exitOK
}

func runFetch(addr string, out, errOut io.Writer) int {
	fp, pemText, err := communication.FetchFingerprint(addr)
	if err != nil {
		fmt.Fprintf(errOut, "Error fetching certificate from %s: %s\n", addr, err)
		return exitFetch
	}
	fmt.Fprintf(out, "fingerprint: %s\n", fp)
	fmt.Fprint(out, pemText)
	return exitOK
}

func printUsage(flags *flag.FlagSet, errOut io.Writer, msg string) {
	if msg != "" {
		fmt.Fprintln(errOut, msg)
		fmt.Fprintln(errOut)
	}
	fmt.Fprintln(errOut, "Usage:")
	flags.PrintDefaults()
	fmt.Fprintln(errOut)
	fmt.Fprintln(errOut, "Examples:")
	fmt.Fprintln(errOut, "  trigger -k MY_KEY -e door_open -1 front")
	fmt.Fprintln(errOut, "  trigger -fetch maker.ifttt.com:443")
}
