package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/30x/iftttwebhook/communication"
	"github.com/30x/iftttwebhook/hooks"
	"github.com/30x/iftttwebhook/log"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix of the environment variables read by LoadEnv.
const EnvPrefix = "IFTTT"

/*
Config describes which event to trigger and how to authenticate the server.
It can be read from YAML, and any field can be overridden from the
environment, for example IFTTT_API_KEY or IFTTT_CERTIFICATE_FILE.
If neither Fingerprint, Certificate nor CertificateFile is set, the
compiled-in identity for the mode is used.
*/
type Config struct {
	APIKey          string `yaml:"apiKey" split_words:"true"`
	Event           string `yaml:"event"`
	Mode            string `yaml:"mode,omitempty"`
	Fingerprint     string `yaml:"fingerprint,omitempty"`
	Certificate     string `yaml:"certificate,omitempty"`
	CertificateFile string `yaml:"certificateFile,omitempty" split_words:"true"`
	BaseURL         string `yaml:"baseURL,omitempty" split_words:"true"`
	Debug           bool   `yaml:"debug,omitempty"`
}

/*
GetDefaultConfig should be used as the basis for any configuration changes.
*/
func GetDefaultConfig() *Config {
	return &Config{
		Mode:    string(communication.DefaultMode),
		BaseURL: hooks.DefaultBaseURL,
	}
}

/*
Load overlays the configuration with a bunch of YAML. Fields that are not
present in the YAML are left alone.
*/
func (c *Config) Load(buf []byte) error {
	err := yaml.Unmarshal(buf, c)
	if err != nil {
		return fmt.Errorf("Error parsing configuration: %s", err)
	}
	return nil
}

/*
LoadFile loads configuration from a file.
*/
func (c *Config) LoadFile(fileName string) error {
	buf, err := ioutil.ReadFile(fileName)
	if err != nil {
		return err
	}
	return c.Load(buf)
}

/*
LoadEnv overrides the configuration with any environment variables that
start with "prefix". Unset variables leave the field alone.
*/
func (c *Config) LoadEnv(prefix string) error {
	return envconfig.Process(prefix, c)
}

/*
Store returns the encoded configuration as a byte slice.
*/
func (c *Config) Store() ([]byte, error) {
	return yaml.Marshal(c)
}

/*
StoreFile writes the configuration to a file. The file contains the API key,
so it is only readable by its owner.
*/
func (c *Config) StoreFile(fileName string) error {
	buf, err := c.Store()
	if err != nil {
		return err
	}
	return ioutil.WriteFile(fileName, buf, 0600)
}

/*
Validate returns an error if there is not enough information to trigger
an event, or if the identity for the mode cannot be used.
*/
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API key must be set")
	}
	if c.Event == "" {
		return fmt.Errorf("Event name must be set")
	}
	mode, err := c.IdentityMode()
	if err != nil {
		return err
	}
	if mode == communication.ModeFingerprint && c.Fingerprint != "" {
		_, err = communication.ParseFingerprint(c.Fingerprint)
		return err
	}
	if mode == communication.ModeCertificate {
		cert, err := c.Identity()
		if err != nil {
			return err
		}
		if !strings.Contains(cert, "-----BEGIN CERTIFICATE-----") {
			return fmt.Errorf("Certificate is not in PEM format")
		}
	}
	return nil
}

/*
IdentityMode returns how the server identity is checked.
*/
func (c *Config) IdentityMode() (communication.Mode, error) {
	return communication.ParseMode(c.Mode)
}

/*
Identity returns the fingerprint or PEM certificate to use for the mode,
reading CertificateFile if needed.
*/
func (c *Config) Identity() (string, error) {
	mode, err := c.IdentityMode()
	if err != nil {
		return "", err
	}

	switch {
	case mode == communication.ModeFingerprint && c.Fingerprint != "":
		return c.Fingerprint, nil
	case mode == communication.ModeCertificate && c.Certificate != "":
		return c.Certificate, nil
	case mode == communication.ModeCertificate && c.CertificateFile != "":
		buf, err := ioutil.ReadFile(c.CertificateFile)
		if err != nil {
			return "", fmt.Errorf("Error reading certificate: %s", err)
		}
		return string(buf), nil
	default:
		return communication.DefaultIdentity(mode), nil
	}
}

/*
NewWebHook validates the configuration and creates a WebHook from it.
*/
func (c *Config) NewWebHook(logger log.Logger) (*hooks.WebHook, error) {
	err := c.Validate()
	if err != nil {
		return nil, err
	}
	mode, _ := c.IdentityMode()
	identity, err := c.Identity()
	if err != nil {
		return nil, err
	}

	opts := []hooks.Option{
		hooks.WithMode(mode),
		hooks.WithLogger(logger),
	}
	if c.BaseURL != "" {
		opts = append(opts, hooks.WithBaseURL(strings.TrimSuffix(c.BaseURL, "/")))
	}
	return hooks.NewWithIdentity(c.APIKey, c.Event, identity, opts...), nil
}

/*
FileExists is a convenience for deciding whether to load a default file.
*/
func FileExists(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
