package actions

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/relloyd/stagecopy/config"
	"github.com/relloyd/stagecopy/helper"
)

// DefaultConfig describes a default flag value held in the main config file.
type DefaultConfig struct {
	ConfigFile ConnectionGetterSetter
	Key        string `errorTxt:"key" mandatory:"yes"`
	Value      string
	Force      bool
	KnownKeys  []string // flag names that may be given defaults; empty allows anything
	Output     io.Writer
}

func (c *DefaultConfig) out() io.Writer {
	if c.Output == nil {
		return os.Stdout
	}
	return c.Output
}

func (c *DefaultConfig) checkKey() error {
	if len(c.KnownKeys) == 0 {
		return nil
	}
	for _, k := range c.KnownKeys {
		if k == c.Key {
			return nil
		}
	}
	return helper.NewValidationError("unknown flag %q cannot be given a default value", c.Key)
}

// RunDefaultAdd adds key+value to the given config file.
// If cfg.Force is not set then it returns an error when the key exists.
func RunDefaultAdd(cfg *DefaultConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil { // if the basics were not supplied...
		return err
	}
	if cfg.Value == "" {
		return helper.NewValidationError("please supply a value")
	}
	if err := cfg.checkKey(); err != nil {
		return err
	}
	var val string
	err := cfg.ConfigFile.Get(cfg.Key, &val)
	if err == nil && !cfg.Force { // if key exists and we're not allowed to overwrite...
		return fmt.Errorf("key %q exists, use force to update the value or remove it first", cfg.Key)
	} else if err != nil && !errors.As(err, &config.KeyNotFoundError{}) { // else if there was an unexpected error...
		return err
	}
	if err = cfg.ConfigFile.Set(cfg.Key, cfg.Value); err != nil {
		return errors.Wrap(err, "error writing config file after adding")
	}
	_, _ = fmt.Fprintf(cfg.out(), "Key %q added\n", cfg.Key)
	return nil
}

// RunDefaultRemove removes a key from the given config file.
func RunDefaultRemove(cfg *DefaultConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	if err := cfg.ConfigFile.Delete(cfg.Key); err != nil {
		return fmt.Errorf("unable to delete key %q from config: %v", cfg.Key, err)
	}
	_, _ = fmt.Fprintf(cfg.out(), "Key %q removed\n", cfg.Key)
	return nil
}

// RunDefaultList prints key=value for every default in the config file.
func RunDefaultList(cfg *DefaultConfig) error {
	keys, err := cfg.ConfigFile.GetAllKeys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		var val string
		if err := cfg.ConfigFile.Get(k, &val); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cfg.out(), "%v=%v\n", k, val)
	}
	return nil
}
