package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/example/pinchcrop/internal/config"
)

type configCmd struct {
	*root
	fs *flag.FlagSet
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{root: r.subcommand("config"), fs: fs}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}
	switch args[0] {
	case "print":
		fmt.Print(c.cfg().String())
		return nil
	case "save":
		return c.runSave()
	case "themes":
		active := c.theme().Name
		for _, name := range c.cfg().ThemeNames(nil) {
			mark := " "
			if strings.EqualFold(name, active) {
				mark = "*"
			}
			fmt.Printf("%s %s\n", mark, name)
		}
		return nil
	default:
		return &UsageError{of: c, msg: fmt.Sprintf("unknown config command: %s", args[0])}
	}
}

func (c *configCmd) runSave() error {
	// Save over the file that was loaded, if any.
	path := config.NewLoader(version, configPathOverride).GetConfigPath()
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return fmt.Errorf("failed to get user home dir: %w", err)
		}
	}
	if err := config.Save(c.cfg(), path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
	return nil
}
