package xmain

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"oss.terrastruct.com/xos"
)

// Opts declares flags that fall back to environment variables. A flag given on the
// command line wins over its variable.
type Opts struct {
	Args  []string
	Flags *pflag.FlagSet
	env   *xos.Env

	registeredEnvs []string
}

func NewOpts(env *xos.Env, args []string) *Opts {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.Usage = func() {}
	flags.SetOutput(io.Discard)
	return &Opts{
		Args:  args,
		Flags: flags,
		env:   env,
	}
}

// Parse parses Args. help reports whether -h or --help was passed.
func (o *Opts) Parse() (help bool, err error) {
	err = o.Flags.Parse(o.Args)
	if errors.Is(err, pflag.ErrHelp) {
		return true, nil
	}
	if err != nil {
		return false, UsageErrorf("failed to parse flags: %v", err)
	}
	return false, nil
}

// Defaults renders every flag with its usage wrapped to 80 columns, followed by the
// environment variables the flags read.
func (o *Opts) Defaults() string {
	b := &strings.Builder{}
	o.Flags.VisitAll(func(f *pflag.Flag) {
		line := "  "
		if f.Shorthand != "" {
			line += fmt.Sprintf("-%s, ", f.Shorthand)
		}
		line += "--" + f.Name
		if typ, _ := pflag.UnquoteUsage(f); typ != "" {
			line += " " + typ
		}
		const col = 28
		if len(line) < col {
			line += strings.Repeat(" ", col-len(line))
		} else {
			line += "\n" + strings.Repeat(" ", col)
		}
		usage := f.Usage
		if f.DefValue != "" && f.DefValue != "false" {
			usage += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		b.WriteString(line + wrap(col, 80, usage) + "\n")
	})

	if len(o.registeredEnvs) > 0 {
		b.WriteString("\nYou may persistently set the following as environment variables (flags take precedent):\n")
		for _, e := range o.registeredEnvs {
			fmt.Fprintf(b, "- $%s\n", e)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (o *Opts) getEnv(k string) string {
	if k == "" {
		return ""
	}
	o.registeredEnvs = append(o.registeredEnvs, k)
	return o.env.Getenv(k)
}

func (o *Opts) String(envKey, flag, shortFlag string, defaultVal, usage string) *string {
	if env := o.getEnv(envKey); env != "" {
		defaultVal = env
	}
	return o.Flags.StringP(flag, shortFlag, defaultVal, usage)
}

func (o *Opts) Bool(envKey, flag, shortFlag string, defaultVal bool, usage string) (*bool, error) {
	if env := o.getEnv(envKey); env != "" {
		switch env {
		case "1", "true":
			defaultVal = true
		case "0", "false":
			defaultVal = false
		default:
			return nil, fmt.Errorf(`invalid environment variable %s. Expected bool. Found %q.`, envKey, env)
		}
	}
	return o.Flags.BoolP(flag, shortFlag, defaultVal, usage), nil
}

func (o *Opts) Int64(envKey, flag, shortFlag string, defaultVal int64, usage string) (*int64, error) {
	if env := o.getEnv(envKey); env != "" {
		v, err := strconv.ParseInt(env, 10, 64)
		if err != nil {
			return nil, fmt.Errorf(`invalid environment variable %s. Expected int64. Found %q.`, envKey, env)
		}
		defaultVal = v
	}
	return o.Flags.Int64P(flag, shortFlag, defaultVal, usage), nil
}

func (o *Opts) Float64(envKey, flag, shortFlag string, defaultVal float64, usage string) (*float64, error) {
	if env := o.getEnv(envKey); env != "" {
		v, err := strconv.ParseFloat(env, 64)
		if err != nil {
			return nil, fmt.Errorf(`invalid environment variable %s. Expected float64. Found %q.`, envKey, env)
		}
		defaultVal = v
	}
	return o.Flags.Float64P(flag, shortFlag, defaultVal, usage), nil
}
