package cmd

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/isometry/media-webhook-relay/internal/helpers"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var replacer = strings.NewReplacer(".", "_", "-", "_")

// overrides re-apply explicitly set flags and environment variables on top of the configuration file.
var overrides []func()

func applyOverrides() {
	for _, fn := range overrides {
		fn()
	}
}

type argType interface {
	string | bool | int | uint | time.Duration | []string
}

// envName returns the explicit environment variable of cfg, or one derived from the flag name.
func envName[T argType](cfg boundEnvVar[T]) string {
	if name := helpers.String(cfg.Env); name != "" {
		return name
	}
	return strings.ToUpper(replacer.Replace(cfg.Name))
}

func bindEnvMap[T argType](cmd *cobra.Command, m map[*T]boundEnvVar[T]) {
	for v, cfg := range m {
		env := envName(cfg)
		desc := fmt.Sprintf("[%s] %s", env, cfg.Description)
		_, found := os.LookupEnv(env)

		switch vt := any(v).(type) {
		case *string:
			def := any(*v).(string)
			if found {
				def = os.Getenv(env)
			}
			if cfg.Short == nil {
				cmd.PersistentFlags().StringVar(vt, cfg.Name, def, desc)
			} else {
				cmd.PersistentFlags().StringVarP(vt, cfg.Name, *cfg.Short, def, desc)
			}
		case *bool:
			def := any(*v).(bool)
			if found {
				def = viper.GetBool(env)
			}
			if cfg.Short == nil {
				cmd.PersistentFlags().BoolVar(vt, cfg.Name, def, desc)
			} else {
				cmd.PersistentFlags().BoolVarP(vt, cfg.Name, *cfg.Short, def, desc)
			}
		case *int:
			def := any(*v).(int)
			if cfg.Short == nil {
				cmd.PersistentFlags().CountVar(vt, cfg.Name, desc)
			} else {
				cmd.PersistentFlags().CountVarP(vt, cfg.Name, *cfg.Short, desc)
			}
			_ = cmd.PersistentFlags().Lookup(cfg.Name).Value.Set(strconv.Itoa(def))
		case *uint:
			def := any(*v).(uint)
			if found {
				def = viper.GetUint(env)
			}
			if cfg.Short == nil {
				cmd.PersistentFlags().UintVar(vt, cfg.Name, def, desc)
			} else {
				cmd.PersistentFlags().UintVarP(vt, cfg.Name, *cfg.Short, def, desc)
			}
		case *time.Duration:
			def := any(*v).(time.Duration)
			if found {
				def = viper.GetDuration(env)
			}
			if cfg.Short == nil {
				cmd.PersistentFlags().DurationVar(vt, cfg.Name, def, desc)
			} else {
				cmd.PersistentFlags().DurationVarP(vt, cfg.Name, *cfg.Short, def, desc)
			}
		case *[]string:
			def := any(*v).([]string)
			if found {
				def = viper.GetStringSlice(env)
			}
			if cfg.Short == nil {
				cmd.PersistentFlags().StringSliceVar(vt, cfg.Name, def, desc)
			} else {
				cmd.PersistentFlags().StringSliceVarP(vt, cfg.Name, *cfg.Short, def, desc)
			}
		default:
			log.Panicf("command-args parsing error: unhandled default case for type %T", vt)
		}

		_ = viper.BindPFlag(cfg.Name, cmd.PersistentFlags().Lookup(cfg.Name))
		_ = viper.BindEnv(cfg.Name, env)
		overrides = append(overrides, override(v, cfg.Name))

		if cfg.Hidden {
			_ = cmd.PersistentFlags().MarkHidden(cfg.Name)
		}
	}
}

// override sets *v from viper when the flag was changed or its environment variable is set.
func override[T argType](v *T, name string) func() {
	return func() {
		if !viper.IsSet(name) {
			return
		}
		switch vt := any(v).(type) {
		case *string:
			*vt = viper.GetString(name)
		case *bool:
			*vt = viper.GetBool(name)
		case *int:
			*vt = viper.GetInt(name)
		case *uint:
			*vt = viper.GetUint(name)
		case *time.Duration:
			*vt = viper.GetDuration(name)
		case *[]string:
			*vt = viper.GetStringSlice(name)
		}
	}
}
