package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PlanConfig carries the plan limits enforced by the membership gates and
// the moderation workflow.
type PlanConfig struct {
	MaxLeaguesPerUser   int `mapstructure:"maxLeaguesPerUser"`
	MaxMembersPerLeague int `mapstructure:"maxMembersPerLeague"`
	MaxSuspensionDays   int `mapstructure:"maxSuspensionDays"`
	InviteTTLDays       int `mapstructure:"inviteTTLDays"`
}

func DefaultPlanConfig() PlanConfig {
	return PlanConfig{
		MaxLeaguesPerUser:   10,
		MaxMembersPerLeague: 50,
		MaxSuspensionDays:   90,
		InviteTTLDays:       14,
	}
}

// PlanConfigHolder holds the current plan limits and supports hot reload.
type PlanConfigHolder struct {
	current atomic.Value // holds PlanConfig
}

// NewPlanConfigHolder loads plans.yml (falling back to defaults when absent)
// and watches it for changes.
func NewPlanConfigHolder() (*PlanConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("plans")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/competiscore/config")
	v.AddConfigPath("/etc/competiscore")
	v.AddConfigPath(".")

	v.SetEnvPrefix("COMPETISCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultPlanConfig()
		v.SetDefault("plans.maxLeaguesPerUser", defaults.MaxLeaguesPerUser)
		v.SetDefault("plans.maxMembersPerLeague", defaults.MaxMembersPerLeague)
		v.SetDefault("plans.maxSuspensionDays", defaults.MaxSuspensionDays)
		v.SetDefault("plans.inviteTTLDays", defaults.InviteTTLDays)
	}

	var cfg PlanConfig
	if err := v.UnmarshalKey("plans", &cfg); err != nil {
		return nil, err
	}
	if err := validatePlanConfig(cfg); err != nil {
		return nil, err
	}

	holder := &PlanConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PlanConfig
		if err := v.UnmarshalKey("plans", &updated); err != nil {
			log.Printf("[plan-config] reload failed: %v", err)
			return
		}
		if err := validatePlanConfig(updated); err != nil {
			log.Printf("[plan-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[plan-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticPlanConfigHolder returns a holder pinned to cfg. Used by tests.
func NewStaticPlanConfigHolder(cfg PlanConfig) *PlanConfigHolder {
	holder := &PlanConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *PlanConfigHolder) Get() PlanConfig {
	return h.current.Load().(PlanConfig)
}

func validatePlanConfig(cfg PlanConfig) error {
	if cfg.MaxLeaguesPerUser <= 0 {
		return errors.New("plans.maxLeaguesPerUser must be positive")
	}
	if cfg.MaxMembersPerLeague <= 0 {
		return errors.New("plans.maxMembersPerLeague must be positive")
	}
	if cfg.MaxSuspensionDays <= 0 {
		return errors.New("plans.maxSuspensionDays must be positive")
	}
	if cfg.InviteTTLDays <= 0 {
		return errors.New("plans.inviteTTLDays must be positive")
	}
	return nil
}
